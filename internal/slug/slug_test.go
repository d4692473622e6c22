package slug

import "testing"

// TestGenerate exercises the slug generator with typical category names,
// special characters, accented input, and boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal names ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "name with year",
			input: "Project Development 2026",
			want:  "project-development-2026",
		},
		{
			name:  "already lowercase",
			input: "already lowercase",
			want:  "already-lowercase",
		},
		{
			name:  "single word",
			input: "Research",
			want:  "research",
		},

		// --- Special characters ---
		{
			name:  "punctuation marks",
			input: "Data Analysis, Reports & Charts!",
			want:  "data-analysis-reports-charts",
		},
		{
			name:  "parentheses and brackets",
			input: "Templates (v2.0) [Draft]",
			want:  "templates-v20-draft",
		},
		{
			name:  "apostrophes",
			input: "Editor's Picks",
			want:  "editors-picks",
		},
		{
			name:  "slashes",
			input: "Planning/Strategy",
			want:  "planningstrategy",
		},

		// --- Accented input ---
		{
			name:  "accents transliterated",
			input: "Café Résumé",
			want:  "cafe-resume",
		},
		{
			name:  "same slug as unaccented form",
			input: "Cafe Resume",
			want:  "cafe-resume",
		},
		{
			name:  "eszett expanded",
			input: "Straße",
			want:  "strasse",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "!!! ???",
			want:  "",
		},
		{
			name:  "leading and trailing whitespace",
			input: "   Spaced Out   ",
			want:  "spaced-out",
		},
		{
			name:  "multiple internal spaces",
			input: "Too    Many   Spaces",
			want:  "too-many-spaces",
		},
		{
			name:  "existing hyphens preserved",
			input: "Pre-Formatted Name",
			want:  "pre-formatted-name",
		},
		{
			name:  "consecutive hyphens collapsed",
			input: "a -- b --- c",
			want:  "a-b-c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Deterministic: the same input always yields the same slug.
func TestGenerateDeterministic(t *testing.T) {
	input := "Machine Learning & AI"
	first := Generate(input)
	for i := 0; i < 5; i++ {
		if got := Generate(input); got != first {
			t.Fatalf("Generate not deterministic: %q vs %q", got, first)
		}
	}
}
