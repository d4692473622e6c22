package models

import (
	"reflect"
	"testing"
)

// TestDecodePlatforms covers the JSON list format, the legacy scalar
// format from before the platforms migration, and malformed payloads.
func TestDecodePlatforms(t *testing.T) {
	strptr := func(s string) *string { return &s }

	tests := []struct {
		name string
		raw  *string
		want []string
	}{
		{
			name: "nil column",
			raw:  nil,
			want: nil,
		},
		{
			name: "empty string",
			raw:  strptr(""),
			want: nil,
		},
		{
			name: "json list",
			raw:  strptr(`["ChatGPT","Claude"]`),
			want: []string{"ChatGPT", "Claude"},
		},
		{
			name: "json empty list",
			raw:  strptr(`[]`),
			want: nil,
		},
		{
			name: "legacy scalar",
			raw:  strptr("ChatGPT"),
			want: []string{"ChatGPT"},
		},
		{
			name: "legacy scalar with whitespace",
			raw:  strptr("  Gemini  "),
			want: []string{"Gemini"},
		},
		{
			name: "malformed json decodes empty",
			raw:  strptr(`["ChatGPT",`),
			want: nil,
		},
		{
			name: "json list of wrong type decodes empty",
			raw:  strptr(`[1,2,3]`),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodePlatforms(tt.raw)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodePlatforms(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEncodePlatformsRoundTrip(t *testing.T) {
	platforms := []string{"ChatGPT", "Claude", "Perplexity"}
	encoded := EncodePlatforms(platforms)
	if encoded == nil {
		t.Fatal("expected non-nil encoding for non-empty list")
	}

	decoded := DecodePlatforms(encoded)
	if !reflect.DeepEqual(decoded, platforms) {
		t.Errorf("round trip: got %v, want %v", decoded, platforms)
	}
}

func TestEncodePlatformsEmpty(t *testing.T) {
	if got := EncodePlatforms(nil); got != nil {
		t.Errorf("expected nil for empty list, got %q", *got)
	}
	if got := EncodePlatforms([]string{}); got != nil {
		t.Errorf("expected nil for empty list, got %q", *got)
	}
}

func TestHasPlatform(t *testing.T) {
	p := Prompt{Platforms: []string{"ChatGPT", "Claude"}}
	if !p.HasPlatform("claude") {
		t.Error("expected case-insensitive platform match")
	}
	if p.HasPlatform("Gemini") {
		t.Error("did not expect match for absent platform")
	}
}
