package listing

import (
	"fmt"
	"testing"

	"promptlib/internal/models"
)

func makePrompts(n int) []models.Prompt {
	out := make([]models.Prompt, n)
	for i := range out {
		out[i].Title = fmt.Sprintf("prompt %d", i)
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		page, pageSize int
		wantLen        int
		wantPages      int
		wantFirst      string
	}{
		{"first page", 45, 1, 20, 20, 3, "prompt 0"},
		{"middle page", 45, 2, 20, 20, 3, "prompt 20"},
		{"last partial page", 45, 3, 20, 5, 3, "prompt 40"},
		{"page past end", 45, 9, 20, 0, 3, ""},
		{"exact fit", 40, 2, 20, 20, 2, "prompt 20"},
		{"empty set", 0, 1, 20, 0, 0, ""},
		{"zero page clamps to one", 5, 0, 20, 5, 1, "prompt 0"},
		{"zero size uses default", 45, 1, 0, 20, 3, "prompt 0"},
		{"oversized page size capped", 500, 1, 1000, 100, 5, "prompt 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := paginate(makePrompts(tt.total), tt.page, tt.pageSize)
			if len(r.Prompts) != tt.wantLen {
				t.Errorf("page length = %d, want %d", len(r.Prompts), tt.wantLen)
			}
			if r.Total != tt.total {
				t.Errorf("Total = %d, want %d", r.Total, tt.total)
			}
			if r.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", r.TotalPages, tt.wantPages)
			}
			if tt.wantLen > 0 && r.Prompts[0].Title != tt.wantFirst {
				t.Errorf("first item = %q, want %q", r.Prompts[0].Title, tt.wantFirst)
			}
		})
	}
}

func TestPaginateTotalIsPrePagination(t *testing.T) {
	r := paginate(makePrompts(7), 2, 5)
	if r.Total != 7 {
		t.Errorf("Total = %d, want 7", r.Total)
	}
	if len(r.Prompts) != 2 {
		t.Errorf("second page length = %d, want 2", len(r.Prompts))
	}
}
