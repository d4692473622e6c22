package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"promptlib/internal/apperrors"
	"promptlib/internal/models"
)

func TestSubmissionCreateRequiresOneCategoryField(t *testing.T) {
	db := testDB(t)
	s := NewSubmissionStore(db)

	suggested := "Some New Category"
	catID := uuid.New()

	tests := []struct {
		name string
		sub  models.Submission
	}{
		{"neither", models.Submission{Title: "t", Body: "b"}},
		{"both", models.Submission{Title: "t", Body: "b", CategoryID: &catID, SuggestedCategoryName: &suggested}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(&tt.sub)
			if !apperrors.IsValidation(err) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestSubmissionApproveWithExistingCategory(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	subs := NewSubmissionStore(db)
	prompts := NewPromptStore(db)

	suffix := uuid.New().String()[:8]
	cat, err := cats.Create("Approve Cat "+suffix, "", nil)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, cat.Slug) })

	title := "Approve Sub " + suffix
	sub, err := subs.Create(&models.Submission{
		Title: title, Body: "submitted body", CategoryID: &cat.ID,
		Platforms: []string{"ChatGPT"},
	})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	t.Cleanup(func() {
		cleanSubmissions(t, db, title)
		cleanPrompts(t, db, title)
	})

	reviewed, prompt, err := subs.Review(sub.ID, models.SubmissionStatusApproved, "looks good", nil)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if reviewed.Status != models.SubmissionStatusApproved {
		t.Errorf("status = %s, want approved", reviewed.Status)
	}
	if reviewed.ReviewedAt == nil {
		t.Error("reviewed_at not set")
	}
	if prompt == nil {
		t.Fatal("approval did not create a prompt")
	}
	if prompt.Status != models.PromptStatusPublished {
		t.Errorf("prompt status = %s, want published", prompt.Status)
	}
	if prompt.CategoryID != cat.ID {
		t.Errorf("prompt category = %s, want %s", prompt.CategoryID, cat.ID)
	}
	if reviewed.ApprovedPromptID == nil || *reviewed.ApprovedPromptID != prompt.ID {
		t.Error("submission does not link the created prompt")
	}

	// The prompt must be readable through the public path.
	pub, err := prompts.FindPublished(prompt.ID)
	if err != nil {
		t.Fatalf("FindPublished failed: %v", err)
	}
	if pub == nil {
		t.Error("approved prompt not visible as published")
	}
}

func TestSubmissionApproveCreatesSuggestedCategoryOnce(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	subs := NewSubmissionStore(db)

	suffix := uuid.New().String()[:8]
	suggested := "Suggested Cat " + suffix
	title := "Suggest Sub " + suffix

	sub, err := subs.Create(&models.Submission{
		Title: title, Body: "body", SuggestedCategoryName: &suggested,
	})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	t.Cleanup(func() {
		cleanSubmissions(t, db, title)
		cleanPrompts(t, db, title)
	})

	// Approving without a resolution is rejected while the submission
	// stays pending.
	if _, _, err := subs.Review(sub.ID, models.SubmissionStatusApproved, "", nil); !apperrors.IsValidation(err) {
		t.Fatalf("review without resolution: got %v, want validation error", err)
	}

	_, prompt, err := subs.Review(sub.ID, models.SubmissionStatusApproved, "",
		&CategoryResolution{CreateNew: suggested})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	created, err := cats.FindByID(prompt.CategoryID)
	if err != nil {
		t.Fatalf("find created category: %v", err)
	}
	if created == nil || created.Name != suggested {
		t.Fatalf("created category = %+v, want name %q", created, suggested)
	}
	// Rows must go before the category they reference.
	t.Cleanup(func() {
		cleanSubmissions(t, db, title)
		cleanPrompts(t, db, title)
		cleanCategories(t, db, created.Slug)
	})

	// The category was created exactly once.
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories WHERE name = $1", suggested).Scan(&n); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if n != 1 {
		t.Errorf("category created %d times, want 1", n)
	}
}

func TestSubmissionReviewIsTerminal(t *testing.T) {
	db := testDB(t)
	subs := NewSubmissionStore(db)

	suffix := uuid.New().String()[:8]
	title := "Terminal Sub " + suffix
	suggested := "Unused " + suffix
	sub, err := subs.Create(&models.Submission{
		Title: title, Body: "body", SuggestedCategoryName: &suggested,
	})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	t.Cleanup(func() { cleanSubmissions(t, db, title) })

	if _, _, err := subs.Review(sub.ID, models.SubmissionStatusRejected, "not a fit", nil); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	// A second decision of any kind must conflict.
	_, _, err = subs.Review(sub.ID, models.SubmissionStatusApproved, "",
		&CategoryResolution{CreateNew: suggested})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("second review: got %v, want ErrConflict", err)
	}
}

func TestSubmissionReviewUnknownID(t *testing.T) {
	db := testDB(t)
	subs := NewSubmissionStore(db)

	_, _, err := subs.Review(uuid.New(), models.SubmissionStatusRejected, "", nil)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
