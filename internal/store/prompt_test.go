package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"promptlib/internal/apperrors"
	"promptlib/internal/models"
)

func TestPromptArchiveHidesFromPublic(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	prompts := NewPromptStore(db)

	suffix := uuid.New().String()[:8]
	cat, err := cats.Create("Archive Cat "+suffix, "", nil)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, cat.Slug) })

	title := "Archive Prompt " + suffix
	p, err := prompts.Create(&models.Prompt{
		Title: title, Body: "body", CategoryID: cat.ID,
		Status: models.PromptStatusPublished,
	})
	if err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	t.Cleanup(func() { cleanPrompts(t, db, title) })

	if err := prompts.Archive(p.ID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	pub, err := prompts.FindPublished(p.ID)
	if err != nil {
		t.Fatalf("FindPublished failed: %v", err)
	}
	if pub != nil {
		t.Error("archived prompt still visible to public readers")
	}

	// Admin reads keep working and show the archived state.
	admin, err := prompts.FindByID(p.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if admin == nil {
		t.Fatal("archived prompt vanished from admin read")
	}
	if admin.Status != models.PromptStatusArchived {
		t.Errorf("status = %s, want archived", admin.Status)
	}
}

func TestPromptUpdateUnknownID(t *testing.T) {
	db := testDB(t)
	prompts := NewPromptStore(db)

	err := prompts.Update(&models.Prompt{
		ID: uuid.New(), Title: "nope", Body: "nope",
		CategoryID: uuid.New(), Status: models.PromptStatusDraft,
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestPromptSearchPublished(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	prompts := NewPromptStore(db)

	suffix := uuid.New().String()[:8]
	root, err := cats.Create("Search Root "+suffix, "", nil)
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	child, err := cats.Create("Search Child "+suffix, "", &root.ID)
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, child.Slug, root.Slug) })

	marker := "zq" + suffix // unlikely to collide with existing rows
	inChild := "Search " + marker + " child"
	drafted := "Search " + marker + " draft"
	if _, err := prompts.Create(&models.Prompt{
		Title: inChild, Body: "body", CategoryID: child.ID,
		Status: models.PromptStatusPublished,
	}); err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	if _, err := prompts.Create(&models.Prompt{
		Title: drafted, Body: "body", CategoryID: child.ID,
		Status: models.PromptStatusDraft,
	}); err != nil {
		t.Fatalf("create draft: %v", err)
	}
	t.Cleanup(func() { cleanPrompts(t, db, inChild, drafted) })

	// Text search finds the published prompt only.
	results, err := prompts.SearchPublished(marker, nil, nil)
	if err != nil {
		t.Fatalf("SearchPublished failed: %v", err)
	}
	if len(results) != 1 || results[0].Title != inChild {
		t.Errorf("results = %v, want only %q", titles(results), inChild)
	}

	// Filtering by the root category's subtree includes prompts in
	// descendant categories.
	subtree, err := cats.SubtreeIDs(root.ID)
	if err != nil {
		t.Fatalf("SubtreeIDs failed: %v", err)
	}
	ids := make([]uuid.UUID, 0, len(subtree))
	for id := range subtree {
		ids = append(ids, id)
	}
	results, err = prompts.SearchPublished(marker, ids, nil)
	if err != nil {
		t.Fatalf("SearchPublished with category filter failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("subtree filter returned %d results, want 1", len(results))
	}

	// A disjoint category filter excludes everything.
	other := uuid.New()
	results, err = prompts.SearchPublished(marker, []uuid.UUID{other}, nil)
	if err != nil {
		t.Fatalf("SearchPublished with disjoint filter failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("disjoint filter returned %d results, want 0", len(results))
	}
}

func titles(prompts []models.Prompt) []string {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		out[i] = p.Title
	}
	return out
}
