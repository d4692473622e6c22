// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"promptlib/internal/apperrors"
	"promptlib/internal/models"
)

// SubmissionStore owns the moderation workflow: submissions move from
// pending to approved or rejected exactly once, and approval promotes
// the submission into a published prompt.
type SubmissionStore struct {
	db *sql.DB
}

// NewSubmissionStore returns a new SubmissionStore.
func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

const submissionColumns = `id, title, body, category_id, subcategory_id,
	suggested_category_name, platforms, instructions, tags, status,
	submitted_by, reviewer_notes, approved_prompt_id, created_at, reviewed_at`

// scanSubmission scans a submission row, decoding the platforms column.
func scanSubmission(scanner interface{ Scan(...any) error }) (*models.Submission, error) {
	var sub models.Submission
	var platforms *string
	err := scanner.Scan(
		&sub.ID, &sub.Title, &sub.Body, &sub.CategoryID, &sub.SubcategoryID,
		&sub.SuggestedCategoryName, &platforms, &sub.Instructions, &sub.Tags,
		&sub.Status, &sub.SubmittedBy, &sub.ReviewerNotes, &sub.ApprovedPromptID,
		&sub.CreatedAt, &sub.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.Platforms = models.DecodePlatforms(platforms)
	return &sub, nil
}

// Create inserts a new pending submission. Exactly one of CategoryID
// and SuggestedCategoryName must be set; anything else is rejected.
func (s *SubmissionStore) Create(sub *models.Submission) (*models.Submission, error) {
	hasCategory := sub.CategoryID != nil
	hasSuggestion := sub.SuggestedCategoryName != nil && *sub.SuggestedCategoryName != ""
	if hasCategory == hasSuggestion {
		return nil, apperrors.Validationf(
			"exactly one of category_id and suggested_category_name must be provided")
	}

	row := s.db.QueryRow(`
		INSERT INTO submissions (title, body, category_id, subcategory_id,
			suggested_category_name, platforms, instructions, tags, submitted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+submissionColumns,
		sub.Title, sub.Body, sub.CategoryID, sub.SubcategoryID,
		sub.SuggestedCategoryName, models.EncodePlatforms(sub.Platforms),
		sub.Instructions, sub.Tags, sub.SubmittedBy,
	)
	created, err := scanSubmission(row)
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return created, nil
}

// FindByID retrieves a submission. Returns nil if not found.
func (s *SubmissionStore) FindByID(id uuid.UUID) (*models.Submission, error) {
	row := s.db.QueryRow(`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find submission by id: %w", err)
	}
	return sub, nil
}

// ListByStatus returns submissions in the given state, oldest first so
// the review queue is processed in arrival order.
func (s *SubmissionStore) ListByStatus(status models.SubmissionStatus) ([]models.Submission, error) {
	rows, err := s.db.Query(`
		SELECT `+submissionColumns+` FROM submissions
		WHERE status = $1 ORDER BY created_at ASC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var items []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		items = append(items, *sub)
	}
	return items, rows.Err()
}

// CategoryResolution tells an approval how to resolve a submission that
// carries a suggested category name: map it to an existing category or
// create a new one (deduped by name and slug).
type CategoryResolution struct {
	UseExisting *uuid.UUID
	CreateNew   string
}

// Review applies a moderation decision to a pending submission. The
// transition is terminal; reviewing an already-reviewed submission is a
// conflict. On approval the category resolution, the prompt creation,
// and the submission update all commit in one transaction, so a
// half-applied approval is impossible. Returns the updated submission
// and, on approval, the created prompt.
func (s *SubmissionStore) Review(id uuid.UUID, decision models.SubmissionStatus, reviewerNotes string, resolution *CategoryResolution) (*models.Submission, *models.Prompt, error) {
	if decision != models.SubmissionStatusApproved && decision != models.SubmissionStatusRejected {
		return nil, nil, apperrors.Validationf("invalid decision %q", decision)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Lock the submission row for the duration of the review so two
	// concurrent moderators cannot both see it pending.
	row := tx.QueryRow(`
		SELECT `+submissionColumns+` FROM submissions WHERE id = $1 FOR UPDATE
	`, id)
	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("review submission %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("review submission: %w", err)
	}
	if sub.IsTerminal() {
		return nil, nil, fmt.Errorf("submission %s already %s: %w", id, sub.Status, apperrors.ErrConflict)
	}

	now := time.Now()

	var prompt *models.Prompt
	if decision == models.SubmissionStatusApproved {
		categoryID, err := resolveCategory(tx, sub, resolution)
		if err != nil {
			return nil, nil, err
		}

		prompt, err = createPrompt(tx, &models.Prompt{
			Title:         sub.Title,
			Body:          sub.Body,
			CategoryID:    categoryID,
			SubcategoryID: sub.SubcategoryID,
			Platforms:     sub.Platforms,
			Instructions:  sub.Instructions,
			Tags:          sub.Tags,
			Status:        models.PromptStatusPublished,
			CreatedBy:     sub.SubmittedBy,
		})
		if err != nil {
			return nil, nil, err
		}

		sub.CategoryID = &categoryID
		sub.ApprovedPromptID = &prompt.ID
	}

	sub.Status = decision
	sub.ReviewerNotes = &reviewerNotes
	sub.ReviewedAt = &now

	_, err = tx.Exec(`
		UPDATE submissions SET
			status = $1, reviewer_notes = $2, reviewed_at = $3,
			category_id = $4, approved_prompt_id = $5
		WHERE id = $6
	`, sub.Status, sub.ReviewerNotes, sub.ReviewedAt,
		sub.CategoryID, sub.ApprovedPromptID, sub.ID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("update submission: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit review: %w", err)
	}
	return sub, prompt, nil
}

// resolveCategory determines the final category for an approval. A
// submission with a concrete category_id uses it directly; one carrying
// a suggested name needs the moderator's resolution.
func resolveCategory(q querier, sub *models.Submission, resolution *CategoryResolution) (uuid.UUID, error) {
	if sub.SuggestedCategoryName == nil || *sub.SuggestedCategoryName == "" {
		if sub.CategoryID == nil {
			return uuid.Nil, apperrors.Validationf("a valid category is required for approval")
		}
		return *sub.CategoryID, nil
	}

	if resolution == nil {
		return uuid.Nil, apperrors.Validationf(
			"a category resolution is required: the submitter suggested %q", *sub.SuggestedCategoryName)
	}

	if resolution.UseExisting != nil {
		row := q.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, *resolution.UseExisting)
		c, err := scanCategory(row)
		if err == sql.ErrNoRows {
			return uuid.Nil, fmt.Errorf("resolution category %s: %w", *resolution.UseExisting, apperrors.ErrNotFound)
		}
		if err != nil {
			return uuid.Nil, fmt.Errorf("find resolution category: %w", err)
		}
		return c.ID, nil
	}

	if resolution.CreateNew != "" {
		c, err := createOrReuseCategory(q, resolution.CreateNew, "", nil)
		if err != nil {
			return uuid.Nil, err
		}
		return c.ID, nil
	}

	return uuid.Nil, apperrors.Validationf("a valid category is required for approval")
}

// PendingCount returns the size of the review queue.
func (s *SubmissionStore) PendingCount() (int, error) {
	n, err := countRows(s.db, `SELECT COUNT(*) FROM submissions WHERE status = 'pending'`)
	if err != nil {
		return 0, fmt.Errorf("count pending submissions: %w", err)
	}
	return n, nil
}
