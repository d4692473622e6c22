// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"promptlib/internal/apperrors"
	"promptlib/internal/models"
)

// PromptStore handles all prompt-related database operations. Prompts
// are never physically removed; "delete" is a soft transition to the
// archived status.
type PromptStore struct {
	db *sql.DB
}

// NewPromptStore creates a new PromptStore with the given database connection.
func NewPromptStore(db *sql.DB) *PromptStore {
	return &PromptStore{db: db}
}

const promptColumns = `id, title, body, category_id, subcategory_id, platforms,
	instructions, tags, status, created_by, created_at, updated_at`

// scanPrompt scans a prompt row, decoding the platforms column.
func scanPrompt(scanner interface{ Scan(...any) error }) (*models.Prompt, error) {
	var p models.Prompt
	var platforms *string
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Body, &p.CategoryID, &p.SubcategoryID, &platforms,
		&p.Instructions, &p.Tags, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Platforms = models.DecodePlatforms(platforms)
	return &p, nil
}

// Create inserts a new prompt and returns it with the generated ID.
func (s *PromptStore) Create(p *models.Prompt) (*models.Prompt, error) {
	created, err := createPrompt(s.db, p)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createPrompt runs against an arbitrary querier so moderation approval
// can create the prompt inside its own transaction.
func createPrompt(q querier, p *models.Prompt) (*models.Prompt, error) {
	if p.Status == "" {
		p.Status = models.PromptStatusDraft
	}
	row := q.QueryRow(`
		INSERT INTO prompts (title, body, category_id, subcategory_id, platforms,
		                     instructions, tags, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+promptColumns,
		p.Title, p.Body, p.CategoryID, p.SubcategoryID, models.EncodePlatforms(p.Platforms),
		p.Instructions, p.Tags, p.Status, p.CreatedBy,
	)
	created, err := scanPrompt(row)
	if err != nil {
		return nil, fmt.Errorf("create prompt: %w", err)
	}
	return created, nil
}

// FindByID retrieves a prompt by ID regardless of status. Admin-level
// reads use this to see drafts and archived rows. Returns nil if absent.
func (s *PromptStore) FindByID(id uuid.UUID) (*models.Prompt, error) {
	row := s.db.QueryRow(`SELECT `+promptColumns+` FROM prompts WHERE id = $1`, id)
	p, err := scanPrompt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find prompt by id: %w", err)
	}
	return p, nil
}

// FindPublished retrieves a prompt by ID only if it is published.
// Drafts and archived prompts are invisible here, so every public read
// goes through this method. Returns nil if absent or not published.
func (s *PromptStore) FindPublished(id uuid.UUID) (*models.Prompt, error) {
	row := s.db.QueryRow(`
		SELECT `+promptColumns+` FROM prompts
		WHERE id = $1 AND status = 'published'
	`, id)
	p, err := scanPrompt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published prompt: %w", err)
	}
	return p, nil
}

// List returns all prompts for admin management, newest first.
func (s *PromptStore) List() ([]models.Prompt, error) {
	rows, err := s.db.Query(`
		SELECT ` + promptColumns + ` FROM prompts ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()
	return collectPrompts(rows)
}

// SearchPublished returns the full filtered set of published prompts.
// query matches title, body, or instructions case-insensitively;
// categoryIDs (when non-empty) restricts the primary category to the
// given subtree set; subcategoryID is a separate equality filter on the
// secondary association. Pagination happens in the listing engine after
// the set is materialized.
func (s *PromptStore) SearchPublished(query string, categoryIDs []uuid.UUID, subcategoryID *uuid.UUID) ([]models.Prompt, error) {
	where := []string{`status = 'published'`}
	var args []any

	if query != "" {
		like := "%" + query + "%"
		args = append(args, like)
		n := len(args)
		where = append(where, fmt.Sprintf(
			`(title ILIKE $%d OR body ILIKE $%d OR instructions ILIKE $%d)`, n, n, n))
	}

	if len(categoryIDs) > 0 {
		placeholders := make([]string, len(categoryIDs))
		for i, id := range categoryIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		where = append(where, fmt.Sprintf(`category_id IN (%s)`, strings.Join(placeholders, ", ")))
	}

	if subcategoryID != nil {
		args = append(args, *subcategoryID)
		where = append(where, fmt.Sprintf(`subcategory_id = $%d`, len(args)))
	}

	rows, err := s.db.Query(`
		SELECT `+promptColumns+` FROM prompts
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("search published prompts: %w", err)
	}
	defer rows.Close()
	return collectPrompts(rows)
}

// collectPrompts drains a prompt result set.
func collectPrompts(rows *sql.Rows) ([]models.Prompt, error) {
	var items []models.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Update modifies an existing prompt. Callers load the row, merge the
// changed fields, and pass the full record back.
func (s *PromptStore) Update(p *models.Prompt) error {
	res, err := s.db.Exec(`
		UPDATE prompts SET
			title = $1, body = $2, category_id = $3, subcategory_id = $4,
			platforms = $5, instructions = $6, tags = $7, status = $8,
			updated_at = NOW()
		WHERE id = $9
	`, p.Title, p.Body, p.CategoryID, p.SubcategoryID,
		models.EncodePlatforms(p.Platforms), p.Instructions, p.Tags, p.Status, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update prompt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update prompt %s: %w", p.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Archive soft-deletes a prompt by setting its status to archived.
// The row remains for admin reads; it disappears from all public reads.
func (s *PromptStore) Archive(id uuid.UUID) error {
	res, err := s.db.Exec(`
		UPDATE prompts SET status = 'archived', updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("archive prompt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("archive prompt %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ExistsByTitleAndCategory reports whether a prompt with the exact
// title exists in the category. The seed importer uses this as its
// dedupe key so re-imports create nothing new.
func (s *PromptStore) ExistsByTitleAndCategory(title string, categoryID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM prompts WHERE title = $1 AND category_id = $2)
	`, title, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("prompt exists check: %w", err)
	}
	return exists, nil
}

// CountByStatus returns how many prompts are in the given state.
func (s *PromptStore) CountByStatus(status models.PromptStatus) (int, error) {
	n, err := countRows(s.db, `SELECT COUNT(*) FROM prompts WHERE status = $1`, status)
	if err != nil {
		return 0, fmt.Errorf("count prompts: %w", err)
	}
	return n, nil
}
