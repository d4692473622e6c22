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

// DocumentStore handles attachment metadata. Bytes of file documents
// live in object storage; only the location string is recorded here.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore creates a new DocumentStore with the given database connection.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentColumns = `id, prompt_id, title, document_type, file_path,
	external_url, file_size, mime_type, sort_order, created_at, updated_at`

// scanDocument scans a document row from the result set.
func scanDocument(scanner interface{ Scan(...any) error }) (*models.Document, error) {
	var d models.Document
	err := scanner.Scan(
		&d.ID, &d.PromptID, &d.Title, &d.Type, &d.FilePath,
		&d.ExternalURL, &d.FileSize, &d.MimeType, &d.SortOrder,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row. The file/link shape must already
// be validated by the caller (file documents additionally require the
// blob to exist in storage before registration).
func (s *DocumentStore) Create(d *models.Document) (*models.Document, error) {
	switch d.Type {
	case models.DocumentTypeFile:
		if d.FilePath == nil || d.ExternalURL != nil {
			return nil, apperrors.Validationf("file documents require file_path and no external_url")
		}
	case models.DocumentTypeLink:
		if d.ExternalURL == nil || d.FilePath != nil {
			return nil, apperrors.Validationf("link documents require external_url and no file_path")
		}
	default:
		return nil, apperrors.Validationf("unknown document type %q", d.Type)
	}

	row := s.db.QueryRow(`
		INSERT INTO documents (prompt_id, title, document_type, file_path,
			external_url, file_size, mime_type, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			COALESCE((SELECT MAX(sort_order) + 1 FROM documents WHERE prompt_id = $1), 1))
		RETURNING `+documentColumns,
		d.PromptID, d.Title, d.Type, d.FilePath,
		d.ExternalURL, d.FileSize, d.MimeType,
	)
	created, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return created, nil
}

// FindByID retrieves a document by ID. Returns nil if not found.
func (s *DocumentStore) FindByID(id uuid.UUID) (*models.Document, error) {
	row := s.db.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document by id: %w", err)
	}
	return d, nil
}

// ListForPrompt returns a prompt's documents ordered by sort_order,
// then creation time.
func (s *DocumentStore) ListForPrompt(promptID uuid.UUID) ([]models.Document, error) {
	rows, err := s.db.Query(`
		SELECT `+documentColumns+` FROM documents
		WHERE prompt_id = $1
		ORDER BY sort_order, created_at
	`, promptID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListForPrompts fetches the documents for a whole page of prompts in
// one query, grouped by prompt, so listing views avoid a lookup per
// row. Groups preserve sort_order-then-created_at ordering.
func (s *DocumentStore) ListForPrompts(promptIDs []uuid.UUID) (map[uuid.UUID][]models.Document, error) {
	grouped := make(map[uuid.UUID][]models.Document)
	if len(promptIDs) == 0 {
		return grouped, nil
	}

	placeholders := make([]string, len(promptIDs))
	args := make([]any, len(promptIDs))
	for i, id := range promptIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := s.db.Query(`
		SELECT `+documentColumns+` FROM documents
		WHERE prompt_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY sort_order, created_at
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents for prompts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		grouped[d.PromptID] = append(grouped[d.PromptID], *d)
	}
	return grouped, rows.Err()
}

// Delete removes a document row and returns it so the caller can clean
// up the corresponding blob. Returns nil if the row did not exist.
func (s *DocumentStore) Delete(id uuid.UUID) (*models.Document, error) {
	row := s.db.QueryRow(`
		DELETE FROM documents WHERE id = $1
		RETURNING `+documentColumns, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete document: %w", err)
	}
	return d, nil
}

// collectDocuments drains a document result set.
func collectDocuments(rows *sql.Rows) ([]models.Document, error) {
	var items []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}
