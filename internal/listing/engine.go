// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listing combines the stores into the public browsing surface:
// filtered, paginated prompt search with attachment lookups.
package listing

import (
	"fmt"

	"github.com/google/uuid"

	"promptlib/internal/models"
	"promptlib/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Params describes a public prompt search. All filters are optional and
// combine with AND semantics.
type Params struct {
	// Query is a case-insensitive substring matched against title,
	// body, and instructions.
	Query string
	// CategoryID filters to the category's whole subtree.
	CategoryID *uuid.UUID
	// SubcategoryID is an equality filter on the prompt's secondary
	// category association. It is independent of CategoryID and is
	// never expanded to a subtree.
	SubcategoryID *uuid.UUID
	// Platform keeps only prompts listing the platform, compared
	// case-insensitively.
	Platform string
	Page     int
	PageSize int
}

// Result is one page of matching prompts plus pagination metadata.
// Total counts every match, not just the returned page.
type Result struct {
	Prompts    []models.Prompt `json:"prompts"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// Engine answers public read queries over the prompt library.
type Engine struct {
	prompts    *store.PromptStore
	categories *store.CategoryStore
	documents  *store.DocumentStore
}

// NewEngine creates a listing engine over the given stores.
func NewEngine(prompts *store.PromptStore, categories *store.CategoryStore, documents *store.DocumentStore) *Engine {
	return &Engine{prompts: prompts, categories: categories, documents: documents}
}

// SearchPublished returns the requested page of published prompts
// matching the filters. The category filter expands to the subtree of
// the given category so prompts filed under descendants are included.
func (e *Engine) SearchPublished(p Params) (*Result, error) {
	var categoryIDs []uuid.UUID
	if p.CategoryID != nil {
		subtree, err := e.categories.SubtreeIDs(*p.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("expand category filter: %w", err)
		}
		categoryIDs = make([]uuid.UUID, 0, len(subtree))
		for id := range subtree {
			categoryIDs = append(categoryIDs, id)
		}
	}

	matches, err := e.prompts.SearchPublished(p.Query, categoryIDs, p.SubcategoryID)
	if err != nil {
		return nil, err
	}

	// Platform membership lives inside a JSON text column, so it is
	// filtered here after decoding rather than in SQL.
	if p.Platform != "" {
		filtered := matches[:0]
		for _, m := range matches {
			if m.HasPlatform(p.Platform) {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}

	return paginate(matches, p.Page, p.PageSize), nil
}

// DocumentsForPrompts returns attachments for a set of prompts in one
// batched lookup, grouped by prompt ID.
func (e *Engine) DocumentsForPrompts(ids []uuid.UUID) (map[uuid.UUID][]models.Document, error) {
	return e.documents.ListForPrompts(ids)
}

// paginate slices the full match set into the requested page. Page and
// page size are clamped to sane values; a page past the end yields an
// empty result with metadata intact.
func paginate(matches []models.Prompt, page, pageSize int) *Result {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total := len(matches)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &Result{
		Prompts:    matches[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
