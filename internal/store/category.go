// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"promptlib/internal/apperrors"
	"promptlib/internal/models"
	"promptlib/internal/slug"
)

// CategoryStore manages the category tree in the database. Categories
// form a self-referencing tree with an explicit global sort order;
// they are never hard-deleted.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, sort_order, created_at, updated_at`

// querier is the subset of *sql.DB and *sql.Tx used by helpers that must
// run either standalone or inside a caller's transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by global sort order.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + `
		FROM categories
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns categories as a nested tree with published-prompt
// roll-up counts: each node's PromptCount covers its entire subtree.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}

	counts, err := s.rollupFromFlat(flat)
	if err != nil {
		return nil, err
	}
	return treeWithCounts(flat, counts), nil
}

// TreeUsing builds the nested tree with a precomputed roll-up count
// map, letting callers serve counts from a cache instead of recomputing
// the aggregation per request.
func (s *CategoryStore) TreeUsing(counts map[uuid.UUID]int) ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return treeWithCounts(flat, counts), nil
}

func treeWithCounts(flat []models.Category, counts map[uuid.UUID]int) []models.Category {
	for i := range flat {
		flat[i].PromptCount = counts[flat[i].ID]
	}
	return buildTree(flat, nil, 0)
}

// FlatTree returns categories as a flat list in tree display order with
// Depth set for indentation. Useful for <select> dropdowns.
func (s *CategoryStore) FlatTree() ([]models.Category, error) {
	tree, err := s.Tree()
	if err != nil {
		return nil, err
	}
	var result []models.Category
	flattenTree(tree, &result)
	return result, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(categorySlug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, categorySlug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category, deduplicating by name and slug: if a
// category with the same name or the same computed slug already exists,
// it is returned instead of a duplicate row. New categories append at
// the end of the global sort order. The whole operation runs in one
// transaction; a concurrent duplicate insert that slips past the select
// is absorbed via the uniqueness constraint and resolved as a reuse.
func (s *CategoryStore) Create(name, description string, parentID *uuid.UUID) (*models.Category, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	c, err := createOrReuseCategory(tx, name, description, parentID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create category: %w", err)
	}
	return c, nil
}

// createOrReuseCategory implements Create's dedupe semantics against an
// arbitrary querier so moderation approval can nest it inside its own
// transaction.
func createOrReuseCategory(q querier, name, description string, parentID *uuid.UUID) (*models.Category, error) {
	categorySlug := slug.Generate(name)
	if categorySlug == "" {
		return nil, apperrors.Validationf("category name %q produces an empty slug", name)
	}

	// Reuse an existing category with the same name or slug.
	row := q.QueryRow(`
		SELECT `+categoryColumns+`
		FROM categories WHERE name = $1 OR slug = $2
	`, name, categorySlug)
	existing, err := scanCategory(row)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find category for dedupe: %w", err)
	}

	// Append at the end of the global ordering.
	var maxOrder sql.NullInt64
	if err := q.QueryRow(`SELECT MAX(sort_order) FROM categories`).Scan(&maxOrder); err != nil {
		return nil, fmt.Errorf("next sort order: %w", err)
	}
	sortOrder := 1
	if maxOrder.Valid {
		sortOrder = int(maxOrder.Int64) + 1
	}

	row = q.QueryRow(`
		INSERT INTO categories (name, slug, description, parent_id, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		name, categorySlug, description, parentID, sortOrder,
	)
	created, err := scanCategory(row)
	if err != nil {
		// A concurrent create may have taken the name or slug between
		// the select and the insert. Treat the uniqueness violation as
		// "reuse the existing row", never as a fatal error.
		if isUniqueViolation(err) {
			row := q.QueryRow(`
				SELECT `+categoryColumns+`
				FROM categories WHERE name = $1 OR slug = $2
			`, name, categorySlug)
			if existing, selErr := scanCategory(row); selErr == nil {
				return existing, nil
			}
			return nil, fmt.Errorf("create category: %w", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Update modifies a category's name, description, and parent. The slug
// is recomputed from the new name. Parent acyclicity is not validated
// here; every tree read is cycle-safe by construction.
func (s *CategoryStore) Update(id uuid.UUID, name, description string, parentID *uuid.UUID) (*models.Category, error) {
	categorySlug := slug.Generate(name)
	if categorySlug == "" {
		return nil, apperrors.Validationf("category name %q produces an empty slug", name)
	}

	row := s.db.QueryRow(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+categoryColumns,
		name, categorySlug, description, parentID, id,
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("update category %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update category %s: %w", id, apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// MoveUp swaps the category's sort_order with the nearest category that
// orders before it. The neighbor is the adjacent row in the *global*
// ordering, not restricted to siblings under the same parent. Returns
// false (not an error) when the category is already first.
func (s *CategoryStore) MoveUp(id uuid.UUID) (bool, error) {
	return s.swapWithNeighbor(id, true)
}

// MoveDown is the inverse of MoveUp: swaps with the nearest category
// that orders after it. Returns false when already last.
func (s *CategoryStore) MoveDown(id uuid.UUID) (bool, error) {
	return s.swapWithNeighbor(id, false)
}

// swapWithNeighbor performs the sort_order swap in one transaction so a
// concurrent reorder cannot interleave between the reads and writes.
func (s *CategoryStore) swapWithNeighbor(id uuid.UUID, up bool) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRow(`SELECT sort_order FROM categories WHERE id = $1`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("move category %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("move category: %w", err)
	}

	neighborQuery := `
		SELECT id, sort_order FROM categories
		WHERE sort_order > $1 ORDER BY sort_order ASC LIMIT 1`
	if up {
		neighborQuery = `
			SELECT id, sort_order FROM categories
			WHERE sort_order < $1 ORDER BY sort_order DESC LIMIT 1`
	}

	var neighborID uuid.UUID
	var neighborOrder int
	err = tx.QueryRow(neighborQuery, current).Scan(&neighborID, &neighborOrder)
	if err == sql.ErrNoRows {
		// Already first (or last) — informational no-op.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find move neighbor: %w", err)
	}

	if _, err := tx.Exec(`UPDATE categories SET sort_order = $1, updated_at = NOW() WHERE id = $2`, neighborOrder, id); err != nil {
		return false, fmt.Errorf("move category: %w", err)
	}
	if _, err := tx.Exec(`UPDATE categories SET sort_order = $1, updated_at = NOW() WHERE id = $2`, current, neighborID); err != nil {
		return false, fmt.Errorf("move neighbor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit move: %w", err)
	}
	return true, nil
}

// SubtreeIDs returns the set of IDs in the subtree rooted at rootID,
// including rootID itself. The walk terminates even on malformed cyclic
// parent data.
func (s *CategoryStore) SubtreeIDs(rootID uuid.UUID) (map[uuid.UUID]bool, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return subtreeIDs(flat, rootID), nil
}

// Ancestors returns the ancestor chain of id ordered from immediate
// parent to root. Used to auto-expand a tree view to a selected node.
func (s *CategoryStore) Ancestors(id uuid.UUID) ([]uuid.UUID, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return ancestorIDs(flat, id), nil
}

// RollupPublishedCounts returns, for every category, the number of
// published prompts in that category's entire subtree.
func (s *CategoryStore) RollupPublishedCounts() (map[uuid.UUID]int, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return s.rollupFromFlat(flat)
}

// rollupFromFlat computes the roll-up map given an already-loaded flat
// category list, saving a second query for callers that have one.
func (s *CategoryStore) rollupFromFlat(flat []models.Category) (map[uuid.UUID]int, error) {
	rows, err := s.db.Query(`
		SELECT category_id, COUNT(*)
		FROM prompts
		WHERE status = 'published'
		GROUP BY category_id
	`)
	if err != nil {
		return nil, fmt.Errorf("count published prompts: %w", err)
	}
	defer rows.Close()

	leaf := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan prompt count: %w", err)
		}
		leaf[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rollupCounts(flat, leaf), nil
}
