// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seedimport loads an initial prompt catalog from a JSON file.
// The import is idempotent: categories are created or reused by name,
// and prompts already present under the same title and category are
// skipped, so re-running against the same file changes nothing.
package seedimport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"promptlib/internal/models"
	"promptlib/internal/store"
)

// Record is one seed entry. Status defaults to published.
type Record struct {
	Category  string   `json:"category"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Status    string   `json:"status,omitempty"`
	Tags      string   `json:"tags,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
}

// Summary aggregates the outcome of an import run.
type Summary struct {
	Imported int
	Skipped  int
	Failed   int
}

// Importer loads seed records through the regular stores so all dedupe
// rules apply.
type Importer struct {
	categories *store.CategoryStore
	prompts    *store.PromptStore
}

// New creates an importer over the given stores.
func New(categories *store.CategoryStore, prompts *store.PromptStore) *Importer {
	return &Importer{categories: categories, prompts: prompts}
}

// ImportFile reads a JSON array of records from path and imports them.
func (im *Importer) ImportFile(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	return im.Import(records), nil
}

// Import applies the records one by one. A bad record is logged and
// skipped; it never aborts the rest of the run.
func (im *Importer) Import(records []Record) *Summary {
	sum := &Summary{}

	for i, rec := range records {
		outcome, err := im.importOne(rec)
		if err != nil {
			slog.Warn("seed record failed",
				"index", i,
				"title", rec.Title,
				"error", err,
			)
			sum.Failed++
			continue
		}
		if outcome {
			sum.Imported++
		} else {
			sum.Skipped++
		}
	}

	slog.Info("seed import finished",
		"imported", sum.Imported,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
	)
	return sum
}

// importOne imports a single record. Returns false if the prompt
// already existed.
func (im *Importer) importOne(rec Record) (bool, error) {
	title := strings.TrimSpace(rec.Title)
	category := strings.TrimSpace(rec.Category)
	if title == "" || category == "" || strings.TrimSpace(rec.Body) == "" {
		return false, fmt.Errorf("category, title, and body are required")
	}

	status := models.PromptStatus(rec.Status)
	if status == "" {
		status = models.PromptStatusPublished
	}
	switch status {
	case models.PromptStatusDraft, models.PromptStatusPublished, models.PromptStatusArchived:
	default:
		return false, fmt.Errorf("invalid status %q", rec.Status)
	}

	cat, err := im.categories.Create(category, "", nil)
	if err != nil {
		return false, fmt.Errorf("resolve category %q: %w", category, err)
	}

	exists, err := im.prompts.ExistsByTitleAndCategory(title, cat.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	p := &models.Prompt{
		Title:      title,
		Body:       rec.Body,
		CategoryID: cat.ID,
		Platforms:  rec.Platforms,
		Status:     status,
	}
	if tags := strings.TrimSpace(rec.Tags); tags != "" {
		p.Tags = &tags
	}

	if _, err := im.prompts.Create(p); err != nil {
		return false, fmt.Errorf("create prompt %q: %w", title, err)
	}
	return true, nil
}
