// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promptlib/internal/cache"
	"promptlib/internal/listing"
	"promptlib/internal/models"
	"promptlib/internal/store"
)

// Public groups the unauthenticated read API and the submission intake.
type Public struct {
	engine      *listing.Engine
	categories  *store.CategoryStore
	prompts     *store.PromptStore
	submissions *store.SubmissionStore
	documents   *store.DocumentStore
	counts      *cache.CountsCache
}

// NewPublic creates the public handler group with the given dependencies.
// counts may be nil when Valkey is not configured.
func NewPublic(engine *listing.Engine, categories *store.CategoryStore, prompts *store.PromptStore, submissions *store.SubmissionStore, documents *store.DocumentStore, counts *cache.CountsCache) *Public {
	return &Public{
		engine:      engine,
		categories:  categories,
		prompts:     prompts,
		submissions: submissions,
		documents:   documents,
		counts:      counts,
	}
}

// CategoryTree serves the nested category tree with published-prompt
// roll-up counts. The count map is served from Valkey when warm.
func (p *Public) CategoryTree(w http.ResponseWriter, r *http.Request) {
	counts, ok := p.counts.Get(r.Context())
	if !ok {
		var err error
		counts, err = p.categories.RollupPublishedCounts()
		if err != nil {
			writeError(w, err)
			return
		}
		p.counts.Set(r.Context(), counts)
	}

	tree, err := p.categories.TreeUsing(counts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": tree})
}

// ListPrompts serves filtered, paginated published prompts. Filters are
// query parameters: q, category (ID or slug), subcategory (ID),
// platform, page, page_size.
func (p *Public) ListPrompts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := listing.Params{
		Query:    strings.TrimSpace(q.Get("q")),
		Platform: strings.TrimSpace(q.Get("platform")),
		Page:     intParam(q.Get("page"), 1),
		PageSize: intParam(q.Get("page_size"), 0),
	}

	if raw := q.Get("category"); raw != "" {
		id, err := p.resolveCategoryParam(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		if id == nil {
			notFound(w)
			return
		}
		params.CategoryID = id
	}

	if raw := q.Get("subcategory"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "subcategory must be a valid ID")
			return
		}
		params.SubcategoryID = &id
	}

	result, err := p.engine.SearchPublished(params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetPrompt serves a single published prompt with its attachments.
// Draft and archived prompts are indistinguishable from absent ones.
func (p *Public) GetPrompt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w)
		return
	}

	prompt, err := p.prompts.FindPublished(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if prompt == nil {
		notFound(w)
		return
	}

	docs, err := p.documents.ListForPrompt(prompt.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"prompt":    prompt,
		"documents": docs,
	})
}

// submissionRequest is the public submission intake payload.
type submissionRequest struct {
	Title                 string   `json:"title"`
	Body                  string   `json:"body"`
	CategoryID            *string  `json:"category_id,omitempty"`
	SubcategoryID         *string  `json:"subcategory_id,omitempty"`
	SuggestedCategoryName *string  `json:"suggested_category_name,omitempty"`
	Platforms             []string `json:"platforms,omitempty"`
	Instructions          *string  `json:"instructions,omitempty"`
	Tags                  *string  `json:"tags,omitempty"`
}

// CreateSubmission accepts a public prompt submission into the
// moderation queue. Submissions are anonymous; the submitter either
// picks an existing category or suggests a new one by name.
func (p *Public) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if msg := validatePromptFields(req.Title, req.Body, req.Platforms); msg != "" {
		badRequest(w, msg)
		return
	}

	sub := &models.Submission{
		Title:        strings.TrimSpace(req.Title),
		Body:         req.Body,
		Platforms:    req.Platforms,
		Instructions: req.Instructions,
		Tags:         req.Tags,
	}

	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			badRequest(w, "category_id must be a valid ID")
			return
		}
		sub.CategoryID = &id
	}
	if req.SubcategoryID != nil {
		id, err := uuid.Parse(*req.SubcategoryID)
		if err != nil {
			badRequest(w, "subcategory_id must be a valid ID")
			return
		}
		sub.SubcategoryID = &id
	}
	if req.SuggestedCategoryName != nil {
		name := strings.TrimSpace(*req.SuggestedCategoryName)
		if name != "" {
			if msg := validateCategoryName(name); msg != "" {
				badRequest(w, msg)
				return
			}
			sub.SuggestedCategoryName = &name
		}
	}

	created, err := p.submissions.Create(sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// resolveCategoryParam accepts either a category UUID or a slug and
// returns the category's ID. Returns (nil, nil) if no category matches.
func (p *Public) resolveCategoryParam(raw string) (*uuid.UUID, error) {
	if id, err := uuid.Parse(raw); err == nil {
		cat, err := p.categories.FindByID(id)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, nil
		}
		return &cat.ID, nil
	}

	cat, err := p.categories.FindBySlug(raw)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, nil
	}
	return &cat.ID, nil
}

// intParam parses a positive integer query parameter, falling back to
// def on absence or garbage.
func intParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
