// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promptlib/internal/cache"
	"promptlib/internal/middleware"
	"promptlib/internal/models"
	"promptlib/internal/store"
)

// Admin groups the moderation and curation handlers. Every route using
// this group sits behind the admin gate middleware.
type Admin struct {
	categories  *store.CategoryStore
	prompts     *store.PromptStore
	submissions *store.SubmissionStore
	documents   *store.DocumentStore
	audit       *store.AuditLogStore
	counts      *cache.CountsCache
}

// NewAdmin creates the admin handler group with the given dependencies.
// counts may be nil when Valkey is not configured.
func NewAdmin(categories *store.CategoryStore, prompts *store.PromptStore, submissions *store.SubmissionStore, documents *store.DocumentStore, audit *store.AuditLogStore, counts *cache.CountsCache) *Admin {
	return &Admin{
		categories:  categories,
		prompts:     prompts,
		submissions: submissions,
		documents:   documents,
		audit:       audit,
		counts:      counts,
	}
}

// actorID extracts the acting admin's user ID from the session, if the
// request came through a session rather than the shared key.
func actorID(r *http.Request) *uuid.UUID {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return nil
	}
	id := sess.UserID
	return &id
}

// Stats serves the admin dashboard counters: prompts by status, the
// size of the review queue, and the category count.
func (a *Admin) Stats(w http.ResponseWriter, r *http.Request) {
	published, err := a.prompts.CountByStatus(models.PromptStatusPublished)
	if err != nil {
		writeError(w, err)
		return
	}
	drafts, err := a.prompts.CountByStatus(models.PromptStatusDraft)
	if err != nil {
		writeError(w, err)
		return
	}
	archived, err := a.prompts.CountByStatus(models.PromptStatusArchived)
	if err != nil {
		writeError(w, err)
		return
	}
	pending, err := a.submissions.PendingCount()
	if err != nil {
		writeError(w, err)
		return
	}
	cats, err := a.categories.List()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"published_prompts":   published,
		"draft_prompts":       drafts,
		"archived_prompts":    archived,
		"pending_submissions": pending,
		"categories":          len(cats),
	})
}

// --- Submissions ---

// ListSubmissions serves the moderation queue. The status filter
// defaults to pending; the queue is ordered oldest first.
func (a *Admin) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	status := models.SubmissionStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.SubmissionStatusPending
	}
	switch status {
	case models.SubmissionStatusPending, models.SubmissionStatusApproved, models.SubmissionStatusRejected:
	default:
		badRequest(w, "status must be pending, approved, or rejected")
		return
	}

	items, err := a.submissions.ListByStatus(status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": items})
}

// reviewRequest is the moderation decision payload.
type reviewRequest struct {
	Decision   string `json:"decision"`
	Notes      string `json:"notes,omitempty"`
	Resolution *struct {
		UseExisting *string `json:"use_existing,omitempty"`
		CreateNew   string  `json:"create_new,omitempty"`
	} `json:"resolution,omitempty"`
}

// ReviewSubmission applies an approve/reject decision to a pending
// submission. Approval publishes a prompt atomically with the
// submission transition.
func (a *Admin) ReviewSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w)
		return
	}

	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	var resolution *store.CategoryResolution
	if req.Resolution != nil {
		resolution = &store.CategoryResolution{
			CreateNew: strings.TrimSpace(req.Resolution.CreateNew),
		}
		if req.Resolution.UseExisting != nil {
			existing, err := uuid.Parse(*req.Resolution.UseExisting)
			if err != nil {
				badRequest(w, "resolution.use_existing must be a valid ID")
				return
			}
			resolution.UseExisting = &existing
		}
	}

	sub, prompt, err := a.submissions.Review(id, models.SubmissionStatus(req.Decision), req.Notes, resolution)
	if err != nil {
		writeError(w, err)
		return
	}

	action := models.AuditRejectSubmission
	if sub.Status == models.SubmissionStatusApproved {
		action = models.AuditApproveSubmission
		a.counts.Invalidate(r.Context())
	}
	a.audit.Record(actorID(r), action, map[string]any{
		"submission_id": sub.ID,
		"title":         sub.Title,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"submission": sub,
		"prompt":     prompt,
	})
}

// --- Prompts ---

// ListPrompts serves every prompt regardless of status.
func (a *Admin) ListPrompts(w http.ResponseWriter, r *http.Request) {
	items, err := a.prompts.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompts": items})
}

// GetPrompt serves one prompt regardless of status, with attachments.
func (a *Admin) GetPrompt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w)
		return
	}
	prompt, err := a.prompts.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if prompt == nil {
		notFound(w)
		return
	}
	docs, err := a.documents.ListForPrompt(prompt.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompt": prompt, "documents": docs})
}

// promptRequest is the admin prompt create/update payload.
type promptRequest struct {
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	CategoryID    string   `json:"category_id"`
	SubcategoryID *string  `json:"subcategory_id,omitempty"`
	Platforms     []string `json:"platforms,omitempty"`
	Instructions  *string  `json:"instructions,omitempty"`
	Tags          *string  `json:"tags,omitempty"`
	Status        string   `json:"status"`
}

func (req *promptRequest) toModel() (*models.Prompt, string) {
	if msg := validatePromptFields(req.Title, req.Body, req.Platforms); msg != "" {
		return nil, msg
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, "category_id must be a valid ID"
	}

	status := models.PromptStatus(req.Status)
	if status == "" {
		status = models.PromptStatusDraft
	}
	switch status {
	case models.PromptStatusDraft, models.PromptStatusPublished, models.PromptStatusArchived:
	default:
		return nil, "status must be draft, published, or archived"
	}

	p := &models.Prompt{
		Title:        strings.TrimSpace(req.Title),
		Body:         req.Body,
		CategoryID:   categoryID,
		Platforms:    req.Platforms,
		Instructions: req.Instructions,
		Tags:         req.Tags,
		Status:       status,
	}
	if req.SubcategoryID != nil {
		sub, err := uuid.Parse(*req.SubcategoryID)
		if err != nil {
			return nil, "subcategory_id must be a valid ID"
		}
		p.SubcategoryID = &sub
	}
	return p, ""
}

// CreatePrompt creates a prompt directly, bypassing moderation.
func (a *Admin) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, msg := req.toModel()
	if msg != "" {
		badRequest(w, msg)
		return
	}
	p.CreatedBy = actorID(r)

	created, err := a.prompts.Create(p)
	if err != nil {
		writeError(w, err)
		return
	}

	a.counts.Invalidate(r.Context())
	a.audit.Record(actorID(r), models.AuditCreatePrompt, map[string]any{
		"prompt_id": created.ID,
		"title":     created.Title,
	})
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePrompt replaces a prompt's editable fields.
func (a *Admin) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w)
		return
	}

	var req promptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, msg := req.toModel()
	if msg != "" {
		badRequest(w, msg)
		return
	}
	p.ID = id

	if err := a.prompts.Update(p); err != nil {
		writeError(w, err)
		return
	}

	updated, err := a.prompts.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	a.counts.Invalidate(r.Context())
	a.audit.Record(actorID(r), models.AuditUpdatePrompt, map[string]any{
		"prompt_id": id,
	})
	writeJSON(w, http.StatusOK, updated)
}

// ArchivePrompt soft-deletes a prompt by setting its status to
// archived. Prompts are never physically removed.
func (a *Admin) ArchivePrompt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w)
		return
	}

	if err := a.prompts.Archive(id); err != nil {
		writeError(w, err)
		return
	}

	a.counts.Invalidate(r.Context())
	a.audit.Record(actorID(r), models.AuditArchivePrompt, map[string]any{
		"prompt_id": id,
	})
	writeJSON(w, http.StatusOK, map[string]any{"archived": true})
}

// --- Categories ---

// categoryRequest is the category create/update payload.
type categoryRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
}

func (req *categoryRequest) parent() (*uuid.UUID, string) {
	if req.ParentID == nil {
		return nil, ""
	}
	id, err := uuid.Parse(*req.ParentID)
	if err != nil {
		return nil, "parent_id must be a valid ID"
	}
	return &id, ""
}

// ListCategories serves the flat category list in tree display order,
// for admin pickers.
func (a *Admin) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := a.categories.FlatTree()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": items})
}

// CreateCategory creates a category, or hands back an existing one with
// the same name or slug.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if msg := validateCategoryName(req.Name); msg != "" {
		badRequest(w, msg)
		return
	}
	parentID, msg := req.parent()
	if msg != "" {
		badRequest(w, msg)
		return
	}

	created, err := a.categories.Create(strings.TrimSpace(req.Name), req.Description, parentID)
	if err != nil {
		writeError(w, err)
		return
	}

	a.counts.Invalidate(r.Context())
	a.audit.Record(actorID(r), models.AuditCreateCategory, map[string]any{
		"category_id": created.ID,
		"name":        created.Name,
	})
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCategory renames or reparents a category. The slug is recomputed
// from the new name.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w)
		return
	}

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if msg := validateCategoryName(req.Name); msg != "" {
		badRequest(w, msg)
		return
	}
	parentID, msg := req.parent()
	if msg != "" {
		badRequest(w, msg)
		return
	}

	updated, err := a.categories.Update(id, strings.TrimSpace(req.Name), req.Description, parentID)
	if err != nil {
		writeError(w, err)
		return
	}

	a.counts.Invalidate(r.Context())
	a.audit.Record(actorID(r), models.AuditUpdateCategory, map[string]any{
		"category_id": id,
	})
	writeJSON(w, http.StatusOK, updated)
}

// MoveCategoryUp swaps a category with its predecessor in display order.
// Already at the top is a no-op, not an error.
func (a *Admin) MoveCategoryUp(w http.ResponseWriter, r *http.Request) {
	a.moveCategory(w, r, true)
}

// MoveCategoryDown swaps a category with its successor in display order.
func (a *Admin) MoveCategoryDown(w http.ResponseWriter, r *http.Request) {
	a.moveCategory(w, r, false)
}

func (a *Admin) moveCategory(w http.ResponseWriter, r *http.Request, up bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w)
		return
	}

	var moved bool
	if up {
		moved, err = a.categories.MoveUp(id)
	} else {
		moved, err = a.categories.MoveDown(id)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if moved {
		a.audit.Record(actorID(r), models.AuditReorderCategory, map[string]any{
			"category_id": id,
			"direction":   direction(up),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"moved": moved})
}

func direction(up bool) string {
	if up {
		return "up"
	}
	return "down"
}

// --- Audit log ---

// AuditLog serves the most recent audit entries, newest first.
func (a *Admin) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r.URL.Query().Get("limit"), 50)
	entries, err := a.audit.RecentEntries(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
