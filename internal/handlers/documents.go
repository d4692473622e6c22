// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promptlib/internal/apperrors"
	"promptlib/internal/models"
	"promptlib/internal/storage"
	"promptlib/internal/store"
)

// Documents groups attachment handlers. Blob bytes never pass through
// these handlers; clients upload and download directly against
// presigned URLs.
type Documents struct {
	documents *store.DocumentStore
	prompts   *store.PromptStore
	audit     *store.AuditLogStore
	storage   *storage.Client // nil when S3 is not configured
}

// NewDocuments creates the documents handler group. storageClient may
// be nil; file attachment operations then report storage unavailable.
func NewDocuments(documents *store.DocumentStore, prompts *store.PromptStore, audit *store.AuditLogStore, storageClient *storage.Client) *Documents {
	return &Documents{
		documents: documents,
		prompts:   prompts,
		audit:     audit,
		storage:   storageClient,
	}
}

// uploadRequest asks for a direct-upload destination.
type uploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Public      bool   `json:"public,omitempty"`
}

// IssueUploadURL hands out a presigned PUT location for a new blob.
// The client uploads directly, then registers the document with the
// returned key.
func (d *Documents) IssueUploadURL(w http.ResponseWriter, r *http.Request) {
	if d.storage == nil {
		writeError(w, apperrors.ErrStorageUnavailable)
		return
	}

	var req uploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if msg := validateUploadRequest(req.Filename, req.ContentType); msg != "" {
		badRequest(w, msg)
		return
	}

	key := storage.BuildKey(req.Filename, req.Public)
	loc, err := d.storage.IssueUploadLocation(r.Context(), key, req.ContentType, storage.DefaultUploadTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// registerRequest attaches an uploaded blob or an external link to a prompt.
type registerRequest struct {
	Title       string  `json:"title"`
	Type        string  `json:"document_type"`
	FilePath    *string `json:"file_path,omitempty"`
	ExternalURL *string `json:"external_url,omitempty"`
}

// Register records a document for a prompt. File documents are only
// accepted once the blob actually exists in storage; registering a key
// that was issued but never uploaded is rejected.
func (d *Documents) Register(w http.ResponseWriter, r *http.Request) {
	promptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w)
		return
	}
	prompt, err := d.prompts.FindByID(promptID)
	if err != nil {
		writeError(w, err)
		return
	}
	if prompt == nil {
		notFound(w)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		badRequest(w, "Title is required.")
		return
	}

	doc := &models.Document{
		PromptID: promptID,
		Title:    title,
		Type:     models.DocumentType(req.Type),
	}

	switch doc.Type {
	case models.DocumentTypeFile:
		if d.storage == nil {
			writeError(w, apperrors.ErrStorageUnavailable)
			return
		}
		if req.FilePath == nil || strings.TrimSpace(*req.FilePath) == "" {
			badRequest(w, "file_path is required for file documents.")
			return
		}
		key := strings.TrimSpace(*req.FilePath)

		meta, err := d.storage.GetMetadata(r.Context(), key)
		if err != nil {
			writeError(w, err)
			return
		}
		if meta == nil {
			badRequest(w, "No uploaded file found at the given path.")
			return
		}
		doc.FilePath = &key
		doc.FileSize = &meta.Size
		if meta.ContentType != "" {
			mime := meta.ContentType
			doc.MimeType = &mime
		}
	case models.DocumentTypeLink:
		if req.ExternalURL == nil {
			badRequest(w, "URL is required for link documents.")
			return
		}
		if msg := validateExternalURL(*req.ExternalURL); msg != "" {
			badRequest(w, msg)
			return
		}
		u := strings.TrimSpace(*req.ExternalURL)
		doc.ExternalURL = &u
	default:
		badRequest(w, "document_type must be file or link.")
		return
	}

	created, err := d.documents.Create(doc)
	if err != nil {
		writeError(w, err)
		return
	}

	d.audit.Record(actorID(r), models.AuditRegisterDocument, map[string]any{
		"document_id": created.ID,
		"prompt_id":   promptID,
		"title":       created.Title,
	})
	writeJSON(w, http.StatusCreated, created)
}

// List serves a prompt's documents in display order.
func (d *Documents) List(w http.ResponseWriter, r *http.Request) {
	promptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w)
		return
	}
	docs, err := d.documents.ListForPrompt(promptID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// Delete removes a document. The database row is authoritative; the
// blob deletion is best-effort and a failure there never blocks the
// removal.
func (d *Documents) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "docID"))
	if err != nil {
		notFound(w)
		return
	}

	deleted, err := d.documents.Delete(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if deleted == nil {
		notFound(w)
		return
	}

	if deleted.FilePath != nil && d.storage != nil {
		if _, err := d.storage.Delete(r.Context(), *deleted.FilePath); err != nil {
			slog.Warn("blob cleanup failed after document delete",
				"document_id", deleted.ID,
				"key", *deleted.FilePath,
				"error", err,
			)
		}
	}

	d.audit.Record(actorID(r), models.AuditDeleteDocument, map[string]any{
		"document_id": deleted.ID,
		"prompt_id":   deleted.PromptID,
	})
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// DownloadURL resolves a document to a fetchable URL. Link documents
// return their external URL; public file blobs return the direct URL;
// private ones get a TTL-limited presigned GET. The owning prompt must
// be published for public access.
func (d *Documents) DownloadURL(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "docID"))
	if err != nil {
		notFound(w)
		return
	}

	doc, err := d.documents.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if doc == nil {
		notFound(w)
		return
	}

	// Hide attachments of unpublished prompts.
	prompt, err := d.prompts.FindPublished(doc.PromptID)
	if err != nil {
		writeError(w, err)
		return
	}
	if prompt == nil {
		notFound(w)
		return
	}

	if doc.Type == models.DocumentTypeLink {
		writeJSON(w, http.StatusOK, map[string]any{"url": *doc.ExternalURL})
		return
	}

	if d.storage == nil {
		writeError(w, apperrors.ErrStorageUnavailable)
		return
	}

	key := *doc.FilePath
	if storage.IsPublicKey(key) {
		writeJSON(w, http.StatusOK, map[string]any{"url": d.storage.FileURL(key)})
		return
	}

	url, err := d.storage.IssueDownloadLocation(r.Context(), key, storage.DefaultDownloadTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": url})
}
