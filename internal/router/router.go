// Package router sets up all HTTP routes and middleware chains for the
// prompt library API. It organizes routes into public and admin groups
// with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"promptlib/internal/handlers"
	"promptlib/internal/middleware"
	"promptlib/internal/session"
)

// Submission intake rate limit: 10 submissions per hour per client IP.
const (
	submissionLimit  = 10
	submissionWindow = time.Hour
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, adminKey string, public *handlers.Public, admin *handlers.Admin, documents *handlers.Documents, auth *handlers.Auth) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Public read API plus the rate-limited submission intake.
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", public.CategoryTree)
		r.Get("/prompts", public.ListPrompts)
		r.Get("/prompts/{id}", public.GetPrompt)
		r.Get("/documents/{docID}/download-url", documents.DownloadURL)

		rl := middleware.NewRateLimiter(submissionLimit, submissionWindow)
		r.With(rl.Middleware).Post("/submissions", public.CreateSubmission)
	})

	// Admin console login/logout.
	r.Post("/admin/login", auth.Login)
	r.Post("/admin/logout", auth.Logout)

	// Admin API — every route behind the shared-key-or-session gate.
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(adminKey))

		r.Get("/me", auth.Me)
		r.Get("/stats", admin.Stats)

		// Moderation queue
		r.Route("/submissions", func(r chi.Router) {
			r.Get("/", admin.ListSubmissions)
			r.Post("/{id}/review", admin.ReviewSubmission)
		})

		// Prompt curation
		r.Route("/prompts", func(r chi.Router) {
			r.Get("/", admin.ListPrompts)
			r.Post("/", admin.CreatePrompt)
			r.Get("/{id}", admin.GetPrompt)
			r.Put("/{id}", admin.UpdatePrompt)
			r.Post("/{id}/archive", admin.ArchivePrompt)

			// Attachments
			r.Get("/{id}/documents", documents.List)
			r.Post("/{id}/documents", documents.Register)
		})
		r.Delete("/documents/{docID}", documents.Delete)
		r.Post("/documents/upload-url", documents.IssueUploadURL)

		// Category tree management
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", admin.ListCategories)
			r.Post("/", admin.CreateCategory)
			r.Put("/{id}", admin.UpdateCategory)
			r.Post("/{id}/move-up", admin.MoveCategoryUp)
			r.Post("/{id}/move-down", admin.MoveCategoryDown)
		})

		r.Get("/audit-log", admin.AuditLog)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
