// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// audit.go records admin and moderation actions in an append-only log
// for traceability. Each entry captures who did what, with the change
// detail as a JSON payload. Entries are never mutated.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"promptlib/internal/models"
)

// AuditLogStore handles audit log operations.
type AuditLogStore struct {
	db *sql.DB
}

// NewAuditLogStore creates a new AuditLogStore.
func NewAuditLogStore(db *sql.DB) *AuditLogStore {
	return &AuditLogStore{db: db}
}

// Record appends an audit entry. Payload is JSON-encoded; encoding or
// insert failures are logged, never propagated — auditing is
// best-effort and must not fail the action being audited.
func (s *AuditLogStore) Record(actorID *uuid.UUID, action string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("failed to encode audit payload", "action", action, "error", err)
		raw = []byte("{}")
	}

	_, err = s.db.Exec(`
		INSERT INTO audit_log (actor_id, action, payload)
		VALUES ($1, $2, $3)
	`, actorID, action, string(raw))
	if err != nil {
		slog.Warn("failed to record audit entry",
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("audit entry recorded", "action", action)
}

// RecentEntries returns the most recent audit entries, newest first.
func (s *AuditLogStore) RecentEntries(limit int) ([]models.AuditLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, actor_id, action, payload, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var e models.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// countRows is a small helper for dashboard counts.
func countRows(db *sql.DB, query string, args ...any) (int, error) {
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
