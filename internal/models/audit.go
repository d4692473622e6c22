// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by the admin console and moderation workflow.
const (
	AuditCreatePrompt      = "CREATE_PROMPT"
	AuditUpdatePrompt      = "UPDATE_PROMPT"
	AuditArchivePrompt     = "ARCHIVE_PROMPT"
	AuditCreateCategory    = "CREATE_CATEGORY"
	AuditUpdateCategory    = "UPDATE_CATEGORY"
	AuditReorderCategory   = "REORDER_CATEGORY"
	AuditApproveSubmission = "APPROVE_SUBMISSION"
	AuditRejectSubmission  = "REJECT_SUBMISSION"
	AuditRegisterDocument  = "REGISTER_DOCUMENT"
	AuditDeleteDocument    = "DELETE_DOCUMENT"
)

// AuditLogEntry is an append-only record of an admin or moderation
// action. Payload is the JSON-encoded detail of the change. Entries are
// never mutated after insert.
type AuditLogEntry struct {
	ID        int64      `json:"id"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Action    string     `json:"action"`
	Payload   string     `json:"payload"`
	CreatedAt time.Time  `json:"created_at"`
}
