// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus represents the moderation state of a submission.
// Pending is the only non-terminal state.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// Submission is a user-proposed prompt awaiting moderation. Exactly one
// of CategoryID and SuggestedCategoryName is set at creation time: a
// submitter either picks an existing category or proposes a new name
// that a moderator resolves at approval time.
type Submission struct {
	ID                    uuid.UUID        `json:"id"`
	Title                 string           `json:"title"`
	Body                  string           `json:"body"`
	CategoryID            *uuid.UUID       `json:"category_id,omitempty"`
	SubcategoryID         *uuid.UUID       `json:"subcategory_id,omitempty"`
	SuggestedCategoryName *string          `json:"suggested_category_name,omitempty"`
	Platforms             []string         `json:"platforms"`
	Instructions          *string          `json:"instructions,omitempty"`
	Tags                  *string          `json:"tags,omitempty"`
	Status                SubmissionStatus `json:"status"`
	SubmittedBy           *uuid.UUID       `json:"submitted_by,omitempty"`
	ReviewerNotes         *string          `json:"reviewer_notes,omitempty"`
	ApprovedPromptID      *uuid.UUID       `json:"approved_prompt_id,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	ReviewedAt            *time.Time       `json:"reviewed_at,omitempty"`
}

// IsTerminal returns true once the submission has been reviewed.
// Terminal submissions may not be reviewed again.
func (s *Submission) IsTerminal() bool {
	return s.Status != SubmissionStatusPending
}
