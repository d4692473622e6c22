// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentType distinguishes stored files from external links.
type DocumentType string

const (
	DocumentTypeFile DocumentType = "file"
	DocumentTypeLink DocumentType = "link"
)

// Document is metadata describing a file or link attached to a prompt.
// Exactly one of FilePath and ExternalURL is populated, matching Type.
// The bytes of file documents live in object storage; only the location
// string is recorded here.
type Document struct {
	ID          uuid.UUID    `json:"id"`
	PromptID    uuid.UUID    `json:"prompt_id"`
	Title       string       `json:"title"`
	Type        DocumentType `json:"document_type"`
	FilePath    *string      `json:"file_path,omitempty"`
	ExternalURL *string      `json:"external_url,omitempty"`
	FileSize    *int64       `json:"file_size,omitempty"`
	MimeType    *string      `json:"mime_type,omitempty"`
	SortOrder   int          `json:"sort_order"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsFile returns true for documents whose bytes live in object storage.
func (d *Document) IsFile() bool {
	return d.Type == DocumentTypeFile
}

// HumanSize returns a human-readable file size string, or empty for links.
func (d *Document) HumanSize() string {
	if d.FileSize == nil {
		return ""
	}
	const (
		kb = 1024
		mb = 1024 * kb
	)
	size := *d.FileSize
	switch {
	case size >= mb:
		return fmt.Sprintf("%.1f MB", float64(size)/float64(mb))
	case size >= kb:
		return fmt.Sprintf("%.0f KB", float64(size)/float64(kb))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
