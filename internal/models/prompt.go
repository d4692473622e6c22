// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PromptStatus represents the publishing state of a prompt.
type PromptStatus string

const (
	PromptStatusDraft     PromptStatus = "draft"
	PromptStatusPublished PromptStatus = "published"
	PromptStatusArchived  PromptStatus = "archived"
)

// Prompt is a curated text prompt in the library. CategoryID is the
// primary classification; SubcategoryID is an optional second category
// association used only as an extra filter target, not a tree edge.
type Prompt struct {
	ID            uuid.UUID    `json:"id"`
	Title         string       `json:"title"`
	Body          string       `json:"body"`
	CategoryID    uuid.UUID    `json:"category_id"`
	SubcategoryID *uuid.UUID   `json:"subcategory_id,omitempty"`
	Platforms     []string     `json:"platforms"`
	Instructions  *string      `json:"instructions,omitempty"`
	Tags          *string      `json:"tags,omitempty"`
	Status        PromptStatus `json:"status"`
	CreatedBy     *uuid.UUID   `json:"created_by,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsPublished returns true if the prompt is visible to public readers.
func (p *Prompt) IsPublished() bool {
	return p.Status == PromptStatusPublished
}

// HasPlatform reports whether the prompt lists the given platform,
// compared case-insensitively.
func (p *Prompt) HasPlatform(platform string) bool {
	for _, pl := range p.Platforms {
		if strings.EqualFold(pl, platform) {
			return true
		}
	}
	return false
}

// EncodePlatforms serializes a platform list to the JSON text stored in
// the platforms column. An empty list encodes to NULL (nil pointer).
func EncodePlatforms(platforms []string) *string {
	if len(platforms) == 0 {
		return nil
	}
	raw, err := json.Marshal(platforms)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}

// DecodePlatforms parses the stored platforms column. The column
// historically held a single scalar platform name before the
// list migration, so a bare string is lifted into a one-element list.
// Malformed payloads decode to an empty list rather than failing.
func DecodePlatforms(raw *string) []string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "[") {
		var list []string
		if err := json.Unmarshal([]byte(s), &list); err != nil {
			return nil
		}
		return list
	}

	// Legacy scalar value from before the platforms migration.
	return []string{s}
}
