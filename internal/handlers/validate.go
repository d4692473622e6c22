package handlers

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validation limits for prompt and submission fields.
const (
	maxTitleLen        = 300
	maxBodyLen         = 100_000
	maxInstructionsLen = 10_000
	maxTagsLen         = 1_000
	maxCategoryNameLen = 200
	maxNotesLen        = 5_000
	maxPlatforms       = 20
	maxPlatformLen     = 100
	maxDocTitleLen     = 300
	maxURLLen          = 2_000
	maxFilenameLen     = 255
)

// allowedDocumentTypes defines MIME types accepted for file attachments.
var allowedDocumentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain":    true,
	"text/markdown": true,
	"text/csv":      true,
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
}

// validatePromptFields checks prompt inputs and returns the first error found.
func validatePromptFields(title, body string, platforms []string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(body) == "" {
		return "Body is required."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	if len(platforms) > maxPlatforms {
		return "Too many platforms (max 20)."
	}
	for _, p := range platforms {
		if strings.TrimSpace(p) == "" {
			return "Platform names must not be blank."
		}
		if utf8.RuneCountInString(p) > maxPlatformLen {
			return "Platform name is too long (max 100 characters)."
		}
	}
	return ""
}

// validateCategoryName checks a category name.
func validateCategoryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Category name is required."
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "Category name is too long (max 200 characters)."
	}
	return ""
}

// validateExternalURL checks a link document URL.
func validateExternalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "URL is required for link documents."
	}
	if len(raw) > maxURLLen {
		return "URL is too long (max 2,000 characters)."
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "URL must be a valid http or https address."
	}
	return ""
}

// validateUploadRequest checks an upload-location request.
func validateUploadRequest(filename, contentType string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "Filename is required."
	}
	if len(filename) > maxFilenameLen {
		return "Filename is too long (max 255 characters)."
	}
	if !allowedDocumentTypes[contentType] {
		return "File type not allowed."
	}
	return ""
}
