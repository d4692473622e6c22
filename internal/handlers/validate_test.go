package handlers

import (
	"strings"
	"testing"
)

func TestValidatePromptFields(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		body      string
		platforms []string
		wantOK    bool
	}{
		{"valid", "A prompt", "Do the thing.", []string{"ChatGPT"}, true},
		{"no platforms", "A prompt", "Do the thing.", nil, true},
		{"empty title", "", "body", nil, false},
		{"whitespace title", "   ", "body", nil, false},
		{"empty body", "title", "", nil, false},
		{"title too long", strings.Repeat("x", 301), "body", nil, false},
		{"blank platform", "title", "body", []string{"ChatGPT", " "}, false},
		{"too many platforms", "title", "body", make([]string, 21), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name == "too many platforms" {
				for i := range tt.platforms {
					tt.platforms[i] = "p"
				}
			}
			msg := validatePromptFields(tt.title, tt.body, tt.platforms)
			if (msg == "") != tt.wantOK {
				t.Errorf("got %q, want ok=%v", msg, tt.wantOK)
			}
		})
	}
}

func TestValidateCategoryName(t *testing.T) {
	if msg := validateCategoryName("Engineering"); msg != "" {
		t.Errorf("valid name rejected: %s", msg)
	}
	if msg := validateCategoryName(""); msg == "" {
		t.Error("empty name accepted")
	}
	if msg := validateCategoryName(strings.Repeat("x", 201)); msg == "" {
		t.Error("overlong name accepted")
	}
}

func TestValidateExternalURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantOK bool
	}{
		{"https", "https://example.com/doc", true},
		{"http", "http://example.com", true},
		{"ftp scheme", "ftp://example.com/file", false},
		{"no host", "https://", false},
		{"empty", "", false},
		{"relative", "/docs/help", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateExternalURL(tt.url)
			if (msg == "") != tt.wantOK {
				t.Errorf("validateExternalURL(%q) = %q, want ok=%v", tt.url, msg, tt.wantOK)
			}
		})
	}
}

func TestValidateUploadRequest(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		wantOK      bool
	}{
		{"pdf", "report.pdf", "application/pdf", true},
		{"markdown", "notes.md", "text/markdown", true},
		{"executable", "tool.exe", "application/x-msdownload", false},
		{"html", "page.html", "text/html", false},
		{"empty filename", "", "application/pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateUploadRequest(tt.filename, tt.contentType)
			if (msg == "") != tt.wantOK {
				t.Errorf("got %q, want ok=%v", msg, tt.wantOK)
			}
		})
	}
}
