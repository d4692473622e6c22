package storage

import (
	"strings"
	"testing"
)

func TestBuildKey(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		public     bool
		wantPrefix string
		wantExt    string
	}{
		{"private pdf", "report.pdf", false, "private/uploads/", ".pdf"},
		{"public image", "logo.PNG", true, "public/", ".png"},
		{"no extension", "README", false, "private/uploads/", ""},
		{"dotted name keeps last ext", "archive.tar.gz", false, "private/uploads/", ".gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := BuildKey(tt.filename, tt.public)
			if !strings.HasPrefix(key, tt.wantPrefix) {
				t.Errorf("key %q missing prefix %q", key, tt.wantPrefix)
			}
			if !strings.HasSuffix(key, tt.wantExt) {
				t.Errorf("key %q missing extension %q", key, tt.wantExt)
			}
			// The original filename must not leak into the key.
			if strings.Contains(key, "report") || strings.Contains(key, "logo") {
				t.Errorf("key %q leaks original filename", key)
			}
		})
	}
}

func TestBuildKeyUnique(t *testing.T) {
	a := BuildKey("file.txt", false)
	b := BuildKey("file.txt", false)
	if a == b {
		t.Errorf("two keys for the same filename collided: %q", a)
	}
}

func TestIsPublicKey(t *testing.T) {
	if !IsPublicKey("public/abc.png") {
		t.Error("public/ key not recognized")
	}
	if IsPublicKey("private/uploads/abc.pdf") {
		t.Error("private key reported public")
	}
}

func TestNewUnconfigured(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "bucket", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Error("expected nil client when storage is unconfigured")
	}
}
