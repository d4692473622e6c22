package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIssueUploadURLWithoutStorage(t *testing.T) {
	d := NewDocuments(nil, nil, nil, nil)

	body := strings.NewReader(`{"filename":"doc.pdf","content_type":"application/pdf"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/api/documents/upload-url", body)
	rr := httptest.NewRecorder()
	d.IssueUploadURL(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when storage is unconfigured", rr.Code)
	}
}
