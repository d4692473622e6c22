package handlers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"promptlib/internal/apperrors"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperrors.Validationf("bad input"), 400},
		{"not found", fmt.Errorf("lookup: %w", apperrors.ErrNotFound), 404},
		{"conflict", fmt.Errorf("already reviewed: %w", apperrors.ErrConflict), 409},
		{"storage unavailable", apperrors.ErrStorageUnavailable, 503},
		{"unknown", fmt.Errorf("pq: connection reset"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			var body errorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused"))

	var body errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("internal detail leaked to client: %q", body.Error)
	}
}
