package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/newsbrief/internal/model"
)

// TestWriteErrorResponse は{error}形式のレスポンスを検証する。
func TestWriteErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	WriteErrorResponse(w, http.StatusBadRequest, "Missing URL")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["error"] != "Missing URL" {
		t.Errorf("error = %q, want %q", body["error"], "Missing URL")
	}
}

// TestWriteDetailResponse は{detail}形式のレスポンスを検証する。
func TestWriteDetailResponse(t *testing.T) {
	w := httptest.NewRecorder()
	WriteDetailResponse(w, http.StatusUnauthorized, "Invalid credentials.")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["detail"] != "Invalid credentials." {
		t.Errorf("detail = %q, want %q", body["detail"], "Invalid credentials.")
	}
}

// TestWriteDomainError はドメインエラー種別とHTTPレスポンスの対応を検証する。
func TestWriteDomainError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantField  string
	}{
		{
			name:       "ValidationErrorは400のerror形式",
			err:        model.NewValidationError("Missing URL"),
			wantStatus: http.StatusBadRequest,
			wantField:  "error",
		},
		{
			name:       "AuthErrorは401のdetail形式",
			err:        model.NewAuthError("Invalid credentials."),
			wantStatus: http.StatusUnauthorized,
			wantField:  "detail",
		},
		{
			name:       "未分類のエラーは500",
			err:        errors.New("database down"),
			wantStatus: http.StatusInternalServerError,
			wantField:  "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteDomainError(w, logger, "test_operation", tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if _, ok := body[tt.wantField]; !ok {
				t.Errorf("body = %v, want field %q", body, tt.wantField)
			}
		})
	}
}
