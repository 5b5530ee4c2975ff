package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/newsbrief/internal/model"
	"github.com/hitoshi/newsbrief/internal/summary"
)

// mockSummaryService はテスト用のSummaryServiceInterfaceモック。
type mockSummaryService struct {
	summarizeURLFunc func(ctx context.Context, url string) (*summary.Result, error)
}

func (m *mockSummaryService) SummarizeURL(ctx context.Context, url string) (*summary.Result, error) {
	if m.summarizeURLFunc != nil {
		return m.summarizeURLFunc(ctx, url)
	}
	return nil, model.NewSummarizationError("要約に失敗しました")
}

// TestSummarizeHandler_Success は要約成功でタイトル・要約・画像が返ることを検証する。
func TestSummarizeHandler_Success(t *testing.T) {
	service := &mockSummaryService{
		summarizeURLFunc: func(ctx context.Context, url string) (*summary.Result, error) {
			if url != "https://example.com/article" {
				t.Errorf("url = %q", url)
			}
			return &summary.Result{
				Title:   "記事タイトル",
				Summary: "要約本文。",
				Image:   "https://example.com/lead.jpg",
			}, nil
		},
	}
	h := NewNewsHandler(service, testLogger())

	body := `{"url":"https://example.com/article"}`
	req := httptest.NewRequest(http.MethodPost, "/news-summarize", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Summarize(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if resp["title"] != "記事タイトル" {
		t.Errorf("title = %q", resp["title"])
	}
	if resp["summary"] != "要約本文。" {
		t.Errorf("summary = %q", resp["summary"])
	}
	if resp["image"] != "https://example.com/lead.jpg" {
		t.Errorf("image = %q", resp["image"])
	}
}

// TestSummarizeHandler_MissingURL はURL未指定で400が返ることを検証する。
func TestSummarizeHandler_MissingURL(t *testing.T) {
	h := NewNewsHandler(&mockSummaryService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/news-summarize", strings.NewReader(`{"url":""}`))
	w := httptest.NewRecorder()

	h.Summarize(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if resp["error"] != "URL is required" {
		t.Errorf("error = %q", resp["error"])
	}
}

// TestSummarizeHandler_InvalidJSON は不正なJSONで400が返ることを検証する。
func TestSummarizeHandler_InvalidJSON(t *testing.T) {
	h := NewNewsHandler(&mockSummaryService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/news-summarize", strings.NewReader("not json"))
	w := httptest.NewRecorder()

	h.Summarize(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestSummarizeHandler_PipelineError は要約パイプラインの失敗が
// エラーメッセージそのままの500で返ることを検証する。
func TestSummarizeHandler_PipelineError(t *testing.T) {
	pipelineErr := model.NewArticleProcessingError(
		"https://example.com/broken",
		model.NewFetchError("https://example.com/broken", errors.New("ステータスコード 404")),
	)
	service := &mockSummaryService{
		summarizeURLFunc: func(ctx context.Context, url string) (*summary.Result, error) {
			return nil, pipelineErr
		},
	}
	h := NewNewsHandler(service, testLogger())

	body := `{"url":"https://example.com/broken"}`
	req := httptest.NewRequest(http.MethodPost, "/news-summarize", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Summarize(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if resp["error"] != pipelineErr.Error() {
		t.Errorf("error = %q, want %q", resp["error"], pipelineErr.Error())
	}
}

// TestSummarizeHandler_ValidationError はバリデーションエラーが400になることを検証する。
func TestSummarizeHandler_ValidationError(t *testing.T) {
	service := &mockSummaryService{
		summarizeURLFunc: func(ctx context.Context, url string) (*summary.Result, error) {
			return nil, model.NewValidationError("URLが不正です")
		},
	}
	h := NewNewsHandler(service, testLogger())

	body := `{"url":"ftp://example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/news-summarize", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Summarize(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
