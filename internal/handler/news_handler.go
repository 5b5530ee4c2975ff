package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/newsbrief/internal/middleware"
	"github.com/hitoshi/newsbrief/internal/model"
	"github.com/hitoshi/newsbrief/internal/summary"
)

// SummaryServiceInterface はニュースハンドラーが必要とするサービスインターフェース。
type SummaryServiceInterface interface {
	SummarizeURL(ctx context.Context, url string) (*summary.Result, error)
}

// NewsHandler は記事要約のHTTPハンドラー。
type NewsHandler struct {
	service SummaryServiceInterface
	logger  *slog.Logger
}

// NewNewsHandler はNewsHandlerを生成する。
func NewNewsHandler(service SummaryServiceInterface, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{
		service: service,
		logger:  logger,
	}
}

// summarizeRequest は要約リクエストのボディ。
type summarizeRequest struct {
	URL string `json:"url"`
}

// summarizeResponse は要約成功時のレスポンス。
type summarizeResponse struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Image   string `json:"image"`
}

// Summarize は記事URLを取得・要約して返す。永続化はしない。
// POST /news-summarize
//
// 要約パイプラインの失敗はエラーメッセージをそのまま500で返す。
func (h *NewsHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.URL == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, "URL is required")
		return
	}

	result, err := h.service.SummarizeURL(r.Context(), req.URL)
	if err != nil {
		var valErr *model.ValidationError
		if errors.As(err, &valErr) {
			middleware.WriteErrorResponse(w, http.StatusBadRequest, valErr.Message)
			return
		}

		h.logger.Error("記事の要約に失敗しました",
			"operation", "summarize",
			"url", req.URL,
			"error", err,
		)
		middleware.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteJSONResponse(w, http.StatusOK, summarizeResponse{
		Title:   result.Title,
		Summary: result.Summary,
		Image:   result.Image,
	})
}
