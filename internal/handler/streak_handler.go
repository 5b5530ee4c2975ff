package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/newsbrief/internal/middleware"
	"github.com/hitoshi/newsbrief/internal/model"
	"github.com/hitoshi/newsbrief/internal/streak"
)

// StreakServiceInterface はストリークハンドラーが必要とするサービスインターフェース。
type StreakServiceInterface interface {
	CheckIn(ctx context.Context, userID string, now time.Time) (*streak.Result, error)
	GetStreak(ctx context.Context, userID string) (*model.UserProfile, error)
}

// StreakHandler はデイリーチェックインのHTTPハンドラー。
type StreakHandler struct {
	service StreakServiceInterface
	logger  *slog.Logger
}

// NewStreakHandler はStreakHandlerを生成する。
func NewStreakHandler(service StreakServiceInterface, logger *slog.Logger) *StreakHandler {
	return &StreakHandler{
		service: service,
		logger:  logger,
	}
}

// checkInResponse はチェックインのレスポンス。
type checkInResponse struct {
	Message     string  `json:"message"`
	Streak      int     `json:"streak"`
	MaxStreak   int     `json:"max_streak"`
	LastCheckIn *string `json:"last_check_in"`
}

// streakResponse はストリーク取得のレスポンス。
type streakResponse struct {
	Streak      int     `json:"streak"`
	MaxStreak   int     `json:"max_streak"`
	LastCheckIn *string `json:"last_check_in"`
}

// CheckIn はデイリーチェックインを実行する。
// POST /daily-check-in
func (h *StreakHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteDetailResponse(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	result, err := h.service.CheckIn(r.Context(), userID, time.Now())
	if err != nil {
		middleware.WriteDomainError(w, h.logger, "daily_check_in", err)
		return
	}

	middleware.WriteJSONResponse(w, http.StatusOK, checkInResponse{
		Message:     result.Message,
		Streak:      result.Streak,
		MaxStreak:   result.MaxStreak,
		LastCheckIn: formatCheckInDate(result.LastCheckIn),
	})
}

// GetStreak は現在のストリーク状態を返す。
// GET /streak
func (h *StreakHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteDetailResponse(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	profile, err := h.service.GetStreak(r.Context(), userID)
	if err != nil {
		middleware.WriteDomainError(w, h.logger, "get_streak", err)
		return
	}

	middleware.WriteJSONResponse(w, http.StatusOK, streakResponse{
		Streak:      profile.StreakCount,
		MaxStreak:   profile.MaxStreak,
		LastCheckIn: formatCheckInDate(profile.LastCheckIn),
	})
}

// formatCheckInDate はチェックイン日をYYYY-MM-DD形式にする。未チェックインはnil。
func formatCheckInDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02")
	return &formatted
}
