// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/newsbrief/internal/middleware"
	"github.com/hitoshi/newsbrief/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, username, password string) (*model.User, *model.TokenPair, error)
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
}

// AuthHandler はユーザー登録・ログイン・本人情報のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	logger  *slog.Logger
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register は新規ユーザーを登録する。
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteDetailResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.service.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		h.writeAuthError(w, "register", err)
		return
	}

	middleware.WriteJSONResponse(w, http.StatusCreated, map[string]string{
		"detail": "User registered successfully.",
	})
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse はログイン成功時のレスポンス。
type loginResponse struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login は認証情報を検証してトークンペアを発行する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteDetailResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, pair, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeAuthError(w, "login", err)
		return
	}

	middleware.WriteJSONResponse(w, http.StatusOK, loginResponse{
		Access:   pair.Access,
		Refresh:  pair.Refresh,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Me は認証済みユーザーの情報を返す。
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteDetailResponse(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		h.writeAuthError(w, "current_user", err)
		return
	}

	middleware.WriteJSONResponse(w, http.StatusOK, map[string]string{
		"username": user.Username,
		"email":    user.Email,
	})
}

// writeAuthError は認証系APIのエラーを{detail}形式で書き込む。
// ValidationErrorも認証系では{detail}形式を使用する。
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, operation string, err error) {
	var valErr *model.ValidationError
	if errors.As(err, &valErr) {
		middleware.WriteDetailResponse(w, http.StatusBadRequest, valErr.Message)
		return
	}

	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		middleware.WriteDetailResponse(w, http.StatusUnauthorized, authErr.Message)
		return
	}

	h.logger.Error("unexpected error",
		"operation", operation,
		"error", err,
	)
	middleware.WriteDetailResponse(w, http.StatusInternalServerError, "Internal server error")
}
