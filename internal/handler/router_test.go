package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/newsbrief/internal/auth"
	"github.com/hitoshi/newsbrief/internal/middleware"
	"github.com/hitoshi/newsbrief/internal/model"
	"github.com/hitoshi/newsbrief/internal/social"
)

// newTestRouter はモックサービスを束ねたルーターとトークンマネージャーを返す。
func newTestRouter(t *testing.T) (http.Handler, *auth.TokenManager, *middleware.RateLimiter) {
	t.Helper()

	tokens := auth.NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(limiter.Stop)

	deps := &RouterDeps{
		TokenVerifier:     tokens,
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       limiter,
		Logger:            testLogger(),
		AuthService:       &mockAuthService{},
		SummaryService:    &mockSummaryService{},
		SocialService: &mockSocialService{
			getEngagementFunc: func(ctx context.Context, url, userID string) (*social.Engagement, error) {
				return &social.Engagement{Comments: []model.CommentWithUser{}}, nil
			},
		},
		StreakService:      &mockStreakService{},
		EngagementRecorder: &mockEngagementRecorder{},
	}

	return NewRouter(deps), tokens, limiter
}

// TestRouter_PublicRoutes は登録・ログインが認証なしで到達できることを検証する。
func TestRouter_PublicRoutes(t *testing.T) {
	router, _, _ := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{
			name:       "登録",
			method:     http.MethodPost,
			target:     "/register",
			body:       `{"username":"alice","email":"a@example.com","password":"pw"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "ログイン失敗",
			method:     http.MethodPost,
			target:     "/login",
			body:       `{"username":"alice","password":"pw"}`,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

// TestRouter_ProtectedRoutesRequireAuth は保護されたルートが
// トークンなしで401を返すことを検証する。
func TestRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	routes := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/me"},
		{http.MethodPost, "/like"},
		{http.MethodPost, "/comment"},
		{http.MethodGet, "/favorites"},
		{http.MethodGet, "/user-stats"},
		{http.MethodPost, "/daily-check-in"},
		{http.MethodGet, "/streak"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.target, func(t *testing.T) {
			req := httptest.NewRequest(rt.method, rt.target, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

// TestRouter_AuthenticatedAccess は有効なBearerトークンで保護ルートに到達できることを検証する。
func TestRouter_AuthenticatedAccess(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	pair, err := tokens.GeneratePair("u1")
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/user-stats", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}
}

// TestRouter_OptionalAuthRoutes は要約とメタ情報取得が匿名で呼び出せることを検証する。
func TestRouter_OptionalAuthRoutes(t *testing.T) {
	router, _, _ := newTestRouter(t)

	t.Run("匿名での要約リクエスト", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/news-summarize", strings.NewReader(`{"url":""}`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		// 認証エラーではなくバリデーションエラーになる
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("匿名でのメタ情報取得", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/news-meta?url=https%3A%2F%2Fexample.com%2Fa", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})
}

// TestRouter_HealthEndpoint はヘルスチェックが認証なしで200を返すことを検証する。
func TestRouter_HealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

// TestRouter_SecurityHeaders はセキュリティヘッダーが全レスポンスに付与されることを検証する。
func TestRouter_SecurityHeaders(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"a","password":"b"}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

// TestRouter_CORSPreflight はOPTIONSプリフライトが204で応答されることを検証する。
func TestRouter_CORSPreflight(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

// TestRouter_SummarizeRateLimit は要約エンドポイントのレート制限が機能することを検証する。
func TestRouter_SummarizeRateLimit(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	// バースト2・補充はほぼゼロの厳しい設定で即座に制限させる
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    100,
		SummarizeRate:   0.001,
		SummarizeBurst:  2,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(limiter.Stop)

	deps := &RouterDeps{
		TokenVerifier:      tokens,
		CORSAllowedOrigin:  "http://localhost:3000",
		RateLimiter:        limiter,
		Logger:             testLogger(),
		AuthService:        &mockAuthService{},
		SummaryService:     &mockSummaryService{},
		SocialService:      &mockSocialService{},
		StreakService:      &mockStreakService{},
		EngagementRecorder: &mockEngagementRecorder{},
	}
	router := NewRouter(deps)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/news-summarize", strings.NewReader(`{"url":""}`))
		req.RemoteAddr = "192.0.2.1:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := send(); code == http.StatusTooManyRequests {
			t.Fatalf("request %d was rate limited too early", i+1)
		}
	}

	if code := send(); code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", code, http.StatusTooManyRequests)
	}
}
