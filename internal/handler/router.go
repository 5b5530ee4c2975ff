package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/newsbrief/internal/middleware"
)

// HealthChecker はDB疎通確認のインターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	StatusRecorder    middleware.HTTPStatusRecorder

	// 運用エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// サービス
	AuthService    AuthServiceInterface
	SummaryService SummaryServiceInterface
	SocialService  SocialServiceInterface
	StreakService  StreakServiceInterface

	// メトリクス
	EngagementRecorder EngagementRecorder
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → (Metrics) → Auth → RateLimit
//
// 登録・ログインは認証不要。要約とメタ情報取得は任意認証
// （未認証でも呼び出せるが、認証済みならユーザーIDが利用される）。
// それ以外のルートはBearerトークン認証が必須。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.Logger)
	newsHandler := NewNewsHandler(deps.SummaryService, deps.Logger)
	socialHandler := NewSocialHandler(deps.SocialService, deps.EngagementRecorder, deps.Logger)
	streakHandler := NewStreakHandler(deps.StreakService, deps.Logger)

	// --- 認証不要のルート ---
	r.Get("/health", healthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// --- 任意認証のルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewOptionalAuthMiddleware(deps.TokenVerifier))

		// POST /news-summarize - 要約専用レート制限を追加
		r.With(deps.RateLimiter.SummarizeMiddleware()).Post("/news-summarize", newsHandler.Summarize)
		r.Get("/news-meta", socialHandler.NewsMeta)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/me", authHandler.Me)
		r.Post("/like", socialHandler.Like)
		r.Post("/comment", socialHandler.Comment)
		r.Get("/favorites", socialHandler.Favorites)
		r.Get("/user-stats", socialHandler.UserStats)
		r.Post("/daily-check-in", streakHandler.CheckIn)
		r.Get("/streak", streakHandler.GetStreak)
	})

	return r
}

// healthHandler はDB疎通を確認して200または503を返すハンドラーを返す。
// Dockerヘルスチェックおよびロードバランサーの死活監視用。
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				middleware.WriteJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		middleware.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
