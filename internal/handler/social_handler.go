package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/newsbrief/internal/middleware"
	"github.com/hitoshi/newsbrief/internal/model"
	"github.com/hitoshi/newsbrief/internal/social"
)

// SocialServiceInterface はソーシャルハンドラーが必要とするサービスインターフェース。
type SocialServiceInterface interface {
	ToggleLike(ctx context.Context, userID, url, fallbackTitle string) (bool, error)
	AddComment(ctx context.Context, userID, url, fallbackTitle, text string) error
	GetEngagement(ctx context.Context, url, userID string) (*social.Engagement, error)
	ListLikedNews(ctx context.Context, userID string) ([]model.LikedNews, error)
	UserStats(ctx context.Context, userID string) (*social.Stats, error)
}

// EngagementRecorder はソーシャル操作のメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type EngagementRecorder interface {
	RecordLikeToggled()
	RecordCommentCreated()
}

// SocialHandler はいいね・コメント・お気に入りのHTTPハンドラー。
type SocialHandler struct {
	service SocialServiceInterface
	metrics EngagementRecorder
	logger  *slog.Logger
}

// NewSocialHandler はSocialHandlerを生成する。
func NewSocialHandler(service SocialServiceInterface, metrics EngagementRecorder, logger *slog.Logger) *SocialHandler {
	return &SocialHandler{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

// likeRequest はいいねトグルリクエストのボディ。
// titleは記事未登録時のフォールバックタイトルとして使用される。
type likeRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Like は記事へのいいねをトグルする。
// POST /like
func (h *SocialHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteDetailResponse(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	liked, err := h.service.ToggleLike(r.Context(), userID, req.URL, req.Title)
	if err != nil {
		middleware.WriteDomainError(w, h.logger, "toggle_like", err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLikeToggled()
	}

	message := "Unliked"
	if liked {
		message = "Liked"
	}
	middleware.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": message})
}

// commentRequest はコメント投稿リクエストのボディ。
type commentRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Comment は記事にコメントを追加する。
// POST /comment
func (h *SocialHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteDetailResponse(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.service.AddComment(r.Context(), userID, req.URL, req.Title, req.Text); err != nil {
		middleware.WriteDomainError(w, h.logger, "add_comment", err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCommentCreated()
	}

	middleware.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Comment added successfully"})
}

// commentEntry はコメント一覧のエントリ。
// キー名はクライアントが依存している既存APIの形式に合わせる。
type commentEntry struct {
	Username  string    `json:"user__username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// engagementResponse は記事のいいね・コメント状況のレスポンス。
type engagementResponse struct {
	Likes    int            `json:"likes"`
	Comments []commentEntry `json:"comments"`
	HasLiked bool           `json:"has_liked"`
}

// NewsMeta は記事のいいね数・コメント一覧・いいね済みフラグを返す。
// GET /news-meta?url=
//
// 未登録のURLに対してはゼロ値を返す。認証は任意で、
// 未認証の場合has_likedは常にfalse。
func (h *SocialHandler) NewsMeta(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, "Missing URL")
		return
	}

	// 認証は任意。未認証の場合は空のユーザーIDで問い合わせる
	userID, _ := middleware.UserIDFromContext(r.Context())

	engagement, err := h.service.GetEngagement(r.Context(), url, userID)
	if err != nil {
		middleware.WriteDomainError(w, h.logger, "get_engagement", err)
		return
	}

	comments := make([]commentEntry, 0, len(engagement.Comments))
	for _, c := range engagement.Comments {
		comments = append(comments, commentEntry{
			Username:  c.Username,
			Text:      c.Body,
			CreatedAt: c.CreatedAt,
		})
	}

	middleware.WriteJSONResponse(w, http.StatusOK, engagementResponse{
		Likes:    engagement.Likes,
		Comments: comments,
		HasLiked: engagement.HasLiked,
	})
}

// favoriteEntry はお気に入り一覧のエントリ。
type favoriteEntry struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// Favorites は認証済みユーザーがいいねした記事の一覧を返す。
// GET /favorites
func (h *SocialHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteDetailResponse(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	list, err := h.service.ListLikedNews(r.Context(), userID)
	if err != nil {
		middleware.WriteDomainError(w, h.logger, "list_liked_news", err)
		return
	}

	entries := make([]favoriteEntry, 0, len(list))
	for _, item := range list {
		entries = append(entries, favoriteEntry{
			URL:         item.URL,
			Title:       item.Title,
			Image:       item.Image,
			Description: item.Summary,
		})
	}

	middleware.WriteJSONResponse(w, http.StatusOK, entries)
}

// UserStats は認証済みユーザーのいいね・コメント総数を返す。
// GET /user-stats
func (h *SocialHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteDetailResponse(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	stats, err := h.service.UserStats(r.Context(), userID)
	if err != nil {
		middleware.WriteDomainError(w, h.logger, "user_stats", err)
		return
	}

	middleware.WriteJSONResponse(w, http.StatusOK, map[string]int{
		"favorites": stats.Favorites,
		"comments":  stats.Comments,
	})
}
