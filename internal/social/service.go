// Package social はいいね・コメントなどのソーシャル機能のドメインロジックを提供する。
package social

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hitoshi/newsbrief/internal/model"
	"github.com/hitoshi/newsbrief/internal/repository"
)

// NewsEnsurer は記事レコードの存在保証インターフェース。
// summary.Serviceの永続化パスを抽象化してテスタビリティを向上させる。
type NewsEnsurer interface {
	EnsureNewsItem(ctx context.Context, url, fallbackTitle string) (*model.NewsItem, error)
}

// Sanitizer はコメント本文のサニタイズインターフェース。
type Sanitizer interface {
	Sanitize(raw string) string
}

// Engagement は記事のいいね・コメント状況のスナップショット。
type Engagement struct {
	Likes    int
	Comments []model.CommentWithUser
	HasLiked bool
}

// Stats はユーザーのソーシャル活動の集計。
type Stats struct {
	Favorites int
	Comments  int
}

// Service はいいね・コメント・お気に入り一覧のドメインロジックを提供する。
// いいね・コメントの前に記事レコードの存在をNewsEnsurer経由で保証する。
// 要約の失敗はNewsEnsurer側で握りつぶされるため、ソーシャル操作が
// 要約失敗でブロックされることはない。
type Service struct {
	ensurer   NewsEnsurer
	sanitizer Sanitizer
	news      repository.NewsRepository
	likes     repository.LikeRepository
	comments  repository.CommentRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	ensurer NewsEnsurer,
	sanitizer Sanitizer,
	news repository.NewsRepository,
	likes repository.LikeRepository,
	comments repository.CommentRepository,
) *Service {
	return &Service{
		ensurer:   ensurer,
		sanitizer: sanitizer,
		news:      news,
		likes:     likes,
		comments:  comments,
	}
}

// ToggleLike は記事へのいいねをトグルし、いいね後の状態を返す。
// 記事が未登録の場合は作成・充足してからトグルする。
func (s *Service) ToggleLike(ctx context.Context, userID, url, fallbackTitle string) (bool, error) {
	if url == "" {
		return false, model.NewValidationError("Missing URL")
	}

	news, err := s.ensurer.EnsureNewsItem(ctx, url, fallbackTitle)
	if err != nil {
		return false, fmt.Errorf("記事レコードの確保に失敗しました: %w", err)
	}

	liked, err := s.likes.Toggle(ctx, userID, news.ID)
	if err != nil {
		return false, fmt.Errorf("いいねのトグルに失敗しました: %w", err)
	}
	return liked, nil
}

// AddComment は記事にコメントを追加する。
// 本文はサニタイズされ、サニタイズ後に空になる場合はValidationErrorとなる。
func (s *Service) AddComment(ctx context.Context, userID, url, fallbackTitle, text string) error {
	if url == "" || text == "" {
		return model.NewValidationError("URL and text are required")
	}

	sanitized := s.sanitizer.Sanitize(text)
	if sanitized == "" {
		return model.NewValidationError("URL and text are required")
	}

	news, err := s.ensurer.EnsureNewsItem(ctx, url, fallbackTitle)
	if err != nil {
		return fmt.Errorf("記事レコードの確保に失敗しました: %w", err)
	}

	comment := &model.Comment{
		ID:     uuid.NewString(),
		NewsID: news.ID,
		UserID: userID,
		Body:   sanitized,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}
	return nil
}

// GetEngagement は記事のいいね数・コメント一覧・いいね済みフラグを返す。
// 未登録のURLに対してはゼロ値のスナップショットを返す（エラーにしない）。
// userIDが空（未認証）の場合、HasLikedは常にfalse。
func (s *Service) GetEngagement(ctx context.Context, url, userID string) (*Engagement, error) {
	if url == "" {
		return nil, model.NewValidationError("Missing URL")
	}

	news, err := s.news.FindByURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("記事の検索に失敗しました: %w", err)
	}
	if news == nil {
		return &Engagement{Likes: 0, Comments: []model.CommentWithUser{}, HasLiked: false}, nil
	}

	likeCount, err := s.likes.CountByNews(ctx, news.ID)
	if err != nil {
		return nil, fmt.Errorf("いいね数の取得に失敗しました: %w", err)
	}

	comments, err := s.comments.ListByNews(ctx, news.ID)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}
	if comments == nil {
		comments = []model.CommentWithUser{}
	}

	hasLiked := false
	if userID != "" {
		hasLiked, err = s.likes.Exists(ctx, userID, news.ID)
		if err != nil {
			return nil, fmt.Errorf("いいね状態の取得に失敗しました: %w", err)
		}
	}

	return &Engagement{
		Likes:    likeCount,
		Comments: comments,
		HasLiked: hasLiked,
	}, nil
}

// ListLikedNews はユーザーがいいねした記事の一覧を返す。順序は保証しない。
func (s *Service) ListLikedNews(ctx context.Context, userID string) ([]model.LikedNews, error) {
	list, err := s.likes.ListLikedNewsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	if list == nil {
		list = []model.LikedNews{}
	}
	return list, nil
}

// UserStats はユーザーのいいね総数とコメント総数を返す。
func (s *Service) UserStats(ctx context.Context, userID string) (*Stats, error) {
	favorites, err := s.likes.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("いいね総数の取得に失敗しました: %w", err)
	}
	comments, err := s.comments.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("コメント総数の取得に失敗しました: %w", err)
	}
	return &Stats{Favorites: favorites, Comments: comments}, nil
}
