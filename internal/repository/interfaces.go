// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/newsbrief/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// NewsRepository はニュース記事キャッシュの永続化インターフェース。
type NewsRepository interface {
	// FindByURL はURLで記事を検索する。見つからない場合はnilを返す。
	FindByURL(ctx context.Context, url string) (*model.NewsItem, error)

	// GetOrCreateByURL はURLで記事を取得し、存在しない場合は空のプレースホルダーを作成する。
	// UNIQUE(url)制約とINSERT ON CONFLICTにより、並行する初回いいねでも
	// 同一URLの行が重複しないことを保証する。
	GetOrCreateByURL(ctx context.Context, url string) (*model.NewsItem, error)

	// UpdateEnrichment はタイトル・画像URL・要約を一括で上書きする。
	// 3項目は常にまとめて更新する（部分更新はしない）。
	UpdateEnrichment(ctx context.Context, id, title, imageURL, summary string) error

	// UpdateTitle はタイトルのみを更新する。
	// 記事の取得・要約に失敗した場合のフォールバックタイトル設定に使用する。
	UpdateTitle(ctx context.Context, id, title string) error
}

// LikeRepository はいいねデータの永続化インターフェース。
type LikeRepository interface {
	// Toggle は(user, news)のいいねをトグルする。
	// 既存のいいねがあれば削除してfalseを、なければ作成してtrueを返す。
	// 削除と作成は同一トランザクションで実行され、UNIQUE(user_id, news_id)制約により
	// 並行する二重トグルでも重複行は発生しない。
	Toggle(ctx context.Context, userID, newsID string) (bool, error)

	// Exists は(user, news)のいいねが存在するかを返す。
	Exists(ctx context.Context, userID, newsID string) (bool, error)

	// CountByNews は記事のいいね数を返す。
	CountByNews(ctx context.Context, newsID string) (int, error)

	// CountByUser はユーザーのいいね総数を返す。
	CountByUser(ctx context.Context, userID string) (int, error)

	// ListLikedNewsByUser はユーザーがいいねした記事の一覧を返す。順序は保証しない。
	ListLikedNewsByUser(ctx context.Context, userID string) ([]model.LikedNews, error)
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// Create はコメントを作成する。
	Create(ctx context.Context, comment *model.Comment) error

	// ListByNews は記事のコメント一覧を投稿者のユーザー名付きで作成日時昇順で返す。
	ListByNews(ctx context.Context, newsID string) ([]model.CommentWithUser, error)

	// CountByUser はユーザーのコメント総数を返す。
	CountByUser(ctx context.Context, userID string) (int, error)
}

// ProfileRepository はユーザープロフィール（ストリーク状態）の永続化インターフェース。
type ProfileRepository interface {
	// GetOrCreate はユーザーのプロフィールを取得し、存在しない場合は初期状態で作成する。
	GetOrCreate(ctx context.Context, userID string) (*model.UserProfile, error)

	// UpdateWithLock はプロフィール行をSELECT FOR UPDATEでロックした上でfnを適用し、
	// 更新後の状態を保存して返す。行が存在しない場合は初期状態で作成してからロックする。
	// 同一ユーザーの並行チェックインによるストリーク更新の消失を防ぐ。
	UpdateWithLock(ctx context.Context, userID string, fn func(p *model.UserProfile)) (*model.UserProfile, error)
}
