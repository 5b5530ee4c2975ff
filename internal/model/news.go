// Package model はドメインモデルを定義する。
package model

import "time"

// NewsItem はユーザーが共有したニュース記事を表す。
// URLで一意に識別され、タイトル・要約・画像は初回のいいね/要約時に
// 遅延的に充足されるキャッシュとして扱う。
type NewsItem struct {
	ID        string
	URL       string
	Title     string
	ImageURL  string
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NeedsEnrichment はタイトル・画像・要約のいずれかが未設定かを返す。
// いずれか1つでも欠けている場合は3項目すべてを再計算する
// （部分更新はせず、全項目を一括で上書きする）。
func (n *NewsItem) NeedsEnrichment() bool {
	return n.Title == "" || n.ImageURL == "" || n.Summary == ""
}

// Like はユーザーとニュース記事のいいね関係を表す。
// (user_id, news_id) の組で一意。トグル操作により作成・削除される。
type Like struct {
	ID        string
	UserID    string
	NewsID    string
	CreatedAt time.Time
}

// Comment はニュース記事へのコメントを表す。追記のみで編集・削除はしない。
type Comment struct {
	ID        string
	NewsID    string
	UserID    string
	Body      string
	CreatedAt time.Time
}

// CommentWithUser はコメントと投稿者のユーザー名を結合したモデル。
// commentsテーブルとusersテーブルをJOINして取得される。
type CommentWithUser struct {
	Comment
	Username string
}

// LikedNews はユーザーがいいねした記事の一覧表示用モデル。
type LikedNews struct {
	URL     string
	Title   string
	Image   string
	Summary string
}
