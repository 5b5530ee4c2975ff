package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/newsbrief/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// Create はコメントを作成する。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, news_id, user_id, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.NewsID, comment.UserID, comment.Body, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}
	return nil
}

// ListByNews は記事のコメント一覧を投稿者のユーザー名付きで作成日時昇順で返す。
func (r *PostgresCommentRepo) ListByNews(ctx context.Context, newsID string) ([]model.CommentWithUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.news_id, c.user_id, c.body, c.created_at, u.username
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.news_id = $1
		 ORDER BY c.created_at ASC`,
		newsID,
	)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var comments []model.CommentWithUser
	for rows.Next() {
		var c model.CommentWithUser
		if err := rows.Scan(&c.ID, &c.NewsID, &c.UserID, &c.Body, &c.CreatedAt, &c.Username); err != nil {
			return nil, fmt.Errorf("コメントのスキャンに失敗しました: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("コメント一覧の読み取りに失敗しました: %w", err)
	}

	return comments, nil
}

// CountByUser はユーザーのコメント総数を返す。
func (r *PostgresCommentRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ユーザーのコメント数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
