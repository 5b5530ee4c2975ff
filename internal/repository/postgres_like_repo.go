package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/newsbrief/internal/model"
)

// PostgresLikeRepo はPostgreSQLを使用したいいねリポジトリ。
type PostgresLikeRepo struct {
	db *sql.DB
}

// NewPostgresLikeRepo はPostgresLikeRepoを生成する。
func NewPostgresLikeRepo(db *sql.DB) *PostgresLikeRepo {
	return &PostgresLikeRepo{db: db}
}

// Toggle は(user, news)のいいねをトグルする。
// 既存のいいねがあれば削除してfalseを、なければ作成してtrueを返す。
// 削除と作成を同一トランザクションで実行する。並行トグルでINSERTが
// UNIQUE制約と衝突した場合はDO NOTHINGとなり、重複行は発生しない。
func (r *PostgresLikeRepo) Toggle(ctx context.Context, userID, newsID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND news_id = $2`,
		userID, newsID,
	)
	if err != nil {
		return false, fmt.Errorf("いいねの削除に失敗しました: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	liked := false
	if deleted == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO likes (id, user_id, news_id, created_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id, news_id) DO NOTHING`,
			uuid.New().String(), userID, newsID, time.Now().UTC(),
		)
		if err != nil {
			return false, fmt.Errorf("いいねの作成に失敗しました: %w", err)
		}
		liked = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return liked, nil
}

// Exists は(user, news)のいいねが存在するかを返す。
func (r *PostgresLikeRepo) Exists(ctx context.Context, userID, newsID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND news_id = $2)`,
		userID, newsID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("いいねの存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// CountByNews は記事のいいね数を返す。
func (r *PostgresLikeRepo) CountByNews(ctx context.Context, newsID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE news_id = $1`,
		newsID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("いいね数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountByUser はユーザーのいいね総数を返す。
func (r *PostgresLikeRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ユーザーのいいね数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// ListLikedNewsByUser はユーザーがいいねした記事の一覧を返す。
func (r *PostgresLikeRepo) ListLikedNewsByUser(ctx context.Context, userID string) ([]model.LikedNews, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT n.url, n.title, n.image_url, n.summary
		 FROM likes l
		 JOIN news_items n ON n.id = l.news_id
		 WHERE l.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("いいね記事一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var items []model.LikedNews
	for rows.Next() {
		var item model.LikedNews
		if err := rows.Scan(&item.URL, &item.Title, &item.Image, &item.Summary); err != nil {
			return nil, fmt.Errorf("いいね記事のスキャンに失敗しました: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("いいね記事一覧の読み取りに失敗しました: %w", err)
	}

	return items, nil
}

// compile-time interface check
var _ LikeRepository = (*PostgresLikeRepo)(nil)
