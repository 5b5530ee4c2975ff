package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/newsbrief/internal/model"
)

// PostgresNewsRepo はPostgreSQLを使用したニュース記事リポジトリ。
type PostgresNewsRepo struct {
	db *sql.DB
}

// NewPostgresNewsRepo はPostgresNewsRepoを生成する。
func NewPostgresNewsRepo(db *sql.DB) *PostgresNewsRepo {
	return &PostgresNewsRepo{db: db}
}

// FindByURL はURLで記事を検索する。見つからない場合はnilを返す。
func (r *PostgresNewsRepo) FindByURL(ctx context.Context, url string) (*model.NewsItem, error) {
	item := &model.NewsItem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, url, title, image_url, summary, created_at, updated_at
		 FROM news_items WHERE url = $1`,
		url,
	).Scan(&item.ID, &item.URL, &item.Title, &item.ImageURL, &item.Summary,
		&item.CreatedAt, &item.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("記事の取得に失敗しました: %w", err)
	}

	return item, nil
}

// GetOrCreateByURL はURLで記事を取得し、存在しない場合は空のプレースホルダーを作成する。
// INSERT ON CONFLICT DO NOTHINGにより並行する初回いいねでも行は重複しない。
// 衝突した場合は既存行を再取得して返す。
func (r *PostgresNewsRepo) GetOrCreateByURL(ctx context.Context, url string) (*model.NewsItem, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO news_items (id, url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (url) DO NOTHING`,
		uuid.New().String(), url, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("記事プレースホルダーの作成に失敗しました: %w", err)
	}

	item, err := r.FindByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("作成直後の記事が見つかりません: %s", url)
	}

	return item, nil
}

// UpdateEnrichment はタイトル・画像URL・要約を一括で上書きする。
func (r *PostgresNewsRepo) UpdateEnrichment(ctx context.Context, id, title, imageURL, summary string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE news_items SET title = $2, image_url = $3, summary = $4, updated_at = $5
		 WHERE id = $1`,
		id, title, imageURL, summary, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("記事メタデータの更新に失敗しました: %w", err)
	}
	return nil
}

// UpdateTitle はタイトルのみを更新する。
func (r *PostgresNewsRepo) UpdateTitle(ctx context.Context, id, title string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE news_items SET title = $2, updated_at = $3 WHERE id = $1`,
		id, title, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("記事タイトルの更新に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ NewsRepository = (*PostgresNewsRepo)(nil)
