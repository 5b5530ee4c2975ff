package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/newsbrief/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// GetOrCreate はユーザーのプロフィールを取得し、存在しない場合は初期状態で作成する。
// プロフィールはアカウント作成時ではなく初回アクセス時に遅延作成される。
func (r *PostgresProfileRepo) GetOrCreate(ctx context.Context, userID string) (*model.UserProfile, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_profiles (id, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO NOTHING`,
		uuid.New().String(), userID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの作成に失敗しました: %w", err)
	}

	return r.findByUserID(ctx, r.db, userID, false)
}

// UpdateWithLock はプロフィール行をSELECT FOR UPDATEでロックした上でfnを適用し、
// 更新後の状態を保存して返す。行が存在しない場合は初期状態で作成してからロックする。
func (r *PostgresProfileRepo) UpdateWithLock(
	ctx context.Context,
	userID string,
	fn func(p *model.UserProfile),
) (*model.UserProfile, error) {
	// ロック前にプレースホルダーを確保しておく（存在すれば何もしない）
	if _, err := r.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	profile, err := r.findByUserID(ctx, tx, userID, true)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("プロフィールが見つかりません: %s", userID)
	}

	fn(profile)
	profile.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`UPDATE user_profiles
		 SET streak_count = $2, max_streak = $3, last_check_in = $4, updated_at = $5
		 WHERE user_id = $1`,
		userID, profile.StreakCount, profile.MaxStreak, profile.LastCheckIn, profile.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return profile, nil
}

// queryer はsql.DBとsql.Txの共通部分。
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// findByUserID はユーザーIDでプロフィールを1件取得する。
// forUpdateがtrueの場合はFOR UPDATEで行をロックする（トランザクション内でのみ使用）。
func (r *PostgresProfileRepo) findByUserID(ctx context.Context, q queryer, userID string, forUpdate bool) (*model.UserProfile, error) {
	query := `SELECT id, user_id, streak_count, max_streak, last_check_in, created_at, updated_at
	          FROM user_profiles WHERE user_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	profile := &model.UserProfile{}
	var lastCheckIn sql.NullTime

	err := q.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.StreakCount, &profile.MaxStreak,
		&lastCheckIn, &profile.CreatedAt, &profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}

	if lastCheckIn.Valid {
		profile.LastCheckIn = &lastCheckIn.Time
	}

	return profile, nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
