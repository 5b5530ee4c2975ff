// Package model はドメインモデルを定義する。
package model

import "time"

// UserProfile はユーザーアカウントと1対1のプロフィールを表す。
// デイリーチェックインのストリーク状態を保持する。
// 初期状態は streak_count=0, max_streak=0, last_check_in=NULL。
type UserProfile struct {
	ID          string
	UserID      string
	StreakCount int
	MaxStreak   int
	LastCheckIn *time.Time // 日付のみ意味を持つ（時刻部分は無視する）
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
