// Package streak はデイリーチェックインの連続記録（ストリーク）を管理する。
package streak

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/newsbrief/internal/model"
	"github.com/hitoshi/newsbrief/internal/repository"
)

const (
	// MessageCheckedIn は新規チェックイン成功時のメッセージ。
	MessageCheckedIn = "Check-in successful!"
	// MessageAlreadyCheckedIn は同日2回目以降のチェックイン時のメッセージ。
	MessageAlreadyCheckedIn = "Already checked in today!"
)

// Result はチェックイン後のストリーク状態。
type Result struct {
	Message     string
	Streak      int
	MaxStreak   int
	LastCheckIn *time.Time
}

// Service はストリークの状態遷移を提供する。
// 同一ユーザーの並行チェックインはProfileRepositoryの行ロックで直列化される。
type Service struct {
	profiles repository.ProfileRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(profiles repository.ProfileRepository) *Service {
	return &Service{profiles: profiles}
}

// CheckIn は指定時刻の日付でチェックインを実行し、遷移後の状態を返す。
// 状態遷移:
//  1. 最終チェックインが当日: 変更なし（冪等）
//  2. 最終チェックインが前日: ストリーク +1
//  3. それ以外（2日以上の空白、または初回）: ストリークを1にリセット
//
// 遷移後はmaxStreakを更新し、最終チェックイン日を当日に設定する。
func (s *Service) CheckIn(ctx context.Context, userID string, now time.Time) (*Result, error) {
	today := dateOnly(now)
	alreadyCheckedIn := false

	profile, err := s.profiles.UpdateWithLock(ctx, userID, func(p *model.UserProfile) {
		if p.LastCheckIn != nil && sameDate(*p.LastCheckIn, today) {
			alreadyCheckedIn = true
			return
		}

		yesterday := today.AddDate(0, 0, -1)
		if p.LastCheckIn != nil && sameDate(*p.LastCheckIn, yesterday) {
			p.StreakCount++
		} else {
			p.StreakCount = 1
		}

		checkIn := today
		p.LastCheckIn = &checkIn
		if p.StreakCount > p.MaxStreak {
			p.MaxStreak = p.StreakCount
		}
	})
	if err != nil {
		return nil, fmt.Errorf("ストリークの更新に失敗しました: %w", err)
	}

	message := MessageCheckedIn
	if alreadyCheckedIn {
		message = MessageAlreadyCheckedIn
	}
	return &Result{
		Message:     message,
		Streak:      profile.StreakCount,
		MaxStreak:   profile.MaxStreak,
		LastCheckIn: profile.LastCheckIn,
	}, nil
}

// GetStreak は現在のストリーク状態を返す。状態遷移は行わない。
// プロフィールが存在しない場合は初期状態（0/0/null）で作成される。
func (s *Service) GetStreak(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ストリークの取得に失敗しました: %w", err)
	}
	return profile, nil
}

// dateOnly は時刻を切り捨ててUTCの日付のみにする。
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sameDate は2つの時刻が同じ日付かを返す。
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
