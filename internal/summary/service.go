// Package summary は記事の取得から要約生成までのオーケストレーションを提供する。
package summary

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/newsbrief/internal/article"
	"github.com/hitoshi/newsbrief/internal/model"
	"github.com/hitoshi/newsbrief/internal/repository"
)

// Fetcher は記事HTMLの取得インターフェース。
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Extractor は記事HTMLからの本文・メタデータ抽出インターフェース。
type Extractor interface {
	Extract(body []byte, pageURL string) (*article.Content, error)
}

// Summarizer はテキスト要約のインターフェース。
type Summarizer interface {
	Summarize(text string, sentenceCount int) (string, error)
}

// MetricsRecorder は要約パイプラインの実行結果を記録する。
type MetricsRecorder interface {
	RecordSummarizeSuccess()
	RecordSummarizeFailure()
	RecordFetchLatency(duration time.Duration)
}

// Result はアドホックな要約リクエストの結果。
type Result struct {
	Title   string
	Summary string
	Image   string
}

// Service は記事の取得・抽出・要約を束ねるオーケストレーションサービス。
// ステートレスなプレビュー用パス（SummarizeURL）と、
// ソーシャル機能のための永続化パス（EnsureNewsItem）の2つを提供する。
type Service struct {
	fetcher       Fetcher
	extractor     Extractor
	summarizer    Summarizer
	news          repository.NewsRepository
	metrics       MetricsRecorder
	logger        *slog.Logger
	sentenceCount int
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	fetcher Fetcher,
	extractor Extractor,
	summarizer Summarizer,
	news repository.NewsRepository,
	metrics MetricsRecorder,
	logger *slog.Logger,
	sentenceCount int,
) *Service {
	return &Service{
		fetcher:       fetcher,
		extractor:     extractor,
		summarizer:    summarizer,
		news:          news,
		metrics:       metrics,
		logger:        logger,
		sentenceCount: sentenceCount,
	}
}

// SummarizeURL は記事URLを取得・要約して返す。永続化は行わない。
// 取得・抽出・要約いずれの失敗も原因を包んだArticleProcessingErrorとして返す。
// 副作用はないため、同じ失敗URLに対しては何度呼んでも同じエラーになる。
func (s *Service) SummarizeURL(ctx context.Context, url string) (*Result, error) {
	start := time.Now()
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.recordFailure()
		return nil, model.NewArticleProcessingError(url, err)
	}
	s.recordFetchLatency(time.Since(start))

	content, err := s.extractor.Extract(body, url)
	if err != nil {
		s.recordFailure()
		return nil, model.NewArticleProcessingError(url, err)
	}

	summaryText, err := s.summarizer.Summarize(content.Text, s.sentenceCount)
	if err != nil {
		s.recordFailure()
		return nil, model.NewArticleProcessingError(url, err)
	}

	s.recordSuccess()
	return &Result{
		Title:   content.Title,
		Summary: summaryText,
		Image:   content.ImageURL,
	}, nil
}

// EnsureNewsItem は記事レコードの存在を保証し、必要であれば要約で充足する。
// タイトル・画像・要約のいずれかが欠けている場合のみfetch+summarizeを実行し、
// 3項目を一括で上書きする。充足に失敗した場合はfallbackTitleへの退避のみ行い、
// エラーは呼び出し元へ伝播しない（いいね・コメントは要約失敗でもブロックしない）。
//
// ブロッキングするfetchは行ロックの外で実行する。並行する初回いいね同士で
// 冗長なfetchが発生しうるが、書き込まれる内容は冪等なため許容する。
func (s *Service) EnsureNewsItem(ctx context.Context, url, fallbackTitle string) (*model.NewsItem, error) {
	news, err := s.news.GetOrCreateByURL(ctx, url)
	if err != nil {
		return nil, err
	}

	if !news.NeedsEnrichment() {
		return news, nil
	}

	result, err := s.SummarizeURL(ctx, url)
	if err != nil {
		s.logger.Warn("記事の充足に失敗しました。フォールバックタイトルに退避します",
			"url", url,
			"error", err,
		)
		if news.Title == "" && fallbackTitle != "" {
			if updateErr := s.news.UpdateTitle(ctx, news.ID, fallbackTitle); updateErr != nil {
				s.logger.Error("フォールバックタイトルの保存に失敗しました",
					"url", url,
					"error", updateErr,
				)
				return news, nil
			}
			news.Title = fallbackTitle
		}
		return news, nil
	}

	title := result.Title
	if title == "" {
		title = fallbackTitle
	}
	if err := s.news.UpdateEnrichment(ctx, news.ID, title, result.Image, result.Summary); err != nil {
		s.logger.Error("記事の充足結果の保存に失敗しました",
			"url", url,
			"error", err,
		)
		return news, nil
	}

	news.Title = title
	news.ImageURL = result.Image
	news.Summary = result.Summary
	return news, nil
}

func (s *Service) recordSuccess() {
	if s.metrics != nil {
		s.metrics.RecordSummarizeSuccess()
	}
}

func (s *Service) recordFailure() {
	if s.metrics != nil {
		s.metrics.RecordSummarizeFailure()
	}
}

func (s *Service) recordFetchLatency(d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordFetchLatency(d)
	}
}
