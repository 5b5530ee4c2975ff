// Package article は記事URLの取得と本文・メタデータの抽出を提供する。
package article

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hitoshi/newsbrief/internal/model"
)

// SSRFValidator はSSRF検証のインターフェース。
// security.SSRFGuardServiceを抽象化してテスタビリティを向上させる。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// Fetcher はユーザーが指定した記事URLからHTMLを取得する。
// すべてのリクエストはSSRFガード経由で送信される。
type Fetcher struct {
	ssrfGuard   SSRFValidator
	timeout     time.Duration
	maxBodySize int64
}

// NewFetcher はFetcherの新しいインスタンスを生成する。
func NewFetcher(ssrfGuard SSRFValidator, timeout time.Duration, maxBodySize int64) *Fetcher {
	return &Fetcher{
		ssrfGuard:   ssrfGuard,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// Fetch は記事URLからHTMLボディを取得して返す。
// 1. SSRF検証を実行
// 2. URLにHTTPリクエストを送信
// 3. ステータスコードを検証（非2xxはエラー）
// 4. ボディをmaxBodySizeまで読み込み
// 失敗はすべてFetchErrorとして返す。
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if rawURL == "" {
		return nil, model.NewValidationError("URLが入力されていません")
	}

	if f.ssrfGuard != nil {
		if err := f.ssrfGuard.ValidateURL(rawURL); err != nil {
			return nil, model.NewFetchError(rawURL, err)
		}
	}

	client := f.getHTTPClient()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, model.NewFetchError(rawURL, err)
	}
	req.Header.Set("User-Agent", "NewsBrief/1.0 Article Reader")
	req.Header.Set("Accept", "text/html, application/xhtml+xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, model.NewFetchError(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, model.NewFetchError(rawURL, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, model.NewFetchError(rawURL, fmt.Errorf("レスポンスの読み取りに失敗: %w", err))
	}

	return body, nil
}

// getHTTPClient はHTTPクライアントを取得する。
// SSRFGuardが設定されている場合はSSRF防止付きクライアントを返す。
func (f *Fetcher) getHTTPClient() *http.Client {
	if f.ssrfGuard != nil {
		return f.ssrfGuard.NewSafeClient(f.timeout, f.maxBodySize)
	}
	return &http.Client{Timeout: f.timeout}
}
