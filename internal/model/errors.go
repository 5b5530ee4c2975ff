// Package model はドメインモデルを定義する。
package model

import "fmt"

// ValidationError は入力不備を表すエラー。HTTP 400に対応する。
type ValidationError struct {
	Message string
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError は入力不備エラーを生成する。
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// AuthError は認証失敗を表すエラー。HTTP 401に対応する。
type AuthError struct {
	Message string
}

// Error はerrorインターフェースを実装する。
func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError は認証失敗エラーを生成する。
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// FetchError は記事の取得・抽出失敗を表すエラー。
// ネットワーク到達不能、非2xx応答、本文抽出不能の場合に返される。
type FetchError struct {
	URL string
	Err error
}

// Error はerrorインターフェースを実装する。
func (e *FetchError) Error() string {
	return fmt.Sprintf("記事の取得に失敗しました: %s: %v", e.URL, e.Err)
}

// Unwrap は原因エラーを返す。
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError は記事取得失敗エラーを生成する。
func NewFetchError(url string, err error) *FetchError {
	return &FetchError{URL: url, Err: err}
}

// SummarizationError は要約処理の失敗を表すエラー。
// 入力テキストが空、または文が1つも抽出できない場合に返される。
type SummarizationError struct {
	Reason string
}

// Error はerrorインターフェースを実装する。
func (e *SummarizationError) Error() string {
	return fmt.Sprintf("要約に失敗しました: %s", e.Reason)
}

// NewSummarizationError は要約失敗エラーを生成する。
func NewSummarizationError(reason string) *SummarizationError {
	return &SummarizationError{Reason: reason}
}

// ArticleProcessingError はフェッチ・要約パイプライン全体の失敗を表すエラー。
// FetchErrorまたはSummarizationErrorを原因として包む。
type ArticleProcessingError struct {
	URL string
	Err error
}

// Error はerrorインターフェースを実装する。
func (e *ArticleProcessingError) Error() string {
	return fmt.Sprintf("記事の処理に失敗しました: %s: %v", e.URL, e.Err)
}

// Unwrap は原因エラーを返す。
func (e *ArticleProcessingError) Unwrap() error {
	return e.Err
}

// NewArticleProcessingError は記事処理失敗エラーを生成する。
func NewArticleProcessingError(url string, err error) *ArticleProcessingError {
	return &ArticleProcessingError{URL: url, Err: err}
}
