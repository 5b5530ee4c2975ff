// Package summarizer はLSA（潜在意味解析）による抽出型要約を提供する。
package summarizer

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SentenceTokenizer は英文テキストを文単位に分割する。
// 学習済みデータ（Punkt相当）の読み込みを伴うため、
// 起動時に1回だけ生成し、以降は共有して使用する。
type SentenceTokenizer struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSentenceTokenizer は英語の学習済みデータから文分割器を生成する。
// データはライブラリに埋め込まれているため外部リソースの取得は発生しない。
func NewSentenceTokenizer() (*SentenceTokenizer, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("文分割器の初期化に失敗しました: %w", err)
	}
	return &SentenceTokenizer{tokenizer: tokenizer}, nil
}

// Sentences はテキストを文のスライスに分割して返す。
// 各文は前後の空白をトリムし、空の文は除外する。
func (t *SentenceTokenizer) Sentences(text string) []string {
	raw := t.tokenizer.Tokenize(text)

	result := make([]string, 0, len(raw))
	for _, s := range raw {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
