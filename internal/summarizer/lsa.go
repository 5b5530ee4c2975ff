package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/hitoshi/newsbrief/internal/model"
)

const (
	// minTopicDimensions はスコアリングに使用する潜在次元の下限。
	minTopicDimensions = 3
	// tfSmoothing は項頻度の平滑化係数。
	// 出現頻度の差を保ちつつ、低頻度語の寄与を底上げする。
	tfSmoothing = 0.4
)

// wordPattern は用語として扱う文字列（連続する文字・数字）のパターン。
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Tokenizer は文分割のインターフェース。
type Tokenizer interface {
	Sentences(text string) []string
}

// LSASummarizer は潜在意味解析による抽出型要約器。
// 用語・文行列を特異値分解し、上位の潜在次元への射影の大きさで
// 文の重要度をスコアリングする。
type LSASummarizer struct {
	tokenizer Tokenizer
}

// NewLSASummarizer はLSASummarizerを生成する。
func NewLSASummarizer(tokenizer Tokenizer) *LSASummarizer {
	return &LSASummarizer{tokenizer: tokenizer}
}

// Summarize はテキストを最大sentenceCount文の抽出型要約に縮約する。
// 選択された文は元の出現順のまま半角スペースで結合して返す。
// 文数がsentenceCount以下の場合は全文をそのまま返す。
// 入力が空、または文が1つも抽出できない場合はSummarizationErrorを返す。
func (s *LSASummarizer) Summarize(text string, sentenceCount int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", model.NewSummarizationError("入力テキストが空です")
	}
	if sentenceCount <= 0 {
		return "", model.NewSummarizationError("要約文数は1以上を指定してください")
	}

	sents := s.tokenizer.Sentences(text)
	if len(sents) == 0 {
		return "", model.NewSummarizationError("文を抽出できませんでした")
	}

	// 文数が目標以下の場合は選択の必要がない
	if len(sents) <= sentenceCount {
		return strings.Join(sents, " "), nil
	}

	scores := s.scoreSentences(sents)
	selected := selectTopSentences(scores, sentenceCount)

	summary := make([]string, 0, len(selected))
	for _, idx := range selected {
		summary = append(summary, sents[idx])
	}
	return strings.Join(summary, " "), nil
}

// scoreSentences は用語・文行列のSVDから各文の重要度スコアを計算する。
// スコアは sqrt(Σ_k σ_k² · v_ki²)。σは特異値、vは右特異ベクトル行列で、
// 上位minTopicDimensions以上の次元をすべて使用する。
func (s *LSASummarizer) scoreSentences(sents []string) []float64 {
	matrix, termCount := buildTermMatrix(sents)

	scores := make([]float64, len(sents))
	if termCount == 0 {
		// 用語が1つもない（記号のみ等）場合は全文同スコアとし、先頭から選ばれる
		return scores
	}

	var svd mat.SVD
	if ok := svd.Factorize(matrix, mat.SVDThin); !ok {
		return scores
	}

	sigma := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	dimensions := len(sigma)
	if dimensions > minTopicDimensions {
		// ごく小さい特異値はノイズとして切り捨てる
		threshold := sigma[0] * 1e-10
		for dimensions > minTopicDimensions && sigma[dimensions-1] < threshold {
			dimensions--
		}
	}

	for i := range sents {
		var sum float64
		for k := 0; k < dimensions; k++ {
			loading := v.At(i, k)
			sum += sigma[k] * sigma[k] * loading * loading
		}
		scores[i] = math.Sqrt(sum)
	}
	return scores
}

// buildTermMatrix は用語・文行列（行=用語、列=文）を構築して返す。
// 各セルは平滑化済みの項頻度。ストップワードは除外する。
func buildTermMatrix(sents []string) (*mat.Dense, int) {
	termIndex := make(map[string]int)
	sentTerms := make([]map[string]int, len(sents))

	for i, sent := range sents {
		counts := make(map[string]int)
		for _, word := range wordPattern.FindAllString(strings.ToLower(sent), -1) {
			if isStopword(word) {
				continue
			}
			if _, ok := termIndex[word]; !ok {
				termIndex[word] = len(termIndex)
			}
			counts[word]++
		}
		sentTerms[i] = counts
	}

	termCount := len(termIndex)
	if termCount == 0 {
		return mat.NewDense(1, len(sents), nil), 0
	}

	matrix := mat.NewDense(termCount, len(sents), nil)
	for col, counts := range sentTerms {
		maxFreq := 0
		for _, c := range counts {
			if c > maxFreq {
				maxFreq = c
			}
		}
		if maxFreq == 0 {
			continue
		}
		for word, c := range counts {
			tf := tfSmoothing + (1.0-tfSmoothing)*float64(c)/float64(maxFreq)
			matrix.Set(termIndex[word], col, tf)
		}
	}

	return matrix, termCount
}

// selectTopSentences はスコア上位n文のインデックスを元の出現順で返す。
// スコアが同点の場合は先に出現した文を優先する。
func selectTopSentences(scores []float64, n int) []int {
	if n >= len(scores) {
		indices := make([]int, len(scores))
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	ranked := make([]int, len(scores))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if scores[ranked[a]] != scores[ranked[b]] {
			return scores[ranked[a]] > scores[ranked[b]]
		}
		return ranked[a] < ranked[b]
	})

	selected := append([]int(nil), ranked[:n]...)
	sort.Ints(selected)
	return selected
}
