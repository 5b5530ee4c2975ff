package article

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/hitoshi/newsbrief/internal/model"
)

// Content は記事HTMLから抽出された本文とメタデータを表す。
type Content struct {
	// Title は記事タイトル。og:titleを優先し、なければ本文抽出結果のタイトル。
	Title string
	// ImageURL はリード画像のURL。og:image > twitter:image > 最初のimgタグの順で選択する。
	ImageURL string
	// Text は要約の入力となる本文テキスト。
	Text string
}

// Extractor は記事HTMLから本文とメタデータを抽出する。
type Extractor struct{}

// NewExtractor はExtractorの新しいインスタンスを生成する。
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract はHTMLボディから本文テキストとメタデータを抽出する。
// 本文が抽出できない場合はFetchErrorを返す。
// タイトル・画像はベストエフォートで、見つからなければ空文字列となる。
func (e *Extractor) Extract(body []byte, pageURL string) (*Content, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, model.NewFetchError(pageURL, fmt.Errorf("invalid URL: %w", err))
	}

	doc, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return nil, model.NewFetchError(pageURL, fmt.Errorf("本文の抽出に失敗: %w", err))
	}

	text := normalizeWhitespace(doc.TextContent)
	if text == "" {
		return nil, model.NewFetchError(pageURL, fmt.Errorf("本文を抽出できませんでした"))
	}

	content := &Content{
		Title: strings.TrimSpace(doc.Title),
		Text:  text,
	}

	// メタデータはreadabilityの結果をgoqueryによるmetaタグ解析で補完する
	if meta, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		if title := extractTitle(meta); title != "" {
			content.Title = title
		}
		content.ImageURL = extractLeadImage(meta, parsed)
	}
	if content.ImageURL == "" {
		content.ImageURL = doc.Image
	}

	return content, nil
}

// extractTitle はmetaタグからog:titleを抽出する。
// og:titleがなければtitleタグにフォールバックする。
func extractTitle(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// extractLeadImage はリード画像のURLを抽出する。
// og:image > twitter:image > 最初のimgタグの優先順位で選択し、
// 相対URLはページURLを基準に絶対URLへ解決する。
func extractLeadImage(doc *goquery.Document, base *url.URL) string {
	selectors := []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	}
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if resolved := resolveImageURL(base, v); resolved != "" {
				return resolved
			}
		}
	}

	if v, ok := doc.Find("img[src]").First().Attr("src"); ok {
		return resolveImageURL(base, v)
	}
	return ""
}

// resolveImageURL は画像URLをページURLを基準に絶対URLへ解決する。
// data:スキーム等のHTTP以外のURLは除外する。
func resolveImageURL(base *url.URL, rawRef string) string {
	rawRef = strings.TrimSpace(rawRef)
	if rawRef == "" {
		return ""
	}
	ref, err := url.Parse(rawRef)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// normalizeWhitespace は連続する空白を単一スペースに畳み込む。
// readabilityの出力には整形由来の改行・タブが残るため、要約前に正規化する。
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
