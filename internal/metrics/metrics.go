// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordSummarizeSuccess()
	RecordSummarizeFailure()
	RecordFetchLatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
	RecordLikeToggled()
	RecordCommentCreated()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	summarizeSuccess prometheus.Counter
	summarizeFail    prometheus.Counter
	fetchLatency     prometheus.Histogram
	httpStatus       *prometheus.CounterVec
	likesToggled     prometheus.Counter
	commentsCreated  prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		summarizeSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsbrief_summarize_success_total",
			Help: "記事要約成功の合計数",
		}),
		summarizeFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsbrief_summarize_fail_total",
			Help: "記事要約失敗の合計数",
		}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsbrief_fetch_latency_seconds",
			Help:    "記事フェッチのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsbrief_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		likesToggled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsbrief_likes_toggled_total",
			Help: "いいねトグル操作の合計数",
		}),
		commentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsbrief_comments_created_total",
			Help: "作成されたコメントの合計数",
		}),
	}

	reg.MustRegister(
		c.summarizeSuccess,
		c.summarizeFail,
		c.fetchLatency,
		c.httpStatus,
		c.likesToggled,
		c.commentsCreated,
	)

	return c
}

// RecordSummarizeSuccess は要約成功を記録する。
func (c *Collector) RecordSummarizeSuccess() {
	c.summarizeSuccess.Inc()
}

// RecordSummarizeFailure は要約失敗を記録する。
func (c *Collector) RecordSummarizeFailure() {
	c.summarizeFail.Inc()
}

// RecordFetchLatency は記事フェッチのレイテンシを記録する。
func (c *Collector) RecordFetchLatency(duration time.Duration) {
	c.fetchLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordLikeToggled はいいねトグル操作を記録する。
func (c *Collector) RecordLikeToggled() {
	c.likesToggled.Inc()
}

// RecordCommentCreated はコメント作成を記録する。
func (c *Collector) RecordCommentCreated() {
	c.commentsCreated.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
