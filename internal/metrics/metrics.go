// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// コメント操作と記事検索中継の観測値を記録する。
type Collector struct {
	commentsCreated prometheus.Counter
	commentsRemoved prometheus.Counter
	removeDenied    prometheus.Counter
	httpStatus      *prometheus.CounterVec
	searchLatency   prometheus.Histogram
	searchStatus    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		commentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsdesk_comments_created_total",
			Help: "作成されたコメントの合計数",
		}),
		commentsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsdesk_comments_removed_total",
			Help: "モデレーターにより削除されたコメントの合計数",
		}),
		removeDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsdesk_comment_remove_denied_total",
			Help: "権限不足で拒否されたコメント削除試行の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdesk_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsdesk_article_search_latency_seconds",
			Help:    "記事検索アップストリームのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		searchStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdesk_article_search_status_total",
			Help: "記事検索アップストリームのステータス別リクエスト数",
		}, []string{"status"}),
	}

	reg.MustRegister(
		c.commentsCreated,
		c.commentsRemoved,
		c.removeDenied,
		c.httpStatus,
		c.searchLatency,
		c.searchStatus,
	)

	return c
}

// RecordCommentCreated はコメント作成を記録する。
func (c *Collector) RecordCommentCreated() {
	c.commentsCreated.Inc()
}

// RecordCommentRemoved はコメント削除を記録する。
func (c *Collector) RecordCommentRemoved() {
	c.commentsRemoved.Inc()
}

// RecordRemoveDenied は権限不足によるコメント削除拒否を記録する。
func (c *Collector) RecordRemoveDenied() {
	c.removeDenied.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordArticleSearch は記事検索中継のステータスとレイテンシを記録する。
// statusはHTTPステータスコードの文字列または"transport_error"。
func (c *Collector) RecordArticleSearch(status string, duration time.Duration) {
	c.searchStatus.WithLabelValues(status).Inc()
	c.searchLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
// ルーターの/metricsパスにマウントされる。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
