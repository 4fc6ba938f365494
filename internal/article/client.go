// Package article は記事検索アップストリームへの中継を提供する。
// APIキーはサーバー側で保持し、クライアントへは一切渡さない。
package article

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hitoshi/newsdesk/internal/model"
)

// MetricsRecorder は記事検索の観測値を記録する。
type MetricsRecorder interface {
	RecordArticleSearch(status string, duration time.Duration)
}

// Config は記事検索クライアントの設定。
type Config struct {
	// Endpoint は記事検索APIのURL
	Endpoint string
	// Query は固定の検索クエリ。リクエスト側から変更できない
	Query string
	// APIKey はアップストリームのAPIキー
	APIKey string
}

// Client は記事検索APIのクライアント。
// 固定クエリで検索し、アップストリームのJSONレスポンスをそのまま中継する。
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *slog.Logger
	metrics    MetricsRecorder
}

// NewClient はClient の新しいインスタンスを生成する。
// httpClientには本番ではSSRF対策済みクライアントを渡す。
func NewClient(httpClient *http.Client, config Config, logger *slog.Logger, metrics MetricsRecorder) *Client {
	return &Client{
		httpClient: httpClient,
		config:     config,
		logger:     logger,
		metrics:    metrics,
	}
}

// Search は固定クエリで記事を検索し、アップストリームのレスポンスボディを返す。
// レスポンスのJSON構造には関与せず、バイト列として中継する。
func (c *Client) Search(ctx context.Context) (json.RawMessage, error) {
	reqURL, err := url.Parse(c.config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("エンドポイントURLのパースに失敗しました: %w", err)
	}

	q := reqURL.Query()
	q.Set("q", c.config.Query)
	q.Set("api-key", c.config.APIKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", "Newsdesk/1.0 Comment Backend")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordMetrics("transport_error", time.Since(start))
		c.logger.Error("記事検索APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewUpstreamUnavailableError("article search")
	}
	defer resp.Body.Close()

	c.recordMetrics(fmt.Sprintf("%d", resp.StatusCode), time.Since(start))

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("記事検索APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, model.NewUpstreamUnavailableError("article search")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("記事検索レスポンスの読み取りに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewUpstreamUnavailableError("article search")
	}

	// 中継前にJSONとして妥当であることだけ確認する
	if !json.Valid(body) {
		c.logger.Error("記事検索APIが不正なJSONを返しました")
		return nil, model.NewUpstreamUnavailableError("article search")
	}

	return json.RawMessage(body), nil
}

func (c *Client) recordMetrics(status string, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordArticleSearch(status, duration)
	}
}
