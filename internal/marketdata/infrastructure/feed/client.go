// Package feed 各外部行情源的 HTTP 适配器实现
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	instrument "github.com/wyfcoding/markettracker/internal/instrument/domain"
	"github.com/wyfcoding/markettracker/internal/marketdata/domain"
)

// Config 行情源客户端配置
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// 响应体大小上限，防止异常响应占用内存
const maxResponseBytes = 1 << 20

// httpGet 执行一次 GET 请求并返回响应体
// 网络失败、非 2xx、读取失败分别映射为类型化的 FeedError
func httpGet(ctx context.Context, client *http.Client, feed instrument.FeedType, symbol, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewFeedError(feed, symbol, domain.FeedErrNetwork, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, domain.NewFeedError(feed, symbol, domain.FeedErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewFeedError(feed, symbol, domain.FeedErrUnknownSymbol, fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewFeedError(feed, symbol, domain.FeedErrBadStatus, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewFeedError(feed, symbol, domain.FeedErrNetwork, err)
	}
	return body, nil
}

func newHTTPClient(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
