package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	instrument "github.com/wyfcoding/markettracker/internal/instrument/domain"
	"github.com/wyfcoding/markettracker/internal/marketdata/domain"
)

// equityPayload 股票行情源响应
// 价格为数值，timestamp 为交易所报价时间（unix 秒），可能缺失
type equityPayload struct {
	Symbol    string   `json:"symbol"`
	Price     *float64 `json:"price"`
	Timestamp int64    `json:"timestamp"`
}

// EquitySource 股票行情源适配器
type EquitySource struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewEquitySource 创建股票行情源适配器
func NewEquitySource(cfg Config) *EquitySource {
	return &EquitySource{
		client:  newHTTPClient(cfg),
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
	}
}

func (s *EquitySource) Feed() instrument.FeedType {
	return instrument.FeedEquity
}

// Fetch 拉取一个股票标的的最新价格
func (s *EquitySource) Fetch(ctx context.Context, symbol string) (*domain.FetchedQuote, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("token", s.token)
	endpoint := fmt.Sprintf("%s/v1/quote?%s", s.baseURL, q.Encode())

	body, err := httpGet(ctx, s.client, instrument.FeedEquity, symbol, endpoint)
	if err != nil {
		return nil, err
	}

	var payload equityPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewFeedError(instrument.FeedEquity, symbol, domain.FeedErrMalformed, err)
	}
	if payload.Price == nil {
		return nil, domain.NewFeedError(instrument.FeedEquity, symbol, domain.FeedErrMalformed, fmt.Errorf("missing price field"))
	}

	observedAt := time.Now()
	if payload.Timestamp > 0 {
		observedAt = time.Unix(payload.Timestamp, 0)
	}

	return &domain.FetchedQuote{
		Symbol:     symbol,
		Price:      decimal.NewFromFloat(*payload.Price),
		ObservedAt: observedAt,
	}, nil
}
