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

// metalPayload 贵金属行情源响应
// 行情源不提供报价时间戳，以收到响应的本地时间作为观测时间
type metalPayload struct {
	Success bool               `json:"success"`
	Rates   map[string]float64 `json:"rates"`
}

// MetalSource 贵金属行情源适配器
type MetalSource struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewMetalSource 创建贵金属行情源适配器
func NewMetalSource(cfg Config) *MetalSource {
	return &MetalSource{
		client:  newHTTPClient(cfg),
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
	}
}

func (s *MetalSource) Feed() instrument.FeedType {
	return instrument.FeedMetal
}

// Fetch 拉取一个贵金属标的的最新价格
func (s *MetalSource) Fetch(ctx context.Context, symbol string) (*domain.FetchedQuote, error) {
	q := url.Values{}
	q.Set("symbols", symbol)
	q.Set("access_key", s.token)
	endpoint := fmt.Sprintf("%s/v1/latest?%s", s.baseURL, q.Encode())

	body, err := httpGet(ctx, s.client, instrument.FeedMetal, symbol, endpoint)
	if err != nil {
		return nil, err
	}

	var payload metalPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewFeedError(instrument.FeedMetal, symbol, domain.FeedErrMalformed, err)
	}
	if !payload.Success {
		return nil, domain.NewFeedError(instrument.FeedMetal, symbol, domain.FeedErrBadStatus, fmt.Errorf("feed reported failure"))
	}

	rate, ok := payload.Rates[symbol]
	if !ok {
		return nil, domain.NewFeedError(instrument.FeedMetal, symbol, domain.FeedErrUnknownSymbol, fmt.Errorf("symbol missing from rates"))
	}

	return &domain.FetchedQuote{
		Symbol:     symbol,
		Price:      decimal.NewFromFloat(rate),
		ObservedAt: time.Now(),
	}, nil
}
