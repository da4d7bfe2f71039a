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

// cryptoPayload 加密货币行情源响应
// 价格为字符串，保留行情源的全部小数位
type cryptoPayload struct {
	Code int `json:"code"`
	Data struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
		Ts     int64  `json:"ts"` // 毫秒
	} `json:"data"`
}

// CryptoSource 加密货币行情源适配器
type CryptoSource struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewCryptoSource 创建加密货币行情源适配器
func NewCryptoSource(cfg Config) *CryptoSource {
	return &CryptoSource{
		client:  newHTTPClient(cfg),
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
	}
}

func (s *CryptoSource) Feed() instrument.FeedType {
	return instrument.FeedCrypto
}

// Fetch 拉取一个加密货币标的的最新价格
func (s *CryptoSource) Fetch(ctx context.Context, symbol string) (*domain.FetchedQuote, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("api_key", s.token)
	endpoint := fmt.Sprintf("%s/api/v3/ticker?%s", s.baseURL, q.Encode())

	body, err := httpGet(ctx, s.client, instrument.FeedCrypto, symbol, endpoint)
	if err != nil {
		return nil, err
	}

	var payload cryptoPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewFeedError(instrument.FeedCrypto, symbol, domain.FeedErrMalformed, err)
	}
	// code 40x 表示行情源不认识该标的
	if payload.Code != 0 {
		return nil, domain.NewFeedError(instrument.FeedCrypto, symbol, domain.FeedErrUnknownSymbol, fmt.Errorf("code %d", payload.Code))
	}

	price, err := decimal.NewFromString(payload.Data.Price)
	if err != nil {
		return nil, domain.NewFeedError(instrument.FeedCrypto, symbol, domain.FeedErrMalformed, err)
	}

	observedAt := time.Now()
	if payload.Data.Ts > 0 {
		observedAt = time.UnixMilli(payload.Data.Ts)
	}

	return &domain.FetchedQuote{
		Symbol:     symbol,
		Price:      price,
		ObservedAt: observedAt,
	}, nil
}
