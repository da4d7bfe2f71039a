package redis

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/markettracker/internal/marketdata/domain"
	"github.com/wyfcoding/markettracker/pkg/cache"
)

// QuoteCache 最新行情的 Redis 读缓存
// 写穿透：每次指针推进后覆盖；读路径未命中时回源 MySQL
type QuoteCache struct {
	cache *cache.RedisCache
}

// NewQuoteCache 创建最新行情缓存
func NewQuoteCache(c *cache.RedisCache) *QuoteCache {
	return &QuoteCache{cache: c}
}

func key(symbol string) string {
	return fmt.Sprintf("quote:latest:%s", symbol)
}

// cachedQuote 缓存中的行情表示，价格以字符串保存避免精度丢失
type cachedQuote struct {
	QuoteID    uint   `json:"quote_id"`
	Symbol     string `json:"symbol"`
	Price      string `json:"price"`
	ObservedAt int64  `json:"observed_at"`
}

// Set 写入最新行情
func (c *QuoteCache) Set(ctx context.Context, quote *domain.Quote) error {
	return c.cache.SetJSON(ctx, key(quote.Symbol), &cachedQuote{
		QuoteID:    quote.ID,
		Symbol:     quote.Symbol,
		Price:      quote.Price.String(),
		ObservedAt: quote.ObservedAt,
	}, 0)
}

// Delete 删除某标的的缓存行情
func (c *QuoteCache) Delete(ctx context.Context, symbol string) error {
	return c.cache.Delete(ctx, key(symbol))
}

// Get 读取最新行情，未命中时返回 (nil, nil)
func (c *QuoteCache) Get(ctx context.Context, symbol string) (*domain.Quote, error) {
	var cached cachedQuote
	found, err := c.cache.GetJSON(ctx, key(symbol), &cached)
	if err != nil || !found {
		return nil, err
	}

	price, err := decimal.NewFromString(cached.Price)
	if err != nil {
		// 缓存损坏按未命中处理，读路径回源
		_ = c.cache.Delete(ctx, key(symbol))
		return nil, nil
	}

	quote := &domain.Quote{
		Symbol:     cached.Symbol,
		Price:      price,
		ObservedAt: cached.ObservedAt,
	}
	quote.ID = cached.QuoteID
	return quote, nil
}
