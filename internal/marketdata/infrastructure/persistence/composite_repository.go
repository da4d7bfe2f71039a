// Package persistence 组合 MySQL 仓储与 Redis 缓存的读写路径
package persistence

import (
	"context"

	"github.com/wyfcoding/markettracker/internal/marketdata/domain"
	"github.com/wyfcoding/markettracker/internal/marketdata/infrastructure/persistence/redis"
	"github.com/wyfcoding/markettracker/pkg/logger"
)

// quoteCache 最新行情缓存的最小接口
type quoteCache interface {
	Set(ctx context.Context, quote *domain.Quote) error
	Get(ctx context.Context, symbol string) (*domain.Quote, error)
	Delete(ctx context.Context, symbol string) error
}

// compositeQuoteRepository MySQL 为准、Redis 加速读路径的组合仓储
// 缓存失败只降级不报错：落库成功即视为提交成功
type compositeQuoteRepository struct {
	primary domain.QuoteRepository
	cache   quoteCache
}

// NewCompositeQuoteRepository 创建组合行情仓储，cache 可以为 nil
func NewCompositeQuoteRepository(primary domain.QuoteRepository, cache *redis.QuoteCache) domain.QuoteRepository {
	repo := &compositeQuoteRepository{primary: primary}
	if cache != nil {
		repo.cache = cache
	}
	return repo
}

func (r *compositeQuoteRepository) Commit(ctx context.Context, quote *domain.Quote) error {
	if err := r.primary.Commit(ctx, quote); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, quote); err != nil {
			logger.Warn(ctx, "Failed to update quote cache, evicting key", "symbol", quote.Symbol, "error", err)
			// 覆盖失败时键里还留着上一条行情，删掉让读路径回源，避免持续供给过期价格
			if delErr := r.cache.Delete(ctx, quote.Symbol); delErr != nil {
				logger.Warn(ctx, "Failed to evict quote cache key", "symbol", quote.Symbol, "error", delErr)
			}
		}
	}
	return nil
}

func (r *compositeQuoteRepository) Latest(ctx context.Context, symbol string) (*domain.Quote, error) {
	if r.cache != nil {
		quote, err := r.cache.Get(ctx, symbol)
		if err == nil && quote != nil {
			return quote, nil
		}
		if err != nil {
			logger.Warn(ctx, "Quote cache read failed, falling back to database", "symbol", symbol, "error", err)
		}
	}

	quote, err := r.primary.Latest(ctx, symbol)
	if err != nil || quote == nil {
		return quote, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, quote); err != nil {
			logger.Warn(ctx, "Failed to backfill quote cache", "symbol", symbol, "error", err)
		}
	}
	return quote, nil
}

func (r *compositeQuoteRepository) History(ctx context.Context, symbol string, limit int) ([]*domain.Quote, error) {
	return r.primary.History(ctx, symbol, limit)
}
