package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/markettracker/internal/marketdata/domain"
)

// MarketDataService 行情查询服务门面
type MarketDataService struct {
	quotes domain.QuoteRepository
}

// NewMarketDataService 构造函数
func NewMarketDataService(quotes domain.QuoteRepository) *MarketDataService {
	return &MarketDataService{quotes: quotes}
}

// LatestQuote 获取最新行情，无任何已提交行情时返回 (nil, nil)
func (s *MarketDataService) LatestQuote(ctx context.Context, symbol string) (*QuoteDTO, error) {
	quote, err := s.quotes.Latest(ctx, symbol)
	if err != nil || quote == nil {
		return nil, err
	}
	return toQuoteDTO(quote), nil
}

// History 获取历史行情
func (s *MarketDataService) History(ctx context.Context, symbol string, limit int) ([]*QuoteDTO, error) {
	quotes, err := s.quotes.History(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]*QuoteDTO, len(quotes))
	for i, q := range quotes {
		dtos[i] = toQuoteDTO(q)
	}
	return dtos, nil
}

// LatestPrice 获取最新价格，供订单执行定价使用
// found 为 false 表示该标的从未有任何已提交行情
func (s *MarketDataService) LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	quote, err := s.quotes.Latest(ctx, symbol)
	if err != nil {
		return decimal.Zero, false, err
	}
	if quote == nil {
		return decimal.Zero, false, nil
	}
	return quote.Price, true, nil
}
