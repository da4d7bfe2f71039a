package application

import "github.com/wyfcoding/markettracker/internal/marketdata/domain"

// QuoteDTO 行情视图
type QuoteDTO struct {
	QuoteID    uint   `json:"quote_id"`
	Symbol     string `json:"symbol"`
	Price      string `json:"price"`
	ObservedAt int64  `json:"observed_at"`
}

func toQuoteDTO(q *domain.Quote) *QuoteDTO {
	return &QuoteDTO{
		QuoteID:    q.ID,
		Symbol:     q.Symbol,
		Price:      q.Price.String(),
		ObservedAt: q.ObservedAt,
	}
}
