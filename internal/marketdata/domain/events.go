package domain

import "context"

// TopicQuoteCommitted 行情落库事件主题
const TopicQuoteCommitted = "marketdata.quote.committed"

// QuoteCommittedEvent 行情落库事件
type QuoteCommittedEvent struct {
	Symbol     string `json:"symbol"`
	QuoteID    uint   `json:"quote_id"`
	Price      string `json:"price"`
	ObservedAt int64  `json:"observed_at"`
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	// Publish 发布一个事件，发布失败不应影响主流程
	Publish(ctx context.Context, topic string, key string, event any) error
}
