package domain

import "context"

// 订单事件主题
const (
	TopicOrderExecuted = "order.executed"
	TopicOrderFailed   = "order.failed"
)

// OrderExecutedEvent 订单执行成功事件
type OrderExecutedEvent struct {
	OrderID       string `json:"order_id"`
	AccountID     string `json:"account_id"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Quantity      string `json:"quantity"`
	ExecutedPrice string `json:"executed_price"`
	Cost          string `json:"cost"`
	ExecutedAt    int64  `json:"executed_at"`
}

// OrderFailedEvent 订单执行失败事件
type OrderFailedEvent struct {
	OrderID   string `json:"order_id"`
	AccountID string `json:"account_id"`
	Symbol    string `json:"symbol"`
	Reason    string `json:"reason"`
	FailedAt  int64  `json:"failed_at"`
}

// EventPublisher 订单事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
