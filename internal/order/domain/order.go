// Package domain 订单上下文的领域模型：定时订单与执行状态机
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderSide 买卖方向
type OrderSide string

const (
	// SideBuy 买入
	SideBuy OrderSide = "BUY"
	// SideSell 卖出
	SideSell OrderSide = "SELL"
)

// Valid 校验方向合法性
func (s OrderSide) Valid() bool {
	return s == SideBuy || s == SideSell
}

// OrderStatus 订单状态
// PENDING 是唯一的非终态；EXECUTED 与 FAILED 均为终态，不允许任何后续迁移
type OrderStatus string

const (
	// StatusPending 等待执行
	StatusPending OrderStatus = "PENDING"
	// StatusExecuted 执行成功（终态）
	StatusExecuted OrderStatus = "EXECUTED"
	// StatusFailed 执行失败（终态）
	StatusFailed OrderStatus = "FAILED"
)

var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderTerminal 订单已处于终态，状态迁移被拒绝
	ErrOrderTerminal = errors.New("order already in terminal status")
	// ErrInvalidSide 非法买卖方向
	ErrInvalidSide = errors.New("invalid order side")
	// ErrInvalidQuantity 数量必须为正
	ErrInvalidQuantity = errors.New("order quantity must be positive")
)

// 执行失败原因，落入 FailureReason 字段
const (
	FailureNoPrice             = "NO_PRICE"
	FailureInsufficientBalance = "INSUFFICIENT_BALANCE"
	FailureInsufficientHolding = "INSUFFICIENT_HOLDING"
	FailureAccountNotFound     = "ACCOUNT_NOT_FOUND"
)

// Order 定时订单聚合根
// ScheduledAt 为毫秒时间戳，到期后由执行引擎按执行时刻的最新价定价
type Order struct {
	gorm.Model
	OrderID       string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_id"`
	AccountID     string          `gorm:"type:varchar(64);index;not null" json:"account_id"`
	Symbol        string          `gorm:"type:varchar(32);not null" json:"symbol"`
	Side          OrderSide       `gorm:"type:varchar(8);not null" json:"side"`
	Quantity      decimal.Decimal `gorm:"type:decimal(32,18);not null" json:"quantity"`
	ScheduledAt   int64           `gorm:"index;not null" json:"scheduled_at"`
	Status        OrderStatus     `gorm:"type:varchar(16);index;not null;default:'PENDING'" json:"status"`
	ExecutedPrice decimal.Decimal `gorm:"type:decimal(32,18)" json:"executed_price"`
	Cost          decimal.Decimal `gorm:"type:decimal(32,18)" json:"cost"`
	FailureReason string          `gorm:"type:varchar(64)" json:"failure_reason,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// NewOrder 创建待执行订单
func NewOrder(orderID, accountID, symbol string, side OrderSide, quantity decimal.Decimal, scheduledAt int64) (*Order, error) {
	if !side.Valid() {
		return nil, ErrInvalidSide
	}
	if !quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}
	return &Order{
		OrderID:     orderID,
		AccountID:   accountID,
		Symbol:      symbol,
		Side:        side,
		Quantity:    quantity,
		ScheduledAt: scheduledAt,
		Status:      StatusPending,
	}, nil
}

// IsTerminal 是否处于终态
func (o *Order) IsTerminal() bool {
	return o.Status == StatusExecuted || o.Status == StatusFailed
}

// Due 订单是否已到期待执行
func (o *Order) Due(nowMilli int64) bool {
	return o.Status == StatusPending && o.ScheduledAt <= nowMilli
}

// OrderRepository 订单仓储接口
// MarkExecuted/MarkFailed 以 status = PENDING 为更新条件，保证终态迁移恰好发生一次；
// 条件未命中（订单已终态）返回 ErrOrderTerminal
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	Get(ctx context.Context, orderID string) (*Order, error)
	// ListDue 返回到期且仍为 PENDING 的订单，按 scheduled_at 升序
	ListDue(ctx context.Context, nowMilli int64, limit int) ([]*Order, error)
	ListByAccount(ctx context.Context, accountID string) ([]*Order, error)
	MarkExecuted(ctx context.Context, orderID string, price, cost decimal.Decimal) error
	MarkFailed(ctx context.Context, orderID string, reason string) error
}

// PriceProvider 执行定价的价格来源
// found 为 false 表示该标的从未有任何已提交行情
type PriceProvider interface {
	LatestPrice(ctx context.Context, symbol string) (price decimal.Decimal, found bool, err error)
}
