// Package mysql 订单仓储的 GORM 实现
package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/markettracker/internal/order/domain"
	"github.com/wyfcoding/markettracker/pkg/contextx"
)

// orderRepository 订单仓储实现
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

// getDB 优先使用上下文中的事务句柄
func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.getDB(ctx).WithContext(ctx).Save(order).Error
}

func (r *orderRepository) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	var order domain.Order
	err := r.getDB(ctx).WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListDue(ctx context.Context, nowMilli int64, limit int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 500
	}
	var orders []*domain.Order
	err := r.getDB(ctx).WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", domain.StatusPending, nowMilli).
		Order("scheduled_at ASC, id ASC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.getDB(ctx).WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("scheduled_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// MarkExecuted 仅当订单仍为 PENDING 时迁移到 EXECUTED
func (r *orderRepository) MarkExecuted(ctx context.Context, orderID string, price, cost decimal.Decimal) error {
	return r.markTerminal(ctx, orderID, map[string]any{
		"status":         domain.StatusExecuted,
		"executed_price": price,
		"cost":           cost,
	})
}

// MarkFailed 仅当订单仍为 PENDING 时迁移到 FAILED
func (r *orderRepository) MarkFailed(ctx context.Context, orderID string, reason string) error {
	return r.markTerminal(ctx, orderID, map[string]any{
		"status":         domain.StatusFailed,
		"failure_reason": reason,
	})
}

func (r *orderRepository) markTerminal(ctx context.Context, orderID string, updates map[string]any) error {
	result := r.getDB(ctx).WithContext(ctx).
		Model(&domain.Order{}).
		Where("order_id = ? AND status = ?", orderID, domain.StatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 区分订单不存在与已终态
		if _, err := r.Get(ctx, orderID); err != nil {
			return err
		}
		return domain.ErrOrderTerminal
	}
	return nil
}
