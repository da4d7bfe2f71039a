// Package application 订单上下文的应用服务与执行引擎
package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	instrument "github.com/wyfcoding/markettracker/internal/instrument/domain"
	"github.com/wyfcoding/markettracker/internal/order/domain"
	"github.com/wyfcoding/markettracker/pkg/utils"
)

// ErrUnknownSymbol 标的未被跟踪
var ErrUnknownSymbol = errors.New("symbol is not tracked")

// OrderService 订单提交与查询服务
type OrderService struct {
	orders      domain.OrderRepository
	instruments instrument.InstrumentRepository
}

// NewOrderService 构造函数
func NewOrderService(orders domain.OrderRepository, instruments instrument.InstrumentRepository) *OrderService {
	return &OrderService{orders: orders, instruments: instruments}
}

// Submit 提交定时订单
// 标的必须已被跟踪；scheduledAt 允许是过去的时间，下一个执行 tick 会立即处理
func (s *OrderService) Submit(ctx context.Context, accountID, symbol string, side domain.OrderSide, quantity decimal.Decimal, scheduledAt int64) (*domain.Order, error) {
	inst, err := s.instruments.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrUnknownSymbol
	}

	order, err := domain.NewOrder(utils.GenerateString("ORD"), accountID, symbol, side, quantity, scheduledAt)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get 查询订单
func (s *OrderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orders.Get(ctx, orderID)
}

// ListByAccount 查询账户全部订单
func (s *OrderService) ListByAccount(ctx context.Context, accountID string) ([]*domain.Order, error) {
	return s.orders.ListByAccount(ctx, accountID)
}
