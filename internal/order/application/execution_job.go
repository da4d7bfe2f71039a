package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	ledger "github.com/wyfcoding/markettracker/internal/ledger/domain"
	"github.com/wyfcoding/markettracker/internal/order/domain"
	"github.com/wyfcoding/markettracker/pkg/metrics"
)

// costScale 成交成本保留的小数位数
const costScale = 8

// ExecutionJob 定时订单执行引擎。
// tick 体在循环内同步执行，保证 tick 不重叠；tick 内按账户分组，
// 不同账户并发执行，同一账户的订单按 scheduled_at 顺序串行执行，
// 避免同一账户的余额与持仓出现交错更新。
type ExecutionJob struct {
	orders    domain.OrderRepository
	ledger    ledger.LedgerRepository
	prices    domain.PriceProvider
	tx        domain.TxManager
	publisher domain.EventPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	interval  time.Duration
	batchSize int
}

// NewExecutionJob 构造函数
func NewExecutionJob(
	orders domain.OrderRepository,
	ledgerRepo ledger.LedgerRepository,
	prices domain.PriceProvider,
	tx domain.TxManager,
	publisher domain.EventPublisher,
	logger *slog.Logger,
	m *metrics.Metrics,
	interval time.Duration,
	batchSize int,
) *ExecutionJob {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &ExecutionJob{
		orders:    orders,
		ledger:    ledgerRepo,
		prices:    prices,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run 启动执行循环，ctx 取消后在当前 tick 结束时返回（优雅排空）
func (j *ExecutionJob) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Order execution job started", "interval", j.interval)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Order execution job stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

// runOnce 执行一次 tick：取出到期订单，按账户分组后处理
func (j *ExecutionJob) runOnce(ctx context.Context) {
	start := time.Now()
	if j.metrics != nil {
		j.metrics.ExecutionTicksTotal.Inc()
	}

	due, err := j.orders.ListDue(ctx, time.Now().UnixMilli(), j.batchSize)
	if err != nil {
		j.logger.Error("Failed to list due orders", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	// ListDue 已按 scheduled_at 升序排列，分组保持组内顺序
	byAccount := make(map[string][]*domain.Order)
	for _, order := range due {
		byAccount[order.AccountID] = append(byAccount[order.AccountID], order)
	}

	g := new(errgroup.Group)
	for _, orders := range byAccount {
		orders := orders
		g.Go(func() error {
			for _, order := range orders {
				j.executeOne(ctx, order)
			}
			return nil
		})
	}
	_ = g.Wait()

	if j.metrics != nil {
		j.metrics.ExecutionTickDuration.Observe(time.Since(start).Seconds())
	}
}

// executeOne 执行单个订单。
// 业务性失败（无行情、余额/持仓不足、账户不存在）迁移订单到 FAILED；
// 基础设施错误不触碰订单状态，订单保持 PENDING 等待下一个 tick 重试。
func (j *ExecutionJob) executeOne(ctx context.Context, order *domain.Order) {
	price, found, err := j.prices.LatestPrice(ctx, order.Symbol)
	if err != nil {
		j.logger.Error("Price lookup failed, order stays pending",
			"order_id", order.OrderID, "symbol", order.Symbol, "error", err)
		return
	}
	if !found {
		j.fail(ctx, order, domain.FailureNoPrice)
		return
	}

	cost := price.Mul(order.Quantity).Round(costScale)

	err = j.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := j.applyLedger(txCtx, order, cost); err != nil {
			return err
		}
		return j.orders.MarkExecuted(txCtx, order.OrderID, price, cost)
	})
	if err != nil {
		if reason, ok := failureReason(err); ok {
			j.fail(ctx, order, reason)
			return
		}
		if errors.Is(err, domain.ErrOrderTerminal) {
			// 订单已被并发执行者处理过，安全跳过
			return
		}
		j.logger.Error("Order execution transaction failed, order stays pending",
			"order_id", order.OrderID, "error", err)
		return
	}

	if j.metrics != nil {
		j.metrics.OrdersExecutedTotal.Inc()
	}
	j.logger.Info("Order executed",
		"order_id", order.OrderID, "account_id", order.AccountID,
		"symbol", order.Symbol, "side", order.Side,
		"price", price.String(), "cost", cost.String())

	event := domain.OrderExecutedEvent{
		OrderID:       order.OrderID,
		AccountID:     order.AccountID,
		Symbol:        order.Symbol,
		Side:          string(order.Side),
		Quantity:      order.Quantity.String(),
		ExecutedPrice: price.String(),
		Cost:          cost.String(),
		ExecutedAt:    time.Now().UnixMilli(),
	}
	if err := j.publisher.Publish(ctx, domain.TopicOrderExecuted, order.OrderID, event); err != nil {
		j.logger.Warn("Failed to publish order executed event", "order_id", order.OrderID, "error", err)
	}
}

// applyLedger 在事务内落账：买入先扣钱再加仓，卖出先减仓再入账
func (j *ExecutionJob) applyLedger(ctx context.Context, order *domain.Order, cost decimal.Decimal) error {
	switch order.Side {
	case domain.SideBuy:
		if err := j.ledger.Debit(ctx, order.AccountID, cost); err != nil {
			return err
		}
		return j.ledger.AddHolding(ctx, order.AccountID, order.Symbol, order.Quantity)
	case domain.SideSell:
		if err := j.ledger.ReduceHolding(ctx, order.AccountID, order.Symbol, order.Quantity); err != nil {
			return err
		}
		return j.ledger.Credit(ctx, order.AccountID, cost)
	default:
		return domain.ErrInvalidSide
	}
}

// fail 在账本事务之外迁移订单到 FAILED，终态迁移恰好发生一次
func (j *ExecutionJob) fail(ctx context.Context, order *domain.Order, reason string) {
	if err := j.orders.MarkFailed(ctx, order.OrderID, reason); err != nil {
		if errors.Is(err, domain.ErrOrderTerminal) {
			return
		}
		j.logger.Error("Failed to mark order failed, order stays pending",
			"order_id", order.OrderID, "reason", reason, "error", err)
		return
	}

	if j.metrics != nil {
		j.metrics.OrdersFailedTotal.Inc()
	}
	j.logger.Warn("Order failed",
		"order_id", order.OrderID, "account_id", order.AccountID,
		"symbol", order.Symbol, "reason", reason)

	event := domain.OrderFailedEvent{
		OrderID:   order.OrderID,
		AccountID: order.AccountID,
		Symbol:    order.Symbol,
		Reason:    reason,
		FailedAt:  time.Now().UnixMilli(),
	}
	if err := j.publisher.Publish(ctx, domain.TopicOrderFailed, order.OrderID, event); err != nil {
		j.logger.Warn("Failed to publish order failed event", "order_id", order.OrderID, "error", err)
	}
}

// failureReason 判断账本错误是否属于业务性失败
func failureReason(err error) (string, bool) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return domain.FailureInsufficientBalance, true
	case errors.Is(err, ledger.ErrInsufficientHolding):
		return domain.FailureInsufficientHolding, true
	case errors.Is(err, ledger.ErrAccountNotFound):
		return domain.FailureAccountNotFound, true
	default:
		return "", false
	}
}
