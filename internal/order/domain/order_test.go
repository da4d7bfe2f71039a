package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	order, err := NewOrder("ORD1", "ACC1", "AAPL", SideBuy, decimal.NewFromInt(10), 1700000000000)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.False(t, order.IsTerminal())
}

func TestNewOrderInvalidSide(t *testing.T) {
	_, err := NewOrder("ORD1", "ACC1", "AAPL", OrderSide("SHORT"), decimal.NewFromInt(10), 1700000000000)
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestNewOrderInvalidQuantity(t *testing.T) {
	_, err := NewOrder("ORD1", "ACC1", "AAPL", SideBuy, decimal.Zero, 1700000000000)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder("ORD1", "ACC1", "AAPL", SideSell, decimal.NewFromInt(-1), 1700000000000)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestOrderDue(t *testing.T) {
	order, err := NewOrder("ORD1", "ACC1", "AAPL", SideBuy, decimal.NewFromInt(1), 1000)
	require.NoError(t, err)

	assert.False(t, order.Due(999))
	assert.True(t, order.Due(1000))
	assert.True(t, order.Due(2000))

	// 终态订单永远不再到期
	order.Status = StatusExecuted
	assert.False(t, order.Due(2000))
}

func TestOrderTerminalStates(t *testing.T) {
	order, err := NewOrder("ORD1", "ACC1", "AAPL", SideBuy, decimal.NewFromInt(1), 1000)
	require.NoError(t, err)

	order.Status = StatusExecuted
	assert.True(t, order.IsTerminal())

	order.Status = StatusFailed
	assert.True(t, order.IsTerminal())

	order.Status = StatusPending
	assert.False(t, order.IsTerminal())
}
