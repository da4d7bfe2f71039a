package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	instrument "github.com/wyfcoding/markettracker/internal/instrument/domain"
	"github.com/wyfcoding/markettracker/internal/order/domain"
)

type fakeInstrumentSource struct {
	symbols map[string]bool
}

func (f *fakeInstrumentSource) Save(ctx context.Context, inst *instrument.Instrument) error {
	return nil
}

func (f *fakeInstrumentSource) GetBySymbol(ctx context.Context, symbol string) (*instrument.Instrument, error) {
	if !f.symbols[symbol] {
		return nil, nil
	}
	return instrument.NewInstrument(symbol, symbol, "USD", instrument.FeedEquity), nil
}

func (f *fakeInstrumentSource) ListByFeed(ctx context.Context, feed instrument.FeedType) ([]*instrument.Instrument, error) {
	return nil, nil
}

func (f *fakeInstrumentSource) List(ctx context.Context) ([]*instrument.Instrument, error) {
	return nil, nil
}

func (f *fakeInstrumentSource) Rename(ctx context.Context, symbol, name string) error {
	return nil
}

func TestSubmitOrder(t *testing.T) {
	orders := newFakeOrderStore()
	svc := NewOrderService(orders, &fakeInstrumentSource{symbols: map[string]bool{"AAPL": true}})

	order, err := svc.Submit(context.Background(), "ACC1", "AAPL", domain.SideBuy, decimal.NewFromInt(5), 1700000000000)
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderID)
	assert.Contains(t, order.OrderID, "ORD")
	assert.Equal(t, domain.StatusPending, order.Status)

	saved, err := svc.Get(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, saved.OrderID)
}

func TestSubmitOrderUnknownSymbol(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore(), &fakeInstrumentSource{symbols: map[string]bool{}})

	_, err := svc.Submit(context.Background(), "ACC1", "NOPE", domain.SideBuy, decimal.NewFromInt(5), 1700000000000)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestSubmitOrderInvalidSide(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore(), &fakeInstrumentSource{symbols: map[string]bool{"AAPL": true}})

	_, err := svc.Submit(context.Background(), "ACC1", "AAPL", domain.OrderSide("HOLD"), decimal.NewFromInt(5), 1700000000000)
	assert.ErrorIs(t, err, domain.ErrInvalidSide)
}

func TestSubmitOrderInvalidQuantity(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore(), &fakeInstrumentSource{symbols: map[string]bool{"AAPL": true}})

	_, err := svc.Submit(context.Background(), "ACC1", "AAPL", domain.SideSell, decimal.Zero, 1700000000000)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestSubmitOrderInPastIsAllowed(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore(), &fakeInstrumentSource{symbols: map[string]bool{"AAPL": true}})

	order, err := svc.Submit(context.Background(), "ACC1", "AAPL", domain.SideBuy, decimal.NewFromInt(1), 1000)
	require.NoError(t, err)
	assert.True(t, order.Due(2000))
}
