package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wyfcoding/markettracker/internal/instrument/domain"
)

type fakeInstrumentRepo struct {
	instruments map[string]*domain.Instrument
}

func newFakeInstrumentRepo() *fakeInstrumentRepo {
	return &fakeInstrumentRepo{instruments: map[string]*domain.Instrument{}}
}

func (f *fakeInstrumentRepo) Save(ctx context.Context, inst *domain.Instrument) error {
	f.instruments[inst.Symbol] = inst
	return nil
}

func (f *fakeInstrumentRepo) GetBySymbol(ctx context.Context, symbol string) (*domain.Instrument, error) {
	return f.instruments[symbol], nil
}

func (f *fakeInstrumentRepo) ListByFeed(ctx context.Context, feed domain.FeedType) ([]*domain.Instrument, error) {
	var out []*domain.Instrument
	for _, inst := range f.instruments {
		if inst.Feed == feed {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (f *fakeInstrumentRepo) List(ctx context.Context) ([]*domain.Instrument, error) {
	var out []*domain.Instrument
	for _, inst := range f.instruments {
		out = append(out, inst)
	}
	return out, nil
}

func (f *fakeInstrumentRepo) Rename(ctx context.Context, symbol, name string) error {
	inst, ok := f.instruments[symbol]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inst.Name = name
	return nil
}

func TestCreateInstrument(t *testing.T) {
	svc := NewInstrumentService(newFakeInstrumentRepo())

	inst, err := svc.Create(context.Background(), CreateInstrumentCommand{
		Symbol:   "AAPL",
		Name:     "Apple Inc.",
		Currency: "USD",
		Feed:     "EQUITY",
	})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", inst.Symbol)
	assert.Equal(t, domain.FeedEquity, inst.Feed)
}

func TestCreateInstrumentInvalidFeed(t *testing.T) {
	svc := NewInstrumentService(newFakeInstrumentRepo())

	_, err := svc.Create(context.Background(), CreateInstrumentCommand{
		Symbol: "AAPL", Name: "Apple", Currency: "USD", Feed: "FOREX",
	})
	assert.Error(t, err)
}

func TestCreateInstrumentDuplicateSymbol(t *testing.T) {
	svc := NewInstrumentService(newFakeInstrumentRepo())

	_, err := svc.Create(context.Background(), CreateInstrumentCommand{
		Symbol: "AAPL", Name: "Apple", Currency: "USD", Feed: "EQUITY",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInstrumentCommand{
		Symbol: "AAPL", Name: "Apple Again", Currency: "USD", Feed: "EQUITY",
	})
	assert.Error(t, err)
}

func TestRenameInstrument(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := NewInstrumentService(repo)

	_, err := svc.Create(context.Background(), CreateInstrumentCommand{
		Symbol: "AAPL", Name: "Apple", Currency: "USD", Feed: "EQUITY",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Rename(context.Background(), "AAPL", "Apple Inc."))

	inst, err := svc.Get(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", inst.Name)
}

func TestListByFeed(t *testing.T) {
	svc := NewInstrumentService(newFakeInstrumentRepo())

	for _, spec := range []struct{ symbol, feed string }{
		{"AAPL", "EQUITY"}, {"BTCUSDT", "CRYPTO"}, {"XAU", "METAL"}, {"MSFT", "EQUITY"},
	} {
		_, err := svc.Create(context.Background(), CreateInstrumentCommand{
			Symbol: spec.symbol, Name: spec.symbol, Currency: "USD", Feed: spec.feed,
		})
		require.NoError(t, err)
	}

	equities, err := svc.ListByFeed(context.Background(), domain.FeedEquity)
	require.NoError(t, err)
	assert.Len(t, equities, 2)
}
