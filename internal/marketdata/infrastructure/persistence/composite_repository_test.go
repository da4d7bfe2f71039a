package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/markettracker/internal/marketdata/domain"
)

type fakePrimaryRepo struct {
	latest    map[string]*domain.Quote
	commitErr error
}

func newFakePrimaryRepo() *fakePrimaryRepo {
	return &fakePrimaryRepo{latest: map[string]*domain.Quote{}}
}

func (f *fakePrimaryRepo) Commit(ctx context.Context, quote *domain.Quote) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.latest[quote.Symbol] = quote
	return nil
}

func (f *fakePrimaryRepo) Latest(ctx context.Context, symbol string) (*domain.Quote, error) {
	return f.latest[symbol], nil
}

func (f *fakePrimaryRepo) History(ctx context.Context, symbol string, limit int) ([]*domain.Quote, error) {
	if quote, ok := f.latest[symbol]; ok {
		return []*domain.Quote{quote}, nil
	}
	return nil, nil
}

type fakeQuoteCache struct {
	entries map[string]*domain.Quote
	setErr  error
	getErr  error
	deleted []string
}

func newFakeQuoteCache() *fakeQuoteCache {
	return &fakeQuoteCache{entries: map[string]*domain.Quote{}}
}

func (f *fakeQuoteCache) Set(ctx context.Context, quote *domain.Quote) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[quote.Symbol] = quote
	return nil
}

func (f *fakeQuoteCache) Get(ctx context.Context, symbol string) (*domain.Quote, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[symbol], nil
}

func (f *fakeQuoteCache) Delete(ctx context.Context, symbol string) error {
	delete(f.entries, symbol)
	f.deleted = append(f.deleted, symbol)
	return nil
}

func quoteAt(symbol string, price int64, observedAt int64) *domain.Quote {
	return domain.NewQuote(symbol, decimal.NewFromInt(price), observedAt)
}

func TestCompositeCommitWritesThroughToCache(t *testing.T) {
	primary := newFakePrimaryRepo()
	cache := newFakeQuoteCache()
	repo := &compositeQuoteRepository{primary: primary, cache: cache}

	quote := quoteAt("AAPL", 150, 1700000000000)
	require.NoError(t, repo.Commit(context.Background(), quote))

	assert.Equal(t, quote, primary.latest["AAPL"])
	assert.Equal(t, quote, cache.entries["AAPL"])
}

func TestCompositeCommitCacheFailureEvictsStaleKey(t *testing.T) {
	primary := newFakePrimaryRepo()
	cache := newFakeQuoteCache()
	repo := &compositeQuoteRepository{primary: primary, cache: cache}

	// 第一次提交进入缓存
	require.NoError(t, repo.Commit(context.Background(), quoteAt("AAPL", 150, 1700000000000)))

	// 第二次提交落库成功但缓存写入失败：旧键必须被删除，读路径回源拿到新价格
	cache.setErr = errors.New("redis down")
	fresh := quoteAt("AAPL", 160, 1700000001000)
	require.NoError(t, repo.Commit(context.Background(), fresh))

	assert.Contains(t, cache.deleted, "AAPL")
	assert.NotContains(t, cache.entries, "AAPL")

	cache.setErr = nil
	latest, err := repo.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "160", latest.Price.String())
}

func TestCompositeCommitPrimaryFailureSkipsCache(t *testing.T) {
	primary := newFakePrimaryRepo()
	primary.commitErr = errors.New("disk full")
	cache := newFakeQuoteCache()
	repo := &compositeQuoteRepository{primary: primary, cache: cache}

	err := repo.Commit(context.Background(), quoteAt("AAPL", 150, 1700000000000))
	assert.Error(t, err)
	assert.Empty(t, cache.entries)
}

func TestCompositeLatestPrefersCache(t *testing.T) {
	primary := newFakePrimaryRepo()
	cache := newFakeQuoteCache()
	repo := &compositeQuoteRepository{primary: primary, cache: cache}

	primary.latest["AAPL"] = quoteAt("AAPL", 150, 1700000000000)
	cache.entries["AAPL"] = quoteAt("AAPL", 155, 1700000000500)

	latest, err := repo.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "155", latest.Price.String())
}

func TestCompositeLatestBackfillsCacheOnMiss(t *testing.T) {
	primary := newFakePrimaryRepo()
	cache := newFakeQuoteCache()
	repo := &compositeQuoteRepository{primary: primary, cache: cache}

	primary.latest["AAPL"] = quoteAt("AAPL", 150, 1700000000000)

	latest, err := repo.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "150", latest.Price.String())
	assert.Equal(t, "150", cache.entries["AAPL"].Price.String())
}

func TestCompositeLatestCacheErrorFallsBackToPrimary(t *testing.T) {
	primary := newFakePrimaryRepo()
	cache := newFakeQuoteCache()
	repo := &compositeQuoteRepository{primary: primary, cache: cache}

	primary.latest["AAPL"] = quoteAt("AAPL", 150, 1700000000000)
	cache.getErr = errors.New("redis down")

	latest, err := repo.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "150", latest.Price.String())
}

func TestCompositeWorksWithoutCache(t *testing.T) {
	primary := newFakePrimaryRepo()
	repo := NewCompositeQuoteRepository(primary, nil)

	quote := quoteAt("AAPL", 150, 1700000000000)
	require.NoError(t, repo.Commit(context.Background(), quote))

	latest, err := repo.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, quote, latest)
}
