package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/markettracker/internal/marketdata/domain"
)

func newTestConfig(server *httptest.Server) Config {
	return Config{
		BaseURL: server.URL,
		Token:   "test-token",
		Timeout: 2 * time.Second,
	}
}

func requireFeedErrorKind(t *testing.T, err error, kind domain.FeedErrorKind) {
	t.Helper()
	fe, ok := domain.AsFeedError(err)
	require.True(t, ok, "expected FeedError, got %v", err)
	assert.Equal(t, kind, fe.Kind)
}

func TestEquitySourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		w.Write([]byte(`{"symbol":"AAPL","price":187.31,"timestamp":1700000000}`))
	}))
	defer server.Close()

	source := NewEquitySource(newTestConfig(server))
	quote, err := source.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "187.31", quote.Price.String())
	assert.Equal(t, int64(1700000000), quote.ObservedAt.Unix())
}

func TestEquitySourceFetchMissingTimestamp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"AAPL","price":187.31}`))
	}))
	defer server.Close()

	before := time.Now()
	source := NewEquitySource(newTestConfig(server))
	quote, err := source.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.False(t, quote.ObservedAt.Before(before.Truncate(time.Second)))
}

func TestEquitySourceFetchMissingPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"AAPL","timestamp":1700000000}`))
	}))
	defer server.Close()

	source := NewEquitySource(newTestConfig(server))
	_, err := source.Fetch(context.Background(), "AAPL")
	requireFeedErrorKind(t, err, domain.FeedErrMalformed)
}

func TestEquitySourceFetchUnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := NewEquitySource(newTestConfig(server))
	_, err := source.Fetch(context.Background(), "NOPE")
	requireFeedErrorKind(t, err, domain.FeedErrUnknownSymbol)
}

func TestEquitySourceFetchBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewEquitySource(newTestConfig(server))
	_, err := source.Fetch(context.Background(), "AAPL")
	requireFeedErrorKind(t, err, domain.FeedErrBadStatus)
}

func TestEquitySourceFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	source := NewEquitySource(newTestConfig(server))
	_, err := source.Fetch(context.Background(), "AAPL")
	requireFeedErrorKind(t, err, domain.FeedErrMalformed)
}

func TestEquitySourceFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	source := NewEquitySource(newTestConfig(server))
	_, err := source.Fetch(context.Background(), "AAPL")
	requireFeedErrorKind(t, err, domain.FeedErrNetwork)
}

func TestCryptoSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"code":0,"data":{"symbol":"BTCUSDT","price":"64123.507","ts":1700000000123}}`))
	}))
	defer server.Close()

	source := NewCryptoSource(newTestConfig(server))
	quote, err := source.Fetch(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, "64123.507", quote.Price.String())
	assert.Equal(t, int64(1700000000123), quote.ObservedAt.UnixMilli())
}

func TestCryptoSourceFetchUnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":1001,"data":{}}`))
	}))
	defer server.Close()

	source := NewCryptoSource(newTestConfig(server))
	_, err := source.Fetch(context.Background(), "NOPE")
	requireFeedErrorKind(t, err, domain.FeedErrUnknownSymbol)
}

func TestCryptoSourceFetchBadPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"data":{"symbol":"BTCUSDT","price":"not-a-number","ts":1}}`))
	}))
	defer server.Close()

	source := NewCryptoSource(newTestConfig(server))
	_, err := source.Fetch(context.Background(), "BTCUSDT")
	requireFeedErrorKind(t, err, domain.FeedErrMalformed)
}

func TestMetalSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/latest", r.URL.Path)
		assert.Equal(t, "XAU", r.URL.Query().Get("symbols"))
		w.Write([]byte(`{"success":true,"rates":{"XAU":2031.55}}`))
	}))
	defer server.Close()

	source := NewMetalSource(newTestConfig(server))
	quote, err := source.Fetch(context.Background(), "XAU")
	require.NoError(t, err)
	assert.Equal(t, "2031.55", quote.Price.String())
	assert.False(t, quote.ObservedAt.IsZero())
}

func TestMetalSourceFetchFailureFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"rates":{}}`))
	}))
	defer server.Close()

	source := NewMetalSource(newTestConfig(server))
	_, err := source.Fetch(context.Background(), "XAU")
	requireFeedErrorKind(t, err, domain.FeedErrBadStatus)
}

func TestMetalSourceFetchSymbolMissingFromRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"rates":{"XAG":22.84}}`))
	}))
	defer server.Close()

	source := NewMetalSource(newTestConfig(server))
	_, err := source.Fetch(context.Background(), "XAU")
	requireFeedErrorKind(t, err, domain.FeedErrUnknownSymbol)
}
