package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	instrument "github.com/wyfcoding/markettracker/internal/instrument/domain"
)

// FetchedQuote 行情源返回的一次观测结果
type FetchedQuote struct {
	Symbol string
	Price  decimal.Decimal
	// 捕获时间：行情源自带可信时间戳时取其值，否则取收到响应时的本地时间
	ObservedAt time.Time
}

// PriceSource 行情源适配器接口
// 纯转换，不落库、不重试；任何失败都以 FeedError 上报，绝不把失败伪装成行情
type PriceSource interface {
	// Feed 返回该适配器服务的行情源类型
	Feed() instrument.FeedType
	// Fetch 拉取一个标的的最新价格
	Fetch(ctx context.Context, symbol string) (*FetchedQuote, error)
}

// FeedErrorKind 行情源错误分类
type FeedErrorKind string

const (
	// FeedErrNetwork 网络失败或超时
	FeedErrNetwork FeedErrorKind = "NETWORK"
	// FeedErrBadStatus 非 2xx 响应
	FeedErrBadStatus FeedErrorKind = "BAD_STATUS"
	// FeedErrMalformed 响应体无法解析
	FeedErrMalformed FeedErrorKind = "MALFORMED"
	// FeedErrUnknownSymbol 行情源不认识该标的
	FeedErrUnknownSymbol FeedErrorKind = "UNKNOWN_SYMBOL"
)

// FeedError 行情源类型化错误
type FeedError struct {
	Feed   instrument.FeedType
	Symbol string
	Kind   FeedErrorKind
	Err    error
}

func (e *FeedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feed %s: %s for %s: %v", e.Feed, e.Kind, e.Symbol, e.Err)
	}
	return fmt.Sprintf("feed %s: %s for %s", e.Feed, e.Kind, e.Symbol)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// NewFeedError 创建行情源错误
func NewFeedError(feed instrument.FeedType, symbol string, kind FeedErrorKind, err error) *FeedError {
	return &FeedError{Feed: feed, Symbol: symbol, Kind: kind, Err: err}
}

// AsFeedError 判断并提取 FeedError
func AsFeedError(err error) (*FeedError, bool) {
	var fe *FeedError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
