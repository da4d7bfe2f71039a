// Package domain 标的（instrument）服务的领域模型
package domain

import (
	"context"

	"gorm.io/gorm"
)

// FeedType 行情源类型
type FeedType string

const (
	FeedEquity FeedType = "EQUITY"
	FeedCrypto FeedType = "CRYPTO"
	FeedMetal  FeedType = "METAL"
)

// Valid 判断行情源类型是否合法
func (f FeedType) Valid() bool {
	switch f {
	case FeedEquity, FeedCrypto, FeedMetal:
		return true
	}
	return false
}

// Instrument 可交易标的实体
// symbol 是业务主键，创建后不可变更；展示名称可修改
type Instrument struct {
	gorm.Model
	// 标的符号（如 AAPL, BTC, GOLD），全局唯一
	Symbol string `gorm:"column:symbol;type:varchar(20);uniqueIndex;not null" json:"symbol"`
	// 展示名称
	Name string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	// 计价货币（如 USD）
	Currency string `gorm:"column:currency;type:varchar(10);not null" json:"currency"`
	// 行情源类型
	Feed FeedType `gorm:"column:feed;type:varchar(10);index;not null" json:"feed"`
}

func (Instrument) TableName() string {
	return "instruments"
}

// NewInstrument 创建标的
func NewInstrument(symbol, name, currency string, feed FeedType) *Instrument {
	return &Instrument{
		Symbol:   symbol,
		Name:     name,
		Currency: currency,
		Feed:     feed,
	}
}

// InstrumentRepository 标的仓储接口
type InstrumentRepository interface {
	// Save 保存标的
	Save(ctx context.Context, instrument *Instrument) error
	// GetBySymbol 根据符号获取标的，不存在时返回 (nil, nil)
	GetBySymbol(ctx context.Context, symbol string) (*Instrument, error)
	// ListByFeed 获取某个行情源类型下的全部标的
	ListByFeed(ctx context.Context, feed FeedType) ([]*Instrument, error)
	// List 获取全部标的
	List(ctx context.Context) ([]*Instrument, error)
	// Rename 修改展示名称，符号不可变
	Rename(ctx context.Context, symbol, name string) error
}
