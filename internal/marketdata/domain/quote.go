// Package domain 行情数据服务的领域模型、行情源接口与仓储接口
package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quote 行情数据实体
// 一条不可变的观测价格，按 observed_at 在标的内排序，只追加不修改
type Quote struct {
	gorm.Model
	// 标的符号
	Symbol string `gorm:"column:symbol;type:varchar(20);index:idx_symbol_observed;not null" json:"symbol"`
	// 观测价格
	Price decimal.Decimal `gorm:"column:price;type:decimal(32,18);not null" json:"price"`
	// 观测时间（毫秒）
	ObservedAt int64 `gorm:"column:observed_at;type:bigint;index:idx_symbol_observed;not null" json:"observed_at"`
}

func (Quote) TableName() string {
	return "quotes"
}

// NewQuote 创建行情记录
func NewQuote(symbol string, price decimal.Decimal, observedAt int64) *Quote {
	return &Quote{
		Symbol:     symbol,
		Price:      price,
		ObservedAt: observedAt,
	}
}

// LatestQuote 每个标的一行的最新行情指针
// 只在插入其指向的 Quote 的同一个事务内更新；同一标的同一时间戳时，后提交者覆盖先提交者
type LatestQuote struct {
	gorm.Model
	// 标的符号，每个标的只有一行
	Symbol string `gorm:"column:symbol;type:varchar(20);uniqueIndex;not null" json:"symbol"`
	// 指向的行情记录 ID
	QuoteID uint `gorm:"column:quote_id;not null" json:"quote_id"`
	// 冗余价格，避免读路径二次查询
	Price decimal.Decimal `gorm:"column:price;type:decimal(32,18);not null" json:"price"`
	// 冗余观测时间（毫秒）
	ObservedAt int64 `gorm:"column:observed_at;type:bigint;not null" json:"observed_at"`
}

func (LatestQuote) TableName() string {
	return "latest_quotes"
}

// QuoteRepository 行情仓储接口
type QuoteRepository interface {
	// Commit 在同一个事务内插入行情记录并推进最新行情指针。
	// 历史可见但指针未更新（或反之）都是一致性违规，所以二者不拆分为两个调用。
	Commit(ctx context.Context, quote *Quote) error
	// Latest 解引用最新行情指针，无任何已提交行情时返回 (nil, nil)
	Latest(ctx context.Context, symbol string) (*Quote, error)
	// History 按观测时间倒序获取历史行情
	History(ctx context.Context, symbol string, limit int) ([]*Quote, error)
}
