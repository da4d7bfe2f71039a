// Package domain 账本上下文的领域模型：资金账户与持仓
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrAccountNotFound 账户不存在
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientBalance 资金余额不足
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientHolding 持仓数量不足
	ErrInsufficientHolding = errors.New("insufficient holding")
)

// Account 资金账户聚合根
// 余额永不为负，由仓储层条件更新守卫保证
type Account struct {
	gorm.Model
	AccountID string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"account_id"`
	Currency  string          `gorm:"type:varchar(16);not null" json:"currency"`
	Balance   decimal.Decimal `gorm:"type:decimal(32,18);not null" json:"balance"`
}

// TableName 指定表名
func (Account) TableName() string {
	return "accounts"
}

// NewAccount 创建账户
func NewAccount(accountID, currency string, balance decimal.Decimal) *Account {
	return &Account{
		AccountID: accountID,
		Currency:  currency,
		Balance:   balance,
	}
}

// Holding 某账户对某标的的持仓
// 数量永远为正，归零即删除记录
type Holding struct {
	gorm.Model
	AccountID string          `gorm:"type:varchar(64);uniqueIndex:idx_account_symbol;not null" json:"account_id"`
	Symbol    string          `gorm:"type:varchar(32);uniqueIndex:idx_account_symbol;not null" json:"symbol"`
	Quantity  decimal.Decimal `gorm:"type:decimal(32,18);not null" json:"quantity"`
}

// TableName 指定表名
func (Holding) TableName() string {
	return "holdings"
}

// LedgerRepository 账本仓储接口
// Debit 与 ReduceHolding 采用条件更新：余额/持仓不足时不落任何变更并返回对应的哨兵错误，
// 这是仓储层的最后防线，应用层的预检查不能替代它
type LedgerRepository interface {
	CreateAccount(ctx context.Context, account *Account) error
	GetAccount(ctx context.Context, accountID string) (*Account, error)
	// Debit 扣减资金，余额不足返回 ErrInsufficientBalance
	Debit(ctx context.Context, accountID string, amount decimal.Decimal) error
	// Credit 增加资金
	Credit(ctx context.Context, accountID string, amount decimal.Decimal) error
	// AddHolding 增加持仓，不存在则创建
	AddHolding(ctx context.Context, accountID, symbol string, quantity decimal.Decimal) error
	// ReduceHolding 扣减持仓，数量不足返回 ErrInsufficientHolding，归零删除记录
	ReduceHolding(ctx context.Context, accountID, symbol string, quantity decimal.Decimal) error
	GetHolding(ctx context.Context, accountID, symbol string) (*Holding, error)
	ListHoldings(ctx context.Context, accountID string) ([]*Holding, error)
}
