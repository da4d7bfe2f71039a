// Package mysql 账本仓储的 GORM 实现
package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/markettracker/internal/ledger/domain"
	"github.com/wyfcoding/markettracker/pkg/contextx"
)

// ledgerRepository 账本仓储实现
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建账本仓储
func NewLedgerRepository(db *gorm.DB) domain.LedgerRepository {
	return &ledgerRepository{db: db}
}

// getDB 优先使用上下文中的事务句柄
func (r *ledgerRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *ledgerRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	return r.getDB(ctx).WithContext(ctx).Create(account).Error
}

func (r *ledgerRepository) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	var account domain.Account
	err := r.getDB(ctx).WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// Debit 条件更新扣减余额，balance >= amount 才会命中行
func (r *ledgerRepository) Debit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	result := r.getDB(ctx).WithContext(ctx).
		Model(&domain.Account{}).
		Where("account_id = ? AND balance >= ?", accountID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 区分账户不存在与余额不足
		if _, err := r.GetAccount(ctx, accountID); err != nil {
			return err
		}
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (r *ledgerRepository) Credit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	result := r.getDB(ctx).WithContext(ctx).
		Model(&domain.Account{}).
		Where("account_id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// AddHolding 不存在则插入，存在则累加数量
func (r *ledgerRepository) AddHolding(ctx context.Context, accountID, symbol string, quantity decimal.Decimal) error {
	holding := &domain.Holding{
		AccountID: accountID,
		Symbol:    symbol,
		Quantity:  quantity,
	}
	return r.getDB(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account_id"}, {Name: "symbol"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("quantity + ?", quantity),
				"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(holding).Error
}

// ReduceHolding 条件更新扣减持仓，归零行随后删除，保持持仓数量恒为正的约定
func (r *ledgerRepository) ReduceHolding(ctx context.Context, accountID, symbol string, quantity decimal.Decimal) error {
	db := r.getDB(ctx).WithContext(ctx)

	result := db.Model(&domain.Holding{}).
		Where("account_id = ? AND symbol = ? AND quantity >= ?", accountID, symbol, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInsufficientHolding
	}

	return db.Where("account_id = ? AND symbol = ? AND quantity = 0", accountID, symbol).
		Delete(&domain.Holding{}).Error
}

func (r *ledgerRepository) GetHolding(ctx context.Context, accountID, symbol string) (*domain.Holding, error) {
	var holding domain.Holding
	err := r.getDB(ctx).WithContext(ctx).
		Where("account_id = ? AND symbol = ?", accountID, symbol).
		First(&holding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &holding, nil
}

func (r *ledgerRepository) ListHoldings(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	var holdings []*domain.Holding
	err := r.getDB(ctx).WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("symbol ASC").
		Find(&holdings).Error
	return holdings, err
}
