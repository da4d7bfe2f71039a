package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/markettracker/internal/marketdata/domain"
	"github.com/wyfcoding/markettracker/pkg/contextx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// quoteRepository 行情仓储实现
type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository 创建行情仓储实例
func NewQuoteRepository(db *gorm.DB) domain.QuoteRepository {
	return &quoteRepository{db: db}
}

// Commit 在同一个事务内插入行情并推进指针
// 指针 upsert 以 symbol 唯一键冲突为准，后提交的事务覆盖先提交的（时间戳相同也是如此）
func (r *quoteRepository) Commit(ctx context.Context, quote *domain.Quote) error {
	return r.getDB(ctx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quote).Error; err != nil {
			return err
		}

		pointer := &domain.LatestQuote{
			Symbol:     quote.Symbol,
			QuoteID:    quote.ID,
			Price:      quote.Price,
			ObservedAt: quote.ObservedAt,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"quote_id", "price", "observed_at", "updated_at"}),
		}).Create(pointer).Error
	})
}

// Latest 解引用最新行情指针
func (r *quoteRepository) Latest(ctx context.Context, symbol string) (*domain.Quote, error) {
	var pointer domain.LatestQuote
	err := r.getDB(ctx).WithContext(ctx).Where("symbol = ?", symbol).First(&pointer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		Symbol:     pointer.Symbol,
		Price:      pointer.Price,
		ObservedAt: pointer.ObservedAt,
	}
	quote.ID = pointer.QuoteID
	return quote, nil
}

// History 按观测时间倒序获取历史行情
func (r *quoteRepository) History(ctx context.Context, symbol string, limit int) ([]*domain.Quote, error) {
	if limit <= 0 {
		limit = 100
	}
	var quotes []*domain.Quote
	err := r.getDB(ctx).WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("observed_at desc, id desc").
		Limit(limit).
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *quoteRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
