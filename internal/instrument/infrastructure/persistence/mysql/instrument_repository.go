package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/markettracker/internal/instrument/domain"
	"github.com/wyfcoding/markettracker/pkg/contextx"
	"gorm.io/gorm"
)

// instrumentRepository 标的仓储实现
type instrumentRepository struct {
	db *gorm.DB
}

// NewInstrumentRepository 创建并返回一个新的 instrumentRepository 实例。
func NewInstrumentRepository(db *gorm.DB) domain.InstrumentRepository {
	return &instrumentRepository{db: db}
}

func (r *instrumentRepository) Save(ctx context.Context, instrument *domain.Instrument) error {
	return r.getDB(ctx).WithContext(ctx).Create(instrument).Error
}

func (r *instrumentRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Instrument, error) {
	var instrument domain.Instrument
	err := r.getDB(ctx).WithContext(ctx).Where("symbol = ?", symbol).First(&instrument).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &instrument, nil
}

func (r *instrumentRepository) ListByFeed(ctx context.Context, feed domain.FeedType) ([]*domain.Instrument, error) {
	var instruments []*domain.Instrument
	if err := r.getDB(ctx).WithContext(ctx).Where("feed = ?", feed).Order("symbol").Find(&instruments).Error; err != nil {
		return nil, err
	}
	return instruments, nil
}

func (r *instrumentRepository) List(ctx context.Context) ([]*domain.Instrument, error) {
	var instruments []*domain.Instrument
	if err := r.getDB(ctx).WithContext(ctx).Order("symbol").Find(&instruments).Error; err != nil {
		return nil, err
	}
	return instruments, nil
}

func (r *instrumentRepository) Rename(ctx context.Context, symbol, name string) error {
	result := r.getDB(ctx).WithContext(ctx).Model(&domain.Instrument{}).
		Where("symbol = ?", symbol).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *instrumentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
