package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/markettracker/internal/instrument/domain"
)

// InstrumentService 标的服务门面
// 同时充当调度器的 tracked-instrument 来源：调度器只读它的 ListByFeed
type InstrumentService struct {
	repo domain.InstrumentRepository
}

// NewInstrumentService 构造函数
func NewInstrumentService(repo domain.InstrumentRepository) *InstrumentService {
	return &InstrumentService{repo: repo}
}

// CreateInstrumentCommand 创建标的命令
type CreateInstrumentCommand struct {
	Symbol   string
	Name     string
	Currency string
	Feed     string
}

// Create 创建标的
func (s *InstrumentService) Create(ctx context.Context, cmd CreateInstrumentCommand) (*domain.Instrument, error) {
	feed := domain.FeedType(cmd.Feed)
	if !feed.Valid() {
		return nil, fmt.Errorf("invalid feed type: %s", cmd.Feed)
	}

	existing, err := s.repo.GetBySymbol(ctx, cmd.Symbol)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("instrument %s already exists", cmd.Symbol)
	}

	instrument := domain.NewInstrument(cmd.Symbol, cmd.Name, cmd.Currency, feed)
	if err := s.repo.Save(ctx, instrument); err != nil {
		return nil, err
	}
	return instrument, nil
}

// Rename 修改标的展示名称
func (s *InstrumentService) Rename(ctx context.Context, symbol, name string) error {
	return s.repo.Rename(ctx, symbol, name)
}

// Get 根据符号获取标的
func (s *InstrumentService) Get(ctx context.Context, symbol string) (*domain.Instrument, error) {
	return s.repo.GetBySymbol(ctx, symbol)
}

// List 获取全部标的
func (s *InstrumentService) List(ctx context.Context) ([]*domain.Instrument, error) {
	return s.repo.List(ctx)
}

// ListByFeed 获取某个行情源类型下的全部标的
func (s *InstrumentService) ListByFeed(ctx context.Context, feed domain.FeedType) ([]*domain.Instrument, error) {
	return s.repo.ListByFeed(ctx, feed)
}
