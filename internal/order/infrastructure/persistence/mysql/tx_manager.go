package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/markettracker/internal/order/domain"
	"github.com/wyfcoding/markettracker/pkg/contextx"
)

// gormTxManager 基于 GORM 事务实现 TxManager
// 事务句柄通过 contextx 注入，跨仓储共享同一事务
type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) domain.TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}
