// Package application 账本上下文的应用服务
package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/markettracker/internal/ledger/domain"
	"github.com/wyfcoding/markettracker/pkg/utils"
)

// ErrInvalidAmount 金额必须为正
var ErrInvalidAmount = errors.New("amount must be positive")

// LedgerService 账户与持仓管理服务
type LedgerService struct {
	repo domain.LedgerRepository
}

// NewLedgerService 构造函数
func NewLedgerService(repo domain.LedgerRepository) *LedgerService {
	return &LedgerService{repo: repo}
}

// OpenAccount 开户，可携带初始入金
func (s *LedgerService) OpenAccount(ctx context.Context, currency string, initialBalance decimal.Decimal) (*domain.Account, error) {
	if initialBalance.IsNegative() {
		return nil, ErrInvalidAmount
	}
	account := domain.NewAccount(utils.GenerateString("ACC"), currency, initialBalance)
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Deposit 入金
func (s *LedgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return s.repo.Credit(ctx, accountID, amount)
}

// Withdraw 出金，余额不足返回 domain.ErrInsufficientBalance
func (s *LedgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return s.repo.Debit(ctx, accountID, amount)
}

// GetAccount 查询账户
func (s *LedgerService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.repo.GetAccount(ctx, accountID)
}

// GetHolding 查询单个持仓，无持仓返回 (nil, nil)
func (s *LedgerService) GetHolding(ctx context.Context, accountID, symbol string) (*domain.Holding, error) {
	return s.repo.GetHolding(ctx, accountID, symbol)
}

// ListHoldings 查询账户全部持仓
func (s *LedgerService) ListHoldings(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	return s.repo.ListHoldings(ctx, accountID)
}
