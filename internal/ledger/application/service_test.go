package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/markettracker/internal/ledger/domain"
)

type fakeLedgerRepo struct {
	accounts map[string]*domain.Account
	holdings map[string]*domain.Holding
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		accounts: map[string]*domain.Account{},
		holdings: map[string]*domain.Holding{},
	}
}

func (f *fakeLedgerRepo) CreateAccount(ctx context.Context, account *domain.Account) error {
	f.accounts[account.AccountID] = account
	return nil
}

func (f *fakeLedgerRepo) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, ok := f.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (f *fakeLedgerRepo) Debit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	account, ok := f.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if account.Balance.LessThan(amount) {
		return domain.ErrInsufficientBalance
	}
	account.Balance = account.Balance.Sub(amount)
	return nil
}

func (f *fakeLedgerRepo) Credit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	account, ok := f.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Balance = account.Balance.Add(amount)
	return nil
}

func (f *fakeLedgerRepo) AddHolding(ctx context.Context, accountID, symbol string, quantity decimal.Decimal) error {
	key := accountID + "/" + symbol
	if holding, ok := f.holdings[key]; ok {
		holding.Quantity = holding.Quantity.Add(quantity)
		return nil
	}
	f.holdings[key] = &domain.Holding{AccountID: accountID, Symbol: symbol, Quantity: quantity}
	return nil
}

func (f *fakeLedgerRepo) ReduceHolding(ctx context.Context, accountID, symbol string, quantity decimal.Decimal) error {
	key := accountID + "/" + symbol
	holding, ok := f.holdings[key]
	if !ok || holding.Quantity.LessThan(quantity) {
		return domain.ErrInsufficientHolding
	}
	holding.Quantity = holding.Quantity.Sub(quantity)
	if holding.Quantity.IsZero() {
		delete(f.holdings, key)
	}
	return nil
}

func (f *fakeLedgerRepo) GetHolding(ctx context.Context, accountID, symbol string) (*domain.Holding, error) {
	return f.holdings[accountID+"/"+symbol], nil
}

func (f *fakeLedgerRepo) ListHoldings(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	var out []*domain.Holding
	for _, holding := range f.holdings {
		if holding.AccountID == accountID {
			out = append(out, holding)
		}
	}
	return out, nil
}

func TestOpenAccount(t *testing.T) {
	svc := NewLedgerService(newFakeLedgerRepo())

	account, err := svc.OpenAccount(context.Background(), "USD", decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.NotEmpty(t, account.AccountID)
	assert.Contains(t, account.AccountID, "ACC")
	assert.Equal(t, "USD", account.Currency)
	assert.Equal(t, "1000", account.Balance.String())
}

func TestOpenAccountNegativeBalance(t *testing.T) {
	svc := NewLedgerService(newFakeLedgerRepo())

	_, err := svc.OpenAccount(context.Background(), "USD", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDepositAndWithdraw(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewLedgerService(repo)

	account, err := svc.OpenAccount(context.Background(), "USD", decimal.NewFromInt(100))
	require.NoError(t, err)

	require.NoError(t, svc.Deposit(context.Background(), account.AccountID, decimal.NewFromInt(50)))
	require.NoError(t, svc.Withdraw(context.Background(), account.AccountID, decimal.NewFromInt(30)))

	got, err := svc.GetAccount(context.Background(), account.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "120", got.Balance.String())
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewLedgerService(repo)

	account, err := svc.OpenAccount(context.Background(), "USD", decimal.NewFromInt(10))
	require.NoError(t, err)

	err = svc.Withdraw(context.Background(), account.AccountID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	got, _ := svc.GetAccount(context.Background(), account.AccountID)
	assert.Equal(t, "10", got.Balance.String())
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	svc := NewLedgerService(newFakeLedgerRepo())

	assert.ErrorIs(t, svc.Deposit(context.Background(), "ACC1", decimal.Zero), ErrInvalidAmount)
	assert.ErrorIs(t, svc.Withdraw(context.Background(), "ACC1", decimal.NewFromInt(-5)), ErrInvalidAmount)
}

func TestDepositUnknownAccount(t *testing.T) {
	svc := NewLedgerService(newFakeLedgerRepo())

	err := svc.Deposit(context.Background(), "GHOST", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
