package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"adskiybank.ru/telegram-bot/internal/common"
	"adskiybank.ru/telegram-bot/internal/config"
)

// fakeStore — in-memory реализация Store с той же семантикой атомарности:
// списание либо проходит целиком, либо не меняет ничего.
type fakeStore struct {
	balances map[int64]int64
	journal  []*Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{balances: make(map[int64]int64)}
}

func (f *fakeStore) GetBalance(_ context.Context, userID int64) (int64, error) {
	b, ok := f.balances[userID]
	if !ok {
		return 0, common.ErrUserNotFound
	}
	return b, nil
}

func (f *fakeStore) UserExists(_ context.Context, userID int64) (bool, error) {
	_, ok := f.balances[userID]
	return ok, nil
}

func (f *fakeStore) Transfer(_ context.Context, from, to, amount int64, note string) error {
	sender, ok := f.balances[from]
	if !ok {
		return common.ErrUserNotFound
	}
	if sender < amount {
		return common.ErrInsufficientFunds
	}
	if _, ok := f.balances[to]; !ok {
		return common.ErrRecipientNotFound
	}
	f.balances[from] -= amount
	f.balances[to] += amount
	f.journal = append(f.journal, &Transaction{
		FromUser: from, ToUser: to, Amount: amount, Note: note, CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeStore) Credit(_ context.Context, to, amount int64, note string) error {
	if _, ok := f.balances[to]; !ok {
		return common.ErrUserNotFound
	}
	f.balances[to] += amount
	f.journal = append(f.journal, &Transaction{
		ToUser: to, Amount: amount, Note: note, CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeStore) GetTransactions(_ context.Context, userID int64, limit int) ([]*Transaction, error) {
	var out []*Transaction
	for i := len(f.journal) - 1; i >= 0 && len(out) < limit; i-- {
		t := f.journal[i]
		if t.FromUser == userID || t.ToUser == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{MinTransfer: 1}
}

func TestTransferSuccess(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.balances[1] = 50
	store.balances[2] = 0
	svc := NewService(store, testConfig())

	require.NoError(t, svc.Transfer(ctx, 1, 2, 30))
	require.Equal(t, int64(20), store.balances[1])
	require.Equal(t, int64(30), store.balances[2])
	require.Len(t, store.journal, 1)
	require.Equal(t, int64(30), store.journal[0].Amount)

	// Повторный перевод больше остатка — отказ без мутаций
	err := svc.Transfer(ctx, 1, 2, 25)
	require.ErrorIs(t, err, common.ErrInsufficientFunds)
	require.Equal(t, int64(20), store.balances[1])
	require.Equal(t, int64(30), store.balances[2])
	require.Len(t, store.journal, 1)
}

func TestTransferConservesTotal(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.balances[1] = 100
	store.balances[2] = 40
	svc := NewService(store, testConfig())

	before := store.balances[1] + store.balances[2]
	require.NoError(t, svc.Transfer(ctx, 1, 2, 33))
	require.Equal(t, before, store.balances[1]+store.balances[2])
}

func TestTransferPreconditionOrder(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.balances[1] = 0
	svc := NewService(store, testConfig())

	// Перевод себе отклоняется первым, независимо от баланса и суммы
	require.ErrorIs(t, svc.Transfer(ctx, 1, 1, -5), common.ErrSelfTransfer)

	// Слишком маленькая сумма — раньше проверки получателя
	require.ErrorIs(t, svc.Transfer(ctx, 1, 999, 0), common.ErrAmountTooLow)

	// Несуществующий получатель — раньше проверки средств
	require.ErrorIs(t, svc.Transfer(ctx, 1, 999, 10), common.ErrRecipientNotFound)
}

func TestTransferMinAmount(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.balances[1] = 100
	store.balances[2] = 0
	cfg := testConfig()
	cfg.MinTransfer = 10
	svc := NewService(store, cfg)

	require.ErrorIs(t, svc.Transfer(ctx, 1, 2, 9), common.ErrAmountTooLow)
	require.NoError(t, svc.Transfer(ctx, 1, 2, 10))
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.balances[5] = 10
	svc := NewService(store, testConfig())

	require.NoError(t, svc.Deposit(ctx, 5, 500))
	require.Equal(t, int64(510), store.balances[5])
	require.Len(t, store.journal, 1)
	require.Equal(t, int64(0), store.journal[0].FromUser) // системный счёт

	require.ErrorIs(t, svc.Deposit(ctx, 5, 0), common.ErrAmountTooLow)
	require.ErrorIs(t, svc.Deposit(ctx, 404, 5), common.ErrUserNotFound)
}

func TestTransactionHistory(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.balances[1] = 100
	store.balances[2] = 0
	svc := NewService(store, testConfig())

	history, err := svc.GetTransactionHistory(ctx, 1)
	require.NoError(t, err)
	require.Contains(t, history, "нет транзакций")

	require.NoError(t, svc.Transfer(ctx, 1, 2, 30))

	history, err = svc.GetTransactionHistory(ctx, 1)
	require.NoError(t, err)
	require.Contains(t, history, "-30")

	history, err = svc.GetTransactionHistory(ctx, 2)
	require.NoError(t, err)
	require.Contains(t, history, "+30")
}
