package daily

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"adskiybank.ru/telegram-bot/internal/common"
	"adskiybank.ru/telegram-bot/internal/config"
)

// fakeStore повторяет семантику репозитория: проверка кулдауна и начисление
// неразделимы, повторный запрос в окне кулдауна ничего не меняет.
type fakeStore struct {
	balance   int64
	lastDaily *time.Time
	exists    bool
	claims    int
}

func (f *fakeStore) Claim(_ context.Context, _ int64, cooldown time.Duration, amount int64) (*GrantResult, error) {
	if !f.exists {
		return nil, common.ErrUserNotFound
	}
	now := time.Now()
	if f.lastDaily != nil && now.Sub(*f.lastDaily) < cooldown {
		return &GrantResult{Granted: false, NextEligibleAt: f.lastDaily.Add(cooldown)}, nil
	}
	f.balance += amount
	f.lastDaily = &now
	f.claims++
	return &GrantResult{Granted: true, Amount: amount, NewBalance: f.balance}, nil
}

func testConfig() *config.Config {
	return &config.Config{DailyCooldownHours: 24, DailyMaxAmount: 100}
}

func TestClaimFirstTime(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{exists: true}
	svc := NewService(store, testConfig())

	result, err := svc.Claim(ctx, 1)
	require.NoError(t, err)
	require.True(t, result.Granted)
	require.GreaterOrEqual(t, result.Amount, int64(1))
	require.LessOrEqual(t, result.Amount, int64(100))
	require.Equal(t, store.balance, result.NewBalance)
}

func TestClaimCooldown(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{exists: true}
	svc := NewService(store, testConfig())

	first, err := svc.Claim(ctx, 1)
	require.NoError(t, err)
	require.True(t, first.Granted)
	balanceAfterFirst := store.balance

	// Два повторных запроса в окне кулдауна — оба отказы, баланс не меняется
	for i := 0; i < 2; i++ {
		result, err := svc.Claim(ctx, 1)
		require.NoError(t, err)
		require.False(t, result.Granted)
		require.Equal(t, balanceAfterFirst, store.balance)
		require.WithinDuration(t,
			store.lastDaily.Add(24*time.Hour), result.NextEligibleAt, time.Second)
	}
	require.Equal(t, 1, store.claims)
}

func TestClaimAfterCooldownElapsed(t *testing.T) {
	ctx := context.Background()
	past := time.Now().Add(-25 * time.Hour)
	store := &fakeStore{exists: true, lastDaily: &past, balance: 10}
	svc := NewService(store, testConfig())

	result, err := svc.Claim(ctx, 1)
	require.NoError(t, err)
	require.True(t, result.Granted)
	require.GreaterOrEqual(t, result.Amount, int64(1))
	require.LessOrEqual(t, result.Amount, int64(100))
	require.Equal(t, int64(10)+result.Amount, store.balance)
}

func TestClaimUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeStore{}, testConfig())

	_, err := svc.Claim(ctx, 404)
	require.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestClaimAmountRange(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.DailyMaxAmount = 1
	past := time.Now().Add(-48 * time.Hour)

	// При максимуме 1 сумма всегда ровно 1
	for i := 0; i < 10; i++ {
		last := past
		store := &fakeStore{exists: true, lastDaily: &last}
		svc := NewService(store, cfg)
		result, err := svc.Claim(ctx, 1)
		require.NoError(t, err)
		require.True(t, result.Granted)
		require.Equal(t, int64(1), result.Amount)
	}
}
