package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"adskiybank.ru/telegram-bot/internal/common"
	"adskiybank.ru/telegram-bot/internal/config"
)

// fakeStore — in-memory реализация Store для тестов.
type fakeStore struct {
	users map[int64]*User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[int64]*User)}
}

func (f *fakeStore) Upsert(_ context.Context, userID int64, username string, isAdmin bool) error {
	if u, ok := f.users[userID]; ok {
		u.Username = username
		return nil
	}
	f.users[userID] = &User{UserID: userID, Username: username, IsAdmin: isAdmin}
	return nil
}

func (f *fakeStore) GetByUserID(_ context.Context, userID int64) (*User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (f *fakeStore) Exists(_ context.Context, userID int64) (bool, error) {
	_, ok := f.users[userID]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AdminIDs:           []int64{42},
		MinTransfer:        1,
		DailyCooldownHours: 24,
		DailyMaxAmount:     100,
	}
}

func TestResolveCreatesOnce(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store, testConfig())

	u, err := svc.Resolve(ctx, 100, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(0), u.Balance)
	require.False(t, u.IsAdmin)

	// Повторная регистрация — no-op по балансу, обновляется только ник
	u.Balance = 50
	u2, err := svc.Resolve(ctx, 100, "alice_new")
	require.NoError(t, err)
	require.Equal(t, int64(50), u2.Balance)
	require.Equal(t, "alice_new", u2.Username)
}

func TestResolveSeedsAdminFromAllowList(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore(), testConfig())

	u, err := svc.Resolve(ctx, 42, "boss")
	require.NoError(t, err)
	require.True(t, u.IsAdmin)
}

func TestIsAdmin(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store, testConfig())

	// allow-list работает даже без записи в БД
	require.True(t, svc.IsAdmin(ctx, 42))

	// обычный пользователь — нет
	_, err := svc.Resolve(ctx, 7, "user")
	require.NoError(t, err)
	require.False(t, svc.IsAdmin(ctx, 7))

	// флаг в БД тоже даёт права
	store.users[7].IsAdmin = true
	require.True(t, svc.IsAdmin(ctx, 7))
}

func TestRequireAdmin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore(), testConfig())

	require.NoError(t, svc.RequireAdmin(ctx, 42))
	require.ErrorIs(t, svc.RequireAdmin(ctx, 7), common.ErrNotAdmin)
}
