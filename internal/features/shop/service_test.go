package shop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"adskiybank.ru/telegram-bot/internal/common"
)

// fakeStore — in-memory реализация Store с семантикой репозитория:
// покупка либо проходит целиком, либо не меняет ничего; порядок отказов
// тот же (нет приза → уже куплен → нет остатка → нет средств).
type fakeStore struct {
	prizes   map[int64]*Prize
	balances map[int64]int64
	owned    map[[2]int64]bool
	nextID   int64
	debits   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		prizes:   make(map[int64]*Prize),
		balances: make(map[int64]int64),
		owned:    make(map[[2]int64]bool),
		nextID:   1,
	}
}

func (f *fakeStore) CreatePrize(_ context.Context, p *Prize) error {
	for _, existing := range f.prizes {
		if existing.Name == p.Name {
			return common.ErrDuplicatePrizeName
		}
	}
	p.ID = f.nextID
	f.nextID++
	cp := *p
	f.prizes[p.ID] = &cp
	return nil
}

func (f *fakeStore) ListPrizes(_ context.Context) ([]*Prize, error) {
	var out []*Prize
	for id := int64(1); id < f.nextID; id++ {
		if p, ok := f.prizes[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetPrize(_ context.Context, prizeID int64) (*Prize, error) {
	p, ok := f.prizes[prizeID]
	if !ok {
		return nil, common.ErrPrizeNotFound
	}
	return p, nil
}

func (f *fakeStore) OwnedPrizeIDs(_ context.Context, userID int64) (map[int64]struct{}, error) {
	out := make(map[int64]struct{})
	for key := range f.owned {
		if key[0] == userID {
			out[key[1]] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeStore) UserItems(_ context.Context, userID int64) ([]*OwnedItem, error) {
	var out []*OwnedItem
	for key := range f.owned {
		if key[0] == userID {
			p := f.prizes[key[1]]
			out = append(out, &OwnedItem{Name: p.Name, Cost: p.Cost, Description: p.Description})
		}
	}
	return out, nil
}

func (f *fakeStore) Purchase(_ context.Context, userID, prizeID int64) (*Prize, error) {
	p, ok := f.prizes[prizeID]
	if !ok {
		return nil, common.ErrPrizeNotFound
	}
	if f.owned[[2]int64{userID, prizeID}] {
		return nil, common.ErrAlreadyOwned
	}
	if p.Stock == 0 {
		return nil, common.ErrOutOfStock
	}
	if f.balances[userID] < p.Cost {
		return nil, common.ErrInsufficientFunds
	}
	f.balances[userID] -= p.Cost
	f.debits++
	f.owned[[2]int64{userID, prizeID}] = true
	if p.Stock > 0 {
		p.Stock--
	}
	cp := *p
	return &cp, nil
}

func TestAddPrize(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore())

	p, err := svc.AddPrize(ctx, "Золотая карта", 500, "Дает бонус +10%", 10, false)
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	// Дубликат названия отклоняется
	_, err = svc.AddPrize(ctx, "Золотая карта", 100, "другая", -1, true)
	require.ErrorIs(t, err, common.ErrDuplicatePrizeName)

	// Невалидные аргументы
	_, err = svc.AddPrize(ctx, "", 100, "", -1, false)
	require.Error(t, err)
	_, err = svc.AddPrize(ctx, "Дешёвка", 0, "", -1, false)
	require.Error(t, err)
	_, err = svc.AddPrize(ctx, "Кривой остаток", 10, "", -2, false)
	require.Error(t, err)
}

func TestPurchaseHappyPath(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	p, err := svc.AddPrize(ctx, "NFT Люцифер", 100, "", 5, true)
	require.NoError(t, err)
	store.balances[1] = 150

	bought, err := svc.Purchase(ctx, 1, p.ID)
	require.NoError(t, err)
	require.Equal(t, "NFT Люцифер", bought.Name)
	require.Equal(t, int64(50), store.balances[1])
	require.Equal(t, 4, bought.Stock)
}

func TestPurchaseTwiceSameUser(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	p, err := svc.AddPrize(ctx, "Приз", 30, "", -1, false)
	require.NoError(t, err)
	store.balances[1] = 100

	_, err = svc.Purchase(ctx, 1, p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(70), store.balances[1])

	// Вторая покупка — AlreadyOwned, ровно одно списание
	_, err = svc.Purchase(ctx, 1, p.ID)
	require.ErrorIs(t, err, common.ErrAlreadyOwned)
	require.Equal(t, int64(70), store.balances[1])
	require.Equal(t, 1, store.debits)
}

func TestPurchaseStockExhaustion(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	p, err := svc.AddPrize(ctx, "Редкий приз", 10, "", 1, false)
	require.NoError(t, err)
	store.balances[1] = 100
	store.balances[2] = 100

	// Первый покупатель успевает, остаток становится 0
	bought, err := svc.Purchase(ctx, 1, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, bought.Stock)

	// Второй пользователь получает OutOfStock
	_, err = svc.Purchase(ctx, 2, p.ID)
	require.ErrorIs(t, err, common.ErrOutOfStock)
	require.Equal(t, int64(100), store.balances[2])
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	p, err := svc.AddPrize(ctx, "Дорогой приз", 1000, "", -1, false)
	require.NoError(t, err)
	store.balances[1] = 10

	_, err = svc.Purchase(ctx, 1, p.ID)
	require.ErrorIs(t, err, common.ErrInsufficientFunds)
	require.Equal(t, int64(10), store.balances[1])
	require.Empty(t, store.owned)
}

func TestPurchaseUnknownPrize(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore())

	_, err := svc.Purchase(ctx, 1, 404)
	require.ErrorIs(t, err, common.ErrPrizeNotFound)
}

func TestUnlimitedStockNeverExhausts(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	p, err := svc.AddPrize(ctx, "Бесконечный приз", 5, "", -1, false)
	require.NoError(t, err)

	for userID := int64(1); userID <= 10; userID++ {
		store.balances[userID] = 5
		bought, err := svc.Purchase(ctx, userID, p.ID)
		require.NoError(t, err)
		require.Equal(t, -1, bought.Stock)
	}
}
