// Интеграционные тесты против живого PostgreSQL.
// Запуск: DATABASE_URL=postgres://... go test ./internal/integration/
// Без DATABASE_URL тесты пропускаются.
package integration

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"adskiybank.ru/telegram-bot/internal/app"
	"adskiybank.ru/telegram-bot/internal/common"
	"adskiybank.ru/telegram-bot/internal/features/accounts"
	"adskiybank.ru/telegram-bot/internal/features/ledger"
	"adskiybank.ru/telegram-bot/internal/features/shop"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL не задан, пропускаем интеграционные тесты")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("подключение к БД: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := app.RunMigrations(ctx, pool); err != nil {
		t.Fatalf("миграции: %v", err)
	}
	return pool
}

// newTestUser создаёт пользователя со стартовым балансом и возвращает user_id.
func newTestUser(t *testing.T, pool *pgxpool.Pool, balance int64) int64 {
	t.Helper()

	userID := rand.Int63n(1_000_000_000) + 1_000_000
	username := fmt.Sprintf("it_user_%d", userID)

	repo := accounts.NewRepository(pool)
	if err := repo.Upsert(context.Background(), userID, username, false); err != nil {
		t.Fatalf("создание пользователя: %v", err)
	}
	if balance > 0 {
		_, err := pool.Exec(context.Background(),
			`UPDATE users SET balance = $2 WHERE user_id = $1`, userID, balance)
		if err != nil {
			t.Fatalf("установка баланса: %v", err)
		}
	}
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM users WHERE user_id = $1`, userID)
	})
	return userID
}

func newTestPrize(t *testing.T, pool *pgxpool.Pool, cost int64, stock int) int64 {
	t.Helper()

	repo := shop.NewRepository(pool)
	p := &shop.Prize{
		Name:  fmt.Sprintf("it_prize_%d", rand.Int63()),
		Cost:  cost,
		Stock: stock,
		IsNFT: true,
	}
	if err := repo.CreatePrize(context.Background(), p); err != nil {
		t.Fatalf("создание приза: %v", err)
	}
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM prizes WHERE id = $1`, p.ID)
	})
	return p.ID
}

func getBalance(t *testing.T, pool *pgxpool.Pool, userID int64) int64 {
	t.Helper()

	var balance int64
	err := pool.QueryRow(context.Background(),
		`SELECT balance FROM users WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		t.Fatalf("чтение баланса: %v", err)
	}
	return balance
}

func TestTransferAtomicity(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := ledger.NewRepository(pool)

	from := newTestUser(t, pool, 50)
	to := newTestUser(t, pool, 0)

	if err := repo.Transfer(ctx, from, to, 30, "интеграционный перевод"); err != nil {
		t.Fatalf("перевод: %v", err)
	}
	if got := getBalance(t, pool, from); got != 20 {
		t.Fatalf("баланс отправителя: хотели 20, получили %d", got)
	}
	if got := getBalance(t, pool, to); got != 30 {
		t.Fatalf("баланс получателя: хотели 30, получили %d", got)
	}

	// Перевод больше остатка не меняет ни один счёт
	err := repo.Transfer(ctx, from, to, 25, "должен упасть")
	if !errors.Is(err, common.ErrInsufficientFunds) {
		t.Fatalf("хотели ErrInsufficientFunds, получили %v", err)
	}
	if got := getBalance(t, pool, from); got != 20 {
		t.Fatalf("баланс отправителя изменился после отказа: %d", got)
	}
	if got := getBalance(t, pool, to); got != 30 {
		t.Fatalf("баланс получателя изменился после отказа: %d", got)
	}
}

func TestConcurrentTransfersConserveTotal(t *testing.T) {
	pool := testPool(t)
	repo := ledger.NewRepository(pool)

	a := newTestUser(t, pool, 100)
	b := newTestUser(t, pool, 100)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			repo.Transfer(context.Background(), a, b, 3, "туда")
		}()
		go func() {
			defer wg.Done()
			repo.Transfer(context.Background(), b, a, 2, "обратно")
		}()
	}
	wg.Wait()

	total := getBalance(t, pool, a) + getBalance(t, pool, b)
	if total != 200 {
		t.Fatalf("сумма балансов не сохранилась: %d", total)
	}
}

// Конкурентная покупка одного приза одним пользователем:
// ровно одна покупка проходит, списание одно.
func TestConcurrentPurchaseSamePair(t *testing.T) {
	pool := testPool(t)
	repo := shop.NewRepository(pool)

	userID := newTestUser(t, pool, 1000)
	prizeID := newTestPrize(t, pool, 100, -1)

	const n = 8
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Purchase(context.Background(), userID, prizeID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, alreadyOwned int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrAlreadyOwned):
			alreadyOwned++
		default:
			t.Fatalf("неожиданная ошибка: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("успешных покупок %d, хотели 1", ok)
	}
	if alreadyOwned != n-1 {
		t.Fatalf("отказов AlreadyOwned %d, хотели %d", alreadyOwned, n-1)
	}
	if got := getBalance(t, pool, userID); got != 900 {
		t.Fatalf("списание прошло не ровно один раз: баланс %d", got)
	}
}

// Двое покупают последний экземпляр: один успевает, второй получает OutOfStock.
func TestStockRace(t *testing.T) {
	pool := testPool(t)
	repo := shop.NewRepository(pool)

	u1 := newTestUser(t, pool, 100)
	u2 := newTestUser(t, pool, 100)
	prizeID := newTestPrize(t, pool, 50, 1)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, uid := range []int64{u1, u2} {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, err := repo.Purchase(context.Background(), uid, prizeID)
			errs <- err
		}(uid)
	}
	wg.Wait()
	close(errs)

	var ok, outOfStock int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrOutOfStock):
			outOfStock++
		default:
			t.Fatalf("неожиданная ошибка: %v", err)
		}
	}
	if ok != 1 || outOfStock != 1 {
		t.Fatalf("гонка за остаток: успехов %d, отказов %d", ok, outOfStock)
	}

	var stock int
	if err := pool.QueryRow(context.Background(),
		`SELECT stock FROM prizes WHERE id = $1`, prizeID).Scan(&stock); err != nil {
		t.Fatalf("чтение остатка: %v", err)
	}
	if stock != 0 {
		t.Fatalf("остаток после гонки: %d", stock)
	}
}
