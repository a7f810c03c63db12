// Package daily — repository.go выполняет выдачу бонуса одной транзакцией БД.
// Проверка кулдауна, начисление, отметка времени и запись в журнал атомарны:
// два конкурентных запроса одного пользователя сериализуются на строке users.
package daily

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adskiybank.ru/telegram-bot/internal/common"
)

// Repository выдаёт ежедневные бонусы.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий ежедневного бонуса.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Claim пытается выдать бонус amount с кулдауном cooldown.
// Если кулдаун ещё не истёк — возвращает Granted=false и время следующей
// попытки, ничего не меняя. Сумму выбирает вызывающий сервис.
func (r *Repository) Claim(ctx context.Context, userID int64, cooldown time.Duration, amount int64) (*GrantResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Блокируем строку пользователя: проверка кулдауна и начисление
	// должны быть неразделимы
	var lastDaily *time.Time
	err = tx.QueryRow(ctx,
		`SELECT last_daily FROM users WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&lastDaily)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения кулдауна: %w", err)
	}

	now := time.Now()
	if lastDaily != nil && now.Sub(*lastDaily) < cooldown {
		// Кулдаун ещё идёт — без мутаций
		return &GrantResult{
			Granted:        false,
			NextEligibleAt: lastDaily.Add(cooldown),
		}, nil
	}

	var newBalance int64
	err = tx.QueryRow(ctx,
		`UPDATE users SET balance = balance + $2, last_daily = $3 WHERE user_id = $1 RETURNING balance`,
		userID, amount, now,
	).Scan(&newBalance)
	if err != nil {
		return nil, fmt.Errorf("ошибка начисления бонуса: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (from_user, to_user, amount, note) VALUES (0, $1, $2, 'Ежедневный бонус')`,
		userID, amount,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return &GrantResult{
		Granted:    true,
		Amount:     amount,
		NewBalance: newBalance,
	}, nil
}
