// Package ledger — repository.go выполняет все операции с балансами и журналом.
// Все денежные операции выполняются в транзакциях БД для целостности данных.
//
// Списание всегда выражается одним условным UPDATE
// ("balance = balance - $ WHERE balance >= $"), а не чтением и записью по
// отдельности — так конкурентные писатели сериализуются на строке
// и потерянные обновления невозможны.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adskiybank.ru/telegram-bot/internal/common"
)

// Repository предоставляет методы для работы с балансами и журналом транзакций.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий леджера.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetBalance возвращает текущий баланс пользователя.
func (r *Repository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT balance FROM users WHERE user_id = $1`
	var balance int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.ErrUserNotFound
		}
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

// UserExists проверяет, есть ли счёт у пользователя.
func (r *Repository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки счёта: %w", err)
	}
	return exists, nil
}

// Transfer переводит абаюнды от одного пользователя к другому.
// Атомарная операция: либо оба баланса и запись журнала, либо ничего.
func (r *Repository) Transfer(ctx context.Context, fromUserID, toUserID, amount int64, note string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Блокируем строку отправителя: конкурентные списания с одного счёта
	// выстраиваются в очередь
	var senderBalance int64
	err = tx.QueryRow(ctx,
		`SELECT balance FROM users WHERE user_id = $1 FOR UPDATE`, fromUserID,
	).Scan(&senderBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("ошибка чтения счёта отправителя: %w", err)
	}

	// Списываем условным UPDATE — CHECK(balance >= 0) страхует схему,
	// условие в WHERE даёт типизированную ошибку без нарушения constraint
	ct, err := tx.Exec(ctx,
		`UPDATE users SET balance = balance - $2 WHERE user_id = $1 AND balance >= $2`,
		fromUserID, amount,
	)
	if err != nil {
		return fmt.Errorf("ошибка списания у отправителя: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return common.ErrInsufficientFunds
	}

	// Начисляем получателю
	ct, err = tx.Exec(ctx,
		`UPDATE users SET balance = balance + $2 WHERE user_id = $1`,
		toUserID, amount,
	)
	if err != nil {
		return fmt.Errorf("ошибка начисления получателю: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return common.ErrRecipientNotFound
	}

	// Записываем транзакцию в журнал
	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (from_user, to_user, amount, note) VALUES ($1, $2, $3, $4)`,
		fromUserID, toUserID, amount, note,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	return tx.Commit(ctx)
}

// Credit начисляет абаюнды на счёт от имени системного счёта (from_user = 0).
// Используется для админских начислений. Баланс и запись журнала — атомарно.
func (r *Repository) Credit(ctx context.Context, toUserID, amount int64, note string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx,
		`UPDATE users SET balance = balance + $2 WHERE user_id = $1`,
		toUserID, amount,
	)
	if err != nil {
		return fmt.Errorf("ошибка начисления: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (from_user, to_user, amount, note) VALUES (0, $1, $2, $3)`,
		toUserID, amount, note,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	return tx.Commit(ctx)
}

// GetTransactions возвращает последние N транзакций пользователя.
// Включает как входящие, так и исходящие операции.
func (r *Repository) GetTransactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	query := `
		SELECT id, from_user, to_user, amount, COALESCE(note, ''), created_at
		FROM transactions
		WHERE from_user = $1 OR to_user = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	defer rows.Close()

	var transactions []*Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(
			&t.ID, &t.FromUser, &t.ToUser, &t.Amount, &t.Note, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования транзакции: %w", err)
		}
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return transactions, nil
}
