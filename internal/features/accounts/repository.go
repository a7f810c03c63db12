// Package accounts — repository.go отвечает за все операции с таблицей users в БД.
// Каждая функция выполняет один SQL-запрос и возвращает результат или ошибку.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adskiybank.ru/telegram-bot/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert регистрирует пользователя. Регистрация идемпотентна:
// на конфликте по user_id обновляется только username (имя меняется в Telegram),
// баланс/админка/кулдаун не трогаются.
func (r *Repository) Upsert(ctx context.Context, userID int64, username string, isAdmin bool) error {
	query := `
		INSERT INTO users (user_id, username, balance, is_admin)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username
	`
	if _, err := r.db.Exec(ctx, query, userID, username, isAdmin); err != nil {
		return fmt.Errorf("ошибка регистрации пользователя: %w", err)
	}
	return nil
}

// GetByUserID возвращает счёт по Telegram user ID.
// Если не найден — common.ErrUserNotFound.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*User, error) {
	query := `
		SELECT id, user_id, COALESCE(username, ''), balance, last_daily, is_admin, created_at
		FROM users
		WHERE user_id = $1
	`
	var u User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&u.ID, &u.UserID, &u.Username, &u.Balance, &u.LastDaily, &u.IsAdmin, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (user_id=%d): %w", userID, err)
	}
	return &u, nil
}

// GetByUsername возвращает счёт по @username (без @).
// Ник в Telegram опционален и нестабилен, поэтому это только удобство
// презентационного слоя — операции ядра работают по user_id.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, user_id, COALESCE(username, ''), balance, last_daily, is_admin, created_at
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`
	var u User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.UserID, &u.Username, &u.Balance, &u.LastDaily, &u.IsAdmin, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (username=%s): %w", username, err)
	}
	return &u, nil
}

// Exists проверяет, есть ли пользователь в базе.
func (r *Repository) Exists(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки существования: %w", err)
	}
	return exists, nil
}

// ListAll возвращает все счета (для CSV-экспорта в админ-панели).
func (r *Repository) ListAll(ctx context.Context) ([]*User, error) {
	query := `
		SELECT id, user_id, COALESCE(username, ''), balance, last_daily, is_admin, created_at
		FROM users
		ORDER BY user_id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса пользователей: %w", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.UserID, &u.Username, &u.Balance, &u.LastDaily, &u.IsAdmin, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

// DeleteByUsername удаляет счёт по нику. Побочная операция админ-панели,
// инварианты леджера её не покрывают. Системный счёт не удаляется.
func (r *Repository) DeleteByUsername(ctx context.Context, username string) error {
	query := `DELETE FROM users WHERE LOWER(username) = LOWER($1) AND user_id != $2`
	if _, err := r.db.Exec(ctx, query, username, SystemUserID); err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}
	return nil
}

// ResetAll удаляет все счета, кроме системного. Используется только админ-панелью.
func (r *Repository) ResetAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM users WHERE user_id != $1`, SystemUserID); err != nil {
		return fmt.Errorf("ошибка сброса пользователей: %w", err)
	}
	return nil
}
