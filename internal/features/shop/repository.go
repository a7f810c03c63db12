// Package shop — repository.go выполняет операции с таблицами prizes и user_items.
// Покупка — одна транзакция БД: списание, запись владения, декремент остатка
// и журнал либо происходят целиком, либо не происходят вовсе.
package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"adskiybank.ru/telegram-bot/internal/common"
)

// Repository работает с каталогом призов и владением.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий магазина.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreatePrize добавляет приз в каталог.
// Дубликат названия ловится уникальным индексом, а не предварительным SELECT.
func (r *Repository) CreatePrize(ctx context.Context, p *Prize) error {
	query := `
		INSERT INTO prizes (name, cost, description, stock, is_nft)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, p.Name, p.Cost, p.Description, p.Stock, p.IsNFT).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrDuplicatePrizeName
		}
		return fmt.Errorf("ошибка добавления приза: %w", err)
	}
	return nil
}

// ListPrizes возвращает весь каталог.
func (r *Repository) ListPrizes(ctx context.Context) ([]*Prize, error) {
	query := `
		SELECT id, name, cost, COALESCE(description, ''), stock, is_nft, created_at
		FROM prizes
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса призов: %w", err)
	}
	defer rows.Close()

	var out []*Prize
	for rows.Next() {
		var p Prize
		if err := rows.Scan(&p.ID, &p.Name, &p.Cost, &p.Description, &p.Stock, &p.IsNFT, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования приза: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

// GetPrize возвращает приз по ID.
func (r *Repository) GetPrize(ctx context.Context, prizeID int64) (*Prize, error) {
	query := `
		SELECT id, name, cost, COALESCE(description, ''), stock, is_nft, created_at
		FROM prizes WHERE id = $1
	`
	var p Prize
	err := r.db.QueryRow(ctx, query, prizeID).Scan(
		&p.ID, &p.Name, &p.Cost, &p.Description, &p.Stock, &p.IsNFT, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrPrizeNotFound
		}
		return nil, fmt.Errorf("ошибка чтения приза: %w", err)
	}
	return &p, nil
}

// OwnedPrizeIDs возвращает множество ID призов, купленных пользователем.
func (r *Repository) OwnedPrizeIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	rows, err := r.db.Query(ctx,
		`SELECT prize_id FROM user_items WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса владения: %w", err)
	}
	defer rows.Close()

	owned := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		owned[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return owned, nil
}

// UserItems возвращает купленные призы пользователя (для «Мои предметы»).
func (r *Repository) UserItems(ctx context.Context, userID int64) ([]*OwnedItem, error) {
	query := `
		SELECT p.name, p.cost, COALESCE(p.description, '')
		FROM user_items ui
		JOIN prizes p ON p.id = ui.prize_id
		WHERE ui.user_id = $1
		ORDER BY p.id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса предметов: %w", err)
	}
	defer rows.Close()

	var out []*OwnedItem
	for rows.Next() {
		var item OwnedItem
		if err := rows.Scan(&item.Name, &item.Cost, &item.Description); err != nil {
			return nil, fmt.Errorf("ошибка сканирования предмета: %w", err)
		}
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

// Purchase выполняет покупку приза одной транзакцией БД.
//
// Порядок проверок: приз существует → ещё не куплен → есть остаток →
// хватает средств. Строка приза блокируется FOR UPDATE, поэтому
// конкурентные покупки одного приза сериализуются; повторная покупка
// той же парой (user, prize) отсекается первичным ключом user_items
// (INSERT ... ON CONFLICT DO NOTHING — атомарный шаг уникальности,
// а не «проверил и вставил» в разных транзакциях).
func (r *Repository) Purchase(ctx context.Context, userID, prizeID int64) (*Prize, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var p Prize
	err = tx.QueryRow(ctx, `
		SELECT id, name, cost, COALESCE(description, ''), stock, is_nft, created_at
		FROM prizes WHERE id = $1 FOR UPDATE
	`, prizeID).Scan(&p.ID, &p.Name, &p.Cost, &p.Description, &p.Stock, &p.IsNFT, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrPrizeNotFound
		}
		return nil, fmt.Errorf("ошибка чтения приза: %w", err)
	}

	// Повторная покупка отклоняется до любых мутаций
	var owned bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_items WHERE user_id = $1 AND prize_id = $2)`,
		userID, prizeID,
	).Scan(&owned)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки владения: %w", err)
	}
	if owned {
		return nil, common.ErrAlreadyOwned
	}

	if p.Stock == 0 {
		return nil, common.ErrOutOfStock
	}

	// Списываем условным UPDATE — недостаток средств не трогает ни одной строки
	ct, err := tx.Exec(ctx,
		`UPDATE users SET balance = balance - $2 WHERE user_id = $1 AND balance >= $2`,
		userID, p.Cost,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка списания: %w", err)
	}
	if ct.RowsAffected() == 0 {
		exists := false
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, userID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("ошибка проверки счёта: %w", err)
		}
		if !exists {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrInsufficientFunds
	}

	// Атомарный шаг уникальности владения
	ct, err = tx.Exec(ctx,
		`INSERT INTO user_items (user_id, prize_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, prizeID,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи владения: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, common.ErrAlreadyOwned
	}

	// Конечный остаток уменьшаем на 1; ниже нуля не уходит по CHECK и условию
	if p.Stock > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE prizes SET stock = stock - 1 WHERE id = $1 AND stock > 0`, prizeID,
		); err != nil {
			return nil, fmt.Errorf("ошибка декремента остатка: %w", err)
		}
		p.Stock--
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (from_user, to_user, amount, note) VALUES ($1, 0, $2, $3)`,
		userID, p.Cost, "Покупка приза: "+p.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return &p, nil
}
