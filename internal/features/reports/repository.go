// Package reports — repository.go выполняет агрегатные запросы
// по таблицам users, prizes, user_items и transactions.
package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"adskiybank.ru/telegram-bot/internal/features/accounts"
)

// Repository считает статистику и рейтинги.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий отчётов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Stats возвращает сводную статистику банка одним запросом.
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE user_id != $1),
			(SELECT COALESCE(SUM(balance), 0) FROM users WHERE user_id != $1),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COUNT(*) FROM prizes),
			(SELECT COUNT(*) FROM user_items)
	`
	var s Stats
	err := r.db.QueryRow(ctx, query, accounts.SystemUserID).Scan(
		&s.TotalUsers, &s.TotalBalance, &s.TotalTransactions, &s.TotalPrizes, &s.TotalItemsOwned,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта статистики: %w", err)
	}
	return &s, nil
}

// NFTRanking возвращает владельцев NFT-призов, отсортированных по
// суммарной стоимости коллекции (самые богатые коллекции первыми).
func (r *Repository) NFTRanking(ctx context.Context, limit int) ([]*RankingRow, error) {
	query := `
		SELECT u.username,
		       COUNT(*) AS cnt,
		       STRING_AGG(p.name, ', ' ORDER BY p.name) AS items,
		       SUM(p.cost) AS total_cost
		FROM user_items ui
		JOIN prizes p ON p.id = ui.prize_id AND p.is_nft
		JOIN users u ON u.user_id = ui.user_id
		GROUP BY u.username
		ORDER BY total_cost DESC, cnt DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса рейтинга: %w", err)
	}
	defer rows.Close()

	var out []*RankingRow
	for rows.Next() {
		var row RankingRow
		if err := rows.Scan(&row.Username, &row.Count, &row.Items, &row.TotalCost); err != nil {
			return nil, fmt.Errorf("ошибка сканирования рейтинга: %w", err)
		}
		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}
