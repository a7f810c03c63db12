// Package shop управляет каталогом призов и их покупкой.
// models.go описывает структуры для таблиц prizes и user_items.
package shop

import "time"

// Prize представляет приз в каталоге.
// Название уникально и не меняется после создания; stock = -1 означает
// бесконечный запас, stock >= 0 — конечный счётчик, который только убывает.
type Prize struct {
	ID          int64     `db:"id"`          // ID приза
	Name        string    `db:"name"`        // Название (уникальное)
	Cost        int64     `db:"cost"`        // Цена (> 0 по CHECK в схеме)
	Description string    `db:"description"` // Описание для витрины
	Stock       int       `db:"stock"`       // Остаток (-1 — бесконечно)
	IsNFT       bool      `db:"is_nft"`      // NFT-приз (участвует в отдельном рейтинге)
	CreatedAt   time.Time `db:"created_at"`  // Когда добавлен
}

// OwnedItem — купленный пользователем приз (для раздела «Мои предметы»).
type OwnedItem struct {
	Name        string `db:"name"`
	Cost        int64  `db:"cost"`
	Description string `db:"description"`
}
