// Package ledger управляет движением абаюнд: переводы, начисления,
// журнал транзакций. models.go описывает структуру записи журнала.
package ledger

import "time"

// Transaction представляет одну операцию с абаюндами.
// Журнал append-only: каждая мутация баланса (кроме прямых правок в БД)
// порождает ровно одну запись. from_user = 0 — системный счёт
// (ежедневный бонус, админское начисление); to_user = 0 — покупка приза.
type Transaction struct {
	ID        int64     `db:"id"`         // ID транзакции
	FromUser  int64     `db:"from_user"`  // Отправитель (0 — система)
	ToUser    int64     `db:"to_user"`    // Получатель (0 — система)
	Amount    int64     `db:"amount"`     // Сумма (всегда положительная, CHECK в схеме)
	Note      string    `db:"note"`       // Примечание для отображения
	CreatedAt time.Time `db:"created_at"` // Время транзакции
}
