// Package reports строит сводную статистику банка и NFT-рейтинг.
// models.go описывает агрегатные структуры отчётов.
package reports

// Stats — сводная статистика по всему банку.
// Системный счёт 0 в подсчёты не входит.
type Stats struct {
	TotalUsers        int64 // Сколько счетов заведено
	TotalBalance      int64 // Сумма всех балансов
	TotalTransactions int64 // Сколько записей в журнале
	TotalPrizes       int64 // Сколько призов в каталоге
	TotalItemsOwned   int64 // Сколько призов куплено всего
}

// RankingRow — строка NFT-рейтинга: пользователь и его NFT-коллекция.
type RankingRow struct {
	Username  string // Ник владельца
	Count     int64  // Сколько NFT-призов куплено
	Items     string // Названия через запятую
	TotalCost int64  // Суммарная стоимость коллекции
}
