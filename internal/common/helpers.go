// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация валюты, форматирование чисел и времени.
package common

import (
	"fmt"
	"math"
	"time"
)

// PluralizeCoins возвращает правильную форму слова «абаюнда» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "абаюнда" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "абаюнды" (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → "абаюнд" (0, 5-20, 25-30, 100, ...)
//
// Примеры:
//
//	PluralizeCoins(1)  → "абаюнда"
//	PluralizeCoins(3)  → "абаюнды"
//	PluralizeCoins(5)  → "абаюнд"
//	PluralizeCoins(11) → "абаюнд"
//	PluralizeCoins(21) → "абаюнда"
func PluralizeCoins(n int64) string {
	// Берём абсолютное значение для отрицательных чисел
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	// Единственное число: 1, 21, 31, 101 (но НЕ 11, 111)
	if lastDigit == 1 && lastTwoDigits != 11 {
		return "абаюнда"
	}

	// Малое множественное: 2-4, 22-24, 32-34 (но НЕ 12-14)
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "абаюнды"
	}

	// Большое множественное: 0, 5-20, 25-30, 100, ...
	return "абаюнд"
}

// FormatBalance форматирует баланс в читабельную строку.
// Пример: FormatBalance(150) → "150 абаюнд"
func FormatBalance(balance int64) string {
	return fmt.Sprintf("%d %s", balance, PluralizeCoins(balance))
}

// FormatStock форматирует остаток приза: -1 означает бесконечный запас.
func FormatStock(stock int) string {
	if stock < 0 {
		return "∞"
	}
	return fmt.Sprintf("%d", stock)
}

// GetMoscowTime возвращает текущее время в часовом поясе Москвы (Europe/Moscow).
func GetMoscowTime() time.Time {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		// Если не удалось загрузить — используем UTC+3 вручную
		loc = time.FixedZone("MSK", 3*60*60)
	}
	return time.Now().In(loc)
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04" (день.месяц.год часы:минуты).
// Используется для отображения дат транзакций.
func FormatDateTime(t time.Time) string {
	loc, _ := time.LoadLocation("Europe/Moscow")
	return t.In(loc).Format("02.01.2006 15:04")
}

// FormatClock форматирует время в "15:04" по Москве.
// Используется для подсказки «следующее начисление в HH:MM».
func FormatClock(t time.Time) string {
	loc, _ := time.LoadLocation("Europe/Moscow")
	return t.In(loc).Format("15:04")
}
