// Package daily реализует ежедневный бонус — периодическое начисление
// абаюнд с кулдауном. models.go описывает результат попытки получения.
package daily

import "time"

// GrantResult — результат попытки получить ежедневный бонус.
// У каждого пользователя два состояния: «можно получить» и «кулдаун»;
// обратно в «можно получить» переводит только ход времени.
type GrantResult struct {
	Granted        bool      // Выдан ли бонус
	Amount         int64     // Сколько начислено (если Granted)
	NewBalance     int64     // Баланс после начисления (если Granted)
	NextEligibleAt time.Time // Когда можно прийти снова (если не Granted)
}
