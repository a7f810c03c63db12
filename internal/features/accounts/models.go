// Package accounts управляет счетами пользователей банка.
// models.go описывает структуру записи в таблице users.
package accounts

import "time"

// SystemUserID — зарезервированный системный счёт.
// Он выступает контрагентом покупок призов и админских начислений.
const SystemUserID int64 = 0

// User представляет счёт пользователя в базе данных.
// Запись создаётся при первом обращении к боту (регистрация идемпотентна).
type User struct {
	ID        int64      `db:"id"`         // Автоинкрементный ID записи в БД
	UserID    int64      `db:"user_id"`    // Telegram user ID (уникальный)
	Username  string     `db:"username"`   // @username (может быть пустым, меняется)
	Balance   int64      `db:"balance"`    // Текущий баланс (>= 0 по CHECK в схеме)
	LastDaily *time.Time `db:"last_daily"` // Когда последний раз получен ежедневный бонус (nil — ни разу)
	IsAdmin   bool       `db:"is_admin"`   // Флаг администратора
	CreatedAt time.Time  `db:"created_at"` // Когда запись создана
}

// DisplayName возвращает отображаемое имя пользователя.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return "без ника"
}
