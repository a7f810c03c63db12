// Package bot — keyboards.go описывает reply-клавиатуры банка.
// Пользователь работает кнопками, команды остаются для олдов и админов.
package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Тексты кнопок главного меню. По ним же маршрутизируются сообщения,
// поэтому менять текст кнопки = менять маршрут.
const (
	btnBalance  = "💰 Баланс"
	btnDaily    = "🎁 Получить Абаюнду"
	btnTransfer = "💸 Перевести"
	btnShop     = "🛍 Магазин"
	btnMyItems  = "📦 Мои предметы"
	btnHistory  = "🧾 Транзакции"
	btnRanking  = "🏆 NFT Рейтинг"

	// Админские кнопки
	btnStats    = "📊 Статистика"
	btnAddPrize = "➕ Добавить приз"
	btnAddMoney = "💵 Начислить"
)

// mainMenuKeyboard собирает главное меню; админам добавляется нижний ряд.
func mainMenuKeyboard(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBalance),
			tgbotapi.NewKeyboardButton(btnDaily),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnTransfer),
			tgbotapi.NewKeyboardButton(btnHistory),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnShop),
			tgbotapi.NewKeyboardButton(btnMyItems),
			tgbotapi.NewKeyboardButton(btnRanking),
		),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnStats),
			tgbotapi.NewKeyboardButton(btnAddPrize),
			tgbotapi.NewKeyboardButton(btnAddMoney),
		))
	}

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}
