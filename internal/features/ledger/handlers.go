// Package ledger — handlers.go обрабатывает команды:
// баланс, перевод, история транзакций и админское начисление.
// Обработчики принимают уже разобранные аргументы и отвечают текстом;
// проверку прав для админских команд делает вызывающий слой (bot).
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/common"
	"adskiybank.ru/telegram-bot/internal/features/accounts"
)

// Handler обрабатывает команды движения абаюнд.
type Handler struct {
	service        *Service          // Сервис леджера
	accountService *accounts.Service // Сервис счетов (для поиска получателя по нику)
	bot            *tgbotapi.BotAPI  // API Telegram для отправки ответов
}

// NewHandler создаёт новый обработчик команд леджера.
func NewHandler(service *Service, accountService *accounts.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		service:        service,
		accountService: accountService,
		bot:            bot,
	}
}

// HandleBalance показывает баланс пользователя.
//
// Формат ответа:
//
//	💎 Ваш баланс: 150 абаюнд
func (h *Handler) HandleBalance(ctx context.Context, chatID int64, userID int64) {
	balance, err := h.service.GetBalance(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения баланса")
		h.sendMessage(chatID, "❌ Ошибка получения баланса")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("💎 Ваш баланс: %s", common.FormatBalance(balance)))
}

// HandleTransfer выполняет перевод по введённой строке "@username сумма".
//
// Ответ при успехе:
//
//	✅ Успешно переведено 100 абаюнд пользователю @username
func (h *Handler) HandleTransfer(ctx context.Context, chatID int64, fromUserID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "❌ Неверный формат! Используйте: @username сумма")
		return
	}

	username := strings.TrimPrefix(args[0], "@")
	if username == "" {
		h.sendMessage(chatID, "❌ Укажите @username получателя")
		return
	}

	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Сумма должна быть числом")
		return
	}

	// Находим получателя по нику — ядро работает только по user_id
	recipient, err := h.accountService.GetByUsername(ctx, username)
	if err != nil {
		h.sendMessage(chatID, "❌ Пользователь не найден!")
		return
	}

	if err := h.service.Transfer(ctx, fromUserID, recipient.UserID, amount); err != nil {
		switch {
		case errors.Is(err, common.ErrSelfTransfer):
			h.sendMessage(chatID, "❌ Нельзя переводить себе!")
		case errors.Is(err, common.ErrAmountTooLow):
			h.sendMessage(chatID, "❌ Сумма перевода слишком мала!")
		case errors.Is(err, common.ErrRecipientNotFound):
			h.sendMessage(chatID, "❌ Пользователь не найден!")
		case errors.Is(err, common.ErrInsufficientFunds):
			h.sendMessage(chatID, "❌ Недостаточно средств на балансе!")
		default:
			log.WithError(err).Error("Ошибка перевода")
			h.sendMessage(chatID, "❌ Произошла ошибка при переводе")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Успешно переведено %s пользователю %s",
		common.FormatBalance(amount), recipient.DisplayName()))

	// Уведомляем получателя в личку (не критично, если не дойдёт)
	notify := tgbotapi.NewMessage(recipient.UserID,
		fmt.Sprintf("💸 Вам перевели %s", common.FormatBalance(amount)))
	if _, err := h.bot.Send(notify); err != nil {
		log.WithError(err).WithField("user_id", recipient.UserID).Debug("Не удалось уведомить получателя")
	}
}

// HandleTransactions показывает историю транзакций.
func (h *Handler) HandleTransactions(ctx context.Context, chatID int64, userID int64) {
	history, err := h.service.GetTransactionHistory(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения транзакций")
		h.sendMessage(chatID, "❌ Ошибка получения истории транзакций")
		return
	}
	h.sendMessage(chatID, history)
}

// HandleDeposit выполняет админское начисление "/add_money @username сумма".
// Права администратора проверяет вызывающий слой до вызова.
func (h *Handler) HandleDeposit(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "❌ Неверный формат! Используй: /add_money @username сумма")
		return
	}

	username := strings.TrimPrefix(args[0], "@")
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Сумма должна быть числом")
		return
	}

	user, err := h.accountService.GetByUsername(ctx, username)
	if err != nil {
		h.sendMessage(chatID, "❌ Пользователь не найден!")
		return
	}

	if err := h.service.Deposit(ctx, user.UserID, amount); err != nil {
		if errors.Is(err, common.ErrAmountTooLow) {
			h.sendMessage(chatID, "❌ Сумма должна быть положительной!")
			return
		}
		log.WithError(err).Error("Ошибка начисления")
		h.sendMessage(chatID, "❌ Произошла ошибка при начислении")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Начислено %s пользователю %s",
		common.FormatBalance(amount), user.DisplayName()))
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
