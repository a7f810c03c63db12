// Package shop — handlers.go обрабатывает витрину призов,
// покупку через inline-кнопки и раздел «Мои предметы».
// Парсинг админского формата «Название|Цена|Описание|Количество» живёт здесь,
// сервис принимает уже типизированные аргументы.
package shop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/common"
)

// buyCallbackPrefix — префикс callback-данных кнопки покупки.
const buyCallbackPrefix = "buy_"

// Handler обрабатывает команды магазина призов.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик магазина.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleShop показывает витрину призов с inline-кнопками покупки.
// Уже купленные призы помечаются «🟢 Куплено» и не покупаются повторно.
func (h *Handler) HandleShop(ctx context.Context, chatID int64, userID int64) {
	prizes, err := h.service.ListPrizes(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка загрузки каталога призов")
		h.sendMessage(chatID, "❌ Ошибка загрузки магазина")
		return
	}
	if len(prizes) == 0 {
		h.sendMessage(chatID, "🛍 Магазин пока пуст")
		return
	}

	owned, err := h.service.OwnedPrizeIDs(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка проверки купленных призов")
		h.sendMessage(chatID, "❌ Ошибка загрузки магазина")
		return
	}

	var sb strings.Builder
	sb.WriteString("🛍 Магазин призов:\n\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range prizes {
		sb.WriteString(fmt.Sprintf("🎁 %s — %s\n", p.Name, common.FormatBalance(p.Cost)))
		if p.Description != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", p.Description))
		}
		sb.WriteString(fmt.Sprintf("   Остаток: %s\n\n", common.FormatStock(p.Stock)))

		var btn tgbotapi.InlineKeyboardButton
		if _, bought := owned[p.ID]; bought {
			btn = tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🟢 Куплено: %s", p.Name), "noop")
		} else {
			btn = tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Купить: %s", p.Name),
				buyCallbackPrefix+strconv.FormatInt(p.ID, 10))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки витрины")
	}
}

// HandleMyItems показывает купленные призы пользователя.
func (h *Handler) HandleMyItems(ctx context.Context, chatID int64, userID int64) {
	items, err := h.service.UserItems(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка загрузки предметов")
		h.sendMessage(chatID, "❌ Ошибка загрузки предметов")
		return
	}
	if len(items) == 0 {
		h.sendMessage(chatID, "📦 У вас пока нет предметов")
		return
	}

	var sb strings.Builder
	sb.WriteString("📦 Ваши предметы:\n\n")
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("🎁 %s (%s)\n", item.Name, common.FormatBalance(item.Cost)))
		if item.Description != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", item.Description))
		}
	}
	h.sendMessage(chatID, sb.String())
}

// HandleBuyCallback обрабатывает нажатие inline-кнопки покупки.
// Возвращает true, если callback относится к магазину.
func (h *Handler) HandleBuyCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) bool {
	if cq.Data == "noop" {
		h.answerCallback(cq.ID, "Этот приз уже куплен")
		return true
	}
	if !strings.HasPrefix(cq.Data, buyCallbackPrefix) {
		return false
	}

	prizeID, err := strconv.ParseInt(strings.TrimPrefix(cq.Data, buyCallbackPrefix), 10, 64)
	if err != nil {
		h.answerCallback(cq.ID, "Некорректный приз")
		return true
	}

	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	prize, err := h.service.Purchase(ctx, userID, prizeID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrPrizeNotFound):
			h.answerCallback(cq.ID, "Приз не найден")
		case errors.Is(err, common.ErrAlreadyOwned):
			h.answerCallback(cq.ID, "Вы уже купили этот приз")
		case errors.Is(err, common.ErrOutOfStock):
			h.answerCallback(cq.ID, "Приз закончился 😢")
		case errors.Is(err, common.ErrInsufficientFunds):
			h.answerCallback(cq.ID, "Недостаточно абаюнд 💸")
		default:
			log.WithError(err).WithFields(log.Fields{
				"user_id":  userID,
				"prize_id": prizeID,
			}).Error("Ошибка покупки приза")
			h.answerCallback(cq.ID, "Произошла ошибка, попробуйте позже")
		}
		return true
	}

	h.answerCallback(cq.ID, "Покупка успешна! 🎉")
	h.sendMessage(chatID, fmt.Sprintf("✅ Вы купили «%s» за %s!",
		prize.Name, common.FormatBalance(prize.Cost)))
	return true
}

// HandleAddPrize добавляет приз по строке админа
// «Название|Цена|Описание|Количество» (пятое поле «nft» — необязательное).
// Права администратора проверяет вызывающий слой.
func (h *Handler) HandleAddPrize(ctx context.Context, chatID int64, text string) {
	parts := strings.Split(text, "|")
	if len(parts) < 4 {
		h.sendMessage(chatID, "❌ Неверный формат! Используй: Название|Цена|Описание|Количество")
		return
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	cost, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Цена должна быть числом")
		return
	}
	stock, err := strconv.Atoi(parts[3])
	if err != nil {
		h.sendMessage(chatID, "❌ Количество должно быть числом (-1 — без ограничений)")
		return
	}
	isNFT := len(parts) >= 5 && strings.EqualFold(parts[4], "nft")

	prize, err := h.service.AddPrize(ctx, parts[0], cost, parts[2], stock, isNFT)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicatePrizeName):
			h.sendMessage(chatID, "❌ Приз с таким названием уже существует!")
		case errors.Is(err, common.ErrInvalidPrize):
			h.sendMessage(chatID, "❌ Проверь параметры: цена > 0, количество >= -1")
		default:
			log.WithError(err).Error("Ошибка добавления приза")
			h.sendMessage(chatID, "❌ Произошла ошибка при добавлении приза")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Приз «%s» добавлен!\n💰 Цена: %s\n📦 Остаток: %s",
		prize.Name, common.FormatBalance(prize.Cost), common.FormatStock(prize.Stock)))
}

func (h *Handler) answerCallback(callbackID, text string) {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := h.bot.Request(cb); err != nil {
		log.WithError(err).Error("Ошибка ответа на callback")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
