// Package daily — handlers.go обрабатывает кнопку «Получить Абаюнду».
package daily

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/common"
	"adskiybank.ru/telegram-bot/internal/config"
)

// Handler обрабатывает команды ежедневного бонуса.
type Handler struct {
	service *Service
	cfg     *config.Config
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик ежедневного бонуса.
func NewHandler(service *Service, cfg *config.Config, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, cfg: cfg, bot: bot}
}

// HandleClaim обрабатывает запрос ежедневного бонуса.
//
// Ответ при успехе:
//
//	🎉 Вы получили 42 абаюнды!
//	💵 Текущий баланс: 142 абаюнды
func (h *Handler) HandleClaim(ctx context.Context, chatID int64, userID int64) {
	result, err := h.service.Claim(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка выдачи ежедневного бонуса")
		h.sendMessage(chatID, "❌ Произошла ошибка, попробуйте позже")
		return
	}

	if !result.Granted {
		h.sendMessage(chatID, fmt.Sprintf(
			"⏳ Приходи через %d часов!\n⏰ Следующее начисление: %s",
			h.cfg.DailyCooldownHours,
			common.FormatClock(result.NextEligibleAt),
		))
		return
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"🎉 Вы получили %s!\n💵 Текущий баланс: %s",
		common.FormatBalance(result.Amount),
		common.FormatBalance(result.NewBalance),
	))
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
