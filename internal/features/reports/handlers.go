// Package reports — handlers.go отвечает на кнопку «🏆 NFT Рейтинг»
// и формирует текст сводной статистики для админов.
package reports

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/common"
)

// Handler обрабатывает команды отчётов.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик отчётов.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleNFTRanking показывает топ владельцев NFT-призов.
func (h *Handler) HandleNFTRanking(ctx context.Context, chatID int64) {
	ranking, err := h.service.NFTRanking(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка построения NFT-рейтинга")
		h.sendMessage(chatID, "❌ Ошибка построения рейтинга")
		return
	}
	if len(ranking) == 0 {
		h.sendMessage(chatID, "🏆 NFT-призы пока никто не купил")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 NFT Рейтинг:\n\n")
	for i, row := range ranking {
		medal := fmt.Sprintf("%d.", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		sb.WriteString(fmt.Sprintf("%s @%s — %d NFT на %s\n   %s\n",
			medal, row.Username, row.Count, common.FormatBalance(row.TotalCost), row.Items))
	}
	h.sendMessage(chatID, sb.String())
}

// HandleStats показывает сводную статистику банка.
// Права администратора проверяет вызывающий слой.
func (h *Handler) HandleStats(ctx context.Context, chatID int64) {
	stats, err := h.service.Stats(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка подсчёта статистики")
		h.sendMessage(chatID, "❌ Ошибка подсчёта статистики")
		return
	}
	h.sendMessage(chatID, FormatStats(stats))
}

// FormatStats форматирует сводку (используется и ночной рассылкой).
func FormatStats(s *Stats) string {
	return fmt.Sprintf(
		"📊 Статистика банка:\n\n"+
			"👥 Пользователей: %d\n"+
			"💰 Всего в обороте: %s\n"+
			"🧾 Транзакций: %d\n"+
			"🎁 Призов в каталоге: %d\n"+
			"📦 Призов куплено: %d",
		s.TotalUsers,
		common.FormatBalance(s.TotalBalance),
		s.TotalTransactions,
		s.TotalPrizes,
		s.TotalItemsOwned,
	)
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
