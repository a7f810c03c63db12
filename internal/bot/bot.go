// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go принимает апдейты, регистрирует счёт и маршрутизирует кнопки,
// команды и диалоговые шаги к обработчикам фич.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/bot/middleware"
	"adskiybank.ru/telegram-bot/internal/config"
	"adskiybank.ru/telegram-bot/internal/features/accounts"
	"adskiybank.ru/telegram-bot/internal/features/daily"
	"adskiybank.ru/telegram-bot/internal/features/ledger"
	"adskiybank.ru/telegram-bot/internal/features/reports"
	"adskiybank.ru/telegram-bot/internal/features/shop"
)

// dialogState — чего бот ждёт от пользователя следующим сообщением.
// Кнопка «Перевести» не несёт аргументов, поэтому перевод (и админские
// формы) работают в два шага: кнопка → подсказка → сообщение с данными.
type dialogState int

const (
	stateNone dialogState = iota
	stateAwaitTransfer
	stateAwaitAddPrize
	stateAwaitAddMoney
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	rateLimiter *middleware.RateLimiter

	accountService *accounts.Service
	ledgerHandler  *ledger.Handler
	dailyHandler   *daily.Handler
	shopHandler    *shop.Handler
	reportsHandler *reports.Handler

	parser *CommandParser

	// ожидаемый следующий шаг диалога по каждому пользователю
	statesMu sync.Mutex
	states   map[int64]dialogState

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	accountService *accounts.Service,
	ledgerHandler *ledger.Handler,
	dailyHandler *daily.Handler,
	shopHandler *shop.Handler,
	reportsHandler *reports.Handler,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:            api,
		cfg:            cfg,
		rateLimiter:    middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		accountService: accountService,
		ledgerHandler:  ledgerHandler,
		dailyHandler:   dailyHandler,
		shopHandler:    shopHandler,
		reportsHandler: reportsHandler,
		parser:         NewCommandParser(),
		states:         make(map[int64]dialogState),
		inflight:       make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Банк запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				b.rateLimiter.Close()
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// SendMessageToUser отправляет сообщение пользователю в личку
// (уведомления и ночная сводка).
func (b *Bot) SendMessageToUser(userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Не удалось отправить сообщение")
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	// Inline-кнопки магазина
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		return
	}
	message := update.Message

	middleware.LogMessage(message)

	// Банк работает только в личке: в группах кнопочные диалоги
	// превращаются в кашу из чужих шагов.
	if !message.Chat.IsPrivate() || message.From == nil {
		return
	}

	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	// Счёт создаётся при первом же сообщении, дальше это no-op
	account, err := b.accountService.Resolve(ctx, userID, message.From.UserName)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Не удалось разрешить счёт")
		b.sendMessage(chatID, "❌ Произошла ошибка, попробуйте позже")
		return
	}

	// Сначала диалоговые шаги: пользователь отвечает на подсказку
	if b.handleDialogStep(ctx, chatID, userID, message.Text) {
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if isCommand {
		b.routeCommand(ctx, chatID, userID, account, cmd, args)
		return
	}

	b.routeButton(ctx, chatID, userID, account, strings.TrimSpace(message.Text))
}

// handleCallback обрабатывает нажатия inline-кнопок.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	middleware.LogCallback(cq)
	if cq.From == nil || cq.Message == nil {
		return
	}
	if !b.rateLimiter.Allow(cq.From.ID) {
		log.WithField("user_id", cq.From.ID).Debug("rate limited (callback)")
		return
	}

	if _, err := b.accountService.Resolve(ctx, cq.From.ID, cq.From.UserName); err != nil {
		log.WithError(err).WithField("user_id", cq.From.ID).Error("Не удалось разрешить счёт")
		return
	}

	if !b.shopHandler.HandleBuyCallback(ctx, cq) {
		log.WithField("data", cq.Data).Debug("Неизвестный callback")
	}
}

// handleDialogStep завершает двухшаговый диалог, если он был начат.
// Возвращает true, если сообщение было шагом диалога.
func (b *Bot) handleDialogStep(ctx context.Context, chatID, userID int64, text string) bool {
	b.statesMu.Lock()
	state := b.states[userID]
	delete(b.states, userID)
	b.statesMu.Unlock()

	switch state {
	case stateAwaitTransfer:
		b.ledgerHandler.HandleTransfer(ctx, chatID, userID, strings.Fields(text))
		return true

	case stateAwaitAddPrize:
		if !b.requireAdmin(ctx, chatID, userID) {
			return true
		}
		b.shopHandler.HandleAddPrize(ctx, chatID, text)
		return true

	case stateAwaitAddMoney:
		if !b.requireAdmin(ctx, chatID, userID) {
			return true
		}
		b.ledgerHandler.HandleDeposit(ctx, chatID, strings.Fields(text))
		return true
	}
	return false
}

// setState запоминает, какой шаг диалога ждём от пользователя.
func (b *Bot) setState(userID int64, state dialogState) {
	b.statesMu.Lock()
	b.states[userID] = state
	b.statesMu.Unlock()
}

// routeCommand маршрутизирует слэш-команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, account *accounts.User, cmd string, args []string) {
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	switch cmd {
	case "start":
		b.sendWelcome(chatID, userID, account)

	case "help":
		b.sendMessage(chatID, "Пользуйся кнопками меню.\n"+
			"Команды: /balance, /daily, /shop, /items, /history, /ranking.\n"+
			"Админам: /add_money @username сумма, /add_prize.")

	case "balance":
		b.ledgerHandler.HandleBalance(ctx, chatID, userID)

	case "daily":
		b.dailyHandler.HandleClaim(ctx, chatID, userID)

	case "shop":
		b.shopHandler.HandleShop(ctx, chatID, userID)

	case "items":
		b.shopHandler.HandleMyItems(ctx, chatID, userID)

	case "history":
		b.ledgerHandler.HandleTransactions(ctx, chatID, userID)

	case "ranking":
		b.reportsHandler.HandleNFTRanking(ctx, chatID)

	case "stats":
		if b.requireAdmin(ctx, chatID, userID) {
			b.reportsHandler.HandleStats(ctx, chatID)
		}

	case "add_money":
		if b.requireAdmin(ctx, chatID, userID) {
			b.ledgerHandler.HandleDeposit(ctx, chatID, args)
		}

	case "add_prize":
		if b.requireAdmin(ctx, chatID, userID) {
			b.setState(userID, stateAwaitAddPrize)
			b.sendMessage(chatID, "Отправь приз в формате:\nНазвание|Цена|Описание|Количество\n(пятое поле nft — для NFT-приза, количество -1 — без ограничений)")
		}

	default:
		b.sendMessage(chatID, "🤔 Не знаю такую команду. Жми /help")
	}
}

// routeButton маршрутизирует нажатие кнопки reply-клавиатуры.
func (b *Bot) routeButton(ctx context.Context, chatID, userID int64, account *accounts.User, text string) {
	switch text {
	case btnBalance:
		b.ledgerHandler.HandleBalance(ctx, chatID, userID)

	case btnDaily:
		b.dailyHandler.HandleClaim(ctx, chatID, userID)

	case btnTransfer:
		b.setState(userID, stateAwaitTransfer)
		b.sendMessage(chatID, "Кому переводим? Отправь:\n@username сумма")

	case btnShop:
		b.shopHandler.HandleShop(ctx, chatID, userID)

	case btnMyItems:
		b.shopHandler.HandleMyItems(ctx, chatID, userID)

	case btnHistory:
		b.ledgerHandler.HandleTransactions(ctx, chatID, userID)

	case btnRanking:
		b.reportsHandler.HandleNFTRanking(ctx, chatID)

	case btnStats:
		if b.requireAdmin(ctx, chatID, userID) {
			b.reportsHandler.HandleStats(ctx, chatID)
		}

	case btnAddPrize:
		if b.requireAdmin(ctx, chatID, userID) {
			b.setState(userID, stateAwaitAddPrize)
			b.sendMessage(chatID, "Отправь приз в формате:\nНазвание|Цена|Описание|Количество\n(пятое поле nft — для NFT-приза, количество -1 — без ограничений)")
		}

	case btnAddMoney:
		if b.requireAdmin(ctx, chatID, userID) {
			b.setState(userID, stateAwaitAddMoney)
			b.sendMessage(chatID, "Кому начисляем? Отправь:\n@username сумма")
		}

	default:
		b.sendWelcome(chatID, userID, account)
	}
}

// requireAdmin проверяет права и отвечает отказом, если их нет.
func (b *Bot) requireAdmin(ctx context.Context, chatID, userID int64) bool {
	if err := b.accountService.RequireAdmin(ctx, userID); err != nil {
		b.sendMessage(chatID, "⛔ У вас нет прав администратора")
		return false
	}
	return true
}

// sendWelcome показывает приветствие и главное меню.
func (b *Bot) sendWelcome(chatID, userID int64, account *accounts.User) {
	isAdmin := account != nil && account.IsAdmin || b.cfg.IsAdminID(userID)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"👹 Добро пожаловать в Адский Банк!\n\n"+
			"Здесь крутятся %s: ежедневный бонус, переводы друзьям и магазин призов.\n"+
			"Жми кнопки меню 👇", b.cfg.CurrencyName))
	msg.ReplyMarkup = mainMenuKeyboard(isAdmin)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки приветствия")
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// CommandParser парсит команды с префиксами /, ! и .
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"/", "!", "."},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	// /balance@adskiy_bank_bot в личке тоже встречается
	text = strings.TrimSpace(text)
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if i := strings.IndexByte(command, '@'); i > 0 {
		command = command[:i]
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
