// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики
// и собирает всё в объекты Bot и Scheduler.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/bot"
	"adskiybank.ru/telegram-bot/internal/config"
	"adskiybank.ru/telegram-bot/internal/db/postgres"
	"adskiybank.ru/telegram-bot/internal/features/accounts"
	"adskiybank.ru/telegram-bot/internal/features/daily"
	"adskiybank.ru/telegram-bot/internal/features/ledger"
	"adskiybank.ru/telegram-bot/internal/features/reports"
	"adskiybank.ru/telegram-bot/internal/features/shop"
	"adskiybank.ru/telegram-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI

	// Сервисы наружу — их же использует админ-панель
	AccountRepo    *accounts.Repository
	AccountService *accounts.Service
	LedgerService  *ledger.Service
	ShopService    *shop.Service
	ReportsService *reports.Service
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := RunMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Репозитории ===
	accountRepo := accounts.NewRepository(pool)
	ledgerRepo := ledger.NewRepository(pool)
	dailyRepo := daily.NewRepository(pool)
	shopRepo := shop.NewRepository(pool)
	reportsRepo := reports.NewRepository(pool)

	// === 4. Сервисы ===
	accountService := accounts.NewService(accountRepo, cfg)
	ledgerService := ledger.NewService(ledgerRepo, cfg)
	dailyService := daily.NewService(dailyRepo, cfg)
	shopService := shop.NewService(shopRepo)
	reportsService := reports.NewService(reportsRepo, cfg)

	// === 5. Обработчики ===
	ledgerHandler := ledger.NewHandler(ledgerService, accountService, botAPI)
	dailyHandler := daily.NewHandler(dailyService, cfg, botAPI)
	shopHandler := shop.NewHandler(shopService, botAPI)
	reportsHandler := reports.NewHandler(reportsService, botAPI)

	// === 6. Собираем бота ===
	b := bot.New(
		botAPI, cfg,
		accountService,
		ledgerHandler,
		dailyHandler,
		shopHandler,
		reportsHandler,
	)

	// === 7. Планировщик задач ===
	scheduler := jobs.NewScheduler(reportsService, cfg.AdminIDs, b.SendMessageToUser)

	return &App{
		Bot:            b,
		Scheduler:      scheduler,
		DB:             pool,
		BotAPI:         botAPI,
		AccountRepo:    accountRepo,
		AccountService: accountService,
		LedgerService:  ledgerService,
		ShopService:    shopService,
		ReportsService: reportsService,
	}, nil
}

// RunMigrations выполняет все SQL-миграции по порядку.
// Админ-панель вызывает его тоже: кто первым поднялся, тот и мигрировал.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Users},
		{2, migration002Prizes},
		{3, migration003Transactions},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

// Счета. CHECK (balance >= 0) — последний рубеж: даже кривой SQL
// не уведёт баланс в минус. user_id = 0 — системный счёт, с него
// начисляются бонусы и на него уходят покупки.
var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    username VARCHAR(255),
    balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    last_daily TIMESTAMP,
    is_admin BOOLEAN DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_user_id ON users(user_id);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));

INSERT INTO users (user_id, username, balance)
VALUES (0, 'adskiy_bank', 0)
ON CONFLICT (user_id) DO NOTHING;
`

// Призы и владение. Пара (user_id, prize_id) — первичный ключ user_items:
// уникальность владения обеспечивает сама БД, а не код.
// stock = -1 — бесконечный запас.
var migration002Prizes = `
CREATE TABLE IF NOT EXISTS prizes (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) UNIQUE NOT NULL,
    cost BIGINT NOT NULL CHECK (cost > 0),
    description TEXT,
    stock INTEGER NOT NULL DEFAULT -1 CHECK (stock >= -1),
    is_nft BOOLEAN DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_items (
    user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    prize_id BIGINT NOT NULL REFERENCES prizes(id) ON DELETE CASCADE,
    purchased_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (user_id, prize_id)
);
CREATE INDEX IF NOT EXISTS idx_user_items_prize ON user_items(prize_id);
`

// Журнал транзакций. Без внешних ключей: журнал должен переживать
// удаление счетов через админ-панель.
var migration003Transactions = `
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    from_user BIGINT NOT NULL,
    to_user BIGINT NOT NULL,
    amount BIGINT NOT NULL CHECK (amount > 0),
    note TEXT,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transactions_from_user ON transactions(from_user);
CREATE INDEX IF NOT EXISTS idx_transactions_to_user ON transactions(to_user);
CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at DESC);
`
