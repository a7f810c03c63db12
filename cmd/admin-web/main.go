// Package main — точка входа админ-панели.
// Панель живёт отдельным процессом от бота: ей не нужен Telegram API,
// только БД и пароль.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/adminweb"
	"adskiybank.ru/telegram-bot/internal/app"
	"adskiybank.ru/telegram-bot/internal/config"
	"adskiybank.ru/telegram-bot/internal/db/postgres"
	"adskiybank.ru/telegram-bot/internal/features/accounts"
	"adskiybank.ru/telegram-bot/internal/features/ledger"
	"adskiybank.ru/telegram-bot/internal/features/reports"
	"adskiybank.ru/telegram-bot/internal/features/shop"
)

func main() {
	setupLogging()

	if err := godotenv.Load(); err != nil {
		log.Debug(".env не найден, читаем окружение как есть")
	}

	log.Info("=== Админ-панель запускается ===")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	if level, err := log.ParseLevel(cfg.AppLogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Не удалось подключиться к БД")
	}
	defer pool.Close()

	if err := app.RunMigrations(ctx, pool); err != nil {
		log.WithError(err).Fatal("Не удалось применить миграции")
	}

	accountRepo := accounts.NewRepository(pool)
	ledgerService := ledger.NewService(ledger.NewRepository(pool), cfg)
	shopService := shop.NewService(shop.NewRepository(pool))
	reportsService := reports.NewService(reports.NewRepository(pool), cfg)

	server := adminweb.NewServer(cfg, accountRepo, ledgerService, shopService, reportsService)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Ошибка HTTP-сервера")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Infof("Получен сигнал %s, останавливаемся...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Ошибка остановки HTTP-сервера")
	}

	log.Info("=== Админ-панель остановлена ===")
}

// setupLogging настраивает формат логов.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}
