// Package daily — service.go содержит бизнес-логику ежедневного бонуса:
// выбор случайной суммы и применение кулдауна из конфигурации.
package daily

import (
	"context"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/config"
)

// Store описывает операции хранилища, нужные сервису бонуса.
// Реализуется *Repository; в тестах подменяется фейком.
type Store interface {
	Claim(ctx context.Context, userID int64, cooldown time.Duration, amount int64) (*GrantResult, error)
}

// Service управляет ежедневным бонусом.
type Service struct {
	store Store
	cfg   *config.Config
}

// NewService создаёт сервис ежедневного бонуса.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{store: store, cfg: cfg}
}

// Claim пытается выдать пользователю ежедневный бонус.
// Сумма выбирается равномерно из [1, DAILY_MAX_AMOUNT]; криптостойкость
// не нужна. Проверка кулдауна и начисление атомарны на стороне хранилища.
func (s *Service) Claim(ctx context.Context, userID int64) (*GrantResult, error) {
	amount := rand.Int63n(s.cfg.DailyMaxAmount) + 1

	result, err := s.store.Claim(ctx, userID, s.cfg.DailyCooldown(), amount)
	if err != nil {
		return nil, err
	}

	if result.Granted {
		log.WithFields(log.Fields{
			"user_id": userID,
			"amount":  result.Amount,
		}).Info("Ежедневный бонус выдан")
	}

	return result, nil
}
