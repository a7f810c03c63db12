// Package accounts — service.go содержит бизнес-логику счётов:
// идемпотентную регистрацию и определение прав администратора.
package accounts

import (
	"context"

	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/common"
	"adskiybank.ru/telegram-bot/internal/config"
)

// Store описывает операции хранилища, нужные сервису счетов.
// Реализуется *Repository; в тестах подменяется фейком.
type Store interface {
	Upsert(ctx context.Context, userID int64, username string, isAdmin bool) error
	GetByUserID(ctx context.Context, userID int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

// Service управляет счетами пользователей.
type Service struct {
	store Store
	cfg   *config.Config
}

// NewService создаёт сервис счетов.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{store: store, cfg: cfg}
}

// Resolve возвращает счёт пользователя, создавая его при первом обращении.
// Повторная регистрация — no-op (обновляется только username).
// Флаг is_admin при создании берётся из статического allow-list.
func (s *Service) Resolve(ctx context.Context, userID int64, username string) (*User, error) {
	if err := s.store.Upsert(ctx, userID, username, s.cfg.IsAdminID(userID)); err != nil {
		return nil, err
	}
	u, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"user_id":  userID,
		"username": username,
	}).Debug("Счёт пользователя разрешён")
	return u, nil
}

// IsAdmin проверяет права администратора: флаг в БД ИЛИ allow-list из конфига.
func (s *Service) IsAdmin(ctx context.Context, userID int64) bool {
	if s.cfg.IsAdminID(userID) {
		return true
	}
	u, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return false
	}
	return u.IsAdmin
}

// RequireAdmin возвращает common.ErrNotAdmin, если у пользователя нет прав.
// Единая точка авторизации для вызывающего слоя.
func (s *Service) RequireAdmin(ctx context.Context, userID int64) error {
	if !s.IsAdmin(ctx, userID) {
		return common.ErrNotAdmin
	}
	return nil
}

// GetByUserID возвращает счёт по Telegram user ID.
func (s *Service) GetByUserID(ctx context.Context, userID int64) (*User, error) {
	return s.store.GetByUserID(ctx, userID)
}

// GetByUsername возвращает счёт по @username (без @).
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.store.GetByUsername(ctx, username)
}

// Exists проверяет, зарегистрирован ли пользователь.
func (s *Service) Exists(ctx context.Context, userID int64) (bool, error) {
	return s.store.Exists(ctx, userID)
}
