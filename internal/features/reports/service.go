// Package reports — service.go отдаёт отчёты обработчикам и админке.
package reports

import (
	"context"

	"adskiybank.ru/telegram-bot/internal/config"
)

// Store описывает операции хранилища отчётов.
type Store interface {
	Stats(ctx context.Context) (*Stats, error)
	NFTRanking(ctx context.Context, limit int) ([]*RankingRow, error)
}

// Service строит отчёты.
type Service struct {
	store Store
	cfg   *config.Config
}

// NewService создаёт сервис отчётов.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{store: store, cfg: cfg}
}

// Stats возвращает сводную статистику банка.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.store.Stats(ctx)
}

// NFTRanking возвращает топ владельцев NFT (размер задаётся конфигом).
func (s *Service) NFTRanking(ctx context.Context) ([]*RankingRow, error) {
	return s.store.NFTRanking(ctx, s.cfg.AdminRankingLimit)
}
