// Package shop — service.go содержит бизнес-логику каталога и покупок.
package shop

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/common"
)

// Store описывает операции хранилища, нужные сервису магазина.
// Реализуется *Repository; в тестах подменяется фейком.
type Store interface {
	CreatePrize(ctx context.Context, p *Prize) error
	ListPrizes(ctx context.Context) ([]*Prize, error)
	GetPrize(ctx context.Context, prizeID int64) (*Prize, error)
	OwnedPrizeIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)
	UserItems(ctx context.Context, userID int64) ([]*OwnedItem, error)
	Purchase(ctx context.Context, userID, prizeID int64) (*Prize, error)
}

// Service управляет магазином призов.
type Service struct {
	store Store
}

// NewService создаёт сервис магазина.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// AddPrize добавляет приз в каталог. Аргументы уже типизированы —
// парсинг «Название|Цена|Описание|Количество» остаётся презентационному слою.
func (s *Service) AddPrize(ctx context.Context, name string, cost int64, description string, stock int, isNFT bool) (*Prize, error) {
	name = strings.TrimSpace(name)
	if name == "" || cost <= 0 || stock < -1 {
		return nil, common.ErrInvalidPrize
	}

	p := &Prize{
		Name:        name,
		Cost:        cost,
		Description: strings.TrimSpace(description),
		Stock:       stock,
		IsNFT:       isNFT,
	}
	if err := s.store.CreatePrize(ctx, p); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"prize": name,
		"cost":  cost,
		"stock": stock,
		"nft":   isNFT,
	}).Info("Приз добавлен в каталог")

	return p, nil
}

// ListPrizes возвращает каталог.
func (s *Service) ListPrizes(ctx context.Context) ([]*Prize, error) {
	return s.store.ListPrizes(ctx)
}

// OwnedPrizeIDs возвращает ID призов, уже купленных пользователем.
func (s *Service) OwnedPrizeIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	return s.store.OwnedPrizeIDs(ctx, userID)
}

// UserItems возвращает купленные призы пользователя.
func (s *Service) UserItems(ctx context.Context, userID int64) ([]*OwnedItem, error) {
	return s.store.UserItems(ctx, userID)
}

// Purchase покупает приз. Вся проверочно-мутационная цепочка атомарна
// на стороне хранилища; сервис только логирует исход.
func (s *Service) Purchase(ctx context.Context, userID, prizeID int64) (*Prize, error) {
	p, err := s.store.Purchase(ctx, userID, prizeID)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"prize":   p.Name,
		"cost":    p.Cost,
	}).Info("Приз куплен")

	return p, nil
}
