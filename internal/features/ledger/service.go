// Package ledger — service.go содержит бизнес-логику переводов и начислений.
// Предусловия перевода проверяются по порядку, первая ошибка выигрывает:
// самому себе → сумма ниже минимума → получатель не найден → не хватает средств.
package ledger

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/common"
	"adskiybank.ru/telegram-bot/internal/config"
)

// Store описывает операции хранилища, нужные сервису леджера.
// Реализуется *Repository; в тестах подменяется фейком.
type Store interface {
	GetBalance(ctx context.Context, userID int64) (int64, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	Transfer(ctx context.Context, fromUserID, toUserID, amount int64, note string) error
	Credit(ctx context.Context, toUserID, amount int64, note string) error
	GetTransactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error)
}

// Service управляет движением абаюнд.
type Service struct {
	store Store
	cfg   *config.Config
}

// NewService создаёт сервис леджера.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{store: store, cfg: cfg}
}

// GetBalance возвращает текущий баланс пользователя.
func (s *Service) GetBalance(ctx context.Context, userID int64) (int64, error) {
	return s.store.GetBalance(ctx, userID)
}

// Transfer переводит абаюнды от одного пользователя к другому.
// Проверки в строгом порядке:
//  1. Нельзя переводить себе
//  2. Сумма не меньше минимальной (и положительная)
//  3. Получатель существует
//  4. У отправителя достаточно средств (атомарно, внутри транзакции БД)
func (s *Service) Transfer(ctx context.Context, fromUserID, toUserID, amount int64) error {
	if fromUserID == toUserID {
		return common.ErrSelfTransfer
	}
	if amount <= 0 || amount < s.cfg.MinTransfer {
		return common.ErrAmountTooLow
	}

	exists, err := s.store.UserExists(ctx, toUserID)
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrRecipientNotFound
	}

	note := fmt.Sprintf("Перевод %d %s", amount, common.PluralizeCoins(amount))
	if err := s.store.Transfer(ctx, fromUserID, toUserID, amount, note); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"from":   fromUserID,
		"to":     toUserID,
		"amount": amount,
	}).Info("Перевод выполнен")

	return nil
}

// Deposit начисляет абаюнды от системного счёта (админское начисление).
// Кулдауны и владение призами не проверяются — это прямой кредит.
func (s *Service) Deposit(ctx context.Context, toUserID, amount int64) error {
	if amount <= 0 {
		return common.ErrAmountTooLow
	}
	if err := s.store.Credit(ctx, toUserID, amount, "Админское начисление"); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"to":     toUserID,
		"amount": amount,
	}).Info("Админское начисление выполнено")

	return nil
}

// GetTransactionHistory возвращает форматированную историю транзакций.
// Последние 10 операций; знак определяется направлением относительно userID.
func (s *Service) GetTransactionHistory(ctx context.Context, userID int64) (string, error) {
	transactions, err := s.store.GetTransactions(ctx, userID, 10)
	if err != nil {
		return "", err
	}

	if len(transactions) == 0 {
		return "📋 У вас пока нет транзакций", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Последние %d транзакций:\n\n", len(transactions)))

	for i, tx := range transactions {
		sign := "+"
		if tx.FromUser == userID {
			sign = "-"
		}
		sb.WriteString(fmt.Sprintf("%d. %s | %s%d %s | %s\n",
			i+1,
			common.FormatDateTime(tx.CreatedAt),
			sign,
			tx.Amount,
			common.PluralizeCoins(tx.Amount),
			tx.Note,
		))
	}

	return sb.String(), nil
}
