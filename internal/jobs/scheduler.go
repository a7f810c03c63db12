// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает ночную сводку статистики для админов.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/features/reports"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron           *cron.Cron
	reportsService *reports.Service
	adminIDs       []int64
	sendFunc       func(userID int64, text string)
}

// NewScheduler создаёт планировщик задач с московским часовым поясом.
func NewScheduler(reportsService *reports.Service, adminIDs []int64, sendFunc func(userID int64, text string)) *Scheduler {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.WithError(err).Warn("Не удалось загрузить Europe/Moscow, используем UTC+3")
		loc = time.FixedZone("MSK", 3*60*60)
	}

	return &Scheduler{
		cron:           cron.New(cron.WithLocation(loc)),
		reportsService: reportsService,
		adminIDs:       adminIDs,
		sendFunc:       sendFunc,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Ночная сводка админам в 00:00 по Москве
	s.cron.AddFunc("0 0 * * *", func() {
		log.Info("[CRON] Ночная сводка статистики")
		stats, err := s.reportsService.Stats(ctx)
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка подсчёта статистики")
			return
		}

		text := "🌙 Сводка за день\n\n" + reports.FormatStats(stats)
		for _, adminID := range s.adminIDs {
			s.sendFunc(adminID, text)
		}
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен (Europe/Moscow)")
}

// Stop останавливает планировщик и дожидается активных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
