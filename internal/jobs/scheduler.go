// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание напоминаний о технических работах.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/features/admin"
	"serotonyl.ru/shopbot/internal/features/settings"
)

// Broadcaster рассылает сообщение всем администраторам.
type Broadcaster interface {
	NotifyAll(ctx context.Context, message string) admin.Report
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	loc      *time.Location
	spec     string
	store    settings.Store
	notifier Broadcaster
	now      func() time.Time
}

// NewScheduler создаёт планировщик в часовом поясе loc.
// Пустой spec отключает напоминание о технических работах.
func NewScheduler(loc *time.Location, spec string, store settings.Store, notifier Broadcaster) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		loc:      loc,
		spec:     spec,
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		log.Info("Напоминание о тех. работах отключено")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, func() {
		log.Debug("[CRON] Проверка тех. работ")
		if _, err := s.RemindMaintenance(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка напоминания о тех. работах")
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"spec":     s.spec,
		"timezone": s.loc.String(),
	}).Info("Планировщик задач запущен")
	return nil
}

// RemindMaintenance напоминает всем администраторам, если бот на тех. работах.
// Возвращает true, если напоминание было разослано.
func (s *Scheduler) RemindMaintenance(ctx context.Context) (bool, error) {
	rec, err := s.store.Get(ctx)
	if err != nil {
		return false, err
	}
	if !rec.StatusWork {
		return false, nil
	}

	text := admin.MaintenanceReminder + "\n\n🕒 " + common.FormatDateTime(s.now(), s.loc)
	report := s.notifier.NotifyAll(ctx, text)
	log.WithFields(log.Fields{
		"delivered": report.Delivered,
		"failed":    report.Failed,
	}).Info("[CRON] Напоминание о тех. работах разослано")
	return true, nil
}

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
