// Package app инициализирует все компоненты приложения.
// app.go: точка сборки: выбирает хранилище, создаёт сервисы, обработчики,
// фильтры, планировщик и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shopbot/internal/bot"
	"serotonyl.ru/shopbot/internal/bot/filters"
	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/config"
	"serotonyl.ru/shopbot/internal/db/postgres"
	"serotonyl.ru/shopbot/internal/db/sqlite"
	"serotonyl.ru/shopbot/internal/features/admin"
	"serotonyl.ru/shopbot/internal/features/members"
	"serotonyl.ru/shopbot/internal/features/settings"
	"serotonyl.ru/shopbot/internal/jobs"
	"serotonyl.ru/shopbot/internal/metrics"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	BotAPI    *tgbotapi.BotAPI
	Registry  *prometheus.Registry

	closeStore func()
}

// Storage: выбранный бэкенд настроек и реестра участников.
type Storage struct {
	Settings settings.Store
	Members  members.Storage
	Close    func()
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен: компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище ===
	storage, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development" && cfg.AppLogLevel == "trace"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Метрики ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// === 4. Сервисы ===
	memberService := members.NewService(storage.Members)
	sender := bot.NewSender(botAPI, cfg.BroadcastConcurrency)
	notifier := admin.NewNotifier(sender, cfg.AdminIDs, m)
	adminService := admin.NewService(
		storage.Settings,
		memberService,
		admin.NewSessions(),
		notifier,
		m,
		cfg.AdminInputMaxAttempts,
	)

	// === 5. Обработчики и фильтры ===
	adminHandler := admin.NewHandler(adminService, botAPI)
	adminFilter := filters.NewAdminFilter(cfg.AdminIDs)

	// === 6. Собираем бота ===
	b := bot.New(botAPI, cfg, memberService, adminHandler, adminFilter)

	// === 7. Планировщик задач ===
	scheduler := jobs.NewScheduler(
		common.LoadLocation(cfg.AppTimezone),
		cfg.MaintenanceReminderCron,
		storage.Settings,
		notifier,
	)

	return &App{
		Bot:        b,
		Scheduler:  scheduler,
		BotAPI:     botAPI,
		Registry:   reg,
		closeStore: storage.Close,
	}, nil
}

// Close освобождает хранилище.
func (a *App) Close() {
	if a.closeStore != nil {
		a.closeStore()
	}
}

// OpenStorage открывает хранилище по STORE_DRIVER и применяет миграции.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return &Storage{
			Settings: settings.NewRepository(pool),
			Members:  members.NewRepository(pool),
			Close:    pool.Close,
		}, nil

	case config.StoreDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Settings: db.Settings(),
			Members:  db.Members(),
			Close: func() {
				if err := db.Close(); err != nil {
					log.WithError(err).Warn("ошибка закрытия SQLite")
				}
			},
		}, nil

	case config.StoreDriverMemory:
		log.Warn("STORE_DRIVER=memory: настройки не переживут перезапуск")
		return &Storage{
			Settings: settings.NewMemoryStore(settings.Defaults()),
			Members:  members.NewMemoryStorage(),
			Close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("неизвестный STORE_DRIVER %q", cfg.StoreDriver)
}
