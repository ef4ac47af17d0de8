// Package bot содержит главный модуль бота: запуск polling и маршрутизацию апдейтов.
// bot.go принимает апдейты, фильтрует их и передаёт обработчику админ-панели.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shopbot/internal/bot/filters"
	"serotonyl.ru/shopbot/internal/bot/middleware"
	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/config"
	"serotonyl.ru/shopbot/internal/features/admin"
	"serotonyl.ru/shopbot/internal/features/members"
)

// UpdatesAPI: часть *tgbotapi.BotAPI, нужная циклу polling.
type UpdatesAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot: главная структура бота, объединяющая все компоненты.
type Bot struct {
	api UpdatesAPI
	cfg *config.Config

	adminFilter *filters.AdminFilter
	rateLimiter *middleware.RateLimiter

	memberService *members.Service
	adminHandler  *admin.Handler

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api UpdatesAPI,
	cfg *config.Config,
	memberService *members.Service,
	adminHandler *admin.Handler,
	adminFilter *filters.AdminFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:           api,
		cfg:           cfg,
		adminFilter:   adminFilter,
		rateLimiter:   middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		memberService: memberService,
		adminHandler:  adminHandler,
		inflight:      make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram и блокируется до отмены ctx.
func (b *Bot) Start(ctx context.Context) {
	defer b.rateLimiter.Close()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds
	u.AllowedUpdates = []string{"message", "callback_query"}

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
		"admins":       len(b.cfg.AdminIDs),
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	rid := uuid.NewString()
	ctx = common.WithRequestID(ctx, rid)
	defer middleware.RecoverFromPanic(rid)

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Text == "" {
		return
	}

	middleware.LogMessage(ctx, message)

	// Панель доступна только администраторам в личке
	if !b.adminFilter.CheckMessage(message) {
		return
	}

	userID := message.From.ID
	if !b.rateLimiter.Allow(userID) {
		log.WithFields(log.Fields{"user_id": userID, "rid": common.RequestID(ctx)}).Debug("rate limited")
		return
	}

	b.ensureMember(ctx, message.From)

	if !b.adminHandler.HandleAdminMessage(ctx, message.Chat.ID, message.From, message.Text) {
		log.WithFields(log.Fields{"user_id": userID, "rid": common.RequestID(ctx)}).Debug("сообщение не для админ-панели")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	middleware.LogCallback(ctx, cb)

	if !b.adminFilter.CheckCallback(cb) {
		return
	}
	if !b.rateLimiter.Allow(cb.From.ID) {
		log.WithFields(log.Fields{"user_id": cb.From.ID, "rid": common.RequestID(ctx)}).Debug("rate limited")
		return
	}

	b.ensureMember(ctx, cb.From)
	b.adminHandler.HandleCallback(ctx, cb)
}

// ensureMember держит имя администратора в реестре актуальным для уведомлений.
func (b *Bot) ensureMember(ctx context.Context, from *tgbotapi.User) {
	if err := b.memberService.EnsureMember(ctx, from.ID,
		from.UserName, from.FirstName, from.LastName, true,
	); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id": from.ID,
			"rid":     common.RequestID(ctx),
		}).Warn("EnsureMember failed")
	}
}
