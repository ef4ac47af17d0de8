package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/shopbot/internal/bot/filters"
	"serotonyl.ru/shopbot/internal/config"
	"serotonyl.ru/shopbot/internal/features/admin"
	"serotonyl.ru/shopbot/internal/features/members"
	"serotonyl.ru/shopbot/internal/features/settings"
)

// fakeTelegram: BotAPI без сети: апдейты из канала, исходящие запоминаются.
type fakeTelegram struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
	stopped  bool
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegram) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeTelegram) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeTelegram) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeTelegram) messagesTo(chatID int64) []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

type testBot struct {
	bot     *Bot
	api     *fakeTelegram
	store   *settings.MemoryStore
	members *members.Service
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	cfg := &config.Config{
		AdminIDs:                []int64{1, 2},
		BotMaxInflight:          4,
		BotUpdateTimeoutSeconds: 1,
		RateLimitRequests:       100,
		RateLimitWindow:         time.Minute,
	}
	api := &fakeTelegram{updates: make(chan tgbotapi.Update, 4)}
	store := settings.NewMemoryStore(settings.Defaults())
	memberService := members.NewService(members.NewMemoryStorage())
	notifier := admin.NewNotifier(NewSender(api, 2), cfg.AdminIDs, nil)
	svc := admin.NewService(store, memberService, admin.NewSessions(), notifier, nil, 0)

	b := New(api, cfg, memberService, admin.NewHandler(svc, api), filters.NewAdminFilter(cfg.AdminIDs))
	t.Cleanup(b.rateLimiter.Close)

	return &testBot{bot: b, api: api, store: store, members: memberService}
}

func privateMessage(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 5,
		From:      &tgbotapi.User{ID: userID, FirstName: "Алиса", UserName: "alice"},
		Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
		Text:      text,
	}}
}

func TestBot_IgnoresNonAdmins(t *testing.T) {
	tb := newTestBot(t)

	tb.bot.handleUpdate(context.Background(), privateMessage(99, "/start"))

	assert.Empty(t, tb.api.messagesTo(99))
	_, err := tb.members.GetByUserID(context.Background(), 99)
	assert.Error(t, err)
}

func TestBot_AdminMessageRegistersMember(t *testing.T) {
	tb := newTestBot(t)

	tb.bot.handleUpdate(context.Background(), privateMessage(1, "/start"))

	require.Len(t, tb.api.messagesTo(1), 1)
	m, err := tb.members.GetByUserID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Алиса", m.DisplayName())
	assert.True(t, m.IsAdmin)
}

func TestBot_ToggleCallbackNotifiesOtherAdmins(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot(t)

	tb.bot.handleUpdate(ctx, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "q1",
		From: &tgbotapi.User{ID: 1, FirstName: "Алиса"},
		Message: &tgbotapi.Message{
			MessageID: 9,
			Chat:      &tgbotapi.Chat{ID: 1, Type: "private"},
		},
		Data: "turn_work:True",
	}})

	rec, err := tb.store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, rec.StatusWork)

	assert.Empty(t, tb.api.messagesTo(1))
	toB := tb.api.messagesTo(2)
	require.Len(t, toB, 1)
	assert.True(t, strings.Contains(toB[0].Text, "Алиса"))
	assert.Contains(t, toB[0].Text, "технические работы")
}

func TestBot_StartStopsOnCancel(t *testing.T) {
	tb := newTestBot(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		tb.bot.Start(ctx)
		close(done)
	}()

	tb.api.updates <- privateMessage(1, "/admin")
	require.Eventually(t, func() bool { return len(tb.api.messagesTo(1)) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start не завершился после отмены контекста")
	}
	tb.api.mu.Lock()
	defer tb.api.mu.Unlock()
	assert.True(t, tb.api.stopped)
}
