package admin

import (
	"context"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/features/settings"
)

// fakeBot запоминает всё, что обработчик отправил в Telegram.
type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) messages() []tgbotapi.MessageConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (b *fakeBot) callbackAnswers() []tgbotapi.CallbackConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []tgbotapi.CallbackConfig
	for _, c := range b.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

func newTestHandler(t *testing.T) (*Handler, *fakeBot, *testEnv) {
	t.Helper()
	env := newTestEnv(t, nil, 0)
	bot := &fakeBot{}
	return NewHandler(env.svc, bot), bot, env
}

func user(adminID int64) *tgbotapi.User {
	return &tgbotapi.User{ID: adminID, FirstName: "Алиса", UserName: "alice"}
}

func callback(adminID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		From: user(adminID),
		Message: &tgbotapi.Message{
			MessageID: 77,
			Chat:      &tgbotapi.Chat{ID: adminID, Type: "private"},
		},
		Data: data,
	}
}

func TestHandler_StartShowsReplyKeyboard(t *testing.T) {
	h, bot, _ := newTestHandler(t)

	assert.True(t, h.HandleAdminMessage(context.Background(), adminA, user(adminA), "/start"))

	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, tgbotapi.ModeHTML, msgs[0].ParseMode)
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, msgs[0].ReplyMarkup)
}

func TestHandler_MarkupFlow(t *testing.T) {
	ctx := context.Background()
	h, bot, env := newTestHandler(t)

	h.HandleCallback(ctx, callback(adminA, cbEditMarkup))

	require.Len(t, bot.sent, 1)
	edit, ok := bot.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, PromptFor(settings.FieldStarsMarkup), edit.Text)
	assert.Equal(t, 77, edit.MessageID)
	assert.Len(t, bot.callbackAnswers(), 1)

	assert.True(t, h.HandleAdminMessage(ctx, adminA, user(adminA), "42"))

	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "<code>42%</code>")
	assert.Contains(t, msgs[0].Text, "Уведомлено: 2 администратора")
	assert.IsType(t, tgbotapi.InlineKeyboardMarkup{}, msgs[0].ReplyMarkup)
	assert.Equal(t, 42, env.record(t).StarsMarkup)
	assert.Len(t, env.messenger.sent(), 1)
}

func TestHandler_RejectedInputRepromptsInPlace(t *testing.T) {
	ctx := context.Background()
	h, bot, env := newTestHandler(t)

	h.HandleCallback(ctx, callback(adminB, cbEditMarkup))
	assert.True(t, h.HandleAdminMessage(ctx, adminB, user(adminB), "150"))

	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "от 0 до 100%")
	assert.Contains(t, msgs[0].Text, PromptFor(settings.FieldStarsMarkup))
	assert.True(t, env.svc.Session(adminB).Awaiting())
}

func TestHandler_FAQCommitSendsPreview(t *testing.T) {
	ctx := context.Background()
	h, bot, env := newTestHandler(t)

	h.HandleCallback(ctx, callback(adminA, cbEditFAQ))
	h.HandleAdminMessage(ctx, adminA, user(adminA), "<b>FAQ</b> для {firstname} (@{username}, {user_id})")

	msgs := bot.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "<b>FAQ</b> для Алиса (@alice, 1)", msgs[1].Text)
	assert.Equal(t, "<b>FAQ</b> для {firstname} (@{username}, {user_id})", env.record(t).FAQ)
}

func TestHandler_MessageWithoutSenderNotHandled(t *testing.T) {
	h, bot, _ := newTestHandler(t)

	assert.False(t, h.HandleAdminMessage(context.Background(), adminA, nil, "/start"))
	assert.Empty(t, bot.sent)
}

func TestHandler_TextWithoutPendingFieldNotHandled(t *testing.T) {
	h, bot, _ := newTestHandler(t)

	assert.False(t, h.HandleAdminMessage(context.Background(), adminA, user(adminA), "просто текст"))
	assert.Empty(t, bot.sent)
}

func TestHandler_MenuCancelsPendingField(t *testing.T) {
	ctx := context.Background()
	h, bot, env := newTestHandler(t)

	h.HandleCallback(ctx, callback(adminA, cbEditSupport))
	require.True(t, env.svc.Session(adminA).Awaiting())

	assert.True(t, h.HandleAdminMessage(ctx, adminA, user(adminA), MenuToggles))

	assert.False(t, env.svc.Session(adminA).Awaiting())
	msgs := bot.messages()
	require.Len(t, msgs, 1)
	kb, ok := msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, kb.InlineKeyboard, 4)
}

func TestHandler_CancelCommand(t *testing.T) {
	ctx := context.Background()
	h, bot, env := newTestHandler(t)

	h.HandleCallback(ctx, callback(adminA, cbEditFAQ))
	h.HandleAdminMessage(ctx, adminA, user(adminA), "/cancel")

	assert.False(t, env.svc.Session(adminA).Awaiting())
	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, cancelledText, msgs[0].Text)
}

func TestHandler_ToggleCallback(t *testing.T) {
	ctx := context.Background()
	h, bot, env := newTestHandler(t)

	h.HandleCallback(ctx, callback(adminA, "turn_work:True"))

	assert.True(t, env.record(t).StatusWork)
	answers := bot.callbackAnswers()
	require.Len(t, answers, 1)
	assert.Equal(t, "✅ Сохранено", answers[0].Text)

	var redrawn bool
	for _, r := range bot.requests {
		if edit, ok := r.(tgbotapi.EditMessageReplyMarkupConfig); ok {
			redrawn = true
			require.NotNil(t, edit.ReplyMarkup)
			assert.Equal(t, toggleCallback(settings.FieldWork, false), *edit.ReplyMarkup.InlineKeyboard[0][1].CallbackData)
		}
	}
	assert.True(t, redrawn)
	assert.Len(t, env.messenger.sent(), 1)
}

func TestHandler_MalformedToggleAnswersToast(t *testing.T) {
	ctx := context.Background()
	h, bot, env := newTestHandler(t)

	h.HandleCallback(ctx, callback(adminA, "turn_buy:maybe"))

	answers := bot.callbackAnswers()
	require.Len(t, answers, 1)
	assert.Contains(t, answers[0].Text, common.ErrMalformedPayload.Error())
	assert.Equal(t, settings.Defaults(), env.record(t))
	assert.Empty(t, env.messenger.sent())
}

func TestHandler_CloseDeletesMenu(t *testing.T) {
	ctx := context.Background()
	h, bot, env := newTestHandler(t)

	h.HandleCallback(ctx, callback(adminA, cbEditMarkup))
	h.HandleCallback(ctx, callback(adminA, cbClose))

	assert.False(t, env.svc.Session(adminA).Awaiting())
	var deleted bool
	for _, r := range bot.requests {
		if d, ok := r.(tgbotapi.DeleteMessageConfig); ok {
			deleted = true
			assert.Equal(t, 77, d.MessageID)
		}
	}
	assert.True(t, deleted)
}
