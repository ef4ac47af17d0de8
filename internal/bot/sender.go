package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"serotonyl.ru/shopbot/internal/common"
)

var tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)

// MessageAPI: часть *tgbotapi.BotAPI, нужная для отправки.
type MessageAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sender рассылает HTML-сообщения нескольким получателям параллельно.
type Sender struct {
	api         MessageAPI
	concurrency int
}

func NewSender(api MessageAPI, concurrency int) *Sender {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Sender{api: api, concurrency: concurrency}
}

// SendToMany отправляет text каждому из ids. Возвращает ошибки только по тем
// получателям, кому доставить не удалось; остальные отправки это не прерывает.
func (s *Sender) SendToMany(ctx context.Context, ids []int64, text string) map[int64]error {
	var (
		mu       sync.Mutex
		failures = make(map[int64]error)
	)

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := s.send(ctx, id, text); err != nil {
				mu.Lock()
				failures[id] = err
				mu.Unlock()
			}
			// Ошибка одного получателя не должна останавливать группу.
			return nil
		})
	}
	_ = g.Wait()

	return failures
}

// Send отправляет одно сообщение.
func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	return s.send(ctx, chatID, text)
}

func (s *Sender) send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeliveryFailed, err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := s.api.Send(msg); err != nil {
		// Повторов нет: получатель с flood-лимитом просто считается недоставленным.
		if wait, ok := floodWait(err); ok {
			log.WithFields(log.Fields{
				"chat_id":     chatID,
				"retry_after": wait,
				"rid":         common.RequestID(ctx),
			}).Debug("flood-лимит Telegram, сообщение не отправлено")
		}
		return fmt.Errorf("%w: %s", common.ErrDeliveryFailed, sanitizeErrorMessage(err))
	}
	return nil
}

// floodWait: пауза, которую Telegram запросил ответом 429.
func floodWait(err error) (time.Duration, bool) {
	var tgErr *tgbotapi.Error
	if !errors.As(err, &tgErr) || tgErr.RetryAfter <= 0 {
		return 0, false
	}
	return time.Duration(tgErr.RetryAfter) * time.Second, true
}

// sanitizeErrorMessage убирает токен бота из текста ошибки (он попадает туда вместе с URL).
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}
