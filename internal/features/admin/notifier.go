package admin

import (
	"context"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/metrics"
)

// Messenger: канал исходящих сообщений.
// SendToMany возвращает ошибку по каждому получателю, которому не удалось доставить;
// сбой одного получателя не прерывает отправку остальным.
type Messenger interface {
	SendToMany(ctx context.Context, ids []int64, text string) map[int64]error
}

// Report: итог рассылки.
type Report struct {
	Recipients int
	Delivered  int
	Failed     int
}

// Notifier рассылает уведомления всем администраторам, кроме действующего.
type Notifier struct {
	messenger Messenger
	admins    []int64
	metrics   *metrics.Metrics
}

// NewNotifier создаёт рассыльщик по списку администраторов (дубликаты отбрасываются).
func NewNotifier(messenger Messenger, admins []int64, m *metrics.Metrics) *Notifier {
	seen := make(map[int64]struct{}, len(admins))
	uniq := make([]int64, 0, len(admins))
	for _, id := range admins {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	return &Notifier{messenger: messenger, admins: uniq, metrics: m}
}

// Recipients: администраторы без actorID.
func (n *Notifier) Recipients(actorID int64) []int64 {
	out := make([]int64, 0, len(n.admins))
	for _, id := range n.admins {
		if id != actorID {
			out = append(out, id)
		}
	}
	return out
}

// Notify отправляет message всем администраторам, кроме actorID.
// Ошибки доставки только логируются: действующий администратор их не видит.
func (n *Notifier) Notify(ctx context.Context, actorID int64, message string) Report {
	return n.send(ctx, n.Recipients(actorID), message)
}

// NotifyAll отправляет message всем администраторам (напоминания планировщика).
func (n *Notifier) NotifyAll(ctx context.Context, message string) Report {
	return n.send(ctx, n.admins, message)
}

func (n *Notifier) send(ctx context.Context, recipients []int64, message string) Report {
	report := Report{Recipients: len(recipients)}
	if len(recipients) == 0 {
		return report
	}

	failures := n.messenger.SendToMany(ctx, recipients, message)
	for _, id := range recipients {
		err, failed := failures[id]
		if failed && err != nil {
			report.Failed++
			n.metrics.Delivery(false)
			log.WithError(err).WithFields(log.Fields{
				"recipient": id,
				"rid":       common.RequestID(ctx),
			}).Warn("уведомление администратору не доставлено")
			continue
		}
		report.Delivered++
		n.metrics.Delivery(true)
	}
	return report
}
