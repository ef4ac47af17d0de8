// Package admin: service.go содержит state-машину сбора данных от администраторов:
// открытие поля → ожидание текста → проверка → коммит → уведомление остальных.
//
// Состояния: Idle → AwaitingInput(field) → Committed → Idle.
// Открытие другого поля до ответа заменяет ожидание (последнее действие побеждает).
// Таймаута нет: ожидание живёт, пока его не заменят, не отменят или не выполнят.
// Выключатели проходят Idle → Committed → Idle за один шаг.
package admin

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/features/settings"
	"serotonyl.ru/shopbot/internal/metrics"
)

// Registry разрешает ID администратора в отображаемое имя.
type Registry interface {
	Resolve(ctx context.Context, userID int64) string
}

// Service управляет админ-процессом.
type Service struct {
	store       settings.Store
	registry    Registry
	sessions    *Sessions
	notifier    *Notifier
	metrics     *metrics.Metrics
	maxAttempts int // 0: переспрашиваем бесконечно
}

// NewService создаёт сервис админ-панели.
func NewService(
	store settings.Store,
	registry Registry,
	sessions *Sessions,
	notifier *Notifier,
	m *metrics.Metrics,
	maxAttempts int,
) *Service {
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	return &Service{
		store:       store,
		registry:    registry,
		sessions:    sessions,
		notifier:    notifier,
		metrics:     m,
		maxAttempts: maxAttempts,
	}
}

// Settings возвращает текущую запись настроек (для меню).
func (s *Service) Settings(ctx context.Context) (settings.Record, error) {
	return s.store.Get(ctx)
}

// Session возвращает копию состояния администратора.
func (s *Service) Session(adminID int64) AdminSession {
	return s.sessions.Get(adminID)
}

// OpenField: Idle → AwaitingInput(field). Предыдущее ожидание молча отбрасывается.
func (s *Service) OpenField(ctx context.Context, adminID int64, field settings.Field) Result {
	var res Result
	if !field.Valid() || field.IsToggle() {
		res = Result{
			Disposition: DispositionIgnored,
			Field:       field,
			Err:         fmt.Errorf("%w: поле %q не вводится текстом", common.ErrUnknownField, string(field)),
		}
		s.finish(ctx, "open_field", adminID, &res)
		return res
	}

	tx := s.sessions.Begin(adminID)
	previous, replaced := tx.Pending()
	tx.Open(field)
	tx.Release()

	if replaced && previous != field {
		log.WithFields(log.Fields{
			"admin_id": adminID,
			"dropped":  previous,
			"field":    field,
			"rid":      common.RequestID(ctx),
		}).Debug("ожидание ввода заменено новым полем")
	}

	res = Result{Disposition: DispositionPrompted, Field: field, Prompt: PromptFor(field)}
	s.finish(ctx, "open_field", adminID, &res)
	return res
}

// Cancel сбрасывает ожидание ввода (переход в меню, /cancel).
func (s *Service) Cancel(ctx context.Context, adminID int64) Result {
	tx := s.sessions.Begin(adminID)
	field, ok := tx.Pending()
	tx.Clear()
	tx.Release()

	res := Result{Disposition: DispositionIgnored}
	if ok {
		res = Result{Disposition: DispositionCancelled, Field: field, Prompt: cancelledText}
	}
	s.finish(ctx, "cancel", adminID, &res)
	return res
}

// SubmitText обрабатывает текст администратора для ожидаемого поля.
// Без ожидаемого поля возвращает DispositionIgnored: текст не предназначен панели.
func (s *Service) SubmitText(ctx context.Context, adminID int64, text string) Result {
	res := s.submitText(ctx, adminID, text)
	s.finish(ctx, "submit_text", adminID, &res)
	return res
}

func (s *Service) submitText(ctx context.Context, adminID int64, text string) Result {
	tx := s.sessions.Begin(adminID)
	defer tx.Release()

	field, ok := tx.Pending()
	if !ok {
		return Result{Disposition: DispositionIgnored}
	}

	value, err := Validate(field, text)
	if err != nil {
		if !common.IsValidation(err) {
			tx.Clear()
			return Result{Disposition: DispositionAbandoned, Field: field, Err: err, Prompt: abandonedText(1)}
		}
		attempts := tx.RecordFailure()
		if s.maxAttempts > 0 && attempts >= s.maxAttempts {
			tx.Clear()
			return Result{Disposition: DispositionAbandoned, Field: field, Err: err, Prompt: abandonedText(attempts)}
		}
		return Result{Disposition: DispositionRejected, Field: field, Err: err, Prompt: rejectText(field, err)}
	}

	res := s.commit(ctx, adminID, field, value)
	if res.Disposition == DispositionCommitted {
		tx.Clear()
	}
	return res
}

// SubmitToggle сохраняет положение выключателя из нажатой кнопки.
// Ожидание текстового ввода не трогается. Повторное нажатие с тем же значением
// тоже рассылает уведомление.
func (s *Service) SubmitToggle(ctx context.Context, adminID int64, field settings.Field, value bool) Result {
	var res Result
	if !field.IsToggle() {
		res = Result{
			Disposition: DispositionIgnored,
			Field:       field,
			Err:         fmt.Errorf("%w: %q не выключатель", common.ErrMalformedPayload, string(field)),
		}
	} else {
		tx := s.sessions.Begin(adminID)
		res = s.commit(ctx, adminID, field, value)
		tx.Release()
	}
	s.finish(ctx, "submit_toggle", adminID, &res)
	return res
}

// commit записывает одно поле. Запись перечитывается здесь же: между шагами
// ничего не кешируется, старое значение для уведомления берётся из свежего чтения.
func (s *Service) commit(ctx context.Context, adminID int64, field settings.Field, value any) Result {
	before, err := s.store.Get(ctx)
	if err != nil {
		return Result{Disposition: DispositionFailed, Field: field, Err: storeError(err), Prompt: failureText}
	}
	oldValue, err := before.Value(field)
	if err != nil {
		return Result{Disposition: DispositionFailed, Field: field, Err: err, Prompt: failureText}
	}

	if err := s.store.Update(ctx, field, value); err != nil {
		return Result{Disposition: DispositionFailed, Field: field, Err: storeError(err), Prompt: failureText}
	}

	after := before
	if err := after.Apply(field, value); err != nil {
		return Result{Disposition: DispositionFailed, Field: field, Err: err, Prompt: failureText}
	}

	n := NewChangeNotification(adminID, s.registry.Resolve(ctx, adminID), field, oldValue, value)
	return Result{
		Disposition:  DispositionCommitted,
		Field:        field,
		Record:       after,
		Notification: &n,
		Prompt:       committedText(field, oldValue, value),
	}
}

// finish выполняется после освобождения состояния администратора:
// рассылка не держит очередь его шагов.
func (s *Service) finish(ctx context.Context, op string, adminID int64, res *Result) {
	if res.Notification != nil {
		res.Report = s.notifier.Notify(ctx, adminID, res.Notification.HumanText)
	}

	s.metrics.WorkflowStep(op, string(res.Disposition))

	entry := log.WithFields(log.Fields{
		"op":          op,
		"admin_id":    adminID,
		"field":       res.Field,
		"disposition": res.Disposition,
		"rid":         common.RequestID(ctx),
	})
	switch res.Disposition {
	case DispositionCommitted:
		entry.WithFields(log.Fields{
			"notified": res.Report.Delivered,
			"failed":   res.Report.Failed,
		}).Info("настройка изменена")
	case DispositionFailed:
		entry.WithError(res.Err).Error("изменение не сохранено")
	case DispositionRejected, DispositionAbandoned:
		entry.WithError(res.Err).Debug("ввод отклонён")
	default:
		entry.Debug("шаг админ-процесса")
	}
}

func storeError(err error) error {
	if errors.Is(err, common.ErrStoreUnavailable) || errors.Is(err, common.ErrInvalidValue) ||
		errors.Is(err, common.ErrUnknownField) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
}
