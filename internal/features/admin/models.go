// Package admin реализует админ-панель настроек магазина.
// models.go описывает состояние диалога с администратором, исходы шагов
// и уведомление об изменении.
package admin

import (
	"time"

	"serotonyl.ru/shopbot/internal/features/settings"
)

// AdminSession: состояние диалога с одним администратором.
// PendingField: поле, которым будет истолкован следующий текст администратора.
// Новое открытие поля молча заменяет предыдущее.
type AdminSession struct {
	AdminID      int64
	PendingField settings.Field // settings.FieldNone: ничего не ждём
	OpenedAt     time.Time
	Attempts     int // неудачных попыток ввода подряд для PendingField
}

// Awaiting сообщает, ждёт ли бот ввода от администратора.
func (s AdminSession) Awaiting() bool {
	return s.PendingField != settings.FieldNone
}

// Disposition: исход одного шага админ-процесса.
type Disposition string

const (
	// DispositionPrompted: поле открыто, администратору показана подсказка
	DispositionPrompted Disposition = "prompted"
	// DispositionRejected: ввод не прошёл проверку, ждём то же поле снова
	DispositionRejected Disposition = "rejected"
	// DispositionAbandoned: ввод больше не ждём (лимит попыток или неисправимая ошибка)
	DispositionAbandoned Disposition = "abandoned"
	// DispositionCommitted: значение сохранено, уведомление разослано
	DispositionCommitted Disposition = "committed"
	// DispositionFailed: хранилище недоступно, ожидание поля сохранено для повтора
	DispositionFailed Disposition = "failed"
	// DispositionCancelled: ожидание ввода отменено администратором
	DispositionCancelled Disposition = "cancelled"
	// DispositionIgnored: шагу нечего делать (нет ожидаемого поля, чужая кнопка)
	DispositionIgnored Disposition = "ignored"
)

// Result: исход шага. Prompt, текст ответа действующему администратору (HTML).
type Result struct {
	Disposition  Disposition
	Field        settings.Field
	Err          error
	Prompt       string
	Record       settings.Record     // запись после коммита, для перерисовки меню
	Notification *ChangeNotification // только для DispositionCommitted
	Report       Report              // итог рассылки уведомления
}

// ChangeNotification: уведомление об изменении настройки. Нигде не хранится.
type ChangeNotification struct {
	ActorID   int64
	ActorName string
	Field     settings.Field
	OldValue  any
	NewValue  any
	HumanText string
}
