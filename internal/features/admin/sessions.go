package admin

import (
	"sync"
	"time"

	"serotonyl.ru/shopbot/internal/features/settings"
)

// Sessions хранит состояния диалогов администраторов (in-memory).
//
// У каждого администратора свой мьютекс: шаги разных администраторов
// не конкурируют, шаги одного администратора выполняются строго по очереди.
// Общий мьютекс защищает только саму карту.
type Sessions struct {
	mu    sync.Mutex
	slots map[int64]*sessionSlot
	now   func() time.Time
}

type sessionSlot struct {
	mu      sync.Mutex
	session AdminSession
}

// NewSessions создаёт пустое хранилище состояний.
func NewSessions() *Sessions {
	return &Sessions{
		slots: make(map[int64]*sessionSlot),
		now:   time.Now,
	}
}

func (s *Sessions) slot(adminID int64) *sessionSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[adminID]
	if !ok {
		sl = &sessionSlot{session: AdminSession{AdminID: adminID}}
		s.slots[adminID] = sl
	}
	return sl
}

// Begin захватывает состояние администратора на время одного шага.
// Второй шаг того же администратора ждёт Release первого.
func (s *Sessions) Begin(adminID int64) *SessionTx {
	sl := s.slot(adminID)
	sl.mu.Lock()
	return &SessionTx{slot: sl, now: s.now}
}

// Open открывает поле для ввода, заменяя предыдущее.
func (s *Sessions) Open(adminID int64, field settings.Field) {
	tx := s.Begin(adminID)
	defer tx.Release()
	tx.Open(field)
}

// Match возвращает ожидаемое поле, если оно есть. Состояние не меняется.
func (s *Sessions) Match(adminID int64) (settings.Field, bool) {
	tx := s.Begin(adminID)
	defer tx.Release()
	return tx.Pending()
}

// Clear сбрасывает ожидание ввода.
func (s *Sessions) Clear(adminID int64) {
	tx := s.Begin(adminID)
	defer tx.Release()
	tx.Clear()
}

// Get возвращает копию состояния администратора.
func (s *Sessions) Get(adminID int64) AdminSession {
	tx := s.Begin(adminID)
	defer tx.Release()
	return tx.Session()
}

// SessionTx: захваченное состояние одного администратора.
type SessionTx struct {
	slot     *sessionSlot
	now      func() time.Time
	released bool
}

// Session возвращает копию состояния.
func (tx *SessionTx) Session() AdminSession {
	return tx.slot.session
}

// Pending возвращает ожидаемое поле.
func (tx *SessionTx) Pending() (settings.Field, bool) {
	f := tx.slot.session.PendingField
	return f, f != settings.FieldNone
}

// Open ставит ожидание поля field и сбрасывает счётчик попыток.
func (tx *SessionTx) Open(field settings.Field) {
	tx.slot.session.PendingField = field
	tx.slot.session.OpenedAt = tx.now()
	tx.slot.session.Attempts = 0
}

// Clear сбрасывает ожидание. Брошенный ввод нигде не сохраняется.
func (tx *SessionTx) Clear() {
	tx.slot.session.PendingField = settings.FieldNone
	tx.slot.session.OpenedAt = time.Time{}
	tx.slot.session.Attempts = 0
}

// RecordFailure учитывает неудачную попытку и возвращает их число.
func (tx *SessionTx) RecordFailure() int {
	tx.slot.session.Attempts++
	return tx.slot.session.Attempts
}

// Release отпускает состояние. Повторный вызов ничего не делает.
func (tx *SessionTx) Release() {
	if tx.released {
		return
	}
	tx.released = true
	tx.slot.mu.Unlock()
}
