// Package members: реестр пользователей бота.
// models.go описывает запись о пользователе, по которой администратору
// подбирается отображаемое имя в уведомлениях.
package members

import (
	"strconv"
	"time"
)

// Member: пользователь, хоть раз писавший боту.
type Member struct {
	ID        int64     `db:"id"`         // Автоинкрементный ID записи в БД
	UserID    int64     `db:"user_id"`    // Telegram user ID (уникальный)
	Username  string    `db:"username"`   // @username (может быть пустым)
	FirstName string    `db:"first_name"` // Имя пользователя
	LastName  string    `db:"last_name"`  // Фамилия (может быть пустой)
	IsAdmin   bool      `db:"is_admin"`   // Входит в ADMIN_IDS на момент последнего апдейта
	CreatedAt time.Time `db:"created_at"` // Когда запись создана в БД
	UpdatedAt time.Time `db:"updated_at"` // Последнее обновление записи
}

// DisplayName возвращает отображаемое имя пользователя.
// Имя и фамилия; без них @username; без него числовой ID.
func (m *Member) DisplayName() string {
	name := m.FirstName
	if m.LastName != "" {
		if name != "" {
			name += " "
		}
		name += m.LastName
	}
	if name != "" {
		return name
	}
	if m.Username != "" {
		return "@" + m.Username
	}
	return strconv.FormatInt(m.UserID, 10)
}
