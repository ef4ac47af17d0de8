package format

import (
	"strconv"
	"strings"
)

// Placeholders: данные пользователя для подстановки в текст FAQ.
type Placeholders struct {
	UserID    int64
	Username  string
	FirstName string
}

// ProbePlaceholders: образцовые значения для пробного рендера до сохранения.
var ProbePlaceholders = Placeholders{
	UserID:    1000000001,
	Username:  "username",
	FirstName: "Имя",
}

// InsertTags подставляет {username}, {user_id} и {firstname}.
// Значения экранируются: имя пользователя не должно ломать разметку FAQ.
func InsertTags(text string, p Placeholders) string {
	username := p.Username
	if username == "" {
		username = "-"
	}
	r := strings.NewReplacer(
		"{username}", Escape(username),
		"{user_id}", strconv.FormatInt(p.UserID, 10),
		"{firstname}", Escape(p.FirstName),
	)
	return r.Replace(text)
}

// RenderProbe выполняет пробный рендер: подстановка тегов и проверка разметки.
// Ошибка означает, что Telegram отклонил бы такой текст.
func RenderProbe(text string) error {
	return CheckHTML(InsertTags(text, ProbePlaceholders))
}
