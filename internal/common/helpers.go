// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: ошибки, русская плюрализация, работа с временем и текстом.
package common

import (
	"time"
	"unicode/utf8"
)

// LoadLocation загружает часовой пояс бота.
// Если tzdata недоступна и зона московская: используем UTC+3 вручную.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc
	}
	if name == "Europe/Moscow" {
		return time.FixedZone("MSK", 3*60*60)
	}
	return time.UTC
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04" в зоне loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02.01.2006 15:04")
}

// Truncate обрезает строку до n символов (рун), добавляя "..." если текст длиннее.
//
// Примеры:
//
//	Truncate("Привет, мир", 6) → "Привет..."
//	Truncate("FAQ", 15)        → "FAQ"
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
