// Package common: errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять администратору понятные сообщения.
package common

import (
	"errors"
	"fmt"
)

// Ошибки валидации ввода (восстановимые: бот переспрашивает значение)
var (
	// ErrNotANumber: ожидалось целое число
	ErrNotANumber = errors.New("введите корректное число")
	// ErrOutOfRange: число вне допустимого диапазона
	ErrOutOfRange = errors.New("значение вне допустимого диапазона")
	// ErrSyntax: текст не проходит проверку HTML-разметки
	ErrSyntax = errors.New("ошибка синтаксиса HTML")
)

// Ошибки хранилища настроек
var (
	// ErrStoreUnavailable: хранилище недоступно, изменение не применено
	ErrStoreUnavailable = errors.New("хранилище настроек недоступно")
	// ErrUnknownField: поле настроек не существует
	ErrUnknownField = errors.New("неизвестное поле настроек")
	// ErrInvalidValue: тип значения не подходит для поля
	ErrInvalidValue = errors.New("некорректное значение для поля")
)

// Ошибки админки
var (
	// ErrNotAdmin: пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrMalformedPayload: кнопка прислала неожиданные данные
	ErrMalformedPayload = errors.New("некорректные данные кнопки")
	// ErrDeliveryFailed: сообщение не доставлено конкретному получателю
	ErrDeliveryFailed = errors.New("сообщение не доставлено")
	// ErrUserNotFound: пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
)

// ValidationError описывает отклонённый ввод администратора.
// Kind: одна из ErrNotANumber, ErrOutOfRange, ErrSyntax.
type ValidationError struct {
	Field  string
	Kind   error
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Kind, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// NewValidationError создаёт ошибку валидации для поля.
func NewValidationError(field string, kind error, reason string) *ValidationError {
	return &ValidationError{Field: field, Kind: kind, Reason: reason}
}

// IsValidation сообщает, является ли err ошибкой валидации ввода.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
