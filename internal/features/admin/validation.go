package admin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/features/settings"
	"serotonyl.ru/shopbot/internal/format"
)

// Validate проверяет текст администратора для поля field и возвращает типизированное значение.
// Ошибки ввода: *common.ValidationError; для полей, которые нельзя вводить текстом,
// возвращается common.ErrUnknownField.
func Validate(field settings.Field, raw string) (any, error) {
	switch field {
	case settings.FieldStarsMarkup:
		return validateMarkup(raw)

	case settings.FieldSupport:
		// Пустая строка допустима: поддержка сбрасывается.
		return strings.TrimPrefix(raw, "@"), nil

	case settings.FieldFAQ:
		if err := format.RenderProbe(raw); err != nil {
			return nil, common.NewValidationError(string(field), common.ErrSyntax, err.Error())
		}
		return raw, nil

	default:
		return nil, fmt.Errorf("%w: поле %q не вводится текстом", common.ErrUnknownField, string(field))
	}
}

func validateMarkup(raw string) (int, error) {
	field := string(settings.FieldStarsMarkup)

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, common.NewValidationError(field, common.ErrOutOfRange, "число слишком большое")
		}
		return 0, common.NewValidationError(field, common.ErrNotANumber, "")
	}
	if n < settings.MinStarsMarkup || n > settings.MaxStarsMarkup {
		return 0, common.NewValidationError(field, common.ErrOutOfRange,
			fmt.Sprintf("%d не входит в %d..%d", n, settings.MinStarsMarkup, settings.MaxStarsMarkup))
	}
	return n, nil
}

// Префиксы callback-данных выключателей: "turn_work:True".
var togglePrefixes = map[string]settings.Field{
	"turn_work":      settings.FieldWork,
	"turn_buy":       settings.FieldBuy,
	"turn_pay":       settings.FieldRefill,
	"turn_stars_buy": settings.FieldStarsBuy,
}

// toggleCallback собирает callback-данные кнопки выключателя.
func toggleCallback(field settings.Field, value bool) string {
	for prefix, f := range togglePrefixes {
		if f == field {
			if value {
				return prefix + ":True"
			}
			return prefix + ":False"
		}
	}
	return ""
}

// ParseTogglePayload разбирает callback-данные выключателя.
func ParseTogglePayload(data string) (settings.Field, bool, error) {
	prefix, rawValue, ok := strings.Cut(data, ":")
	if !ok {
		return settings.FieldNone, false, fmt.Errorf("%w: %q", common.ErrMalformedPayload, data)
	}
	field, ok := togglePrefixes[prefix]
	if !ok {
		return settings.FieldNone, false, fmt.Errorf("%w: неизвестный выключатель %q", common.ErrMalformedPayload, prefix)
	}
	value, err := strconv.ParseBool(rawValue)
	if err != nil {
		return settings.FieldNone, false, fmt.Errorf("%w: %q не bool", common.ErrMalformedPayload, rawValue)
	}
	return field, value, nil
}

// IsTogglePayload сообщает, относятся ли callback-данные к выключателю.
func IsTogglePayload(data string) bool {
	prefix, _, ok := strings.Cut(data, ":")
	if !ok {
		return false
	}
	_, ok = togglePrefixes[prefix]
	return ok
}
