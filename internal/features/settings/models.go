// Package settings владеет единственной записью настроек бота:
// выключатели, наценка на звёзды, контакт поддержки и текст FAQ.
// models.go описывает запись и каталог её полей.
package settings

import (
	"fmt"

	"serotonyl.ru/shopbot/internal/common"
)

// Field: имя поля настроек. Значение совпадает с именем колонки в БД.
type Field string

// Поля настроек
const (
	FieldNone        Field = ""
	FieldWork        Field = "status_work"      // Тех. работы
	FieldBuy         Field = "status_buy"       // Покупки
	FieldRefill      Field = "status_refill"    // Пополнения
	FieldStarsBuy    Field = "status_stars_buy" // Кнопка «Купить звёзды»
	FieldStarsMarkup Field = "stars_markup"     // Наценка на звёзды, 0..100
	FieldSupport     Field = "misc_support"     // Юзернейм поддержки без @
	FieldFAQ         Field = "misc_faq"         // Текст FAQ (HTML)
)

// Границы наценки на звёзды (включительно)
const (
	MinStarsMarkup = 0
	MaxStarsMarkup = 100
)

// Kind: тип значения поля.
type Kind int

const (
	KindUnknown Kind = iota
	KindBool
	KindInt
	KindText
)

// Kind возвращает тип значения поля.
func (f Field) Kind() Kind {
	switch f {
	case FieldWork, FieldBuy, FieldRefill, FieldStarsBuy:
		return KindBool
	case FieldStarsMarkup:
		return KindInt
	case FieldSupport, FieldFAQ:
		return KindText
	default:
		return KindUnknown
	}
}

// IsToggle сообщает, является ли поле выключателем.
func (f Field) IsToggle() bool { return f.Kind() == KindBool }

// Valid сообщает, известно ли поле.
func (f Field) Valid() bool { return f.Kind() != KindUnknown }

// Title: человекочитаемое название поля для сообщений.
func (f Field) Title() string {
	switch f {
	case FieldWork:
		return "Тех. работы"
	case FieldBuy:
		return "Покупки"
	case FieldRefill:
		return "Пополнения"
	case FieldStarsBuy:
		return "Купить звезды"
	case FieldStarsMarkup:
		return "Наценка на звезды"
	case FieldSupport:
		return "Поддержка"
	case FieldFAQ:
		return "FAQ"
	default:
		return string(f)
	}
}

func (f Field) String() string { return string(f) }

// Fields: все поля в порядке отображения.
var Fields = []Field{
	FieldWork, FieldRefill, FieldBuy, FieldStarsBuy,
	FieldStarsMarkup, FieldSupport, FieldFAQ,
}

// Record: запись настроек бота (синглтон на процесс).
type Record struct {
	StatusWork     bool   `db:"status_work"`
	StatusBuy      bool   `db:"status_buy"`
	StatusRefill   bool   `db:"status_refill"`
	StatusStarsBuy bool   `db:"status_stars_buy"`
	StarsMarkup    int    `db:"stars_markup"`
	Support        string `db:"misc_support"` // пусто: не установлена
	FAQ            string `db:"misc_faq"`     // пусто: не установлено
}

// Defaults возвращает значения для только что созданной записи.
func Defaults() Record {
	return Record{
		StatusWork:     false,
		StatusBuy:      true,
		StatusRefill:   true,
		StatusStarsBuy: true,
		StarsMarkup:    10,
	}
}

// Value возвращает значение поля (bool, int или string).
func (r Record) Value(f Field) (any, error) {
	switch f {
	case FieldWork:
		return r.StatusWork, nil
	case FieldBuy:
		return r.StatusBuy, nil
	case FieldRefill:
		return r.StatusRefill, nil
	case FieldStarsBuy:
		return r.StatusStarsBuy, nil
	case FieldStarsMarkup:
		return r.StarsMarkup, nil
	case FieldSupport:
		return r.Support, nil
	case FieldFAQ:
		return r.FAQ, nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownField, string(f))
	}
}

// Apply записывает value в поле f. Запись меняется только при успехе.
func (r *Record) Apply(f Field, value any) error {
	if err := CheckValue(f, value); err != nil {
		return err
	}
	switch f {
	case FieldWork:
		r.StatusWork = value.(bool)
	case FieldBuy:
		r.StatusBuy = value.(bool)
	case FieldRefill:
		r.StatusRefill = value.(bool)
	case FieldStarsBuy:
		r.StatusStarsBuy = value.(bool)
	case FieldStarsMarkup:
		r.StarsMarkup = value.(int)
	case FieldSupport:
		r.Support = value.(string)
	case FieldFAQ:
		r.FAQ = value.(string)
	}
	return nil
}

// CheckValue проверяет, что value подходит полю по типу и инвариантам записи.
// Хранилища вызывают её перед записью.
func CheckValue(f Field, value any) error {
	switch f.Kind() {
	case KindBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: %s ожидает bool, получено %T", common.ErrInvalidValue, f, value)
		}
	case KindInt:
		n, ok := value.(int)
		if !ok {
			return fmt.Errorf("%w: %s ожидает int, получено %T", common.ErrInvalidValue, f, value)
		}
		if n < MinStarsMarkup || n > MaxStarsMarkup {
			return fmt.Errorf("%w: %s = %d", common.ErrInvalidValue, f, n)
		}
	case KindText:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: %s ожидает string, получено %T", common.ErrInvalidValue, f, value)
		}
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownField, string(f))
	}
	return nil
}
