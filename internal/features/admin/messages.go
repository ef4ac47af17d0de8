package admin

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/features/settings"
	"serotonyl.ru/shopbot/internal/format"
)

const faqPreviewRunes = 120

// PromptFor: подсказка о формате ввода для поля.
func PromptFor(field settings.Field) string {
	switch field {
	case settings.FieldSupport:
		return "<b>☎️ Отправьте юзернейм для поддержки.</b>\n" +
			"❕ Юзернейм пользователя/бота/канала/чата."
	case settings.FieldFAQ:
		return "<b>❔ Введите новый текст для FAQ</b>\n" +
			"❕ Вы можете использовать заготовленный синтаксис и HTML разметку:\n" +
			"▶️ <code>{username}</code>  - логин пользователя\n" +
			"▶️ <code>{user_id}</code>   - айди пользователя\n" +
			"▶️ <code>{firstname}</code> - имя пользователя"
	case settings.FieldStarsMarkup:
		return "<b>⭐ Введите новый процент наценки на звезды</b>\n" +
			"▪️ Введите число от 0 до 100\n" +
			"▪️ Пример: <code>10</code> - наценка 10%\n" +
			"▪️ <code>0</code> - без наценки (не рекомендуется)"
	default:
		return ""
	}
}

// rejectText: ошибка ввода плюс исходная подсказка.
func rejectText(field settings.Field, err error) string {
	var head string
	switch {
	case errors.Is(err, common.ErrOutOfRange):
		head = "<b>❌ Ошибка! Наценка должна быть от 0 до 100%</b>"
	case errors.Is(err, common.ErrNotANumber):
		head = "<b>❌ Ошибка! Введите корректное число</b>"
	case errors.Is(err, common.ErrSyntax):
		head = "<b>❌ Ошибка синтаксиса HTML.</b>"
		var ve *common.ValidationError
		if errors.As(err, &ve) && ve.Reason != "" {
			head += "\n<i>" + format.Escape(ve.Reason) + "</i>"
		}
	default:
		head = "<b>❌ Некорректное значение.</b>"
	}
	return head + "\n\n" + PromptFor(field)
}

func abandonedText(attempts int) string {
	return fmt.Sprintf("<b>❌ Ввод отменён после %d %s.</b>\nОткройте меню заново, чтобы попробовать ещё раз.",
		attempts, common.PluralizeAttempts(attempts))
}

const failureText = "<b>❌ Не удалось сохранить изменения.</b>\n" +
	"Хранилище настроек недоступно. Отправьте значение ещё раз чуть позже."

const cancelledText = "<b>↩️ Ввод отменён.</b>"

// committedText: ответ действующему администратору после сохранения.
func committedText(field settings.Field, oldValue, newValue any) string {
	switch field {
	case settings.FieldStarsMarkup:
		return fmt.Sprintf("<b>✅ Наценка на звезды успешно изменена!</b>\n"+
			"▪️ Старая наценка: <code>%v%%</code>\n"+
			"▪️ Новая наценка: <code>%v%%</code>", oldValue, newValue)
	default:
		return "<b>🖍 Изменение данных бота.</b>"
	}
}

// toggleText: человеческая фраза о новом положении выключателя.
func toggleText(field settings.Field, on bool) string {
	switch field {
	case settings.FieldWork:
		if on {
			return "🔴 Отправил бота на технические работы."
		}
		return "🟢 Вывел бота из технических работ."
	case settings.FieldBuy:
		if on {
			return "🟢 Включил покупки в боте."
		}
		return "🔴 Выключил покупки в боте."
	case settings.FieldRefill:
		if on {
			return "🟢 Включил пополнения в боте."
		}
		return "🔴 Выключил пополнения в боте."
	case settings.FieldStarsBuy:
		if on {
			return "🟢 Включил кнопку 'Купить звезды' в главном меню."
		}
		return "🔴 Выключил кнопку 'Купить звезды' в главном меню."
	}
	return ""
}

func supportLabel(handle string) string {
	if handle == "" {
		return "не установлена"
	}
	return "@" + format.Escape(handle)
}

// changeLine описывает изменение поля в человеческих единицах.
func changeLine(field settings.Field, oldValue, newValue any) string {
	switch field.Kind() {
	case settings.KindBool:
		on, _ := newValue.(bool)
		return toggleText(field, on)
	}

	switch field {
	case settings.FieldStarsMarkup:
		return fmt.Sprintf("⭐ Изменил наценку на звезды: %v%% → %v%%", oldValue, newValue)
	case settings.FieldSupport:
		oldHandle, _ := oldValue.(string)
		newHandle, _ := newValue.(string)
		return fmt.Sprintf("☎️ Изменил поддержку: %s → %s", supportLabel(oldHandle), supportLabel(newHandle))
	case settings.FieldFAQ:
		text, _ := newValue.(string)
		return fmt.Sprintf("❔ Изменил текст FAQ (%d симв.):\n<i>%s</i>",
			utf8.RuneCountInString(text), format.Escape(common.Truncate(text, faqPreviewRunes)))
	}
	return fmt.Sprintf("🖍 Изменил %s", format.Escape(field.Title()))
}

// NewChangeNotification собирает уведомление для остальных администраторов.
func NewChangeNotification(actorID int64, actorName string, field settings.Field, oldValue, newValue any) ChangeNotification {
	text := fmt.Sprintf("👤 Администратор <a href='tg://user?id=%d'>%s</a>\n%s",
		actorID, format.Escape(actorName), changeLine(field, oldValue, newValue))
	return ChangeNotification{
		ActorID:   actorID,
		ActorName: actorName,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		HumanText: text,
	}
}

// MaintenanceReminder: напоминание о включённых тех. работах.
const MaintenanceReminder = "<b>⛔ Бот всё ещё на технических работах.</b>\n" +
	"Покупки и пополнения недоступны пользователям. Выключите режим в «🕹 Выключатели», когда закончите."
