package admin

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/features/settings"
)

// Кнопки reply-клавиатуры админ-панели
const (
	MenuEditData    = "🖍 Изменить данные"
	MenuToggles     = "🕹 Выключатели"
	MenuStarsMarkup = "⭐ Наценка на звезды"
)

// Callback-данные inline-кнопок
const (
	cbEditSupport   = "settings_edit_support"
	cbEditFAQ       = "settings_edit_faq"
	cbEditMarkup    = "stars_markup_edit"
	cbMarkupCurrent = "stars_markup_current"
	cbClose         = "close_this"
	cbLabel         = "..."
)

// fieldCallbacks: кнопки, открывающие ввод поля.
var fieldCallbacks = map[string]settings.Field{
	cbEditSupport: settings.FieldSupport,
	cbEditFAQ:     settings.FieldFAQ,
	cbEditMarkup:  settings.FieldStarsMarkup,
}

func adminReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuEditData),
			tgbotapi.NewKeyboardButton(MenuToggles),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuStarsMarkup),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func labelButton(text string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, cbLabel)
}

// settingsKeyboard: FAQ и поддержка с текущими значениями.
func settingsKeyboard(rec settings.Record) tgbotapi.InlineKeyboardMarkup {
	support := "Не установлена ❌"
	if rec.Support != "" {
		support = fmt.Sprintf("@%s ✅", rec.Support)
	}
	faq := "Не установлено ❌"
	if rec.FAQ != "" {
		faq = common.Truncate(rec.FAQ, 15) + " ✅"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			labelButton("❔ FAQ"),
			tgbotapi.NewInlineKeyboardButtonData(faq, cbEditFAQ),
		),
		tgbotapi.NewInlineKeyboardRow(
			labelButton("☎️ Поддержка"),
			tgbotapi.NewInlineKeyboardButtonData(support, cbEditSupport),
		),
	)
}

// toggleButton показывает текущее положение и при нажатии переключает его.
func toggleButton(field settings.Field, on bool, onLabel, offLabel string) tgbotapi.InlineKeyboardButton {
	if on {
		return tgbotapi.NewInlineKeyboardButtonData(onLabel+" ✅", toggleCallback(field, false))
	}
	return tgbotapi.NewInlineKeyboardButtonData(offLabel+" ❌", toggleCallback(field, true))
}

// togglesKeyboard: выключатели основных функций.
func togglesKeyboard(rec settings.Record) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			labelButton("⛔ Тех. работы"),
			toggleButton(settings.FieldWork, rec.StatusWork, "Включены", "Выключены"),
		),
		tgbotapi.NewInlineKeyboardRow(
			labelButton("💰 Пополнения"),
			toggleButton(settings.FieldRefill, rec.StatusRefill, "Включены", "Выключены"),
		),
		tgbotapi.NewInlineKeyboardRow(
			labelButton("🎁 Покупки"),
			toggleButton(settings.FieldBuy, rec.StatusBuy, "Включены", "Выключены"),
		),
		tgbotapi.NewInlineKeyboardRow(
			labelButton("⭐ Купить звезды"),
			toggleButton(settings.FieldStarsBuy, rec.StatusStarsBuy, "Включена", "Выключена"),
		),
	)
}

// markupKeyboard: текущая наценка и кнопка изменения.
func markupKeyboard(rec settings.Record) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			labelButton("⭐ Текущая наценка"),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d%%", rec.StarsMarkup), cbMarkupCurrent),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🖍 Изменить наценку", cbEditMarkup),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Закрыть", cbClose),
		),
	)
}

// keyboardFor: меню, которое перерисовывается после изменения поля.
func keyboardFor(field settings.Field, rec settings.Record) tgbotapi.InlineKeyboardMarkup {
	switch {
	case field.IsToggle():
		return togglesKeyboard(rec)
	case field == settings.FieldStarsMarkup:
		return markupKeyboard(rec)
	default:
		return settingsKeyboard(rec)
	}
}

func markupMenuText(rec settings.Record) string {
	return fmt.Sprintf("<b>⭐ Настройка наценки на звезды Telegram</b>\n"+
		"➖➖➖➖➖➖➖➖➖➖\n"+
		"▪️ Текущая наценка: <code>%d%%</code>\n"+
		"▪️ При покупке звезд, бот автоматически добавляет наценку к стоимости\n"+
		"▪️ Разница остается на балансе CryptoBot как ваша комиссия\n"+
		"➖➖➖➖➖➖➖➖➖➖\n"+
		"<i>Пример: при наценке 10%%, если звезды стоят 100$, пользователь заплатит 110$</i>",
		rec.StarsMarkup)
}
