// Package admin: handlers.go связывает админ-процесс с Telegram.
// Панель работает через Reply Keyboard (разделы) и inline-кнопки (поля и выключатели)
// в личных сообщениях администратора.
package admin

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/features/settings"
	"serotonyl.ru/shopbot/internal/format"
)

// TelegramAPI: часть *tgbotapi.BotAPI, нужная обработчику.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler обрабатывает сообщения и кнопки администраторов.
type Handler struct {
	service *Service
	bot     TelegramAPI
}

// NewHandler создаёт обработчик админ-панели.
func NewHandler(service *Service, bot TelegramAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleAdminMessage обрабатывает текст администратора from в DM.
// Разделы меню и команды сбрасывают ожидание ввода; любой другой текст
// уходит в SubmitText. Возвращает false, если панели текст не нужен.
func (h *Handler) HandleAdminMessage(ctx context.Context, chatID int64, from *tgbotapi.User, text string) bool {
	if from == nil {
		return false
	}
	userID := from.ID

	switch text {
	case "/start", "/admin":
		h.service.Cancel(ctx, userID)
		h.sendHTML(chatID, "<b>✅ Админ-панель открыта</b>", adminReplyKeyboard())
		return true

	case "/cancel":
		res := h.service.Cancel(ctx, userID)
		if res.Disposition == DispositionCancelled {
			h.sendHTML(chatID, res.Prompt, nil)
		} else {
			h.sendHTML(chatID, "Нечего отменять.", nil)
		}
		return true

	case MenuEditData:
		h.service.Cancel(ctx, userID)
		h.showMenu(ctx, chatID, "<b>🖍 Изменение данных бота.</b>", settingsKeyboard)
		return true

	case MenuToggles:
		h.service.Cancel(ctx, userID)
		h.showMenu(ctx, chatID, "<b>🕹 Включение и выключение основных функций</b>", togglesKeyboard)
		return true

	case MenuStarsMarkup:
		h.service.Cancel(ctx, userID)
		rec, err := h.service.Settings(ctx)
		if err != nil {
			h.sendHTML(chatID, failureText, nil)
			return true
		}
		h.sendHTML(chatID, markupMenuText(rec), markupKeyboard(rec))
		return true
	}

	res := h.service.SubmitText(ctx, userID, text)
	switch res.Disposition {
	case DispositionIgnored:
		return false
	case DispositionCommitted:
		h.sendHTML(chatID, res.Prompt+deliverySummary(res.Report), keyboardFor(res.Field, res.Record))
		if res.Field == settings.FieldFAQ {
			h.sendHTML(chatID, faqPreview(res.Record.FAQ, from), nil)
		}
	default:
		h.sendHTML(chatID, res.Prompt, nil)
	}
	return true
}

// HandleCallback обрабатывает нажатие inline-кнопки администратором.
func (h *Handler) HandleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb == nil || cb.From == nil {
		return
	}
	userID := cb.From.ID
	data := cb.Data

	if field, ok := fieldCallbacks[data]; ok {
		res := h.service.OpenField(ctx, userID, field)
		h.answer(cb.ID, "")
		h.replaceText(cb, res.Prompt)
		return
	}

	if IsTogglePayload(data) {
		h.handleToggle(ctx, cb)
		return
	}

	switch data {
	case cbClose:
		h.service.Cancel(ctx, userID)
		h.answer(cb.ID, "")
		if cb.Message != nil {
			del := tgbotapi.NewDeleteMessage(cb.Message.Chat.ID, cb.Message.MessageID)
			if _, err := h.bot.Request(del); err != nil {
				log.WithError(err).Debug("не удалось удалить сообщение меню")
			}
		}
	default:
		// Кнопки-подписи ("...", текущая наценка) ничего не делают.
		h.answer(cb.ID, "")
	}
}

func (h *Handler) handleToggle(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	field, value, err := ParseTogglePayload(cb.Data)
	if err != nil {
		log.WithError(err).WithField("data", cb.Data).Warn("некорректные данные кнопки выключателя")
		h.answer(cb.ID, "❌ "+common.ErrMalformedPayload.Error())
		return
	}

	res := h.service.SubmitToggle(ctx, cb.From.ID, field, value)
	switch res.Disposition {
	case DispositionCommitted:
		h.answer(cb.ID, "✅ Сохранено")
		if cb.Message != nil {
			edit := tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, togglesKeyboard(res.Record))
			if _, err := h.bot.Request(edit); err != nil {
				log.WithError(err).Debug("не удалось перерисовать выключатели")
			}
		}
	case DispositionFailed:
		h.answer(cb.ID, "❌ Не удалось сохранить, попробуйте ещё раз")
	default:
		h.answer(cb.ID, "")
	}
}

func (h *Handler) showMenu(ctx context.Context, chatID int64, title string, build func(rec settings.Record) tgbotapi.InlineKeyboardMarkup) {
	rec, err := h.service.Settings(ctx)
	if err != nil {
		log.WithError(err).Error("не удалось прочитать настройки для меню")
		h.sendHTML(chatID, failureText, nil)
		return
	}
	h.sendHTML(chatID, title, build(rec))
}

// replaceText превращает сообщение меню в подсказку ввода.
func (h *Handler) replaceText(cb *tgbotapi.CallbackQuery, text string) {
	if text == "" {
		return
	}
	if cb.Message == nil {
		h.sendHTML(cb.From.ID, text, nil)
		return
	}
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := h.bot.Send(edit); err != nil {
		log.WithError(err).Debug("не удалось изменить сообщение, отправляем новое")
		h.sendHTML(cb.Message.Chat.ID, text, nil)
	}
}

func (h *Handler) answer(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.WithError(err).Debug("не удалось ответить на callback")
	}
}

func (h *Handler) sendHTML(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// faqPreview: FAQ так, как его увидит сам администратор.
func faqPreview(faq string, user *tgbotapi.User) string {
	return format.InsertTags(faq, format.Placeholders{
		UserID:    user.ID,
		Username:  user.UserName,
		FirstName: user.FirstName,
	})
}

// deliverySummary: сколько администраторов получили уведомление.
func deliverySummary(r Report) string {
	if r.Recipients == 0 {
		return ""
	}
	return "\n\n📣 Уведомлено: " + common.FormatAdminsCount(r.Delivered)
}
