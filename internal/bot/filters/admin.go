// Package filters решает, какие апдейты вообще доходят до обработчиков.
package filters

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// AdminFilter пропускает только администраторов из ADMIN_IDS и только в личке.
type AdminFilter struct {
	admins map[int64]struct{}
}

func NewAdminFilter(adminIDs []int64) *AdminFilter {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &AdminFilter{admins: admins}
}

// IsAdmin: входит ли userID в список администраторов.
func (f *AdminFilter) IsAdmin(userID int64) bool {
	_, ok := f.admins[userID]
	return ok
}

// CheckMessage: сообщение от администратора в личных сообщениях.
func (f *AdminFilter) CheckMessage(message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil {
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "AdminFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Debug("nil message.From (service/channel message?)")
		return false
	}

	logger := log.WithFields(log.Fields{
		"component": "AdminFilter",
		"chat_id":   message.Chat.ID,
		"user_id":   message.From.ID,
	})

	if !message.Chat.IsPrivate() {
		logger.Debug("deny: not a private chat")
		return false
	}
	if !f.IsAdmin(message.From.ID) {
		logger.Debug("deny: not an admin")
		return false
	}
	return true
}

// CheckCallback: нажатие кнопки администратором.
func (f *AdminFilter) CheckCallback(cb *tgbotapi.CallbackQuery) bool {
	if cb == nil || cb.From == nil {
		return false
	}
	if !f.IsAdmin(cb.From.ID) {
		log.WithFields(log.Fields{
			"component": "AdminFilter",
			"user_id":   cb.From.ID,
		}).Debug("deny callback: not an admin")
		return false
	}
	return true
}
