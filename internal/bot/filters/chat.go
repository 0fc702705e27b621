// Package filters решает, какие сообщения бот обрабатывает.
package filters

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// ChatFilter пропускает личные сообщения и, если задан, один групповой чат.
type ChatFilter struct {
	allowedChatID int64
}

// NewChatFilter создаёт фильтр. allowedChatID == 0 — только личные сообщения.
func NewChatFilter(allowedChatID int64) *ChatFilter {
	return &ChatFilter{allowedChatID: allowedChatID}
}

// CheckAccess проверяет, можно ли обработать сообщение.
func (f *ChatFilter) CheckAccess(message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil {
		log.WithField("component", "ChatFilter").Warn("nil message/chat")
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Debug("deny: сообщение без отправителя (канал или служебное)")
		return false
	}
	if message.From.IsBot {
		return false
	}

	logger := log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
		"user_id":   message.From.ID,
	})

	if message.Chat.IsPrivate() {
		return true
	}
	if f.allowedChatID != 0 && message.Chat.ID == f.allowedChatID {
		return true
	}
	logger.Debug("deny: чат не разрешён")
	return false
}
