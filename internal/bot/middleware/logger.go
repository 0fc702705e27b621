// Package middleware содержит промежуточные обработчики апдейтов:
// логирование, перехват паник и ограничение частоты.
package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

const logTextRunes = 50

// LogMessage логирует входящее сообщение на уровне debug.
// Текст обрезается до первых 50 символов.
func LogMessage(message *tgbotapi.Message) {
	if message == nil {
		return
	}
	fields := log.Fields{"text": truncate(message.Text, logTextRunes)}
	if message.From != nil {
		fields["user_id"] = message.From.ID
		fields["username"] = message.From.UserName
	}
	if message.Chat != nil {
		fields["chat_id"] = message.Chat.ID
		fields["chat_type"] = message.Chat.Type
	}
	log.WithFields(fields).Debug("Входящее сообщение")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
