package filters

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func message(chatID int64, chatType string, from *tgbotapi.User) *tgbotapi.Message {
	return &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID, Type: chatType}, From: from}
}

func TestCheckAccess(t *testing.T) {
	user := &tgbotapi.User{ID: 7}
	bot := &tgbotapi.User{ID: 8, IsBot: true}

	tests := []struct {
		name    string
		allowed int64
		msg     *tgbotapi.Message
		want    bool
	}{
		{"nil message", 0, nil, false},
		{"nil chat", 0, &tgbotapi.Message{From: user}, false},
		{"no sender", 0, message(7, "private", nil), false},
		{"from bot", 0, message(7, "private", bot), false},
		{"private", 0, message(7, "private", user), true},
		{"group not configured", 0, message(-100, "supergroup", user), false},
		{"allowed group", -100, message(-100, "supergroup", user), true},
		{"other group", -100, message(-200, "group", user), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewChatFilter(tt.allowed).CheckAccess(tt.msg); got != tt.want {
				t.Fatalf("CheckAccess = %v, want %v", got, tt.want)
			}
		})
	}
}
