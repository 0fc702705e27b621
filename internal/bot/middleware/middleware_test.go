package middleware

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute, func() time.Time { return now })

	if !rl.Allow(1) || !rl.Allow(1) {
		t.Fatal("first two requests must pass")
	}
	if rl.Allow(1) {
		t.Fatal("third request within window must be limited")
	}
	if !rl.Allow(2) {
		t.Fatal("other users are not affected")
	}

	now = now.Add(61 * time.Second)
	if !rl.Allow(1) {
		t.Fatal("request after window must pass")
	}

	now = now.Add(2 * time.Minute)
	rl.sweep()
	if len(rl.requests) != 0 {
		t.Fatalf("sweep left %d users", len(rl.requests))
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := newRateLimiter(0, time.Minute, time.Now)
	for i := 0; i < 100; i++ {
		if !rl.Allow(1) {
			t.Fatal("limit 0 must not limit")
		}
	}
}

func TestRecoverFromPanic(t *testing.T) {
	func() {
		defer RecoverFromPanic(1)
		panic("boom")
	}()
}

func TestLogMessageToleratesNil(t *testing.T) {
	LogMessage(nil)
	LogMessage(&tgbotapi.Message{Text: "канал без отправителя"})
}

func TestTruncateRunes(t *testing.T) {
	if got := truncate("привет", 3); got != "при..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("ok", 3); got != "ok" {
		t.Fatalf("truncate = %q", got)
	}
}
