// Package leaderboard — handlers.go обрабатывает /top и /recompute.
package leaderboard

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
)

// Handler обрабатывает команды рейтинга.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
	size    int
}

// NewHandler создаёт обработчик команд рейтинга.
func NewHandler(service *Service, bot *tgbotapi.BotAPI, size int) *Handler {
	return &Handler{service: service, bot: bot, size: size}
}

// HandleTop — /top
func (h *Handler) HandleTop(ctx context.Context, chatID int64) {
	rows := h.service.Top(ctx, h.size)
	if len(rows) == 0 {
		h.sendMessage(chatID, "🏆 Рейтинг пуст. Зарегистрируйтесь: /signup email")
		return
	}
	h.sendMessage(chatID, Format(rows))
}

// HandleRecompute — /recompute (только администраторы)
func (h *Handler) HandleRecompute(ctx context.Context, chatID, userID int64, isAdmin bool) {
	if !isAdmin {
		h.sendMessage(chatID, "❌ "+common.ErrNotAdmin.Error())
		return
	}
	rows, err := h.service.Recompute(ctx)
	if err != nil {
		log.WithError(err).WithField("admin_id", userID).Error("Ошибка пересчёта рейтинга")
		h.sendMessage(chatID, "❌ Не удалось сохранить рейтинг")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Рейтинг пересчитан, мест: %d", len(rows)))
}

// Format выводит рейтинг текстом.
func Format(rows []Entry) string {
	var sb strings.Builder
	sb.WriteString("🏆 Рейтинг сообщества\n\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s %s — %d баллов\n   💧 %s · 🌍 %s\n",
			medal(r.Rank), r.DisplayName, r.EcoScore,
			common.FormatLiters(float64(r.WaterSaved)), common.FormatKg(float64(r.CarbonReduced))))
		if len(r.Badges) > 0 {
			sb.WriteString("   🏅 " + strings.Join(r.Badges, ", ") + "\n")
		}
	}
	return sb.String()
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
