// Package stats — handlers.go обрабатывает команды:
// /today, /week, /profile, /trend, /share, /export.
package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/features/accounts"
	"serotonyl.ru/ecotrack/internal/scoring"
)

// Handler обрабатывает команды статистики.
type Handler struct {
	service  *Service
	accounts *accounts.Service
	bot      *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд статистики.
func NewHandler(service *Service, accountsService *accounts.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, accounts: accountsService, bot: bot}
}

func (h *Handler) actor(ctx context.Context, userID int64) accounts.Actor {
	return h.accounts.Current(ctx, accounts.SessionFor(userID))
}

// HandleToday — /today
func (h *Handler) HandleToday(ctx context.Context, chatID, userID int64) {
	d, err := h.service.Dashboard(ctx, h.actor(ctx, userID))
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Сегодня\n\n🌍 Эко-балл: %d (%s)\n💧 Вода: %s из %.0f (%.0f/50)\n🏭 CO₂: %s из %.0f кг (%.0f/50)\n\n",
		d.EcoScore, levelLabel(d.Level),
		common.FormatLiters(float64(d.TodayWater)), scoring.DailyWaterTarget, d.WaterScore,
		common.FormatKg(d.TodayCarbon), scoring.DailyCarbonTarget, d.CarbonScore))
	sb.WriteString("💧 Вода за неделю:\n")
	for _, day := range d.WaterWeek {
		sb.WriteString(fmt.Sprintf("  %s %s\n", day.Label, common.FormatLiters(float64(day.Total))))
	}
	h.sendMessage(chatID, sb.String())
}

// HandleWeek — /week
func (h *Handler) HandleWeek(ctx context.Context, chatID, userID int64) {
	w, err := h.service.Week(ctx, h.actor(ctx, userID))
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	text := fmt.Sprintf("📅 Последние 7 дней\n\n🌍 Эко-балл: %d\n💧 Израсходовано: %s, сэкономлено: %s\n🏭 Выбросы: %s, сокращено: %s\n📆 Активных дней: %d\n",
		w.EcoScore,
		common.FormatLiters(w.TotalWater), common.FormatLiters(w.WaterSaved),
		common.FormatKg(w.TotalCarbon), common.FormatKg(w.CarbonReduced),
		w.DaysActive)
	text += badgesLine(w.Badges)
	h.sendMessage(chatID, text)
}

// HandleProfile — /profile
func (h *Handler) HandleProfile(ctx context.Context, chatID, userID int64) {
	actor := h.actor(ctx, userID)
	p, err := h.service.Profile(ctx, actor)
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	text := fmt.Sprintf("👤 %s\n\n🌍 Эко-балл: %d (%s)\n💧 Вода: %d/100, сэкономлено %s\n🏭 CO₂: %d/100, сокращено %s\n📆 Отслеживаете %s\n",
		actor.DisplayName(), p.EcoScore, levelLabel(p.Level),
		p.WaterScore, common.FormatLiters(p.WaterSaved),
		p.CarbonScore, common.FormatKg(p.CarbonReduced),
		fmt.Sprintf("%d %s", p.DaysActive, common.PluralizeDays(p.DaysActive)))
	text += badgesLine(p.Badges)
	h.sendMessage(chatID, text)
}

// HandleTrend — /trend
func (h *Handler) HandleTrend(ctx context.Context, chatID, userID int64) {
	t, err := h.service.Trend(ctx, h.actor(ctx, userID))
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	switch t {
	case scoring.TrendImproving:
		h.sendMessage(chatID, "📈 Неделя лучше предыдущей, так держать!")
	case scoring.TrendDeclining:
		h.sendMessage(chatID, "📉 Неделя хуже предыдущей. Загляните в /coach за советами")
	default:
		h.sendMessage(chatID, "➡️ Показатели стабильны")
	}
}

// HandleShare — /share
func (h *Handler) HandleShare(ctx context.Context, chatID, userID int64) {
	text, err := h.service.ShareText(ctx, h.actor(ctx, userID))
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, text)
}

// HandleExport — /export, отправляет JSON-файл с данными пользователя.
func (h *Handler) HandleExport(ctx context.Context, chatID, userID int64) {
	raw, err := h.service.ExportJSON(ctx, h.actor(ctx, userID))
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  ExportFileName(common.Now()),
		Bytes: raw,
	})
	if _, err := h.bot.Send(doc); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки выгрузки")
	}
}

func (h *Handler) replyError(chatID, userID int64, err error) {
	if errors.Is(err, common.ErrNotSignedIn) {
		h.sendMessage(chatID, "🔒 Статистика доступна после входа: /signup email или /login email")
		return
	}
	log.WithError(err).WithField("user_id", userID).Error("Ошибка статистики")
	h.sendMessage(chatID, "❌ Не удалось посчитать, попробуйте позже")
}

func levelLabel(l scoring.Level) string {
	switch l {
	case scoring.LevelExpert:
		return "эксперт"
	case scoring.LevelIntermediate:
		return "продвинутый"
	default:
		return "новичок"
	}
}

func badgesLine(b scoring.Badges) string {
	list := b.Strings()
	if len(list) == 0 {
		return ""
	}
	return "🏅 " + strings.Join(list, ", ") + "\n"
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
