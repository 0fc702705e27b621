// Package water — handlers.go обрабатывает команды:
// /water, /pulse, /flow, /waterlog, /waterdel.
package water

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/features/accounts"
)

const historySize = 10

// Handler обрабатывает команды учёта воды.
type Handler struct {
	service  *Service
	accounts *accounts.Service
	bot      *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд учёта воды.
func NewHandler(service *Service, accountsService *accounts.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, accounts: accountsService, bot: bot}
}

// HandleWater — /water активность минуты
func (h *Handler) HandleWater(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "❌ Формат: /water активность минуты\n\n"+activityHelp())
		return
	}
	minutes, err := strconv.ParseFloat(strings.ReplaceAll(args[1], ",", "."), 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Длительность должна быть числом минут")
		return
	}
	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	entry, err := h.service.LogActivity(ctx, actor, args[0], minutes)
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	a, _ := LookupActivity(entry.Activity)
	h.sendMessage(chatID, fmt.Sprintf("💧 %s, %s: %s",
		a.Label, common.PluralizeMinutes(int(minutes)), common.FormatLiters(entry.Liters.Float())))
}

// HandlePulse — /pulse секунды [скорость м/с] [диаметр мм]
func (h *Handler) HandlePulse(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: /pulse секунды [скорость м/с] [диаметр мм]")
		return
	}
	nums, ok := parseFloats(args)
	if !ok {
		h.sendMessage(chatID, "❌ Параметры должны быть числами")
		return
	}
	speed, diameter := DefaultPipeSpeed, DefaultPipeDiameter
	if len(nums) > 1 {
		speed = nums[1]
	}
	if len(nums) > 2 {
		diameter = nums[2] / 1000
	}
	flow := FlowRate(speed, diameter)

	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	entry, err := h.service.LogPulse(ctx, actor, flow, nums[0])
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	text := fmt.Sprintf("⏱ GreenPulse: поток %.1f л/мин, израсходовано %s",
		flow, common.FormatLiters(entry.Liters.Float()))
	if msg := AlertFor(entry.Liters.Float()).Message(); msg != "" {
		text += "\n" + msg
	}
	h.sendMessage(chatID, text)
}

// HandleFlow — /flow [скорость м/с] [диаметр мм], расчёт без записи
func (h *Handler) HandleFlow(ctx context.Context, chatID int64, args []string) {
	nums, ok := parseFloats(args)
	if !ok {
		h.sendMessage(chatID, "❌ Формат: /flow [скорость м/с] [диаметр мм]")
		return
	}
	speed, diameter := DefaultPipeSpeed, DefaultPipeDiameter
	if len(nums) > 0 {
		speed = nums[0]
	}
	if len(nums) > 1 {
		diameter = nums[1] / 1000
	}
	flow := FlowRate(speed, diameter)
	h.sendMessage(chatID, fmt.Sprintf("🚿 Поток: %.1f л/мин\nЛимит %s наберётся за %.0f с",
		flow, common.FormatLiters(PulseLimitLiters), secondsToLimit(flow)))
}

// HandleHistory — /waterlog
func (h *Handler) HandleHistory(ctx context.Context, chatID, userID int64) {
	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	logs := h.service.History(ctx, actor, historySize)
	if len(logs) == 0 {
		h.sendMessage(chatID, "💧 Записей пока нет. Начните с /water bathing 10")
		return
	}
	now := common.Now()
	var sb strings.Builder
	sb.WriteString("💧 Последние записи:\n\n")
	for _, l := range logs {
		sb.WriteString(fmt.Sprintf("• %s — %s (%s)\n  id: %s\n",
			l.Activity, common.FormatLiters(l.Liters.Float()), common.FormatTimeAgo(l.CreatedAt, now), l.ID))
	}
	h.sendMessage(chatID, sb.String())
}

// HandleDelete — /waterdel id
func (h *Handler) HandleDelete(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: /waterdel id")
		return
	}
	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	if err := h.service.Delete(ctx, actor, args[0]); err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, "🗑 Запись удалена")
}

func (h *Handler) replyError(chatID, userID int64, err error) {
	switch {
	case errors.Is(err, common.ErrUnknownActivity):
		h.sendMessage(chatID, "❌ Неизвестная активность\n\n"+activityHelp())
	case errors.Is(err, common.ErrInvalidAmount):
		h.sendMessage(chatID, "❌ Значение должно быть положительным числом")
	case errors.Is(err, common.ErrLogNotFound):
		h.sendMessage(chatID, "❌ Запись не найдена")
	default:
		log.WithError(err).WithField("user_id", userID).Error("Ошибка учёта воды")
		h.sendMessage(chatID, "❌ Не удалось сохранить, попробуйте позже")
	}
}

func activityHelp() string {
	var sb strings.Builder
	sb.WriteString("Активности:\n")
	for _, a := range Activities() {
		sb.WriteString(fmt.Sprintf("• %s — %s, ~%.0f л за 10 мин\n", a.Name, a.Label, a.AvgPer10))
	}
	return sb.String()
}

func parseFloats(args []string) ([]float64, bool) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(strings.ReplaceAll(a, ",", "."), 64)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func secondsToLimit(flow float64) float64 {
	if flow <= 0 {
		return 0
	}
	return PulseLimitLiters / flow * 60
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
