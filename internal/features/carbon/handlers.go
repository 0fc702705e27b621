// Package carbon — handlers.go обрабатывает команды /carbon и /carbonlog.
package carbon

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/features/accounts"
)

const usage = "❌ Формат: /carbon транспорт км кВт·ч питание приёмов\n" +
	"Пример: /carbon car 20 5 vegetarian 3"

// Handler обрабатывает команды углеродного калькулятора.
type Handler struct {
	service  *Service
	accounts *accounts.Service
	bot      *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд калькулятора.
func NewHandler(service *Service, accountsService *accounts.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, accounts: accountsService, bot: bot}
}

// HandleCarbon — /carbon транспорт км кВт·ч питание приёмов
func (h *Handler) HandleCarbon(ctx context.Context, chatID, userID int64, args []string) {
	in, ok := parseInput(args)
	if !ok {
		h.sendMessage(chatID, usage+"\n\n"+modesHelp())
		return
	}
	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	_, fp, err := h.service.Log(ctx, actor, in)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnknownTransportMode), errors.Is(err, common.ErrUnknownFoodType):
			h.sendMessage(chatID, "❌ "+err.Error()+"\n\n"+modesHelp())
		case errors.Is(err, common.ErrInvalidAmount):
			h.sendMessage(chatID, "❌ Значения должны быть неотрицательными числами")
		default:
			log.WithError(err).WithField("user_id", userID).Error("Ошибка учёта выбросов")
			h.sendMessage(chatID, "❌ Не удалось сохранить, попробуйте позже")
		}
		return
	}
	h.sendMessage(chatID, fmt.Sprintf(
		"🌍 Углеродный след: %s\n\n🚗 Транспорт: %s\n⚡ Электричество: %s\n🍽 Питание: %s",
		common.FormatKg(fp.Total), common.FormatKg(fp.Transport),
		common.FormatKg(fp.Electricity), common.FormatKg(fp.Food)))
}

// HandleHistory — /carbonlog
func (h *Handler) HandleHistory(ctx context.Context, chatID, userID int64) {
	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	logs := h.service.History(ctx, actor, 10)
	if len(logs) == 0 {
		h.sendMessage(chatID, "🌍 Записей пока нет. "+strings.TrimPrefix(usage, "❌ Формат: "))
		return
	}
	now := common.Now()
	var sb strings.Builder
	sb.WriteString("🌍 Последние расчёты:\n\n")
	for _, l := range logs {
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", common.FormatKg(l.CO2Kg.Float()), common.FormatTimeAgo(l.CreatedAt, now)))
	}
	h.sendMessage(chatID, sb.String())
}

// parseInput разбирает до пяти позиционных аргументов.
// Недостающие числа считаются нулём.
func parseInput(args []string) (Input, bool) {
	if len(args) == 0 || len(args) > 5 {
		return Input{}, false
	}
	num := func(i int) (float64, bool) {
		if i >= len(args) {
			return 0, true
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(args[i], ",", "."), 64)
		return v, err == nil
	}
	var in Input
	in.Transport.Mode = args[0]
	distance, ok := num(1)
	if !ok {
		return Input{}, false
	}
	in.Transport.Distance = docstore.Number(distance)
	if in.Electricity, ok = num(2); !ok {
		return Input{}, false
	}
	if len(args) > 3 {
		in.Food.Type = args[3]
	}
	meals, ok := num(4)
	if !ok {
		return Input{}, false
	}
	in.Food.Meals = docstore.Number(meals)
	return in, true
}

func modesHelp() string {
	return "Транспорт: " + strings.Join(TransportModes(), ", ") +
		"\nПитание: " + strings.Join(FoodTypes(), ", ")
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
