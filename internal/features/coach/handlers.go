// Package coach — handlers.go обрабатывает команды:
// /coach, /motivate, /analysis, /ask.
package coach

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/features/accounts"
	"serotonyl.ru/ecotrack/internal/features/stats"
	"serotonyl.ru/ecotrack/internal/scoring"
)

// editInterval — как часто обновлять сообщение при потоковом ответе.
const editInterval = 1500 * time.Millisecond

// Handler обрабатывает команды коуча.
type Handler struct {
	service  *Service
	stats    *stats.Service
	accounts *accounts.Service
	bot      *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд коуча.
func NewHandler(service *Service, statsService *stats.Service, accountsService *accounts.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, stats: statsService, accounts: accountsService, bot: bot}
}

func (h *Handler) week(ctx context.Context, chatID, userID int64) (scoring.WeeklySummary, accounts.Actor, bool) {
	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	w, err := h.stats.Week(ctx, actor)
	if err != nil {
		if errors.Is(err, common.ErrNotSignedIn) {
			h.sendMessage(chatID, "🔒 EcoTwin работает после входа: /signup email или /login email")
		} else {
			log.WithError(err).WithField("user_id", userID).Error("Ошибка подготовки данных для коуча")
			h.sendMessage(chatID, "❌ Не удалось посчитать итоги, попробуйте позже")
		}
		return scoring.WeeklySummary{}, actor, false
	}
	return w, actor, true
}

// HandleSuggestions — /coach
func (h *Handler) HandleSuggestions(ctx context.Context, chatID, userID int64) {
	w, _, ok := h.week(ctx, chatID, userID)
	if !ok {
		return
	}
	h.reply(chatID, "💡 Советы EcoTwin\n\n", func() (string, error) { return h.service.Suggestions(ctx, w) })
}

// HandleMotivation — /motivate
func (h *Handler) HandleMotivation(ctx context.Context, chatID, userID int64) {
	w, _, ok := h.week(ctx, chatID, userID)
	if !ok {
		return
	}
	h.reply(chatID, "🌱 ", func() (string, error) { return h.service.Motivation(ctx, w) })
}

// HandleAnalysis — /analysis
func (h *Handler) HandleAnalysis(ctx context.Context, chatID, userID int64) {
	w, actor, ok := h.week(ctx, chatID, userID)
	if !ok {
		return
	}
	trend, err := h.stats.Trend(ctx, actor)
	if err != nil {
		trend = scoring.TrendStable
	}
	h.reply(chatID, "📊 Разбор недели\n\n", func() (string, error) { return h.service.WeeklyAnalysis(ctx, w, trend) })
}

// HandleAsk — /ask вопрос, ответ приходит частями через редактирование сообщения.
func (h *Handler) HandleAsk(ctx context.Context, chatID, userID int64, question string) {
	if !h.service.Enabled() {
		h.sendMessage(chatID, "🤖 "+common.ErrCoachDisabled.Error())
		return
	}
	if strings.TrimSpace(question) == "" {
		h.sendMessage(chatID, "❌ Формат: /ask вопрос")
		return
	}
	w, _, ok := h.week(ctx, chatID, userID)
	if !ok {
		return
	}

	placeholder, err := h.bot.Send(tgbotapi.NewMessage(chatID, "🤖 EcoTwin думает…"))
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
		return
	}

	var (
		mu       sync.Mutex
		sb       strings.Builder
		lastEdit time.Time
	)
	onChunk := func(chunk string) {
		mu.Lock()
		defer mu.Unlock()
		sb.WriteString(chunk)
		if time.Since(lastEdit) < editInterval {
			return
		}
		lastEdit = time.Now()
		h.edit(chatID, placeholder.MessageID, sb.String()+" …")
	}

	answer, err := h.service.Ask(ctx, w, question, onChunk)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("EcoTwin не ответил")
	}
	h.edit(chatID, placeholder.MessageID, "🤖 "+answer)
}

func (h *Handler) reply(chatID int64, title string, fn func() (string, error)) {
	text, err := fn()
	if err != nil {
		h.sendMessage(chatID, "🤖 "+ConnectionTrouble)
		return
	}
	h.sendMessage(chatID, title+text)
}

func (h *Handler) edit(chatID int64, messageID int, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if _, err := h.bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Debug("Не удалось обновить сообщение")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
