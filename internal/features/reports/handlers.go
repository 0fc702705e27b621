// Package reports — handlers.go обрабатывает команды:
// /report, /reports, /myreports, /upvote, /confirm, /resolve.
package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/features/accounts"
)

const listSize = 10

// Handler обрабатывает команды сообщений о проблемах.
type Handler struct {
	service  *Service
	accounts *accounts.Service
	bot      *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд сообщений.
func NewHandler(service *Service, accountsService *accounts.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, accounts: accountsService, bot: bot}
}

// HandleReport — /report место | категория | описание [| ссылка на фото]
func (h *Handler) HandleReport(ctx context.Context, chatID, userID int64, text string) {
	parts := strings.Split(text, "|")
	if len(parts) < 3 {
		h.sendMessage(chatID, "❌ Формат: /report место | категория | описание [| ссылка на фото]\n"+
			"Категории: "+strings.Join(Categories, ", "))
		return
	}
	imageURL := ""
	if len(parts) > 3 {
		imageURL = parts[3]
	}
	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	rep, err := h.service.Submit(ctx, actor, parts[0], parts[1], parts[2], imageURL)
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("📍 Спасибо! Сообщение принято (id: %s)\nСтатус: %s\nДата: %s",
		rep.ID, rep.Status.Label(), common.FormatDateTime(rep.CreatedAt)))
}

// HandleList — /reports
func (h *Handler) HandleList(ctx context.Context, chatID int64) {
	h.sendList(chatID, "📍 Последние сообщения:", h.service.ListAll(ctx))
}

// HandleMine — /myreports
func (h *Handler) HandleMine(ctx context.Context, chatID, userID int64) {
	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	h.sendList(chatID, "📍 Ваши сообщения:", h.service.ListForUser(ctx, actor))
}

// HandleUpvote — /upvote id
func (h *Handler) HandleUpvote(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: /upvote id")
		return
	}
	rep, err := h.service.Upvote(ctx, args[0])
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("👍 Поддержано (%.0f)", rep.Upvotes.Float()))
}

// HandleConfirm — /confirm id
func (h *Handler) HandleConfirm(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: /confirm id")
		return
	}
	rep, err := h.service.Confirm(ctx, args[0])
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✔️ Подтверждений: %.0f\nСтатус: %s",
		rep.Confirmations.Float(), rep.Status.Label()))
}

// HandleResolve — /resolve id (только администраторы)
func (h *Handler) HandleResolve(ctx context.Context, chatID, userID int64, args []string, isAdmin bool) {
	if !isAdmin {
		h.sendMessage(chatID, "❌ "+common.ErrNotAdmin.Error())
		return
	}
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: /resolve id")
		return
	}
	rep, err := h.service.Resolve(ctx, args[0])
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, "🎉 "+rep.Location+": "+rep.Status.Label())
}

func (h *Handler) sendList(chatID int64, title string, reps []Report) {
	if len(reps) == 0 {
		h.sendMessage(chatID, "📍 Сообщений пока нет. /report место | категория | описание")
		return
	}
	if len(reps) > listSize {
		reps = reps[:listSize]
	}
	now := common.Now()
	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	for _, r := range reps {
		sb.WriteString(fmt.Sprintf("• [%s] %s — %s\n  %s, 👍 %.0f, ✔️ %.0f, %s\n  id: %s\n",
			r.Category, r.Location, r.Description, r.Status.Label(),
			r.Upvotes.Float(), r.Confirmations.Float(), common.FormatTimeAgo(r.CreatedAt, now), r.ID))
	}
	h.sendMessage(chatID, sb.String())
}

func (h *Handler) replyError(chatID, userID int64, err error) {
	switch {
	case errors.Is(err, common.ErrEmptyReport), errors.Is(err, common.ErrReportNotFound):
		h.sendMessage(chatID, "❌ "+err.Error())
	case errors.Is(err, common.ErrInvalidStatus):
		h.sendMessage(chatID, "❌ Такой переход статуса невозможен")
	default:
		log.WithError(err).WithField("user_id", userID).Error("Ошибка работы с сообщениями")
		h.sendMessage(chatID, "❌ Не удалось выполнить, попробуйте позже")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
