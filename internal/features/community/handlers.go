// Package community — handlers.go обрабатывает команды:
// /post, /feed, /like, /comment, /delpost, /clearcommunity.
package community

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

const feedSize = 10

// Handler обрабатывает команды ленты.
type Handler struct {
	service  *Service
	accounts *accounts.Service
	bot      *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд ленты.
func NewHandler(service *Service, accountsService *accounts.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, accounts: accountsService, bot: bot}
}

// HandlePost — /post текст
func (h *Handler) HandlePost(ctx context.Context, chatID, userID int64, text string) {
	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	p, err := h.service.Publish(ctx, actor, text)
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("%s Опубликовано! (id: %s)", p.Avatar, p.ID))
}

// HandleFeed — /feed
func (h *Handler) HandleFeed(ctx context.Context, chatID int64) {
	posts := h.service.Feed(ctx, feedSize)
	if len(posts) == 0 {
		h.sendMessage(chatID, "🌱 В ленте пока пусто. Расскажите о своих успехах: /post текст")
		return
	}
	now := common.Now()
	var sb strings.Builder
	sb.WriteString("🌍 Лента сообщества\n\n")
	for _, p := range posts {
		likes := int(p.Likes.Float())
		sb.WriteString(fmt.Sprintf("%s %s · %s\n%s\n❤️ %d %s · 💬 %.0f · id: %s\n",
			p.Avatar, p.Author, common.FormatTimeAgo(p.CreatedAt, now), p.Content,
			likes, common.PluralizeLikes(likes), p.Comments.Float(), p.ID))
		for _, c := range lastComments(p.Replies, 2) {
			sb.WriteString(fmt.Sprintf("   ↳ %s: %s\n", c.Author, c.Content))
		}
		sb.WriteString("\n")
	}
	h.sendMessage(chatID, sb.String())
}

// HandleLike — /like id
func (h *Handler) HandleLike(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: /like id")
		return
	}
	p, err := h.service.Like(ctx, args[0])
	if err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	likes := int(p.Likes.Float())
	h.sendMessage(chatID, fmt.Sprintf("❤️ У поста %d %s", likes, common.PluralizeLikes(likes)))
}

// HandleComment — /comment id текст
func (h *Handler) HandleComment(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "❌ Формат: /comment id текст")
		return
	}
	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	if _, err := h.service.Comment(ctx, actor, args[0], strings.Join(args[1:], " ")); err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, "💬 Комментарий добавлен")
}

// HandleDelete — /delpost id
func (h *Handler) HandleDelete(ctx context.Context, chatID, userID int64, args []string, isAdmin bool) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: /delpost id")
		return
	}
	actor := h.accounts.Current(ctx, accounts.SessionFor(userID))
	if err := h.service.Delete(ctx, actor, args[0], isAdmin); err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, "🗑 Пост удалён")
}

// HandleClear — /clearcommunity (только администраторы)
func (h *Handler) HandleClear(ctx context.Context, chatID, userID int64, isAdmin bool) {
	if err := h.service.Clear(ctx, isAdmin); err != nil {
		h.replyError(chatID, userID, err)
		return
	}
	log.WithField("admin_id", userID).Warn("Администратор очистил ленту")
	h.sendMessage(chatID, "🧹 Лента и рейтинг очищены")
}

func (h *Handler) replyError(chatID, userID int64, err error) {
	switch {
	case errors.Is(err, common.ErrEmptyPost),
		errors.Is(err, common.ErrPostTooLong),
		errors.Is(err, common.ErrPostNotFound),
		errors.Is(err, common.ErrNotAdmin):
		h.sendMessage(chatID, "❌ "+err.Error())
	default:
		log.WithError(err).WithField("user_id", userID).Error("Ошибка ленты сообщества")
		h.sendMessage(chatID, "❌ Не удалось выполнить, попробуйте позже")
	}
}

func lastComments(cs []Comment, n int) []Comment {
	if len(cs) > n {
		return cs[len(cs)-n:]
	}
	return cs
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
