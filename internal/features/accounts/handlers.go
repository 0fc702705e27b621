// Package accounts — handlers.go обрабатывает команды:
// /signup, /login, /logout, /me, /name.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
)

// Handler обрабатывает команды аккаунта.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд аккаунта.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleSignUp — /signup email [имя]
func (h *Handler) HandleSignUp(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: /signup email [имя]")
		return
	}
	user, err := h.service.SignUp(ctx, SessionFor(userID), args[0], "", strings.Join(args[1:], " "))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUserExists):
			h.sendMessage(chatID, "❌ Такой аккаунт уже есть. Войдите: /login "+args[0])
		case errors.Is(err, common.ErrInvalidEmail):
			h.sendMessage(chatID, "❌ Некорректный email")
		default:
			log.WithError(err).WithField("user_id", userID).Error("Ошибка регистрации")
			h.sendMessage(chatID, "❌ Не удалось зарегистрироваться, попробуйте позже")
		}
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🌱 Добро пожаловать, %s! Стартовый эко-балл: %d", user.Name(), DefaultEcoScore))
}

// HandleLogin — /login email
func (h *Handler) HandleLogin(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "❌ Формат: /login email")
		return
	}
	user, err := h.service.SignIn(ctx, SessionFor(userID), args[0], "")
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			h.sendMessage(chatID, "❌ Аккаунт не найден. Зарегистрируйтесь: /signup "+args[0])
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("Ошибка входа")
		h.sendMessage(chatID, "❌ Не удалось войти, попробуйте позже")
		return
	}
	h.sendMessage(chatID, "✅ Вы вошли как "+user.Name())
}

// HandleLogout — /logout
func (h *Handler) HandleLogout(ctx context.Context, chatID, userID int64) {
	if err := h.service.SignOut(ctx, SessionFor(userID)); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка выхода")
		h.sendMessage(chatID, "❌ Не удалось выйти, попробуйте позже")
		return
	}
	h.sendMessage(chatID, "👋 Вы вышли из аккаунта")
}

// HandleMe — /me
func (h *Handler) HandleMe(ctx context.Context, chatID, userID int64) {
	actor := h.service.Current(ctx, SessionFor(userID))
	u, ok := actor.User()
	if !ok {
		h.sendMessage(chatID, "Вы не вошли. /signup email или /login email")
		return
	}
	text := fmt.Sprintf("👤 %s\n📧 %s\n🌍 Эко-балл: %.0f", u.Name(), u.Email, u.EcoScore.Float())
	if len(u.Badges) > 0 {
		text += "\n🏅 " + strings.Join(u.Badges, ", ")
	}
	h.sendMessage(chatID, text)
}

// HandleRename — /name новое имя
func (h *Handler) HandleRename(ctx context.Context, chatID, userID int64, args []string) {
	session := SessionFor(userID)
	actor := h.service.Current(ctx, session)
	user, err := h.service.Rename(ctx, session, actor, strings.Join(args, " "))
	if err != nil {
		if errors.Is(err, common.ErrNotSignedIn) {
			h.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		h.sendMessage(chatID, "❌ Формат: /name новое имя")
		return
	}
	h.sendMessage(chatID, "✅ Теперь вы "+user.Name())
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
