// Package bot содержит главный модуль бота: приём апдейтов,
// фильтрацию, ограничение частоты и маршрутизацию команд.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/bot/filters"
	"serotonyl.ru/ecotrack/internal/bot/middleware"
	"serotonyl.ru/ecotrack/internal/config"
	"serotonyl.ru/ecotrack/internal/features/accounts"
	"serotonyl.ru/ecotrack/internal/features/carbon"
	"serotonyl.ru/ecotrack/internal/features/coach"
	"serotonyl.ru/ecotrack/internal/features/community"
	"serotonyl.ru/ecotrack/internal/features/leaderboard"
	"serotonyl.ru/ecotrack/internal/features/reports"
	"serotonyl.ru/ecotrack/internal/features/stats"
	"serotonyl.ru/ecotrack/internal/features/water"
	"serotonyl.ru/ecotrack/internal/metrics"
)

const helpText = `🌍 EcoTrack — трекер вашего экоследа

Аккаунт:
/signup email [имя] — регистрация
/login email — вход
/logout — выход
/me — профиль аккаунта, /name имя — сменить имя

Учёт:
/water активность минуты — расход воды
/pulse секунды [скорость] [диаметр мм] — замер GreenPulse
/flow [скорость] [диаметр мм] — расчёт потока
/waterlog, /waterdel id — история и удаление
/carbon транспорт км кВт·ч питание приёмов — углеродный след
/carbonlog — история расчётов

Статистика:
/today, /week, /profile, /trend, /share, /export

EcoTwin:
/coach — советы, /motivate — мотивация, /analysis — разбор недели
/ask вопрос — спросить EcoTwin

Сообщество:
/post текст, /feed, /like id, /comment id текст, /delpost id
/report место | категория | описание, /reports, /myreports
/upvote id, /confirm id
/top — рейтинг`

// Handlers — обработчики команд всех функций.
type Handlers struct {
	Accounts    *accounts.Handler
	Water       *water.Handler
	Carbon      *carbon.Handler
	Stats       *stats.Handler
	Coach       *coach.Handler
	Community   *community.Handler
	Reports     *reports.Handler
	Leaderboard *leaderboard.Handler
}

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter
	handlers    Handlers
	parser      *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(api *tgbotapi.BotAPI, cfg *config.Config, handlers Handlers, chatFilter *filters.ChatFilter) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}
	botName := ""
	if api != nil {
		botName = api.Self.UserName
	}
	return &Bot{
		api:         api,
		cfg:         cfg,
		chatFilter:  chatFilter,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		handlers:    handlers,
		parser:      NewCommandParser(botName),
		inflight:    make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram и блокируется до отмены ctx.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
		"username":     b.api.Self.UserName,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				b.rateLimiter.Close()
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic(update.UpdateID)

	message := update.Message
	if message == nil || message.Text == "" {
		return
	}
	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(message) {
		return
	}
	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	cmd, ok := b.parser.ParseCommand(message.Text)
	if !ok {
		return
	}
	log.WithFields(log.Fields{
		"cmd":  cmd.Name,
		"args": cmd.Args,
	}).Debug("parsed command")

	b.routeCommand(ctx, message.Chat.ID, message.From.ID, cmd)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, cmd Command) {
	h := b.handlers
	isAdmin := b.cfg.IsAdmin(userID)
	args := cmd.Args

	routed := true
	switch cmd.Name {
	case "start", "help":
		b.sendMessage(chatID, helpText)

	// аккаунт
	case "signup":
		h.Accounts.HandleSignUp(ctx, chatID, userID, args)
	case "login":
		h.Accounts.HandleLogin(ctx, chatID, userID, args)
	case "logout":
		h.Accounts.HandleLogout(ctx, chatID, userID)
	case "me":
		h.Accounts.HandleMe(ctx, chatID, userID)
	case "name":
		h.Accounts.HandleRename(ctx, chatID, userID, args)

	// вода
	case "water":
		h.Water.HandleWater(ctx, chatID, userID, args)
	case "pulse":
		h.Water.HandlePulse(ctx, chatID, userID, args)
	case "flow":
		h.Water.HandleFlow(ctx, chatID, args)
	case "waterlog":
		h.Water.HandleHistory(ctx, chatID, userID)
	case "waterdel":
		h.Water.HandleDelete(ctx, chatID, userID, args)

	// выбросы
	case "carbon":
		h.Carbon.HandleCarbon(ctx, chatID, userID, args)
	case "carbonlog":
		h.Carbon.HandleHistory(ctx, chatID, userID)

	// статистика
	case "today", "dashboard":
		h.Stats.HandleToday(ctx, chatID, userID)
	case "week":
		h.Stats.HandleWeek(ctx, chatID, userID)
	case "profile":
		h.Stats.HandleProfile(ctx, chatID, userID)
	case "trend":
		h.Stats.HandleTrend(ctx, chatID, userID)
	case "share":
		h.Stats.HandleShare(ctx, chatID, userID)
	case "export":
		h.Stats.HandleExport(ctx, chatID, userID)

	// коуч
	case "coach":
		h.Coach.HandleSuggestions(ctx, chatID, userID)
	case "motivate":
		h.Coach.HandleMotivation(ctx, chatID, userID)
	case "analysis":
		h.Coach.HandleAnalysis(ctx, chatID, userID)
	case "ask":
		h.Coach.HandleAsk(ctx, chatID, userID, cmd.Rest)

	// рейтинг
	case "top", "leaderboard":
		h.Leaderboard.HandleTop(ctx, chatID)
	case "recompute":
		h.Leaderboard.HandleRecompute(ctx, chatID, userID, isAdmin)

	default:
		routed = b.routeOptional(ctx, chatID, userID, cmd, isAdmin)
	}

	if routed {
		metrics.CommandRouted(cmd.Name)
	}
}

// routeOptional обрабатывает команды функций, которые можно отключить.
func (b *Bot) routeOptional(ctx context.Context, chatID, userID int64, cmd Command, isAdmin bool) bool {
	h := b.handlers
	args := cmd.Args

	switch cmd.Name {
	case "post", "feed", "like", "comment", "delpost", "clearcommunity":
		if !b.cfg.FeatureCommunityEnabled {
			b.sendMessage(chatID, "🌱 Лента сообщества временно отключена")
			return true
		}
	case "report", "reports", "myreports", "upvote", "confirm", "resolve":
		if !b.cfg.FeatureReportsEnabled {
			b.sendMessage(chatID, "📍 Сообщения о проблемах временно отключены")
			return true
		}
	default:
		return false
	}

	switch cmd.Name {
	case "post":
		h.Community.HandlePost(ctx, chatID, userID, cmd.Rest)
	case "feed":
		h.Community.HandleFeed(ctx, chatID)
	case "like":
		h.Community.HandleLike(ctx, chatID, userID, args)
	case "comment":
		h.Community.HandleComment(ctx, chatID, userID, args)
	case "delpost":
		h.Community.HandleDelete(ctx, chatID, userID, args, isAdmin)
	case "clearcommunity":
		h.Community.HandleClear(ctx, chatID, userID, isAdmin)

	case "report":
		h.Reports.HandleReport(ctx, chatID, userID, cmd.Rest)
	case "reports":
		h.Reports.HandleList(ctx, chatID)
	case "myreports":
		h.Reports.HandleMine(ctx, chatID, userID)
	case "upvote":
		h.Reports.HandleUpvote(ctx, chatID, userID, args)
	case "confirm":
		h.Reports.HandleConfirm(ctx, chatID, userID, args)
	case "resolve":
		h.Reports.HandleResolve(ctx, chatID, userID, args, isAdmin)
	}
	return true
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// Command — разобранная команда.
type Command struct {
	Name string   // в нижнем регистре, без префикса и @имени бота
	Args []string // слова после команды
	Rest string   // текст после команды как есть
}

// CommandParser разбирает команды с префиксами /, ! и .
type CommandParser struct {
	validPrefixes []string
	botName       string
}

// NewCommandParser создаёт парсер команд. botName отрезается
// из команд вида /top@EcoTrackBot.
func NewCommandParser(botName string) *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"/", "!", "."},
		botName:       strings.ToLower(botName),
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (Command, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		return Command{}, false
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return Command{}, false
	}

	name := strings.ToLower(parts[0])
	if at := strings.IndexByte(name, '@'); at >= 0 {
		if mention := name[at+1:]; p.botName != "" && mention != p.botName {
			return Command{}, false
		}
		name = name[:at]
	}
	if name == "" {
		return Command{}, false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), parts[0]))
	return Command{Name: name, Args: parts[1:], Rest: rest}, true
}
