// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: выбирает хранилище, создаёт docstore, сервисы,
// обработчики, фильтры, планировщик и служебный HTTP-сервер.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/bot"
	"serotonyl.ru/ecotrack/internal/bot/filters"
	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/config"
	"serotonyl.ru/ecotrack/internal/db/mongo"
	"serotonyl.ru/ecotrack/internal/db/postgres"
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/features/accounts"
	"serotonyl.ru/ecotrack/internal/features/carbon"
	"serotonyl.ru/ecotrack/internal/features/coach"
	"serotonyl.ru/ecotrack/internal/features/community"
	"serotonyl.ru/ecotrack/internal/features/leaderboard"
	"serotonyl.ru/ecotrack/internal/features/reports"
	"serotonyl.ru/ecotrack/internal/features/stats"
	"serotonyl.ru/ecotrack/internal/features/water"
	"serotonyl.ru/ecotrack/internal/jobs"
	"serotonyl.ru/ecotrack/internal/ops"
	"serotonyl.ru/ecotrack/internal/storage"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	Ops       *ops.Server
	Store     *docstore.Store
	BotAPI    *tgbotapi.BotAPI

	closers []func()
}

// Services — сервисы всех функций поверх одного хранилища.
type Services struct {
	Accounts    *accounts.Service
	Water       *water.Service
	Carbon      *carbon.Service
	Stats       *stats.Service
	Coach       *coach.Service
	Community   *community.Service
	Reports     *reports.Service
	Leaderboard *leaderboard.Service
}

// NewServices создаёт репозитории и сервисы. gen == nil — коуч выключен.
func NewServices(store *docstore.Store, cfg *config.Config, gen coach.Generator) *Services {
	accountsService := accounts.NewService(accounts.NewRepository(store))
	waterService := water.NewService(water.NewRepository(store))
	carbonService := carbon.NewService(carbon.NewRepository(store))
	return &Services{
		Accounts:    accountsService,
		Water:       waterService,
		Carbon:      carbonService,
		Stats:       stats.NewService(waterService, carbonService, common.Now),
		Coach:       coach.NewService(gen, cfg.CoachTimeout),
		Community:   community.NewService(community.NewRepository(store)),
		Reports:     reports.NewService(reports.NewRepository(store)),
		Leaderboard: leaderboard.NewService(store, accountsService, waterService, carbonService, cfg.LeaderboardSize),
	}
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	loc := common.SetTimezone(cfg.AppTimezone)

	// === 1. Хранилище ===
	kv, closeKV, err := openSubstrate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeKV)
	a.Store = docstore.New(ctx, storage.Instrument(kv, cfg.StorageDriver), cfg.StorageNamespace)

	// === 2. AI-коуч ===
	var gen coach.Generator
	if cfg.CoachEnabled {
		gemini, err := coach.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			if err := gemini.Close(); err != nil {
				log.WithError(err).Warn("Ошибка закрытия клиента Gemini")
			}
		})
		gen = gemini
		log.WithField("model", cfg.GeminiModel).Info("AI-коуч подключён")
	}

	// === 3. Сервисы ===
	svc := NewServices(a.Store, cfg, gen)

	// === 4. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development" && cfg.AppLogLevel == "trace"
	a.BotAPI = botAPI
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 5. Обработчики ===
	handlers := bot.Handlers{
		Accounts:    accounts.NewHandler(svc.Accounts, botAPI),
		Water:       water.NewHandler(svc.Water, svc.Accounts, botAPI),
		Carbon:      carbon.NewHandler(svc.Carbon, svc.Accounts, botAPI),
		Stats:       stats.NewHandler(svc.Stats, svc.Accounts, botAPI),
		Coach:       coach.NewHandler(svc.Coach, svc.Stats, svc.Accounts, botAPI),
		Community:   community.NewHandler(svc.Community, svc.Accounts, botAPI),
		Reports:     reports.NewHandler(svc.Reports, svc.Accounts, botAPI),
		Leaderboard: leaderboard.NewHandler(svc.Leaderboard, botAPI, cfg.LeaderboardSize),
	}

	// === 6. Собираем бота ===
	a.Bot = bot.New(botAPI, cfg, handlers, filters.NewChatFilter(cfg.AllowedChatID))

	// === 7. Планировщик задач ===
	a.Scheduler, err = jobs.NewScheduler(svc.Leaderboard, cfg.LeaderboardCron, loc)
	if err != nil {
		return nil, err
	}

	// === 8. Служебный HTTP ===
	if cfg.OpsListenAddr != "" {
		a.Ops = ops.NewServer(cfg.OpsListenAddr, ops.NewRouter(a.Store, cfg.MetricsEnabled))
	}

	return a, nil
}

// Close освобождает ресурсы в обратном порядке создания.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// openSubstrate открывает хранилище «ключ-значение» по STORAGE_DRIVER.
func openSubstrate(ctx context.Context, cfg *config.Config) (storage.Substrate, func(), error) {
	logger := log.WithField("driver", cfg.StorageDriver)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Данные хранятся в памяти и пропадут при перезапуске")
		return storage.NewMemory(cfg.StorageQuotaBytes), func() {}, nil

	case config.StorageFile:
		f, err := storage.OpenFile(cfg.StorageFilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка открытия файла хранилища: %w", err)
		}
		logger.WithField("path", cfg.StorageFilePath).Info("Файловое хранилище открыто")
		return f, func() {
			if err := f.Close(); err != nil {
				log.WithError(err).Warn("Ошибка закрытия файлового хранилища")
			}
		}, nil

	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		migrations := []postgres.Migration{{Version: 1, SQL: storage.KVTableMigration}}
		if err := postgres.Migrate(ctx, pool, migrations); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return storage.NewPostgres(pool), pool.Close, nil

	case config.StorageMongo:
		client, coll, err := mongo.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewMongo(coll), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.WithError(err).Warn("Ошибка отключения от MongoDB")
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("неизвестный STORAGE_DRIVER %q", cfg.StorageDriver)
}
