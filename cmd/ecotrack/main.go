// Package main — точка входа EcoTrack.
// Загружает конфигурацию, инициализирует приложение и запускает бота,
// планировщик и служебный HTTP-сервер.
// Поддерживает graceful shutdown по SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/app"
	"serotonyl.ru/ecotrack/internal/config"
)

func main() {
	setupLogging()

	log.Info("=== EcoTrack запускается ===")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	if level, err := log.ParseLevel(cfg.AppLogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.AppEnv == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	// Контекст отменяется по SIGINT/SIGTERM (Ctrl+C, docker stop)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Не удалось инициализировать приложение")
	}
	defer application.Close()

	if application.Ops != nil {
		application.Ops.Start()
		defer application.Ops.Stop()
	}

	if err := application.Scheduler.Start(ctx); err != nil {
		log.WithError(err).Fatal("Не удалось запустить планировщик")
	}
	defer application.Scheduler.Stop()

	log.WithFields(log.Fields{
		"storage":   cfg.StorageDriver,
		"namespace": cfg.StorageNamespace,
		"coach":     cfg.CoachEnabled,
	}).Info("=== EcoTrack готов к работе ===")

	// Блокируется до отмены контекста
	application.Bot.Start(ctx)

	log.Info("=== EcoTrack остановлен ===")
}

// setupLogging настраивает формат логов до загрузки конфигурации.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}
