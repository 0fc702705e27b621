// Package mongo подключается к MongoDB для драйвера хранилища STORAGE_DRIVER=mongo.
package mongo

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"serotonyl.ru/ecotrack/internal/config"
)

// Connect открывает клиент, проверяет соединение и возвращает
// коллекцию, в которой лежат ключи хранилища.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка подключения к MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("MongoDB недоступна: %w", err)
	}

	log.WithFields(log.Fields{
		"database":   cfg.MongoDatabase,
		"collection": cfg.MongoCollection,
	}).Info("Подключение к MongoDB установлено")

	return client, client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection), nil
}
