// Package water — repository.go работает с коллекцией waterLogs.
package water

import (
	"context"
	"errors"
	"fmt"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
)

type Repository struct {
	logs *docstore.Collection[Log]
}

func NewRepository(store *docstore.Store) *Repository {
	return &Repository{logs: docstore.NewCollection[Log](store, docstore.WaterLogs)}
}

func (r *Repository) Create(ctx context.Context, l Log) (*Log, error) {
	created, err := r.logs.Create(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения расхода воды: %w", err)
	}
	return created, nil
}

// ListForUser возвращает записи одного пользователя.
func (r *Repository) ListForUser(ctx context.Context, userID string) []Log {
	return r.logs.Filter(ctx, func(l Log) bool { return l.UserID == userID })
}

// ListAll возвращает записи всех пользователей (для рейтинга).
func (r *Repository) ListAll(ctx context.Context) []Log {
	return r.logs.List(ctx)
}

func (r *Repository) Get(ctx context.Context, id string) (*Log, error) {
	l, err := r.logs.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, common.ErrLogNotFound
	}
	return l, err
}

func (r *Repository) Delete(ctx context.Context, id string) bool {
	return r.logs.Delete(ctx, id)
}
