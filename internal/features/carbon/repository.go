package carbon

import (
	"context"
	"fmt"

	"serotonyl.ru/ecotrack/internal/docstore"
)

type Repository struct {
	logs *docstore.Collection[Log]
}

func NewRepository(store *docstore.Store) *Repository {
	return &Repository{logs: docstore.NewCollection[Log](store, docstore.CarbonLogs)}
}

func (r *Repository) Create(ctx context.Context, l Log) (*Log, error) {
	created, err := r.logs.Create(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения углеродного следа: %w", err)
	}
	return created, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID string) []Log {
	return r.logs.Filter(ctx, func(l Log) bool { return l.UserID == userID })
}

func (r *Repository) ListAll(ctx context.Context) []Log {
	return r.logs.List(ctx)
}
