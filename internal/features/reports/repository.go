package reports

import (
	"context"
	"errors"
	"fmt"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
)

type Repository struct {
	reports *docstore.Collection[Report]
}

func NewRepository(store *docstore.Store) *Repository {
	return &Repository{reports: docstore.NewCollection[Report](store, docstore.Reports)}
}

func (r *Repository) Create(ctx context.Context, rep Report) (*Report, error) {
	created, err := r.reports.Create(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения сообщения: %w", err)
	}
	return created, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Report, error) {
	rep, err := r.reports.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, common.ErrReportNotFound
	}
	return rep, err
}

func (r *Repository) Update(ctx context.Context, id string, patch docstore.Patch) (*Report, error) {
	rep, err := r.reports.Update(ctx, id, patch)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, common.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления сообщения: %w", err)
	}
	return rep, nil
}

func (r *Repository) List(ctx context.Context) []Report {
	return r.reports.List(ctx)
}

func (r *Repository) ListForUser(ctx context.Context, userID string) []Report {
	return r.reports.Filter(ctx, func(rep Report) bool { return rep.UserID == userID })
}
