package community

import (
	"context"
	"errors"
	"fmt"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
)

type Repository struct {
	store *docstore.Store
	posts *docstore.Collection[Post]
}

func NewRepository(store *docstore.Store) *Repository {
	return &Repository{store: store, posts: docstore.NewCollection[Post](store, docstore.CommunityPosts)}
}

func (r *Repository) Create(ctx context.Context, p Post) (*Post, error) {
	created, err := r.posts.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения поста: %w", err)
	}
	return created, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Post, error) {
	p, err := r.posts.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, common.ErrPostNotFound
	}
	return p, err
}

func (r *Repository) Update(ctx context.Context, id string, patch docstore.Patch) (*Post, error) {
	p, err := r.posts.Update(ctx, id, patch)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, common.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления поста: %w", err)
	}
	return p, nil
}

func (r *Repository) Delete(ctx context.Context, id string) bool {
	return r.posts.Delete(ctx, id)
}

func (r *Repository) List(ctx context.Context) []Post {
	return r.posts.List(ctx)
}

// Clear очищает ленту и снимок рейтинга.
func (r *Repository) Clear(ctx context.Context) error {
	for _, name := range []string{docstore.CommunityPosts, docstore.Leaderboard} {
		if !r.store.Clear(ctx, name) {
			return fmt.Errorf("не удалось очистить %s: %w", name, docstore.ErrNotPersisted)
		}
	}
	return nil
}
