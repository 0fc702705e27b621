// Package accounts — repository.go работает с коллекцией users
// и ключами текущего пользователя сессий.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
)

type Repository struct {
	store *docstore.Store
	users *docstore.Collection[User]
}

func NewRepository(store *docstore.Store) *Repository {
	return &Repository{
		store: store,
		users: docstore.NewCollection[User](store, docstore.Users),
	}
}

// Create добавляет аккаунт.
func (r *Repository) Create(ctx context.Context, u User) (*User, error) {
	created, err := r.users.Create(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания аккаунта: %w", err)
	}
	return created, nil
}

// FindByEmail ищет аккаунт по email без учёта регистра.
// Если не найден — common.ErrUserNotFound.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	email = normalizeEmail(email)
	found := r.users.Filter(ctx, func(u User) bool {
		return normalizeEmail(u.Email) == email
	})
	if len(found) == 0 {
		return nil, common.ErrUserNotFound
	}
	return &found[0], nil
}

// FindByUID ищет аккаунт по uid.
func (r *Repository) FindByUID(ctx context.Context, uid string) (*User, error) {
	found := r.users.Filter(ctx, func(u User) bool { return u.UID == uid })
	if len(found) == 0 {
		return nil, common.ErrUserNotFound
	}
	return &found[0], nil
}

// List возвращает все аккаунты.
func (r *Repository) List(ctx context.Context) []User {
	return r.users.List(ctx)
}

// Update применяет частичное обновление к аккаунту с id записи.
func (r *Repository) Update(ctx context.Context, id string, patch docstore.Patch) (*User, error) {
	u, err := r.users.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка обновления аккаунта: %w", err)
	}
	return u, nil
}

func sessionItem(session string) string {
	if session == "" {
		return docstore.CurrentUserItem
	}
	return docstore.CurrentUserItem + "_" + session
}

// CurrentUser читает пользователя сессии.
func (r *Repository) CurrentUser(ctx context.Context, session string) (*User, bool) {
	var u User
	if !r.store.GetItem(ctx, sessionItem(session), &u) || u.UID == "" {
		return nil, false
	}
	return &u, true
}

// SetCurrentUser запоминает пользователя сессии.
func (r *Repository) SetCurrentUser(ctx context.Context, session string, u User) error {
	return r.store.SetItem(ctx, sessionItem(session), u)
}

// ClearCurrentUser завершает сессию.
func (r *Repository) ClearCurrentUser(ctx context.Context, session string) error {
	return r.store.RemoveItem(ctx, sessionItem(session))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
