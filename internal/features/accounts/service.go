// Package accounts — service.go содержит регистрацию, вход и выход.
package accounts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
)

// Service управляет аккаунтами и сессиями.
type Service struct {
	repo *Repository
	now  func() time.Time

	// регистрация — проверка email и запись одним шагом
	signUpMu sync.Mutex
}

// NewService создаёт сервис аккаунтов.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SignUp регистрирует аккаунт и сразу делает его текущим для сессии.
// Пароль принимается, но не проверяется и не сохраняется.
//
// Параметры:
//   - session: ключ сессии (пусто — сессия по умолчанию)
//   - email: уникальный email
//   - password: не используется
//   - displayName: имя; если пусто — часть email до @
//
// Повторный email — common.ErrUserExists.
func (s *Service) SignUp(ctx context.Context, session, email, password, displayName string) (*User, error) {
	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return nil, common.ErrInvalidEmail
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = email[:strings.Index(email, "@")]
	}

	s.signUpMu.Lock()
	defer s.signUpMu.Unlock()

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		log.WithField("email", email).Info("Повторная регистрация отклонена")
		return nil, common.ErrUserExists
	}

	user, err := s.repo.Create(ctx, User{
		UID:           "user-" + docstore.NewID(s.now()),
		Email:         email,
		DisplayName:   displayName,
		IsGuest:       false,
		EcoScore:      DefaultEcoScore,
		WaterSaved:    0,
		CarbonReduced: 0,
		Badges:        []string{},
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCurrentUser(ctx, session, *user); err != nil {
		return nil, fmt.Errorf("аккаунт создан, но вход не сохранён: %w", err)
	}

	log.WithFields(log.Fields{
		"uid":   user.UID,
		"email": user.Email,
	}).Info("Новый аккаунт зарегистрирован")
	return user, nil
}

// SignIn делает аккаунт с этим email текущим для сессии.
// Неизвестный email — common.ErrUserNotFound.
func (s *Service) SignIn(ctx context.Context, session, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCurrentUser(ctx, session, *user); err != nil {
		return nil, err
	}
	log.WithField("uid", user.UID).Info("Вход выполнен")
	return user, nil
}

// SignOut завершает сессию.
func (s *Service) SignOut(ctx context.Context, session string) error {
	return s.repo.ClearCurrentUser(ctx, session)
}

// Current возвращает актора сессии. Данные пользователя берутся из
// коллекции users, чтобы имя было свежим; если аккаунт удалён —
// используется сохранённая в сессии копия.
func (s *Service) Current(ctx context.Context, session string) Actor {
	cached, ok := s.repo.CurrentUser(ctx, session)
	if !ok {
		return Anonymous()
	}
	if fresh, err := s.repo.FindByUID(ctx, cached.UID); err == nil {
		return Authenticated(*fresh)
	}
	return Authenticated(*cached)
}

// Rename меняет отображаемое имя вошедшего пользователя.
func (s *Service) Rename(ctx context.Context, session string, actor Actor, name string) (*User, error) {
	u, ok := actor.User()
	if !ok {
		return nil, common.ErrNotSignedIn
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("имя не может быть пустым")
	}
	updated, err := s.repo.Update(ctx, u.ID, docstore.Patch{"displayName": name})
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCurrentUser(ctx, session, *updated); err != nil {
		log.WithError(err).WithField("uid", u.UID).Warn("Не удалось обновить сессию после смены имени")
	}
	return updated, nil
}

// Members возвращает аккаунты, которые участвуют в рейтинге (не гостевые).
func (s *Service) Members(ctx context.Context) []User {
	all := s.repo.List(ctx)
	out := make([]User, 0, len(all))
	for _, u := range all {
		if !u.IsGuest {
			out = append(out, u)
		}
	}
	return out
}

// RecordScores сохраняет последние посчитанные показатели в аккаунте.
func (s *Service) RecordScores(ctx context.Context, u User, ecoScore int, waterSaved, carbonReduced float64, badges []string) error {
	if badges == nil {
		badges = []string{}
	}
	_, err := s.repo.Update(ctx, u.ID, docstore.Patch{
		"ecoScore":      ecoScore,
		"waterSaved":    waterSaved,
		"carbonReduced": carbonReduced,
		"badges":        badges,
	})
	return err
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
