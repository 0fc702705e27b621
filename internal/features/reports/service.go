package reports

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/features/accounts"
)

// Service принимает сообщения и ведёт их статус.
type Service struct {
	repo *Repository
	// counters сериализует чтение-изменение-запись счётчиков
	counters sync.Mutex
}

// NewService создаёт сервис сообщений о проблемах.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Submit создаёт сообщение в статусе pending с нулевыми счётчиками.
func (s *Service) Submit(ctx context.Context, actor accounts.Actor, location, category, description, imageURL string) (*Report, error) {
	location = strings.TrimSpace(location)
	description = strings.TrimSpace(description)
	if location == "" || description == "" {
		return nil, common.ErrEmptyReport
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if !slices.Contains(Categories, category) {
		category = "other"
	}

	rep, err := s.repo.Create(ctx, Report{
		UserID:      actor.OwnerID(),
		Name:        actor.DisplayName(),
		Location:    location,
		Category:    category,
		Description: description,
		ImageURL:    strings.TrimSpace(imageURL),
		Status:      StatusPending,
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"report_id": rep.ID,
		"user_id":   rep.UserID,
		"category":  rep.Category,
	}).Info("Новое сообщение о проблеме")
	return rep, nil
}

// Upvote увеличивает счётчик поддержки.
func (s *Service) Upvote(ctx context.Context, id string) (*Report, error) {
	s.counters.Lock()
	defer s.counters.Unlock()

	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, docstore.Patch{"upvotes": rep.Upvotes.Float() + 1})
}

// Confirm добавляет подтверждение. На ConfirmationsToConfirm-м
// подтверждении сообщение в статусе pending становится confirmed.
func (s *Service) Confirm(ctx context.Context, id string) (*Report, error) {
	s.counters.Lock()
	defer s.counters.Unlock()

	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n := rep.Confirmations.Float() + 1
	patch := docstore.Patch{"confirmations": n}
	if rep.Status == StatusPending && n >= ConfirmationsToConfirm {
		patch["status"] = StatusConfirmed
	}
	return s.repo.Update(ctx, id, patch)
}

// Resolve помечает сообщение решённым.
func (s *Service) Resolve(ctx context.Context, id string) (*Report, error) {
	return s.SetStatus(ctx, id, StatusResolved)
}

// SetStatus меняет статус с проверкой перехода.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Report, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidStatus, status)
	}
	s.counters.Lock()
	defer s.counters.Unlock()

	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep.Status == status {
		return rep, nil
	}
	if !rep.Status.canMove(status) {
		return nil, fmt.Errorf("%w: %s → %s", common.ErrInvalidStatus, rep.Status, status)
	}
	return s.repo.Update(ctx, id, docstore.Patch{"status": status})
}

// ListAll возвращает все сообщения, новые первыми.
func (s *Service) ListAll(ctx context.Context) []Report {
	return newestFirst(s.repo.List(ctx))
}

// ListForUser возвращает сообщения актора, новые первыми.
func (s *Service) ListForUser(ctx context.Context, actor accounts.Actor) []Report {
	return newestFirst(s.repo.ListForUser(ctx, actor.OwnerID()))
}

func newestFirst(reps []Report) []Report {
	sort.SliceStable(reps, func(i, j int) bool { return reps[i].CreatedAt.After(reps[j].CreatedAt) })
	return reps
}
