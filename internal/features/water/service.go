// Package water — service.go проверяет ввод и сохраняет записи расхода.
package water

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/features/accounts"
)

// Service ведёт журнал расхода воды.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис учёта воды.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// LogActivity оценивает расход по виду активности и длительности в минутах.
func (s *Service) LogActivity(ctx context.Context, actor accounts.Actor, activity string, minutes float64) (*Log, error) {
	a, ok := LookupActivity(strings.ToLower(strings.TrimSpace(activity)))
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownActivity, activity)
	}
	if !validAmount(minutes) || minutes == 0 {
		return nil, common.ErrInvalidAmount
	}
	return s.save(ctx, Log{
		UserID:   actor.OwnerID(),
		Activity: a.Name,
		Duration: docstore.Number(minutes),
		Liters:   docstore.Number(EstimateLiters(a, minutes)),
	})
}

// LogPulse сохраняет замер GreenPulse: поток в л/мин и время в секундах.
func (s *Service) LogPulse(ctx context.Context, actor accounts.Actor, flowRate, seconds float64) (*Log, error) {
	if !validAmount(flowRate) || !validAmount(seconds) || seconds == 0 {
		return nil, common.ErrInvalidAmount
	}
	return s.save(ctx, Log{
		UserID:   actor.OwnerID(),
		Activity: PulseActivity,
		Duration: docstore.Number(seconds),
		Liters:   docstore.Number(PulseLiters(flowRate, seconds)),
		FlowRate: docstore.Number(flowRate),
	})
}

func (s *Service) save(ctx context.Context, l Log) (*Log, error) {
	created, err := s.repo.Create(ctx, l)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"user_id":  created.UserID,
		"activity": created.Activity,
		"liters":   created.Liters,
	}).Debug("Расход воды записан")
	return created, nil
}

// History возвращает последние записи актора, новые первыми.
func (s *Service) History(ctx context.Context, actor accounts.Actor, limit int) []Log {
	logs := s.repo.ListForUser(ctx, actor.OwnerID())
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].CreatedAt.After(logs[j].CreatedAt) })
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs
}

// Delete удаляет свою запись. Чужую запись удалить нельзя.
func (s *Service) Delete(ctx context.Context, actor accounts.Actor, id string) error {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if l.UserID != actor.OwnerID() {
		return common.ErrLogNotFound
	}
	if !s.repo.Delete(ctx, id) {
		return fmt.Errorf("не удалось удалить запись %s", id)
	}
	return nil
}

// ForUser возвращает записи пользователя для подсчёта статистики.
func (s *Service) ForUser(ctx context.Context, userID string) []Log {
	return s.repo.ListForUser(ctx, userID)
}

// All возвращает записи всех пользователей.
func (s *Service) All(ctx context.Context) []Log {
	return s.repo.ListAll(ctx)
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
