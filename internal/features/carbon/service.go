package carbon

import (
	"context"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/features/accounts"
)

// Service считает и сохраняет углеродный след.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис учёта выбросов.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Log считает след по данным калькулятора и сохраняет запись.
func (s *Service) Log(ctx context.Context, actor accounts.Actor, in Input) (*Log, Footprint, error) {
	in.Transport.Mode = normalize(in.Transport.Mode)
	in.Food.Type = normalize(in.Food.Type)

	fp, err := Calculate(in)
	if err != nil {
		return nil, Footprint{}, err
	}
	created, err := s.repo.Create(ctx, Log{
		UserID:      actor.OwnerID(),
		CO2Kg:       docstore.Number(fp.Total),
		Transport:   in.Transport,
		Electricity: docstore.Number(in.Electricity),
		Food:        in.Food,
		Metadata:    fp.Metadata(),
	})
	if err != nil {
		return nil, Footprint{}, err
	}
	log.WithFields(log.Fields{
		"user_id": created.UserID,
		"co2kg":   fp.Total,
	}).Debug("Углеродный след записан")
	return created, fp, nil
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

// ForUser возвращает записи пользователя для подсчёта статистики.
func (s *Service) ForUser(ctx context.Context, userID string) []Log {
	return s.repo.ListForUser(ctx, userID)
}

// All возвращает записи всех пользователей.
func (s *Service) All(ctx context.Context) []Log {
	return s.repo.ListAll(ctx)
}

// normalize приводит "Non-Vegetarian" и "non_vegetarian" к "nonvegetarian".
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
