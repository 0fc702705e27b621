package leaderboard

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/features/accounts"
	"serotonyl.ru/ecotrack/internal/features/carbon"
	"serotonyl.ru/ecotrack/internal/features/water"
	"serotonyl.ru/ecotrack/internal/metrics"
	"serotonyl.ru/ecotrack/internal/scoring"
)

// Service пересчитывает и отдаёт рейтинг.
type Service struct {
	store    *docstore.Store
	entries  *docstore.Collection[Entry]
	accounts *accounts.Service
	water    *water.Service
	carbon   *carbon.Service
	size     int
}

// NewService создаёт сервис рейтинга. size — сколько мест хранить в снимке.
func NewService(store *docstore.Store, accountsService *accounts.Service, waterService *water.Service, carbonService *carbon.Service, size int) *Service {
	if size <= 0 {
		size = 10
	}
	return &Service{
		store:    store,
		entries:  docstore.NewCollection[Entry](store, docstore.Leaderboard),
		accounts: accountsService,
		water:    waterService,
		carbon:   carbonService,
		size:     size,
	}
}

// Compute считает рейтинг без сохранения: все зарегистрированные
// пользователи, по убыванию балла, при равенстве — по имени.
func (s *Service) Compute(ctx context.Context) []Entry {
	members := s.accounts.Members(ctx)
	waterEntries := water.Entries(s.water.All(ctx))
	carbonEntries := carbon.Entries(s.carbon.All(ctx))

	rows := make([]Entry, 0, len(members))
	for _, u := range members {
		st := scoring.LeaderboardStanding(u.UID, waterEntries, carbonEntries)
		rows = append(rows, Entry{
			UserID:        u.UID,
			DisplayName:   u.Name(),
			EcoScore:      st.EcoScore,
			WaterSaved:    st.WaterSaved,
			CarbonReduced: st.CarbonReduced,
			Badges:        st.Badges.Strings(),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].EcoScore != rows[j].EcoScore {
			return rows[i].EcoScore > rows[j].EcoScore
		}
		return rows[i].DisplayName < rows[j].DisplayName
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// Recompute пересчитывает рейтинг, сохраняет первые size мест как снимок
// и обновляет баллы в профилях пользователей.
func (s *Service) Recompute(ctx context.Context) ([]Entry, error) {
	rows := s.Compute(ctx)
	top := rows
	if len(top) > s.size {
		top = top[:s.size]
	}

	records := make([]any, len(top))
	for i, e := range top {
		records[i] = e
	}
	if !s.store.Replace(ctx, docstore.Leaderboard, records) {
		return nil, fmt.Errorf("снимок рейтинга: %w", docstore.ErrNotPersisted)
	}
	metrics.SetLeaderboardSize(len(top))

	s.recordScores(ctx, rows)
	log.WithFields(log.Fields{
		"members": len(rows),
		"stored":  len(top),
	}).Info("Рейтинг пересчитан")
	return top, nil
}

func (s *Service) recordScores(ctx context.Context, rows []Entry) {
	byUID := make(map[string]Entry, len(rows))
	for _, r := range rows {
		byUID[r.UserID] = r
	}
	for _, u := range s.accounts.Members(ctx) {
		r, ok := byUID[u.UID]
		if !ok {
			continue
		}
		if err := s.accounts.RecordScores(ctx, u, r.EcoScore, float64(r.WaterSaved), float64(r.CarbonReduced), r.Badges); err != nil {
			log.WithError(err).WithField("user_id", u.UID).Warn("Не удалось обновить баллы пользователя")
		}
	}
}

// Top возвращает первые n мест из снимка. Пустой снимок
// (например, сразу после очистки) пересчитывается без сохранения.
func (s *Service) Top(ctx context.Context, n int) []Entry {
	rows := s.entries.List(ctx)
	if len(rows) == 0 {
		rows = s.Compute(ctx)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// RecomputeSnapshot пересчитывает рейтинг для планировщика
// и возвращает число сохранённых мест.
func (s *Service) RecomputeSnapshot(ctx context.Context) (int, error) {
	rows, err := s.Recompute(ctx)
	return len(rows), err
}
