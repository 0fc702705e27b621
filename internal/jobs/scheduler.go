// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание пересчёта рейтинга сообщества.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/metrics"
)

// Recomputer пересчитывает снимок рейтинга.
type Recomputer interface {
	RecomputeSnapshot(ctx context.Context) (int, error)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron        *cron.Cron
	leaderboard Recomputer
	spec        string
}

// NewScheduler создаёт планировщик в часовом поясе loc.
// spec — расписание пересчёта рейтинга в формате cron.
func NewScheduler(leaderboard Recomputer, spec string, loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("неверное расписание рейтинга %q: %w", spec, err)
	}
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(loc)),
		leaderboard: leaderboard,
		spec:        spec,
	}, nil
}

// Start пересчитывает рейтинг сразу и запускает расписание.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.recompute(ctx) }); err != nil {
		return fmt.Errorf("ошибка добавления задачи рейтинга: %w", err)
	}
	s.recompute(ctx)
	s.cron.Start()
	log.WithField("leaderboard_cron", s.spec).Info("Планировщик задач запущен")
	return nil
}

func (s *Scheduler) recompute(ctx context.Context) {
	n, err := s.leaderboard.RecomputeSnapshot(ctx)
	metrics.JobRun("leaderboard", err)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка пересчёта рейтинга")
		return
	}
	log.WithField("entries", n).Debug("[CRON] Рейтинг пересчитан")
}

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
