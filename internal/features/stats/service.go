// Package stats собирает показатели пользователя: дашборд за день,
// итоги недели, профиль, тренд и текст для публикации.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/features/accounts"
	"serotonyl.ru/ecotrack/internal/features/carbon"
	"serotonyl.ru/ecotrack/internal/features/water"
	"serotonyl.ru/ecotrack/internal/scoring"
)

// Service считает показатели по записям воды и выбросов.
type Service struct {
	water  *water.Service
	carbon *carbon.Service
	now    func() time.Time
}

// NewService создаёт сервис статистики. now — источник времени
// в часовом поясе приложения.
func NewService(waterService *water.Service, carbonService *carbon.Service, now func() time.Time) *Service {
	if now == nil {
		now = common.Now
	}
	return &Service{water: waterService, carbon: carbonService, now: now}
}

func (s *Service) entries(ctx context.Context, actor accounts.Actor) (string, []scoring.Entry, []scoring.Entry, error) {
	if actor.IsAnonymous() {
		return "", nil, nil, common.ErrNotSignedIn
	}
	uid := actor.OwnerID()
	return uid,
		water.Entries(s.water.ForUser(ctx, uid)),
		carbon.Entries(s.carbon.ForUser(ctx, uid)),
		nil
}

// Dashboard — показатели за сегодня.
func (s *Service) Dashboard(ctx context.Context, actor accounts.Actor) (scoring.DailySummary, error) {
	uid, w, c, err := s.entries(ctx, actor)
	if err != nil {
		return scoring.DailySummary{}, err
	}
	return scoring.SummarizeDay(uid, w, c, s.now()), nil
}

// Week — итоги последних 7 дней.
func (s *Service) Week(ctx context.Context, actor accounts.Actor) (scoring.WeeklySummary, error) {
	uid, w, c, err := s.entries(ctx, actor)
	if err != nil {
		return scoring.WeeklySummary{}, err
	}
	return scoring.SummarizeWeek(uid, w, c, s.now()), nil
}

// Profile — итоги по всем записям.
func (s *Service) Profile(ctx context.Context, actor accounts.Actor) (scoring.ProfileSummary, error) {
	uid, w, c, err := s.entries(ctx, actor)
	if err != nil {
		return scoring.ProfileSummary{}, err
	}
	return scoring.SummarizeProfile(uid, w, c, s.now()), nil
}

// Trend сравнивает текущую неделю с предыдущей.
func (s *Service) Trend(ctx context.Context, actor accounts.Actor) (scoring.Trend, error) {
	uid, w, c, err := s.entries(ctx, actor)
	if err != nil {
		return "", err
	}
	return scoring.WeekTrend(uid, w, c, s.now()), nil
}

// ShareText — текст для публикации в соцсетях по итогам профиля.
func (s *Service) ShareText(ctx context.Context, actor accounts.Actor) (string, error) {
	p, err := s.Profile(ctx, actor)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Я отслеживаю свой экослед с EcoTrack! 🌍\n"+
		"💧 Сэкономлено воды: %s\n"+
		"🌱 Сокращено выбросов: %s CO₂\n"+
		"🏆 Эко-балл: %d/100\n\n"+
		"Присоединяйтесь к устойчивому будущему!",
		common.FormatLiters(p.WaterSaved), common.FormatKg(p.CarbonReduced), p.EcoScore), nil
}

// Export — выгрузка всех данных пользователя.
type Export struct {
	ExportedAt time.Time              `json:"exportedAt"`
	Profile    scoring.ProfileSummary `json:"profile"`
	Week       scoring.WeeklySummary  `json:"week"`
	WaterLogs  []water.Log            `json:"waterLogs"`
	CarbonLogs []carbon.Log           `json:"carbonLogs"`
}

// ExportJSON собирает записи и итоги пользователя в JSON с отступами.
func (s *Service) ExportJSON(ctx context.Context, actor accounts.Actor) ([]byte, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrNotSignedIn
	}
	uid := actor.OwnerID()
	waterLogs := s.water.ForUser(ctx, uid)
	carbonLogs := s.carbon.ForUser(ctx, uid)
	now := s.now()

	out := Export{
		ExportedAt: now.UTC().Truncate(time.Millisecond),
		Profile:    scoring.SummarizeProfile(uid, water.Entries(waterLogs), carbon.Entries(carbonLogs), now),
		Week:       scoring.SummarizeWeek(uid, water.Entries(waterLogs), carbon.Entries(carbonLogs), now),
		WaterLogs:  waterLogs,
		CarbonLogs: carbonLogs,
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ошибка выгрузки данных: %w", err)
	}
	return raw, nil
}

// ExportFileName — имя файла выгрузки.
func ExportFileName(now time.Time) string {
	return "ecotrack-" + now.Format(time.DateOnly) + ".json"
}
