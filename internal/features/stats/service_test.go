package stats

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/features/accounts"
	"serotonyl.ru/ecotrack/internal/features/carbon"
	"serotonyl.ru/ecotrack/internal/features/water"
	"serotonyl.ru/ecotrack/internal/scoring"
	"serotonyl.ru/ecotrack/internal/storage"
)

var now = time.Date(2026, 5, 20, 18, 0, 0, 0, time.UTC)

type fixture struct {
	waterRepo *water.Repository
	water     *water.Service
	carbon    *carbon.Service
	stats     *Service
}

func newFixture(t *testing.T, createdAt time.Time) *fixture {
	t.Helper()
	store := docstore.New(context.Background(), storage.NewMemory(0), "",
		docstore.WithClock(func() time.Time { return createdAt }))
	f := &fixture{waterRepo: water.NewRepository(store)}
	f.water = water.NewService(f.waterRepo)
	f.carbon = carbon.NewService(carbon.NewRepository(store))
	f.stats = NewService(f.water, f.carbon, func() time.Time { return now })
	return f
}

func TestWeeklyEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, now.Add(-48*time.Hour))
	u1 := accounts.Authenticated(accounts.User{UID: "U1"})
	u2 := accounts.Authenticated(accounts.User{UID: "U2"})

	for _, liters := range []float64{100, 50, 900} {
		if _, err := f.waterRepo.Create(ctx, water.Log{UserID: "U1", Liters: docstore.Number(liters), Activity: "manual"}); err != nil {
			t.Fatal(err)
		}
	}

	w, err := f.stats.Week(ctx, u1)
	if err != nil {
		t.Fatal(err)
	}
	if w.TotalWater != 1050 || w.WaterSaved != 0 {
		t.Fatalf("U1 week: total %v saved %v", w.TotalWater, w.WaterSaved)
	}
	if want := scoring.WeeklyEcoScore(1050, 0); w.EcoScore != want || w.WaterScore != 50 {
		t.Fatalf("U1 eco %d water %v, want %d/50", w.EcoScore, w.WaterScore, want)
	}

	if logs := f.water.ForUser(ctx, "U2"); len(logs) != 0 {
		t.Fatalf("U2 logs = %+v, want none", logs)
	}
	w2, err := f.stats.Week(ctx, u2)
	if err != nil {
		t.Fatal(err)
	}
	if w2.TotalWater != 0 || w2.Entries != 0 || w2.EcoScore != 100 {
		t.Fatalf("U2 week leaked U1 data: %+v", w2)
	}
}

func TestAnonymousNeedsSignIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, now)
	anon := accounts.Anonymous()

	if _, err := f.stats.Dashboard(ctx, anon); !errors.Is(err, common.ErrNotSignedIn) {
		t.Errorf("Dashboard err = %v", err)
	}
	if _, err := f.stats.Profile(ctx, anon); !errors.Is(err, common.ErrNotSignedIn) {
		t.Errorf("Profile err = %v", err)
	}
	if _, err := f.stats.ShareText(ctx, anon); !errors.Is(err, common.ErrNotSignedIn) {
		t.Errorf("ShareText err = %v", err)
	}
	if _, err := f.stats.ExportJSON(ctx, anon); !errors.Is(err, common.ErrNotSignedIn) {
		t.Errorf("ExportJSON err = %v", err)
	}
}

func TestDashboardCountsToday(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, now.Add(-time.Hour))
	u := accounts.Authenticated(accounts.User{UID: "U1"})

	if _, err := f.water.LogActivity(ctx, u, "bathing", 25); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.carbon.Log(ctx, u, carbon.Input{Electricity: 20}); err != nil {
		t.Fatal(err)
	}
	d, err := f.stats.Dashboard(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	if d.TodayWater != 200 || d.TodayCarbon != 10 || d.EcoScore != scoring.DailyEcoScore(200, 10) {
		t.Fatalf("Dashboard = %+v", d)
	}
	if len(d.WaterWeek) != 7 || d.WaterWeek[6].Total != 200 {
		t.Fatalf("WaterWeek = %+v", d.WaterWeek)
	}
}

func TestShareAndExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, now.Add(-time.Hour))
	u := accounts.Authenticated(accounts.User{UID: "U1"})
	if _, err := f.water.LogActivity(ctx, u, "cooking", 10); err != nil {
		t.Fatal(err)
	}

	text, err := f.stats.ShareText(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "EcoTrack") || !strings.Contains(text, "/100") {
		t.Fatalf("ShareText = %q", text)
	}

	raw, err := f.stats.ExportJSON(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		WaterLogs []map[string]any `json:"waterLogs"`
		Profile   struct {
			TotalWaterUsed float64 `json:"totalWaterUsed"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(got.WaterLogs) != 1 || got.Profile.TotalWaterUsed != 15 {
		t.Fatalf("export = %s", raw)
	}
	if name := ExportFileName(now); name != "ecotrack-2026-05-20.json" {
		t.Fatalf("ExportFileName = %q", name)
	}
}
