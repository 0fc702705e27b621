package app

import (
	"context"
	"path/filepath"
	"testing"

	"serotonyl.ru/ecotrack/internal/config"
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/features/accounts"
)

func TestOpenSubstrate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"memory", config.Config{StorageDriver: config.StorageMemory}, false},
		{"file", config.Config{StorageDriver: config.StorageFile, StorageFilePath: filepath.Join(t.TempDir(), "kv.json")}, false},
		{"unknown", config.Config{StorageDriver: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, closeKV, err := openSubstrate(ctx, &tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer closeKV()
			if err := kv.SetItem(ctx, "k", "v"); err != nil {
				t.Fatalf("SetItem: %v", err)
			}
		})
	}
}

func TestServicesShareStore(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{StorageDriver: config.StorageMemory, LeaderboardSize: 10}
	kv, closeKV, err := openSubstrate(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer closeKV()

	svc := NewServices(docstore.New(ctx, kv, ""), cfg, nil)
	if svc.Coach.Enabled() {
		t.Fatal("coach must be disabled without generator")
	}

	u, err := svc.Accounts.SignUp(ctx, "1", "eco@example.com", "", "Eco")
	if err != nil {
		t.Fatal(err)
	}
	actor := accounts.Authenticated(*u)
	if _, err := svc.Water.LogActivity(ctx, actor, "cooking", 10); err != nil {
		t.Fatal(err)
	}

	w, err := svc.Stats.Week(ctx, actor)
	if err != nil {
		t.Fatal(err)
	}
	if w.TotalWater != 15 {
		t.Fatalf("TotalWater = %v, want 15", w.TotalWater)
	}
	if top := svc.Leaderboard.Top(ctx, 10); len(top) != 1 || top[0].UserID != u.UID {
		t.Fatalf("Top = %+v", top)
	}
}
