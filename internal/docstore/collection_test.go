package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"serotonyl.ru/ecotrack/internal/storage"
)

type sample struct {
	Meta
	UserID string `json:"userId"`
	Liters Number `json:"liters"`
}

func TestCollectionTyped(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemory(0))
	c := NewCollection[sample](s, WaterLogs)

	created, err := c.Create(ctx, sample{UserID: "u1", Liters: 12.5})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("meta not populated: %+v", created.Meta)
	}

	updated, err := c.Update(ctx, created.ID, Patch{"liters": 20})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Liters != 20 || updated.UserID != "u1" {
		t.Fatalf("Update = %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("UpdatedAt not advanced: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}

	if _, err := c.Create(ctx, sample{UserID: "u2", Liters: 1}); err != nil {
		t.Fatal(err)
	}
	mine := c.Filter(ctx, func(v sample) bool { return v.UserID == "u1" })
	if len(mine) != 1 {
		t.Fatalf("Filter len = %d, want 1", len(mine))
	}
	if len(c.List(ctx)) != 2 {
		t.Fatalf("List len = %d, want 2", len(c.List(ctx)))
	}

	if !c.Delete(ctx, created.ID) {
		t.Fatal("Delete failed")
	}
	if _, err := c.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
}

func TestNumberIsLenient(t *testing.T) {
	tests := []struct {
		raw  string
		want Number
	}{
		{`{"liters": 42}`, 42},
		{`{"liters": "17.5"}`, 17.5},
		{`{"liters": "lots"}`, 0},
		{`{"liters": null}`, 0},
		{`{"liters": true}`, 0},
		{`{}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var v struct {
				Liters Number `json:"liters"`
			}
			if err := json.Unmarshal([]byte(tt.raw), &v); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if v.Liters != tt.want {
				t.Fatalf("Liters = %v, want %v", v.Liters, tt.want)
			}
		})
	}
}

func TestCollectionSkipsUndecodableRecords(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory(0)
	s, _ := newTestStore(t, kv)
	raw := `[{"id":"a","userId":"u1","liters":5},{"id":"b","userId":42,"liters":5}]`
	if err := kv.SetItem(ctx, s.Key(WaterLogs), raw); err != nil {
		t.Fatal(err)
	}
	got := NewCollection[sample](s, WaterLogs).List(ctx)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("List = %+v, want only record a", got)
	}
}
