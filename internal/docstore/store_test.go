package docstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"serotonyl.ru/ecotrack/internal/storage"
)

// frozenClock возвращает одно и то же время, пока его не сдвинут.
type frozenClock struct{ t time.Time }

func (c *frozenClock) Now() time.Time { return c.t }

func newTestStore(t *testing.T, kv storage.Substrate, opts ...Option) (*Store, *frozenClock) {
	t.Helper()
	clock := &frozenClock{t: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return New(context.Background(), kv, "", opts...), clock
}

func TestNewSeedsCollections(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory(0)
	if err := kv.SetItem(ctx, "ecotrack_users", `[{"id":"keep"}]`); err != nil {
		t.Fatal(err)
	}

	New(ctx, kv, "")

	for _, name := range Collections {
		raw, ok, _ := kv.GetItem(ctx, "ecotrack_"+name)
		if !ok {
			t.Errorf("collection %s not seeded", name)
		}
		if name != Users && raw != "[]" {
			t.Errorf("collection %s = %q, want []", name, raw)
		}
	}
	if raw, _, _ := kv.GetItem(ctx, "ecotrack_users"); raw != `[{"id":"keep"}]` {
		t.Errorf("existing collection overwritten: %q", raw)
	}
}

func TestCreateAssignsMetadata(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemory(0))

	r, err := s.Create(ctx, WaterLogs, map[string]any{
		"userId":    "u1",
		"liters":    40,
		"id":        "spoofed",
		"createdAt": "1999-01-01T00:00:00.000Z",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.ID() == "" || r.ID() == "spoofed" {
		t.Fatalf("id = %q, want generated", r.ID())
	}
	if !strings.HasPrefix(r.ID(), fmt.Sprint(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC).UnixMilli())) {
		t.Errorf("id %q does not start with millisecond timestamp", r.ID())
	}
	if r["createdAt"] != "2024-05-10T12:00:00.000Z" || r["updatedAt"] != r["createdAt"] {
		t.Errorf("timestamps = %v / %v", r["createdAt"], r["updatedAt"])
	}
	if r["userId"] != "u1" {
		t.Errorf("userId = %v", r["userId"])
	}
}

func TestCreateListUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemory(0))

	const n = 25
	for i := 0; i < n; i++ {
		if _, err := s.Create(ctx, CarbonLogs, map[string]any{"n": i}); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}
	items := s.List(ctx, CarbonLogs)
	if len(items) != n {
		t.Fatalf("List len = %d, want %d", len(items), n)
	}
	seen := map[string]bool{}
	for _, r := range items {
		if seen[r.ID()] {
			t.Fatalf("duplicate id %s", r.ID())
		}
		seen[r.ID()] = true
	}
}

func TestCreateRegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	ids := []string{"same", "same", "other"}
	gen := func(time.Time) string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	s, _ := newTestStore(t, storage.NewMemory(0), WithIDGenerator(gen))

	a, err := s.Create(ctx, Reports, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Create(ctx, Reports, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID() != "same" || b.ID() != "other" {
		t.Fatalf("ids = %s, %s; want same, other", a.ID(), b.ID())
	}
}

func TestUpdateMergesAndAdvancesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemory(0))

	created, err := s.Create(ctx, CommunityPosts, map[string]any{"content": "hi", "likes": 0})
	if err != nil {
		t.Fatal(err)
	}

	// часы не сдвигаются: updatedAt всё равно должен вырасти
	for i := 1; i <= 3; i++ {
		prev, _ := s.Get(ctx, CommunityPosts, created.ID())
		updated, err := s.Update(ctx, CommunityPosts, created.ID(), map[string]any{
			"likes":     i,
			"id":        "hijack",
			"createdAt": "1999-01-01T00:00:00.000Z",
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		before, _ := ParseTime(prev["updatedAt"])
		after, _ := ParseTime(updated["updatedAt"])
		if !after.After(before) {
			t.Fatalf("updatedAt %v not after %v", after, before)
		}
		if updated.ID() != created.ID() || updated["createdAt"] != created["createdAt"] {
			t.Fatalf("immutable fields changed: %v", updated)
		}
		if updated["content"] != "hi" {
			t.Fatalf("untouched field lost: %v", updated)
		}
	}

	got, err := s.Get(ctx, CommunityPosts, created.ID())
	if err != nil {
		t.Fatal(err)
	}
	if got["likes"] != float64(3) {
		t.Fatalf("likes = %v, want 3", got["likes"])
	}
}

func TestUpdateIgnoresPatchedUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemory(0))

	created, err := s.Create(ctx, WaterLogs, map[string]any{"liters": 1})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := s.Update(ctx, WaterLogs, created.ID(), map[string]any{
		"liters":    2,
		"updatedAt": "2000-01-01T00:00:00.000Z",
	})
	if err != nil {
		t.Fatal(err)
	}
	before, _ := ParseTime(created["updatedAt"])
	after, ok := ParseTime(updated["updatedAt"])
	if !ok || !after.After(before) {
		t.Fatalf("updatedAt = %v, want after %v", updated["updatedAt"], before)
	}
	if updated["liters"] != float64(2) {
		t.Fatalf("liters = %v, want 2", updated["liters"])
	}
}

func TestUpdateMissingLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory(0)
	s, _ := newTestStore(t, kv)

	if _, err := s.Create(ctx, Users, map[string]any{"email": "a@b.c"}); err != nil {
		t.Fatal(err)
	}
	before, _, _ := kv.GetItem(ctx, s.Key(Users))

	_, err := s.Update(ctx, Users, "missing", map[string]any{"email": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update missing err = %v, want ErrNotFound", err)
	}
	after, _, _ := kv.GetItem(ctx, s.Key(Users))
	if before != after {
		t.Fatalf("collection changed:\n%s\n%s", before, after)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemory(0))

	r, err := s.Create(ctx, Reports, map[string]any{"location": "park"})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if !s.Delete(ctx, Reports, r.ID()) {
			t.Fatalf("Delete #%d returned false", i+1)
		}
	}
	if !s.Delete(ctx, Reports, "never-existed") {
		t.Fatal("Delete of unknown id returned false")
	}
	if _, err := s.Get(ctx, Reports, r.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
}

func TestRestartRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	kv, err := storage.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := newTestStore(t, kv)
	var want []Record
	for i := 0; i < 3; i++ {
		r, err := s.Create(ctx, WaterLogs, map[string]any{"userId": "u1", "liters": 10 * i})
		if err != nil {
			t.Fatal(err)
		}
		want = append(want, r)
	}
	if err := kv.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := storage.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	s2 := New(ctx, reopened, "")

	got := s2.List(ctx, WaterLogs)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID() != want[i].ID() || got[i]["createdAt"] != want[i]["createdAt"] {
			t.Errorf("record %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestQuotaFailureIsReportedAndHarmless(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory(400)
	s, _ := newTestStore(t, kv)

	if _, err := s.Create(ctx, WaterLogs, map[string]any{"liters": 1}); err != nil {
		t.Fatalf("small Create: %v", err)
	}
	_, err := s.Create(ctx, WaterLogs, map[string]any{"note": strings.Repeat("x", 1000)})
	if !errors.Is(err, ErrNotPersisted) || !errors.Is(err, storage.ErrQuotaExceeded) {
		t.Fatalf("Create over quota err = %v, want ErrNotPersisted wrapping ErrQuotaExceeded", err)
	}
	if n := len(s.List(ctx, WaterLogs)); n != 1 {
		t.Fatalf("List len = %d, want 1", n)
	}
}

func TestCorruptCollection(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory(0)
	s, _ := newTestStore(t, kv)
	if err := kv.SetItem(ctx, s.Key(Reports), "{broken"); err != nil {
		t.Fatal(err)
	}

	if got := s.List(ctx, Reports); len(got) != 0 {
		t.Fatalf("List on corrupt = %v, want empty", got)
	}
	if _, err := s.Get(ctx, Reports, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on corrupt err = %v", err)
	}
	if _, err := s.Create(ctx, Reports, map[string]any{"a": 1}); !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("Create on corrupt err = %v, want ErrNotPersisted", err)
	}
	if raw, _, _ := kv.GetItem(ctx, s.Key(Reports)); raw != "{broken" {
		t.Fatalf("corrupt blob overwritten: %q", raw)
	}
	if s.Delete(ctx, Reports, "x") {
		t.Fatal("Delete on corrupt returned true")
	}
}

func TestUnserializableData(t *testing.T) {
	s, _ := newTestStore(t, storage.NewMemory(0))
	_, err := s.Create(context.Background(), Users, map[string]any{"ch": make(chan int)})
	if !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("err = %v, want ErrNotPersisted", err)
	}
}

func TestReplaceAndClear(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemory(0))

	if !s.Replace(ctx, Leaderboard, []any{map[string]any{"rank": 1}, map[string]any{"rank": 2}}) {
		t.Fatal("Replace failed")
	}
	items := s.List(ctx, Leaderboard)
	if len(items) != 2 || items[0].ID() == "" || items[0].ID() == items[1].ID() {
		t.Fatalf("Replace result = %v", items)
	}
	if !s.Clear(ctx, Leaderboard) {
		t.Fatal("Clear failed")
	}
	if n := len(s.List(ctx, Leaderboard)); n != 0 {
		t.Fatalf("after Clear len = %d", n)
	}
}

func TestSingleItems(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory(0)
	s, _ := newTestStore(t, kv)

	type current struct {
		UID string `json:"uid"`
	}
	var got current
	if s.GetItem(ctx, CurrentUserItem, &got) {
		t.Fatal("GetItem on empty returned true")
	}
	if err := s.SetItem(ctx, CurrentUserItem, current{UID: "user-1"}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := kv.GetItem(ctx, "ecotrack_currentUser"); !ok {
		t.Fatal("current user stored under unexpected key")
	}
	if !s.GetItem(ctx, CurrentUserItem, &got) || got.UID != "user-1" {
		t.Fatalf("GetItem = %+v", got)
	}
	if err := s.RemoveItem(ctx, CurrentUserItem); err != nil {
		t.Fatal(err)
	}
	if s.GetItem(ctx, CurrentUserItem, &got) {
		t.Fatal("GetItem after remove returned true")
	}
}
