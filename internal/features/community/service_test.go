package community

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/features/accounts"
	"serotonyl.ru/ecotrack/internal/storage"
)

func newTestService(t *testing.T) (*Service, *docstore.Store) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	store := docstore.New(context.Background(), storage.NewMemory(0), "", docstore.WithClock(clock))
	return NewService(NewRepository(store)), store
}

func TestPublishValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	if _, err := s.Publish(ctx, accounts.Anonymous(), "   "); !errors.Is(err, common.ErrEmptyPost) {
		t.Fatalf("empty err = %v", err)
	}
	if _, err := s.Publish(ctx, accounts.Anonymous(), strings.Repeat("я", MaxContentRunes+1)); !errors.Is(err, common.ErrPostTooLong) {
		t.Fatalf("long err = %v", err)
	}
	p, err := s.Publish(ctx, accounts.Anonymous(), strings.Repeat("я", MaxContentRunes))
	if err != nil {
		t.Fatalf("max-length post: %v", err)
	}
	if p.Author != "Гость" || p.Avatar != DefaultAvatar || p.Likes != 0 || p.UserID != accounts.GuestOwnerID {
		t.Fatalf("unexpected post: %+v", p)
	}
}

func TestFeedNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.Publish(ctx, accounts.Anonymous(), text); err != nil {
			t.Fatal(err)
		}
	}
	feed := s.Feed(ctx, 2)
	if len(feed) != 2 || feed[0].Content != "third" || feed[1].Content != "second" {
		t.Fatalf("Feed = %+v", feed)
	}
}

func TestLikeAndComment(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	ann := accounts.Authenticated(accounts.User{UID: "user-1", DisplayName: "Ann"})

	p, err := s.Publish(ctx, ann, "planted a tree")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if p, err = s.Like(ctx, p.ID); err != nil {
			t.Fatal(err)
		}
	}
	if p.Likes != 2 {
		t.Fatalf("Likes = %v, want 2", p.Likes)
	}

	p, err = s.Comment(ctx, accounts.Anonymous(), p.ID, "nice!")
	if err != nil {
		t.Fatal(err)
	}
	if p.Comments != 1 || len(p.Replies) != 1 || p.Replies[0].Author != "Гость" || p.Author != "Ann" {
		t.Fatalf("after comment: %+v", p)
	}
	if _, err := s.Like(ctx, "missing"); !errors.Is(err, common.ErrPostNotFound) {
		t.Fatalf("Like missing err = %v", err)
	}
}

func TestDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	ann := accounts.Authenticated(accounts.User{UID: "user-1"})
	bob := accounts.Authenticated(accounts.User{UID: "user-2"})

	p, _ := s.Publish(ctx, ann, "hello")
	if err := s.Delete(ctx, bob, p.ID, false); !errors.Is(err, common.ErrPostNotFound) {
		t.Fatalf("foreign delete err = %v", err)
	}
	if err := s.Delete(ctx, bob, p.ID, true); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if len(s.Feed(ctx, 0)) != 0 {
		t.Fatal("post not deleted")
	}
}

func TestClearRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t)
	if _, err := s.Publish(ctx, accounts.Anonymous(), "hi"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, docstore.Leaderboard, map[string]any{"rank": 1}); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(ctx, false); !errors.Is(err, common.ErrNotAdmin) {
		t.Fatalf("Clear non-admin err = %v", err)
	}
	if err := s.Clear(ctx, true); err != nil {
		t.Fatal(err)
	}
	if len(s.Feed(ctx, 0)) != 0 || len(store.List(ctx, docstore.Leaderboard)) != 0 {
		t.Fatal("collections not cleared")
	}
}
