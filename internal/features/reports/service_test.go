package reports

import (
	"context"
	"errors"
	"testing"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/features/accounts"
	"serotonyl.ru/ecotrack/internal/storage"
)

func newService(t *testing.T) *Service {
	t.Helper()
	store := docstore.New(context.Background(), storage.NewMemory(0), "")
	return NewService(NewRepository(store))
}

func TestSubmitDefaults(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	rep, err := s.Submit(ctx, accounts.Anonymous(), " Park ", "Garbage", "overflowing bins", "")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Status != StatusPending || rep.Upvotes != 0 || rep.Confirmations != 0 {
		t.Fatalf("unexpected defaults: %+v", rep)
	}
	if rep.UserID != accounts.GuestOwnerID || rep.Name != "Гость" || rep.Location != "Park" || rep.Category != "other" {
		t.Fatalf("unexpected fields: %+v", rep)
	}

	if _, err := s.Submit(ctx, accounts.Anonymous(), "", "waste", "x", ""); !errors.Is(err, common.ErrEmptyReport) {
		t.Fatalf("empty location err = %v", err)
	}
}

func TestConfirmPromotesAfterThree(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	rep, err := s.Submit(ctx, accounts.Anonymous(), "River", "pollution", "oil", "")
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= ConfirmationsToConfirm; i++ {
		rep, err = s.Confirm(ctx, rep.ID)
		if err != nil {
			t.Fatal(err)
		}
		want := StatusPending
		if i == ConfirmationsToConfirm {
			want = StatusConfirmed
		}
		if rep.Status != want || int(rep.Confirmations) != i {
			t.Fatalf("after %d confirmations: status %s, count %v", i, rep.Status, rep.Confirmations)
		}
	}

	rep, err = s.Upvote(ctx, rep.ID)
	if err != nil || rep.Upvotes != 1 {
		t.Fatalf("Upvote = %+v, %v", rep, err)
	}
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	rep, _ := s.Submit(ctx, accounts.Anonymous(), "Street", "leak", "pipe burst", "")

	if _, err := s.SetStatus(ctx, rep.ID, "archived"); !errors.Is(err, common.ErrInvalidStatus) {
		t.Fatalf("unknown status err = %v", err)
	}
	if _, err := s.Resolve(ctx, rep.ID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := s.SetStatus(ctx, rep.ID, StatusPending); !errors.Is(err, common.ErrInvalidStatus) {
		t.Fatalf("reopen err = %v, want ErrInvalidStatus", err)
	}
	if _, err := s.Confirm(ctx, "missing"); !errors.Is(err, common.ErrReportNotFound) {
		t.Fatalf("Confirm missing err = %v", err)
	}
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	u1 := accounts.Authenticated(accounts.User{UID: "user-1", DisplayName: "Ann"})

	if _, err := s.Submit(ctx, u1, "A", "waste", "a", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(ctx, accounts.Anonymous(), "B", "waste", "b", ""); err != nil {
		t.Fatal(err)
	}
	mine := s.ListForUser(ctx, u1)
	if len(mine) != 1 || mine[0].Name != "Ann" {
		t.Fatalf("ListForUser = %+v", mine)
	}
	if n := len(s.ListAll(ctx)); n != 2 {
		t.Fatalf("ListAll = %d, want 2", n)
	}
}
