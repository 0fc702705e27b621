package accounts

import (
	"context"
	"errors"
	"testing"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/storage"
)

func newService(t *testing.T) *Service {
	t.Helper()
	store := docstore.New(context.Background(), storage.NewMemory(0), "")
	return NewService(NewRepository(store))
}

func TestSignUpDefaults(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	u, err := s.SignUp(ctx, "", "alice@example.com", "secret", "")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if u.DisplayName != "alice" || u.IsGuest || u.EcoScore != DefaultEcoScore || len(u.Badges) != 0 {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.UID == "" || u.UID[:5] != "user-" {
		t.Fatalf("UID = %q", u.UID)
	}

	actor := s.Current(ctx, "")
	got, ok := actor.User()
	if !ok || got.UID != u.UID {
		t.Fatalf("Current after SignUp = %+v, %v", got, ok)
	}
}

func TestSignUpDuplicateEmailFails(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	if _, err := s.SignUp(ctx, "", "bob@example.com", "", "Bob"); err != nil {
		t.Fatal(err)
	}
	_, err := s.SignUp(ctx, "", " BOB@example.com ", "", "Bobby")
	if !errors.Is(err, common.ErrUserExists) {
		t.Fatalf("duplicate SignUp err = %v, want ErrUserExists", err)
	}
	if n := len(s.Members(ctx)); n != 1 {
		t.Fatalf("users = %d, want 1", n)
	}
}

func TestSignUpRejectsBadEmail(t *testing.T) {
	for _, email := range []string{"", "nobody", "@x.y", "a@", "a b@c.d"} {
		if _, err := newService(t).SignUp(context.Background(), "", email, "", ""); !errors.Is(err, common.ErrInvalidEmail) {
			t.Errorf("SignUp(%q) err = %v, want ErrInvalidEmail", email, err)
		}
	}
}

func TestSignInAndOut(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	if _, err := s.SignIn(ctx, "1", "ghost@example.com", ""); !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("SignIn unknown err = %v", err)
	}
	if _, err := s.SignUp(ctx, "1", "carol@example.com", "", "Carol"); err != nil {
		t.Fatal(err)
	}

	// другая сессия не видит вход первой
	if !s.Current(ctx, "2").IsAnonymous() {
		t.Fatal("session 2 should be anonymous")
	}
	if _, err := s.SignIn(ctx, "2", "carol@example.com", "wrong-password-is-ignored"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if s.Current(ctx, "2").IsAnonymous() {
		t.Fatal("session 2 should be signed in")
	}

	if err := s.SignOut(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	if !s.Current(ctx, "1").IsAnonymous() {
		t.Fatal("session 1 still signed in after SignOut")
	}
	if s.Current(ctx, "2").IsAnonymous() {
		t.Fatal("SignOut of session 1 affected session 2")
	}
}

func TestRenameRefreshesCurrent(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	if _, err := s.SignUp(ctx, "7", "dan@example.com", "", "Dan"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Rename(ctx, "7", s.Current(ctx, "7"), "  Daniel "); err != nil {
		t.Fatal(err)
	}
	if name := s.Current(ctx, "7").DisplayName(); name != "Daniel" {
		t.Fatalf("DisplayName = %q", name)
	}
	if _, err := s.Rename(ctx, "8", Anonymous(), "x"); !errors.Is(err, common.ErrNotSignedIn) {
		t.Fatalf("anonymous Rename err = %v", err)
	}
}

func TestActor(t *testing.T) {
	a := Anonymous()
	if !a.IsAnonymous() || a.OwnerID() != GuestOwnerID {
		t.Fatalf("anonymous actor = %+v", a)
	}
	if _, ok := a.User(); ok {
		t.Fatal("anonymous actor has a user")
	}
	b := Authenticated(User{UID: "user-1", Email: "e@x.y"})
	if b.IsAnonymous() || b.OwnerID() != "user-1" || b.DisplayName() != "e@x.y" {
		t.Fatalf("authenticated actor = %+v", b)
	}
}
