package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"traveltodo/internal/config"
	"traveltodo/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	db, err := storage.Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(openTestDB(t))
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: " Leila@Example.com ", Password: "s3cretpass", FirstName: "Leila"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.ID == 0 || user.Email != "leila@example.com" || user.Role != "client" {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.PasswordHash == "s3cretpass" {
		t.Fatalf("password stored in clear")
	}

	got, err := svc.Login(ctx, "LEILA@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if got.ID != user.ID || got.FirstName != "Leila" {
		t.Fatalf("unexpected login user %+v", got)
	}

	if _, err := svc.Login(ctx, "leila@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "s3cretpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(openTestDB(t))
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "", Password: "s3cretpass"},
		{Email: "not-an-email", Password: "s3cretpass"},
		{Email: "a@example.com", Password: "short"},
		{Email: "a@example.com", Password: strings.Repeat("a", 80)},
	}
	for _, in := range cases {
		if _, err := svc.Register(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Register(%+v) = %v, want ErrInvalidInput", in, err)
		}
	}

	if _, err := svc.Register(ctx, RegisterInput{Email: "b@example.com", Password: strings.Repeat("b", 72)}); err != nil {
		t.Fatalf("Register with a 72 byte password: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "s3cretpass"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "A@example.com", Password: "s3cretpass"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc := NewService(openTestDB(t))
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "del@example.com", Password: "s3cretpass"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := svc.Get(ctx, user.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows after delete, got %v", err)
	}
	if err := svc.Delete(ctx, user.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows on second delete, got %v", err)
	}
}
