package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"osprey-mdi/config"
	"osprey-mdi/core/store"
)

func setupUsers(t *testing.T) store.UsersStore {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "auth.db"),
	}
	db, err := store.NewDB(cfg, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, nil); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return store.NewUsersStore(db)
}

func TestHashVerifyRoundtrip(t *testing.T) {
	hash, err := HashPassword("secret1", "pepper")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword("secret1", "pepper", hash) {
		t.Fatalf("correct password did not verify")
	}
	if VerifyPassword("secret2", "pepper", hash) {
		t.Fatalf("wrong password verified")
	}
	if VerifyPassword("secret1", "other", hash) {
		t.Fatalf("wrong pepper verified")
	}
}

func TestLoginOutcomes(t *testing.T) {
	users := setupUsers(t)
	cfg := &config.AppConfig{Pepper: "pepper"}
	a := NewAuthenticator(users, cfg)
	ctx := context.Background()

	ident, err := a.Register(ctx, "alice", "correcthorse", "analyst")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if ident.Role != "analyst" {
		t.Fatalf("unexpected role: %q", ident.Role)
	}

	got, err := a.Login(ctx, "alice", "correcthorse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != ident.ID || got.Username != "alice" || got.Role != "analyst" {
		t.Fatalf("unexpected identity: %+v", got)
	}

	// Stored hash must verify the original password and no other.
	row, _ := users.FindByUsername(ctx, "alice")
	if !VerifyPassword("correcthorse", "pepper", row.PasswordHash) {
		t.Fatalf("stored hash does not verify original password")
	}
	if VerifyPassword("wrong", "pepper", row.PasswordHash) {
		t.Fatalf("stored hash verifies a different password")
	}

	if _, err := a.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Login(ctx, "bob", "anything"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := setupUsers(t)
	a := NewAuthenticator(users, &config.AppConfig{})
	ctx := context.Background()

	if _, err := a.Register(ctx, "alice", "password1", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := a.Register(ctx, "alice", "password2", "")
	if !errors.Is(err, store.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLoginNormalizesUsername(t *testing.T) {
	users := setupUsers(t)
	a := NewAuthenticator(users, &config.AppConfig{})
	ctx := context.Background()
	if _, err := a.Register(ctx, "Alice", "password1", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := a.Login(ctx, "  ALICE ", "password1"); err != nil {
		t.Fatalf("case/space-insensitive login failed: %v", err)
	}
}

func TestImportLegacyUsers(t *testing.T) {
	users := setupUsers(t)
	ctx := context.Background()

	// Pre-existing row must not be overwritten by the import.
	hash := MustHashPassword("existingpw", "")
	if _, err := users.Create(ctx, &store.User{Username: "carol", PasswordHash: hash, Role: "admin"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	legacyHash := MustHashPassword("legacypw", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "users.txt")
	content := "dave," + legacyHash + "\ncarol,should-not-replace\n\nmalformed-line\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	n, err := ImportLegacyUsers(ctx, users, path, nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 imported, got %d", n)
	}

	dave, _ := users.FindByUsername(ctx, "dave")
	if dave == nil || dave.Role != "general" {
		t.Fatalf("legacy user missing or wrong role: %+v", dave)
	}
	if !VerifyPassword("legacypw", "", dave.PasswordHash) {
		t.Fatalf("legacy hash does not verify")
	}
	carol, _ := users.FindByUsername(ctx, "carol")
	if !VerifyPassword("existingpw", "", carol.PasswordHash) {
		t.Fatalf("existing user was overwritten")
	}

	// Missing file is fine.
	if _, err := ImportLegacyUsers(ctx, users, filepath.Join(dir, "absent.txt"), nil); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
}
