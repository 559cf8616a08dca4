package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/planr/internal/model"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	vault, err := Open(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}
	t.Cleanup(func() { _ = vault.Close() })
	return vault
}

func TestPutGetRoundTrip(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	if err := v.Put(ctx, "k", "v1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := v.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "v1" {
		t.Fatalf("expected v1, got %q", got)
	}

	if err := v.Put(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = v.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if got != "v2" {
		t.Fatalf("expected v2, got %q", got)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	v := newTestVault(t)
	if _, err := v.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	if err := v.Put(ctx, "k", "v"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := v.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := v.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := v.Delete(ctx, "k"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSessionTokenLifecycle(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	if _, err := v.SessionToken(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no token in a fresh vault, got %v", err)
	}
	if err := v.SaveSessionToken(ctx, "tok-1"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	token, err := v.SessionToken(ctx)
	if err != nil {
		t.Fatalf("read token: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("expected tok-1, got %q", token)
	}
	if err := v.ClearSessionToken(ctx); err != nil {
		t.Fatalf("clear token: %v", err)
	}
	if _, err := v.SessionToken(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestDashboardLayoutRoundTrip(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	want := model.DashboardLayout{Left: []string{"TodaysPlan"}, Right: []string{"MyGoals", "TimeLog"}}
	if err := v.SaveDashboardLayout(ctx, want); err != nil {
		t.Fatalf("save layout: %v", err)
	}
	got, err := v.DashboardLayout(ctx)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(got.Left) != 1 || got.Left[0] != "TodaysPlan" || len(got.Right) != 2 {
		t.Fatalf("layout mismatch: %+v", got)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	if err := v.SaveTheme(ctx, model.ThemeLight); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	theme, err := v.Theme(ctx)
	if err != nil {
		t.Fatalf("read theme: %v", err)
	}
	if theme != model.ThemeLight {
		t.Fatalf("expected light theme, got %q", theme)
	}
}

func TestReopenPreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")
	ctx := context.Background()

	v, err := Open(path)
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}
	if err := v.SaveSessionToken(ctx, "tok-persist"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen vault: %v", err)
	}
	defer reopened.Close()

	token, err := reopened.SessionToken(ctx)
	if err != nil {
		t.Fatalf("read token after reopen: %v", err)
	}
	if token != "tok-persist" {
		t.Fatalf("expected persisted token, got %q", token)
	}
}
