// Package storage is the local on-disk vault: the small set of values
// that must survive a restart, such as the session token and cached
// presentation state. It is not a cache of server data.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/planr/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Well-known vault slots.
const (
	SlotSessionToken    = "session_token"
	SlotRememberedEmail = "remembered_email"
	SlotDashboardLayout = "dashboard_layout"
	SlotTheme           = "theme"
)

const vaultTimeLayout = time.RFC3339Nano

type Vault struct {
	db  *sql.DB
	now func() time.Time
}

func NewVault(db *sql.DB) (*Vault, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return &Vault{db: db, now: time.Now}, nil
}

func Open(path string) (*Vault, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	vault, err := NewVault(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return vault, nil
}

func (v *Vault) Close() error {
	return v.db.Close()
}

// Put stores value under key, replacing any previous value.
func (v *Vault) Put(ctx context.Context, key, value string) error {
	_, err := v.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, v.now().UTC().Format(vaultTimeLayout),
	)
	return err
}

func (v *Vault) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := v.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (v *Vault) Delete(ctx context.Context, key string) error {
	_, err := v.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key)
	return err
}

func (v *Vault) SaveSessionToken(ctx context.Context, token string) error {
	return v.Put(ctx, SlotSessionToken, token)
}

// SessionToken returns the persisted token, or ErrNotFound when no
// session has been saved.
func (v *Vault) SessionToken(ctx context.Context) (string, error) {
	return v.Get(ctx, SlotSessionToken)
}

func (v *Vault) ClearSessionToken(ctx context.Context) error {
	return v.Delete(ctx, SlotSessionToken)
}

func (v *Vault) SaveRememberedEmail(ctx context.Context, email string) error {
	return v.Put(ctx, SlotRememberedEmail, email)
}

func (v *Vault) RememberedEmail(ctx context.Context) (string, error) {
	return v.Get(ctx, SlotRememberedEmail)
}

func (v *Vault) SaveDashboardLayout(ctx context.Context, layout model.DashboardLayout) error {
	raw, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return v.Put(ctx, SlotDashboardLayout, string(raw))
}

func (v *Vault) DashboardLayout(ctx context.Context) (model.DashboardLayout, error) {
	raw, err := v.Get(ctx, SlotDashboardLayout)
	if err != nil {
		return model.DashboardLayout{}, err
	}
	var layout model.DashboardLayout
	if err := json.Unmarshal([]byte(raw), &layout); err != nil {
		return model.DashboardLayout{}, fmt.Errorf("decode layout: %w", err)
	}
	return layout, nil
}

func (v *Vault) SaveTheme(ctx context.Context, theme model.Theme) error {
	return v.Put(ctx, SlotTheme, string(theme))
}

func (v *Vault) Theme(ctx context.Context) (model.Theme, error) {
	raw, err := v.Get(ctx, SlotTheme)
	if err != nil {
		return "", err
	}
	return model.Theme(raw), nil
}
