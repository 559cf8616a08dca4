// Package session owns the authentication lifecycle: restoring a
// persisted session at startup, the login and signup flows including
// the two-factor challenge, and teardown on logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sandeepkv93/planr/internal/api"
	"github.com/sandeepkv93/planr/internal/live"
	"github.com/sandeepkv93/planr/internal/model"
	"github.com/sandeepkv93/planr/internal/storage"
	"github.com/sandeepkv93/planr/internal/store"
)

// ErrTwoFactorRequired is returned by Login when the account has
// two-factor enabled and no code was supplied. The manager stays in
// its current state; retry Login with the code.
var ErrTwoFactorRequired = errors.New("session: two-factor code required")

type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
)

// Manager drives session state transitions. All methods are safe for
// concurrent use.
type Manager struct {
	svc    api.Service
	store  *store.Store
	vault  *storage.Vault
	feed   *live.Feed
	logger *slog.Logger

	mu               sync.Mutex
	status           Status
	user             model.User
	twoFactorPending bool
	unsubscribeFeed  func()
}

func NewManager(svc api.Service, st *store.Store, vault *storage.Vault, feed *live.Feed, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		svc:    svc,
		store:  st,
		vault:  vault,
		feed:   feed,
		logger: logger,
		status: StatusAnonymous,
	}
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Manager) User() model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// TwoFactorPending reports whether a login is waiting on a code.
func (m *Manager) TwoFactorPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.twoFactorPending
}

// CheckAuth restores the persisted session, if any. A vault without a
// token leaves the manager anonymous. A token the server no longer
// accepts is a forced logout: the stale token is cleared and the
// manager returns to anonymous without error.
func (m *Manager) CheckAuth(ctx context.Context) error {
	token, err := m.vault.SessionToken(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read persisted session: %w", err)
	}

	m.setStatus(StatusAuthenticating)
	result, err := m.svc.BootstrapData(ctx, token)
	if err != nil {
		m.setStatus(StatusAnonymous)
		if errors.Is(err, api.ErrInvalidSession) {
			m.logger.Info("persisted session rejected, clearing it")
			if clearErr := m.vault.ClearSessionToken(ctx); clearErr != nil {
				m.logger.Warn("clear stale session token", "error", clearErr)
			}
			return nil
		}
		return fmt.Errorf("bootstrap session: %w", err)
	}
	return m.adoptSession(ctx, result)
}

// Login authenticates with credentials. When the account requires a
// second factor and code is empty, it returns ErrTwoFactorRequired
// without changing session state; call again with the code.
func (m *Manager) Login(ctx context.Context, email, password, code string) error {
	m.setStatus(StatusAuthenticating)
	result, err := m.svc.Login(ctx, email, password, code)
	if err != nil {
		m.setStatus(StatusAnonymous)
		return err
	}
	if result.TwoFactorRequired {
		m.mu.Lock()
		m.status = StatusAnonymous
		m.twoFactorPending = true
		m.mu.Unlock()
		return ErrTwoFactorRequired
	}
	if err := m.vault.SaveRememberedEmail(ctx, email); err != nil {
		m.logger.Warn("remember email", "error", err)
	}
	return m.adoptSession(ctx, result)
}

func (m *Manager) Signup(ctx context.Context, email, password string) error {
	m.setStatus(StatusAuthenticating)
	result, err := m.svc.Signup(ctx, email, password)
	if err != nil {
		m.setStatus(StatusAnonymous)
		return err
	}
	return m.adoptSession(ctx, result)
}

func (m *Manager) SocialLogin(ctx context.Context, provider string) error {
	m.setStatus(StatusAuthenticating)
	result, err := m.svc.SocialLogin(ctx, provider)
	if err != nil {
		m.setStatus(StatusAnonymous)
		return err
	}
	return m.adoptSession(ctx, result)
}

// ForgotPassword requests a reset. It reports success whether or not
// the email has an account, so callers cannot probe for registered
// addresses.
func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	return m.svc.ForgotPassword(ctx, email)
}

func (m *Manager) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return m.svc.ResetPassword(ctx, resetToken, newPassword)
}

// Logout tears the session down locally. No server call is made; the
// token simply stops being used.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	unsubscribe := m.unsubscribeFeed
	m.unsubscribeFeed = nil
	m.status = StatusAnonymous
	m.user = model.User{}
	m.twoFactorPending = false
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	m.feed.Disconnect()
	m.svc.SetToken("")
	if err := m.vault.ClearSessionToken(ctx); err != nil {
		m.logger.Warn("clear session token", "error", err)
	}
	m.store.Reset()
}

// Setup2FA starts two-factor enrollment and stages the secret in the
// store for display. Enrollment is not active until verified.
func (m *Manager) Setup2FA(ctx context.Context) (api.TwoFactorEnrollment, error) {
	enrollment, err := m.svc.Setup2FA(ctx)
	if err != nil {
		return api.TwoFactorEnrollment{}, err
	}
	m.store.SetTwoFactor(model.TwoFactorSetup{
		Secret:    enrollment.Secret,
		QRCodeRef: enrollment.QRCodeRef,
	})
	return enrollment, nil
}

func (m *Manager) VerifyAndEnable2FA(ctx context.Context, code string) error {
	if err := m.svc.VerifyAndEnable2FA(ctx, code); err != nil {
		return err
	}
	m.store.SetTwoFactor(model.TwoFactorSetup{Enabled: true})
	m.mu.Lock()
	m.user.TwoFactorEnabled = true
	m.mu.Unlock()
	return nil
}

func (m *Manager) Disable2FA(ctx context.Context) error {
	if err := m.svc.Disable2FA(ctx); err != nil {
		return err
	}
	m.store.SetTwoFactor(model.TwoFactorSetup{})
	m.mu.Lock()
	m.user.TwoFactorEnabled = false
	m.mu.Unlock()
	return nil
}

// adoptSession installs an authenticated session: token for future
// calls, persisted token, server snapshot into the store, live feed
// connected with export updates routed into the store.
func (m *Manager) adoptSession(ctx context.Context, result api.AuthResult) error {
	m.svc.SetToken(result.Token)
	if err := m.vault.SaveSessionToken(ctx, result.Token); err != nil {
		m.setStatus(StatusAnonymous)
		m.svc.SetToken("")
		return fmt.Errorf("persist session token: %w", err)
	}

	m.store.ReplaceData(result.Data)

	m.mu.Lock()
	if m.unsubscribeFeed != nil {
		m.unsubscribeFeed()
	}
	m.unsubscribeFeed = m.feed.Subscribe(live.EventExportUpdated, func(event live.Event) {
		m.store.ApplyExportUpdate(event.Job)
	})
	m.status = StatusAuthenticated
	m.user = result.User
	m.twoFactorPending = false
	m.mu.Unlock()

	m.feed.Connect(result.Token)
	m.store.CheckAchievements()
	m.logger.Info("session established", "user", result.User.Email)
	return nil
}

func (m *Manager) setStatus(status Status) {
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}
