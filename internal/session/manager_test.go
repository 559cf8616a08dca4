package session

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/planr/internal/api"
	"github.com/sandeepkv93/planr/internal/live"
	"github.com/sandeepkv93/planr/internal/model"
	"github.com/sandeepkv93/planr/internal/storage"
	"github.com/sandeepkv93/planr/internal/store"
)

func testClock() time.Time {
	return time.Date(2026, time.March, 7, 21, 30, 0, 0, time.UTC)
}

type fixture struct {
	svc     *api.Memory
	store   *store.Store
	vault   *storage.Vault
	feed    *live.Feed
	manager *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	vault, err := storage.Open(filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = vault.Close() })

	feed := live.NewFeed(16)
	svc := api.NewMemory(feed, testClock)
	st := store.New(svc, slog.Default(), testClock)
	return &fixture{
		svc:     svc,
		store:   st,
		vault:   vault,
		feed:    feed,
		manager: NewManager(svc, st, vault, feed, slog.Default()),
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Login(ctx, api.SeedEmail, api.SeedPassword, ""))

	assert.Equal(t, StatusAuthenticated, f.manager.Status())
	assert.Equal(t, api.SeedEmail, f.manager.User().Email)
	assert.True(t, f.feed.Connected())

	token, err := f.vault.SessionToken(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	email, err := f.vault.RememberedEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.SeedEmail, email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.manager.Login(ctx, api.SeedEmail, "wrong", "")
	assert.ErrorIs(t, err, api.ErrInvalidCredentials)
	assert.Equal(t, StatusAnonymous, f.manager.Status())

	_, err = f.vault.SessionToken(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoginTwoFactorChallenge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.EnableTwoFactor(api.SeedEmail)

	err := f.manager.Login(ctx, api.SeedEmail, api.SeedPassword, "")
	assert.ErrorIs(t, err, ErrTwoFactorRequired)
	assert.Equal(t, StatusAnonymous, f.manager.Status())
	assert.True(t, f.manager.TwoFactorPending())
	assert.False(t, f.feed.Connected())

	err = f.manager.Login(ctx, api.SeedEmail, api.SeedPassword, "000000")
	assert.ErrorIs(t, err, api.ErrInvalidTwoFactorCode)

	require.NoError(t, f.manager.Login(ctx, api.SeedEmail, api.SeedPassword, "123456"))
	assert.Equal(t, StatusAuthenticated, f.manager.Status())
	assert.False(t, f.manager.TwoFactorPending())
}

func TestSignupEstablishesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Signup(ctx, "new@example.com", "hunter22"))
	assert.Equal(t, StatusAuthenticated, f.manager.Status())
	assert.Equal(t, "new@example.com", f.manager.User().Email)
}

func TestSignupRejectsExistingAccount(t *testing.T) {
	f := newFixture(t)

	err := f.manager.Signup(context.Background(), api.SeedEmail, "whatever1")
	assert.ErrorIs(t, err, api.ErrAccountExists)
	assert.Equal(t, StatusAnonymous, f.manager.Status())
}

func TestSocialLoginImplicitSignup(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.manager.SocialLogin(context.Background(), "github"))
	assert.Equal(t, StatusAuthenticated, f.manager.Status())
	assert.Equal(t, "github-user@social.example.com", f.manager.User().Email)
}

func TestCheckAuthRestoresPersistedSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Login(ctx, api.SeedEmail, api.SeedPassword, ""))
	oldToken, err := f.vault.SessionToken(ctx)
	require.NoError(t, err)

	// A fresh process over the same vault.
	restarted := NewManager(f.svc, f.store, f.vault, f.feed, slog.Default())
	require.NoError(t, restarted.CheckAuth(ctx))

	assert.Equal(t, StatusAuthenticated, restarted.Status())
	assert.Equal(t, api.SeedEmail, restarted.User().Email)

	newToken, err := f.vault.SessionToken(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, newToken, "bootstrap rotates the session token")
}

func TestCheckAuthWithoutTokenStaysAnonymous(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.manager.CheckAuth(context.Background()))
	assert.Equal(t, StatusAnonymous, f.manager.Status())
}

func TestCheckAuthForcedLogoutOnStaleToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.vault.SaveSessionToken(ctx, "tok-revoked"))
	require.NoError(t, f.manager.CheckAuth(ctx))

	assert.Equal(t, StatusAnonymous, f.manager.Status())
	_, err := f.vault.SessionToken(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound, "stale token is cleared")
}

func TestLogoutTearsDownSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Login(ctx, api.SeedEmail, api.SeedPassword, ""))
	f.store.AddTask("before logout", "", model.PriorityHigh, nil)

	f.manager.Logout(ctx)

	assert.Equal(t, StatusAnonymous, f.manager.Status())
	assert.False(t, f.feed.Connected())
	assert.Empty(t, f.manager.User().Email)
	assert.Empty(t, f.store.Data().Plan.Tasks, "local state is reset")

	_, err := f.vault.SessionToken(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExportUpdatesFlowIntoStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Login(ctx, api.SeedEmail, api.SeedPassword, ""))
	require.NoError(t, f.svc.RequestExport(ctx, model.ExportFormatJSON))
	require.NoError(t, f.store.FetchExports(ctx, ""))
	require.Len(t, f.store.Data().Exports.Items, 1)

	// The simulated backend advances the job and publishes the change.
	f.svc.AdvanceExports()

	require.Eventually(t, func() bool {
		items := f.store.Data().Exports.Items
		return len(items) == 1 && items[0].Status == model.ExportStatusProcessing
	}, 2*time.Second, 5*time.Millisecond, "feed update reaches the store")
}

func TestTwoFactorEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Login(ctx, api.SeedEmail, api.SeedPassword, ""))

	enrollment, err := f.manager.Setup2FA(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)

	staged := f.store.Data().TwoFactor
	assert.False(t, staged.Enabled)
	assert.Equal(t, enrollment.Secret, staged.Secret)

	err = f.manager.VerifyAndEnable2FA(ctx, "999999")
	assert.ErrorIs(t, err, api.ErrInvalidCode)

	require.NoError(t, f.manager.VerifyAndEnable2FA(ctx, "123456"))
	assert.True(t, f.store.Data().TwoFactor.Enabled)
	assert.True(t, f.manager.User().TwoFactorEnabled)

	require.NoError(t, f.manager.Disable2FA(ctx))
	assert.False(t, f.store.Data().TwoFactor.Enabled)
	assert.False(t, f.manager.User().TwoFactorEnabled)
}

func TestForgotPasswordNeverRevealsAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.manager.ForgotPassword(ctx, api.SeedEmail))
	assert.NoError(t, f.manager.ForgotPassword(ctx, "nobody@example.com"))
}

func TestResetPasswordFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.ForgotPassword(ctx, api.SeedEmail))
	token := f.svc.LastResetToken()
	require.NotEmpty(t, token)

	require.NoError(t, f.manager.ResetPassword(ctx, token, "newpassword1"))

	err := f.manager.Login(ctx, api.SeedEmail, api.SeedPassword, "")
	assert.ErrorIs(t, err, api.ErrInvalidCredentials)
	require.NoError(t, f.manager.Login(ctx, api.SeedEmail, "newpassword1", ""))

	// The token is single use.
	err = f.manager.ResetPassword(ctx, token, "another1")
	assert.ErrorIs(t, err, api.ErrInvalidResetToken)
}
