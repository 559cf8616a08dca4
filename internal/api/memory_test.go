package api

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/planr/internal/model"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
}

func TestMemoryLogin(t *testing.T) {
	svc := NewMemory(nil, fixedClock)

	result, err := svc.Login(context.Background(), SeedEmail, SeedPassword, "")
	require.NoError(t, err)
	assert.False(t, result.TwoFactorRequired)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, SeedEmail, result.User.Email)
	assert.Equal(t, "2026-03-07", result.Data.Plan.Date)

	_, err = svc.Login(context.Background(), SeedEmail, "wrong", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "x", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMemoryLoginTwoFactorChallenge(t *testing.T) {
	svc := NewMemory(nil, fixedClock)
	svc.EnableTwoFactor(SeedEmail)

	result, err := svc.Login(context.Background(), SeedEmail, SeedPassword, "")
	require.NoError(t, err)
	assert.True(t, result.TwoFactorRequired)
	assert.Empty(t, result.Token)

	_, err = svc.Login(context.Background(), SeedEmail, SeedPassword, "000000")
	assert.ErrorIs(t, err, ErrInvalidTwoFactorCode)

	result, err = svc.Login(context.Background(), SeedEmail, SeedPassword, "123456")
	require.NoError(t, err)
	assert.False(t, result.TwoFactorRequired)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.User.TwoFactorEnabled)
}

func TestMemorySignup(t *testing.T) {
	svc := NewMemory(nil, fixedClock)

	result, err := svc.Signup(context.Background(), "new@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", result.User.Email)

	_, err = svc.Signup(context.Background(), "new@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestMemorySocialLoginProvisionsOnce(t *testing.T) {
	svc := NewMemory(nil, fixedClock)

	first, err := svc.SocialLogin(context.Background(), "github")
	require.NoError(t, err)
	second, err := svc.SocialLogin(context.Background(), "github")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestMemoryPasswordReset(t *testing.T) {
	svc := NewMemory(nil, fixedClock)

	// Unknown emails succeed too: no account-enumeration signal.
	require.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
	require.NoError(t, svc.ForgotPassword(context.Background(), SeedEmail))

	token := svc.LastResetToken()
	require.NotEmpty(t, token)
	require.NoError(t, svc.ResetPassword(context.Background(), token, "newpass"))

	// Single use.
	assert.ErrorIs(t, svc.ResetPassword(context.Background(), token, "again"), ErrInvalidResetToken)
	assert.ErrorIs(t, svc.ResetPassword(context.Background(), "reset-bogus", "x"), ErrInvalidResetToken)

	_, err := svc.Login(context.Background(), SeedEmail, SeedPassword, "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), SeedEmail, "newpass", "")
	assert.NoError(t, err)
}

func TestMemoryBootstrapRotatesToken(t *testing.T) {
	svc := NewMemory(nil, fixedClock)
	login, err := svc.Login(context.Background(), SeedEmail, SeedPassword, "")
	require.NoError(t, err)

	boot, err := svc.BootstrapData(context.Background(), login.Token)
	require.NoError(t, err)
	assert.NotEqual(t, login.Token, boot.Token)

	// The old token is gone after rotation.
	_, err = svc.BootstrapData(context.Background(), login.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = svc.BootstrapData(context.Background(), "stale-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestMemoryTwoFactorEnrollment(t *testing.T) {
	svc := NewMemory(nil, fixedClock)
	_, err := svc.Login(context.Background(), SeedEmail, SeedPassword, "")
	require.NoError(t, err)

	enrollment, err := svc.Setup2FA(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)
	assert.Contains(t, enrollment.QRCodeRef, enrollment.Secret)

	assert.ErrorIs(t, svc.VerifyAndEnable2FA(context.Background(), "999999"), ErrInvalidCode)
	require.NoError(t, svc.VerifyAndEnable2FA(context.Background(), "123456"))

	result, err := svc.Login(context.Background(), SeedEmail, SeedPassword, "")
	require.NoError(t, err)
	assert.True(t, result.TwoFactorRequired)

	require.NoError(t, svc.Disable2FA(context.Background()))
	result, err = svc.Login(context.Background(), SeedEmail, SeedPassword, "")
	require.NoError(t, err)
	assert.False(t, result.TwoFactorRequired)
}

func TestMemoryExportLifecycle(t *testing.T) {
	svc := NewMemory(nil, fixedClock)
	_, err := svc.Login(context.Background(), SeedEmail, SeedPassword, "")
	require.NoError(t, err)

	require.NoError(t, svc.RequestExport(context.Background(), model.ExportFormatJSON))
	page, err := svc.FetchExports(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, model.ExportStatusPending, page.Jobs[0].Status)

	svc.AdvanceExports()
	page, err = svc.FetchExports(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, model.ExportStatusProcessing, page.Jobs[0].Status)

	svc.AdvanceExports()
	page, err = svc.FetchExports(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, model.ExportStatusComplete, page.Jobs[0].Status)
	assert.NotEmpty(t, page.Jobs[0].DownloadRef)

	// Terminal jobs stay put.
	svc.AdvanceExports()
	page, err = svc.FetchExports(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, model.ExportStatusComplete, page.Jobs[0].Status)
}

func TestMemoryExportPagination(t *testing.T) {
	svc := NewMemory(nil, fixedClock)
	_, err := svc.Login(context.Background(), SeedEmail, SeedPassword, "")
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		require.NoError(t, svc.RequestExport(context.Background(), model.ExportFormatCSV))
	}

	first, err := svc.FetchExports(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, first.Jobs, 5)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.FetchExports(context.Background(), first.NextCursor)
	require.NoError(t, err)
	assert.Len(t, second.Jobs, 2)
	assert.Empty(t, second.NextCursor)

	seen := make(map[string]bool)
	for _, job := range append(first.Jobs, second.Jobs...) {
		assert.False(t, seen[job.ID], "job %s duplicated across pages", job.ID)
		seen[job.ID] = true
	}
}

func TestMemoryReflectionSearchAndPagination(t *testing.T) {
	svc := NewMemory(nil, fixedClock)

	var history []model.Reflection
	for i := 0; i < 8; i++ {
		history = append(history, model.Reflection{
			Date:    fmt.Sprintf("2026-02-%02d", 28-i),
			Well:    fmt.Sprintf("day %d went fine", 28-i),
			Improve: "sleep earlier",
		})
	}
	history[0].Well = "shipped the big launch"
	svc.SeedReflections(SeedEmail, history)

	_, err := svc.Login(context.Background(), SeedEmail, SeedPassword, "")
	require.NoError(t, err)

	first, err := svc.FetchReflections(context.Background(), ReflectionQuery{})
	require.NoError(t, err)
	require.Len(t, first.Reflections, 5)
	require.NotEmpty(t, first.NextCursor)

	rest, err := svc.FetchReflections(context.Background(), ReflectionQuery{Cursor: first.NextCursor})
	require.NoError(t, err)
	assert.Len(t, rest.Reflections, 3)
	assert.Empty(t, rest.NextCursor)

	found, err := svc.FetchReflections(context.Background(), ReflectionQuery{Search: "launch"})
	require.NoError(t, err)
	require.Len(t, found.Reflections, 1)
	assert.Equal(t, "2026-02-28", found.Reflections[0].Date)
}

func TestMemoryDashboardLayoutAndPush(t *testing.T) {
	svc := NewMemory(nil, fixedClock)
	login, err := svc.Login(context.Background(), SeedEmail, SeedPassword, "")
	require.NoError(t, err)

	layout := model.DashboardLayout{Left: []string{"TodaysPlan"}, Right: []string{"MyGoals"}}
	require.NoError(t, svc.SaveDashboardLayout(context.Background(), layout))

	require.NoError(t, svc.SubscribeToPush(context.Background(), PushSubscription{EndpointRef: "ep-1"}))
	require.NoError(t, svc.UnsubscribeFromPush(context.Background(), "ep-1"))

	boot, err := svc.BootstrapData(context.Background(), login.Token)
	require.NoError(t, err)
	assert.Equal(t, layout, boot.Data.DashboardLayout)
}

func TestMemoryRequiresSession(t *testing.T) {
	svc := NewMemory(nil, fixedClock)
	svc.SetToken("not-a-session")

	_, err := svc.TimeAnalytics(context.Background())
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.ErrorIs(t, svc.RequestExport(context.Background(), model.ExportFormatJSON), ErrInvalidSession)
	_, err = svc.FetchExports(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidSession)
}
