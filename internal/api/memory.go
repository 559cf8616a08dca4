package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/planr/internal/live"
	"github.com/sandeepkv93/planr/internal/model"
)

const (
	memoryPageSize = 5

	// The simulated authenticator accepts exactly this code for every
	// enrolled account.
	memoryTwoFactorCode = "123456"
)

type memoryAccount struct {
	user          model.User
	passwordHash  string
	data          model.AppData
	reflections   []model.Reflection
	exports       []model.ExportJob
	pushEndpoints map[string]bool
	analytics     model.TimeAnalytics
	pendingSecret string
}

// Memory is the in-process reference simulation of the account
// service. It backs tests and the offline demo mode, seeds one default
// account, and publishes export-job updates to an attached live feed.
type Memory struct {
	mu             sync.Mutex
	accounts       map[string]*memoryAccount
	tokens         map[string]string
	resetTokens    map[string]string
	lastResetToken string
	token          string
	feed           *live.Feed
	now            func() time.Time
}

// SeedEmail and SeedPassword identify the account every fresh Memory
// service starts with.
const (
	SeedEmail    = "user@example.com"
	SeedPassword = "password123"
)

func NewMemory(feed *live.Feed, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	m := &Memory{
		accounts:    make(map[string]*memoryAccount),
		tokens:      make(map[string]string),
		resetTokens: make(map[string]string),
		feed:        feed,
		now:         now,
	}
	m.accounts[SeedEmail] = &memoryAccount{
		user:          model.User{ID: "user-1", Email: SeedEmail},
		passwordHash:  SeedPassword,
		data:          model.NewAppData(model.DateString(now())),
		pushEndpoints: make(map[string]bool),
	}
	return m
}

func (m *Memory) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *Memory) issueToken(userID string) string {
	token := fmt.Sprintf("planr-session-%s-%s", userID, uuid.NewString())
	return token
}

func (m *Memory) authResultLocked(account *memoryAccount) AuthResult {
	token := m.issueToken(account.user.ID)
	m.tokens[token] = account.user.Email
	m.token = token

	data := account.data
	data.Reflections = m.reflectionPageLocked(account, "", "")
	data.Exports = m.exportPageLocked(account, "")
	data.TwoFactor = model.TwoFactorSetup{Enabled: account.user.TwoFactorEnabled}
	return AuthResult{User: account.user, Token: token, Data: data}
}

func (m *Memory) accountForToken(token string) (*memoryAccount, error) {
	email, ok := m.tokens[token]
	if !ok {
		return nil, ErrInvalidSession
	}
	account, ok := m.accounts[email]
	if !ok {
		return nil, ErrInvalidSession
	}
	return account, nil
}

func (m *Memory) current() (*memoryAccount, error) {
	return m.accountForToken(m.token)
}

func (m *Memory) Login(_ context.Context, email, password, twoFactorCode string) (AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[email]
	if !ok || account.passwordHash != password {
		return AuthResult{}, ErrInvalidCredentials
	}
	if account.user.TwoFactorEnabled {
		if twoFactorCode == "" {
			return AuthResult{TwoFactorRequired: true}, nil
		}
		if twoFactorCode != memoryTwoFactorCode {
			return AuthResult{}, ErrInvalidTwoFactorCode
		}
	}
	return m.authResultLocked(account), nil
}

func (m *Memory) Signup(_ context.Context, email, password string) (AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[email]; exists {
		return AuthResult{}, ErrAccountExists
	}
	account := &memoryAccount{
		user:          model.User{ID: fmt.Sprintf("user-%d", len(m.accounts)+1), Email: email},
		passwordHash:  password,
		data:          model.NewAppData(model.DateString(m.now())),
		pushEndpoints: make(map[string]bool),
	}
	m.accounts[email] = account
	return m.authResultLocked(account), nil
}

// SocialLogin provisions a brand-new account on first sign-in with a
// provider, making the first social login an implicit signup.
func (m *Memory) SocialLogin(_ context.Context, provider string) (AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(provider) + "-user@social.example.com"
	account, ok := m.accounts[email]
	if !ok {
		account = &memoryAccount{
			user:          model.User{ID: fmt.Sprintf("user-%d", len(m.accounts)+1), Email: email},
			passwordHash:  uuid.NewString(),
			data:          model.NewAppData(model.DateString(m.now())),
			pushEndpoints: make(map[string]bool),
		}
		m.accounts[email] = account
	}
	return m.authResultLocked(account), nil
}

// ForgotPassword always reports success so callers cannot probe which
// emails have accounts.
func (m *Memory) ForgotPassword(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[email]; ok {
		token := "reset-" + uuid.NewString()
		m.resetTokens[token] = email
		m.lastResetToken = token
	}
	return nil
}

func (m *Memory) ResetPassword(_ context.Context, resetToken, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email, ok := m.resetTokens[resetToken]
	if !ok {
		return ErrInvalidResetToken
	}
	delete(m.resetTokens, resetToken)
	account, ok := m.accounts[email]
	if !ok {
		return ErrInvalidResetToken
	}
	account.passwordHash = newPassword
	return nil
}

func (m *Memory) BootstrapData(_ context.Context, token string) (AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.accountForToken(token)
	if err != nil {
		return AuthResult{}, err
	}
	// A fresh token is issued on bootstrap to refresh the session.
	delete(m.tokens, token)
	return m.authResultLocked(account), nil
}

func (m *Memory) Setup2FA(_ context.Context) (TwoFactorEnrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.current()
	if err != nil {
		return TwoFactorEnrollment{}, err
	}
	account.pendingSecret = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:16]
	return TwoFactorEnrollment{
		Secret:    account.pendingSecret,
		QRCodeRef: "otpauth://totp/planr:" + account.user.Email + "?secret=" + account.pendingSecret,
	}, nil
}

func (m *Memory) VerifyAndEnable2FA(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.current()
	if err != nil {
		return err
	}
	if code != memoryTwoFactorCode {
		return ErrInvalidCode
	}
	account.user.TwoFactorEnabled = true
	account.pendingSecret = ""
	return nil
}

func (m *Memory) Disable2FA(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.current()
	if err != nil {
		return err
	}
	account.user.TwoFactorEnabled = false
	return nil
}

func (m *Memory) SaveDashboardLayout(_ context.Context, layout model.DashboardLayout) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.current()
	if err != nil {
		return err
	}
	account.data.DashboardLayout = layout
	return nil
}

func (m *Memory) SubscribeToPush(_ context.Context, sub PushSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.current()
	if err != nil {
		return err
	}
	account.pushEndpoints[sub.EndpointRef] = true
	return nil
}

func (m *Memory) UnsubscribeFromPush(_ context.Context, endpointRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.current()
	if err != nil {
		return err
	}
	delete(account.pushEndpoints, endpointRef)
	return nil
}

func (m *Memory) TimeAnalytics(_ context.Context) (model.TimeAnalytics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.current()
	if err != nil {
		return model.TimeAnalytics{}, err
	}
	return account.analytics, nil
}

func (m *Memory) RequestExport(_ context.Context, format model.ExportFormat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.current()
	if err != nil {
		return err
	}
	job := model.ExportJob{
		ID:        "exp-" + uuid.NewString(),
		Format:    format,
		Status:    model.ExportStatusPending,
		CreatedAt: m.now().UnixMilli(),
	}
	account.exports = append([]model.ExportJob{job}, account.exports...)
	return nil
}

// AdvanceExports steps every non-terminal job one state forward
// (pending -> processing -> complete) and pushes each change over the
// live feed, the way the real service's background workers would.
func (m *Memory) AdvanceExports() {
	m.mu.Lock()
	var updated []model.ExportJob
	for email := range m.accounts {
		account := m.accounts[email]
		for i := range account.exports {
			job := &account.exports[i]
			switch job.Status {
			case model.ExportStatusPending:
				job.Status = model.ExportStatusProcessing
			case model.ExportStatusProcessing:
				job.Status = model.ExportStatusComplete
				job.DownloadRef = "https://exports.example.com/" + job.ID + "." + string(job.Format)
			default:
				continue
			}
			updated = append(updated, *job)
		}
	}
	m.mu.Unlock()

	if m.feed == nil {
		return
	}
	for _, job := range updated {
		m.feed.Publish(live.Event{Type: live.EventExportUpdated, Job: job})
	}
}

// FailExport forces a job into the failed terminal state and pushes
// the update.
func (m *Memory) FailExport(id string) {
	m.mu.Lock()
	var failed *model.ExportJob
	for _, account := range m.accounts {
		for i := range account.exports {
			if account.exports[i].ID == id {
				account.exports[i].Status = model.ExportStatusFailed
				job := account.exports[i]
				failed = &job
			}
		}
	}
	m.mu.Unlock()

	if failed != nil && m.feed != nil {
		m.feed.Publish(live.Event{Type: live.EventExportUpdated, Job: *failed})
	}
}

func (m *Memory) FetchExports(_ context.Context, cursor string) (ExportsPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.current()
	if err != nil {
		return ExportsPage{}, err
	}
	return m.exportPageToResult(m.exportPageLocked(account, cursor)), nil
}

func (m *Memory) exportPageToResult(page model.ExportPage) ExportsPage {
	return ExportsPage{Jobs: page.Items, NextCursor: page.NextCursor}
}

func (m *Memory) exportPageLocked(account *memoryAccount, cursor string) model.ExportPage {
	start := 0
	if cursor != "" {
		for i, job := range account.exports {
			if job.ID == cursor {
				start = i + 1
				break
			}
		}
	}
	end := start + memoryPageSize
	if end > len(account.exports) {
		end = len(account.exports)
	}
	page := model.ExportPage{Items: append([]model.ExportJob(nil), account.exports[start:end]...)}
	if end < len(account.exports) && end > start {
		page.NextCursor = account.exports[end-1].ID
	}
	return page
}

func (m *Memory) FetchReflections(_ context.Context, query ReflectionQuery) (ReflectionsPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, err := m.current()
	if err != nil {
		return ReflectionsPage{}, err
	}
	page := m.reflectionPageLocked(account, query.Cursor, query.Search)
	return ReflectionsPage{Reflections: page.Items, NextCursor: page.NextCursor}, nil
}

func (m *Memory) reflectionPageLocked(account *memoryAccount, cursor, search string) model.ReflectionPage {
	needle := strings.ToLower(strings.TrimSpace(search))
	var filtered []model.Reflection
	for _, r := range account.reflections {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.Well), needle) ||
			strings.Contains(strings.ToLower(r.Improve), needle) ||
			strings.Contains(r.Date, needle) {
			filtered = append(filtered, r)
		}
	}

	start := 0
	if cursor != "" {
		for i, r := range filtered {
			if r.Date == cursor {
				start = i + 1
				break
			}
		}
	}
	end := start + memoryPageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	page := model.ReflectionPage{Items: append([]model.Reflection(nil), filtered[start:end]...)}
	if end < len(filtered) && end > start {
		page.NextCursor = filtered[end-1].Date
	}
	return page
}

// --- test and demo seeding helpers ---

// EnableTwoFactor flips 2FA on for an account without the enrollment
// flow, for exercising the login challenge path.
func (m *Memory) EnableTwoFactor(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account, ok := m.accounts[email]; ok {
		account.user.TwoFactorEnabled = true
	}
}

// SeedReflections installs a reflection history, newest first.
func (m *Memory) SeedReflections(email string, reflections []model.Reflection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account, ok := m.accounts[email]; ok {
		account.reflections = append([]model.Reflection(nil), reflections...)
	}
}

// SeedAnalytics installs the aggregated time breakdown the service
// would have computed server-side.
func (m *Memory) SeedAnalytics(email string, analytics model.TimeAnalytics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account, ok := m.accounts[email]; ok {
		account.analytics = analytics
	}
}

// LastResetToken exposes the most recently issued password-reset token
// so tests can complete the reset flow.
func (m *Memory) LastResetToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastResetToken
}
