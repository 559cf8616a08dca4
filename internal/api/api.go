// Package api abstracts every network call against the planner account
// service behind a request/response contract. It owns no client state
// beyond the bearer token used for authenticated calls.
package api

import (
	"context"
	"errors"

	"github.com/sandeepkv93/planr/internal/model"
)

var (
	ErrInvalidCredentials   = errors.New("api: invalid email or password")
	ErrInvalidTwoFactorCode = errors.New("api: invalid two-factor code")
	ErrAccountExists        = errors.New("api: an account with this email already exists")
	ErrInvalidResetToken    = errors.New("api: invalid or expired reset token")
	ErrInvalidSession       = errors.New("api: invalid session token")
	ErrInvalidCode          = errors.New("api: invalid verification code")
)

// AuthResult is the response to login, signup, social login and
// bootstrap. When TwoFactorRequired is set, no token or data is
// present and the caller must retry with a code.
type AuthResult struct {
	TwoFactorRequired bool          `json:"twoFactorRequired,omitempty"`
	User              model.User    `json:"user"`
	Token             string        `json:"token"`
	Data              model.AppData `json:"data"`
}

type TwoFactorEnrollment struct {
	Secret    string `json:"secret"`
	QRCodeRef string `json:"qrCode"`
}

type PushSubscription struct {
	EndpointRef string `json:"endpoint"`
	Key         string `json:"key,omitempty"`
}

type ReflectionQuery struct {
	Cursor string
	Search string
}

// ReflectionsPage is one page of the reflection collection. An empty
// NextCursor means the collection is exhausted.
type ReflectionsPage struct {
	Reflections []model.Reflection `json:"reflections"`
	NextCursor  string             `json:"nextCursor,omitempty"`
}

type ExportsPage struct {
	Jobs       []model.ExportJob `json:"jobs"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

// Service is the full account-service contract. Implementations must
// attach a unique idempotency key to every mutating request so a
// retried call cannot duplicate effects server-side.
type Service interface {
	Login(ctx context.Context, email, password, twoFactorCode string) (AuthResult, error)
	Signup(ctx context.Context, email, password string) (AuthResult, error)
	SocialLogin(ctx context.Context, provider string) (AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	BootstrapData(ctx context.Context, token string) (AuthResult, error)

	SetToken(token string)
	Setup2FA(ctx context.Context) (TwoFactorEnrollment, error)
	VerifyAndEnable2FA(ctx context.Context, code string) error
	Disable2FA(ctx context.Context) error

	SaveDashboardLayout(ctx context.Context, layout model.DashboardLayout) error
	SubscribeToPush(ctx context.Context, sub PushSubscription) error
	UnsubscribeFromPush(ctx context.Context, endpointRef string) error
	TimeAnalytics(ctx context.Context) (model.TimeAnalytics, error)

	RequestExport(ctx context.Context, format model.ExportFormat) error
	FetchExports(ctx context.Context, cursor string) (ExportsPage, error)
	FetchReflections(ctx context.Context, query ReflectionQuery) (ReflectionsPage, error)
}
