package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/planr/internal/model"
)

// HTTPClient talks JSON to a remote account service. Every mutating
// request carries a fresh X-Idempotency-Key header.
type HTTPClient struct {
	baseURL string
	httpc   *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type errorBody struct {
	Error string `json:"error"`
}

// mapError translates the service's error codes onto the client
// taxonomy. Unknown codes surface as plain wrapped errors.
func mapError(status int, code string) error {
	switch code {
	case "invalid_credentials":
		return ErrInvalidCredentials
	case "invalid_two_factor_code":
		return ErrInvalidTwoFactorCode
	case "account_exists":
		return ErrAccountExists
	case "invalid_reset_token":
		return ErrInvalidResetToken
	case "invalid_session":
		return ErrInvalidSession
	case "invalid_code":
		return ErrInvalidCode
	}
	return fmt.Errorf("api: server returned %d (%s)", status, code)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, mutating bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if mutating {
		req.Header.Set("X-Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return mapError(resp.StatusCode, eb.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password, twoFactorCode string) (AuthResult, error) {
	var result AuthResult
	body := map[string]string{"email": email, "password": password}
	if twoFactorCode != "" {
		body["twoFactorCode"] = twoFactorCode
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &result, true); err != nil {
		return AuthResult{}, err
	}
	return result, nil
}

func (c *HTTPClient) Signup(ctx context.Context, email, password string) (AuthResult, error) {
	var result AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, &result, true); err != nil {
		return AuthResult{}, err
	}
	return result, nil
}

func (c *HTTPClient) SocialLogin(ctx context.Context, provider string) (AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/social/"+url.PathEscape(provider), nil, &result, true); err != nil {
		return AuthResult{}, err
	}
	return result, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil, true)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	body := map[string]string{"token": resetToken, "password": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", body, nil, true)
}

func (c *HTTPClient) BootstrapData(ctx context.Context, token string) (AuthResult, error) {
	c.SetToken(token)
	var result AuthResult
	if err := c.do(ctx, http.MethodGet, "/bootstrap", nil, &result, false); err != nil {
		return AuthResult{}, err
	}
	return result, nil
}

func (c *HTTPClient) Setup2FA(ctx context.Context) (TwoFactorEnrollment, error) {
	var enrollment TwoFactorEnrollment
	if err := c.do(ctx, http.MethodPost, "/2fa/setup", nil, &enrollment, true); err != nil {
		return TwoFactorEnrollment{}, err
	}
	return enrollment, nil
}

func (c *HTTPClient) VerifyAndEnable2FA(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/2fa/verify", map[string]string{"code": code}, nil, true)
}

func (c *HTTPClient) Disable2FA(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/2fa/disable", nil, nil, true)
}

func (c *HTTPClient) SaveDashboardLayout(ctx context.Context, layout model.DashboardLayout) error {
	return c.do(ctx, http.MethodPut, "/dashboard/layout", layout, nil, true)
}

func (c *HTTPClient) SubscribeToPush(ctx context.Context, sub PushSubscription) error {
	return c.do(ctx, http.MethodPost, "/push/subscribe", sub, nil, true)
}

func (c *HTTPClient) UnsubscribeFromPush(ctx context.Context, endpointRef string) error {
	body := map[string]string{"endpoint": endpointRef}
	return c.do(ctx, http.MethodPost, "/push/unsubscribe", body, nil, true)
}

func (c *HTTPClient) TimeAnalytics(ctx context.Context) (model.TimeAnalytics, error) {
	var analytics model.TimeAnalytics
	if err := c.do(ctx, http.MethodGet, "/analytics/time", nil, &analytics, false); err != nil {
		return model.TimeAnalytics{}, err
	}
	return analytics, nil
}

func (c *HTTPClient) RequestExport(ctx context.Context, format model.ExportFormat) error {
	return c.do(ctx, http.MethodPost, "/exports", map[string]string{"format": string(format)}, nil, true)
}

func (c *HTTPClient) FetchExports(ctx context.Context, cursor string) (ExportsPage, error) {
	path := "/exports"
	if cursor != "" {
		path += "?cursor=" + url.QueryEscape(cursor)
	}
	var page ExportsPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page, false); err != nil {
		return ExportsPage{}, err
	}
	return page, nil
}

func (c *HTTPClient) FetchReflections(ctx context.Context, query ReflectionQuery) (ReflectionsPage, error) {
	values := url.Values{}
	if query.Cursor != "" {
		values.Set("cursor", query.Cursor)
	}
	if query.Search != "" {
		values.Set("search", query.Search)
	}
	path := "/reflections"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var page ReflectionsPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page, false); err != nil {
		return ReflectionsPage{}, err
	}
	return page, nil
}
