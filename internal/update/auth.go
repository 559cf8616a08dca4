package update

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/session"
	"github.com/sandeepkv93/planr/internal/views"
)

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Auth.Busy {
		if msg.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "tab":
		m.cycleAuthField()
		return m, nil
	case "ctrl+s":
		if m.Auth.Mode == AuthModeSignup {
			m.Auth.Mode = AuthModeLogin
		} else {
			m.Auth.Mode = AuthModeSignup
		}
		m.Auth.ErrorText = ""
		return m, nil
	case "ctrl+g":
		m.Auth.Busy = true
		return m, tea.Batch(m.authSpinner.Tick, m.socialLoginCmd("github"))
	case "ctrl+r":
		email := strings.TrimSpace(m.emailInput.Value())
		if email == "" {
			m.Auth.ErrorText = "enter your email first"
			return m, nil
		}
		return m, m.forgotPasswordCmd(email)
	case "enter":
		return m.submitAuthForm()
	}

	var cmd tea.Cmd
	switch m.Auth.Field {
	case AuthFieldEmail:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case AuthFieldPassword:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	case AuthFieldCode:
		m.codeInput, cmd = m.codeInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) cycleAuthField() {
	m.emailInput.Blur()
	m.passwordInput.Blur()
	m.codeInput.Blur()
	switch m.Auth.Field {
	case AuthFieldEmail:
		m.Auth.Field = AuthFieldPassword
		m.passwordInput.Focus()
	case AuthFieldPassword:
		if m.Auth.NeedsCode {
			m.Auth.Field = AuthFieldCode
			m.codeInput.Focus()
		} else {
			m.Auth.Field = AuthFieldEmail
			m.emailInput.Focus()
		}
	case AuthFieldCode:
		m.Auth.Field = AuthFieldEmail
		m.emailInput.Focus()
	}
}

func (m Model) submitAuthForm() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()
	if email == "" || password == "" {
		m.Auth.ErrorText = "email and password are required"
		return m, nil
	}

	m.Auth.Busy = true
	m.Auth.ErrorText = ""
	if m.Auth.Mode == AuthModeSignup {
		return m, tea.Batch(m.authSpinner.Tick, m.signupCmd(email, password))
	}
	code := strings.TrimSpace(m.codeInput.Value())
	return m, tea.Batch(m.authSpinner.Tick, m.loginCmd(email, password, code))
}

func (m Model) onAuthDone(msg AuthDoneMsg) (tea.Model, tea.Cmd) {
	m.Auth.Busy = false
	if msg.Err == nil {
		m.Auth.NeedsCode = false
		m.Auth.ErrorText = ""
		m.passwordInput.SetValue("")
		m.codeInput.SetValue("")
		m.CurrentView = ViewPlan
		m.Status = StatusBar{Text: "welcome back"}
		// Warm the paginated collections in the background.
		return m, tea.Batch(m.fetchReflectionsCmd(""), m.fetchExportsCmd(""))
	}
	if errors.Is(msg.Err, session.ErrTwoFactorRequired) {
		m.Auth.NeedsCode = true
		m.Auth.Field = AuthFieldCode
		m.emailInput.Blur()
		m.passwordInput.Blur()
		m.codeInput.Focus()
		m.Auth.ErrorText = ""
		m.Status = StatusBar{Text: "enter your two-factor code"}
		return m, nil
	}
	m.Auth.ErrorText = msg.Err.Error()
	m.LastError = msg.Err
	return m, nil
}

func (m Model) loginCmd(email, password, code string) tea.Cmd {
	sess, timeout := m.Session, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return AuthDoneMsg{Err: sess.Login(ctx, email, password, code)}
	}
}

func (m Model) signupCmd(email, password string) tea.Cmd {
	sess, timeout := m.Session, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return AuthDoneMsg{Err: sess.Signup(ctx, email, password)}
	}
}

func (m Model) socialLoginCmd(provider string) tea.Cmd {
	sess, timeout := m.Session, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return AuthDoneMsg{Err: sess.SocialLogin(ctx, provider)}
	}
}

func (m Model) forgotPasswordCmd(email string) tea.Cmd {
	sess, timeout := m.Session, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := sess.ForgotPassword(ctx, email); err != nil {
			return AppErrorMsg{Err: err}
		}
		return SetStatusMsg{Text: "if that account exists, a reset link is on its way"}
	}
}

func (m Model) renderAuthView() string {
	mode := "sign in"
	if m.Auth.Mode == AuthModeSignup {
		mode = "create account"
	}
	panel := views.RenderLoginPanel(views.LoginPanelData{
		Mode:         mode,
		EmailView:    m.emailInput.View(),
		PasswordView: m.passwordInput.View(),
		CodeView:     m.codeInput.View(),
		NeedsCode:    m.Auth.NeedsCode,
		Busy:         m.Auth.Busy,
		SpinnerView:  m.authSpinner.View(),
		ErrorText:    m.Auth.ErrorText,
	})
	return views.RenderApp(views.AppData{
		Header:     "planr",
		LeftPane:   panel,
		RightPane:  views.RenderMarkdown(authHelpMarkdown, string(m.Store.Data().Theme)),
		StatusLine: m.Status.Text,
	})
}

const authHelpMarkdown = `# planr

Plan your day, keep your routines, close every evening
with a shutdown ritual.

- **tab** moves between fields
- **enter** submits
- **ctrl+s** toggles sign in / sign up
- **ctrl+g** signs in with GitHub
- **ctrl+r** sends a password reset link
`
