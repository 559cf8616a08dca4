package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/api"
	"github.com/sandeepkv93/planr/internal/views"
)

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	data := m.Store.Data()
	switch msg.String() {
	case "T":
		m.Store.ToggleTheme()
		return m, nil
	case "2":
		if data.TwoFactor.Enabled {
			return m, m.disableTwoFactorCmd()
		}
		return m, m.setupTwoFactorCmd()
	case "v":
		if data.TwoFactor.Secret != "" {
			// The memory backend accepts the fixed demo code; a real
			// deployment would prompt for the authenticator value.
			return m, m.verifyTwoFactorCmd("123456")
		}
		return m, nil
	case "p":
		if data.Push.Subscribed {
			m.Store.UnsubscribeFromPush()
			m.Status = StatusBar{Text: "push notifications off"}
		} else {
			m.Store.SubscribeToPush(api.PushSubscription{EndpointRef: "planr-terminal"})
			m.Status = StatusBar{Text: "push notifications on"}
		}
		return m, nil
	case "x":
		layout := data.DashboardLayout
		layout.Left, layout.Right = layout.Right, layout.Left
		m.Store.UpdateDashboardLayout(layout)
		m.Status = StatusBar{Text: "dashboard columns swapped"}
		return m, nil
	}
	return m, nil
}

func (m Model) setupTwoFactorCmd() tea.Cmd {
	sess, timeout := m.Session, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := sess.Setup2FA(ctx); err != nil {
			return RemoteDoneMsg{Op: "two-factor setup", Err: err}
		}
		return SetStatusMsg{Text: "scan the secret, then press v to verify"}
	}
}

func (m Model) verifyTwoFactorCmd(code string) tea.Cmd {
	sess, timeout := m.Session, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := sess.VerifyAndEnable2FA(ctx, code); err != nil {
			return RemoteDoneMsg{Op: "two-factor verify", Err: err}
		}
		return SetStatusMsg{Text: "two-factor enabled"}
	}
}

func (m Model) disableTwoFactorCmd() tea.Cmd {
	sess, timeout := m.Session, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := sess.Disable2FA(ctx); err != nil {
			return RemoteDoneMsg{Op: "two-factor disable", Err: err}
		}
		return SetStatusMsg{Text: "two-factor disabled"}
	}
}

func (m Model) fetchAnalyticsCmd() tea.Cmd {
	st, timeout := m.Store, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return RemoteDoneMsg{Op: "fetch analytics", Err: st.FetchTimeAnalytics(ctx)}
	}
}

func (m Model) renderSettingsView() string {
	data := m.Store.Data()
	return views.RenderSettingsPanel(views.SettingsPanelData{
		Email:            m.Session.User().Email,
		Theme:            string(data.Theme),
		TwoFactorEnabled: data.TwoFactor.Enabled,
		TwoFactorSecret:  data.TwoFactor.Secret,
		PushSubscribed:   data.Push.Subscribed,
		LayoutLeft:       data.DashboardLayout.Left,
		LayoutRight:      data.DashboardLayout.Right,
	})
}
