package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/derive"
	"github.com/sandeepkv93/planr/internal/session"
	"github.com/sandeepkv93/planr/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(watchStoreCmd(m.changes), timerTickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if !m.authenticated() {
			return m.handleAuthKey(typed)
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.SearchMode {
			return m.handleSearchKey(typed)
		}
		if m.CaptureMode {
			return m.handleCaptureKey(typed)
		}
		if m.CurrentView == ViewShutdown && m.Store.Data().Shutdown.Open {
			if handled, next, cmd := m.handleShutdownFormKey(typed); handled {
				return next, cmd
			}
		}
		return m.handleGlobalKey(typed)

	case spinner.TickMsg:
		if m.Auth.Busy {
			var cmd tea.Cmd
			m.authSpinner, cmd = m.authSpinner.Update(typed)
			return m, cmd
		}
		return m, nil

	case StoreChangedMsg:
		m.collectAchievementToasts()
		m.clampCursors()
		return m, watchStoreCmd(m.changes)

	case TimerTickMsg:
		return m.onTimerTick()

	case SwitchViewMsg:
		if isKnownView(typed.View) {
			return m.switchView(typed.View)
		}
		return m, nil

	case AuthDoneMsg:
		return m.onAuthDone(typed)

	case RemoteDoneMsg:
		if typed.Err != nil {
			m.Status = StatusBar{Text: fmt.Sprintf("%s failed: %v", typed.Op, typed.Err), IsError: true}
			m.LastError = typed.Err
		}
		return m, nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil

	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Plan:
		return m.switchView(ViewPlan)
	case m.Keys.Routine:
		return m.switchView(ViewRoutine)
	case m.Keys.Goals:
		return m.switchView(ViewGoals)
	case m.Keys.Timer:
		return m.switchView(ViewTimer)
	case m.Keys.Shutdown:
		return m.switchView(ViewShutdown)
	case m.Keys.Reflections:
		return m.switchView(ViewReflections)
	case m.Keys.Exports:
		return m.switchView(ViewExports)
	case m.Keys.Settings:
		return m.switchView(ViewSettings)
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewPlan:
		return m.handlePlanKey(msg)
	case ViewRoutine:
		return m.handleRoutineKey(msg)
	case ViewGoals:
		return m.handleGoalsKey(msg)
	case ViewTimer:
		return m.handleTimerKey(msg)
	case ViewShutdown:
		return m.handleShutdownKey(msg)
	case ViewReflections:
		return m.handleReflectionsKey(msg)
	case ViewExports:
		return m.handleExportsKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg)
	}
	return m, nil
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.CurrentView = v
	switch v {
	case ViewPlan:
		m.Store.EnsureToday()
	case ViewReflections:
		if len(m.Store.Data().Reflections.Items) == 0 {
			return m, m.fetchReflectionsCmd("")
		}
	case ViewExports:
		if len(m.Store.Data().Exports.Items) == 0 {
			return m, m.fetchExportsCmd("")
		}
	case ViewSettings:
		if m.Store.Data().TimeAnalytics == nil {
			return m, m.fetchAnalyticsCmd()
		}
	}
	return m, nil
}

// collectAchievementToasts surfaces achievements unlocked since the
// last store change.
func (m *Model) collectAchievementToasts() {
	data := m.Store.Data()
	fresh := []string{}
	for _, id := range data.UnlockedAchievements {
		if m.toastSeen[id] {
			continue
		}
		m.toastSeen[id] = true
		fresh = append(fresh, id)
	}
	if len(fresh) > 0 {
		m.ToastItems = fresh
		if ach, ok := derive.ByID(fresh[len(fresh)-1]); ok {
			m.Status = StatusBar{Text: "achievement unlocked: " + ach.Name}
		}
	}
}

func (m *Model) clampCursors() {
	data := m.Store.Data()
	m.PlanCursor = clamp(m.PlanCursor, len(data.Plan.Tasks))
	if m.PlanSection == SectionUnplanned {
		m.PlanCursor = clamp(m.PlanCursor, len(data.UnplannedTasks))
	}
	m.RoutineCursor = clamp(m.RoutineCursor, len(data.Routine))
	m.GoalsCursor = clamp(m.GoalsCursor, len(data.Goals))
	m.ReflectionCursor = clamp(m.ReflectionCursor, len(data.Reflections.Items))
	m.ExportCursor = clamp(m.ExportCursor, len(data.Exports.Items))
}

func clamp(cursor, length int) int {
	if length == 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func (m Model) authenticated() bool {
	return m.Session.Status() == session.StatusAuthenticated
}

func (m Model) View() string {
	if !m.authenticated() {
		return m.renderAuthView()
	}

	data := m.Store.Data()
	leftPane := ""
	rightPane := m.renderHelpIfVisible()
	switch m.CurrentView {
	case ViewPlan:
		leftPane = m.renderPlanView()
		rightPane = views.RenderCommandPalette(m.Palette.Active, m.Palette.Input) + rightPane
	case ViewRoutine:
		leftPane = m.renderRoutineView()
	case ViewGoals:
		leftPane = m.renderGoalsView()
	case ViewTimer:
		leftPane = m.renderTimerView()
	case ViewShutdown:
		leftPane = m.renderShutdownView()
	case ViewReflections:
		leftPane = m.renderReflectionsView()
	case ViewExports:
		leftPane = m.renderExportsView()
	case ViewSettings:
		leftPane = m.renderSettingsView()
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = "status: error: " + m.Status.Text
		} else {
			status = "status: " + m.Status.Text
		}
	}

	notification := m.renderToast()

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("planr | %s | %s | view: %s", m.Session.User().Email, data.Plan.Date, m.CurrentView),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: notification,
		Footer:       fmt.Sprintf("keys: 1-8 views | / cmd | %s help | %s quit", m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderToast() string {
	if len(m.ToastItems) == 0 {
		return ""
	}
	items := make([]views.AchievementData, 0, len(m.ToastItems))
	for _, id := range m.ToastItems {
		if ach, ok := derive.ByID(id); ok {
			items = append(items, views.AchievementData{Name: ach.Name, Description: ach.Description})
		}
	}
	return views.RenderAchievementToast(items)
}

func watchStoreCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return StoreChangedMsg{}
	}
}

func timerTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return TimerTickMsg{} })
}
