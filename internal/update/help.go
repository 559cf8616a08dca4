package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/planr/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "1-8", Action: "switch screens"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewPlan:
		return []KeyBinding{
			{Key: "enter", Action: "add a task"},
			{Key: "tab", Action: "switch planned/unplanned"},
			{Key: "space", Action: "toggle completion"},
			{Key: "J/K", Action: "reorder"},
			{Key: "p", Action: "promote unplanned task"},
			{Key: "t", Action: "start a timer"},
			{Key: "d", Action: "delete"},
		}
	case ViewRoutine:
		return []KeyBinding{
			{Key: "space", Action: "toggle completion"},
			{Key: "s", Action: "toggle without logging"},
			{Key: "J/K", Action: "reorder"},
			{Key: "t", Action: "start a timer"},
		}
	case ViewGoals:
		return []KeyBinding{
			{Key: "space", Action: "toggle completion"},
			{Key: "a", Action: "archive / restore"},
			{Key: "A", Action: "show archived"},
			{Key: "d", Action: "delete permanently"},
		}
	case ViewTimer:
		return []KeyBinding{
			{Key: "space", Action: "pause / resume"},
			{Key: "c", Action: "complete and log"},
			{Key: "f", Action: "log without completing"},
			{Key: "e", Action: "extend 5 minutes"},
		}
	case ViewShutdown:
		return []KeyBinding{
			{Key: "enter", Action: "start / advance shutdown"},
			{Key: "tab", Action: "switch reflect fields"},
			{Key: "esc", Action: "abandon shutdown"},
		}
	case ViewReflections:
		return []KeyBinding{
			{Key: "s", Action: "search"},
			{Key: "L", Action: "load older entries"},
			{Key: "r", Action: "reload"},
		}
	case ViewExports:
		return []KeyBinding{
			{Key: "n/N", Action: "request JSON / CSV export"},
			{Key: "L", Action: "load older jobs"},
			{Key: "r", Action: "reload"},
		}
	case ViewSettings:
		return []KeyBinding{
			{Key: "T", Action: "toggle theme"},
			{Key: "2", Action: "enable / disable two-factor"},
			{Key: "p", Action: "toggle push notifications"},
			{Key: "x", Action: "swap dashboard columns"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
