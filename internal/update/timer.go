package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/store"
	"github.com/sandeepkv93/planr/internal/views"
)

func (m Model) handleTimerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.Store.Data().ActiveTask
	if active == nil {
		return m, nil
	}
	switch msg.String() {
	case " ":
		paused := !active.Paused
		m.Store.UpdateTimer(store.TimerPatch{Paused: &paused})
		if paused {
			m.Status = StatusBar{Text: "timer paused"}
		} else {
			m.Status = StatusBar{Text: "timer running"}
		}
		return m, nil
	case "c":
		m.Store.CompleteActiveTask()
		m.Status = StatusBar{Text: "task completed and logged"}
		return m, nil
	case "f":
		m.Store.FinishTimer()
		m.Status = StatusBar{Text: "session logged"}
		return m, nil
	case "e":
		m.Store.ExtendTimer(5)
		m.Status = StatusBar{Text: "added 5 minutes"}
		return m, nil
	}
	return m, nil
}

func (m Model) onTimerTick() (tea.Model, tea.Cmd) {
	active := m.Store.Data().ActiveTask
	if active != nil && !active.Paused && active.RemainingSeconds > 0 {
		remaining := active.RemainingSeconds - 1
		m.Store.UpdateTimer(store.TimerPatch{RemainingSeconds: &remaining})
		if remaining == 0 {
			m.Status = StatusBar{Text: "time is up: complete, finish or extend"}
		}
	}
	return m, timerTickCmd()
}

func (m Model) renderTimerView() string {
	active := m.Store.Data().ActiveTask
	if active == nil {
		return views.RenderTimerPanel(views.TimerPanelData{})
	}
	progress := 0
	if active.TotalDuration > 0 {
		progress = active.TimeSpent() * 100 / active.TotalDuration
	}
	return views.RenderTimerPanel(views.TimerPanelData{
		TaskText:  active.Label,
		Remaining: formatClock(active.RemainingSeconds),
		Paused:    active.Paused,
		Progress:  progress,
		HasTimer:  true,
	})
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
