package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/model"
	"github.com/sandeepkv93/planr/internal/views"
)

func (m Model) handleRoutineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	data := m.Store.Data()
	switch msg.String() {
	case "j", "down":
		m.RoutineCursor = clamp(m.RoutineCursor+1, len(data.Routine))
		return m, nil
	case "k", "up":
		m.RoutineCursor = clamp(m.RoutineCursor-1, len(data.Routine))
		return m, nil
	case " ":
		if task, ok := m.selectedRoutineTask(data); ok {
			m.Store.ToggleRoutineTask(task.ID, false)
		}
		return m, nil
	case "s":
		// Toggle without writing a time log entry.
		if task, ok := m.selectedRoutineTask(data); ok {
			m.Store.ToggleRoutineTask(task.ID, true)
		}
		return m, nil
	case "d":
		if task, ok := m.selectedRoutineTask(data); ok {
			m.Store.DeleteRoutineTask(task.ID)
		}
		return m, nil
	case "J":
		if m.RoutineCursor < len(data.Routine)-1 {
			m.Store.ReorderRoutine(swapRoutine(data.Routine, m.RoutineCursor, m.RoutineCursor+1))
			m.RoutineCursor++
		}
		return m, nil
	case "K":
		if m.RoutineCursor > 0 {
			m.Store.ReorderRoutine(swapRoutine(data.Routine, m.RoutineCursor, m.RoutineCursor-1))
			m.RoutineCursor--
		}
		return m, nil
	case "t":
		if task, ok := m.selectedRoutineTask(data); ok {
			m.Store.StartTimer(task.ID, model.TimerKindRoutine, task.Text, m.timerMinutes)
			return m.switchView(ViewTimer)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) selectedRoutineTask(data model.AppData) (model.RoutineTask, bool) {
	if m.RoutineCursor < 0 || m.RoutineCursor >= len(data.Routine) {
		return model.RoutineTask{}, false
	}
	return data.Routine[m.RoutineCursor], true
}

func swapRoutine(routine []model.RoutineTask, i, j int) []model.RoutineTask {
	out := make([]model.RoutineTask, len(routine))
	copy(out, routine)
	out[i], out[j] = out[j], out[i]
	return out
}

var dayAbbrev = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

func formatDays(days []int) string {
	if len(days) == 0 {
		return "daily"
	}
	parts := make([]string, 0, len(days))
	for _, day := range days {
		if day >= 0 && day < 7 {
			parts = append(parts, dayAbbrev[day])
		}
	}
	return strings.Join(parts, ",")
}

func (m Model) renderRoutineView() string {
	data := m.Store.Data()
	selectedID := ""
	if task, ok := m.selectedRoutineTask(data); ok {
		selectedID = task.ID
	}

	today, err := time.Parse(model.DateLayout, data.Plan.Date)
	weekday := time.Now().Weekday()
	if err == nil {
		weekday = today.Weekday()
	}

	tasks := make([]views.RoutineTaskData, 0, len(data.Routine))
	for _, task := range data.Routine {
		tasks = append(tasks, views.RoutineTaskData{
			ID:        task.ID,
			Text:      task.Text,
			Completed: task.Completed,
			Days:      formatDays(task.RecurringDays),
			DueToday:  len(task.RecurringDays) == 0 || task.RecursOn(weekday),
		})
	}
	return views.RenderRoutinePanel(views.RoutinePanelData{Tasks: tasks, SelectedID: selectedID})
}
