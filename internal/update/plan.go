package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/model"
	"github.com/sandeepkv93/planr/internal/views"
)

func (m Model) handlePlanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	data := m.Store.Data()
	switch msg.String() {
	case "enter", "i":
		m.CaptureMode = true
		m.quickAddInput.Focus()
		m.quickAddInput.SetValue("")
		return m, nil
	case "tab":
		if m.PlanSection == SectionPlanned {
			m.PlanSection = SectionUnplanned
		} else {
			m.PlanSection = SectionPlanned
		}
		m.PlanCursor = 0
		return m, nil
	case "j", "down":
		m.PlanCursor = clamp(m.PlanCursor+1, m.planSectionLen(data))
		return m, nil
	case "k", "up":
		m.PlanCursor = clamp(m.PlanCursor-1, m.planSectionLen(data))
		return m, nil
	case " ":
		if m.PlanSection == SectionPlanned {
			if task, ok := m.selectedPlanTask(data); ok {
				m.Store.ToggleTask(task.ID)
			}
		}
		return m, nil
	case "d":
		if m.PlanSection == SectionPlanned {
			if task, ok := m.selectedPlanTask(data); ok {
				m.Store.DeleteTask(task.ID)
			}
		} else if task, ok := m.selectedUnplannedTask(data); ok {
			m.Store.DeleteUnplannedTask(task.ID)
		}
		return m, nil
	case "p":
		if m.PlanSection == SectionUnplanned {
			if task, ok := m.selectedUnplannedTask(data); ok {
				m.Store.PlanUnplannedTask(task.ID)
				m.Status = StatusBar{Text: "moved into today's plan"}
			}
		}
		return m, nil
	case "J":
		if m.PlanSection == SectionPlanned && m.PlanCursor < len(data.Plan.Tasks)-1 {
			m.Store.ReorderTasks(swapTasks(data.Plan.Tasks, m.PlanCursor, m.PlanCursor+1))
			m.PlanCursor++
		}
		return m, nil
	case "K":
		if m.PlanSection == SectionPlanned && m.PlanCursor > 0 {
			m.Store.ReorderTasks(swapTasks(data.Plan.Tasks, m.PlanCursor, m.PlanCursor-1))
			m.PlanCursor--
		}
		return m, nil
	case "t":
		if m.PlanSection == SectionPlanned {
			if task, ok := m.selectedPlanTask(data); ok {
				m.Store.StartTimer(task.ID, model.TimerKindPlan, task.Text, m.timerMinutes)
				return m.switchView(ViewTimer)
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleCaptureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CaptureMode = false
		m.quickAddInput.Blur()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.quickAddInput.Value())
		m.CaptureMode = false
		m.quickAddInput.Blur()
		m.quickAddInput.SetValue("")
		if text == "" {
			return m, nil
		}
		if m.PlanSection == SectionUnplanned {
			m.Store.AddUnplannedTask(text)
			m.Status = StatusBar{Text: "captured: " + text}
		} else {
			m.Store.AddTask(text, "", model.PriorityNone, nil)
			m.Status = StatusBar{Text: "added: " + text}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	return m, cmd
}

func (m Model) planSectionLen(data model.AppData) int {
	if m.PlanSection == SectionUnplanned {
		return len(data.UnplannedTasks)
	}
	return len(data.Plan.Tasks)
}

func (m Model) selectedPlanTask(data model.AppData) (model.Task, bool) {
	if m.PlanCursor < 0 || m.PlanCursor >= len(data.Plan.Tasks) {
		return model.Task{}, false
	}
	return data.Plan.Tasks[m.PlanCursor], true
}

func (m Model) selectedUnplannedTask(data model.AppData) (model.UnplannedTask, bool) {
	if m.PlanCursor < 0 || m.PlanCursor >= len(data.UnplannedTasks) {
		return model.UnplannedTask{}, false
	}
	return data.UnplannedTasks[m.PlanCursor], true
}

func swapTasks(tasks []model.Task, i, j int) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	out[i], out[j] = out[j], out[i]
	return out
}

func (m Model) renderPlanView() string {
	data := m.Store.Data()
	goalNames := make(map[string]string, len(data.Goals))
	for _, goal := range data.Goals {
		goalNames[goal.ID] = goal.Text
	}

	selectedID := ""
	if m.PlanSection == SectionPlanned {
		if task, ok := m.selectedPlanTask(data); ok {
			selectedID = task.ID
		}
	} else if task, ok := m.selectedUnplannedTask(data); ok {
		selectedID = task.ID
	}

	tasks := make([]views.PlanTaskData, 0, len(data.Plan.Tasks))
	for _, task := range data.Plan.Tasks {
		priority := string(task.Priority)
		if task.Priority == model.PriorityNone {
			priority = ""
		}
		tasks = append(tasks, views.PlanTaskData{
			ID:        task.ID,
			Text:      task.Text,
			Completed: task.Completed,
			Priority:  priority,
			Tags:      task.Tags,
			GoalName:  goalNames[task.GoalID],
		})
	}
	unplanned := make([]views.PlanTaskData, 0, len(data.UnplannedTasks))
	for _, task := range data.UnplannedTasks {
		unplanned = append(unplanned, views.PlanTaskData{ID: task.ID, Text: task.Text})
	}

	quickAdd := "[enter] to add a task"
	if m.CaptureMode {
		quickAdd = m.quickAddInput.View()
	}
	return views.RenderPlanPanel(views.PlanPanelData{
		Date:         data.Plan.Date,
		QuickAddView: quickAdd,
		Tasks:        tasks,
		Unplanned:    unplanned,
		SelectedID:   selectedID,
	})
}
