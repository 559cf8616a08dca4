package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/model"
	"github.com/sandeepkv93/planr/internal/views"
)

func (m Model) handleGoalsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	data := m.Store.Data()
	switch msg.String() {
	case "j", "down":
		m.GoalsCursor = clamp(m.GoalsCursor+1, len(data.Goals))
		return m, nil
	case "k", "up":
		m.GoalsCursor = clamp(m.GoalsCursor-1, len(data.Goals))
		return m, nil
	case " ":
		if goal, ok := m.selectedGoal(data); ok {
			m.Store.ToggleGoal(goal.ID)
		}
		return m, nil
	case "a":
		if goal, ok := m.selectedGoal(data); ok {
			if goal.Archived {
				m.Store.RestoreGoal(goal.ID)
				m.Status = StatusBar{Text: "goal restored"}
			} else {
				m.Store.ArchiveGoal(goal.ID)
				m.Status = StatusBar{Text: "goal archived"}
			}
		}
		return m, nil
	case "A":
		m.ShowArchivedGoals = !m.ShowArchivedGoals
		return m, nil
	case "d":
		if goal, ok := m.selectedGoal(data); ok {
			m.Store.PermanentlyDeleteGoal(goal.ID)
			m.Status = StatusBar{Text: "goal deleted"}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) selectedGoal(data model.AppData) (model.Goal, bool) {
	if m.GoalsCursor < 0 || m.GoalsCursor >= len(data.Goals) {
		return model.Goal{}, false
	}
	return data.Goals[m.GoalsCursor], true
}

func (m Model) renderGoalsView() string {
	data := m.Store.Data()
	selectedID := ""
	if goal, ok := m.selectedGoal(data); ok {
		selectedID = goal.ID
	}

	linked := make(map[string]int)
	for _, task := range data.Plan.Tasks {
		if task.GoalID != "" {
			linked[task.GoalID]++
		}
	}
	for _, task := range data.Routine {
		if task.GoalID != "" {
			linked[task.GoalID]++
		}
	}

	goals := make([]views.GoalData, 0, len(data.Goals))
	for _, goal := range data.Goals {
		goals = append(goals, views.GoalData{
			ID:        goal.ID,
			Name:      goal.Text,
			Category:  string(goal.Category),
			Completed: goal.Completed,
			Archived:  goal.Archived,
			TaskCount: linked[goal.ID],
		})
	}
	return views.RenderGoalsPanel(views.GoalsPanelData{
		Goals:        goals,
		SelectedID:   selectedID,
		ShowArchived: m.ShowArchivedGoals,
	})
}
