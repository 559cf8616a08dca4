package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/commands"
	"github.com/sandeepkv93/planr/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var followUp tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			priority := model.PriorityNone
			if a.Priority != "" {
				priority = model.Priority(a.Priority)
			}
			m.Store.AddTask(a.Text, "", priority, nil)
			m.CurrentView = ViewPlan
			return commands.Result{Message: "added: " + a.Text}, nil
		},
		Capture: func(a commands.CaptureArgs) (commands.Result, error) {
			m.Store.AddUnplannedTask(a.Text)
			return commands.Result{Message: "captured: " + a.Text}, nil
		},
		Goal: func(a commands.GoalArgs) (commands.Result, error) {
			category := model.GoalShortTerm
			if a.Category == "long" {
				category = model.GoalLongTerm
			}
			m.Store.AddGoal(a.Name, category, "")
			m.CurrentView = ViewGoals
			return commands.Result{Message: "goal added: " + a.Name}, nil
		},
		Routine: func(a commands.RoutineArgs) (commands.Result, error) {
			m.Store.AddRoutineTask(a.Text, "", dayNumbers(a.Days))
			m.CurrentView = ViewRoutine
			return commands.Result{Message: "routine added: " + a.Text}, nil
		},
		Search: func(a commands.SearchArgs) (commands.Result, error) {
			m.Store.SetReflectionSearch(a.Query)
			m.searchInput.SetValue(a.Query)
			m.CurrentView = ViewReflections
			m.ReflectionCursor = 0
			followUp = m.fetchReflectionsCmd("")
			if a.Query == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("searching reflections for %q", a.Query)}, nil
		},
		Export: func(a commands.ExportArgs) (commands.Result, error) {
			m.Store.RequestExport(model.ExportFormat(a.Format))
			m.CurrentView = ViewExports
			followUp = m.delayedExportRefreshCmd()
			return commands.Result{Message: strings.ToUpper(a.Format) + " export requested"}, nil
		},
		View: func(a commands.ViewArgs) (commands.Result, error) {
			v, ok := viewByName(a.Name)
			if !ok {
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: "unknown view: " + a.Name,
				}
			}
			m.CurrentView = v
			return commands.Result{Message: "switched to " + a.Name}, nil
		},
		Theme: func() (commands.Result, error) {
			m.Store.ToggleTheme()
			return commands.Result{Message: "theme toggled"}, nil
		},
		Logout: func() (commands.Result, error) {
			ctx, cancel := context.WithTimeout(context.Background(), m.requestTimeout)
			defer cancel()
			m.Session.Logout(ctx)
			m.CurrentView = ViewPlan
			return commands.Result{Message: "signed out"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, followUp
}

var dayNumber = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

func dayNumbers(days []string) []int {
	out := make([]int, 0, len(days))
	for _, day := range days {
		if n, ok := dayNumber[day]; ok {
			out = append(out, n)
		}
	}
	return out
}
