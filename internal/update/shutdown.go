package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/model"
	"github.com/sandeepkv93/planr/internal/views"
)

func (m Model) handleShutdownKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	data := m.Store.Data()
	if msg.String() == "enter" && !data.Shutdown.Open {
		m.Store.StartShutdownRoutine()
		m.ShutdownForm = ShutdownFormState{Field: "well"}
		m.wellInput.SetValue("")
		m.improveInput.SetValue("")
		if m.Store.Data().Shutdown.Step == model.ShutdownStepReflect {
			m.wellInput.Focus()
		}
		return m, nil
	}
	return m, nil
}

// handleShutdownFormKey runs while the shutdown workflow is open. It
// reports whether it consumed the key so global bindings still work
// outside the reflect step's text fields.
func (m Model) handleShutdownFormKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	data := m.Store.Data()
	switch data.Shutdown.Step {
	case model.ShutdownStepReview:
		switch msg.String() {
		case "enter":
			m.Store.ProcessUnfinishedTasks()
			m.ShutdownForm.Field = "well"
			m.wellInput.Focus()
			return true, m, nil
		case "esc":
			m.Store.CloseShutdownRoutine()
			return true, m, nil
		}
		return false, m, nil

	case model.ShutdownStepReflect:
		switch msg.String() {
		case "esc":
			m.Store.CloseShutdownRoutine()
			m.wellInput.Blur()
			m.improveInput.Blur()
			return true, m, nil
		case "tab":
			if m.ShutdownForm.Field == "well" {
				m.ShutdownForm.Field = "improve"
				m.wellInput.Blur()
				m.improveInput.Focus()
			} else {
				m.ShutdownForm.Field = "well"
				m.improveInput.Blur()
				m.wellInput.Focus()
			}
			return true, m, nil
		case "enter":
			well := strings.TrimSpace(m.wellInput.Value())
			improve := strings.TrimSpace(m.improveInput.Value())
			m.Store.AddReflection(well, improve)
			m.wellInput.Blur()
			m.improveInput.Blur()
			m.Status = StatusBar{Text: "reflection saved, day closed"}
			return true, m, nil
		}
		var cmd tea.Cmd
		if m.ShutdownForm.Field == "improve" {
			m.improveInput, cmd = m.improveInput.Update(msg)
		} else {
			m.wellInput, cmd = m.wellInput.Update(msg)
		}
		return true, m, cmd
	}
	return false, m, nil
}

func (m Model) renderShutdownView() string {
	data := m.Store.Data()
	return views.RenderShutdownPanel(views.ShutdownPanelData{
		Active:          data.Shutdown.Open,
		Step:            string(data.Shutdown.Step),
		UnfinishedCount: len(data.Shutdown.UnfinishedTasks),
		WellInput:       m.wellInput.View(),
		ImproveInput:    m.improveInput.View(),
		FocusedField:    m.ShutdownForm.Field,
	})
}
