package update

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/views"
)

func (m Model) handleReflectionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	data := m.Store.Data()
	switch msg.String() {
	case "s", "i":
		m.SearchMode = true
		m.searchInput.Focus()
		return m, nil
	case "j", "down":
		m.ReflectionCursor = clamp(m.ReflectionCursor+1, len(data.Reflections.Items))
		return m, nil
	case "k", "up":
		m.ReflectionCursor = clamp(m.ReflectionCursor-1, len(data.Reflections.Items))
		return m, nil
	case "L":
		if data.Reflections.NextCursor != "" {
			return m, m.fetchReflectionsCmd(data.Reflections.NextCursor)
		}
		m.Status = StatusBar{Text: "no more reflections"}
		return m, nil
	case "r":
		return m, m.fetchReflectionsCmd("")
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.SearchMode = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.SearchMode = false
		m.searchInput.Blur()
		query := strings.TrimSpace(m.searchInput.Value())
		m.Store.SetReflectionSearch(query)
		m.ReflectionCursor = 0
		return m, m.fetchReflectionsCmd("")
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) fetchReflectionsCmd(cursor string) tea.Cmd {
	st, timeout := m.Store, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return RemoteDoneMsg{Op: "fetch reflections", Err: st.FetchReflections(ctx, cursor)}
	}
}

func (m Model) renderReflectionsView() string {
	data := m.Store.Data()
	items := make([]views.ReflectionData, 0, len(data.Reflections.Items))
	for _, item := range data.Reflections.Items {
		items = append(items, views.ReflectionData{Date: item.Date, Well: item.Well, Improve: item.Improve})
	}
	searchView := m.searchInput.Value()
	if m.SearchMode {
		searchView = m.searchInput.View()
	}
	return views.RenderReflectionsPanel(views.ReflectionsPanelData{
		SearchView: searchView,
		Search:     strings.TrimSpace(m.searchInput.Value()),
		Items:      items,
		Cursor:     m.ReflectionCursor,
		HasMore:    data.Reflections.NextCursor != "",
	})
}
