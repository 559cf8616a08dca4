package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/planr/internal/model"
	"github.com/sandeepkv93/planr/internal/views"
)

func (m Model) handleExportsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	data := m.Store.Data()
	switch msg.String() {
	case "n":
		m.Store.RequestExport(model.ExportFormatJSON)
		m.Status = StatusBar{Text: "JSON export requested"}
		return m, m.delayedExportRefreshCmd()
	case "N":
		m.Store.RequestExport(model.ExportFormatCSV)
		m.Status = StatusBar{Text: "CSV export requested"}
		return m, m.delayedExportRefreshCmd()
	case "j", "down":
		m.ExportCursor = clamp(m.ExportCursor+1, len(data.Exports.Items))
		return m, nil
	case "k", "up":
		m.ExportCursor = clamp(m.ExportCursor-1, len(data.Exports.Items))
		return m, nil
	case "L":
		if data.Exports.NextCursor != "" {
			return m, m.fetchExportsCmd(data.Exports.NextCursor)
		}
		m.Status = StatusBar{Text: "no more exports"}
		return m, nil
	case "r":
		return m, m.fetchExportsCmd("")
	}
	return m, nil
}

func (m Model) fetchExportsCmd(cursor string) tea.Cmd {
	st, timeout := m.Store, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return RemoteDoneMsg{Op: "fetch exports", Err: st.FetchExports(ctx, cursor)}
	}
}

// delayedExportRefreshCmd re-reads the first page shortly after a
// request so the new server-assigned job shows up even if the live
// feed misses the event.
func (m Model) delayedExportRefreshCmd() tea.Cmd {
	st, timeout := m.Store, m.requestTimeout
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return RemoteDoneMsg{Op: "refresh exports", Err: st.FetchExports(ctx, "")}
	})
}

func (m Model) renderExportsView() string {
	data := m.Store.Data()
	jobs := make([]views.ExportJobData, 0, len(data.Exports.Items))
	for _, job := range data.Exports.Items {
		jobs = append(jobs, views.ExportJobData{
			ID:          job.ID,
			Format:      string(job.Format),
			Status:      string(job.Status),
			DownloadRef: job.DownloadRef,
		})
	}
	return views.RenderExportsPanel(views.ExportsPanelData{
		Jobs:    jobs,
		Cursor:  m.ExportCursor,
		HasMore: data.Exports.NextCursor != "",
	})
}
