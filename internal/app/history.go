package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voicevista/voicevista/internal/router"
	"github.com/voicevista/voicevista/internal/transcript"
)

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.records) == 0 {
		if msg.String() == KeyRefresh {
			m.loading = true
			return m, transcriptionsCmd(m.ctx, m.deps.Client, m.deps.Cache, m.owner(), false, m.pollGen)
		}
		return m, nil
	}

	rec := m.records[m.histCursor]
	switch msg.String() {
	case KeyDown, KeyJ:
		if m.histCursor < len(m.records)-1 {
			m.histCursor++
		}
	case KeyUp, KeyK:
		if m.histCursor > 0 {
			m.histCursor--
		}
	case KeyEnter:
		return m.navigate(router.Path(router.PageResult, rec.ID))
	case KeyFormat:
		opts := m.downloadOptions(rec.ID)
		opts.Format = opts.Format.Next()
		m.options[rec.ID] = opts
	case KeyLanguage:
		opts := m.downloadOptions(rec.ID)
		opts.Language = opts.Language.Next()
		m.options[rec.ID] = opts
	case KeyDownload:
		return m.startDownload(rec)
	case KeyDelete:
		m.confirm = &confirmation{kind: confirmDelete, id: rec.ID, prompt: "Are you sure you want to delete this transcription?"}
	case KeyDeleteAll:
		m.confirm = &confirmation{kind: confirmDeleteAll, prompt: "Are you sure you want to delete ALL transcriptions? This cannot be undone."}
	case KeyRefresh:
		m.loading = true
		return m, transcriptionsCmd(m.ctx, m.deps.Client, m.deps.Cache, m.owner(), false, m.pollGen)
	}
	return m, nil
}

func (m Model) viewHistory() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.PanelTitle.Render("Transcription History"))
	b.WriteString("\n")

	switch {
	case len(m.records) == 0 && !m.listLoaded:
		b.WriteString(s.Dim.Render("Loading transcriptions..."))
		return b.String()
	case len(m.records) == 0:
		b.WriteString(s.Dim.Render("No transcriptions found."))
		return b.String()
	}

	counts := m.records.Counts()
	b.WriteString(s.Dim.Render(fmt.Sprintf("%d total · %d completed · %d processing · %d failed",
		len(m.records), counts[transcript.StatusCompleted], counts[transcript.StatusProcessing], counts[transcript.StatusFailed])))
	b.WriteString("\n\n")

	height := max(3, m.bodyHeight()-6)
	start, end := window(len(m.records), m.histCursor, height)
	for i := start; i < end; i++ {
		rec := m.records[i]
		row := m.renderRecordRow(rec, i == m.histCursor)
		if rec.Completed() {
			row += "  " + m.renderOptions(rec.ID)
		}
		if m.downloading[rec.ID] {
			row += " " + s.Spinner.Render("downloading...")
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

// renderOptions shows the download format and language chosen for a record.
func (m Model) renderOptions(id int64) string {
	opts := m.downloadOptions(id)
	return m.styles.Info.Render(fmt.Sprintf("[%s · %s]", strings.ToUpper(string(opts.Format)), opts.Language.Name()))
}
