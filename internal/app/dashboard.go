package app

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/voicevista/voicevista/internal/api"
	"github.com/voicevista/voicevista/internal/config"
	"github.com/voicevista/voicevista/internal/router"
	"github.com/voicevista/voicevista/internal/transcript"
)

func (m Model) recent() transcript.List {
	return m.records.Limit(m.deps.DashboardLimit)
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.uploadEditing {
		switch key {
		case KeyEsc:
			m.uploadEditing = false
			return m, nil
		case KeyEnter:
			return m.selectUpload()
		}
		m.uploadInput.handleKey(msg)
		return m, nil
	}

	recent := m.recent()
	switch key {
	case KeyEsc:
		if m.pendingUpload != "" && !m.uploading {
			m.pendingUpload = ""
			m.pendingInfo = ""
		}
	case KeyUpload:
		if !m.uploading {
			m.uploadEditing = true
		}
	case KeyEnter:
		if m.pendingUpload != "" {
			if m.uploading {
				return m, nil
			}
			m.uploading = true
			path := m.pendingUpload
			return m, uploadCmd(m.ctx, m.deps.Client, path, filepath.Base(path))
		}
		if len(recent) > 0 {
			return m.navigate(router.Path(router.PageResult, recent[m.dashCursor].ID))
		}
	case KeyDown, KeyJ:
		if m.dashCursor < len(recent)-1 {
			m.dashCursor++
		}
	case KeyUp, KeyK:
		if m.dashCursor > 0 {
			m.dashCursor--
		}
	case KeyDelete:
		if len(recent) > 0 {
			m.confirm = &confirmation{kind: confirmDelete, id: recent[m.dashCursor].ID, prompt: "Delete this transcription?"}
		}
	case KeyDeleteAll:
		if len(m.records) > 0 {
			m.confirm = &confirmation{kind: confirmDeleteAll, prompt: "Delete ALL recent transcriptions?"}
		}
	case KeyRefresh:
		m.loading = true
		return m, transcriptionsCmd(m.ctx, m.deps.Client, m.deps.Cache, m.owner(), false, m.pollGen)
	}
	return m, nil
}

// selectUpload validates the typed path and stages it for upload.
func (m Model) selectUpload() (tea.Model, tea.Cmd) {
	path, err := config.ExpandPath(m.uploadInput.Value())
	if err != nil {
		return m, m.setErr(err)
	}
	info, err := api.CheckAudioFile(path)
	if err != nil {
		return m, m.setErr(err)
	}
	m.uploadEditing = false
	m.uploadInput.SetValue("")
	m.pendingUpload = path
	m.pendingInfo = api.DescribeFile(info)
	m.errorMessage = ""
	return m, nil
}

func (m Model) viewDashboard() string {
	s := m.styles
	var b strings.Builder

	name := m.profile.DisplayName()
	if !m.profileLoaded {
		if u, ok := m.deps.Session.User(); ok {
			name = u.DisplayName()
		}
	}
	b.WriteString(s.PanelTitle.Render(fmt.Sprintf("Welcome back, %s!", name)))
	b.WriteString("\n")
	b.WriteString(s.Dim.Render("Upload audio files for transcription and view your recent transcriptions."))
	b.WriteString("\n\n")

	b.WriteString(m.viewDropZone())
	b.WriteString("\n\n")

	heading := "Recent Transcriptions"
	if m.polling {
		heading += "  " + s.Spinner.Render("checking for updates...")
	}
	b.WriteString(s.Header.Render(heading))
	b.WriteString("\n")
	if !m.cachedAt.IsZero() {
		b.WriteString(s.Dim.Render("Showing saved list from " + humanize.Time(m.cachedAt)))
		b.WriteString("\n")
	}

	recent := m.recent()
	switch {
	case len(recent) == 0 && !m.listLoaded && m.cachedAt.IsZero():
		b.WriteString(s.Dim.Render("Loading transcriptions..."))
	case len(recent) == 0:
		b.WriteString(s.Dim.Render("No transcriptions yet. Upload an audio file to get started."))
	default:
		height := max(3, m.bodyHeight()-12)
		start, end := window(len(recent), m.dashCursor, height)
		for i := start; i < end; i++ {
			b.WriteString(m.renderRecordRow(recent[i], i == m.dashCursor))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) viewDropZone() string {
	s := m.styles
	width := max(30, min(m.width-4, 72))

	var lines []string
	switch {
	case m.uploadEditing:
		lines = append(lines, m.uploadInput.view(s, true))
		lines = append(lines, s.Dim.Render("Type a path and press enter. Esc cancels."))
	case m.pendingUpload != "":
		lines = append(lines, s.Text.Render("Selected: "+m.pendingInfo))
		if m.uploading {
			lines = append(lines, s.Spinner.Render("Uploading..."))
		} else {
			lines = append(lines, s.Dim.Render("Press enter to start transcription, esc to remove."))
		}
	default:
		lines = append(lines, s.Text.Render("Drag files here or browse"))
		lines = append(lines, s.Dim.Render("Supported formats: MP3, WAV, M4A. Max file size: 500MB."))
		lines = append(lines, s.Dim.Render("Press u to choose a file."))
	}

	style := s.DropZone
	if m.uploadEditing {
		style = s.DropZoneFocus
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// renderRecordRow renders one list line: title, status, date and duration.
func (m Model) renderRecordRow(rec transcript.Record, selected bool) string {
	s := m.styles
	titleWidth := max(12, m.width-48)

	prefix := "  "
	title := truncateToWidth(rec.Title, titleWidth)
	if selected {
		prefix = s.Selected.Render("▸ ")
		title = s.Selected.Render(title)
	} else {
		title = s.Text.Render(title)
	}

	date := rec.Date
	if t := rec.CreatedAt(); !t.IsZero() {
		date = humanize.Time(t)
	}
	meta := s.Dim.Render(padRight(date, 16))
	if rec.Duration != "" {
		meta += " " + s.Dim.Render(rec.Duration)
	}

	return prefix + padRight(title, titleWidth) + " " + padRight(s.StatusBadge(rec.Status), 14) + " " + meta
}
