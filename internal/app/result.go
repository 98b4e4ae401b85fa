package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voicevista/voicevista/internal/router"
)

func (m Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == KeyBack || key == KeyEsc {
		return m.navigate(router.PathHistory)
	}
	if !m.resultLoaded || m.resultErr != "" {
		return m, nil
	}

	id := m.result.ID
	switch key {
	case KeyDown, KeyJ:
		m.resultScroll++
	case KeyUp, KeyK:
		if m.resultScroll > 0 {
			m.resultScroll--
		}
	case KeySpace:
		m.player.toggle()
		if m.player.playing {
			return m, playerTickCmd(m.player.gen)
		}
	case KeyLeft:
		m.player.skip(-skipStep)
	case KeyRight:
		m.player.skip(skipStep)
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.player.seek(float64(key[0]-'0') / 10)
	case KeyFormat:
		opts := m.downloadOptions(id)
		opts.Format = opts.Format.Next()
		m.options[id] = opts
	case KeyLanguage:
		opts := m.downloadOptions(id)
		opts.Language = opts.Language.Next()
		m.options[id] = opts
	case KeyDownload:
		return m.startDownload(m.result)
	case KeyDelete:
		m.confirm = &confirmation{kind: confirmDelete, id: id, prompt: "Are you sure you want to delete this transcription?"}
	}
	return m, nil
}

func (m Model) viewResult() string {
	s := m.styles
	if m.resultErr != "" {
		return s.ErrorText.Render(m.resultErr)
	}
	if !m.resultLoaded {
		return s.Dim.Render("Loading transcription...")
	}

	rec := m.result
	textWidth := max(20, min(m.width-4, 100))

	var header []string
	header = append(header, s.PanelTitle.Render(rec.Title)+"  "+s.StatusBadge(rec.Status))
	meta := rec.Date
	if rec.Duration != "" {
		meta += " · " + rec.Duration
	}
	header = append(header, s.Dim.Render(meta))
	header = append(header, m.player.view(s, textWidth))
	if rec.Completed() {
		header = append(header, "Download as "+m.renderOptions(rec.ID))
	}

	var body []string
	body = append(body, s.Header.Render("Summary"))
	body = append(body, wrapText(rec.SummaryText(), textWidth)...)
	body = append(body, "")
	body = append(body, s.Header.Render("Transcript"))
	body = append(body, wrapText(rec.TranscriptText(), textWidth)...)

	height := max(3, m.bodyHeight()-len(header)-1)
	scroll := clamp(m.resultScroll, 0, max(0, len(body)-height))
	end := min(len(body), scroll+height)

	return strings.Join(header, "\n") + "\n\n" + strings.Join(body[scroll:end], "\n")
}
