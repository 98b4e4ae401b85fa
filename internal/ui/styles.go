package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/voicevista/voicevista/internal/theme"
	"github.com/voicevista/voicevista/internal/transcript"
)

// Styles are the lipgloss styles for one palette.
type Styles struct {
	Palette theme.Palette

	Title         lipgloss.Style
	Header        lipgloss.Style
	NavItem       lipgloss.Style
	NavItemActive lipgloss.Style
	ThemeToggle   lipgloss.Style
	Text          lipgloss.Style
	Dim           lipgloss.Style
	Selected      lipgloss.Style
	Error         lipgloss.Style
	ErrorText     lipgloss.Style
	Success       lipgloss.Style
	Info          lipgloss.Style
	PanelTitle    lipgloss.Style
	Panel         lipgloss.Style
	DropZone      lipgloss.Style
	DropZoneFocus lipgloss.Style
	Input         lipgloss.Style
	InputFocus    lipgloss.Style
	Label         lipgloss.Style
	FooterKey     lipgloss.Style
	FooterDesc    lipgloss.Style
	Divider       lipgloss.Style
	Spinner       lipgloss.Style
	Badge         lipgloss.Style
}

// NewStyles builds the style set for a palette.
func NewStyles(p theme.Palette) Styles {
	return Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Heading),

		Header: lipgloss.NewStyle().
			Foreground(p.Heading),

		NavItem: lipgloss.NewStyle().
			Foreground(p.Muted),

		NavItemActive: lipgloss.NewStyle().
			Foreground(p.Heading).
			Bold(true).
			Underline(true),

		ThemeToggle: lipgloss.NewStyle().
			Foreground(p.Toggle).
			Bold(true),

		Text: lipgloss.NewStyle().
			Foreground(p.Text),

		Dim: lipgloss.NewStyle().
			Foreground(p.Muted),

		Selected: lipgloss.NewStyle().
			Foreground(p.Heading).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(p.Danger).
			Bold(true),

		ErrorText: lipgloss.NewStyle().
			Foreground(p.Danger),

		Success: lipgloss.NewStyle().
			Foreground(p.Success),

		Info: lipgloss.NewStyle().
			Foreground(p.Heading),

		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Muted).
			Padding(0, 1),

		DropZone: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Muted).
			Padding(0, 1),

		DropZoneFocus: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Heading).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			Foreground(p.Text),

		InputFocus: lipgloss.NewStyle().
			Foreground(p.Heading).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(p.Muted).
			Width(14),

		FooterKey: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),

		FooterDesc: lipgloss.NewStyle().
			Foreground(p.Muted),

		Divider: lipgloss.NewStyle().
			Foreground(p.Muted),

		Spinner: lipgloss.NewStyle().
			Foreground(p.Heading),

		Badge: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),
	}
}

// StatusBadge renders a status label coloured by outcome.
func (s Styles) StatusBadge(status transcript.Status) string {
	color := s.Palette.Muted
	switch status {
	case transcript.StatusCompleted:
		color = s.Palette.Success
	case transcript.StatusProcessing:
		color = s.Palette.Warning
	case transcript.StatusFailed:
		color = s.Palette.Danger
	}
	return s.Badge.Foreground(color).Render(status.Label())
}

// FooterHint renders one "key description" pair.
func (s Styles) FooterHint(key, desc string) string {
	return s.FooterKey.Render(key) + " " + s.FooterDesc.Render(desc)
}
