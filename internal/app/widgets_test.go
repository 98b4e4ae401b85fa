package app

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voicevista/voicevista/internal/theme"
	"github.com/voicevista/voicevista/internal/ui"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"1:30", 90 * time.Second, true},
		{"1:02:03", time.Hour + 2*time.Minute + 3*time.Second, true},
		{"45", 45 * time.Second, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1:2:3:4", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseClock(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseClock(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := formatClock(125 * time.Second); got != "2:05" {
		t.Errorf("formatClock = %q, want %q", got, "2:05")
	}
}

func TestPlayerSkipClamps(t *testing.T) {
	p := newPlayer("0:30")

	p.skip(-skipStep)
	if p.position != 0 {
		t.Errorf("position = %v, want 0", p.position)
	}
	p.skip(time.Minute)
	if p.position != 30*time.Second {
		t.Errorf("position = %v, want 30s", p.position)
	}
}

func TestPlayerTickStopsAtEnd(t *testing.T) {
	p := newPlayer("0:02")
	p.toggle()

	if !p.tick() {
		t.Error("first tick should continue")
	}
	if p.tick() {
		t.Error("second tick should reach the end")
	}
	if p.playing {
		t.Error("player should stop at the end")
	}

	gen := p.gen
	p.toggle()
	if p.position != 0 {
		t.Errorf("replay position = %v, want 0", p.position)
	}
	if p.gen == gen {
		t.Error("toggle should bump the generation")
	}
}

func TestPlayerSeek(t *testing.T) {
	p := newPlayer("1:40")
	p.seek(0.5)
	if p.position != 50*time.Second {
		t.Errorf("position = %v, want 50s", p.position)
	}
	p.seek(2)
	if p.position != p.duration {
		t.Errorf("position = %v, want %v", p.position, p.duration)
	}
}

func TestFieldEditing(t *testing.T) {
	f := newField("Password", true)
	f.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	f.handleKey(tea.KeyMsg{Type: tea.KeyBackspace})

	if got := f.Value(); got != "ab" {
		t.Errorf("Value() = %q, want %q", got, "ab")
	}

	s := ui.NewStyles(theme.PaletteFor(theme.Light))
	view := f.view(s, false)
	if strings.Contains(view, "ab") {
		t.Errorf("masked view leaks value: %q", view)
	}
}

func TestFormCyclesFocus(t *testing.T) {
	f := newForm(newField("A", false), newField("B", false))

	if f.handleKey(tea.KeyMsg{Type: tea.KeyTab}) {
		t.Error("tab should not submit")
	}
	if f.focus != 1 {
		t.Errorf("focus = %d, want 1", f.focus)
	}
	f.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if f.focus != 0 {
		t.Errorf("focus = %d, want 0", f.focus)
	}
	if !f.handleKey(tea.KeyMsg{Type: tea.KeyEnter}) {
		t.Error("enter should submit")
	}
}

func TestWindowKeepsCursorVisible(t *testing.T) {
	start, end := window(50, 30, 10)
	if start > 30 || end <= 30 || end-start != 10 {
		t.Errorf("window = [%d, %d), want 10 rows containing 30", start, end)
	}
}
