package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voicevista/voicevista/internal/ui"
)

// field is a single-line text input.
type field struct {
	label  string
	value  []rune
	masked bool
}

func newField(label string, masked bool) field {
	return field{label: label, masked: masked}
}

func (f field) Value() string {
	return strings.TrimSpace(string(f.value))
}

func (f *field) SetValue(s string) {
	f.value = []rune(s)
}

// handleKey applies an editing key. It reports whether the key was consumed.
func (f *field) handleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		f.value = append(f.value, msg.Runes...)
		return true
	case tea.KeySpace:
		f.value = append(f.value, ' ')
		return true
	case tea.KeyBackspace:
		if len(f.value) > 0 {
			f.value = f.value[:len(f.value)-1]
		}
		return true
	case tea.KeyCtrlU:
		f.value = f.value[:0]
		return true
	}
	return false
}

func (f field) view(s ui.Styles, focused bool) string {
	text := string(f.value)
	if f.masked {
		text = strings.Repeat("•", len(f.value))
	}
	label := s.Label.Render(f.label)
	if focused {
		return label + s.InputFocus.Render(text+"▌")
	}
	if text == "" {
		return label + s.Dim.Render("…")
	}
	return label + s.Input.Render(text)
}

// form is an ordered set of fields with one focused.
type form struct {
	fields []field
	focus  int
}

func newForm(fields ...field) form {
	return form{fields: fields}
}

func (f form) Value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return f.fields[i].Value()
}

// handleKey routes a key to the form. It reports whether enter was pressed.
func (f *form) handleKey(msg tea.KeyMsg) (submit bool) {
	switch msg.String() {
	case KeyEnter:
		return true
	case KeyTab, KeyDown:
		f.focus = (f.focus + 1) % len(f.fields)
		return false
	case KeyShiftTab, KeyUp:
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
		return false
	}
	f.fields[f.focus].handleKey(msg)
	return false
}

func (f form) view(s ui.Styles) string {
	lines := make([]string, 0, len(f.fields))
	for i, fl := range f.fields {
		lines = append(lines, fl.view(s, i == f.focus))
	}
	return strings.Join(lines, "\n")
}
