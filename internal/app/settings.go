package app

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voicevista/voicevista/internal/api"
	"github.com/voicevista/voicevista/internal/config"
	"github.com/voicevista/voicevista/internal/theme"
)

const (
	settingName = iota
	settingEmail
	settingLanguage
	settingDiarization
	settingExport
	settingAvatar
	settingTheme
	settingSave
	settingCount
)

// settingsState is the editable copy of the profile on the settings page.
type settingsState struct {
	name        field
	email       field
	avatarInput field
	avatarURL   string
	settings    api.Settings

	focus   int
	editing bool
	backup  string

	dirty           bool
	saving          bool
	uploadingAvatar bool
}

func newSettingsState(u api.User) settingsState {
	st := settingsState{
		name:        newField("Name", false),
		email:       newField("Email", false),
		avatarInput: newField("Avatar", false),
		avatarURL:   u.AvatarURL,
		settings:    u.EffectiveSettings(),
	}
	st.name.SetValue(u.Name)
	st.email.SetValue(u.Email)
	return st
}

// editingField returns the text field under focus, if the focused item is
// one.
func (st *settingsState) editingField() *field {
	switch st.focus {
	case settingName:
		return &st.name
	case settingEmail:
		return &st.email
	case settingAvatar:
		return &st.avatarInput
	}
	return nil
}

func cycle(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	if len(options) == 0 {
		return current
	}
	return options[0]
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	st := &m.settings

	if st.editing {
		f := st.editingField()
		switch key {
		case KeyEsc:
			f.SetValue(st.backup)
			st.editing = false
			return m, nil
		case KeyEnter:
			st.editing = false
			if st.focus == settingAvatar {
				return m.uploadAvatar()
			}
			if f.Value() != st.backup {
				st.dirty = true
			}
			return m, nil
		}
		f.handleKey(msg)
		return m, nil
	}

	switch key {
	case KeyDown, KeyJ, KeyTab:
		st.focus = (st.focus + 1) % settingCount
	case KeyUp, KeyK, KeyShiftTab:
		st.focus = (st.focus - 1 + settingCount) % settingCount
	case KeySaveSetting:
		return m.saveSettings()
	case KeyEnter, KeySpace:
		switch st.focus {
		case settingName, settingEmail, settingAvatar:
			f := st.editingField()
			st.backup = f.Value()
			st.editing = true
		case settingLanguage:
			st.settings.TranscriptionLanguage = cycle(api.TranscriptionLanguages, st.settings.TranscriptionLanguage)
			st.dirty = true
		case settingDiarization:
			st.settings.VoiceDiarization = !st.settings.VoiceDiarization
			st.dirty = true
		case settingExport:
			st.settings.ExportFormat = cycle(api.ExportFormats, st.settings.ExportFormat)
			st.dirty = true
		case settingTheme:
			return m, toggleThemeCmd(m.deps.Theme)
		case settingSave:
			return m.saveSettings()
		}
	}
	return m, nil
}

func (m Model) saveSettings() (tea.Model, tea.Cmd) {
	st := &m.settings
	if st.saving {
		return m, nil
	}
	name, email := st.name.Value(), st.email.Value()
	if name == "" || email == "" {
		return m, m.setError("Name and email are required.")
	}
	st.saving = true
	return m, saveSettingsCmd(m.ctx, m.deps.Client, m.deps.Session, name, email, st.settings)
}

func (m Model) uploadAvatar() (tea.Model, tea.Cmd) {
	st := &m.settings
	if st.avatarInput.Value() == "" || st.uploadingAvatar {
		return m, nil
	}
	path, err := config.ExpandPath(st.avatarInput.Value())
	if err != nil {
		return m, m.setErr(err)
	}
	if _, err := api.CheckAvatarFile(path); err != nil {
		switch {
		case errors.Is(err, api.ErrNotImage):
			return m, m.setError("Please select an image file.")
		case errors.Is(err, api.ErrAvatarTooLarge):
			return m, m.setError("File size must be less than 5MB.")
		}
		return m, m.setErr(err)
	}
	st.uploadingAvatar = true
	return m, avatarCmd(m.ctx, m.deps.Client, m.deps.Session, path)
}

func (m Model) viewSettings() string {
	s := m.styles
	st := m.settings
	var b strings.Builder

	b.WriteString(s.PanelTitle.Render("Settings"))
	b.WriteString("\n\n")

	row := func(i int, content string) {
		prefix := "  "
		if st.focus == i {
			prefix = s.Selected.Render("▸ ")
		}
		b.WriteString(prefix + content + "\n")
	}
	value := func(label, v string) string {
		return s.Label.Render(label) + s.Text.Render(v)
	}

	b.WriteString(s.Header.Render("Profile"))
	b.WriteString("\n")
	row(settingName, st.name.view(s, st.editing && st.focus == settingName))
	row(settingEmail, st.email.view(s, st.editing && st.focus == settingEmail))

	avatar := "none"
	if st.avatarURL != "" {
		avatar = m.deps.Client.AvatarURL(st.avatarURL)
	}
	b.WriteString("  " + s.Dim.Render(padRight("Current avatar", 14)+avatar) + "\n")
	avatarRow := st.avatarInput.view(s, st.editing && st.focus == settingAvatar)
	if st.uploadingAvatar {
		avatarRow += " " + s.Spinner.Render("uploading...")
	}
	b.WriteString("\n")

	b.WriteString(s.Header.Render("Transcription"))
	b.WriteString("\n")
	row(settingLanguage, value("Language", st.settings.TranscriptionLanguage))
	diarization := "Off"
	if st.settings.VoiceDiarization {
		diarization = "On"
	}
	row(settingDiarization, value("Diarization", diarization))
	row(settingExport, value("Export format", strings.ToUpper(st.settings.ExportFormat)))
	b.WriteString("\n")

	b.WriteString(s.Header.Render("Account"))
	b.WriteString("\n")
	row(settingAvatar, avatarRow)
	row(settingTheme, value("Theme", themeLabel(m.deps.Theme.Mode())))
	save := "[ Save changes ]"
	if st.saving {
		save = "Saving..."
	} else if st.dirty {
		save = "[ Save changes* ]"
	}
	row(settingSave, s.ThemeToggle.Render(save))

	if m.profileLoaded && m.profile.CreatedAt != "" {
		b.WriteString("\n")
		b.WriteString(s.Dim.Render(fmt.Sprintf("Member since %s", m.profile.CreatedAt)))
	}
	return b.String()
}

func themeLabel(mode theme.Mode) string {
	if mode == theme.Dark {
		return "Dark"
	}
	return "Light"
}
