package app

import (
	"time"

	"github.com/voicevista/voicevista/internal/api"
	"github.com/voicevista/voicevista/internal/download"
	"github.com/voicevista/voicevista/internal/theme"
	"github.com/voicevista/voicevista/internal/transcript"
)

// LoggedInMsg is sent when a login attempt settles.
type LoggedInMsg struct {
	User api.User
	Err  error
}

// RegisteredMsg is sent when a registration attempt settles.
type RegisteredMsg struct {
	Message string
	Err     error
}

// LoggedOutMsg is sent after the session has been cleared.
type LoggedOutMsg struct {
	Err error
}

// ProfileLoadedMsg carries the signed-in user's profile.
type ProfileLoadedMsg struct {
	User api.User
	Err  error
}

// TranscriptionsLoadedMsg carries an authoritative list fetch. Gen is the
// poll generation that requested it when FromPoll is set.
type TranscriptionsLoadedMsg struct {
	Records  []transcript.Record
	Err      error
	FromPoll bool
	Gen      int
}

// CachedTranscriptionsMsg carries the locally cached list.
type CachedTranscriptionsMsg struct {
	Records   transcript.List
	FetchedAt time.Time
}

// TranscriptionLoadedMsg carries a single record for the result page.
type TranscriptionLoadedMsg struct {
	ID     int64
	Record transcript.Record
	Err    error
}

// PollTickMsg triggers a list refresh while records are processing.
type PollTickMsg struct {
	Gen int
}

// UploadedMsg is sent when an audio upload settles.
type UploadedMsg struct {
	Title    string
	Response api.UploadResponse
	Err      error
}

// DeletedMsg is sent when a single delete settles.
type DeletedMsg struct {
	ID  int64
	Err error
}

// DeletedAllMsg is sent when a delete-all settles.
type DeletedAllMsg struct {
	Err error
}

// DownloadedMsg is sent when a transcript download settles.
type DownloadedMsg struct {
	ID     int64
	Result download.Result
	Err    error
}

// SettingsSavedMsg is sent when the settings page save settles.
type SettingsSavedMsg struct {
	User api.User
	Err  error
}

// AvatarUploadedMsg is sent when an avatar upload settles.
type AvatarUploadedMsg struct {
	User api.User
	Err  error
}

// ThemeChangedMsg is sent after the theme has been toggled and persisted.
type ThemeChangedMsg struct {
	Mode theme.Mode
	Err  error
}

// ClearStatusMsg clears a transient notice or error. Seq guards against
// clearing a newer message.
type ClearStatusMsg struct {
	Seq int
}

// PlayerTickMsg advances the playback position.
type PlayerTickMsg struct {
	Gen int
}
