package app

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voicevista/voicevista/internal/api"
	"github.com/voicevista/voicevista/internal/download"
	"github.com/voicevista/voicevista/internal/session"
	"github.com/voicevista/voicevista/internal/theme"
	"github.com/voicevista/voicevista/internal/transcript"
)

const statusTimeout = 5 * time.Second

// loginCmd authenticates and stores the session.
func loginCmd(ctx context.Context, client *api.Client, sess *session.Store, email, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Login(ctx, email, password)
		if err != nil {
			return LoggedInMsg{Err: err}
		}
		if err := sess.Login(resp.Token, resp.User); err != nil {
			return LoggedInMsg{Err: err}
		}
		return LoggedInMsg{User: resp.User}
	}
}

// registerCmd creates an account.
func registerCmd(ctx context.Context, client *api.Client, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Register(ctx, name, email, password)
		if err != nil {
			return RegisteredMsg{Err: err}
		}
		return RegisteredMsg{Message: resp.Message}
	}
}

// logoutCmd clears the session and drops the owner's cached transcriptions.
func logoutCmd(ctx context.Context, sess *session.Store, cache *transcript.Cache, owner string) tea.Cmd {
	return func() tea.Msg {
		if err := sess.Logout(); err != nil {
			return LoggedOutMsg{Err: err}
		}
		if cache != nil && owner != "" {
			if err := cache.Forget(ctx, owner); err != nil {
				return LoggedOutMsg{Err: err}
			}
		}
		return LoggedOutMsg{}
	}
}

// profileCmd fetches the signed-in user's profile.
func profileCmd(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		u, err := client.Profile(ctx)
		return ProfileLoadedMsg{User: u, Err: err}
	}
}

// transcriptionsCmd fetches the full list. Successful fetches refresh the
// local cache.
func transcriptionsCmd(ctx context.Context, client *api.Client, cache *transcript.Cache, owner string, fromPoll bool, gen int) tea.Cmd {
	return func() tea.Msg {
		recs, err := client.Transcriptions(ctx)
		if err == nil && cache != nil && owner != "" {
			// A stale cache only costs a slower first paint.
			_ = cache.Save(ctx, owner, recs)
		}
		return TranscriptionsLoadedMsg{Records: recs, Err: err, FromPoll: fromPoll, Gen: gen}
	}
}

// cachedTranscriptionsCmd loads the local snapshot, if any.
func cachedTranscriptionsCmd(ctx context.Context, cache *transcript.Cache, owner string) tea.Cmd {
	if cache == nil || owner == "" {
		return nil
	}
	return func() tea.Msg {
		l, fetchedAt, ok, err := cache.Load(ctx, owner)
		if err != nil || !ok {
			return nil
		}
		return CachedTranscriptionsMsg{Records: l, FetchedAt: fetchedAt}
	}
}

// transcriptionCmd fetches one record.
func transcriptionCmd(ctx context.Context, client *api.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		rec, err := client.Transcription(ctx, id)
		return TranscriptionLoadedMsg{ID: id, Record: rec, Err: err}
	}
}

// pollTickCmd schedules the next list refresh.
func pollTickCmd(gen int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return PollTickMsg{Gen: gen}
	})
}

// uploadCmd sends an audio file.
func uploadCmd(ctx context.Context, client *api.Client, path, title string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.UploadAudioFile(ctx, path)
		return UploadedMsg{Title: title, Response: resp, Err: err}
	}
}

// deleteCmd deletes one record.
func deleteCmd(ctx context.Context, client *api.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		return DeletedMsg{ID: id, Err: client.DeleteTranscription(ctx, id)}
	}
}

// deleteAllCmd deletes every record.
func deleteAllCmd(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		return DeletedAllMsg{Err: client.DeleteAllTranscriptions(ctx)}
	}
}

// downloadCmd saves a transcript to disk.
func downloadCmd(ctx context.Context, d *download.Downloader, rec transcript.Record, opts transcript.Options) tea.Cmd {
	return func() tea.Msg {
		res, err := d.Download(ctx, rec, opts.Format, opts.Language)
		return DownloadedMsg{ID: rec.ID, Result: res, Err: err}
	}
}

// saveSettingsCmd saves profile fields and then settings, and refreshes the
// cached user.
func saveSettingsCmd(ctx context.Context, client *api.Client, sess *session.Store, name, email string, s api.Settings) tea.Cmd {
	return func() tea.Msg {
		if _, err := client.UpdateProfile(ctx, api.ProfileUpdate{Name: name, Email: email, Settings: &s}); err != nil {
			return SettingsSavedMsg{Err: err}
		}
		if _, err := client.UpdateSettings(ctx, s); err != nil {
			return SettingsSavedMsg{Err: err}
		}
		u, err := client.Profile(ctx)
		if err != nil {
			return SettingsSavedMsg{Err: err}
		}
		if err := sess.UpdateUser(u); err != nil {
			return SettingsSavedMsg{Err: err}
		}
		return SettingsSavedMsg{User: u}
	}
}

// avatarCmd uploads an avatar and stores the new reference on the cached
// user.
func avatarCmd(ctx context.Context, client *api.Client, sess *session.Store, path string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.UploadAvatarFile(ctx, path)
		if err != nil {
			return AvatarUploadedMsg{Err: err}
		}
		u, _ := sess.User()
		u.AvatarURL = resp.AvatarURL
		if err := sess.UpdateUser(u); err != nil {
			return AvatarUploadedMsg{Err: err}
		}
		return AvatarUploadedMsg{User: u}
	}
}

// toggleThemeCmd flips and persists the theme.
func toggleThemeCmd(store *theme.Store) tea.Cmd {
	return func() tea.Msg {
		mode, err := store.Toggle()
		return ThemeChangedMsg{Mode: mode, Err: err}
	}
}

// clearStatusCmd fires after a delay to clear transient messages.
func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

// playerTickCmd advances the player by one second.
func playerTickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return PlayerTickMsg{Gen: gen}
	})
}

func ownerKey(u api.User) string {
	if u.ID == 0 {
		return ""
	}
	return strconv.FormatInt(u.ID, 10)
}
