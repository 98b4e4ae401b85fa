package app

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voicevista/voicevista/internal/api"
	"github.com/voicevista/voicevista/internal/download"
	"github.com/voicevista/voicevista/internal/router"
	"github.com/voicevista/voicevista/internal/session"
	"github.com/voicevista/voicevista/internal/storage"
	"github.com/voicevista/voicevista/internal/testsupport"
	"github.com/voicevista/voicevista/internal/theme"
	"github.com/voicevista/voicevista/internal/transcript"
)

type testEnv struct {
	backend *testsupport.Backend
	client  *api.Client
	store   *storage.Store
	session *session.Store
	theme   *theme.Store
	dir     string
	userID  int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	b := testsupport.NewBackend(t)
	st, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	client := api.New(b.URL())
	sess := session.New(st, client)
	sess.Restore()

	return &testEnv{
		backend: b,
		client:  client,
		store:   st,
		session: sess,
		theme:   theme.Load(st),
		dir:     t.TempDir(),
		userID:  b.AddUser("Alice", "alice@example.com", "secret1"),
	}
}

func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	u, _ := e.backend.User(e.userID)
	err := e.session.Login(e.backend.Token(e.userID), api.User{ID: u.ID, Name: u.Name, Email: u.Email})
	if err != nil {
		t.Fatalf("session login: %v", err)
	}
}

func (e *testEnv) model(start string) Model {
	return New(Deps{
		Context:        context.Background(),
		Client:         e.client,
		Session:        e.session,
		Theme:          e.theme,
		Downloader:     download.New(e.client, e.dir),
		Cache:          transcript.NewCache(e.store),
		PollInterval:   time.Millisecond,
		DashboardLimit: 20,
		StartPath:      start,
	})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func keyTab() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyTab}
}

// drain runs cmd and any batched commands, collecting the messages that
// arrive quickly. Long ticks such as status clearing are abandoned.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(2 * time.Second):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// apply feeds every message into the model, ignoring follow-up commands.
func apply(m Model, msgs []tea.Msg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func typeText(m Model, s string) Model {
	updated, _ := m.Update(keyRunes(s))
	return updated.(Model)
}

func TestNewModelRedirectsUnauthenticated(t *testing.T) {
	env := newTestEnv(t)
	m := env.model(router.PathHistory)

	if m.Route().Page != router.PageRegister {
		t.Errorf("page = %v, want %v", m.Route().Page, router.PageRegister)
	}
}

func TestNewModelAuthenticatedSkipsAuthPages(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathLogin)

	if m.Route().Page != router.PageDashboard {
		t.Errorf("page = %v, want %v", m.Route().Page, router.PageDashboard)
	}
}

func TestViewWithoutSize(t *testing.T) {
	env := newTestEnv(t)
	m := env.model(router.PathLogin)

	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want %q", got, "Initializing...")
	}
}

func TestViewRendersWithSize(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathRoot)
	m.width = 100
	m.height = 30

	view := m.View()
	for _, want := range []string{"VOICEVISTA", "Welcome back, Alice!", "Drag files here or browse"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	m := env.model(router.PathLogin)

	m = typeText(m, "alice@example.com")
	updated, _ := m.Update(keyTab())
	m = updated.(Model)
	m = typeText(m, "secret1")

	updated, cmd := m.Update(keyEnter())
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected login command")
	}
	m = apply(m, drain(t, cmd))

	if m.Route().Page != router.PageDashboard {
		t.Errorf("page = %v, want %v", m.Route().Page, router.PageDashboard)
	}
	if !env.session.Authenticated() {
		t.Error("session should be authenticated")
	}
	if env.client.Token() == "" {
		t.Error("client should be armed after login")
	}
}

func TestLoginFailureShowsError(t *testing.T) {
	env := newTestEnv(t)
	m := env.model(router.PathLogin)

	m = typeText(m, "alice@example.com")
	updated, _ := m.Update(keyTab())
	m = updated.(Model)
	m = typeText(m, "wrong-password")
	updated, cmd := m.Update(keyEnter())
	m = apply(updated.(Model), drain(t, cmd))

	if m.Route().Page != router.PageLogin {
		t.Errorf("page = %v, want %v", m.Route().Page, router.PageLogin)
	}
	if m.Error() != "Invalid email or password" {
		t.Errorf("error = %q, want %q", m.Error(), "Invalid email or password")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)
	m := env.model(router.PathRegister)

	m = typeText(m, "Bob")
	updated, _ := m.Update(keyTab())
	m = typeText(updated.(Model), "bob@example.com")
	updated, _ = m.Update(keyTab())
	m = typeText(updated.(Model), "abc")

	updated, _ = m.Update(keyEnter())
	m = updated.(Model)

	want := "Password must be at least 6 characters long."
	if m.Error() != want {
		t.Errorf("error = %q, want %q", m.Error(), want)
	}
	if len(env.backend.RequestsTo("POST", "/api/auth/register")) != 0 {
		t.Error("short password should not reach the backend")
	}
}

func TestRegisterSuccessNavigatesToLogin(t *testing.T) {
	env := newTestEnv(t)
	m := env.model(router.PathRegister)

	m = typeText(m, "Bob")
	updated, _ := m.Update(keyTab())
	m = typeText(updated.(Model), "bob@example.com")
	updated, _ = m.Update(keyTab())
	m = typeText(updated.(Model), "hunter22")
	updated, cmd := m.Update(keyEnter())
	m = apply(updated.(Model), drain(t, cmd))

	if m.Route().Page != router.PageLogin {
		t.Errorf("page = %v, want %v", m.Route().Page, router.PageLogin)
	}
	want := "New user created! Please log in to continue."
	if m.Notice() != want {
		t.Errorf("notice = %q, want %q", m.Notice(), want)
	}
}

func TestPollingStartsAndStops(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	env.backend.AddRecord(env.userID, testsupport.Record{Title: "call.mp3"})
	m := env.model(router.PathRoot)

	m = apply(m, drain(t, m.Init()))
	if !m.Polling() {
		t.Fatal("polling should start while a record is processing")
	}

	env.backend.CompleteAll(env.userID)
	updated, cmd := m.Update(PollTickMsg{Gen: m.pollGen})
	m = apply(updated.(Model), drain(t, cmd))

	if m.Polling() {
		t.Error("polling should stop once nothing is processing")
	}
	if got := m.Records()[0].Status; got != transcript.StatusCompleted {
		t.Errorf("status = %q, want %q", got, transcript.StatusCompleted)
	}
}

func TestPollErrorKeepsPolling(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathRoot)

	updated, _ := m.Update(TranscriptionsLoadedMsg{Records: []transcript.Record{{ID: 1, Status: transcript.StatusProcessing}}})
	m = updated.(Model)

	updated, cmd := m.Update(TranscriptionsLoadedMsg{Err: &api.NetworkError{}, FromPoll: true, Gen: m.pollGen})
	m = updated.(Model)
	if !m.Polling() || cmd == nil {
		t.Error("a failed poll should schedule another tick")
	}
	if m.Error() != "" {
		t.Errorf("poll failure should not surface, got %q", m.Error())
	}
}

func TestStalePollTickIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathRoot)

	updated, _ := m.Update(TranscriptionsLoadedMsg{Records: []transcript.Record{{ID: 1, Status: transcript.StatusProcessing}}})
	m = updated.(Model)
	staleGen := m.pollGen

	updated, _ = m.Update(keyRunes(KeyHistory))
	m = updated.(Model)
	if m.Polling() {
		t.Error("leaving the dashboard should stop polling")
	}

	_, cmd := m.Update(PollTickMsg{Gen: staleGen})
	if cmd != nil {
		t.Error("stale tick should not fetch")
	}
}

func TestUploadPrependsProvisionalRecord(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathRoot)
	m.records = transcript.List{{ID: 1, Title: "old.wav", Status: transcript.StatusCompleted}}

	updated, cmd := m.Update(UploadedMsg{Title: "new.mp3", Response: api.UploadResponse{FileID: 42}})
	m = updated.(Model)

	recs := m.Records()
	if len(recs) != 2 || recs[0].ID != 42 {
		t.Fatalf("records = %+v, want id 42 first", recs)
	}
	if !recs[0].Unconfirmed || recs[0].Status != transcript.StatusProcessing {
		t.Errorf("provisional = %+v", recs[0])
	}
	if !m.Polling() || cmd == nil {
		t.Error("upload should start polling")
	}
}

func TestUploadFailureMessage(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathRoot)

	updated, _ := m.Update(UploadedMsg{Err: &api.RequestError{Status: 400, Message: "No audio file provided"}})
	m = updated.(Model)

	want := "File upload failed: No audio file provided"
	if m.Error() != want {
		t.Errorf("error = %q, want %q", m.Error(), want)
	}
}

func TestDashboardUploadEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathRoot)

	path := filepath.Join(t.TempDir(), "meeting.mp3")
	if err := os.WriteFile(path, []byte("ID3 fake audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	updated, _ := m.Update(keyRunes(KeyUpload))
	m = typeText(updated.(Model), path)
	updated, _ = m.Update(keyEnter())
	m = updated.(Model)
	if m.pendingUpload != path {
		t.Fatalf("pendingUpload = %q, want %q", m.pendingUpload, path)
	}

	updated, cmd := m.Update(keyEnter())
	m = apply(updated.(Model), drain(t, cmd))

	if len(m.Records()) != 1 || m.Records()[0].Title != "meeting.mp3" {
		t.Errorf("records = %+v", m.Records())
	}
	if len(env.backend.Records(env.userID)) != 1 {
		t.Error("backend should hold the uploaded record")
	}
}

func TestDashboardRejectsUnsupportedFile(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathRoot)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	updated, _ := m.Update(keyRunes(KeyUpload))
	m = typeText(updated.(Model), path)
	updated, _ = m.Update(keyEnter())
	m = updated.(Model)

	if m.pendingUpload != "" {
		t.Error("unsupported file should not be staged")
	}
	if m.Error() == "" {
		t.Error("expected a validation error")
	}
}

func TestDeleteRemovesOnlyThatRecord(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathHistory)
	m.records = transcript.List{{ID: 1}, {ID: 2}, {ID: 3}}

	updated, _ := m.Update(DeletedMsg{ID: 2})
	m = updated.(Model)

	recs := m.Records()
	if len(recs) != 2 || recs[0].ID != 1 || recs[1].ID != 3 {
		t.Errorf("records = %+v, want ids 1 and 3", recs)
	}
}

func TestDeleteFailureKeepsList(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathHistory)
	m.records = transcript.List{{ID: 1}, {ID: 2}}

	updated, _ := m.Update(DeletedMsg{ID: 2, Err: &api.RequestError{Status: 404, Message: "Transcription not found"}})
	m = updated.(Model)

	if len(m.Records()) != 2 {
		t.Errorf("records = %d, want 2", len(m.Records()))
	}
	if !strings.HasPrefix(m.Error(), "Failed to delete transcription") {
		t.Errorf("error = %q", m.Error())
	}
}

func TestDeleteConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	id := env.backend.AddRecord(env.userID, testsupport.Record{Title: "a.wav", Status: "completed"})
	m := env.model(router.PathHistory)
	m = apply(m, drain(t, m.Init()))

	updated, _ := m.Update(keyRunes(KeyDelete))
	m = updated.(Model)
	if m.confirm == nil {
		t.Fatal("expected confirmation prompt")
	}

	updated, cmd := m.Update(keyRunes(KeyNo))
	m = updated.(Model)
	if m.confirm != nil || cmd != nil {
		t.Error("n should dismiss without deleting")
	}

	updated, _ = m.Update(keyRunes(KeyDelete))
	updated, cmd = updated.(Model).Update(keyRunes(KeyYes))
	m = apply(updated.(Model), drain(t, cmd))

	if _, ok := m.Records().Find(id); ok {
		t.Error("record should be removed after confirming")
	}
	if len(env.backend.Records(env.userID)) != 0 {
		t.Error("backend record should be deleted")
	}
}

func TestDeleteAllClearsList(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathHistory)
	m.records = transcript.List{{ID: 1}, {ID: 2}}

	updated, _ := m.Update(DeletedAllMsg{})
	m = updated.(Model)

	if len(m.Records()) != 0 {
		t.Errorf("records = %d, want 0", len(m.Records()))
	}
}

func TestStaleTranscriptionIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model("/transcription-result/5")

	updated, _ := m.Update(TranscriptionLoadedMsg{ID: 6, Record: transcript.Record{ID: 6, Title: "other"}})
	m = updated.(Model)
	if m.resultLoaded {
		t.Error("response for another id should be ignored")
	}

	updated, _ = m.Update(TranscriptionLoadedMsg{ID: 5, Record: transcript.Record{ID: 5, Title: "mine", Duration: "1:30"}})
	m = updated.(Model)
	if !m.resultLoaded || m.result.Title != "mine" {
		t.Errorf("result = %+v", m.result)
	}
	if m.player.duration != 90*time.Second {
		t.Errorf("player duration = %v, want 1m30s", m.player.duration)
	}
}

func TestResultFallbackText(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model("/transcription-result/5")
	m.width = 100
	m.height = 40

	updated, _ := m.Update(TranscriptionLoadedMsg{ID: 5, Record: transcript.Record{ID: 5, Title: "pending", Status: transcript.StatusProcessing, Transcript: "partial"}})
	view := updated.(Model).View()

	if !strings.Contains(view, transcript.NoTranscript) || !strings.Contains(view, transcript.NoSummary) {
		t.Error("non-completed record should render fallbacks")
	}
	if strings.Contains(view, "partial") {
		t.Error("transcript should not render before completion")
	}
}

func TestDownloadRequiresCompleted(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathHistory)
	m.records = transcript.List{{ID: 1, Title: "a", Status: transcript.StatusProcessing}}

	updated, _ := m.Update(keyRunes(KeyDownload))
	m = updated.(Model)

	want := "Only completed transcriptions can be downloaded."
	if m.Error() != want {
		t.Errorf("error = %q, want %q", m.Error(), want)
	}
	if len(m.downloading) != 0 {
		t.Error("no download should start")
	}
}

func TestDownloadWritesFile(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	id := env.backend.AddRecord(env.userID, testsupport.Record{Title: "standup", Status: "completed", Transcript: "hello", Summary: "greeting"})
	m := env.model(router.PathHistory)
	m = apply(m, drain(t, m.Init()))

	updated, _ := m.Update(keyRunes(KeyFormat))
	m = updated.(Model)
	if got := m.downloadOptions(id).Format; got != transcript.FormatPDF {
		t.Errorf("format = %q, want %q", got, transcript.FormatPDF)
	}

	updated, cmd := m.Update(keyRunes(KeyDownload))
	m = apply(updated.(Model), drain(t, cmd))

	path := filepath.Join(env.dir, "standup_transcript.pdf")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("download content = %q", data)
	}
	if m.downloading[id] {
		t.Error("in-flight flag should clear")
	}
	if !strings.HasPrefix(m.Notice(), "Saved ") {
		t.Errorf("notice = %q", m.Notice())
	}
}

func TestThemeToggle(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathRoot)

	updated, cmd := m.Update(keyRunes(KeyTheme))
	apply(updated.(Model), drain(t, cmd))

	if env.theme.Mode() != theme.Dark {
		t.Errorf("mode = %q, want %q", env.theme.Mode(), theme.Dark)
	}
	v, _, _ := env.store.Get(theme.StorageKey)
	if v != string(theme.Dark) {
		t.Errorf("persisted mode = %q, want %q", v, theme.Dark)
	}
}

func TestLogoutKeepsTheme(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	if err := env.theme.Set(theme.Dark); err != nil {
		t.Fatal(err)
	}
	owner := strconv.FormatInt(env.userID, 10)
	cache := transcript.NewCache(env.store)
	snapshot := transcript.List{{ID: 7, Title: "private.mp3", Status: transcript.StatusCompleted, Transcript: "private words"}}
	if err := cache.Save(context.Background(), owner, snapshot); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	m := env.model(router.PathRoot)
	m.records = transcript.List{{ID: 1}}

	updated, cmd := m.Update(keyRunes(KeyLogout))
	m = apply(updated.(Model), drain(t, cmd))

	if m.Route().Page != router.PageLogin {
		t.Errorf("page = %v, want %v", m.Route().Page, router.PageLogin)
	}
	if env.session.Authenticated() {
		t.Error("session should be cleared")
	}
	if len(m.Records()) != 0 {
		t.Error("records should be cleared on logout")
	}
	if env.theme.Mode() != theme.Dark {
		t.Error("theme should survive logout")
	}
	if got := theme.Load(env.store).Mode(); got != theme.Dark {
		t.Errorf("stored theme = %v, want %v", got, theme.Dark)
	}
	if _, _, ok, err := cache.Load(context.Background(), owner); err != nil || ok {
		t.Errorf("snapshot after logout: ok=%v err=%v, want removed", ok, err)
	}
}

func TestUnauthorizedErrorSuggestsSignIn(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathHistory)

	updated, _ := m.Update(TranscriptionsLoadedMsg{Err: &api.RequestError{Status: 401, Message: "Token has expired!"}})
	m = updated.(Model)
	if want := "Token has expired! " + sessionExpiredHint; m.Error() != want {
		t.Errorf("Error() = %q, want %q", m.Error(), want)
	}

	updated, _ = m.Update(TranscriptionsLoadedMsg{Err: &api.RequestError{Status: 500, Message: "boom"}})
	m = updated.(Model)
	if m.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", m.Error(), "boom")
	}
}

func TestLoginFailureHasNoSessionHint(t *testing.T) {
	env := newTestEnv(t)
	m := env.model(router.PathLogin)

	updated, _ := m.Update(LoggedInMsg{Err: &api.RequestError{Status: 401, Message: "Invalid email or password"}})
	m = updated.(Model)
	if m.Error() != "Invalid email or password" {
		t.Errorf("Error() = %q, want %q", m.Error(), "Invalid email or password")
	}
}

func TestGlobalKeysIgnoredWhileTyping(t *testing.T) {
	env := newTestEnv(t)
	m := env.model(router.PathLogin)

	updated, cmd := m.Update(keyRunes(KeyQuit))
	m = updated.(Model)
	if cmd != nil {
		t.Error("q should be typed, not quit")
	}
	if got := m.loginForm.Value(loginEmail); got != "q" {
		t.Errorf("email = %q, want %q", got, "q")
	}
}

func TestAvatarValidationMessages(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	bmp := filepath.Join(env.dir, "me.bmp")
	if err := os.WriteFile(bmp, []byte("BM"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := env.model(router.PathSettings)
	m.settings.avatarInput.SetValue(bmp)
	updated, cmd := m.uploadAvatar()
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	if want := "Please select an image file."; m.Error() != want {
		t.Errorf("Error() = %q, want %q", m.Error(), want)
	}
	if m.settings.uploadingAvatar {
		t.Error("rejected file should not start an upload")
	}
}

func TestSettingsSave(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	m := env.model(router.PathSettings)
	m = apply(m, drain(t, m.Init()))

	// Move to language and cycle it.
	for i := 0; i < settingLanguage; i++ {
		updated, _ := m.Update(keyRunes(KeyJ))
		m = updated.(Model)
	}
	updated, _ := m.Update(keyEnter())
	m = updated.(Model)
	if m.settings.settings.TranscriptionLanguage != "Spanish" {
		t.Fatalf("language = %q, want Spanish", m.settings.settings.TranscriptionLanguage)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = apply(updated.(Model), drain(t, cmd))

	want := "Your settings have been saved successfully!"
	if m.Notice() != want {
		t.Errorf("notice = %q, want %q", m.Notice(), want)
	}
	u, _ := env.backend.User(env.userID)
	if u.Settings.TranscriptionLanguage != "Spanish" {
		t.Errorf("backend language = %q, want Spanish", u.Settings.TranscriptionLanguage)
	}
	cached, _ := env.session.User()
	if cached.EffectiveSettings().TranscriptionLanguage != "Spanish" {
		t.Error("session user should be refreshed")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("the quick brown fox jumps", 10)
	want := []string{"the quick", "brown fox", "jumps"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	text := "会議の議事録を確認して来週までに共有してください"
	lines := wrapText(text, 10)
	if len(lines) < 2 {
		t.Fatalf("lines = %q, want the sentence split", lines)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 10 {
			t.Errorf("line %d width = %d, want <= 10 (%q)", i, w, line)
		}
	}
	if got := strings.Join(lines, ""); got != text {
		t.Errorf("joined = %q, want %q", got, text)
	}

	lines = wrapText("notes: 会議の議事録を確認", 10)
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 10 {
			t.Errorf("mixed line %d width = %d, want <= 10 (%q)", i, w, line)
		}
	}
}

func TestTruncateToWidth(t *testing.T) {
	if got := truncateToWidth("abcdefgh", 5); got != "abcd…" {
		t.Errorf("truncateToWidth = %q, want %q", got, "abcd…")
	}
	if got := truncateToWidth("abc", 5); got != "abc" {
		t.Errorf("truncateToWidth = %q, want %q", got, "abc")
	}
	got := truncateToWidth("会議のメモを共有します", 10)
	if got != "会議のメ…" {
		t.Errorf("truncateToWidth = %q, want %q", got, "会議のメ…")
	}
	if w := lipgloss.Width(got); w > 10 {
		t.Errorf("truncated width = %d, want <= 10", w)
	}
}
