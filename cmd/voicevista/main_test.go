package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/voicevista/voicevista/internal/testsupport"
)

type cliTestEnv struct {
	backend     *testsupport.Backend
	userID      int64
	configPath  string
	dataDir     string
	downloadDir string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv("VOICEVISTA_API_URL", "")
	t.Setenv("VOICEVISTA_DATA_DIR", "")

	base := t.TempDir()
	b := testsupport.NewBackend(t)
	env := &cliTestEnv{
		backend:     b,
		userID:      b.AddUser("Alice", "alice@example.com", "secret1"),
		configPath:  filepath.Join(base, "config.toml"),
		dataDir:     filepath.Join(base, "data"),
		downloadDir: filepath.Join(base, "downloads"),
	}

	content := fmt.Sprintf(`[api]
base_url = %q

[paths]
data_dir = %q
download_dir = %q

[polling]
interval_seconds = 1

[logging]
level = "debug"
format = "json"
`, b.URL(), env.dataDir, env.downloadDir)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) login(t *testing.T) {
	t.Helper()
	if _, _, err := e.run(t, "", "login", "--email", "alice@example.com", "--password", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func (e *cliTestEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, args, e.configPath, stdin)
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIRequiresLogin(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := env.run(t, "", "list")
	if !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("list error = %v, want %v", err, errNotLoggedIn)
	}
}

func TestCLIRegisterLoginWhoamiLogout(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "", "register", "--name", "Bob", "--email", "bob@example.com", "--password", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(out, "New user created! Please log in to continue.") {
		t.Errorf("register output = %q", out)
	}

	out, _, err = env.run(t, "hunter22\n", "login", "--email", "bob@example.com")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as Bob <bob@example.com>") {
		t.Errorf("login output = %q", out)
	}

	out, _, err = env.run(t, "", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "bob@example.com") || !strings.Contains(out, "expires") {
		t.Errorf("whoami output = %q", out)
	}

	if _, _, err := env.run(t, "", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := env.run(t, "", "whoami"); !errors.Is(err, errNotLoggedIn) {
		t.Errorf("whoami after logout error = %v, want %v", err, errNotLoggedIn)
	}
}

func TestCLIRegisterRejectsShortPassword(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := env.run(t, "", "register", "--name", "Bob", "--email", "bob@example.com", "--password", "abc")
	if err == nil || !strings.Contains(err.Error(), "at least 6 characters") {
		t.Fatalf("register error = %v", err)
	}
	if len(env.backend.RequestsTo("POST", "/api/auth/register")) != 0 {
		t.Error("short password should not reach the backend")
	}
}

func TestCLILoginInvalidCredentials(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := env.run(t, "", "login", "--email", "alice@example.com", "--password", "nope")
	if err == nil || !strings.Contains(err.Error(), "Invalid email or password") {
		t.Fatalf("login error = %v", err)
	}
}

func TestCLIListAndCache(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)
	env.backend.AddRecord(env.userID, testsupport.Record{Title: "alpha.wav", Status: "completed"})
	env.backend.AddRecord(env.userID, testsupport.Record{Title: "beta.mp3"})

	out, _, err := env.run(t, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "alpha.wav") || !strings.Contains(out, "Processing") {
		t.Errorf("list output = %q", out)
	}

	out, _, err = env.run(t, "", "list", "--json", "--status", "completed")
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var recs []map[string]any
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(recs) != 1 || recs[0]["title"] != "alpha.wav" {
		t.Errorf("filtered list = %v", recs)
	}

	env.backend.Close()
	out, _, err = env.run(t, "", "list", "--cached")
	if err != nil {
		t.Fatalf("list --cached: %v", err)
	}
	if !strings.Contains(out, "beta.mp3") || !strings.Contains(out, "Cached") {
		t.Errorf("cached output = %q", out)
	}
}

func TestCLIUploadWait(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)

	path := filepath.Join(t.TempDir(), "interview.mp3")
	if err := os.WriteFile(path, []byte("ID3 audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if len(env.backend.Records(env.userID)) > 0 {
				env.backend.CompleteAll(env.userID)
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
	}()

	out, _, err := env.run(t, "", "upload", path, "--wait")
	<-done
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	for _, want := range []string{"Uploaded interview.mp3", "Transcription started.", "Status: Completed", "completed."} {
		if !strings.Contains(out, want) {
			t.Errorf("upload output missing %q: %q", want, out)
		}
	}
}

func TestCLIUploadRejectsUnsupportedFile(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := env.run(t, "", "upload", path); err == nil {
		t.Fatal("expected unsupported file error")
	}
	if len(env.backend.RequestsTo("POST", "/api/upload")) != 0 {
		t.Error("unsupported file should not be sent")
	}
}

func TestCLIShowAndDownload(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)
	id := env.backend.AddRecord(env.userID, testsupport.Record{Title: "weekly", Status: "completed", Transcript: "all hands", Summary: "sync"})
	pending := env.backend.AddRecord(env.userID, testsupport.Record{Title: "later"})

	out, _, err := env.run(t, "", "show", fmt.Sprint(id))
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "all hands") || !strings.Contains(out, "sync") {
		t.Errorf("show output = %q", out)
	}

	out, _, err = env.run(t, "", "download", fmt.Sprint(id), "--format", "docx", "--lang", "es")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	target := filepath.Join(env.downloadDir, "weekly_transcript.docx")
	if !strings.Contains(out, target) {
		t.Errorf("download output = %q, want path %s", out, target)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("downloaded file missing: %v", err)
	}
	reqs := env.backend.RequestsTo("GET", fmt.Sprintf("/api/transcriptions/%d/download", id))
	if len(reqs) != 1 || !strings.Contains(reqs[0].Query, "format=docx") || !strings.Contains(reqs[0].Query, "lang=es") {
		t.Errorf("download requests = %+v", reqs)
	}

	if _, _, err := env.run(t, "", "download", fmt.Sprint(pending)); err == nil {
		t.Error("downloading a processing record should fail")
	}
	if _, _, err := env.run(t, "", "download", fmt.Sprint(id), "--format", "rtf"); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestCLIDelete(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)
	first := env.backend.AddRecord(env.userID, testsupport.Record{Title: "one"})
	env.backend.AddRecord(env.userID, testsupport.Record{Title: "two"})

	if _, _, err := env.run(t, "", "delete", fmt.Sprint(first)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := len(env.backend.Records(env.userID)); got != 1 {
		t.Errorf("records after delete = %d, want 1", got)
	}

	if _, _, err := env.run(t, "", "delete", fmt.Sprint(first)); err == nil {
		t.Error("deleting a missing record should fail")
	}

	if _, _, err := env.run(t, "", "delete", "--all"); err != nil {
		t.Fatalf("delete --all: %v", err)
	}
	if got := len(env.backend.Records(env.userID)); got != 0 {
		t.Errorf("records after delete --all = %d, want 0", got)
	}
}

func TestCLISettingsAndProfile(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)

	out, _, err := env.run(t, "", "settings")
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if !strings.Contains(out, "English") || !strings.Contains(out, "pdf") {
		t.Errorf("default settings output = %q", out)
	}

	out, _, err = env.run(t, "", "settings", "--language", "spanish", "--diarization=false", "--export-format", "docx")
	if err != nil {
		t.Fatalf("settings update: %v", err)
	}
	if !strings.Contains(out, "saved successfully") {
		t.Errorf("settings update output = %q", out)
	}
	u, _ := env.backend.User(env.userID)
	if u.Settings.TranscriptionLanguage != "Spanish" || u.Settings.VoiceDiarization || u.Settings.ExportFormat != "docx" {
		t.Errorf("backend settings = %+v", u.Settings)
	}

	if _, _, err := env.run(t, "", "settings", "--language", "Klingon"); err == nil {
		t.Error("unsupported language should fail")
	}

	if _, _, err := env.run(t, "", "profile", "--name", "Alice Smith"); err != nil {
		t.Fatalf("profile update: %v", err)
	}
	u, _ = env.backend.User(env.userID)
	if u.Name != "Alice Smith" || u.Email != "alice@example.com" {
		t.Errorf("backend profile = %q <%s>", u.Name, u.Email)
	}
}

func TestCLIAvatar(t *testing.T) {
	env := setupCLITestEnv(t)
	env.login(t)

	path := filepath.Join(t.TempDir(), "me.png")
	if err := os.WriteFile(path, []byte("\x89PNG"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := env.run(t, "", "avatar", path)
	if err != nil {
		t.Fatalf("avatar: %v", err)
	}
	if !strings.Contains(out, "Avatar updated successfully!") || !strings.Contains(out, "/uploads/") {
		t.Errorf("avatar output = %q", out)
	}
}

func TestCLITheme(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "", "theme")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if strings.TrimSpace(out) != "Theme: light" {
		t.Errorf("theme = %q, want light", out)
	}

	if _, _, err := env.run(t, "", "theme", "toggle"); err != nil {
		t.Fatalf("theme toggle: %v", err)
	}
	out, _, _ = env.run(t, "", "theme")
	if strings.TrimSpace(out) != "Theme: dark" {
		t.Errorf("theme after toggle = %q, want dark", out)
	}

	if _, _, err := env.run(t, "", "theme", "sepia"); err == nil {
		t.Error("unknown theme should fail")
	}
}

func TestCLIConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "voicevista", "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("config init output = %q", out)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Error("config init should refuse to overwrite")
	}

	out, _, err = env.run(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, env.backend.URL()) || !strings.Contains(out, "interval_seconds = 1") {
		t.Errorf("config show output = %q", out)
	}
}

func TestCLIAPIURLFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "", "--api-url", "https://vv.example.com/", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "https://vv.example.com") || strings.Contains(out, "vv.example.com/") {
		t.Errorf("config show output = %q", out)
	}
}
