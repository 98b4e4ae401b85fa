package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestRegisterThenLogin(t *testing.T) {
	c, _, _ := newTestClient(t)
	ctx := context.Background()

	resp, err := c.Register(ctx, "Bob", "bob@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Message != "New user created!" {
		t.Errorf("Message = %q", resp.Message)
	}
	if _, err := c.Login(ctx, "bob@example.com", "hunter22"); err != nil {
		t.Errorf("Login after register: %v", err)
	}
}

func TestProfileDefaultsAndSettingsUpdate(t *testing.T) {
	c, b, uid := newTestClient(t)
	c.SetToken(b.Token(uid))
	ctx := context.Background()

	u, err := c.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if u.DisplayName() != "Alice" {
		t.Errorf("DisplayName = %q", u.DisplayName())
	}
	s := u.EffectiveSettings()
	if s.TranscriptionLanguage != "English" || !s.VoiceDiarization || s.ExportFormat != "pdf" {
		t.Errorf("settings = %+v, want defaults", s)
	}

	s.TranscriptionLanguage = "Spanish"
	s.VoiceDiarization = false
	if _, err := c.UpdateSettings(ctx, s); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	got, err := c.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if got.TranscriptionLanguage != "Spanish" || got.VoiceDiarization {
		t.Errorf("settings after update = %+v", got)
	}
	stored, _ := b.User(uid)
	if stored.Name != "Alice" || stored.Email != "alice@example.com" {
		t.Errorf("profile clobbered: %+v", stored)
	}
}

func TestUpdateProfile(t *testing.T) {
	c, b, uid := newTestClient(t)
	c.SetToken(b.Token(uid))

	if _, err := c.UpdateProfile(context.Background(), ProfileUpdate{Name: "Alicia"}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	stored, _ := b.User(uid)
	if stored.Name != "Alicia" {
		t.Errorf("Name = %q, want Alicia", stored.Name)
	}
	if stored.Email != "alice@example.com" {
		t.Errorf("Email = %q, want unchanged", stored.Email)
	}
}

func TestUploadAvatar(t *testing.T) {
	c, b, uid := newTestClient(t)
	c.SetToken(b.Token(uid))

	resp, err := c.UploadAvatar(context.Background(), "me.png", strings.NewReader("\x89PNG"))
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	if !strings.HasSuffix(resp.AvatarURL, ".png") {
		t.Errorf("AvatarURL = %q", resp.AvatarURL)
	}

	httpResp, err := http.Get(c.AvatarURL(resp.AvatarURL))
	if err != nil {
		t.Fatalf("GET avatar: %v", err)
	}
	httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		t.Errorf("avatar status = %d, want 200", httpResp.StatusCode)
	}

	reqs := b.RequestsTo(http.MethodPost, "/api/user/avatar")
	if len(reqs) != 1 || reqs[0].FormField != "avatar" {
		t.Errorf("avatar requests = %+v", reqs)
	}
}
