package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Profile fetches the signed-in user including settings.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var u User
	err := c.doJSON(ctx, http.MethodGet, "/api/user/profile", nil, &u)
	return u, err
}

// UpdateProfile saves profile fields and returns the backend's message.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (MessageResponse, error) {
	var resp MessageResponse
	err := c.doJSON(ctx, http.MethodPut, "/api/user/profile", update, &resp)
	return resp, err
}

// Settings returns the signed-in user's settings with defaults applied.
func (c *Client) Settings(ctx context.Context) (Settings, error) {
	u, err := c.Profile(ctx)
	if err != nil {
		return Settings{}, err
	}
	return u.EffectiveSettings(), nil
}

// UpdateSettings saves settings. The profile is fetched first so the PUT
// carries the current name and email alongside the new settings.
func (c *Client) UpdateSettings(ctx context.Context, s Settings) (MessageResponse, error) {
	u, err := c.Profile(ctx)
	if err != nil {
		return MessageResponse{}, err
	}
	return c.UpdateProfile(ctx, ProfileUpdate{Name: u.Name, Email: u.Email, Settings: &s})
}

// UploadAvatar sends an image as the "avatar" multipart field.
func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) (AvatarResponse, error) {
	var resp AvatarResponse
	err := c.doMultipart(ctx, "/api/user/avatar", "avatar", filename, r, &resp)
	return resp, err
}

// UploadAvatarFile opens path and uploads it as the avatar.
func (c *Client) UploadAvatarFile(ctx context.Context, path string) (AvatarResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return AvatarResponse{}, fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()
	return c.UploadAvatar(ctx, filepath.Base(path), f)
}
