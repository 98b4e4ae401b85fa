package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// Client-side upload limits.
const (
	MaxAudioBytes  = 500 * 1024 * 1024
	MaxAvatarBytes = 5 * 1024 * 1024
)

var (
	audioExtensions  = []string{".mp3", ".wav", ".m4a", ".flac", ".ogg"}
	avatarExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}
)

// Upload validation errors.
var (
	ErrUnsupportedAudio = errors.New("unsupported audio format. Supported formats: MP3, WAV, M4A, FLAC, OGG")
	ErrAudioTooLarge    = errors.New("file too large. Max file size: 500MB")
	ErrNotImage         = errors.New("not an image file: use PNG, JPG or GIF")
	ErrAvatarTooLarge   = errors.New("image too large. Max file size: 5MB")
)

// CheckAudioFile validates a local audio file before upload.
func CheckAudioFile(path string) (os.FileInfo, error) {
	info, err := statRegular(path)
	if err != nil {
		return nil, err
	}
	if !hasExtension(path, audioExtensions) {
		return nil, ErrUnsupportedAudio
	}
	if info.Size() > MaxAudioBytes {
		return nil, ErrAudioTooLarge
	}
	return info, nil
}

// CheckAvatarFile validates a local image before avatar upload.
func CheckAvatarFile(path string) (os.FileInfo, error) {
	info, err := statRegular(path)
	if err != nil {
		return nil, err
	}
	if !hasExtension(path, avatarExtensions) {
		return nil, ErrNotImage
	}
	if info.Size() > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}
	return info, nil
}

// DescribeFile renders "name (size)" for display.
func DescribeFile(info os.FileInfo) string {
	return fmt.Sprintf("%s (%s)", info.Name(), humanize.Bytes(uint64(info.Size())))
}

func statRegular(path string) (os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("no file selected")
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}
	return info, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
