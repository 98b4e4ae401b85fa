package api

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCheckAudioFile(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"a.mp3", "b.WAV", "c.m4a", "d.flac", "e.ogg"} {
		if _, err := CheckAudioFile(writeFile(t, dir, name, 10)); err != nil {
			t.Errorf("CheckAudioFile(%s): %v", name, err)
		}
	}

	if _, err := CheckAudioFile(writeFile(t, dir, "notes.txt", 10)); !errors.Is(err, ErrUnsupportedAudio) {
		t.Errorf("txt err = %v, want ErrUnsupportedAudio", err)
	}
	if _, err := CheckAudioFile(filepath.Join(dir, "missing.mp3")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := CheckAudioFile(dir); err == nil {
		t.Error("directory should fail")
	}
	if _, err := CheckAudioFile(""); err == nil {
		t.Error("empty path should fail")
	}
}

func TestCheckAvatarFile(t *testing.T) {
	dir := t.TempDir()

	info, err := CheckAvatarFile(writeFile(t, dir, "me.png", 2048))
	if err != nil {
		t.Fatalf("CheckAvatarFile: %v", err)
	}
	if got := DescribeFile(info); got != "me.png (2.0 kB)" {
		t.Errorf("DescribeFile = %q", got)
	}

	_, err = CheckAvatarFile(writeFile(t, dir, "me.bmp", 10))
	if !errors.Is(err, ErrNotImage) {
		t.Errorf("bmp err = %v, want ErrNotImage", err)
	}
	if got, want := err.Error(), "not an image file: use PNG, JPG or GIF"; got != want {
		t.Errorf("bmp err = %q, want %q", got, want)
	}
	big := writeFile(t, dir, "big.jpg", MaxAvatarBytes+1)
	if _, err := CheckAvatarFile(big); !errors.Is(err, ErrAvatarTooLarge) {
		t.Errorf("big err = %v, want ErrAvatarTooLarge", err)
	}
}
