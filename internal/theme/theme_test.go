package theme

import (
	"testing"

	"github.com/voicevista/voicevista/internal/storage"
)

func openKV(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadDefaultsToLight(t *testing.T) {
	kv := openKV(t)
	if got := Load(kv).Mode(); got != Light {
		t.Errorf("Mode = %q, want light", got)
	}

	kv.Set(StorageKey, "sepia")
	if got := Load(kv).Mode(); got != Light {
		t.Errorf("Mode with unknown value = %q, want light", got)
	}
}

func TestTogglePersists(t *testing.T) {
	kv := openKV(t)
	s := Load(kv)

	mode, err := s.Toggle()
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if mode != Dark {
		t.Errorf("Toggle = %q, want dark", mode)
	}
	if got := Load(kv).Mode(); got != Dark {
		t.Errorf("reloaded Mode = %q, want dark", got)
	}

	s.Toggle()
	if got := Load(kv).Mode(); got != Light {
		t.Errorf("reloaded Mode after second toggle = %q, want light", got)
	}
}

func TestPalette(t *testing.T) {
	light := PaletteFor(Light)
	if light.Background != "#ffffff" || light.Text != "#000000" || light.Heading != "#0ea5e9" {
		t.Errorf("light palette = %+v", light)
	}
	dark := PaletteFor(Dark)
	if dark.Background != "#000000" || dark.Text != "#ffffff" || dark.Toggle != "#3abff8" {
		t.Errorf("dark palette = %+v", dark)
	}
	if PaletteFor("other") != light {
		t.Error("unknown mode should use light palette")
	}
}

func TestSetRejectsUnknown(t *testing.T) {
	s := Load(openKV(t))
	if err := s.Set("blue"); err == nil {
		t.Error("Set(blue) should fail")
	}
	if _, err := ParseMode("DARK"); err != nil {
		t.Errorf("ParseMode(DARK): %v", err)
	}
}
