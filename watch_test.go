package main

import (
	"path/filepath"
	"testing"
	"time"
)

func TestWatchSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := SaveSettings(path, DefaultSettings()); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	events := make(chan interface{}, 16)
	w, err := watchSettings(path, func(data interface{}) { events <- data })
	if err != nil {
		t.Fatalf("watchSettings: %v", err)
	}
	defer w.Close()

	s := DefaultSettings()
	s.SetFontSize(24)
	if err := SaveSettings(path, s); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	// the directory may also report the initial save; wait for the new size
	timeout := time.After(5 * time.Second)
	for {
		select {
		case data := <-events:
			if changed, ok := data.(settingsChanged); ok && changed.settings.FontSizePx == 24 {
				return
			}
		case <-timeout:
			t.Fatal("no settingsChanged event for the new font size")
		}
	}
}

func TestWatchSettingsMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "settings.toml")
	if _, err := watchSettings(path, func(interface{}) {}); err == nil {
		t.Error("expected an error watching a directory that does not exist")
	}
}

func TestWatchSettingsCoalescesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	events := make(chan interface{}, 16)
	w, err := watchSettings(path, func(data interface{}) { events <- data })
	if err != nil {
		t.Fatalf("watchSettings: %v", err)
	}
	defer w.Close()

	s := DefaultSettings()
	for _, size := range fontSizes {
		s.SetFontSize(size)
		if err := SaveSettings(path, s); err != nil {
			t.Fatalf("SaveSettings: %v", err)
		}
	}

	var reloads []Settings
	timeout := time.After(5 * time.Second)
	for len(reloads) == 0 || reloads[len(reloads)-1].FontSizePx != 24 {
		select {
		case data := <-events:
			changed, ok := data.(settingsChanged)
			if !ok {
				t.Fatalf("unexpected event %#v", data)
			}
			reloads = append(reloads, changed.settings)
		case <-timeout:
			t.Fatalf("no reload of the last save, got %+v", reloads)
		}
	}
	// a slow machine may split the burst, but not into one reload per save
	if len(reloads) >= len(fontSizes) {
		t.Errorf("%d saves gave %d reloads", len(fontSizes), len(reloads))
	}
}
