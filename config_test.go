package main

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Threshold != 0.8 {
		t.Errorf("Threshold = %v, want 0.8", cfg.Threshold)
	}
	if cfg.KeyDelay != 5 {
		t.Errorf("KeyDelay = %d, want 5", cfg.KeyDelay)
	}
	if cfg.quitKey() != 'q' {
		t.Errorf("quitKey = %d, want 'q'", cfg.quitKey())
	}
	if cfg.boxColor() != (color.RGBA{0, 255, 0, 0}) {
		t.Errorf("boxColor = %v, want green", cfg.boxColor())
	}
	if cfg.Suppress {
		t.Error("suppression should be off by default")
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "livematch.yaml", `
device: 0
templates: icons
threshold: 0.75
thresholds:
  logo: 0.9
suppress: true
overlap: 0.5
window_name: Live
box_color: [255, 0, 0]
box_thickness: 3
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Device != 0 || cfg.TemplateDir != "icons" || cfg.WindowName != "Live" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.Suppress || cfg.Overlap != 0.5 || cfg.BoxThickness != 3 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.thresholdFor("logo") != 0.9 {
		t.Errorf("logo threshold = %v, want 0.9", cfg.thresholdFor("logo"))
	}
	if cfg.thresholdFor("other") != 0.75 {
		t.Errorf("default threshold = %v, want 0.75", cfg.thresholdFor("other"))
	}
	if cfg.boxColor() != (color.RGBA{255, 0, 0, 0}) {
		t.Errorf("boxColor = %v, want red", cfg.boxColor())
	}
	// not in the file
	if cfg.KeyDelay != 5 || cfg.QuitKey != "q" {
		t.Errorf("defaults lost: key_delay %d, quit_key %q", cfg.KeyDelay, cfg.QuitKey)
	}
}

func TestLoadConfigINI(t *testing.T) {
	path := writeConfig(t, "livematch.ini", `
device = 2
templates = icons
threshold = 0.7
watch = true
quit_key = x
box_color = 0, 0, 255

[thresholds]
logo = 0.95
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Device != 2 || cfg.TemplateDir != "icons" || !cfg.Watch {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Threshold != 0.7 {
		t.Errorf("Threshold = %v, want 0.7", cfg.Threshold)
	}
	if cfg.thresholdFor("logo") != 0.95 {
		t.Errorf("logo threshold = %v, want 0.95", cfg.thresholdFor("logo"))
	}
	if cfg.quitKey() != 'x' {
		t.Errorf("quitKey = %d, want 'x'", cfg.quitKey())
	}
	if cfg.boxColor() != (color.RGBA{0, 0, 255, 0}) {
		t.Errorf("boxColor = %v, want blue", cfg.boxColor())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"threshold too high", "c.yaml", "threshold: 1.5\n"},
		{"template threshold", "c.yaml", "thresholds:\n  logo: -2\n"},
		{"blocking key delay", "c.yaml", "key_delay: 0\n"},
		{"long quit key", "c.yaml", "quit_key: qq\n"},
		{"short color", "c.yaml", "box_color: [1, 2]\n"},
		{"color range", "c.ini", "box_color = 0, 256, 0\n"},
		{"thin box", "c.ini", "box_thickness = 0\n"},
		{"overlap", "c.yaml", "suppress: true\noverlap: 0\n"},
		{"no templates", "c.yaml", "templates: \"\"\n"},
		{"bad yaml", "c.yaml", "device: [\n"},
		{"bad ini threshold", "c.ini", "[thresholds]\nlogo = high\n"},
		{"format", "c.json", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
