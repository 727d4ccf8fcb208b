package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Device      int                `yaml:"device"`
	TemplateDir string             `yaml:"templates"`
	Threshold   float32            `yaml:"threshold"`
	Thresholds  map[string]float32 `yaml:"thresholds"` // per template name, overrides Threshold
	Watch       bool               `yaml:"watch"`

	// Greedy non-maximum suppression of overlapping boxes. Off by default,
	// every qualifying pixel gets its own rectangle.
	Suppress bool    `yaml:"suppress"`
	Overlap  float64 `yaml:"overlap"`

	WindowName   string `yaml:"window_name"`
	KeyDelay     int    `yaml:"key_delay"` // milliseconds
	QuitKey      string `yaml:"quit_key"`
	BoxColor     []int  `yaml:"box_color"` // R, G, B
	BoxThickness int    `yaml:"box_thickness"`
}

func DefaultConfig() Config {
	return Config{
		Device:       1,
		TemplateDir:  "map",
		Threshold:    0.8,
		Overlap:      0.3,
		WindowName:   "Frame",
		KeyDelay:     5,
		QuitKey:      "q",
		BoxColor:     []int{0, 255, 0},
		BoxThickness: 2,
	}
}

// LoadConfig reads a YAML or INI file on top of the defaults. The format
// is picked from the file extension.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".ini":
		if err := loadINI(path, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	return cfg, cfg.Validate()
}

func loadINI(path string, cfg *Config) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	section := file.Section("")
	cfg.Device = section.Key("device").MustInt(cfg.Device)
	cfg.TemplateDir = section.Key("templates").MustString(cfg.TemplateDir)
	cfg.Threshold = float32(section.Key("threshold").MustFloat64(float64(cfg.Threshold)))
	cfg.Watch = section.Key("watch").MustBool(cfg.Watch)
	cfg.Suppress = section.Key("suppress").MustBool(cfg.Suppress)
	cfg.Overlap = section.Key("overlap").MustFloat64(cfg.Overlap)
	cfg.WindowName = section.Key("window_name").MustString(cfg.WindowName)
	cfg.KeyDelay = section.Key("key_delay").MustInt(cfg.KeyDelay)
	cfg.QuitKey = section.Key("quit_key").MustString(cfg.QuitKey)
	cfg.BoxThickness = section.Key("box_thickness").MustInt(cfg.BoxThickness)

	if section.HasKey("box_color") {
		rgb, err := section.Key("box_color").StrictInts(",")
		if err != nil {
			return fmt.Errorf("box_color: %w", err)
		}
		cfg.BoxColor = rgb
	}

	if file.HasSection("thresholds") {
		thresholds := file.Section("thresholds")
		cfg.Thresholds = make(map[string]float32, len(thresholds.Keys()))
		for _, key := range thresholds.Keys() {
			v, err := key.Float64()
			if err != nil {
				return fmt.Errorf("threshold for %s: %w", key.Name(), err)
			}
			cfg.Thresholds[key.Name()] = float32(v)
		}
	}

	return nil
}

func (c Config) Validate() error {
	if c.TemplateDir == "" {
		return errors.New("template directory is required")
	}
	if err := validThreshold(c.Threshold); err != nil {
		return err
	}
	for name, t := range c.Thresholds {
		if err := validThreshold(t); err != nil {
			return fmt.Errorf("template %s: %w", name, err)
		}
	}
	if c.Suppress && (c.Overlap <= 0 || c.Overlap > 1) {
		return fmt.Errorf("overlap must be in (0, 1], got %v", c.Overlap)
	}
	if c.WindowName == "" {
		return errors.New("window name is required")
	}
	// WaitKey(0) blocks until a key is pressed
	if c.KeyDelay <= 0 {
		return fmt.Errorf("key delay must be positive, got %d", c.KeyDelay)
	}
	if len(c.QuitKey) != 1 {
		return fmt.Errorf("quit key must be a single character, got %q", c.QuitKey)
	}
	if len(c.BoxColor) != 3 {
		return fmt.Errorf("box color needs 3 components, got %d", len(c.BoxColor))
	}
	for _, v := range c.BoxColor {
		if v < 0 || v > 255 {
			return fmt.Errorf("box color component %d out of range", v)
		}
	}
	if c.BoxThickness < 1 {
		return fmt.Errorf("box thickness must be at least 1, got %d", c.BoxThickness)
	}
	return nil
}

func validThreshold(t float32) error {
	if t <= -1 || t > 1 {
		return fmt.Errorf("threshold must be in (-1, 1], got %v", t)
	}
	return nil
}

func (c Config) thresholdFor(name string) float32 {
	if t, found := c.Thresholds[name]; found {
		return t
	}
	return c.Threshold
}

func (c Config) quitKey() int {
	return int(c.QuitKey[0])
}

func (c Config) boxColor() color.RGBA {
	return color.RGBA{uint8(c.BoxColor[0]), uint8(c.BoxColor[1]), uint8(c.BoxColor[2]), 0}
}
