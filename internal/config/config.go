package config

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for framegrab.
type Config struct {
	Video         VideoConfig        `yaml:"video"`
	Output        OutputConfig       `yaml:"output"`
	Notifications NotificationConfig `yaml:"notifications"`
	Log           LogConfig          `yaml:"log"`
}

// VideoConfig selects and tunes the decoding backend.
type VideoConfig struct {
	Backend      string   `yaml:"backend"`
	ProbeTimeout Duration `yaml:"probe_timeout"`
}

// OutputConfig controls how frames are written.
type OutputConfig struct {
	PNGCompression string `yaml:"png_compression"`
}

// NotificationConfig controls how the user is told a run finished.
type NotificationConfig struct {
	TerminalBell bool     `yaml:"terminal_bell"`
	BellDebounce Duration `yaml:"bell_debounce"`
}

// LogConfig controls diagnostic logging. An empty File means stderr for
// non-interactive commands and no logging in the TUI.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Duration wraps time.Duration for YAML unmarshalling from strings like "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

var compressionLevels = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"speed":   png.BestSpeed,
	"best":    png.BestCompression,
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Video: VideoConfig{
			Backend:      "ffmpeg",
			ProbeTimeout: Duration{10 * time.Second},
		},
		Output: OutputConfig{
			PNGCompression: "default",
		},
		Notifications: NotificationConfig{
			TerminalBell: true,
			BellDebounce: Duration{5 * time.Second},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config file and merges with defaults.
// Missing file is not an error; defaults are used silently.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads config from a specific path.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Defaults(), fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Validate checks value ranges. Backend names are checked when the backend
// is looked up, since the available set depends on build tags.
func (c Config) Validate() error {
	if c.Video.Backend == "" {
		return fmt.Errorf("video.backend must not be empty")
	}

	pt := c.Video.ProbeTimeout.Duration
	if pt < time.Second || pt > 5*time.Minute {
		return fmt.Errorf("probe_timeout must be between 1s and 5m, got %s", pt)
	}

	if _, ok := compressionLevels[c.Output.PNGCompression]; !ok {
		return fmt.Errorf("png_compression must be one of default, none, speed, best; got %q", c.Output.PNGCompression)
	}

	if c.Notifications.BellDebounce.Duration < 0 {
		return fmt.Errorf("bell_debounce must not be negative, got %s", c.Notifications.BellDebounce)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// Compression returns the configured PNG compression level.
func (c Config) Compression() png.CompressionLevel {
	if level, ok := compressionLevels[c.Output.PNGCompression]; ok {
		return level
	}
	return png.DefaultCompression
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "framegrab", "config.yml")
}
