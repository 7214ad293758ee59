package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/paulmach/orb"
)

// Config holds all user-facing configuration for sagamino.
type Config struct {
	Animation AnimationConfig `toml:"animation"`
	View      ViewConfig      `toml:"view"`
	Catalogue CatalogueConfig `toml:"catalogue"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

type AnimationConfig struct {
	Speed   float64 `toml:"speed"`
	FrameMS int     `toml:"frame_ms"`
}

// BBox is [minLon, minLat, maxLon, maxLat].
type BBox [4]float64

type ViewConfig struct {
	Initial BBox `toml:"initial"`
	Wide    BBox `toml:"wide"`
}

type CatalogueConfig struct {
	Path string `toml:"path"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Animation: AnimationConfig{Speed: 0.5, FrameMS: 16},
		View: ViewConfig{
			Initial: BBox{139.28, 35.44, 139.56, 35.66},
			Wide:    BBox{139.1, 35.2, 140.0, 35.7},
		},
		Server: ServerConfig{Host: "localhost", Port: 8080},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Animation.FrameMS <= 0 {
		errs = append(errs, fmt.Errorf("animation.frame_ms must be positive, got %d", c.Animation.FrameMS))
	}
	if !c.View.Initial.valid() {
		errs = append(errs, fmt.Errorf("view.initial is not a valid bbox: %v", c.View.Initial))
	}
	if !c.View.Wide.valid() {
		errs = append(errs, fmt.Errorf("view.wide is not a valid bbox: %v", c.View.Wide))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (b BBox) valid() bool {
	return b[0] < b[2] && b[1] < b[3] &&
		b[0] >= -180 && b[2] <= 180 && b[1] >= -90 && b[3] <= 90
}

func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b[0], b[1]}, Max: orb.Point{b[2], b[3]}}
}

func (a AnimationConfig) FrameInterval() time.Duration {
	return time.Duration(a.FrameMS) * time.Millisecond
}

// ParseLevel maps debug|info|warn|error to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", s)
}
