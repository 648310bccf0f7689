package core

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config for the engine run.
type Config struct {
	Title      string  `toml:"title"`
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	VSync      bool    `toml:"vsync"`
	Scene      string  `toml:"scene"`
	AssetsDir  string  `toml:"assets_dir"`
	LogLevel   string  `toml:"log_level"`
	FovDegrees float32 `toml:"fov_degrees"`
	Overlay    bool    `toml:"overlay"` // scene and filter label in the corner
}

func DefaultConfig() Config {
	return Config{
		Title:      "lumen",
		Width:      640,
		Height:     480,
		VSync:      true,
		Scene:      "quad",
		AssetsDir:  "assets",
		LogLevel:   "info",
		FovDegrees: 45,
		Overlay:    true,
	}
}

// LoadConfig reads a TOML file over DefaultConfig. A missing file is not an
// error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %q: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, fmt.Errorf("config %q: window size %dx%d", path, cfg.Width, cfg.Height)
	}
	return cfg, nil
}
