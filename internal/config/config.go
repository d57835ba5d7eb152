// Package config loads the cubr YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/cubr/internal/capture"
	"github.com/SeamusWaldron/cubr/internal/engine"
)

// Config is the full cubr configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Capture CaptureConfig `yaml:"capture"`
	Solver  SolverConfig  `yaml:"solver"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Storage StorageConfig `yaml:"storage"`
}

// EngineConfig holds move dispatch settings.
type EngineConfig struct {
	Speed            int     `yaml:"speed"`
	MovesPerTick     int     `yaml:"moves_per_tick"`
	TurnAcceleration float64 `yaml:"turn_acceleration"`
	TickMs           int     `yaml:"tick_ms"`
	ShuffleLength    int     `yaml:"shuffle_length"`
}

// CaptureConfig holds the sampling grid for face images.
type CaptureConfig struct {
	FrameWidth int   `yaml:"frame_width"`
	OriginX    int   `yaml:"origin_x"`
	OriginY    int   `yaml:"origin_y"`
	RegionSize int   `yaml:"region_size"`
	Seed       int64 `yaml:"seed"`
}

// SolverConfig holds the external solver endpoint.
type SolverConfig struct {
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogPath string `yaml:"log_path,omitempty"`
}

// StorageConfig holds the database location.
type StorageConfig struct {
	DBPath string `yaml:"db_path,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	s := engine.DefaultSettings()
	g := capture.DefaultGrid()
	return &Config{
		Engine: EngineConfig{
			Speed:            s.DefaultSpeed,
			MovesPerTick:     s.DefaultMovesPerTick,
			TurnAcceleration: s.TurnAcceleration,
			TickMs:           int(s.TickInterval / time.Millisecond),
			ShuffleLength:    25,
		},
		Capture: CaptureConfig{
			FrameWidth: g.FrameWidth,
			OriginX:    g.OriginX,
			OriginY:    g.OriginY,
			RegionSize: g.RegionSize,
			Seed:       1,
		},
		Solver: SolverConfig{
			URL:       "http://localhost:8080/solve",
			TimeoutMs: 10000,
		},
		Server: ServerConfig{
			Addr: ":3000",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.cubr/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cubr", "config.yaml"), nil
}

// Load reads the configuration at path. Fields missing from the file keep
// their defaults. A missing file yields the defaults when allowMissing is
// set.
func Load(path string, allowMissing bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file '%s': %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise fail later.
func (c *Config) Validate() error {
	if c.Engine.Speed < 0 || c.Engine.Speed > engine.MaxSpeed {
		return fmt.Errorf("engine.speed must be in [0, %d], got %d", engine.MaxSpeed, c.Engine.Speed)
	}
	if c.Engine.MovesPerTick < 1 {
		return fmt.Errorf("engine.moves_per_tick must be positive, got %d", c.Engine.MovesPerTick)
	}
	if c.Engine.TurnAcceleration <= 0 {
		return fmt.Errorf("engine.turn_acceleration must be positive, got %v", c.Engine.TurnAcceleration)
	}
	if c.Engine.TickMs < 1 {
		return fmt.Errorf("engine.tick_ms must be positive, got %d", c.Engine.TickMs)
	}
	if c.Engine.ShuffleLength < 0 {
		return fmt.Errorf("engine.shuffle_length must not be negative, got %d", c.Engine.ShuffleLength)
	}
	if c.Capture.RegionSize < 1 || c.Capture.FrameWidth < 1 {
		return fmt.Errorf("capture.frame_width and capture.region_size must be positive")
	}
	if c.Solver.URL == "" {
		return fmt.Errorf("missing required field in config: solver.url")
	}
	return nil
}

// EngineSettings converts the engine section into engine settings.
func (c *Config) EngineSettings() engine.Settings {
	s := engine.DefaultSettings()
	s.Speed = c.Engine.Speed
	s.DefaultSpeed = c.Engine.Speed
	s.MovesPerTick = c.Engine.MovesPerTick
	s.DefaultMovesPerTick = c.Engine.MovesPerTick
	s.TurnAcceleration = c.Engine.TurnAcceleration
	s.TickInterval = time.Duration(c.Engine.TickMs) * time.Millisecond
	return s
}

// Grid converts the capture section into a sampling grid.
func (c *Config) Grid() capture.Grid {
	return capture.Grid{
		FrameWidth: c.Capture.FrameWidth,
		OriginX:    c.Capture.OriginX,
		OriginY:    c.Capture.OriginY,
		RegionSize: c.Capture.RegionSize,
	}
}

// SolverTimeout returns the solver timeout as a duration.
func (c *Config) SolverTimeout() time.Duration {
	return time.Duration(c.Solver.TimeoutMs) * time.Millisecond
}
