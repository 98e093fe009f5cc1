package blockade

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of one simulation run.
type Config struct {
	// Seed drives every random draw; 0 picks one from the clock.
	Seed     uint64        `yaml:"seed"`
	TickRate int           `yaml:"tick_rate"`
	Frames   int           `yaml:"frames"`
	LogLevel string        `yaml:"log_level"`
	Terrain  TerrainConfig `yaml:"terrain"`
	Spawn    SpawnConfig   `yaml:"spawn"`
	// EnemyBrain is a behavior tree file; empty uses the built-in tree.
	EnemyBrain string       `yaml:"enemy_brain"`
	Debug      DebugConfig  `yaml:"debug"`
	Input      []InputEvent `yaml:"input"`
}

type TerrainConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

type SpawnConfig struct {
	Period     float32 `yaml:"period"`
	MaxEnemies int     `yaml:"max_enemies"`
}

type DebugConfig struct {
	// URL of the relay the behavior tree dumps are sent to; empty disables
	// the debug session.
	URL       string        `yaml:"url"`
	BakeTime  time.Duration `yaml:"bake_time"`
	QueueSize int           `yaml:"queue_size"`
}

func DefaultConfig() Config {
	return Config{
		TickRate: 60,
		LogLevel: "info",
		Terrain: TerrainConfig{
			X: DefaultTerrainX,
			Y: DefaultTerrainY,
			Z: DefaultTerrainZ,
		},
		Spawn: SpawnConfig{
			Period: DefaultSpawnPeriod,
		},
		Debug: DebugConfig{
			BakeTime:  DefaultBakeTime,
			QueueSize: defaultDotQueue,
		},
	}
}

// LoadConfig decodes YAML over the defaults and validates the result.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

func (c Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %d", c.TickRate))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames must not be negative, got %d", c.Frames))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Terrain.X <= 0 || c.Terrain.Y <= 0 || c.Terrain.Z <= 0 {
		errs = append(errs, fmt.Errorf("terrain size must be positive, got %dx%dx%d", c.Terrain.X, c.Terrain.Y, c.Terrain.Z))
	}
	if c.Spawn.Period <= 0 {
		errs = append(errs, fmt.Errorf("spawn period must be positive, got %v", c.Spawn.Period))
	}
	if c.Spawn.MaxEnemies < 0 {
		errs = append(errs, fmt.Errorf("max_enemies must not be negative, got %d", c.Spawn.MaxEnemies))
	}
	if c.Debug.BakeTime < 0 || c.Debug.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("debug bake_time must not be negative and queue_size must be at least 1"))
	}
	if _, err := NewInputScript(c.Input); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// TickInterval is the wall time between frames.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
