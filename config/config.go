package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTickRate  = 60
	DefaultArena     = "arena.yaml"
	DefaultPrefabDir = "prefabs"
)

// Config holds process-level settings. Gameplay tuning lives in prefabs.
type Config struct {
	TickRate  int    `yaml:"tick_rate"`
	Seed      int64  `yaml:"seed"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Arena     string `yaml:"arena"`
	PrefabDir string `yaml:"prefab_dir"`
	HotReload bool   `yaml:"hot_reload"`
	MaxTicks  int    `yaml:"max_ticks"`
}

func Default() Config {
	return Config{
		TickRate:  DefaultTickRate,
		Seed:      1,
		LogLevel:  "info",
		LogFormat: "text",
		Arena:     DefaultArena,
		PrefabDir: DefaultPrefabDir,
		MaxTicks:  60 * DefaultTickRate,
	}
}

// Load reads path if it exists, fills defaults and applies environment
// overrides. An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	// derived from the final tick rate unless the file sets it
	cfg.MaxTicks = 0
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Step is the fixed simulation step in seconds.
func (c Config) Step() float64 {
	if c.TickRate <= 0 {
		return 1.0 / DefaultTickRate
	}
	return 1.0 / float64(c.TickRate)
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.TickRate <= 0 {
		c.TickRate = def.TickRate
	}
	if c.Arena == "" {
		c.Arena = def.Arena
	}
	if c.PrefabDir == "" {
		c.PrefabDir = def.PrefabDir
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.MaxTicks <= 0 {
		c.MaxTicks = 60 * c.TickRate
	}
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("RPGCORE_SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: RPGCORE_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v, ok := os.LookupEnv("RPGCORE_TICK_RATE"); ok {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: RPGCORE_TICK_RATE: %w", err)
		}
		c.TickRate = rate
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	return nil
}
