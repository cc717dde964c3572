// Package config loads the bot's configuration: the shared core sections plus
// storage and game settings.
package config

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/potzbot/core/config"
	coredatabase "github.com/m3rciful/potzbot/core/database"
)

const (
	defaultMaxCalls      = 20
	defaultWindowSeconds = 60
)

// GameConfig tunes the game itself.
type GameConfig struct {
	// MaxCalls per chat inside the window; negative disables the limit.
	MaxCalls      int               `yaml:"max_calls" envconfig:"GAME_MAX_CALLS"`
	WindowSeconds int               `yaml:"window_seconds" envconfig:"GAME_WINDOW_SECONDS"`
	Items         []string          `yaml:"items"`
	Spelling      map[string]string `yaml:"spelling"`
	Privacy       string            `yaml:"privacy"`
}

// Window returns the rate-limit window.
func (g GameConfig) Window() time.Duration {
	return time.Duration(g.WindowSeconds) * time.Second
}

// Config is the full bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Game     GameConfig          `yaml:"game"`
}

// CoreConfig exposes the embedded core section.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Config }

// Load reads .env, then the YAML file at path with environment overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	if err := coreconfig.LoadDotEnv(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates every section and fills game defaults.
func Normalize(cfg *Config) error {
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}
	if err := cfg.Database.Normalize(); err != nil {
		return err
	}

	g := &cfg.Game
	switch {
	case g.MaxCalls == 0:
		g.MaxCalls = defaultMaxCalls
	case g.MaxCalls < 0:
		g.MaxCalls = 0
	}
	if g.WindowSeconds < 0 {
		return fmt.Errorf("game.window_seconds must be >= 0")
	}
	if g.WindowSeconds == 0 {
		g.WindowSeconds = defaultWindowSeconds
	}
	items := g.Items[:0]
	for _, it := range g.Items {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	g.Items = items
	g.Privacy = strings.TrimSpace(g.Privacy)
	return nil
}
