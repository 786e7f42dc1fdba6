package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings. Every field can be overridden via
// environment variables; defaults match the classic game rules.
type Config struct {
	ListenAddr    string        `env:"LISTEN_ADDR" envDefault:":8080"`
	CatalogSource string        `env:"CATALOG_SOURCE" envDefault:"./data/pokemon_data.json"`
	SpriteDir     string        `env:"SPRITE_DIR" envDefault:"./assets/images/pokemon"`
	TeamCredits   int           `env:"TEAM_CREDITS" envDefault:"200"`
	MaxTeamSize   int           `env:"TEAM_MAX_SIZE" envDefault:"6"`
	RoundDelay    time.Duration `env:"ROUND_DELAY" envDefault:"2s"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TeamCredits < 0 {
		return Config{}, fmt.Errorf("TEAM_CREDITS must not be negative, got %d", cfg.TeamCredits)
	}
	if cfg.MaxTeamSize < 1 {
		return Config{}, fmt.Errorf("TEAM_MAX_SIZE must be at least 1, got %d", cfg.MaxTeamSize)
	}
	return cfg, nil
}
