// Package config loads the warzone configuration from an optional file and
// WARZONE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/pkg/warzone"
)

// Config holds all application configuration.
type Config struct {
	Game      GameConfig      `mapstructure:"game"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Spectator SpectatorConfig `mapstructure:"spectator"`
}

// DefaultMaxTurns bounds games whose config does not set game.max_turns. An
// explicit 0 lifts the limit.
const DefaultMaxTurns = 500

// GameConfig holds the rules knobs of the engine.
type GameConfig struct {
	MaxTurns     int     `mapstructure:"max_turns"`
	Seed         int64   `mapstructure:"seed"` // 0 seeds from the clock
	AttackerKill float64 `mapstructure:"attacker_kill"`
	DefenderKill float64 `mapstructure:"defender_kill"`
	AutoExecute  bool    `mapstructure:"auto_execute"`
	MapFile      string  `mapstructure:"map_file"` // Loaded before the first prompt when set
}

// Options converts the game section into engine options.
func (c GameConfig) Options() warzone.Options {
	return warzone.Options{
		MaxTurns:    c.MaxTurns,
		Odds:        warzone.CombatOdds{AttackerKill: c.AttackerKill, DefenderKill: c.DefenderKill},
		Rand:        warzone.NewRand(c.Seed),
		AutoExecute: c.AutoExecute,
	}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	Dev        bool   `mapstructure:"dev"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DatabaseConfig holds the postgres history store settings. An empty URL
// disables history.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds the live snapshot cache settings. An empty URL disables the cache.
type RedisConfig struct {
	URL         string        `mapstructure:"url"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

// SpectatorConfig holds the read-only spectator server settings. An empty
// address disables the server.
type SpectatorConfig struct {
	Addr     string        `mapstructure:"addr"`
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	Origins  string        `mapstructure:"origins"` // Comma-separated
}

// AllowedOrigins splits Origins, dropping blanks.
func (c SpectatorConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads configuration from path (if non-empty) and the environment.
// Environment variables use the WARZONE_ prefix with dots replaced by
// underscores, e.g. WARZONE_GAME_MAX_TURNS.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("game.max_turns", DefaultMaxTurns)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.attacker_kill", warzone.DefaultAttackerKill)
	v.SetDefault("game.defender_kill", warzone.DefaultDefenderKill)
	v.SetDefault("game.auto_execute", true)
	v.SetDefault("game.map_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.dev", false)
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("database.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.snapshot_ttl", "24h")
	v.SetDefault("spectator.addr", "")
	v.SetDefault("spectator.secret", "")
	v.SetDefault("spectator.token_ttl", "12h")
	v.SetDefault("spectator.origins", "*")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("WARZONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the engine or servers cannot run with.
func (c *Config) Validate() error {
	if c.Game.MaxTurns < 0 {
		return fmt.Errorf("game.max_turns must not be negative, got %d", c.Game.MaxTurns)
	}
	odds := warzone.CombatOdds{AttackerKill: c.Game.AttackerKill, DefenderKill: c.Game.DefenderKill}
	if err := odds.Validate(); err != nil {
		return fmt.Errorf("game odds: %w", err)
	}
	if c.Spectator.Addr != "" && c.Spectator.Secret == "" {
		return errors.New("spectator.secret is required when spectator.addr is set")
	}
	return nil
}
