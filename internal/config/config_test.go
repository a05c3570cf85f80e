package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/pkg/warzone"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "WARZONE_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxTurns, cfg.Game.MaxTurns)
	assert.Equal(t, warzone.DefaultAttackerKill, cfg.Game.AttackerKill)
	assert.Equal(t, warzone.DefaultDefenderKill, cfg.Game.DefenderKill)
	assert.True(t, cfg.Game.AutoExecute)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SnapshotTTL)
	assert.Equal(t, 12*time.Hour, cfg.Spectator.TokenTTL)
	assert.Equal(t, "*", cfg.Spectator.Origins)
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)

	content := `
game:
  max_turns: 40
  seed: 7
  attacker_kill: 0.5
  auto_execute: false
  map_file: maps/europe.map
log:
  level: debug
redis:
  url: redis://localhost:6379/1
  snapshot_ttl: 1h
spectator:
  addr: ":8080"
  secret: s3cret
`
	path := filepath.Join(t.TempDir(), "warzone.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Game.MaxTurns)
	assert.Equal(t, int64(7), cfg.Game.Seed)
	assert.Equal(t, 0.5, cfg.Game.AttackerKill)
	assert.Equal(t, warzone.DefaultDefenderKill, cfg.Game.DefenderKill)
	assert.False(t, cfg.Game.AutoExecute)
	assert.Equal(t, "maps/europe.map", cfg.Game.MapFile)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.Equal(t, time.Hour, cfg.Redis.SnapshotTTL)
	assert.Equal(t, ":8080", cfg.Spectator.Addr)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("WARZONE_GAME_MAX_TURNS", "12")
	t.Setenv("WARZONE_LOG_LEVEL", "warn")
	t.Setenv("WARZONE_DATABASE_URL", "postgres://localhost/warzone")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Game.MaxTurns)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "postgres://localhost/warzone", cfg.Database.URL)
}

func TestLoad_ExplicitZeroMaxTurns(t *testing.T) {
	clearEnv(t)
	t.Setenv("WARZONE_GAME_MAX_TURNS", "0")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Game.MaxTurns)
	assert.Equal(t, 0, cfg.Game.Options().MaxTurns)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("odds out of range", func(t *testing.T) {
		t.Setenv("WARZONE_GAME_DEFENDER_KILL", "1.5")
		_, err := Load("")
		assert.ErrorContains(t, err, "defender kill")
	})

	t.Run("spectator without secret", func(t *testing.T) {
		t.Setenv("WARZONE_SPECTATOR_ADDR", ":9000")
		_, err := Load("")
		assert.ErrorContains(t, err, "spectator.secret")
	})

	t.Run("negative max turns", func(t *testing.T) {
		t.Setenv("WARZONE_GAME_MAX_TURNS", "-3")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestGameConfig_Options(t *testing.T) {
	opts := GameConfig{MaxTurns: 5, Seed: 3, AttackerKill: 0.4, DefenderKill: 0.8, AutoExecute: true}.Options()
	assert.Equal(t, 5, opts.MaxTurns)
	assert.Equal(t, warzone.CombatOdds{AttackerKill: 0.4, DefenderKill: 0.8}, opts.Odds)
	assert.NotNil(t, opts.Rand)
	assert.True(t, opts.AutoExecute)
}

func TestSpectatorConfig_AllowedOrigins(t *testing.T) {
	c := SpectatorConfig{Origins: " https://a.example, ,https://b.example "}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins())
	assert.Nil(t, SpectatorConfig{}.AllowedOrigins())
}
