package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const minimalYAML = `
environment: test
backend:
  type: clickhouse
feed:
  source: rest
  symbols: ["NIFTY"]
engine:
  volume_multiplier: 9
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesEngineDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	// explicit value survives, untouched thresholds fall back
	require.Equal(t, 9.0, c.Engine.VolumeMultiplier)
	require.Equal(t, 20, c.Engine.LookbackPeriods)
	require.Equal(t, 15.0, c.Engine.OIChangeThreshold)
	require.Equal(t, "09:15", c.Engine.MarketOpen)
	require.Equal(t, []float64{100, 500, 1000}, c.Engine.RoundLevels)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
backend:
  type: postgres
feed:
  source: rest
  symbols: ["NIFTY"]
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "backend.type")
}

func TestLoadRejectsUnknownFeedSource(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
backend:
  type: kafka
feed:
  source: carrier-pigeon
  symbols: ["NIFTY"]
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "feed.source")
}

func TestLoadRejectsEmptySymbols(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
backend:
  type: kafka
feed:
  source: rest
`))
	require.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOLS", "NIFTY,BANKNIFTY")
	t.Setenv("BACKEND", "queue")
	t.Setenv("REDIS_ADDR", "redis:6379")

	c, err := LoadWithEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)
	require.Equal(t, []string{"NIFTY", "BANKNIFTY"}, c.Feed.Symbols)
	require.Equal(t, "queue", c.Backend.Type)
	require.Equal(t, "redis:6379", c.Redis.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
