package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, "backtest:\n  horizon: 3d\nprices:\n  provider: yahoo\n"))
	require.NoError(t, err)

	assert.Equal(t, "3d", c.Backtest.Horizon)
	assert.Equal(t, 0.05, c.Backtest.Threshold)
	assert.Equal(t, "YAHOO", c.Prices.Provider)
	assert.Equal(t, 30, c.Window.PadBeforeDays)
	assert.Equal(t, 10, c.Window.PadAfterDays)
	assert.Equal(t, 20*time.Second, c.Prices.Timeout)
	assert.NotEmpty(t, c.Backtest.Sweep)
}

func TestLoadConfigParsesDurations(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, "prices:\n  cache_ttl: 2m\n  timeout: 5s\n"))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, c.Prices.CacheTTL)
	assert.Equal(t, 5*time.Second, c.Prices.Timeout)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"horizon":  "backtest:\n  horizon: 2d\n",
		"provider": "prices:\n  provider: BLOOMBERG\n",
		"csv path": "prices:\n  provider: CSV\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadConfigKeepsExplicitZeroThreshold(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, "backtest:\n  threshold: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Backtest.Threshold)
}
