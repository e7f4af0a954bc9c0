// File: internal/config/config_test.go
package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "https://blankfactor.com/", cfg.Target.BaseURL)
	assert.Equal(t, "chromium", cfg.Browser.Engine)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 15*time.Second, cfg.Browser.ActionTimeout)
	assert.Equal(t, 15*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, 1920, cfg.Browser.WindowWidth)
	assert.Equal(t, 1080, cfg.Browser.WindowHeight)
	assert.Equal(t, 1, cfg.Runner.Concurrency)
	assert.Equal(t, "reports", cfg.Reports.Dir)
	assert.True(t, cfg.Reports.Screenshots)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)

	assert.NoError(t, cfg.Validate())
}

func TestNewConfigFromViperReadsYAML(t *testing.T) {
	yaml := `
target:
  base_url: "https://staging.blankfactor.com/"
browser:
  headless: false
  slow_mo_ms: 250
  action_timeout: 30s
  args:
    - "--proxy-server=http://127.0.0.1:8080"
runner:
  concurrency: 4
reports:
  dir: "out"
  screenshots: false
logger:
  level: debug
`
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.blankfactor.com/", cfg.Target.BaseURL)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 250, cfg.Browser.SlowMoMs)
	assert.Equal(t, 30*time.Second, cfg.Browser.ActionTimeout)
	assert.Equal(t, []string{"--proxy-server=http://127.0.0.1:8080"}, cfg.Browser.Args)
	assert.Equal(t, 4, cfg.Runner.Concurrency)
	assert.Equal(t, "out", cfg.Reports.Dir)
	assert.False(t, cfg.Reports.Screenshots)
	assert.Equal(t, "debug", cfg.Logger.Level)

	// Values the file omits keep their defaults.
	assert.Equal(t, "chromium", cfg.Browser.Engine)
	assert.Equal(t, 15*time.Second, cfg.Browser.NavigationTimeout)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"empty base url", func(c *Config) { c.Target.BaseURL = "" }, "target.base_url"},
		{"unsupported engine", func(c *Config) { c.Browser.Engine = "firefox" }, "not supported"},
		{"zero action timeout", func(c *Config) { c.Browser.ActionTimeout = 0 }, "action_timeout"},
		{"negative navigation timeout", func(c *Config) { c.Browser.NavigationTimeout = -time.Second }, "navigation_timeout"},
		{"negative slowmo", func(c *Config) { c.Browser.SlowMoMs = -1 }, "slow_mo_ms"},
		{"zero concurrency", func(c *Config) { c.Runner.Concurrency = 0 }, "concurrency"},
		{"empty reports dir", func(c *Config) { c.Reports.Dir = "" }, "reports.dir"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestNewConfigFromViperRejectsInvalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("browser.engine", "webkit")

	_, err := NewConfigFromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webkit")
}
