// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration for a suite run.
// It is assembled once at process start (file, environment, flags) and
// treated as read-only for the life of the run.
type Config struct {
	Target  TargetConfig  `mapstructure:"target" yaml:"target"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Runner  RunnerConfig  `mapstructure:"runner" yaml:"runner"`
	Reports ReportsConfig `mapstructure:"reports" yaml:"reports"`
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
}

// TargetConfig identifies the application under test.
type TargetConfig struct {
	// BaseURL is the root URL every navigation step resolves against.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// BrowserConfig controls the browser engine and per-action behavior.
type BrowserConfig struct {
	// Engine selects the browser binary family. Only "chromium" is
	// supported by the CDP driver; the field exists so a run can fail
	// loudly on an unsupported request instead of silently substituting.
	Engine            string        `mapstructure:"engine" yaml:"engine"`
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors   bool          `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	SlowMoMs          int           `mapstructure:"slow_mo_ms" yaml:"slow_mo_ms"`
	ActionTimeout     time.Duration `mapstructure:"action_timeout" yaml:"action_timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	WindowWidth       int           `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight      int           `mapstructure:"window_height" yaml:"window_height"`
	// Args are extra flags passed verbatim to the browser process,
	// e.g. "--proxy-server=localhost:8080".
	Args []string `mapstructure:"args" yaml:"args"`
}

// RunnerConfig controls scenario scheduling.
type RunnerConfig struct {
	// Concurrency is the number of scenarios executed in parallel, each
	// in its own isolated browser context. Steps within one scenario are
	// always sequential.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// ReportsConfig controls where run artifacts land.
type ReportsConfig struct {
	Dir         string `mapstructure:"dir" yaml:"dir"`
	Screenshots bool   `mapstructure:"screenshots" yaml:"screenshots"`
}

// LoggerConfig defines the logging setup consumed by the observability package.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to terminal colors for the console encoder.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with static defaults, but fail loudly if it does.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Target --
	v.SetDefault("target.base_url", "https://blankfactor.com/")

	// -- Browser --
	v.SetDefault("browser.engine", "chromium")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", true)
	v.SetDefault("browser.slow_mo_ms", 0)
	v.SetDefault("browser.action_timeout", "15s")
	v.SetDefault("browser.navigation_timeout", "15s")
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)

	// -- Runner --
	v.SetDefault("runner.concurrency", 1)

	// -- Reports --
	v.SetDefault("reports.dir", "reports")
	v.SetDefault("reports.screenshots", true)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "greenlight-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")
}

// NewConfigFromViper creates and validates a configuration instance from a
// viper object that has already read its sources.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that would make a run
// impossible or meaningless.
func (c *Config) Validate() error {
	if c.Target.BaseURL == "" {
		return fmt.Errorf("target.base_url must not be empty")
	}
	if c.Browser.Engine != "chromium" {
		return fmt.Errorf("browser.engine %q is not supported (only \"chromium\")", c.Browser.Engine)
	}
	if c.Browser.ActionTimeout <= 0 {
		return fmt.Errorf("browser.action_timeout must be a positive duration")
	}
	if c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be a positive duration")
	}
	if c.Browser.SlowMoMs < 0 {
		return fmt.Errorf("browser.slow_mo_ms must not be negative")
	}
	if c.Runner.Concurrency < 1 {
		return fmt.Errorf("runner.concurrency must be a positive integer")
	}
	if c.Reports.Dir == "" {
		return fmt.Errorf("reports.dir must not be empty")
	}
	return nil
}
