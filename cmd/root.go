// -- cmd/root.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/greenlight-cli/internal/config"
	"github.com/xkilldash9x/greenlight-cli/internal/observability"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "greenlight",
	Short: "Greenlight runs browser-driven acceptance scenarios against a website.",
	Long: `Greenlight executes Given/When/Then feature files against a real browser.
Step lines are matched to registered step definitions, which drive the site
through page objects over the Chrome DevTools Protocol. A failing step stops
its scenario, captures a screenshot, and marks the run red.`,
	// Version is set at build time. See cmd/version.go.
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Runs before any command: resolve config and stand up logging.
		if err := initializeConfig(); err != nil {
			return err
		}

		resolved, err := configFromViper()
		if err != nil {
			// Stand up a fallback logger so the config error is visible.
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "greenlight-cli"})
			return err
		}

		observability.InitializeLogger(resolved.Logger)
		observability.GetLogger().Info("Starting greenlight-cli", zap.String("version", Version))
		return nil
	},
}

// Execute adds all child commands to the root command and runs it under
// a signal-aware context. The process exit status reflects aggregate
// pass/fail.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer observability.Sync()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		observability.Sync()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// initializeConfig reads in the config file and environment variables.
func initializeConfig() error {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("GREENLIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars.
	}
	return nil
}

// configFromViper resolves the configuration from the global viper
// instance. Commands that bind flags in PreRunE call this again in RunE
// so flag overrides take effect with the right precedence.
func configFromViper() (*config.Config, error) {
	return config.NewConfigFromViper(viper.GetViper())
}
