// -- cmd/run.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/greenlight-cli/internal/browser"
	"github.com/xkilldash9x/greenlight-cli/internal/gherkin"
	"github.com/xkilldash9x/greenlight-cli/internal/observability"
	"github.com/xkilldash9x/greenlight-cli/internal/reporting"
	"github.com/xkilldash9x/greenlight-cli/internal/runner"
	"github.com/xkilldash9x/greenlight-cli/internal/suite"
)

func newRunCmd() *cobra.Command {
	var tagFilter string

	runCmd := &cobra.Command{
		Use:   "run [feature files or directories...]",
		Short: "Executes acceptance scenarios from .feature files",
		Long: `Executes every scenario found in the given feature files or directories
(default: ./features). Each scenario runs against a fresh, isolated browser
context; a failing run exits non-zero.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to viper keys so the CLI overrides the file and
			// environment with the right precedence.
			if err := viper.BindPFlag("target.base_url", cmd.Flags().Lookup("base-url")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.slow_mo_ms", cmd.Flags().Lookup("slowmo")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.engine", cmd.Flags().Lookup("browser")); err != nil {
				return err
			}
			if err := viper.BindPFlag("runner.concurrency", cmd.Flags().Lookup("concurrency")); err != nil {
				return err
			}
			return viper.BindPFlag("reports.dir", cmd.Flags().Lookup("reports-dir"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Flags were bound in PreRunE; re-resolve so they take effect.
			resolved, err := configFromViper()
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				paths = []string{"features"}
			}
			features, err := loadFeatures(paths, tagFilter)
			if err != nil {
				return err
			}
			if len(features) == 0 {
				return fmt.Errorf("no feature files found under %v", paths)
			}

			logger.Info("Collected features.",
				zap.Int("features", len(features)),
				zap.String("base_url", resolved.Target.BaseURL),
			)

			reporter, err := reporting.New(resolved.Reports.Dir, resolved.Reports.Screenshots, logger)
			if err != nil {
				return err
			}

			manager, err := browser.NewManager(ctx, logger, resolved)
			if err != nil {
				return err
			}
			defer manager.Close()

			factory := func(ctx context.Context) (*suite.World, func(), error) {
				page, err := manager.NewPage(ctx)
				if err != nil {
					return nil, nil, err
				}
				return suite.NewWorld(page, resolved.Target.BaseURL, logger), page.Close, nil
			}
			diagnose := func(ctx context.Context, w *suite.World, scenario, step string) string {
				shot, err := w.Page.Screenshot(ctx)
				if err != nil {
					logger.Warn("Failed to capture failure screenshot.", zap.Error(err))
					return ""
				}
				ref, err := reporter.AttachScreenshot(scenario, step, shot)
				if err != nil {
					logger.Warn("Failed to store failure screenshot.", zap.Error(err))
					return ""
				}
				return ref
			}

			r := runner.New(suite.NewRegistry(), factory, diagnose, logger)
			r.Concurrency = resolved.Runner.Concurrency

			summary := r.Run(ctx, features)
			reporter.LogSummary(summary)
			if path, err := reporter.WriteRunReport(summary); err != nil {
				logger.Warn("Failed to write run report.", zap.Error(err))
			} else {
				logger.Info("Run report written.", zap.String("path", path))
			}

			if !summary.OK() {
				return fmt.Errorf("%d of %d scenarios failed", summary.Failed(), len(summary.Results))
			}
			return nil
		},
	}

	runCmd.Flags().String("base-url", "", "base URL of the site under test")
	runCmd.Flags().Bool("headless", true, "run the browser headless")
	runCmd.Flags().Int("slowmo", 0, "slow down driver actions by this many milliseconds")
	runCmd.Flags().String("browser", "chromium", "browser engine to run against")
	runCmd.Flags().Int("concurrency", 1, "number of scenarios to run in parallel")
	runCmd.Flags().String("reports-dir", "reports", "directory for run reports and screenshots")
	runCmd.Flags().StringVar(&tagFilter, "tags", "", "only run scenarios carrying this tag")

	return runCmd
}

// loadFeatures parses every .feature file reachable from the given paths,
// applying the optional tag filter at the scenario level.
func loadFeatures(paths []string, tag string) ([]*gherkin.Feature, error) {
	files, err := collectFeatureFiles(paths)
	if err != nil {
		return nil, err
	}

	var features []*gherkin.Feature
	for _, file := range files {
		feature, err := gherkin.ParseFile(file)
		if err != nil {
			return nil, err
		}
		if tag != "" {
			kept := feature.Scenarios[:0:0]
			for _, sc := range feature.Scenarios {
				if sc.HasTag(tag) {
					kept = append(kept, sc)
				}
			}
			feature.Scenarios = kept
		}
		if len(feature.Scenarios) > 0 {
			features = append(features, feature)
		}
	}
	return features, nil
}

// collectFeatureFiles resolves files and directories into a sorted,
// de-duplicated list of .feature files.
func collectFeatureFiles(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %q: %w", path, err)
		}
		if !info.IsDir() {
			if !strings.HasSuffix(path, ".feature") {
				return nil, fmt.Errorf("%q is not a .feature file", path)
			}
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".feature") {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %q: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
