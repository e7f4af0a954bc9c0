// File: internal/reporting/reporter.go
package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/greenlight-cli/internal/runner"
)

// Reporter is the reporting sink for a suite run: it stores binary
// attachments (failure screenshots) and the final JSON run report under
// the configured reports directory.
type Reporter struct {
	dir         string
	screenshots bool
	logger      *zap.Logger

	mu sync.Mutex
}

// New creates the reports directory layout and returns a reporter.
func New(dir string, screenshots bool, logger *zap.Logger) (*Reporter, error) {
	if err := os.MkdirAll(filepath.Join(dir, "screenshots"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}
	return &Reporter{
		dir:         dir,
		screenshots: screenshots,
		logger:      logger.Named("reporter"),
	}, nil
}

// AttachScreenshot stores a failure screenshot keyed to the scenario and
// failing step, and returns the stored path. Returns "" without error
// when screenshot capture is disabled.
func (r *Reporter) AttachScreenshot(scenario, step string, png []byte) (string, error) {
	if !r.screenshots {
		return "", nil
	}
	name := fmt.Sprintf("%s_%s.png", sanitize(scenario), time.Now().Format("20060102_150405"))
	path := filepath.Join(r.dir, "screenshots", name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	r.logger.Info("Screenshot saved.",
		zap.String("path", path),
		zap.String("scenario", scenario),
		zap.String("failing_step", step),
	)
	return path, nil
}

// WriteRunReport serializes the run summary as JSON into the reports
// directory and returns the report path.
func (r *Reporter) WriteRunReport(summary *runner.Summary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run report: %w", err)
	}
	path := filepath.Join(r.dir, fmt.Sprintf("run_%s.json", summary.RunID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write run report: %w", err)
	}
	return path, nil
}

// LogSummary emits one log line per scenario plus the aggregate verdict.
func (r *Reporter) LogSummary(summary *runner.Summary) {
	for i := range summary.Results {
		res := &summary.Results[i]
		fields := []zap.Field{
			zap.String("status", res.Status.String()),
			zap.Duration("duration", res.Duration),
		}
		if res.Status == runner.Failed {
			fields = append(fields,
				zap.Int("failed_step_index", res.FailedStepIndex),
				zap.String("failed_step", res.FailedStepText),
			)
			if res.Diagnostic != "" {
				fields = append(fields, zap.String("diagnostic", res.Diagnostic))
			}
			r.logger.Error("Scenario: "+res.Scenario, fields...)
			continue
		}
		r.logger.Info("Scenario: "+res.Scenario, fields...)
	}

	verdict := r.logger.Info
	if !summary.OK() {
		verdict = r.logger.Error
	}
	verdict("Run complete.",
		zap.String("run_id", summary.RunID),
		zap.Int("passed", summary.Passed()),
		zap.Int("failed", summary.Failed()),
		zap.Duration("duration", summary.Duration),
	)
}

// sanitize converts a scenario name into a safe file name fragment.
func sanitize(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	const maxLen = 80
	if len(mapped) > maxLen {
		mapped = mapped[:maxLen]
	}
	return mapped
}
