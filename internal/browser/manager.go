// File: internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/greenlight-cli/internal/browser/stealth"
	"github.com/xkilldash9x/greenlight-cli/internal/config"
)

// Manager owns the lifecycle of the headless browser process. It is
// acquired once per run; isolated tab contexts for individual scenarios
// are derived from it via NewPage.
type Manager struct {
	logger *zap.Logger
	cfg    *config.Config

	// allocatorCtx manages the browser process. All page contexts derive
	// from it.
	allocatorCtx    context.Context
	allocatorCancel context.CancelFunc

	persona stealth.Persona

	// wg tracks open pages for a graceful shutdown.
	wg sync.WaitGroup
}

// NewManager launches the browser process and verifies it responds. The
// caller must Close the manager when the run is over.
func NewManager(ctx context.Context, logger *zap.Logger, cfg *config.Config) (*Manager, error) {
	m := &Manager{
		logger:  logger.Named("browser_manager"),
		cfg:     cfg,
		persona: stealth.DefaultPersona,
	}
	if err := m.launchBrowser(ctx); err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	return m, nil
}

// launchBrowser prepares allocator options, starts the browser process
// and confirms it is alive with a throwaway navigation.
func (m *Manager) launchBrowser(ctx context.Context) error {
	m.logger.Info("Initializing browser allocator...",
		zap.Bool("headless", m.cfg.Browser.Headless),
		zap.String("engine", m.cfg.Browser.Engine),
	)

	opts := buildAllocatorOptions(m.cfg, m.persona)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	m.allocatorCtx = allocCtx
	m.allocatorCancel = cancel

	testCtx, cancelTest := context.WithTimeout(allocCtx, 30*time.Second)
	defer cancelTest()
	testCtx, cancelTestCtx := chromedp.NewContext(testCtx)
	defer cancelTestCtx()

	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		m.allocatorCancel()
		return fmt.Errorf("browser failed to start or respond: %w", err)
	}

	m.logger.Info("Browser launched successfully and is responsive.")
	return nil
}

// NewPage creates a fully isolated browser context (tab) with the stealth
// persona applied. Pages share no cookies or storage with each other.
func (m *Manager) NewPage(ctx context.Context) (*Page, error) {
	tabCtx, tabCancel := chromedp.NewContext(m.allocatorCtx)

	// Keep the stealth surface consistent before any target navigation.
	if err := chromedp.Run(tabCtx, stealth.Apply(m.persona, m.logger)); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to apply stealth persona: %w", err)
	}

	var limiter *rate.Limiter
	if ms := m.cfg.Browser.SlowMoMs; ms > 0 {
		// Slow motion paces driver actions to at most one per interval,
		// mirroring the slow_mo option of browser automation suites.
		limiter = rate.NewLimiter(rate.Every(time.Duration(ms)*time.Millisecond), 1)
	}

	m.wg.Add(1)
	p := &Page{
		ctx:       tabCtx,
		logger:    m.logger.Named("page"),
		actionTO:  m.cfg.Browser.ActionTimeout,
		navTO:     m.cfg.Browser.NavigationTimeout,
		limiter:   limiter,
		winWidth:  m.cfg.Browser.WindowWidth,
		winHeight: m.cfg.Browser.WindowHeight,
	}
	p.close = func() {
		tabCancel()
		m.wg.Done()
	}

	if err := p.emulateViewport(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// Close waits for open pages to finish and tears the browser process down.
func (m *Manager) Close() {
	m.wg.Wait()
	if m.allocatorCancel != nil {
		m.allocatorCancel()
	}
	m.logger.Info("Browser manager shut down.")
}

// buildAllocatorOptions assembles the browser process flags the same way
// for every run: default options minus automation giveaways, plus
// configuration-driven flags.
func buildAllocatorOptions(cfg *config.Config, persona stealth.Persona) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	// Neutralize the "enable-automation" default; it flips
	// navigator.webdriver and triggers the automation infobar.
	opts = append(opts, chromedp.Flag("enable-automation", false))

	for name, value := range allocatorFlags(cfg) {
		opts = append(opts, chromedp.Flag(name, value))
	}
	opts = append(opts, chromedp.UserAgent(persona.UserAgent))

	return opts
}

// allocatorFlags computes the configuration-driven flag set. Split out
// from option assembly so the mapping stays testable; chromedp options
// are opaque closures once built.
func allocatorFlags(cfg *config.Config) map[string]interface{} {
	flags := map[string]interface{}{
		"headless":                  cfg.Browser.Headless,
		"ignore-certificate-errors": cfg.Browser.IgnoreTLSErrors,
		// Disable the Blink feature used to detect automation
		// (navigator.webdriver).
		"disable-blink-features": "AutomationControlled",
		"disable-extensions":     true,
		"disable-gpu":            cfg.Browser.Headless,
		"window-size":            fmt.Sprintf("%d,%d", cfg.Browser.WindowWidth, cfg.Browser.WindowHeight),
	}

	// Custom arguments from the configuration, e.g. "--proxy-server=...".
	for _, arg := range cfg.Browser.Args {
		parts := strings.SplitN(arg, "=", 2)
		name := strings.TrimPrefix(parts[0], "--")
		if len(parts) == 2 {
			flags[name] = parts[1]
		} else {
			flags[name] = true
		}
	}

	// Flags required for running inside containers (e.g. Docker on Linux).
	if runtime.GOOS == "linux" {
		flags["no-sandbox"] = true
		flags["disable-dev-shm-usage"] = true
		flags["disable-setuid-sandbox"] = true
	}

	return flags
}
