// File: internal/pages/base.go
package pages

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/greenlight-cli/internal/browser"
)

// Driver is the narrow page capability the façades consume. It is
// satisfied by *browser.Page; tests substitute a fake. Every method is
// expected to wait for its target to be actionable before interacting and
// to convert timeout expiry into an ordinary error.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, loc browser.Locator) error
	Click(ctx context.Context, loc browser.Locator) error
	Hover(ctx context.Context, loc browser.Locator) error
	ScrollIntoView(ctx context.Context, loc browser.Locator) error
	ScrollToBottom(ctx context.Context) error
	Text(ctx context.Context, loc browser.Locator) (string, error)
	Title(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
}

var _ Driver = (*browser.Page)(nil)

// BasePage carries the behavior shared by all page façades. Its only
// state is the held driver handle; all side effects are browser-visible.
type BasePage struct {
	drv Driver
	log *zap.Logger
}

// NewBasePage wires a driver and logger into a base page.
func NewBasePage(drv Driver, log *zap.Logger) BasePage {
	return BasePage{drv: drv, log: log}
}

// Navigate loads the given URL.
func (p *BasePage) Navigate(ctx context.Context, url string) error {
	p.log.Debug("Navigating to page.", zap.String("url", url))
	return fail("navigate-to", p.drv.Navigate(ctx, url))
}

// Title reads the current document title.
func (p *BasePage) Title(ctx context.Context) (string, error) {
	title, err := p.drv.Title(ctx)
	if err != nil {
		return "", fail("read-title", err)
	}
	return title, nil
}

// CurrentURL reads the current location.
func (p *BasePage) CurrentURL(ctx context.Context) (string, error) {
	url, err := p.drv.URL(ctx)
	if err != nil {
		return "", fail("read-current-url", err)
	}
	return url, nil
}

// ScrollToBottom scrolls the page to the end of the document.
func (p *BasePage) ScrollToBottom(ctx context.Context) error {
	return fail("scroll-to-bottom", p.drv.ScrollToBottom(ctx))
}

// Screenshot captures a full-page screenshot through the driver. Used by
// the diagnostic path; failures here must not mask the original failure,
// so the caller decides how to handle the error.
func (p *BasePage) Screenshot(ctx context.Context) ([]byte, error) {
	shot, err := p.drv.Screenshot(ctx)
	if err != nil {
		return nil, fail("screenshot", err)
	}
	return shot, nil
}
