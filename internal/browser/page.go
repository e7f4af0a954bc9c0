// File: internal/browser/page.go
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Locator identifies a page element, either by CSS query or by XPath.
type Locator struct {
	Query string
	XPath bool
}

// CSS builds a CSS locator.
func CSS(query string) Locator { return Locator{Query: query} }

// XPath builds an XPath locator.
func XPath(expr string) Locator { return Locator{Query: expr, XPath: true} }

func (l Locator) String() string { return l.Query }

func (l Locator) queryOption() chromedp.QueryOption {
	if l.XPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// Page wraps one isolated browser tab context. Every operation waits for
// its target to reach a usable state before interacting, applies the
// configured bounded timeout, and paces through the slow-motion limiter
// when one is configured. Timeout expiry surfaces as an ordinary wrapped
// error, never a crash.
type Page struct {
	ctx    context.Context
	logger *zap.Logger

	actionTO time.Duration
	navTO    time.Duration
	limiter  *rate.Limiter

	winWidth  int
	winHeight int

	close     func()
	closeOnce sync.Once
}

// Close releases the tab context. Safe to call more than once.
func (p *Page) Close() {
	p.closeOnce.Do(func() {
		if p.close != nil {
			p.close()
		}
	})
}

// run executes driver actions under the given timeout, honoring both the
// caller's context and the slow-motion pacing.
func (p *Page) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	// The tab context carries the chromedp target; the caller's context
	// only contributes cancellation.
	tctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(tctx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (p *Page) emulateViewport(ctx context.Context) error {
	if p.winWidth <= 0 || p.winHeight <= 0 {
		return nil
	}
	err := p.run(ctx, p.actionTO, chromedp.EmulateViewport(int64(p.winWidth), int64(p.winHeight)))
	if err != nil {
		return fmt.Errorf("failed to emulate viewport: %w", err)
	}
	return nil
}

// Navigate loads url and waits for the document body to be ready.
func (p *Page) Navigate(ctx context.Context, url string) error {
	p.logger.Debug("Navigating.", zap.String("url", url))
	err := p.run(ctx, p.navTO,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigate to %q: %w", url, err)
	}
	return nil
}

// WaitVisible blocks until the element is visible or the action timeout
// expires.
func (p *Page) WaitVisible(ctx context.Context, loc Locator) error {
	if err := p.run(ctx, p.actionTO, chromedp.WaitVisible(loc.Query, loc.queryOption())); err != nil {
		return fmt.Errorf("wait for %q to become visible: %w", loc.Query, err)
	}
	return nil
}

// Click waits for the element to be visible and clicks it.
func (p *Page) Click(ctx context.Context, loc Locator) error {
	err := p.run(ctx, p.actionTO,
		chromedp.WaitVisible(loc.Query, loc.queryOption()),
		chromedp.Click(loc.Query, loc.queryOption()),
	)
	if err != nil {
		return fmt.Errorf("click %q: %w", loc.Query, err)
	}
	return nil
}

// Hover moves the mouse to the center of the element via a CDP mouse
// event. CSS :hover state only follows real input events, so this cannot
// be faked with a synthetic DOM event.
func (p *Page) Hover(ctx context.Context, loc Locator) error {
	err := p.run(ctx, p.actionTO,
		chromedp.WaitVisible(loc.Query, loc.queryOption()),
		chromedp.ScrollIntoView(loc.Query, loc.queryOption()),
		chromedp.QueryAfter(loc.Query, func(qctx context.Context, _ cdpruntime.ExecutionContextID, nodes ...*cdp.Node) error {
			if len(nodes) == 0 {
				return fmt.Errorf("selector matched no nodes")
			}
			x, y, err := nodeCenter(qctx, nodes[0].NodeID)
			if err != nil {
				return err
			}
			return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(qctx)
		}, loc.queryOption()),
	)
	if err != nil {
		return fmt.Errorf("hover over %q: %w", loc.Query, err)
	}
	return nil
}

// ScrollIntoView scrolls the element into the viewport.
func (p *Page) ScrollIntoView(ctx context.Context, loc Locator) error {
	err := p.run(ctx, p.actionTO,
		chromedp.WaitVisible(loc.Query, loc.queryOption()),
		chromedp.ScrollIntoView(loc.Query, loc.queryOption()),
	)
	if err != nil {
		return fmt.Errorf("scroll %q into view: %w", loc.Query, err)
	}
	return nil
}

// ScrollToBottom scrolls the window to the end of the document.
func (p *Page) ScrollToBottom(ctx context.Context) error {
	err := p.run(ctx, p.actionTO,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
	)
	if err != nil {
		return fmt.Errorf("scroll to page bottom: %w", err)
	}
	return nil
}

// Text waits for the element to be visible and returns its trimmed text
// content.
func (p *Page) Text(ctx context.Context, loc Locator) (string, error) {
	var text string
	err := p.run(ctx, p.actionTO,
		chromedp.WaitVisible(loc.Query, loc.queryOption()),
		chromedp.Text(loc.Query, &text, loc.queryOption()),
	)
	if err != nil {
		return "", fmt.Errorf("read text of %q: %w", loc.Query, err)
	}
	return strings.TrimSpace(text), nil
}

// Title returns the current document title.
func (p *Page) Title(ctx context.Context) (string, error) {
	var title string
	if err := p.run(ctx, p.actionTO, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("read page title: %w", err)
	}
	return title, nil
}

// URL returns the current location.
func (p *Page) URL(ctx context.Context) (string, error) {
	var loc string
	if err := p.run(ctx, p.actionTO, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("read page url: %w", err)
	}
	return loc, nil
}

// Screenshot captures the full page as PNG.
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := p.run(ctx, p.actionTO, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, nil
}

// nodeCenter resolves the viewport coordinates of a node's content box
// center from its box model.
func nodeCenter(ctx context.Context, id cdp.NodeID) (float64, float64, error) {
	box, err := cdpdom.GetBoxModel().WithNodeID(id).Do(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get element box model: %w", err)
	}
	// Content is a quad: x1,y1,x2,y2,x3,y3,x4,y4.
	if box == nil || len(box.Content) < 8 || box.Width <= 0 || box.Height <= 0 {
		return 0, 0, fmt.Errorf("element has no geometric representation")
	}
	x := (box.Content[0] + box.Content[4]) / 2
	y := (box.Content[1] + box.Content[5]) / 2
	return x, y, nil
}
