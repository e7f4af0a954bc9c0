// File: internal/pages/blankfactor.go
package pages

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/greenlight-cli/internal/browser"
)

// Control names the interactive elements of the Blankfactor site that
// scenarios refer to by label. Resolving a label to a Control up front
// keeps the locator catalog in one place and makes an unknown label a
// hard error instead of a silent no-op.
type Control int

const (
	ControlIndustriesMenu Control = iota
	ControlLetsGetStarted
)

// ControlFromName maps a scenario-visible label to its control.
func ControlFromName(name string) (Control, error) {
	switch name {
	case "Industries":
		return ControlIndustriesMenu, nil
	case "Let's get started":
		return ControlLetsGetStarted, nil
	default:
		return 0, fmt.Errorf("unknown control %q", name)
	}
}

func (c Control) String() string {
	switch c {
	case ControlIndustriesMenu:
		return "Industries"
	case ControlLetsGetStarted:
		return "Let's get started"
	default:
		return fmt.Sprintf("Control(%d)", int(c))
	}
}

// locator returns the element locator for the control. The switch is
// exhaustive over the declared controls.
func (c Control) locator() browser.Locator {
	switch c {
	case ControlIndustriesMenu:
		return browser.XPath(`//header//a/span[normalize-space(text()) = 'Industries']`)
	case ControlLetsGetStarted:
		return browser.XPath(`//a[normalize-space(text()) = "Let's get started"]`)
	default:
		panic(fmt.Sprintf("no locator for %v", c))
	}
}

// BlankfactorPage is the action surface for the Blankfactor marketing
// site: navigation, the Industries mega-menu, the industry flip tiles and
// the contact call-to-action.
type BlankfactorPage struct {
	BasePage
}

// NewBlankfactorPage creates the page façade over a provisioned driver.
func NewBlankfactorPage(drv Driver, log *zap.Logger) *BlankfactorPage {
	return &BlankfactorPage{BasePage: NewBasePage(drv, log.Named("blankfactor_page"))}
}

func sectionItem(label string) browser.Locator {
	return browser.XPath(fmt.Sprintf(`//*[contains(@class, 'item__title') and text() = '%s']`, label))
}

func tileFront(index int) browser.Locator {
	return browser.XPath(fmt.Sprintf(`(//*[contains(@class, 'flip-card-front')])[%d]`, index))
}

func tileBack(index int) browser.Locator {
	return browser.XPath(fmt.Sprintf(`(//*[contains(@class, 'card-back')])[%d]/div`, index))
}

// HoverOver moves the pointer onto the named control, revealing any
// hover-driven UI such as the mega-menu.
func (p *BlankfactorPage) HoverOver(ctx context.Context, control Control) error {
	p.log.Debug("Hovering over control.", zap.Stringer("control", control))
	return fail("hover-over", p.drv.Hover(ctx, control.locator()))
}

// OpenSection clicks the menu entry with the given label. The menu must
// already be revealed by a prior HoverOver.
func (p *BlankfactorPage) OpenSection(ctx context.Context, label string) error {
	p.log.Debug("Opening menu section.", zap.String("section", label))
	loc := sectionItem(label)
	if err := p.drv.WaitVisible(ctx, loc); err != nil {
		return fail("open-section", err)
	}
	return fail("open-section", p.drv.Click(ctx, loc))
}

// TileBackText reveals the back of the index-th flip tile (1-based) by
// scrolling it into view and hovering it, then returns its revealed text
// trimmed of surrounding whitespace.
func (p *BlankfactorPage) TileBackText(ctx context.Context, index int) (string, error) {
	p.log.Debug("Reading tile back text.", zap.Int("tile", index))
	front := tileFront(index)
	if err := p.drv.ScrollIntoView(ctx, front); err != nil {
		return "", fail("read-tile-back-text", err)
	}
	if err := p.drv.Hover(ctx, front); err != nil {
		return "", fail("read-tile-back-text", err)
	}
	back := tileBack(index)
	if err := p.drv.WaitVisible(ctx, back); err != nil {
		return "", fail("read-tile-back-text", err)
	}
	// The driver trims surrounding whitespace already; the flip animation
	// is the only wait left at this point.
	text, err := p.drv.Text(ctx, back)
	if err != nil {
		return "", fail("read-tile-back-text", err)
	}
	return text, nil
}

// Click clicks the named control.
func (p *BlankfactorPage) Click(ctx context.Context, control Control) error {
	p.log.Debug("Clicking control.", zap.Stringer("control", control))
	return fail("click", p.drv.Click(ctx, control.locator()))
}
