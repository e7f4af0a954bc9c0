// File: internal/suite/steps.go
package suite

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/greenlight-cli/internal/gherkin"
	"github.com/xkilldash9x/greenlight-cli/internal/pages"
	"github.com/xkilldash9x/greenlight-cli/internal/stepdef"
)

// NewRegistry builds the step registry for the Blankfactor acceptance
// suite. Registration happens once at process start; a pattern conflict
// here is a programming error and panics immediately.
func NewRegistry() *stepdef.Registry[*World] {
	r := stepdef.NewRegistry[*World]()
	RegisterSteps(r)
	return r
}

// RegisterSteps binds every step pattern of the suite to its handler.
func RegisterSteps(r *stepdef.Registry[*World]) {
	// -- Given --
	r.MustRegister(gherkin.Given, `I navigate to Blankfactor home page`, navigateHome)

	// -- When --
	r.MustRegister(gherkin.When, `I hover over "{menu}" and open the "{section}" section`, hoverAndOpenSection)
	r.MustRegister(gherkin.When, `I copy the text from tile {index:d}`, copyTileText)
	r.MustRegister(gherkin.When, `I scroll to the bottom of the page and click on the "{control}" button`, scrollAndClick)

	// -- Then --
	r.MustRegister(gherkin.Then, `I verify that the page is loaded and the page url is "{url}"`, verifyURL)
	r.MustRegister(gherkin.Then, `I verify the page title is "{title}"`, verifyTitle)
	r.MustRegister(gherkin.Then, `I verify the copied tile text is "{text}"`, verifyCopiedTileText)
}

func navigateHome(ctx context.Context, w *World, _ stepdef.Args) error {
	return w.Page.Navigate(ctx, w.BaseURL)
}

func hoverAndOpenSection(ctx context.Context, w *World, args stepdef.Args) error {
	control, err := pages.ControlFromName(args.String("menu"))
	if err != nil {
		return err
	}
	if err := w.Page.HoverOver(ctx, control); err != nil {
		return err
	}
	return w.Page.OpenSection(ctx, args.String("section"))
}

func copyTileText(ctx context.Context, w *World, args stepdef.Args) error {
	index := args.Int("index")
	if index < 1 {
		return fmt.Errorf("tile index must be 1-based, got %d", index)
	}
	text, err := w.Page.TileBackText(ctx, index)
	if err != nil {
		return err
	}
	w.CopiedTileText = text
	return nil
}

func scrollAndClick(ctx context.Context, w *World, args stepdef.Args) error {
	control, err := pages.ControlFromName(args.String("control"))
	if err != nil {
		return err
	}
	if err := w.Page.ScrollToBottom(ctx); err != nil {
		return err
	}
	return w.Page.Click(ctx, control)
}

func verifyURL(ctx context.Context, w *World, args stepdef.Args) error {
	actual, err := w.Page.CurrentURL(ctx)
	if err != nil {
		return err
	}
	return assertEquals("page url", args.String("url"), actual)
}

func verifyTitle(ctx context.Context, w *World, args stepdef.Args) error {
	actual, err := w.Page.Title(ctx)
	if err != nil {
		return err
	}
	return assertEquals("page title", args.String("title"), actual)
}

func verifyCopiedTileText(_ context.Context, w *World, args stepdef.Args) error {
	return assertEquals("tile text", args.String("text"), w.CopiedTileText)
}
