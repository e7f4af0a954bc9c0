// File: internal/suite/steps_test.go
package suite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/greenlight-cli/internal/browser"
	"github.com/xkilldash9x/greenlight-cli/internal/gherkin"
	"github.com/xkilldash9x/greenlight-cli/internal/pages"
	"github.com/xkilldash9x/greenlight-cli/internal/runner"
	"github.com/xkilldash9x/greenlight-cli/internal/stepdef"
)

// scriptedDriver is a canned pages.Driver for exercising the step
// handlers without a browser.
type scriptedDriver struct {
	title    string
	url      string
	tileText string
	calls    []string
}

func (d *scriptedDriver) log(op string) { d.calls = append(d.calls, op) }

func (d *scriptedDriver) Navigate(ctx context.Context, url string) error {
	d.log("navigate")
	return nil
}
func (d *scriptedDriver) WaitVisible(ctx context.Context, loc browser.Locator) error {
	d.log("waitvisible")
	return nil
}
func (d *scriptedDriver) Click(ctx context.Context, loc browser.Locator) error {
	d.log("click")
	return nil
}
func (d *scriptedDriver) Hover(ctx context.Context, loc browser.Locator) error {
	d.log("hover")
	return nil
}
func (d *scriptedDriver) ScrollIntoView(ctx context.Context, loc browser.Locator) error {
	d.log("scrollintoview")
	return nil
}
func (d *scriptedDriver) ScrollToBottom(ctx context.Context) error {
	d.log("scrolltobottom")
	return nil
}
func (d *scriptedDriver) Text(ctx context.Context, loc browser.Locator) (string, error) {
	d.log("text")
	return d.tileText, nil
}
func (d *scriptedDriver) Title(ctx context.Context) (string, error) {
	d.log("title")
	return d.title, nil
}
func (d *scriptedDriver) URL(ctx context.Context) (string, error) {
	d.log("url")
	return d.url, nil
}
func (d *scriptedDriver) Screenshot(ctx context.Context) ([]byte, error) {
	d.log("screenshot")
	return []byte("png"), nil
}

func newScriptedWorld(drv *scriptedDriver) *World {
	return NewWorld(drv, "https://blankfactor.com/", zap.NewNop())
}

func TestEveryFeatureStepResolves(t *testing.T) {
	registry := NewRegistry()

	lines := []struct {
		category gherkin.Category
		text     string
	}{
		{gherkin.Given, `I navigate to Blankfactor home page`},
		{gherkin.When, `I hover over "Industries" and open the "Retirement and wealth" section`},
		{gherkin.When, `I copy the text from tile 3`},
		{gherkin.When, `I scroll to the bottom of the page and click on the "Let's get started" button`},
		{gherkin.Then, `I verify that the page is loaded and the page url is "https://blankfactor.com/contact/"`},
		{gherkin.Then, `I verify the page title is "Contact | Blankfactor"`},
		{gherkin.Then, `I verify the copied tile text is "some text"`},
	}
	for _, line := range lines {
		t.Run(line.text, func(t *testing.T) {
			m, err := registry.Resolve(line.category, line.text)
			require.NoError(t, err)
			assert.NotNil(t, m.Definition.Handler)
		})
	}
}

func TestRegistryIsStable(t *testing.T) {
	// Registering twice into the same registry must trip the duplicate
	// guard rather than silently double-binding.
	r := NewRegistry()
	assert.Panics(t, func() { RegisterSteps(r) })
}

func TestCopyTileTextStoresTrimmedText(t *testing.T) {
	drv := &scriptedDriver{tileText: "Automate your operations."}
	world := newScriptedWorld(drv)
	registry := NewRegistry()

	m, err := registry.Resolve(gherkin.When, "I copy the text from tile 3")
	require.NoError(t, err)
	require.NoError(t, m.Definition.Handler(context.Background(), world, m.Args))
	assert.Equal(t, "Automate your operations.", world.CopiedTileText)

	// The reveal sequence runs front-first.
	assert.Equal(t, []string{"scrollintoview", "hover", "waitvisible", "text"}, drv.calls)
}

func TestCopyTileTextRejectsNonPositiveIndex(t *testing.T) {
	world := newScriptedWorld(&scriptedDriver{})
	err := copyTileText(context.Background(), world, stepdef.Args{})

	// Args without an index coerce to zero, which is out of range.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1-based")
}

func TestHoverAndOpenSectionUnknownMenu(t *testing.T) {
	registry := NewRegistry()
	world := newScriptedWorld(&scriptedDriver{})

	m, err := registry.Resolve(gherkin.When, `I hover over "Bogus" and open the "Payments" section`)
	require.NoError(t, err)
	err = m.Definition.Handler(context.Background(), world, m.Args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown control "Bogus"`)
}

func TestVerifyStepsReportExpectedAndActual(t *testing.T) {
	drv := &scriptedDriver{title: "Home | Blankfactor", url: "https://blankfactor.com/"}
	world := newScriptedWorld(drv)
	registry := NewRegistry()

	m, err := registry.Resolve(gherkin.Then, `I verify the page title is "Contact | Blankfactor"`)
	require.NoError(t, err)
	err = m.Definition.Handler(context.Background(), world, m.Args)
	require.Error(t, err)

	var af *AssertionFailure
	require.ErrorAs(t, err, &af)
	assert.Equal(t, "page title", af.Subject)
	assert.Equal(t, "Contact | Blankfactor", af.Expected)
	assert.Equal(t, "Home | Blankfactor", af.Actual)
	assert.Contains(t, err.Error(), `expected "Contact | Blankfactor"`)
	assert.Contains(t, err.Error(), `got "Home | Blankfactor"`)
}

func TestFullScenarioAgainstScriptedDriver(t *testing.T) {
	feature, err := gherkin.Parse(strings.NewReader(`
Feature: Blankfactor home page

  Scenario: Copy a tile and reach the contact page
    Given I navigate to Blankfactor home page
    When I hover over "Industries" and open the "Retirement and wealth" section
    And I copy the text from tile 3
    And I scroll to the bottom of the page and click on the "Let's get started" button
    Then I verify that the page is loaded and the page url is "https://blankfactor.com/contact/"
    And I verify the page title is "Contact | Blankfactor"
    And I verify the copied tile text is "Automate your operations."
`), "blankfactor.feature")
	require.NoError(t, err)

	drv := &scriptedDriver{
		title:    "Contact | Blankfactor",
		tileText: "Automate your operations.",
	}
	// The scripted "click" on the contact CTA lands on the contact URL.
	drv.url = "https://blankfactor.com/contact/"

	factory := func(ctx context.Context) (*World, func(), error) {
		return newScriptedWorld(drv), func() {}, nil
	}
	r := runner.New(NewRegistry(), factory, nil, zap.NewNop())

	summary := r.Run(context.Background(), []*gherkin.Feature{feature})
	require.Len(t, summary.Results, 1)
	res := summary.Results[0]
	require.Equal(t, runner.Passed, res.Status, "scenario error: %s", res.Error)
	assert.True(t, summary.OK())
	assert.Equal(t, -1, res.FailedStepIndex)
}

func TestScenarioFailureCarriesAssertionDetail(t *testing.T) {
	feature, err := gherkin.Parse(strings.NewReader(`
Feature: Mismatch

  Scenario: Wrong title
    Given I navigate to Blankfactor home page
    Then I verify the page title is "Contact | Blankfactor"
    And I verify the copied tile text is "never reached"
`), "mismatch.feature")
	require.NoError(t, err)

	drv := &scriptedDriver{title: "Home | Blankfactor"}
	factory := func(ctx context.Context) (*World, func(), error) {
		return newScriptedWorld(drv), func() {}, nil
	}
	r := runner.New(NewRegistry(), factory, nil, zap.NewNop())

	summary := r.Run(context.Background(), []*gherkin.Feature{feature})
	require.Len(t, summary.Results, 1)
	res := summary.Results[0]

	assert.Equal(t, runner.Failed, res.Status)
	assert.Equal(t, 1, res.FailedStepIndex)
	var af *AssertionFailure
	require.ErrorAs(t, res.Err(), &af)
	assert.Equal(t, runner.StepSkipped, res.Steps[2].Status)
}

// Compile-time check that the scripted driver stays in sync with the
// real driver surface.
var _ pages.Driver = (*scriptedDriver)(nil)
