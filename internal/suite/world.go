// File: internal/suite/world.go
package suite

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/greenlight-cli/internal/pages"
)

// World is the per-scenario execution context handed to step handlers:
// the page façade over a freshly provisioned, isolated browser context,
// the base URL of the site under test, and scratch state steps hand to
// each other within one scenario. Worlds are never shared across
// scenarios.
type World struct {
	Page    *pages.BlankfactorPage
	BaseURL string
	Log     *zap.Logger

	// CopiedTileText holds the text captured by the tile-copy step for a
	// later verification step in the same scenario.
	CopiedTileText string
}

// NewWorld assembles a world around a provisioned driver.
func NewWorld(drv pages.Driver, baseURL string, log *zap.Logger) *World {
	return &World{
		Page:    pages.NewBlankfactorPage(drv, log),
		BaseURL: baseURL,
		Log:     log.Named("world"),
	}
}
