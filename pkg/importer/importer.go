// Package importer writes sandbox DTOs into staging ("tmp") tables.
package importer

import (
	"context"

	"github.com/alside/httpsandbox/pkg/dto"
)

// Importer persists DTOs produced by the sandbox handlers. Every call is
// tagged with the display mode that produced it. Implementations must be
// safe for concurrent use.
type Importer interface {
	// DeviceState returns the current state of the capture device.
	DeviceState(ctx context.Context) (dto.DeviceState, error)

	// AlwinData returns a fresh AlwinData populated with the device state.
	AlwinData(ctx context.Context) (dto.AlwinData, error)

	ImportAlwinData(ctx context.Context, data dto.AlwinData, mode string) error
	ImportGitHubRepo(ctx context.Context, repo dto.GitHubRepo, mode string) error
	ImportWebAPIClient(ctx context.Context, repo dto.WebAPIClientExample, mode string) error
	ImportJSON(ctx context.Context, text string, mode string) error
}
