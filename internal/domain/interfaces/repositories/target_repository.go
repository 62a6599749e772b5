// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
)

// TargetRepository defines the interface for accessing fetch targets
type TargetRepository interface {
	// GetTarget retrieves a fetch target by name
	GetTarget(ctx context.Context, name string) (*entities.FetchTarget, error)

	// ListTargets returns all configured fetch targets in processing order
	ListTargets(ctx context.Context) ([]*entities.FetchTarget, error)
}
