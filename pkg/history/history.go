// Package history stores generated trip plans so earlier recommendations for
// a destination can be listed again. Persistence is best effort; the planner
// never depends on it.
package history

import (
	"context"

	"github.com/barekit/voyager/pkg/planner"
)

// Store persists trip plans keyed by destination.
type Store interface {
	// Save stores one plan.
	Save(ctx context.Context, plan planner.Plan) error
	// List returns the most recent plans for a destination, newest first.
	// limit <= 0 means no limit.
	List(ctx context.Context, destination string, limit int) ([]planner.Plan, error)
}
