package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/barekit/voyager/pkg/planner"
)

// InMemory implements the history store using a map.
type InMemory struct {
	mu    sync.RWMutex
	plans map[string][]planner.Plan
}

// New creates a new InMemory adapter.
func New() *InMemory {
	return &InMemory{
		plans: make(map[string][]planner.Plan),
	}
}

func key(destination string) string {
	return strings.ToLower(destination)
}

// Save stores a plan under its destination.
func (m *InMemory) Save(ctx context.Context, plan planner.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(plan.Request.Destination)
	m.plans[k] = append(m.plans[k], plan)
	return nil
}

// List returns plans for the destination, newest first.
func (m *InMemory) List(ctx context.Context, destination string, limit int) ([]planner.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.plans[key(destination)]
	result := make([]planner.Plan, len(stored))
	copy(result, stored)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
