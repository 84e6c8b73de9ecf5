// Package planner holds the multi-agent trip recommendation core: one agent
// per category, fanned out concurrently and aggregated into a single result.
package planner

import (
	"errors"
	"fmt"
	"time"
)

// MinBudget is the smallest accepted total trip budget, in currency units.
const MinBudget = 1000

// ErrInvalidRequest wraps all trip request validation failures.
var ErrInvalidRequest = errors.New("invalid trip request")

// TripRequest is the immutable input to a planning run.
type TripRequest struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Travelers   int     `json:"travelers"`
	Budget      float64 `json:"budget"`
}

// Validate checks the request against the input surface constraints.
func (r TripRequest) Validate() error {
	if r.Origin == "" {
		return fmt.Errorf("%w: origin is required", ErrInvalidRequest)
	}
	if r.Destination == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	if r.Travelers < 1 {
		return fmt.Errorf("%w: traveler count must be at least 1", ErrInvalidRequest)
	}
	if r.Budget < MinBudget {
		return fmt.Errorf("%w: budget must be at least %d", ErrInvalidRequest, MinBudget)
	}
	return nil
}

// BudgetAllocation splits the total budget across spending areas. It is
// derived per request and never stored.
type BudgetAllocation struct {
	Hotel     float64 `json:"hotel"`
	Transport float64 `json:"transport"`
	Misc      float64 `json:"misc"`
}

// Allocate distributes the total as 40% hotels, 30% transport, 30%
// day-to-day expenses. The shares always sum back to the total.
func Allocate(total float64) BudgetAllocation {
	return BudgetAllocation{
		Hotel:     total * 0.4,
		Transport: total * 0.3,
		Misc:      total * 0.3,
	}
}

// Category identifies one recommendation pipeline.
type Category string

const (
	CategoryHotels      Category = "Hotels"
	CategoryTransport   Category = "Transport"
	CategoryAttractions Category = "Attractions"
	CategoryExpenses    Category = "Expenses"
)

// Categories returns the closed category set in display order.
func Categories() []Category {
	return []Category{CategoryHotels, CategoryTransport, CategoryExpenses, CategoryAttractions}
}

// Placeholder is the fixed fallback text returned when generation fails for
// a category. Callers can compare against it to detect degraded entries.
func Placeholder(c Category) string {
	return fmt.Sprintf("Unable to fetch %s recommendations. Please try again later.", c)
}

// Result aggregates one generated text per category for a single request.
type Result struct {
	Request         TripRequest         `json:"request"`
	Budget          BudgetAllocation    `json:"budget"`
	Recommendations map[Category]string `json:"recommendations"`
}

// Plan is a Result stamped for persistence in a history store.
type Plan struct {
	ID              string              `json:"id"`
	Request         TripRequest         `json:"request"`
	Recommendations map[Category]string `json:"recommendations"`
	CreatedAt       time.Time           `json:"created_at"`
}
