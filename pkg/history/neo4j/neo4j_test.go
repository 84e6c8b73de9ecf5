package neo4j

import (
	"testing"
	"time"

	"github.com/barekit/voyager/pkg/history/consts"
	"github.com/barekit/voyager/pkg/planner"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func planKeys() []string {
	return []string{
		"p." + consts.ColPlanID,
		"p." + consts.ColOrigin,
		"p." + consts.ColTravelers,
		"p." + consts.ColBudget,
		"p." + consts.ColRecommendations,
		"p." + consts.ColCreatedAt,
	}
}

func TestPlanFromRecord(t *testing.T) {
	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	record := &neo4j.Record{
		Keys: planKeys(),
		Values: []any{
			"plan-1",
			"Chennai",
			int64(2),
			float64(20000),
			`{"Hotels":"stay somewhere nice"}`,
			createdAt.Format(time.RFC3339Nano),
		},
	}

	plan, err := planFromRecord(record, "Munnar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.ID != "plan-1" || plan.Request.Origin != "Chennai" || plan.Request.Destination != "Munnar" {
		t.Errorf("unexpected identity fields: %+v", plan)
	}
	if plan.Request.Travelers != 2 || plan.Request.Budget != 20000 {
		t.Errorf("unexpected numeric fields: %+v", plan.Request)
	}
	if plan.Recommendations[planner.CategoryHotels] != "stay somewhere nice" {
		t.Errorf("unexpected recommendations: %+v", plan.Recommendations)
	}
	if !plan.CreatedAt.Equal(createdAt) {
		t.Errorf("unexpected timestamp: %v", plan.CreatedAt)
	}
}

func TestPlanFromRecordIntegerBudget(t *testing.T) {
	record := &neo4j.Record{
		Keys: planKeys(),
		Values: []any{
			"plan-1", "Chennai", int64(2), int64(20000), "", "",
		},
	}

	plan, err := planFromRecord(record, "Munnar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Request.Budget != 20000 {
		t.Errorf("integer budget not converted: %v", plan.Request.Budget)
	}
}

func TestPlanFromRecordToleratesUnexpectedTypes(t *testing.T) {
	record := &neo4j.Record{
		Keys: planKeys(),
		Values: []any{
			nil,          // plan id missing
			int64(7),     // origin with a non-string type
			"two",        // travelers as text
			"lots",       // budget as text
			nil,          // recommendations missing
			int64(12345), // created_at as a number
		},
	}

	plan, err := planFromRecord(record, "Munnar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.ID != "" || plan.Request.Origin != "" {
		t.Errorf("mistyped properties should stay zero: %+v", plan)
	}
	if plan.Request.Travelers != 0 || plan.Request.Budget != 0 {
		t.Errorf("mistyped numerics should stay zero: %+v", plan.Request)
	}
	if plan.Request.Destination != "Munnar" {
		t.Errorf("destination should come from the query: %+v", plan.Request)
	}
	if !plan.CreatedAt.IsZero() {
		t.Errorf("mistyped timestamp should stay zero: %v", plan.CreatedAt)
	}
}

func TestPlanFromRecordCorruptRecommendations(t *testing.T) {
	record := &neo4j.Record{
		Keys: planKeys(),
		Values: []any{
			"plan-1", "Chennai", int64(2), float64(20000), "{not json", "",
		},
	}

	if _, err := planFromRecord(record, "Munnar"); err == nil {
		t.Fatal("expected error for corrupt recommendation payload")
	}
}
