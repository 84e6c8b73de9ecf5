package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/barekit/voyager/pkg/planner"
)

func plan(id, destination string, createdAt time.Time) planner.Plan {
	return planner.Plan{
		ID: id,
		Request: planner.TripRequest{
			Origin:      "Chennai",
			Destination: destination,
			Travelers:   2,
			Budget:      20000,
		},
		Recommendations: map[planner.Category]string{
			planner.CategoryHotels: "stay somewhere nice",
		},
		CreatedAt: createdAt,
	}
}

func TestSaveAndListNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := store.Save(ctx, plan(id, "Munnar", base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	plans, err := store.List(ctx, "Munnar", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	if plans[0].ID != "c" || plans[2].ID != "a" {
		t.Errorf("expected newest first, got %s..%s", plans[0].ID, plans[2].ID)
	}
}

func TestListHonorsLimit(t *testing.T) {
	store := New()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if err := store.Save(ctx, plan(string(rune('a'+i)), "Ooty", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	plans, err := store.List(ctx, "Ooty", 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
	if plans[0].ID != "e" {
		t.Errorf("expected most recent plan first, got %s", plans[0].ID)
	}
}

func TestListMatchesDestinationCaseInsensitively(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Save(ctx, plan("a", "Kodaikanal", time.Now())); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	plans, err := store.List(ctx, "kodaikanal", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(plans) != 1 {
		t.Errorf("expected case-insensitive match, got %d plans", len(plans))
	}
}

func TestListUnknownDestination(t *testing.T) {
	store := New()

	plans, err := store.List(context.Background(), "Atlantis", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("expected no plans, got %d", len(plans))
	}
}
