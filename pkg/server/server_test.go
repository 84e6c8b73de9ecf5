package server

import (
	"bytes"
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"testing"

	histmem "github.com/barekit/voyager/pkg/history/inmemory"
	"github.com/barekit/voyager/pkg/knowledge/inmemory"
	"github.com/barekit/voyager/pkg/knowledge/jina"
	"github.com/barekit/voyager/pkg/planner"
	"github.com/barekit/voyager/pkg/seed"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type hashEmbedder struct{}

func (hashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		h := fnv.New32a()
		h.Write([]byte(text))
		s := h.Sum32()
		vec := make([]float32, jina.Dimension)
		for j := range vec {
			s = s*1664525 + 1013904223
			vec[j] = float32(s%1000) / 1000
		}
		out[i] = vec
	}
	return out, nil
}

type fixedGenerator struct{}

func (fixedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "recommendation text", nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	embedder := hashEmbedder{}
	store := inmemory.New(embedder)

	seeder := seed.NewSeeder(store, embedder, logger)
	if _, err := seeder.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("failed to provision indexes: %v", err)
	}

	orchestrator := planner.NewOrchestrator(store, fixedGenerator{}, logger)
	return New(orchestrator, seeder, store, histmem.New(), logger).App()
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestPlanEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/v1/plan", planner.TripRequest{
		Origin:      "Chennai",
		Destination: "Munnar",
		Travelers:   2,
		Budget:      20000,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Budget          planner.BudgetAllocation    `json:"budget"`
		Order           []planner.Category          `json:"order"`
		Recommendations map[planner.Category]string `json:"recommendations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(body.Recommendations) != 4 {
		t.Errorf("expected 4 recommendations, got %d", len(body.Recommendations))
	}
	if body.Budget.Hotel != 8000 {
		t.Errorf("expected hotel share 8000, got %v", body.Budget.Hotel)
	}
	if len(body.Order) != 4 || body.Order[0] != planner.CategoryHotels || body.Order[3] != planner.CategoryAttractions {
		t.Errorf("unexpected display order: %v", body.Order)
	}
}

func TestPlanEndpointRejectsInvalidRequest(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/v1/plan", planner.TripRequest{
		Origin:      "Chennai",
		Destination: "Munnar",
		Travelers:   2,
		Budget:      500,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPlanHistoryEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/v1/plan", planner.TripRequest{
		Origin:      "Chennai",
		Destination: "Munnar",
		Travelers:   2,
		Budget:      20000,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("planning failed with %d", resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans?destination=Munnar", nil)
	listResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", listResp.StatusCode)
	}

	var body struct {
		Plans []planner.Plan `json:"plans"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Plans) != 1 {
		t.Fatalf("expected 1 saved plan, got %d", len(body.Plans))
	}
	if body.Plans[0].Request.Destination != "Munnar" {
		t.Errorf("unexpected destination %q", body.Plans[0].Request.Destination)
	}
}

func TestPlansEndpointRequiresDestination(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAddRecordEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/v1/records", map[string]interface{}{
		"index":       "hotels",
		"description": "Tea County Munnar, mid-range resort near the town center",
		"metadata":    map[string]interface{}{"city": "Munnar"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.ID == "" {
		t.Error("expected a record id")
	}
}

func TestAddRecordEndpointRejectsUnknownIndex(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/v1/records", map[string]interface{}{
		"index":       "restaurants",
		"description": "some place",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestIndexStatsEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/indexes/hotels/stats", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var stats struct {
		Name      string `json:"name"`
		Dimension uint64 `json:"dimension"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.Name != "hotels" || stats.Dimension != jina.Dimension {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestIndexStatsEndpointUnknownIndex(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/indexes/restaurants/stats", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
