package neo4j

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/barekit/voyager/pkg/history/consts"
	"github.com/barekit/voyager/pkg/planner"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Neo4jHistory struct {
	driver neo4j.DriverWithContext
	dbName string
}

// New creates a new Neo4jHistory adapter.
func New(uri, username, password, dbName string) (*Neo4jHistory, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	return &Neo4jHistory{
		driver: driver,
		dbName: dbName,
	}, nil
}

func (h *Neo4jHistory) Save(ctx context.Context, plan planner.Plan) error {
	session := h.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: h.dbName})
	defer session.Close(ctx)

	recsJSON, err := json.Marshal(plan.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Create Destination node if not exists
		queryDest := fmt.Sprintf(`
		MERGE (d:%s {name: $destination})
		RETURN d
		`, consts.LabelDestination)
		if _, err := tx.Run(ctx, queryDest, map[string]any{"destination": plan.Request.Destination}); err != nil {
			return nil, err
		}

		// Create Plan node and link to Destination
		queryPlan := fmt.Sprintf(`
		MATCH (d:%s {name: $destination})
		CREATE (p:%s {
			%s: $planID,
			%s: $origin,
			%s: $travelers,
			%s: $budget,
			%s: $recommendations,
			%s: $createdAt
		})
		CREATE (d)-[:%s]->(p)
		RETURN p
		`, consts.LabelDestination, consts.LabelPlan,
			consts.ColPlanID, consts.ColOrigin, consts.ColTravelers, consts.ColBudget,
			consts.ColRecommendations, consts.ColCreatedAt,
			consts.RelHasPlan)

		params := map[string]any{
			"destination":     plan.Request.Destination,
			"planID":          plan.ID,
			"origin":          plan.Request.Origin,
			"travelers":       plan.Request.Travelers,
			"budget":          plan.Request.Budget,
			"recommendations": string(recsJSON),
			"createdAt":       plan.CreatedAt.Format(time.RFC3339Nano),
		}
		_, err := tx.Run(ctx, queryPlan, params)
		return nil, err
	})

	return err
}

func (h *Neo4jHistory) List(ctx context.Context, destination string, limit int) ([]planner.Plan, error) {
	session := h.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: h.dbName})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
		MATCH (d:%s {name: $destination})-[:%s]->(p:%s)
		RETURN p.%s, p.%s, p.%s, p.%s, p.%s, p.%s
		ORDER BY p.%s DESC
		`, consts.LabelDestination, consts.RelHasPlan, consts.LabelPlan,
			consts.ColPlanID, consts.ColOrigin, consts.ColTravelers, consts.ColBudget,
			consts.ColRecommendations, consts.ColCreatedAt,
			consts.ColCreatedAt)

		params := map[string]any{"destination": destination}
		if limit > 0 {
			query += " LIMIT $limit"
			params["limit"] = limit
		}

		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		var plans []planner.Plan
		for result.Next(ctx) {
			plan, err := planFromRecord(result.Record(), destination)
			if err != nil {
				return nil, err
			}
			plans = append(plans, plan)
		}

		return plans, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]planner.Plan), nil
}

// planFromRecord rebuilds a plan from one result row. Properties with
// unexpected types are left at their zero value rather than failing the
// whole listing; only corrupt recommendation JSON is an error.
func planFromRecord(record *neo4j.Record, destination string) (planner.Plan, error) {
	plan := planner.Plan{
		Request: planner.TripRequest{Destination: destination},
	}

	if id, ok := stringProperty(record, consts.ColPlanID); ok {
		plan.ID = id
	}
	if origin, ok := stringProperty(record, consts.ColOrigin); ok {
		plan.Request.Origin = origin
	}
	if v, ok := record.Get("p." + consts.ColTravelers); ok {
		if travelers, ok := v.(int64); ok {
			plan.Request.Travelers = int(travelers)
		}
	}
	if v, ok := record.Get("p." + consts.ColBudget); ok {
		switch budget := v.(type) {
		case float64:
			plan.Request.Budget = budget
		case int64:
			plan.Request.Budget = float64(budget)
		}
	}

	if recs, ok := stringProperty(record, consts.ColRecommendations); ok && recs != "" {
		var decoded map[planner.Category]string
		if err := json.Unmarshal([]byte(recs), &decoded); err != nil {
			return plan, fmt.Errorf("failed to unmarshal recommendations for plan %q: %w", plan.ID, err)
		}
		plan.Recommendations = decoded
	}

	if createdAt, ok := stringProperty(record, consts.ColCreatedAt); ok {
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			plan.CreatedAt = ts
		}
	}

	return plan, nil
}

func stringProperty(record *neo4j.Record, column string) (string, bool) {
	v, ok := record.Get("p." + column)
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (h *Neo4jHistory) Close(ctx context.Context) error {
	return h.driver.Close(ctx)
}
