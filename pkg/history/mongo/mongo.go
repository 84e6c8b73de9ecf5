package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/barekit/voyager/pkg/history/consts"
	"github.com/barekit/voyager/pkg/planner"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoHistory struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type PlanDoc struct {
	PlanID          string    `bson:"plan_id"`
	Origin          string    `bson:"origin"`
	Destination     string    `bson:"destination"`
	Travelers       int       `bson:"travelers"`
	Budget          float64   `bson:"budget"`
	Recommendations string    `bson:"recommendations"` // Stored as JSON string
	CreatedAt       time.Time `bson:"created_at"`
}

// New creates a new MongoHistory adapter.
func New(client *mongo.Client, dbName, collectionName string) *MongoHistory {
	return &MongoHistory{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
	}
}

func (h *MongoHistory) Save(ctx context.Context, plan planner.Plan) error {
	recsJSON, err := json.Marshal(plan.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	doc := PlanDoc{
		PlanID:          plan.ID,
		Origin:          plan.Request.Origin,
		Destination:     plan.Request.Destination,
		Travelers:       plan.Request.Travelers,
		Budget:          plan.Request.Budget,
		Recommendations: string(recsJSON),
		CreatedAt:       plan.CreatedAt,
	}

	_, err = h.collection.InsertOne(ctx, doc)
	return err
}

func (h *MongoHistory) List(ctx context.Context, destination string, limit int) ([]planner.Plan, error) {
	filter := bson.M{consts.ColDestination: destination}
	opts := options.Find().SetSort(bson.M{consts.ColCreatedAt: -1})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := h.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []planner.Plan
	for cursor.Next(ctx) {
		var doc PlanDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		var recs map[planner.Category]string
		if doc.Recommendations != "" {
			if err := json.Unmarshal([]byte(doc.Recommendations), &recs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
			}
		}

		plans = append(plans, planner.Plan{
			ID: doc.PlanID,
			Request: planner.TripRequest{
				Origin:      doc.Origin,
				Destination: doc.Destination,
				Travelers:   doc.Travelers,
				Budget:      doc.Budget,
			},
			Recommendations: recs,
			CreatedAt:       doc.CreatedAt,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}
