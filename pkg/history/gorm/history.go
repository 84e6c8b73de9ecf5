package gorm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/barekit/voyager/pkg/history/consts"
	"github.com/barekit/voyager/pkg/planner"
	"gorm.io/gorm"
)

// History implements the history store using GORM.
type History struct {
	db *gorm.DB
}

// PlanModel represents the database schema for a saved plan.
type PlanModel struct {
	gorm.Model
	PlanID          string `gorm:"uniqueIndex"`
	Origin          string
	Destination     string `gorm:"index"`
	Travelers       int
	Budget          float64
	Recommendations []byte `gorm:"type:json"`
}

// TableName overrides the table name.
func (PlanModel) TableName() string {
	return consts.TableNamePlans
}

// New creates a new History over an open GORM connection.
func New(db *gorm.DB) (*History, error) {
	if err := db.AutoMigrate(&PlanModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &History{db: db}, nil
}

// Save stores a plan.
func (h *History) Save(ctx context.Context, plan planner.Plan) error {
	recsJSON, err := json.Marshal(plan.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	model := PlanModel{
		PlanID:          plan.ID,
		Origin:          plan.Request.Origin,
		Destination:     plan.Request.Destination,
		Travelers:       plan.Request.Travelers,
		Budget:          plan.Request.Budget,
		Recommendations: recsJSON,
	}
	model.CreatedAt = plan.CreatedAt

	return h.db.WithContext(ctx).Create(&model).Error
}

// List returns plans for the destination, newest first.
func (h *History) List(ctx context.Context, destination string, limit int) ([]planner.Plan, error) {
	query := h.db.WithContext(ctx).
		Where("destination = ?", destination).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []PlanModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	plans := make([]planner.Plan, len(models))
	for i, model := range models {
		var recs map[planner.Category]string
		if len(model.Recommendations) > 0 {
			if err := json.Unmarshal(model.Recommendations, &recs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal recommendations for plan %s: %w", model.PlanID, err)
			}
		}

		plans[i] = planner.Plan{
			ID: model.PlanID,
			Request: planner.TripRequest{
				Origin:      model.Origin,
				Destination: model.Destination,
				Travelers:   model.Travelers,
				Budget:      model.Budget,
			},
			Recommendations: recs,
			CreatedAt:       model.CreatedAt,
		}
	}

	return plans, nil
}
