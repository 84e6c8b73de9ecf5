// Package server exposes the planner, the administrative knowledge-base
// writes and the plan history over HTTP.
package server

import (
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/barekit/voyager/pkg/history"
	"github.com/barekit/voyager/pkg/knowledge"
	"github.com/barekit/voyager/pkg/planner"
	"github.com/barekit/voyager/pkg/seed"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Server wires the HTTP handlers to the planning core.
type Server struct {
	orchestrator *planner.Orchestrator
	seeder       *seed.Seeder
	store        knowledge.Store
	plans        history.Store
	logger       *zap.Logger
}

// New creates a Server. plans may be nil to disable history.
func New(orchestrator *planner.Orchestrator, seeder *seed.Seeder, store knowledge.Store, plans history.Store, logger *zap.Logger) *Server {
	return &Server{
		orchestrator: orchestrator,
		seeder:       seeder,
		store:        store,
		plans:        plans,
		logger:       logger,
	}
}

// App builds the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	v1 := app.Group("/api/v1")
	v1.Post("/plan", s.handlePlan)
	v1.Post("/records", s.handleAddRecord)
	v1.Get("/indexes/:name/stats", s.handleIndexStats)
	v1.Get("/plans", s.handleListPlans)

	return app
}

// planResponse carries the aggregated result plus the fixed display order,
// so clients render tabs in the same sequence regardless of map iteration.
type planResponse struct {
	Request         planner.TripRequest         `json:"request"`
	Budget          planner.BudgetAllocation    `json:"budget"`
	Order           []planner.Category          `json:"order"`
	Recommendations map[planner.Category]string `json:"recommendations"`
}

func (s *Server) handlePlan(c *fiber.Ctx) error {
	var req planner.TripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := s.orchestrator.PlanTrip(c.Context(), req)
	if err != nil {
		if errors.Is(err, planner.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		s.logger.Error("trip planning failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Trip planning failed",
		})
	}

	s.savePlan(c, result)

	return c.JSON(planResponse{
		Request:         result.Request,
		Budget:          result.Budget,
		Order:           planner.Categories(),
		Recommendations: result.Recommendations,
	})
}

// savePlan records the result in the history store. Failures are logged and
// swallowed; history never blocks a successful plan.
func (s *Server) savePlan(c *fiber.Ctx, result *planner.Result) {
	if s.plans == nil {
		return
	}
	plan := planner.Plan{
		ID:              uuid.NewString(),
		Request:         result.Request,
		Recommendations: result.Recommendations,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.plans.Save(c.Context(), plan); err != nil {
		s.logger.Warn("failed to save plan history", zap.Error(err))
	}
}

type addRecordRequest struct {
	Index       string                 `json:"index"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
}

func (s *Server) handleAddRecord(c *fiber.Ctx) error {
	var req addRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !slices.Contains(seed.IndexNames(), req.Index) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown index",
		})
	}
	if req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Description is required",
		})
	}

	id, err := s.seeder.AddRecord(c.Context(), req.Index, req.Description, req.Metadata)
	if err != nil {
		s.logger.Error("failed to add record", zap.String("index", req.Index), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": id,
	})
}

func (s *Server) handleIndexStats(c *fiber.Ctx) error {
	name := c.Params("name")

	stats, err := s.store.Stats(c.Context(), name)
	if err != nil {
		if errors.Is(err, knowledge.ErrIndexNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Index not found",
			})
		}
		s.logger.Error("failed to fetch index stats", zap.String("index", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch stats",
		})
	}

	return c.JSON(stats)
}

func (s *Server) handleListPlans(c *fiber.Ctx) error {
	if s.plans == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan history is disabled",
		})
	}

	destination := c.Query("destination")
	if destination == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "destination query parameter is required",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	plans, err := s.plans.List(c.Context(), destination, limit)
	if err != nil {
		s.logger.Error("failed to list plans", zap.String("destination", destination), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list plans",
		})
	}

	return c.JSON(fiber.Map{
		"plans": plans,
	})
}
