package planner

import (
	"context"
	"sync"

	"github.com/barekit/voyager/pkg/knowledge"
	"github.com/barekit/voyager/pkg/llm"
	"go.uber.org/zap"
)

// Orchestrator fans one trip request out to every category agent and joins
// the results.
type Orchestrator struct {
	agents []*Agent
	logger *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*options)

type options struct {
	configs []AgentConfig
	topK    int
}

// WithConfigs replaces the default category configuration set.
func WithConfigs(configs []AgentConfig) Option {
	return func(o *options) {
		o.configs = configs
	}
}

// WithTopK sets how many retrieved records feed each prompt.
func WithTopK(topK int) Option {
	return func(o *options) {
		o.topK = topK
	}
}

// NewOrchestrator builds one agent per configured category, all sharing the
// given store and generator.
func NewOrchestrator(store knowledge.Store, generator llm.Generator, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := options{
		configs: DefaultConfigs(),
		topK:    DefaultTopK,
	}
	for _, opt := range opts {
		opt(&o)
	}

	agents := make([]*Agent, len(o.configs))
	for i, cfg := range o.configs {
		agents[i] = NewAgent(cfg, store, generator, o.topK, logger)
	}

	return &Orchestrator{
		agents: agents,
		logger: logger,
	}
}

// PlanTrip validates the request, splits the budget and runs all agents
// concurrently. It waits for every agent; individual agent failures degrade
// inside the agent and never surface here, so a successful return always
// carries one entry per configured category.
func (o *Orchestrator) PlanTrip(ctx context.Context, req TripRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	alloc := Allocate(req.Budget)

	texts := make([]string, len(o.agents))
	var wg sync.WaitGroup
	for i, agent := range o.agents {
		wg.Add(1)
		go func(i int, agent *Agent) {
			defer wg.Done()
			texts[i] = agent.Recommend(ctx, o.paramsFor(agent.Category(), req, alloc))
		}(i, agent)
	}
	wg.Wait()

	recommendations := make(map[Category]string, len(o.agents))
	for i, agent := range o.agents {
		recommendations[agent.Category()] = texts[i]
	}

	o.logger.Info("trip plan assembled",
		zap.String("origin", req.Origin),
		zap.String("destination", req.Destination),
		zap.Int("travelers", req.Travelers),
		zap.Float64("budget", req.Budget),
	)

	return &Result{
		Request:         req,
		Budget:          alloc,
		Recommendations: recommendations,
	}, nil
}

// paramsFor substitutes the category's budget share into the shared trip
// parameters. Attractions carries no budget figure.
func (o *Orchestrator) paramsFor(c Category, req TripRequest, alloc BudgetAllocation) Params {
	p := Params{
		Origin:      req.Origin,
		Destination: req.Destination,
		Travelers:   req.Travelers,
	}
	switch c {
	case CategoryHotels:
		p.Budget = alloc.Hotel
	case CategoryTransport:
		p.Budget = alloc.Transport
	case CategoryExpenses:
		p.Budget = alloc.Misc
	}
	return p
}
