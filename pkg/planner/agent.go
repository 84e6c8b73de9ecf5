package planner

import (
	"context"

	"github.com/barekit/voyager/pkg/knowledge"
	"github.com/barekit/voyager/pkg/llm"
	"go.uber.org/zap"
)

// DefaultTopK is the number of nearest records fed into each prompt.
const DefaultTopK = 4

// Agent runs one category's retrieval-and-generation pipeline.
type Agent struct {
	cfg       AgentConfig
	store     knowledge.Store
	generator llm.Generator
	topK      int
	logger    *zap.Logger
}

// NewAgent wires an agent from its config. store may be nil when the config
// declares no index.
func NewAgent(cfg AgentConfig, store knowledge.Store, generator llm.Generator, topK int, logger *zap.Logger) *Agent {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Agent{
		cfg:       cfg,
		store:     store,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// Category returns the category this agent serves.
func (a *Agent) Category() Category {
	return a.cfg.Category
}

// Recommend produces the category's recommendation text. It never returns an
// error: a failed retrieval degrades to an empty context, and a failed
// generation yields the category placeholder. The caller therefore always
// gets a usable string.
func (a *Agent) Recommend(ctx context.Context, p Params) string {
	var records []knowledge.Record
	if a.cfg.Index != "" && a.store != nil {
		query := a.cfg.BuildQuery(p)
		found, err := a.store.Search(ctx, a.cfg.Index, query, a.topK)
		if err != nil {
			a.logger.Warn("retrieval failed, continuing with empty context",
				zap.String("category", string(a.cfg.Category)),
				zap.String("index", a.cfg.Index),
				zap.Error(err),
			)
		} else {
			records = found
		}
	}

	prompt := a.cfg.BuildPrompt(p, records)

	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error("generation failed",
			zap.String("category", string(a.cfg.Category)),
			zap.Error(err),
		)
		return Placeholder(a.cfg.Category)
	}

	return text
}
