// Command seed provisions the knowledge-base indexes and loads the curated
// destination catalog. Safe to rerun; existing seed records are overwritten
// in place.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/barekit/voyager/pkg/config"
	"github.com/barekit/voyager/pkg/knowledge"
	"github.com/barekit/voyager/pkg/knowledge/inmemory"
	"github.com/barekit/voyager/pkg/knowledge/jina"
	"github.com/barekit/voyager/pkg/knowledge/postgres"
	"github.com/barekit/voyager/pkg/knowledge/qdrant"
	"github.com/barekit/voyager/pkg/logger"
	"github.com/barekit/voyager/pkg/seed"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logger.Level)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	opts := []option.RequestOption{option.WithAPIKey(cfg.Embedding.APIKey)}
	if cfg.Embedding.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.Embedding.BaseURL))
	}
	embedder := jina.NewEmbedder(opts...)
	if cfg.Embedding.Model != "" {
		embedder.SetModel(cfg.Embedding.Model)
	}

	var store knowledge.Store
	switch cfg.Vector.Backend {
	case "qdrant":
		store, err = qdrant.New(cfg.Vector.QdrantHost, cfg.Vector.QdrantPort, embedder)
	case "postgres":
		store, err = postgres.New(cfg.Vector.PostgresDSN, embedder)
	case "inmemory":
		store = inmemory.New(embedder)
	default:
		err = fmt.Errorf("unsupported vector store backend: %s", cfg.Vector.Backend)
	}
	if err != nil {
		zapLogger.Fatal("failed to create vector store", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	seeder := seed.NewSeeder(store, embedder, zapLogger)

	created, err := seeder.EnsureIndexes(ctx)
	if err != nil {
		zapLogger.Fatal("failed to provision indexes", zap.Error(err))
	}
	zapLogger.Info("indexes ready", zap.Int("created", len(created)))

	if err := seeder.SeedDestinations(ctx); err != nil {
		zapLogger.Fatal("failed to seed destinations", zap.Error(err))
	}

	stats, err := store.Stats(ctx, seed.IndexDestinations)
	if err != nil {
		zapLogger.Fatal("failed to read destination stats", zap.Error(err))
	}
	zapLogger.Info("seeding complete",
		zap.String("index", stats.Name),
		zap.Uint64("records", stats.Records),
	)
}
