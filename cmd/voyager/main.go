package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/barekit/voyager/pkg/config"
	"github.com/barekit/voyager/pkg/history"
	"github.com/barekit/voyager/pkg/knowledge"
	"github.com/barekit/voyager/pkg/knowledge/inmemory"
	"github.com/barekit/voyager/pkg/knowledge/jina"
	"github.com/barekit/voyager/pkg/knowledge/postgres"
	"github.com/barekit/voyager/pkg/knowledge/qdrant"
	"github.com/barekit/voyager/pkg/llm/groq"
	"github.com/barekit/voyager/pkg/logger"
	"github.com/barekit/voyager/pkg/planner"
	"github.com/barekit/voyager/pkg/seed"
	"github.com/barekit/voyager/pkg/server"
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

	embedder := newEmbedder(cfg)
	generator := newGenerator(cfg)

	store, err := newVectorStore(cfg, embedder)
	if err != nil {
		zapLogger.Fatal("failed to create vector store", zap.Error(err))
	}

	ctx := context.Background()

	seeder := seed.NewSeeder(store, embedder, zapLogger)
	if _, err := seeder.EnsureIndexes(ctx); err != nil {
		zapLogger.Fatal("failed to provision indexes", zap.Error(err))
	}

	plans, err := history.NewFactory(ctx, history.Config{
		Type:             history.Type(cfg.History.Type),
		ConnectionString: cfg.History.ConnectionString,
		Username:         cfg.History.Username,
		Password:         cfg.History.Password,
		DBName:           cfg.History.DBName,
	})
	if err != nil {
		zapLogger.Fatal("failed to create history store", zap.Error(err))
	}

	orchestrator := planner.NewOrchestrator(store, generator, zapLogger,
		planner.WithTopK(cfg.Planner.TopK))

	app := server.New(orchestrator, seeder, store, plans, zapLogger).App()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		zapLogger.Info("server starting", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			zapLogger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newEmbedder(cfg *config.Config) *jina.Embedder {
	opts := []option.RequestOption{option.WithAPIKey(cfg.Embedding.APIKey)}
	if cfg.Embedding.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.Embedding.BaseURL))
	}
	embedder := jina.NewEmbedder(opts...)
	if cfg.Embedding.Model != "" {
		embedder.SetModel(cfg.Embedding.Model)
	}
	return embedder
}

func newGenerator(cfg *config.Config) *groq.Generator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.Generation.APIKey)}
	if cfg.Generation.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.Generation.BaseURL))
	}
	generator := groq.New(opts...)
	if cfg.Generation.Model != "" {
		generator.SetModel(cfg.Generation.Model)
	}
	generator.SetTemperature(cfg.Generation.Temperature)
	return generator
}

func newVectorStore(cfg *config.Config, embedder knowledge.Embedder) (knowledge.Store, error) {
	switch cfg.Vector.Backend {
	case "qdrant":
		return qdrant.New(cfg.Vector.QdrantHost, cfg.Vector.QdrantPort, embedder)
	case "postgres":
		return postgres.New(cfg.Vector.PostgresDSN, embedder)
	case "inmemory":
		return inmemory.New(embedder), nil
	default:
		return nil, fmt.Errorf("unsupported vector store backend: %s", cfg.Vector.Backend)
	}
}
