// Package postgres implements knowledge.Store on Postgres with pgvector.
// All indexes share one records table; a registry table tracks which indexes
// exist and at what dimensionality.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/barekit/voyager/pkg/knowledge"
	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements knowledge.Store using pgvector.
type Store struct {
	db       *gorm.DB
	embedder knowledge.Embedder
}

// IndexModel registers a provisioned index and its dimensionality.
type IndexModel struct {
	Name      string `gorm:"primaryKey"`
	Dimension uint64
}

func (IndexModel) TableName() string {
	return "knowledge_indexes"
}

// RecordModel is the database schema for one knowledge record.
type RecordModel struct {
	IndexName string `gorm:"primaryKey;index"`
	ID        string `gorm:"primaryKey"`
	Text      string
	Metadata  []byte          `gorm:"type:jsonb"`
	Embedding pgvector.Vector `gorm:"type:vector(1024)"`
	Seq       int64           `gorm:"autoIncrement"` // insertion order, used for tie-breaking
}

func (RecordModel) TableName() string {
	return "knowledge_records"
}

// New connects to Postgres, enables the pgvector extension and migrates the
// schema.
func New(dsn string, embedder knowledge.Embedder) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(&IndexModel{}, &RecordModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db, embedder: embedder}, nil
}

func (s *Store) lookup(ctx context.Context, index string) (*IndexModel, error) {
	var model IndexModel
	err := s.db.WithContext(ctx).First(&model, "name = ?", index).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("index %q: %w", index, knowledge.ErrIndexNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// Ensure registers the index, or verifies the registration if it already
// exists.
func (s *Store) Ensure(ctx context.Context, index string, dimension uint64) error {
	existing, err := s.lookup(ctx, index)
	if err == nil {
		if existing.Dimension != dimension {
			return &knowledge.ConfigMismatchError{Index: index, Want: dimension, Got: existing.Dimension}
		}
		return nil
	}
	if !errors.Is(err, knowledge.ErrIndexNotFound) {
		return err
	}

	model := IndexModel{Name: index, Dimension: dimension}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to register index %q: %w", index, err)
	}
	return nil
}

// Upsert inserts or overwrites the record at id within the index.
func (s *Store) Upsert(ctx context.Context, index, id string, vector []float32, metadata map[string]interface{}) error {
	if _, err := s.lookup(ctx, index); err != nil {
		return err
	}

	text, _ := metadata[knowledge.MetadataTextKey].(string)
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	model := RecordModel{
		IndexName: index,
		ID:        id,
		Text:      text,
		Metadata:  metadataJSON,
		Embedding: pgvector.NewVector(vector),
	}

	// Overwrites take a fresh seq so they count as the most recent write
	// when breaking similarity ties.
	assignments := clause.AssignmentColumns([]string{"text", "metadata", "embedding"})
	assignments = append(assignments, clause.Assignment{
		Column: clause.Column{Name: "seq"},
		Value:  gorm.Expr("nextval(pg_get_serial_sequence('knowledge_records','seq'))"),
	})

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "index_name"}, {Name: "id"}},
		DoUpdates: assignments,
	}).Create(&model).Error
}

// Search embeds the query and returns the topK nearest records by cosine
// distance, most recent insertion winning ties.
func (s *Store) Search(ctx context.Context, index, query string, topK int) ([]knowledge.Record, error) {
	if _, err := s.lookup(ctx, index); err != nil {
		return nil, err
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	var models []RecordModel
	err = s.db.WithContext(ctx).
		Where("index_name = ?", index).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "embedding <=> ?, seq DESC",
			Vars:               []interface{}{pgvector.NewVector(vectors[0])},
			WithoutParentheses: true,
		}}).
		Limit(topK).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	records := make([]knowledge.Record, len(models))
	for i, m := range models {
		metadata := make(map[string]interface{})
		if len(m.Metadata) > 0 {
			if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata for record %q: %w", m.ID, err)
			}
		}
		delete(metadata, knowledge.MetadataTextKey)

		records[i] = knowledge.Record{
			ID:       m.ID,
			Text:     m.Text,
			Metadata: metadata,
		}
	}

	return records, nil
}

// Stats reports record count and registered dimensionality.
func (s *Store) Stats(ctx context.Context, index string) (knowledge.IndexStats, error) {
	model, err := s.lookup(ctx, index)
	if err != nil {
		return knowledge.IndexStats{}, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&RecordModel{}).Where("index_name = ?", index).Count(&count).Error; err != nil {
		return knowledge.IndexStats{}, err
	}

	return knowledge.IndexStats{
		Name:      index,
		Records:   uint64(count),
		Dimension: model.Dimension,
	}, nil
}
