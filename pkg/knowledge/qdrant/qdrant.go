// Package qdrant implements knowledge.Store on top of a Qdrant instance.
// Each index maps to one collection with cosine distance.
package qdrant

import (
	"context"
	"fmt"

	"github.com/barekit/voyager/pkg/knowledge"
	"github.com/qdrant/go-client/qdrant"
)

// Store implements knowledge.Store using Qdrant.
type Store struct {
	client   *qdrant.Client
	embedder knowledge.Embedder
}

// New connects to Qdrant. The embedder is used to embed query text on the
// search path and must match the one used when records were written.
func New(host string, port int, embedder knowledge.Embedder) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Store{
		client:   client,
		embedder: embedder,
	}, nil
}

// Ensure creates the collection if missing. An existing collection is left
// untouched; a dimensionality conflict fails with *knowledge.ConfigMismatchError.
func (s *Store) Ensure(ctx context.Context, index string, dimension uint64) error {
	exists, err := s.client.CollectionExists(ctx, index)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if exists {
		info, err := s.client.GetCollectionInfo(ctx, index)
		if err != nil {
			return fmt.Errorf("failed to inspect collection %q: %w", index, err)
		}
		got := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if got != dimension {
			return &knowledge.ConfigMismatchError{Index: index, Want: dimension, Got: got}
		}
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: index,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %q: %w", index, err)
	}
	return nil
}

// Upsert writes the record, overwriting any existing point with the same id.
func (s *Store) Upsert(ctx context.Context, index, id string, vector []float32, metadata map[string]interface{}) error {
	exists, err := s.client.CollectionExists(ctx, index)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("upsert into %q: %w", index, knowledge.ErrIndexNotFound)
	}

	payload := make(map[string]*qdrant.Value, len(metadata))
	for k, v := range metadata {
		payload[k] = toValue(v)
	}

	wait := true
	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: index,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: payload,
			},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert into %q: %w", index, err)
	}
	return nil
}

// Search embeds the query text and returns the topK nearest records.
func (s *Store) Search(ctx context.Context, index, query string, topK int) ([]knowledge.Record, error) {
	exists, err := s.client.CollectionExists(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("search in %q: %w", index, knowledge.ErrIndexNotFound)
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	limit := uint64(topK)
	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: index,
		Query:          qdrant.NewQuery(vectors[0]...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", index, err)
	}

	records := make([]knowledge.Record, len(res))
	for i, hit := range res {
		text := ""
		if t, ok := hit.Payload[knowledge.MetadataTextKey]; ok {
			text = t.GetStringValue()
		}

		metadata := make(map[string]interface{})
		for k, v := range hit.Payload {
			if k != knowledge.MetadataTextKey {
				metadata[k] = fromValue(v)
			}
		}

		records[i] = knowledge.Record{
			ID:       hit.Id.GetUuid(),
			Text:     text,
			Metadata: metadata,
			Score:    hit.Score,
		}
	}

	return records, nil
}

// Stats reports the point count and configured dimensionality of the index.
func (s *Store) Stats(ctx context.Context, index string) (knowledge.IndexStats, error) {
	exists, err := s.client.CollectionExists(ctx, index)
	if err != nil {
		return knowledge.IndexStats{}, fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		return knowledge.IndexStats{}, fmt.Errorf("stats for %q: %w", index, knowledge.ErrIndexNotFound)
	}

	info, err := s.client.GetCollectionInfo(ctx, index)
	if err != nil {
		return knowledge.IndexStats{}, fmt.Errorf("failed to inspect collection %q: %w", index, err)
	}

	count, err := s.client.Count(ctx, &qdrant.CountPoints{CollectionName: index})
	if err != nil {
		return knowledge.IndexStats{}, fmt.Errorf("failed to count points in %q: %w", index, err)
	}

	return knowledge.IndexStats{
		Name:      index,
		Records:   count,
		Dimension: info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize(),
	}, nil
}

func toValue(v interface{}) *qdrant.Value {
	switch val := v.(type) {
	case string:
		return qdrant.NewValueString(val)
	case float64:
		return qdrant.NewValueDouble(val)
	case float32:
		return qdrant.NewValueDouble(float64(val))
	case int:
		return qdrant.NewValueInt(int64(val))
	case int64:
		return qdrant.NewValueInt(val)
	case bool:
		return qdrant.NewValueBool(val)
	case []string:
		items := make([]*qdrant.Value, len(val))
		for i, s := range val {
			items[i] = qdrant.NewValueString(s)
		}
		return qdrant.NewValueList(&qdrant.ListValue{Values: items})
	default:
		return qdrant.NewValueString(fmt.Sprintf("%v", val))
	}
}

func fromValue(v *qdrant.Value) interface{} {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		items := make([]interface{}, len(kind.ListValue.GetValues()))
		for i, item := range kind.ListValue.GetValues() {
			items[i] = fromValue(item)
		}
		return items
	default:
		return v.GetStringValue()
	}
}
