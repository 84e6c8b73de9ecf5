package knowledge

import (
	"context"
	"errors"
	"fmt"
)

// MetadataTextKey is the reserved metadata field holding the raw description
// text of a record. Stores echo it back on retrieval so agents can feed the
// original wording to the model.
const MetadataTextKey = "text"

// Record is one entry in a category index.
type Record struct {
	ID       string                 `json:"id"`
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
	Score    float32                `json:"score,omitempty"` // Similarity score
}

// IndexStats describes an index for diagnostics.
type IndexStats struct {
	Name      string `json:"name"`
	Records   uint64 `json:"records"`
	Dimension uint64 `json:"dimension"`
}

// Embedder is the interface for generating embeddings. Implementations return
// one vector per input text, in input order, all of the same dimensionality.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Store manages named vector indexes and similarity search over them.
// Search embeds the query text itself, with the same embedder used at write
// time, so callers never handle raw vectors on the read path.
type Store interface {
	// Ensure provisions the index if it does not exist. Calling it again for
	// an existing index is a no-op; a dimensionality conflict fails with
	// *ConfigMismatchError.
	Ensure(ctx context.Context, index string, dimension uint64) error
	// Upsert inserts or overwrites the record at id. Metadata must include
	// the record text under MetadataTextKey.
	Upsert(ctx context.Context, index, id string, vector []float32, metadata map[string]interface{}) error
	// Search returns the topK nearest records to the query text, nearest
	// first. An empty index yields an empty slice, not an error.
	Search(ctx context.Context, index, query string, topK int) ([]Record, error)
	// Stats reports record count and dimensionality for the index.
	Stats(ctx context.Context, index string) (IndexStats, error)
}

// ErrIndexNotFound is returned for any operation against an index that was
// never provisioned with Ensure.
var ErrIndexNotFound = errors.New("index not found")

// ConfigMismatchError reports an Ensure call that conflicts with the
// configuration of an already-existing index.
type ConfigMismatchError struct {
	Index string
	Want  uint64
	Got   uint64
}

func (e *ConfigMismatchError) Error() string {
	return fmt.Sprintf("index %q already exists with dimension %d, requested %d", e.Index, e.Got, e.Want)
}

// EmbeddingError reports a failed call to the embedding provider. Status is
// the provider's HTTP status when known, zero otherwise.
type EmbeddingError struct {
	Status int
	Err    error
}

func (e *EmbeddingError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("embedding request failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("embedding request failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }
