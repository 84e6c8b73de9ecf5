package jina

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/barekit/voyager/pkg/knowledge"
	"github.com/openai/openai-go/option"
)

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// newEmbeddingsServer returns one vector per input, with the first component
// encoding the input position so ordering is observable.
func newEmbeddingsServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		type embeddingData struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		data := make([]embeddingData, len(req.Input))
		for i := range req.Input {
			vec := make([]float64, Dimension)
			vec[0] = float64(i + 1)
			data[i] = embeddingData{Object: "embedding", Index: i, Embedding: vec}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data":   data,
			"model":  req.Model,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
}

func TestEmbedPreservesOrderAndDimension(t *testing.T) {
	server := newEmbeddingsServer(t)
	defer server.Close()

	e := NewEmbedder(
		option.WithBaseURL(server.URL),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)

	vectors, err := e.Embed(context.Background(), []string{"first text", "second text", "third text"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}

	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != Dimension {
			t.Errorf("vector %d has dimension %d", i, len(vec))
		}
		if vec[0] != float32(i+1) {
			t.Errorf("vector %d out of order: marker %v", i, vec[0])
		}
	}
}

func TestEmbedSurfacesProviderStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "invalid api key", "type": "authentication_error"},
		})
	}))
	defer server.Close()

	e := NewEmbedder(
		option.WithBaseURL(server.URL),
		option.WithAPIKey("bad-key"),
		option.WithMaxRetries(0),
	)

	_, err := e.Embed(context.Background(), []string{"anything"})
	var embErr *knowledge.EmbeddingError
	if !errors.As(err, &embErr) {
		t.Fatalf("expected EmbeddingError, got %v", err)
	}
	if embErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", embErr.Status)
	}
}
