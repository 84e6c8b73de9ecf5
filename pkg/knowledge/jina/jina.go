// Package jina provides a knowledge.Embedder backed by the Jina AI embedding
// API, which speaks the OpenAI embeddings wire format.
package jina

import (
	"context"
	"errors"

	"github.com/barekit/voyager/pkg/knowledge"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultBaseURL is the Jina AI API endpoint.
	DefaultBaseURL = "https://api.jina.ai/v1"
	// DefaultModel embeds text into 1024-dimensional vectors.
	DefaultModel = "jina-clip-v2"
	// Dimension is the vector size every call to Embed produces.
	Dimension = 1024
)

// Embedder implements knowledge.Embedder using the Jina embeddings API.
type Embedder struct {
	client *openai.Client
	model  string
}

// NewEmbedder creates a Jina Embedder. Pass option.WithAPIKey and, for a
// non-default endpoint, option.WithBaseURL.
func NewEmbedder(opts ...option.RequestOption) *Embedder {
	merged := append([]option.RequestOption{option.WithBaseURL(DefaultBaseURL)}, opts...)
	client := openai.NewClient(merged...)
	return &Embedder{
		client: &client,
		model:  DefaultModel,
	}
}

// SetModel overrides the embedding model.
func (e *Embedder) SetModel(model string) {
	e.model = model
}

// Embed generates one 1024-dimensional vector per input text, preserving
// input order. The whole batch goes out in a single request. Any non-success
// response surfaces as *knowledge.EmbeddingError; retries are the caller's
// concern.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: openai.Int(Dimension),
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &knowledge.EmbeddingError{Status: apiErr.StatusCode, Err: err}
		}
		return nil, &knowledge.EmbeddingError{Err: err}
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		embeddings[i] = vec
	}

	return embeddings, nil
}
