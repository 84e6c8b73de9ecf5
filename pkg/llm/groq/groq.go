// Package groq provides an llm.Generator backed by the Groq API, which
// speaks the OpenAI chat-completions wire format.
package groq

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultBaseURL is the Groq OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the generation model.
	DefaultModel = "llama-3.3-70b-versatile"
	// DefaultTemperature matches the tuning of the recommendation prompts.
	DefaultTemperature = 0.7
)

// Generator implements llm.Generator using Groq chat completions.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float64
}

// New creates a Groq Generator. Pass option.WithAPIKey and, for a
// non-default endpoint, option.WithBaseURL.
func New(opts ...option.RequestOption) *Generator {
	merged := append([]option.RequestOption{option.WithBaseURL(DefaultBaseURL)}, opts...)
	client := openai.NewClient(merged...)
	return &Generator{
		client:      &client,
		model:       DefaultModel,
		temperature: DefaultTemperature,
	}
}

// SetModel overrides the generation model.
func (g *Generator) SetModel(model string) {
	g.model = model
}

// SetTemperature overrides the sampling temperature.
func (g *Generator) SetTemperature(temperature float64) {
	g.temperature = temperature
}

// Generate sends the prompt as a single user message and returns the
// completion text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       g.model,
		Temperature: openai.Float(g.temperature),
	}

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
