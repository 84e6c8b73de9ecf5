package llm

import "context"

// Generator turns a fully-rendered prompt into natural-language text. The
// output is opaque to callers; downstream code renders it, never parses it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
