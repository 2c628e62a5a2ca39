package ports

import "context"

// GenerateOptions bounds a single text-generation request
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
	Stop        []string
}

// TextGenerator defines the contract for an optional generative text backend.
// Both methods must honor context cancellation: a cancelled or timed-out
// call is treated by callers exactly like a network failure.
type TextGenerator interface {
	// Available reports whether the backend is reachable and has a
	// compatible model loaded
	Available(ctx context.Context) bool

	// Generate requests a short completion for the prompt
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
