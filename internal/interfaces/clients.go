package interfaces

import "context"

// GeminiClient generates AI content from expanded prompts.
type GeminiClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// Close releases client resources
	Close() error
}
