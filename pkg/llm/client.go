package llm

import (
	"context"
	"time"
)

// Embedder turns text into a vector for similarity search
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// EmbedConfig holds settings for embedding requests
type EmbedConfig struct {
	Model          string
	MaxInputBytes  int
	MaxRetries     int
	RetryBaseDelay time.Duration
	RequestTimeout time.Duration
}

// DefaultEmbedConfig returns a default configuration
func DefaultEmbedConfig() EmbedConfig {
	return EmbedConfig{
		Model:          "llama3",
		MaxInputBytes:  2048,
		MaxRetries:     3,
		RetryBaseDelay: time.Second,
		RequestTimeout: 10 * time.Second,
	}
}
