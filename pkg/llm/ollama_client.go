package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/sirupsen/logrus"
)

const defaultOllamaHost = "http://localhost:11434"

// embeddingsAPI is the part of the Ollama API client used here
type embeddingsAPI interface {
	Embeddings(ctx context.Context, req *api.EmbeddingRequest) (*api.EmbeddingResponse, error)
	Heartbeat(ctx context.Context) error
}

// OllamaClient generates embeddings through a local Ollama server
type OllamaClient struct {
	api    embeddingsAPI
	config EmbedConfig
}

// NewOllamaClient creates a new client for a local Ollama server
func NewOllamaClient(rawURL string, config EmbedConfig) (*OllamaClient, error) {
	if rawURL == "" {
		rawURL = defaultOllamaHost
	}

	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL %q: %w", rawURL, err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return newOllamaClient(api.NewClient(base, httpClient), config), nil
}

func newOllamaClient(c embeddingsAPI, config EmbedConfig) *OllamaClient {
	defaults := DefaultEmbedConfig()
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaults.RequestTimeout
	}

	return &OllamaClient{api: c, config: config}
}

// Ping checks that the Ollama server is reachable
func (c *OllamaClient) Ping(ctx context.Context) error {
	if err := c.api.Heartbeat(ctx); err != nil {
		return fmt.Errorf("cannot connect to Ollama server: %w", err)
	}
	return nil
}

// EmbedText generates a vector embedding for text, retrying with
// exponential backoff. Input longer than MaxInputBytes is truncated.
func (c *OllamaClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if c.config.MaxInputBytes > 0 && len(text) > c.config.MaxInputBytes {
		text = truncate(text, c.config.MaxInputBytes)
		logrus.WithField("max_bytes", c.config.MaxInputBytes).Debug("Embedding input truncated")
	}

	req := &api.EmbeddingRequest{
		Model:  c.config.Model,
		Prompt: text,
	}

	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.config.RetryBaseDelay << (attempt - 1)
			logrus.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"delay":   delay,
			}).WithError(lastErr).Debug("Retrying embedding request")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
		resp, err := c.api.Embeddings(reqCtx, req)
		cancel()

		if err == nil {
			if len(resp.Embedding) == 0 {
				return nil, fmt.Errorf("model %s returned an empty embedding", c.config.Model)
			}
			return toFloat32(resp.Embedding), nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", c.config.MaxRetries, lastErr)
}

// Close releases resources held by the client
func (c *OllamaClient) Close() error {
	return nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
