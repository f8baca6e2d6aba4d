// Package config loads settings shared by the server, indexer and CLI.
// Values come from a .env file if present, then the environment; each
// binary may override them with flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds runtime settings
type Config struct {
	Addr string // HTTP listen address

	QdrantHost string
	QdrantPort int

	OllamaHost string
	EmbedModel string

	TextCollection  string
	ImageCollection string
	VectorSize      int    // embedding dimension of EmbedModel
	VectorStore     string // "qdrant" or "memory"

	SearchLimit    int
	ScoreThreshold float64

	MediaRoot string // directory gallery images are served from
	Debug     bool
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Addr:            ":7860",
		QdrantHost:      "localhost",
		QdrantPort:      6334,
		OllamaHost:      "http://localhost:11434",
		EmbedModel:      "llama3",
		TextCollection:  "anything_text",
		ImageCollection: "anything_image",
		VectorSize:      4096,
		VectorStore:     "qdrant",
		SearchLimit:     10,
		MediaRoot:       "./content",
	}
}

// Load reads .env (when present) and the environment on top of Default
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	} else if err != nil {
		logrus.Debug("No .env file loaded")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv applies variables returned by lookup on top of Default
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []string
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q is not an integer", key, v))
				return
			}
			*dst = n
		}
	}

	str("ADDR", &cfg.Addr)
	str("QDRANT_HOST", &cfg.QdrantHost)
	num("QDRANT_PORT", &cfg.QdrantPort)
	str("OLLAMA_HOST", &cfg.OllamaHost)
	str("EMBED_MODEL", &cfg.EmbedModel)
	str("TEXT_COLLECTION", &cfg.TextCollection)
	str("IMAGE_COLLECTION", &cfg.ImageCollection)
	num("VECTOR_SIZE", &cfg.VectorSize)
	str("VECTOR_STORE", &cfg.VectorStore)
	num("SEARCH_LIMIT", &cfg.SearchLimit)
	str("MEDIA_ROOT", &cfg.MediaRoot)

	if v, ok := lookup("SCORE_THRESHOLD"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("SCORE_THRESHOLD=%q is not a number", v))
		} else {
			cfg.ScoreThreshold = f
		}
	}
	if v, ok := lookup("DEBUG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("DEBUG=%q is not a boolean", v))
		} else {
			cfg.Debug = b
		}
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that would otherwise fail later at runtime
func (c Config) Validate() error {
	switch c.VectorStore {
	case "qdrant", "memory":
	default:
		return fmt.Errorf("unsupported vector store %q", c.VectorStore)
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("search limit must be positive, got %d", c.SearchLimit)
	}
	if c.VectorSize <= 0 {
		return fmt.Errorf("vector size must be positive, got %d", c.VectorSize)
	}
	if c.TextCollection == "" || c.ImageCollection == "" {
		return fmt.Errorf("collection names must not be empty")
	}
	return nil
}

// QdrantAddr returns host:port for the gRPC connection
func (c Config) QdrantAddr() string {
	return fmt.Sprintf("%s:%d", c.QdrantHost, c.QdrantPort)
}
