package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "localhost:6334", cfg.QdrantAddr())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"ADDR":            ":9000",
		"QDRANT_HOST":     "qdrant",
		"QDRANT_PORT":     "7000",
		"SEARCH_LIMIT":    "3",
		"SCORE_THRESHOLD": "0.25",
		"VECTOR_STORE":    "memory",
		"DEBUG":           "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "qdrant:7000", cfg.QdrantAddr())
	assert.Equal(t, 3, cfg.SearchLimit)
	assert.InDelta(t, 0.25, cfg.ScoreThreshold, 1e-9)
	assert.Equal(t, "memory", cfg.VectorStore)
	assert.True(t, cfg.Debug)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"port":      {"QDRANT_PORT": "abc"},
		"threshold": {"SCORE_THRESHOLD": "high"},
		"debug":     {"DEBUG": "maybe"},
		"store":     {"VECTOR_STORE": "milvus"},
		"limit":     {"SEARCH_LIMIT": "0"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("EMBED_MODEL=nomic-embed-text\nVECTOR_SIZE=768\n"), 0o644))
	t.Setenv("EMBED_MODEL", "")
	t.Setenv("VECTOR_SIZE", "")
	require.NoError(t, os.Unsetenv("EMBED_MODEL"))
	require.NoError(t, os.Unsetenv("VECTOR_SIZE"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", cfg.EmbedModel)
	assert.Equal(t, 768, cfg.VectorSize)
}

func TestLoadMissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
