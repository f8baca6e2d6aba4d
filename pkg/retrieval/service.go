package retrieval

import (
	"context"

	"github.com/andrew/anything-search/pkg/models"
)

// Searcher is the semantic search collaborator the UI talks to
type Searcher interface {
	// SemanticSearch returns hits for query grouped by category label
	SemanticSearch(ctx context.Context, mode models.Mode, query string) (models.ResultSet, error)
}

// Config contains configuration for a retrieval service
type Config struct {
	// MaxResults is the maximum number of results to return
	MaxResults int

	// ScoreThreshold is the minimum similarity score for results; 0 disables it
	ScoreThreshold float64

	// TextCollection and ImageCollection name the collections searched per mode
	TextCollection  string
	ImageCollection string
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		MaxResults:      10,
		TextCollection:  "anything_text",
		ImageCollection: "anything_image",
	}
}
