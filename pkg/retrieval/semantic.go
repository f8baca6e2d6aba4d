package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrew/anything-search/pkg/llm"
	"github.com/andrew/anything-search/pkg/models"
	"github.com/andrew/anything-search/pkg/vector"
	"github.com/sirupsen/logrus"
)

// SemanticService embeds the query and searches the collection for its mode.
// It holds no mutable state and is safe for concurrent use.
type SemanticService struct {
	embedder llm.Embedder
	store    vector.Store
	config   Config
}

// NewSemanticService creates a Searcher over store using embedder for queries
func NewSemanticService(embedder llm.Embedder, store vector.Store, config Config) *SemanticService {
	defaults := DefaultConfig()
	if config.MaxResults <= 0 {
		config.MaxResults = defaults.MaxResults
	}
	if config.TextCollection == "" {
		config.TextCollection = defaults.TextCollection
	}
	if config.ImageCollection == "" {
		config.ImageCollection = defaults.ImageCollection
	}

	return &SemanticService{embedder: embedder, store: store, config: config}
}

// Collection returns the collection searched for mode
func (s *SemanticService) Collection(mode models.Mode) (string, error) {
	switch mode {
	case models.ModeText:
		return s.config.TextCollection, nil
	case models.ModeImage:
		return s.config.ImageCollection, nil
	}
	return "", fmt.Errorf("no collection for %s: %w", mode, models.ErrUnknownMode)
}

// SemanticSearch returns the nearest chunks or images for query. A blank
// query matches nothing and is not sent to the embedder.
func (s *SemanticService) SemanticSearch(ctx context.Context, mode models.Mode, query string) (models.ResultSet, error) {
	collection, err := s.Collection(mode)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(query) == "" {
		return models.ResultSet{models.SemanticCategory: []models.Result{}}, nil
	}

	start := time.Now()

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := s.store.Search(ctx, collection, embedding, s.config.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", collection, err)
	}

	results := make([]models.Result, 0, len(hits))
	for _, hit := range hits {
		if s.config.ScoreThreshold > 0 && float64(hit.Score) < s.config.ScoreThreshold {
			continue
		}
		results = append(results, models.Result{
			Path:     hit.Payload.Path,
			Content:  hit.Payload.Content,
			Distance: Distance(hit.Score),
		})
	}

	logrus.WithFields(logrus.Fields{
		"mode":       mode.String(),
		"collection": collection,
		"hits":       len(hits),
		"results":    len(results),
		"took":       time.Since(start),
	}).Debug("Semantic search complete")

	return models.ResultSet{models.SemanticCategory: results}, nil
}

// Distance converts a cosine similarity into a non-negative distance
func Distance(score float32) float64 {
	d := 1 - float64(score)
	if d < 0 {
		return 0
	}
	return d
}
