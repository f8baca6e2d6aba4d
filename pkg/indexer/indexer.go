// Package indexer walks a content directory and loads text chunks and
// images into the collections the searcher reads from.
package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/andrew/anything-search/pkg/llm"
	"github.com/andrew/anything-search/pkg/vector"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	textExtensions  = map[string]bool{".md": true, ".txt": true}
	imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}
)

// Options controls what is indexed and where
type Options struct {
	ContentDir      string
	TextCollection  string
	ImageCollection string
	VectorSize      int
	ChunkSize       int
	ChunkOverlap    int
	BatchSize       int
	Recreate        bool
}

// DefaultOptions returns the chunking and batching used by the indexer CLI
func DefaultOptions() Options {
	return Options{
		ContentDir:      "./content",
		TextCollection:  "anything_text",
		ImageCollection: "anything_image",
		VectorSize:      4096,
		ChunkSize:       400,
		ChunkOverlap:    50,
		BatchSize:       100,
	}
}

// Stats summarises an indexing run
type Stats struct {
	TextFiles  int
	Chunks     int
	Images     int
	Skipped    int
	PointsSent int
}

// Indexer embeds files and upserts them into a vector store
type Indexer struct {
	embedder llm.Embedder
	store    vector.Store
	opts     Options
}

// New creates an Indexer
func New(embedder llm.Embedder, store vector.Store, opts Options) *Indexer {
	defaults := DefaultOptions()
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaults.ChunkSize
	}
	if opts.ChunkOverlap < 0 || opts.ChunkOverlap >= opts.ChunkSize {
		opts.ChunkOverlap = 0
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaults.BatchSize
	}
	return &Indexer{embedder: embedder, store: store, opts: opts}
}

// Run indexes every supported file under ContentDir
func (ix *Indexer) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	for _, name := range []string{ix.opts.TextCollection, ix.opts.ImageCollection} {
		if err := ix.store.EnsureCollection(ctx, name, ix.opts.VectorSize, ix.opts.Recreate); err != nil {
			return stats, fmt.Errorf("failed to setup collection %s: %w", name, err)
		}
	}

	textFiles, imageFiles, err := FindContentFiles(ix.opts.ContentDir)
	if err != nil {
		return stats, fmt.Errorf("error finding content files: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"text_files": len(textFiles),
		"images":     len(imageFiles),
		"dir":        ix.opts.ContentDir,
	}).Info("Processing content files")

	textBatch := newBatch(ix.store, ix.opts.TextCollection, ix.opts.BatchSize, &stats)
	for i, relPath := range textFiles {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		content, err := os.ReadFile(filepath.Join(ix.opts.ContentDir, relPath))
		if err != nil {
			logrus.WithError(err).WithField("path", relPath).Warn("Error reading file, skipping")
			stats.Skipped++
			continue
		}

		chunks := ChunkText(string(content), ix.opts.ChunkSize, ix.opts.ChunkOverlap)
		logrus.WithFields(logrus.Fields{
			"file":   fmt.Sprintf("%d/%d", i+1, len(textFiles)),
			"path":   relPath,
			"bytes":  len(content),
			"chunks": len(chunks),
		}).Info("Indexing text file")

		stats.TextFiles++
		for chunkIndex, chunk := range chunks {
			embedding, err := ix.embedder.EmbedText(ctx, chunk)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{"path": relPath, "chunk": chunkIndex}).Warn("Failed to create embedding")
				stats.Skipped++
				continue
			}

			stats.Chunks++
			err = textBatch.add(ctx, vector.Point{
				ID:      PointID(relPath, chunkIndex),
				Vector:  embedding,
				Payload: vector.Payload{Path: relPath, Content: chunk},
			})
			if err != nil {
				return stats, err
			}
		}
	}
	if err := textBatch.flush(ctx); err != nil {
		return stats, err
	}

	imageBatch := newBatch(ix.store, ix.opts.ImageCollection, ix.opts.BatchSize, &stats)
	for _, relPath := range imageFiles {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		description := ImageDescription(relPath)
		embedding, err := ix.embedder.EmbedText(ctx, description)
		if err != nil {
			logrus.WithError(err).WithField("path", relPath).Warn("Failed to create image embedding")
			stats.Skipped++
			continue
		}

		stats.Images++
		err = imageBatch.add(ctx, vector.Point{
			ID:      PointID(relPath, 0),
			Vector:  embedding,
			Payload: vector.Payload{Path: relPath, Content: description},
		})
		if err != nil {
			return stats, err
		}
	}
	if err := imageBatch.flush(ctx); err != nil {
		return stats, err
	}

	return stats, nil
}

type batch struct {
	store      vector.Store
	collection string
	size       int
	points     []vector.Point
	stats      *Stats
}

func newBatch(store vector.Store, collection string, size int, stats *Stats) *batch {
	return &batch{store: store, collection: collection, size: size, stats: stats}
}

func (b *batch) add(ctx context.Context, p vector.Point) error {
	b.points = append(b.points, p)
	if len(b.points) >= b.size {
		return b.flush(ctx)
	}
	return nil
}

func (b *batch) flush(ctx context.Context) error {
	if len(b.points) == 0 {
		return nil
	}
	logrus.WithFields(logrus.Fields{"collection": b.collection, "points": len(b.points)}).Debug("Upserting batch")
	if err := b.store.Upsert(ctx, b.collection, b.points); err != nil {
		return err
	}
	b.stats.PointsSent += len(b.points)
	b.points = b.points[:0]
	return nil
}

// FindContentFiles returns text and image files under root as sorted
// slash-separated paths relative to root
func FindContentFiles(root string) (textFiles, imageFiles []string, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case textExtensions[ext]:
			textFiles = append(textFiles, rel)
		case imageExtensions[ext]:
			imageFiles = append(imageFiles, rel)
		}
		return nil
	})

	sort.Strings(textFiles)
	sort.Strings(imageFiles)
	return textFiles, imageFiles, err
}

// ChunkText splits text into chunks of chunkSize runes, each overlapping
// the previous one by overlap runes
func ChunkText(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 || chunkSize <= 0 {
		return []string{}
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string
	for start := 0; start < len(runes); start += chunkSize - overlap {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// ImageDescription is the text embedded for an image: the words of its
// directory and file name
func ImageDescription(relPath string) string {
	withoutExt := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	words := strings.FieldsFunc(withoutExt, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return "image: " + strings.ToLower(strings.Join(words, " "))
}

// PointID derives a stable id so re-indexing a file replaces its points
func PointID(relPath string, chunk int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("anything:%s#%d", relPath, chunk))).String()
}
