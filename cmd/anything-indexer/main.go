package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrew/anything-search/pkg/app"
	"github.com/andrew/anything-search/pkg/config"
	"github.com/andrew/anything-search/pkg/logging"
	"github.com/andrew/anything-search/pkg/vector"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	contentDir := flag.String("content-dir", cfg.MediaRoot, "Directory containing content files")
	recreate := flag.Bool("recreate", false, "Recreate the collections if they exist")
	flag.StringVar(&cfg.QdrantHost, "qdrant-host", cfg.QdrantHost, "Qdrant server host")
	flag.IntVar(&cfg.QdrantPort, "qdrant-port", cfg.QdrantPort, "Qdrant server gRPC port")
	flag.StringVar(&cfg.EmbedModel, "model", cfg.EmbedModel, "Ollama embedding model")
	flag.IntVar(&cfg.VectorSize, "vector-size", cfg.VectorSize, "Embedding dimension of the model")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug output")
	flag.Parse()

	logging.Init(cfg.Debug)
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	if cfg.VectorStore == vector.StoreMemory {
		logrus.Warn("Indexing into the memory store; points are lost when the indexer exits")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := app.Open(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize search backend")
	}
	defer components.Close()

	stats, err := components.Indexer(cfg, *contentDir, *recreate).Run(ctx)
	if err != nil {
		logrus.WithError(err).Error("Indexing failed")
		components.Close()
		os.Exit(1)
	}

	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	color.Green("Content successfully indexed in Qdrant")
	color.White("  text files: %s  chunks: %s  images: %s  skipped: %s",
		green(stats.TextFiles), green(stats.Chunks), green(stats.Images), yellow(stats.Skipped))
}
