package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/andrew/anything-search/pkg/app"
	"github.com/andrew/anything-search/pkg/config"
	"github.com/andrew/anything-search/pkg/logging"
	"github.com/andrew/anything-search/pkg/models"
	"github.com/andrew/anything-search/pkg/render"
	"github.com/fatih/color"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	searchType := flag.String("type", "Text", "Search type: Text or Image")
	flag.IntVar(&cfg.SearchLimit, "limit", cfg.SearchLimit, "Maximum number of results")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug output")
	flag.Parse()

	logging.Init(cfg.Debug)

	mode, err := models.ParseMode(*searchType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	query := strings.Join(flag.Args(), " ")

	ctx := context.Background()
	components, err := app.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing search backend: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	if _, err := components.PrepareStore(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	results, err := components.Searcher(cfg).SemanticSearch(ctx, mode, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Make sure Qdrant and Ollama are running and the indexer has been run.")
		components.Close()
		os.Exit(1)
	}

	printResults(mode, results)
}

func printResults(mode models.Mode, results models.ResultSet) {
	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Println(boldGreen(fmt.Sprintf("%s Search Results (%d)", mode.Label(), results.Len())))
	switch mode {
	case models.ModeImage:
		for _, item := range render.FormatGallery(results) {
			fmt.Println(item.Caption)
		}
	default:
		for _, r := range results.Flatten() {
			fmt.Println(boldCyan(render.Caption(r)))
			fmt.Println(r.Content)
			fmt.Println()
		}
	}
}
