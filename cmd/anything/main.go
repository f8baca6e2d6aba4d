package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrew/anything-search/pkg/app"
	"github.com/andrew/anything-search/pkg/config"
	"github.com/andrew/anything-search/pkg/logging"
	"github.com/andrew/anything-search/pkg/web"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Address to listen on")
	flag.StringVar(&cfg.MediaRoot, "media-root", cfg.MediaRoot, "Directory gallery images are served from")
	flag.IntVar(&cfg.SearchLimit, "limit", cfg.SearchLimit, "Maximum number of results per search")
	flag.StringVar(&cfg.VectorStore, "store", cfg.VectorStore, "Vector store: qdrant or memory")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug output")
	flag.Parse()

	logging.Init(cfg.Debug)
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := app.Open(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize search backend")
	}
	defer components.Close()

	if _, err := components.PrepareStore(ctx, cfg); err != nil {
		logrus.WithError(err).Warn("Memory store is incomplete")
	}

	srv, err := web.NewServer(components.Searcher(cfg), cfg.MediaRoot)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to build HTTP server")
	}

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		logrus.WithField("addr", cfg.Addr).Info("Starting Anything search UI")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
}
