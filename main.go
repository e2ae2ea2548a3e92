package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"research-desk/api"
	"research-desk/config"
	"research-desk/providers"
	"research-desk/providers/arxiv"
	"research-desk/providers/n8n"
	"research-desk/providers/notion"
	"research-desk/services"
	"research-desk/storage"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func init() {
	prometheus.MustRegister(
		api.RequestDuration,
		providers.UpstreamRequests,
		services.SavedPapers,
	)
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logging, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Lookup cache
	cache, err := storage.NewCache(cfg, logging)
	if err != nil {
		logging.Fatal("Cache setup failed", zap.String("backend", cfg.CacheBackend), zap.Error(err))
	}
	if pg, ok := cache.(*storage.PostgresCache); ok {
		if n, err := pg.Purge(ctx); err != nil {
			logging.Warn("Cache purge failed", zap.Error(err))
		} else {
			logging.Info("Expired cache entries purged", zap.Int64("rows", n))
		}
	}
	if rc, ok := cache.(*storage.RedisCache); ok {
		defer rc.Close()
	}
	logging.Info("Lookup cache ready", zap.String("backend", cfg.CacheBackend), zap.Duration("ttl", cfg.CacheTTL))

	// Optional PDF mirror
	var mirror services.ObjectStore
	if cfg.S3Enabled() {
		s3Client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		mirror = storage.NewS3Store(s3Client, cfg.S3Bucket)
		logging.Info("PDF mirror enabled", zap.String("bucket", cfg.S3Bucket))
	}

	// Providers
	notionClient := notion.NewClient(cfg, logging)
	arxivFetcher := arxiv.NewFetcher(cfg, logging)
	n8nFetcher := n8n.NewFetcher(cfg, logging)
	if cfg.NotionToken == "" {
		logging.Warn("NOTION_TOKEN not set, Notion-backed routes will report not configured")
	}
	if !n8nFetcher.Configured() {
		logging.Warn("N8N_WEBHOOK_URL not set, area papers will report not configured")
	}

	router := api.NewRouter(api.Services{
		Areas:       services.NewAreaService(cfg, notionClient, logging),
		AreaPapers:  services.NewAreaPaperService(n8nFetcher, cache, cfg.CacheTTL, logging),
		Search:      services.NewSearchService(arxivFetcher, logging),
		Download:    services.NewDownloadService(cfg, mirror, logging),
		Assumptions: services.NewAssumptionService(cfg, notionClient, logging),
		Content:     services.NewContentService(cfg, notionClient, logging),
		Keywords:    services.NewKeywordService(cfg, notionClient, logging),
		Feed:        services.NewFeedService(cfg, notionClient, logging),
		Saved:       services.NewSavedService(cfg, notionClient, logging),
		Sources:     services.NewSourceService(cfg, notionClient, logging),
	}, logging)

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("Graceful shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
	logging.Info("Server stopped")
}
