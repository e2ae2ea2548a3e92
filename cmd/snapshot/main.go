// Command snapshot exports the saved-paper list to the S3 bucket as gzipped
// JSON and keeps only the newest KEEP_SNAPSHOTS exports.
package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"research-desk/config"
	"research-desk/models"
	"research-desk/providers/notion"
	"research-desk/services"
	"research-desk/storage"
)

type snapshotConfig struct {
	KeepSnapshots int           `envconfig:"KEEP_SNAPSHOTS" default:"4"`
	Prefix        string        `envconfig:"SNAPSHOT_PREFIX" default:"snapshots/"`
	Timeout       time.Duration `envconfig:"SNAPSHOT_TIMEOUT" default:"5m"`
}

// Snapshot is the exported document.
type Snapshot struct {
	TakenAt time.Time      `json:"takenAt"`
	Count   int            `json:"count"`
	Papers  []models.Paper `json:"papers"`
}

// bucket is the part of storage.S3Store used for rotation.
type bucket interface {
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Delete(ctx context.Context, key string) error
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Config load error", zap.Error(err))
	}
	var scfg snapshotConfig
	if err := envconfig.Process("", &scfg); err != nil {
		logger.Fatal("Snapshot config load error", zap.Error(err))
	}
	if !cfg.S3Enabled() {
		logger.Fatal("S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), scfg.Timeout)
	defer cancel()

	saved := services.NewSavedService(cfg, notion.NewClient(cfg, logger), logger)
	papers, err := saved.ListAll(ctx)
	if err != nil {
		logger.Fatal("Failed to fetch saved papers", zap.Error(err))
	}

	now := time.Now().UTC()
	data, err := encodeSnapshot(Snapshot{TakenAt: now, Count: len(papers), Papers: papers})
	if err != nil {
		logger.Fatal("Failed to encode snapshot", zap.Error(err))
	}

	client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		logger.Fatal("S3 client creation failed", zap.Error(err))
	}
	store := storage.NewS3Store(client, cfg.S3Bucket)

	key := snapshotKey(scfg.Prefix, now)
	if err := store.Put(ctx, key, data, "application/gzip"); err != nil {
		logger.Fatal("Snapshot upload failed", zap.Error(err))
	}
	logger.Info("Snapshot uploaded", zap.String("bucket", cfg.S3Bucket), zap.String("key", key), zap.Int("papers", len(papers)))

	removed, err := rotate(ctx, store, scfg.Prefix, scfg.KeepSnapshots, logger)
	if err != nil {
		logger.Fatal("Snapshot rotation failed", zap.Error(err))
	}
	logger.Info("Snapshot run complete", zap.Int("removed", removed))
}

func snapshotKey(prefix string, t time.Time) string {
	return fmt.Sprintf("%ssaved-%s.json.gz", prefix, t.UTC().Format("2006-01-02T15-04-05Z"))
}

func encodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Papers == nil {
		s.Papers = []models.Paper{}
	}
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gz).Encode(s); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rotate deletes everything under prefix except the newest keep objects.
// Failed deletes are logged and skipped.
func rotate(ctx context.Context, b bucket, prefix string, keep int, logger *zap.Logger) (int, error) {
	objects, err := b.List(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if keep < 1 {
		keep = 1
	}
	if len(objects) <= keep {
		logger.Info("No rotation needed", zap.Int("snapshots", len(objects)), zap.Int("keep", keep))
		return 0, nil
	}

	removed := 0
	for _, obj := range objects[keep:] {
		if err := b.Delete(ctx, obj.Key); err != nil {
			logger.Warn("Failed to delete old snapshot", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		logger.Info("Deleted old snapshot", zap.String("key", obj.Key))
		removed++
	}
	return removed, nil
}
