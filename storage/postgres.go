package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"research-desk/models"
)

// PostgresCache stores entries in the lookup_cache table.
type PostgresCache struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewPostgresCache connects to dsn and migrates the cache table.
func NewPostgresCache(dsn string, log *zap.Logger) (*PostgresCache, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect cache database: %w", err)
	}
	return NewPostgresCacheFromDB(db, log)
}

func NewPostgresCacheFromDB(db *gorm.DB, log *zap.Logger) (*PostgresCache, error) {
	if err := db.AutoMigrate(&models.CacheEntry{}); err != nil {
		return nil, fmt.Errorf("migrate cache table: %w", err)
	}
	return &PostgresCache{db: db, logger: log, now: time.Now}, nil
}

func (c *PostgresCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var entry models.CacheEntry
	err := c.db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, c.now()).
		Take(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.logger.Warn("Postgres cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return entry.Payload, true
}

func (c *PostgresCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	entry := models.CacheEntry{Key: key, Payload: value, ExpiresAt: c.now().Add(ttl)}
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		c.logger.Warn("Postgres cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Purge deletes expired rows and returns how many were removed.
func (c *PostgresCache) Purge(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).Where("expires_at <= ?", c.now()).Delete(&models.CacheEntry{})
	return res.RowsAffected, res.Error
}
