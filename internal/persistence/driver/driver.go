// Package driver selects a persistence backend from configuration.
package driver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/hostel-dashboard/internal/config"
	"github.com/example/hostel-dashboard/internal/persistence"
	"github.com/example/hostel-dashboard/internal/persistence/memory"
	"github.com/example/hostel-dashboard/internal/persistence/postgres"
	"github.com/example/hostel-dashboard/internal/persistence/redis"
	"github.com/example/hostel-dashboard/internal/persistence/s3"
	"github.com/example/hostel-dashboard/internal/persistence/sqlite"
)

// Open returns the backend named by cfg.StorageDriver.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (persistence.Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("storage_driver", string(cfg.StorageDriver))

	var (
		backend persistence.Backend
		err     error
	)
	switch cfg.StorageDriver {
	case persistence.DriverMemory:
		backend = memory.New()
	case persistence.DriverSQLite:
		backend, err = sqlite.Open(ctx, sqlite.DefaultConfig(cfg.SQLiteDSN))
	case persistence.DriverPostgres:
		backend, err = postgres.Open(ctx, cfg.PostgresDSN)
	case persistence.DriverRedis:
		backend, err = redis.Open(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case persistence.DriverS3:
		backend, err = s3.New(ctx, s3.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("%w: %q", persistence.ErrUnknownDriver, cfg.StorageDriver)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to open storage backend", "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "storage backend opened")
	return backend, nil
}
