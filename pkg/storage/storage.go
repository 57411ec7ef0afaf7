package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/litebase/pagedb/pkg/config"
)

// Create the page store selected by the configured storage driver.
func NewPageStore(ctx context.Context, c *config.Config) (PageStore, error) {
	slog.Debug("Opening page store", "driver", c.StorageDriver, "page_size", c.PageSize)

	switch c.StorageDriver {
	case config.StorageDriverMemory:
		return NewMemoryPageStore(c.PageSize), nil
	case config.StorageDriverLocal:
		return NewLocalPageStore(c.DataPath, c.PageSize)
	case config.StorageDriverObject:
		client, err := NewS3Client(ctx, c)

		if err != nil {
			return nil, err
		}

		store, err := NewObjectPageStore(ctx, client, c.StorageBucket, c.StoragePrefix, c.PageSize)

		if err != nil {
			return nil, err
		}

		return store, nil
	}

	return nil, fmt.Errorf("unknown storage driver: %s", c.StorageDriver)
}
