package repository

import (
	"context"
	"fmt"

	"goaltracker/internal/config"
	"goaltracker/internal/db"
)

// Open builds the store for the backend cfg selected. It does not migrate.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite, config.BackendSQL:
		gormDB, err := db.Open(cfg)
		if err != nil {
			return nil, err
		}
		return NewGormStore(gormDB), nil
	case config.BackendDynamoDB:
		client, err := NewDynamoClient(ctx, cfg.DynamoRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, err
		}
		return NewDynamoStore(client, cfg.DynamoTablePrefix), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
