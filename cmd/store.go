package main

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/config"
	"github.com/Shivanand-hulikatti/eventhub/internal/database"
	"github.com/Shivanand-hulikatti/eventhub/internal/logger"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
	"github.com/Shivanand-hulikatti/eventhub/internal/storage"
)

// openSystem builds the configured storage gateway and loads the system from
// it. The returned close func releases the gateway's resources.
func openSystem(ctx context.Context, cfg *config.Config) (*service.EventManagementSystem, func(), error) {
	gateway, closeFn, err := openGateway(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	sys, err := service.New(ctx, gateway, service.Options{
		Admin: service.AdminCredential{
			Username: cfg.Admin.Username,
			Password: cfg.Admin.Password,
			Email:    cfg.Admin.Email,
		},
		ReapproveOnEdit: cfg.ReapproveOnEdit,
	})
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("load system: %w", err)
	}
	return sys, closeFn, nil
}

func openGateway(ctx context.Context, cfg *config.Config) (storage.Gateway, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		store := storage.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database schema: %w", err)
		}
		logger.Info("using postgres store", "host", cfg.Database.Host, "database", cfg.Database.DBName)
		return store, pool.Close, nil

	case config.StoreMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		return storage.NewMemoryStore(), func() {}, nil

	default:
		logger.Info("using file store", "users_file", cfg.UsersFile, "events_file", cfg.EventsFile)
		return storage.NewFileStore(cfg.UsersFile, cfg.EventsFile), func() {}, nil
	}
}
