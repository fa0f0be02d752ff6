package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/adapters/storage"
	"github.com/mailmint/inbound/internal/config"
	"github.com/mailmint/inbound/internal/core"
)

// StoreFactory creates email stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateEmailStore creates an email store based on the configuration
func (f *StoreFactory) CreateEmailStore() (core.EmailStore, error) {
	storeType := f.cfg.GetString("storage.type")

	switch storeType {
	case "memory":
		return storage.NewMemoryStore(f.logger), nil
	case "postgres":
		pg := f.cfg.GetPostgres()
		return storage.NewPostgresStore(
			context.Background(),
			pg.Host, pg.Port, pg.User, pg.Password, pg.DBName,
			f.cfg.GetInt("storage.max_body_size"),
			f.logger,
		)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storeType)
	}
}
