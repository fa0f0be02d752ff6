package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/adapters/dedup"
	"github.com/mailmint/inbound/internal/config"
	"github.com/mailmint/inbound/internal/core"
)

// DedupFactory creates dedup filters based on configuration
type DedupFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDedupFactory creates a new dedup factory
func NewDedupFactory(cfg *config.Config, logger *zap.Logger) *DedupFactory {
	return &DedupFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDedupFilter creates a dedup filter based on the configuration
func (f *DedupFactory) CreateDedupFilter() (core.DedupFilter, error) {
	dedupType := f.cfg.GetString("dedup.type")
	ttl, err := f.cfg.GetDuration("dedup.ttl")
	if err != nil {
		return nil, fmt.Errorf("invalid dedup TTL: %w", err)
	}

	switch dedupType {
	case "memory":
		return dedup.NewMemoryFilter(ttl), nil
	case "redis":
		redisCfg := f.cfg.GetRedis()
		return dedup.NewRedisFilter(
			context.Background(),
			redisCfg.Addr, redisCfg.Password, redisCfg.DB,
			ttl,
			f.logger,
		)
	default:
		return nil, fmt.Errorf("unsupported dedup type: %s", dedupType)
	}
}
