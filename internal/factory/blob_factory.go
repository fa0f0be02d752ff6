package factory

import (
	"context"

	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/adapters/blob"
	"github.com/mailmint/inbound/internal/config"
	"github.com/mailmint/inbound/internal/core"
)

// BlobFactory creates attachment stores based on configuration
type BlobFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewBlobFactory creates a new blob factory
func NewBlobFactory(cfg *config.Config, logger *zap.Logger) *BlobFactory {
	return &BlobFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAttachmentStore creates an attachment store based on the
// configuration. Returns nil when off-loading is disabled; the webhook
// handler treats a nil store as "keep attachments inline".
func (f *BlobFactory) CreateAttachmentStore() (core.AttachmentStore, error) {
	blobCfg := f.cfg.GetBlob()
	if !blobCfg.Enabled || blobCfg.Bucket == "" {
		return nil, nil
	}
	return blob.NewS3Store(context.Background(), blobCfg.Bucket, blobCfg.Region, f.logger)
}

// GetOffloadThreshold returns the attachment size above which content is
// off-loaded to blob storage.
func (f *BlobFactory) GetOffloadThreshold() int64 {
	return f.cfg.GetBlob().OffloadThreshold
}
