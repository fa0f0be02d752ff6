package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/adapters/httpserver"
	"github.com/mailmint/inbound/internal/config"
	"github.com/mailmint/inbound/internal/core"
	"github.com/mailmint/inbound/internal/factory"
	"github.com/mailmint/inbound/internal/logging"
	"github.com/mailmint/inbound/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewDedupFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewBlobFactory); err != nil {
		return nil, err
	}

	// Register core pipeline components
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *core.SignatureVerifier {
		return core.NewSignatureVerifier(
			cfg.GetString("webhook.secret"),
			cfg.GetBool("security.insecure_mode"),
			logger,
		)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewPayloadValidator); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewNormalizer); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewClassifierConfig); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.TrustedChecker {
		return whitelist.NewChecker(cfg.GetStringSlice("classifier.trusted_domains"), logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(logger *zap.Logger) *core.Extractor {
		return core.NewExtractor(core.DefaultAmountPatterns(), logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewClassifier); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewPipeline); err != nil {
		return nil, err
	}

	// Register sinks
	if err := container.Provide(func(f *factory.StoreFactory) (core.EmailStore, error) {
		return f.CreateEmailStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.NotifierFactory) (core.WorkflowNotifier, error) {
		return f.CreateWorkflowNotifier()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.DedupFactory) (core.DedupFilter, error) {
		return f.CreateDedupFilter()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.BlobFactory) (core.AttachmentStore, error) {
		return f.CreateAttachmentStore()
	}); err != nil {
		return nil, err
	}

	// Register HTTP layer
	if err := container.Provide(func(
		pipeline *core.Pipeline,
		store core.EmailStore,
		notifier core.WorkflowNotifier,
		attachments core.AttachmentStore,
		dedupFilter core.DedupFilter,
		blobFactory *factory.BlobFactory,
		logger *zap.Logger,
	) *httpserver.WebhookHandler {
		return httpserver.NewWebhookHandler(httpserver.WebhookHandlerParams{
			Pipeline:         pipeline,
			Store:            store,
			Notifier:         notifier,
			Attachments:      attachments,
			Dedup:            dedupFilter,
			OffloadThreshold: blobFactory.GetOffloadThreshold(),
			Logger:           logger,
		})
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(httpserver.NewServer); err != nil {
		return nil, err
	}

	return container, nil
}
