package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/adapters/queue"
	"github.com/mailmint/inbound/internal/config"
	"github.com/mailmint/inbound/internal/core"
)

// NotifierFactory creates workflow notifiers based on configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateWorkflowNotifier creates a workflow notifier based on the
// configuration. The AMQP notifier also declares its topology on creation.
func (f *NotifierFactory) CreateWorkflowNotifier() (core.WorkflowNotifier, error) {
	queueCfg := f.cfg.GetQueue()

	switch queueCfg.Type {
	case "noop":
		return queue.NewNoopNotifier(f.logger), nil
	case "amqp":
		client, err := queue.NewClient(queueCfg.URL, f.logger)
		if err != nil {
			return nil, err
		}
		notifier := queue.NewAMQPNotifier(client, queueCfg.Exchange, f.logger)
		if err := notifier.SetupTopology(); err != nil {
			client.Close()
			return nil, err
		}
		return notifier, nil
	default:
		return nil, fmt.Errorf("unsupported queue type: %s", queueCfg.Type)
	}
}
