package queue

import (
	"context"

	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/core"
)

// NoopNotifier discards verification messages. Used when no queue is
// configured, and in tests.
type NoopNotifier struct {
	logger *zap.Logger
}

// NewNoopNotifier creates a notifier that drops all messages.
func NewNoopNotifier(logger *zap.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

// NotifyEmailClassified logs and discards the message.
func (n *NoopNotifier) NotifyEmailClassified(ctx context.Context, message *core.VerificationMessage) error {
	n.logger.Debug("verification message discarded, no queue configured",
		zap.String("message_id", message.MessageID))
	return nil
}
