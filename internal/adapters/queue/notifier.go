package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/core"
)

const (
	// VerificationQueue receives one message per email that warrants
	// downstream processing.
	VerificationQueue = "email.verification"

	// RoutingKeyEmailClassified is the routing key for classified-email
	// messages.
	RoutingKeyEmailClassified = "email.classified"
)

// AMQPNotifier dispatches verification-workflow messages over a topic
// exchange. It implements core.WorkflowNotifier.
type AMQPNotifier struct {
	client   *Client
	exchange string
	logger   *zap.Logger
}

// NewAMQPNotifier creates a notifier publishing to the given exchange.
func NewAMQPNotifier(client *Client, exchange string, logger *zap.Logger) *AMQPNotifier {
	return &AMQPNotifier{
		client:   client,
		exchange: exchange,
		logger:   logger,
	}
}

// SetupTopology declares the exchange, the verification queue, and the
// binding between them. Declarations are idempotent.
func (n *AMQPNotifier) SetupTopology() error {
	ch := n.client.Channel()

	if err := ch.ExchangeDeclare(
		n.exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange %q: %w", n.exchange, err)
	}

	if _, err := ch.QueueDeclare(
		VerificationQueue,
		true,  // durable
		false, // auto-deleted
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue %q: %w", VerificationQueue, err)
	}

	if err := ch.QueueBind(
		VerificationQueue,
		RoutingKeyEmailClassified,
		n.exchange,
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind queue %q: %w", VerificationQueue, err)
	}

	n.logger.Info("AMQP topology setup completed",
		zap.String("exchange", n.exchange),
		zap.String("queue", VerificationQueue))
	return nil
}

// NotifyEmailClassified publishes a persistent JSON message triggering the
// verification workflow for one classified email.
func (n *AMQPNotifier) NotifyEmailClassified(ctx context.Context, message *core.VerificationMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// Bound the publish if the caller did not.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	err = n.client.Channel().PublishWithContext(
		ctx,
		n.exchange,
		RoutingKeyEmailClassified,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to exchange %q with routing key %q: %w",
			n.exchange, RoutingKeyEmailClassified, err)
	}

	n.logger.Debug("verification message published",
		zap.String("message_id", message.MessageID),
		zap.String("routing_key", RoutingKeyEmailClassified))
	return nil
}

// Close closes the underlying AMQP client.
func (n *AMQPNotifier) Close() error {
	return n.client.Close()
}
