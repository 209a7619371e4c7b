package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
	repo "github.com/ilindan-dev/webhook-notifier/internal/domain/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Ensure RabbitMQQueue implements the repository interface at compile time.
var _ repo.NotificationQueue = (*RabbitMQQueue)(nil)

// Constants for our RabbitMQ topology.
const (
	NotificationsExchange = "notifications.exchange"
	NotificationsQueue    = "notifications.queue.dispatch"

	Direct = "direct"
)

// publisher is the part of *amqp.Channel used to publish.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQQueue implements the NotificationQueue interface. It acts as a PUBLISHER.
type RabbitMQQueue struct {
	ch     *amqp.Channel
	pub    publisher
	logger zerolog.Logger
}

// NewRabbitMQQueue creates a new instance of the RabbitMQQueue publisher.
// It receives a shared amqp.Connection to create its own channel.
func NewRabbitMQQueue(conn *amqp.Connection, logger *zerolog.Logger) (*RabbitMQQueue, error) {
	channel, err := conn.Channel()
	if err != nil {
		logger.Error().Err(err).Msg("storage: rabbitMQ: New: Failed to open a channel")
		return nil, fmt.Errorf("storage: rabbitMQ: New: Failed to open a channel: %w", err)
	}

	queue := &RabbitMQQueue{
		ch:     channel,
		pub:    channel,
		logger: logger.With().Str("component", "rabbitmq_publisher").Logger(),
	}

	if err = queue.setupTopology(); err != nil {
		queue.logger.Error().Err(err).Msg("storage: rabbitMQ: New: Failed to setup topology")
		_ = channel.Close()
		return nil, fmt.Errorf("storage: rabbitMQ: New: Failed to setup topology: %w", err)
	}

	return queue, nil
}

// setupTopology declares the exchange and queue and binds them.
func (q *RabbitMQQueue) setupTopology() error {
	q.logger.Info().Msg("setting up rabbitmq topology")

	if err := q.ch.ExchangeDeclare(NotificationsExchange, Direct, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", NotificationsExchange, err)
	}
	if _, err := q.ch.QueueDeclare(NotificationsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", NotificationsQueue, err)
	}
	if err := q.ch.QueueBind(NotificationsQueue, "", NotificationsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s to exchange %s: %w", NotificationsQueue, NotificationsExchange, err)
	}

	q.logger.Info().Msg("rabbitmq topology setup successful")
	return nil
}

// Publish enqueues a notification for the worker.
func (q *RabbitMQQueue) Publish(ctx context.Context, n *model.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		q.logger.Error().Err(err).Stringer("id", n.ID).Msg("failed to marshal notification")
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    n.ID.String(),
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := q.pub.PublishWithContext(ctx, NotificationsExchange, "", false, false, msg); err != nil {
		q.logger.Error().Err(err).Stringer("id", n.ID).Msg("failed to publish notification")
		return fmt.Errorf("%w: %v", repo.ErrQueueUnavailable, err)
	}
	return nil
}

// Close gracefully shuts down the channel. The connection is managed by Fx.
func (q *RabbitMQQueue) Close() error {
	if q.ch != nil {
		return q.ch.Close()
	}
	return nil
}
