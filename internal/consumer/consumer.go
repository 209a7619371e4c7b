package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ilindan-dev/webhook-notifier/internal/config"
	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
	"github.com/ilindan-dev/webhook-notifier/internal/storage/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// defaultWorkerCount is the default number of worker goroutines in the pool.
const defaultWorkerCount = 5

// Deliverer dispatches a queued notification.
type Deliverer interface {
	Deliver(ctx context.Context, n *model.Notification) (*model.SendOutcome, error)
}

// acknowledger is the part of amqp.Delivery the handler settles messages with.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Consumer listens to a RabbitMQ queue and processes messages using a pool of workers.
// Every message gets exactly one dispatch pass; failed endpoints are not retried.
type Consumer struct {
	logger      zerolog.Logger
	conn        *amqp.Connection // Raw connection to create channels for each worker.
	deliverer   Deliverer
	workerCount int
}

// New creates a new instance of Consumer.
func New(
	cfg *config.Config,
	logger *zerolog.Logger,
	conn *amqp.Connection,
	deliverer Deliverer,
) *Consumer {
	workers := cfg.Consumer.Workers
	if workers <= 0 {
		workers = defaultWorkerCount
	}
	return &Consumer{
		logger:      logger.With().Str("component", "consumer").Logger(),
		conn:        conn,
		deliverer:   deliverer,
		workerCount: workers,
	}
}

// Start launches the worker pool to process messages from the queue.
// This is a blocking method that will run until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.logger.Info().Int("count", c.workerCount).Msg("Starting worker pool")
	var wg sync.WaitGroup

	for i := 0; i < c.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.runWorker(ctx, workerID)
		}(i + 1)
	}

	wg.Wait()
	c.logger.Info().Msg("Consumer stopped")
}

// runWorker contains the main logic for a single worker goroutine.
func (c *Consumer) runWorker(ctx context.Context, workerID int) {
	logger := c.logger.With().Int("worker_id", workerID).Logger()
	logger.Info().Msg("Worker started")

	ch, err := c.conn.Channel()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open channel for worker")
		return
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		logger.Error().Err(err).Msg("Failed to set QoS")
		return
	}

	msgs, err := ch.Consume(
		rabbitmq.NotificationsQueue,
		fmt.Sprintf("worker-%d", workerID), // A unique consumer tag.
		false,                              // autoAck: false. We will manually acknowledge messages.
		false,                              // exclusive
		false,                              // noLocal
		false,                              // noWait
		nil,                                // args
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to register a consumer")
		return
	}

	logger.Info().Msg("Worker is waiting for messages")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Worker stopping due to context cancellation")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Warn().Msg("Message channel closed by RabbitMQ, worker stopping")
				return
			}
			c.handleMessage(ctx, msg.Body, msg, logger)
		}
	}
}

// handleMessage processes a single message from the queue.
func (c *Consumer) handleMessage(ctx context.Context, body []byte, ack acknowledger, logger zerolog.Logger) {
	var notification model.Notification
	if err := json.Unmarshal(body, &notification); err != nil {
		logger.Error().Err(err).Msg("Failed to unmarshal message, rejecting")
		_ = ack.Nack(false, false)
		return
	}

	log := logger.With().Stringer("notification_id", notification.ID).Logger()
	log.Info().Str("event", notification.Event).Msg("Processing notification")

	// Shutdown must not cut an accepted delivery short; the dispatcher timeout bounds it.
	outcome, err := c.deliverer.Deliver(context.WithoutCancel(ctx), &notification)
	if err != nil {
		// Only an unencodable payload gets here; redelivery would fail the same way.
		log.Error().Err(err).Msg("Failed to build notification, dropping")
		_ = ack.Nack(false, false)
		return
	}

	log.Info().
		Bool("skipped", outcome.Skipped).
		Int("succeeded", outcome.Succeeded()).
		Int("failed", outcome.Failed()).
		Msg("Notification processed")
	_ = ack.Ack(false)
}
