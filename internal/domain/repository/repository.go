package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
)

var (
	// ErrInvalidNotification is returned when a notification fails validation.
	ErrInvalidNotification = errors.New("invalid notification")
	// ErrQueueUnavailable is returned when a notification cannot be handed to the queue.
	ErrQueueUnavailable = errors.New("notification queue unavailable")
)

// NotificationQueue defines the contract for handing notifications to the worker.
// This provides an abstraction over a broker like RabbitMQ.
type NotificationQueue interface {
	// Publish enqueues a notification for dispatch.
	Publish(ctx context.Context, n *model.Notification) error
}

// DeliveryGuard remembers which notifications have already been dispatched,
// so a redelivered queue message does not fan out twice.
type DeliveryGuard interface {
	// Acquire reports whether the caller is the first to claim the notification ID.
	Acquire(ctx context.Context, id uuid.UUID) (bool, error)
}
