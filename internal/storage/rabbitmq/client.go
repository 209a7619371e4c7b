package rabbitmq

import (
	"fmt"
	"time"

	"github.com/ilindan-dev/webhook-notifier/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// NewConnection dials the broker once; the API publisher and the worker
// consumers each open their own channels on it.
func NewConnection(cfg *config.Config) (*amqp.Connection, error) {
	props := amqp.NewConnectionProperties()
	props.SetClientConnectionName("webhook-notifier")

	conn, err := amqp.DialConfig(cfg.RabbitMQ.DSN, amqp.Config{
		Heartbeat:  10 * time.Second,
		Locale:     "en_US",
		Properties: props,
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: failed to connect: %w", err)
	}
	return conn, nil
}
