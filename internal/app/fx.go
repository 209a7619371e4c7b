package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/ilindan-dev/webhook-notifier/internal/config"
	"github.com/ilindan-dev/webhook-notifier/internal/consumer"
	deliveryHTTP "github.com/ilindan-dev/webhook-notifier/internal/delivery/http"
	repo "github.com/ilindan-dev/webhook-notifier/internal/domain/repository"
	"github.com/ilindan-dev/webhook-notifier/internal/host"
	"github.com/ilindan-dev/webhook-notifier/internal/logger"
	"github.com/ilindan-dev/webhook-notifier/internal/notifiers"
	"github.com/ilindan-dev/webhook-notifier/internal/service"
	"github.com/ilindan-dev/webhook-notifier/internal/storage/rabbitmq"
	"github.com/ilindan-dev/webhook-notifier/internal/storage/redis"
	"github.com/ilindan-dev/webhook-notifier/internal/webhook"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// CommonModule provides dependencies that are shared between the API and Worker applications.
var CommonModule = fx.Options(
	fx.Provide(
		// Core components
		config.NewConfig,
		logger.NewLogger,
		fx.Annotate(host.NewStatic, fx.As(new(host.Context))),

		// Dispatch pipeline
		webhook.NewDispatcher,
		notifiers.NewEndpointDispatcher,
		notifiers.NewMirrors,
		fx.Annotate(notifiers.NewSender, fx.As(new(service.NotificationSender))),

		// Storage Layer - concrete implementations
		redis.NewClient,
		rabbitmq.NewConnection,
		fx.Annotate(redis.NewDeliveryGuard, fx.As(new(repo.DeliveryGuard))),
		fx.Annotate(rabbitmq.NewRabbitMQQueue, fx.As(fx.Self()), fx.As(new(repo.NotificationQueue))),

		// Service Layer
		service.NewNotificationService,
	),

	fx.Invoke(registerCloseHooks),
)

// registerCloseHooks releases pooled connections on shutdown.
func registerCloseHooks(
	lc fx.Lifecycle,
	dispatcher *webhook.Dispatcher,
	queue *rabbitmq.RabbitMQQueue,
	conn *amqp.Connection,
	rdb *goredis.Client,
	logger *zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			dispatcher.Close()
			var errs []error
			if err := queue.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
				errs = append(errs, err)
			}
			if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
				errs = append(errs, err)
			}
			if err := rdb.Close(); err != nil {
				errs = append(errs, err)
			}
			err := errors.Join(errs...)
			if err != nil {
				logger.Error().Err(err).Msg("failed to release connections")
			}
			return err
		},
	})
}

// APIModule defines the Fx module for the HTTP API application.
var APIModule = fx.Options(
	CommonModule, // Include all shared components
	fx.Provide(
		// API-specific components
		deliveryHTTP.NewHandlers,
		deliveryHTTP.NewServer,
	),

	fx.Invoke(func(server *deliveryHTTP.Server, lc fx.Lifecycle, logger *zerolog.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Fatal().Err(err).Msg("http server stopped unexpectedly")
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
		})
	}),
)

// WorkerModule defines the Fx module for the background worker application.
var WorkerModule = fx.Options(
	CommonModule, // Include all shared components
	fx.Provide(
		// Worker-specific components
		func(s *service.NotificationService) consumer.Deliverer { return s },
		consumer.New,
	),
	fx.Invoke(func(c *consumer.Consumer, lc fx.Lifecycle) {
		// The OnStart context expires once startup finishes, so the consumer gets its own.
		runCtx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					defer close(done)
					c.Start(runCtx)
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				cancel()
				select {
				case <-done:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		})
	}),
)
