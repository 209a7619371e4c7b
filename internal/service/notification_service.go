package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
	repo "github.com/ilindan-dev/webhook-notifier/internal/domain/repository"
	"github.com/ilindan-dev/webhook-notifier/internal/host"
	"github.com/ilindan-dev/webhook-notifier/internal/metrics"
	"github.com/rs/zerolog"
)

// NotificationSender delivers a notification to its webhooks.
type NotificationSender interface {
	Send(ctx context.Context, n *model.Notification) (*model.SendOutcome, error)
}

// SubmitInput is a build event as reported by the CI host.
type SubmitInput struct {
	Event       string
	Subject     string
	Body        string
	Recipients  string
	WebhookURLs string
	// Link is an optional build path relative to the host root URL.
	Link      string
	Initiator string
}

// NotificationService encapsulates the business logic for build notifications.
// It orchestrates the queue, the delivery guard and the sender.
type NotificationService struct {
	queue  repo.NotificationQueue
	guard  repo.DeliveryGuard
	sender NotificationSender
	host   host.Context
	logger zerolog.Logger
}

func NewNotificationService(
	queue repo.NotificationQueue,
	guard repo.DeliveryGuard,
	sender NotificationSender,
	h host.Context,
	logger *zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		queue:  queue,
		guard:  guard,
		sender: sender,
		host:   h,
		logger: logger.With().Str("layer", "service").Logger(),
	}
}

// Prepare validates in and materializes it into a Notification.
func (s *NotificationService) Prepare(in SubmitInput) (*model.Notification, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", repo.ErrInvalidNotification)
	}

	body, err := s.renderBody(in.Body, in.Link)
	if err != nil {
		return nil, err
	}
	initiator := in.Initiator
	if initiator == "" {
		initiator = s.host.CurrentUser()
	}
	return model.NewNotification(in.Event, in.Subject, body, in.Recipients, in.WebhookURLs, initiator), nil
}

// Enqueue validates the input and publishes the notification for the worker.
func (s *NotificationService) Enqueue(ctx context.Context, in SubmitInput) (*model.Notification, error) {
	n, err := s.Prepare(in)
	if err != nil {
		s.logger.Warn().Err(err).Msg("rejected notification")
		return nil, err
	}

	if err := s.queue.Publish(ctx, n); err != nil {
		s.logger.Error().Err(err).Stringer("id", n.ID).Msg("failed to publish notification to queue")
		return nil, fmt.Errorf("failed to enqueue notification: %w", err)
	}
	s.logger.Info().Stringer("id", n.ID).Str("event", n.Event).Msg("notification published to queue")
	return n, nil
}

// SendNow validates the input and dispatches it synchronously.
func (s *NotificationService) SendNow(ctx context.Context, in SubmitInput) (*model.SendOutcome, error) {
	n, err := s.Prepare(in)
	if err != nil {
		s.logger.Warn().Err(err).Msg("rejected notification")
		return nil, err
	}
	return s.sender.Send(ctx, n)
}

// Deliver is used by the consumer. A notification ID is dispatched at most
// once while its marker lives; if the guard is unavailable delivery proceeds.
func (s *NotificationService) Deliver(ctx context.Context, n *model.Notification) (*model.SendOutcome, error) {
	first, err := s.guard.Acquire(ctx, n.ID)
	if err != nil {
		s.logger.Error().Err(err).Stringer("id", n.ID).Msg("delivery guard unavailable, dispatching anyway")
	} else if !first {
		s.logger.Warn().Stringer("id", n.ID).Msg("notification already delivered, skipping")
		metrics.IncSend(metrics.SendDuplicate)
		return &model.SendOutcome{NotificationID: n.ID, Skipped: true}, nil
	}
	return s.sender.Send(ctx, n)
}

// renderBody appends links to the build, and to its configuration history when
// the host has that collaborator installed.
func (s *NotificationService) renderBody(body, link string) (string, error) {
	if link == "" {
		return body, nil
	}
	build, err := host.AbsoluteURL(s.host, link)
	if err != nil {
		return "", fmt.Errorf("failed to resolve build link: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(body)
	if body != "" {
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "[View build](%s)", build)

	if _, ok := s.host.LookupCollaboratorPlugin(host.ConfigHistoryPlugin); ok {
		history, err := host.AbsoluteURL(s.host, strings.TrimSuffix(link, "/")+"/"+host.ConfigHistoryPlugin)
		if err != nil {
			return "", fmt.Errorf("failed to resolve config history link: %w", err)
		}
		fmt.Fprintf(&sb, " | [Config history](%s)", history)
	}
	return sb.String(), nil
}
