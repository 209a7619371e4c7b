package notifiers

import (
	"context"
	"fmt"
	"time"

	"github.com/ilindan-dev/webhook-notifier/internal/config"
	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
	"github.com/ilindan-dev/webhook-notifier/internal/host"
	"github.com/ilindan-dev/webhook-notifier/internal/mention"
	"github.com/ilindan-dev/webhook-notifier/internal/metrics"
	"github.com/ilindan-dev/webhook-notifier/internal/payload"
	"github.com/rs/zerolog"
)

// Sender turns a notification into a markdown webhook message and fans it out.
// It makes a single pass over the endpoints; it never retries.
type Sender struct {
	dispatcher EndpointDispatcher
	mirrors    []Notifier
	parser     mention.Parser
	host       host.Context
	logger     zerolog.Logger
}

// NewSender creates a new Sender.
func NewSender(
	cfg *config.Config,
	logger *zerolog.Logger,
	h host.Context,
	dispatcher EndpointDispatcher,
	mirrors []Notifier,
) *Sender {
	return &Sender{
		dispatcher: dispatcher,
		mirrors:    mirrors,
		parser:     mention.Parser{PerToken: cfg.Mention.PerToken},
		host:       h,
		logger:     logger.With().Str("component", "sender").Logger(),
	}
}

// Send dispatches n to every webhook URL and then to the mirror notifiers.
// Endpoint failures are recorded in the outcome, never returned as an error;
// the error is reserved for a payload that cannot be encoded.
func (s *Sender) Send(ctx context.Context, n *model.Notification) (*model.SendOutcome, error) {
	outcome := &model.SendOutcome{NotificationID: n.ID, Results: []model.DispatchResult{}}
	log := s.logger.With().
		Stringer("notification_id", n.ID).
		Str("event", n.Event).
		Str("initiator", s.initiator(n)).
		Str("host", s.host.RootURL()).
		Logger()

	if n.WebhookURLs == "" {
		log.Warn().Msg("webhook url is empty, notification skipped")
		outcome.Skipped = true
		metrics.IncSend(metrics.SendSkipped)
		return outcome, nil
	}

	spec := s.parser.Parse(n.Recipients)
	data, err := payload.Build(n, spec)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}

	outcome.Results = s.dispatcher.Dispatch(ctx, n.WebhookURLs, data)
	outcome.Mirrors = s.sendMirrors(ctx, n, log)
	metrics.IncSend(metrics.SendDispatched)

	log.Info().
		Int("succeeded", outcome.Succeeded()).
		Int("failed", outcome.Failed()).
		Int("mirrors", len(outcome.Mirrors)).
		Msg("notification dispatched")
	return outcome, nil
}

func (s *Sender) initiator(n *model.Notification) string {
	if n.Initiator != "" {
		return n.Initiator
	}
	return s.host.CurrentUser()
}

func (s *Sender) sendMirrors(ctx context.Context, n *model.Notification, log zerolog.Logger) []model.DispatchResult {
	if len(s.mirrors) == 0 {
		return nil
	}
	results := make([]model.DispatchResult, 0, len(s.mirrors))
	for _, m := range s.mirrors {
		start := time.Now()
		res := model.DispatchResult{URL: m.Name()}
		if err := m.Send(ctx, n); err != nil {
			res.Error = err.Error()
			log.Warn().Err(err).Str("notifier", m.Name()).Msg("mirror notifier failed")
		} else {
			res.Success = true
		}
		res.Duration = time.Since(start)
		metrics.ObserveMirror(m.Name(), res.Success)
		results = append(results, res)
	}
	return results
}
