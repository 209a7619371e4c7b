package notifiers

import (
	"context"

	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
	"github.com/ilindan-dev/webhook-notifier/internal/webhook"
	"github.com/rs/zerolog"
)

// LogDispatcher is a stand-in EndpointDispatcher for "log_only" mode.
// It logs what would have been posted and reports every segment as delivered,
// without any network I/O.
type LogDispatcher struct {
	logger zerolog.Logger
}

var _ EndpointDispatcher = (*LogDispatcher)(nil)

// NewLogDispatcher creates a new instance of LogDispatcher.
func NewLogDispatcher(logger *zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{
		logger: logger.With().Str("component", "log_dispatcher").Logger(),
	}
}

// Dispatch implements the EndpointDispatcher interface.
func (d *LogDispatcher) Dispatch(_ context.Context, urlList string, data []byte) []model.DispatchResult {
	urls := webhook.SplitURLs(urlList)
	if len(urls) == 0 {
		d.logger.Warn().Msg("webhook url list is empty, nothing to dispatch")
		return nil
	}

	results := make([]model.DispatchResult, 0, len(urls))
	for _, u := range urls {
		d.logger.Info().
			Str("url", webhook.RedactURL(u)).
			Str("payload", string(data)).
			Msg(">>> MOCK SEND: webhook message dispatched")
		results = append(results, model.DispatchResult{URL: u, Success: true, Response: "log_only"})
	}
	return results
}
