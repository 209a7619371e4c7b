package notifiers

import (
	"fmt"

	"github.com/ilindan-dev/webhook-notifier/internal/config"
	"github.com/ilindan-dev/webhook-notifier/internal/webhook"
	"github.com/rs/zerolog"
)

// ModeLogOnly replaces network delivery with logging.
const ModeLogOnly = "log_only"

// NewEndpointDispatcher picks the webhook dispatcher for the configured mode.
func NewEndpointDispatcher(cfg *config.Config, logger *zerolog.Logger, wd *webhook.Dispatcher) EndpointDispatcher {
	if cfg.Notifiers.Mode == ModeLogOnly {
		logger.Info().Str("mode", cfg.Notifiers.Mode).Msg("webhook dispatch replaced by log dispatcher")
		return NewLogDispatcher(logger)
	}
	return wd
}

// NewMirrors creates the mirror notifiers enabled in the config.
// No mirrors are created in "log_only" mode.
func NewMirrors(cfg *config.Config, logger *zerolog.Logger) ([]Notifier, error) {
	log := logger.With().Str("component", "mirrors").Logger()
	if cfg.Notifiers.Mode == ModeLogOnly {
		return nil, nil
	}

	var mirrors []Notifier
	if cfg.Notifiers.Email.Host != "" && len(cfg.Notifiers.Email.To) > 0 {
		mirrors = append(mirrors, NewEmailNotifier(cfg.Notifiers.Email, logger))
		log.Info().Msg("email mirror enabled")
	}
	if cfg.Notifiers.Telegram.BotToken != "" {
		tgNotifier, err := NewTelegramNotifier(cfg.Notifiers.Telegram, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram notifier: %w", err)
		}
		mirrors = append(mirrors, tgNotifier)
		log.Info().Int64("chat_id", cfg.Notifiers.Telegram.ChatID).Msg("telegram mirror enabled")
	}
	return mirrors, nil
}
