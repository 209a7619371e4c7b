package notifiers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ilindan-dev/webhook-notifier/internal/config"
	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
	"github.com/rs/zerolog"
)

// TelegramNotifier mirrors notifications to a single Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegramNotifier creates a new instance of TelegramNotifier.
func NewTelegramNotifier(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot api: %w", err)
	}
	return newTelegramNotifier(bot, cfg.ChatID, logger), nil
}

func newTelegramNotifier(bot *tgbotapi.BotAPI, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: logger.With().Str("component", "telegram_notifier").Logger(),
	}
}

func (n *TelegramNotifier) Name() string { return "telegram" }

// Send implements the Notifier interface for Telegram.
func (n *TelegramNotifier) Send(_ context.Context, notification *model.Notification) error {
	fullMessage := fmt.Sprintf("*%s*\n\n%s", notification.Subject, notification.Body)

	msg := tgbotapi.NewMessage(n.chatID, fullMessage)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error().Err(err).Stringer("notification_id", notification.ID).Msg("failed to send telegram message")
		return err
	}

	n.logger.Info().Stringer("notification_id", notification.ID).Int64("chat_id", n.chatID).Msg("telegram message sent successfully")
	return nil
}
