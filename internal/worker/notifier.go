// Package worker holds background processes that consume service events.
package worker

import (
	"context"
	"fmt"

	"launchpad_backend/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type NotifierConfig struct {
	BotToken string
	ChatID   int64
	Debug    bool
}

// Notifier announces recorded deposits to a Telegram channel. It is strictly
// informational: a failed announcement is logged and dropped.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	events <-chan service.DepositEvent
	logger *zap.Logger
}

func NewNotifier(config NotifierConfig, events <-chan service.DepositEvent, logger *zap.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}
	bot.Debug = config.Debug

	return &Notifier{
		bot:    bot,
		chatID: config.ChatID,
		events: events,
		logger: logger.Named("notifier"),
	}, nil
}

func (n *Notifier) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-n.events:
			if !ok {
				return
			}
			if err := n.announce(event); err != nil {
				n.logger.Warn("failed to announce deposit",
					zap.String("tx_id", event.TxID),
					zap.Error(err))
			}

		case <-ctx.Done():
			return
		}
	}
}

func (n *Notifier) announce(event service.DepositEvent) error {
	text := fmt.Sprintf("New deposit of %s into the %s sale (project %s)",
		event.UiAmount, event.TokenTicker, event.ProjectID)

	msg := tgbotapi.NewMessage(n.chatID, text)
	_, err := n.bot.Send(msg)
	return err
}
