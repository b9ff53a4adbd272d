package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Bot wraps the Telegram bot API
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *logrus.Logger
	router *Router
}

// NewBot creates a new Telegram bot instance
func NewBot(token string, logger *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Infof("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:    api,
		logger: logger,
		router: NewRouter(logger),
	}, nil
}

// Start starts the bot with long polling
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Bot started with long polling")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Stopping bot...")
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			go b.handleUpdate(update)
		}
	}
}

// handleUpdate processes incoming updates
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("Panic in update handler: %v", r)
		}
	}()

	if update.Message != nil {
		b.router.HandleMessage(b.api, update.Message)
	} else if update.CallbackQuery != nil {
		b.router.HandleCallbackQuery(b.api, update.CallbackQuery)
	}
}

// SendMessage sends a message to a chat
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// RegisterCommand registers a command handler on the router
func (b *Bot) RegisterCommand(command string, handler CommandHandler) {
	b.router.RegisterCommand(command, handler)
}

// RegisterCallback registers the handler for inline keyboard presses
func (b *Bot) RegisterCallback(handler CallbackHandler) {
	b.router.RegisterCallback(handler)
}
