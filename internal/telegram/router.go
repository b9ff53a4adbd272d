package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Router handles message routing and command parsing
type Router struct {
	logger   *logrus.Logger
	handlers map[string]CommandHandler
	callback CallbackHandler
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error
}

// CallbackHandler defines the interface for inline keyboard callbacks
type CallbackHandler interface {
	HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery) error
}

// NewRouter creates a new message router
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		logger:   logger,
		handlers: make(map[string]CommandHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback registers the callback query handler
func (r *Router) RegisterCallback(handler CallbackHandler) {
	r.callback = handler
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	r.logger.WithFields(logrus.Fields{
		"chat_id":    message.Chat.ID,
		"user_id":    message.From.ID,
		"username":   message.From.UserName,
		"message_id": message.MessageID,
		"text":       message.Text,
	}).Info("Received message")

	if message.Text == "" || !message.IsCommand() {
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())

	handler, exists := r.handlers[command]
	if !exists {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
		}).Warn("Unknown command")

		unknownMsg := tgbotapi.NewMessage(message.Chat.ID, "❓ Unknown command. Use /help to see available commands.")
		bot.Send(unknownMsg)
		return
	}

	if err := handler.Handle(bot, message, args); err != nil {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
			"error":   err,
		}).Error("Command handler failed")

		errorMsg := tgbotapi.NewMessage(message.Chat.ID, "❌ An error occurred while processing your command. Please try again.")
		bot.Send(errorMsg)
	}
}

// HandleCallbackQuery handles callback queries from inline keyboards
func (r *Router) HandleCallbackQuery(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery) {
	r.logger.WithFields(logrus.Fields{
		"callback_id": query.ID,
		"user_id":     query.From.ID,
		"data":        query.Data,
	}).Info("Received callback query")

	if r.callback == nil {
		return
	}

	if err := r.callback.HandleCallback(bot, query); err != nil {
		r.logger.WithFields(logrus.Fields{
			"callback_id": query.ID,
			"user_id":     query.From.ID,
			"data":        query.Data,
			"error":       err,
		}).Error("Callback handler failed")
	}
}
