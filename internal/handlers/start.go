package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/friengo/friengo/internal/service"
)

// StartHandler handles the /start command
type StartHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewStartHandler(svc *service.Service, logger *logrus.Logger) *StartHandler {
	return &StartHandler{svc: svc, logger: logger}
}

func (h *StartHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()
	if _, err := h.svc.EnsureUser(ctx, message.From.ID, message.From.UserName, message.From.FirstName, message.From.LastName); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	welcome := "👋 Hi! I help groups of friends pick a day to meet up!\n\n" +
		"👤 Use /join to sign up for notifications\n" +
		"🗳 Use /vote to start a poll over the next weekends\n" +
		"📢 Use /ping to nudge friends who have not voted yet\n" +
		"🏁 Use /close to finish the poll and see the results\n" +
		"❓ Use /help for the full command list\n\n" +
		"Let's get that meetup scheduled! 🚀"

	reply(bot, message, welcome)
	return nil
}
