package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/friengo/friengo/internal/service"
)

// PingHandler handles the /ping command, immediately nagging everyone
// who has not voted in the chat's active poll.
type PingHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewPingHandler(svc *service.Service, logger *logrus.Logger) *PingHandler {
	return &PingHandler{svc: svc, logger: logger}
}

func (h *PingHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()
	chatID := message.Chat.ID

	poll, err := h.svc.ActivePoll(ctx, chatID)
	if err != nil {
		return fmt.Errorf("active poll: %w", err)
	}
	if poll == nil {
		reply(bot, message, "📝 There is no active poll in this chat.")
		return nil
	}

	// The candidate pool is everyone who has ever registered; Telegram
	// does not let bots enumerate chat members.
	candidates, err := h.svc.Users.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	nonVoters, err := h.svc.NonVoters(ctx, poll.ID, candidates)
	if err != nil {
		return fmt.Errorf("non-voters: %w", err)
	}

	deliver := func(chatID, pollID int64, text string) error {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		_, err := bot.Send(msg)
		return err
	}

	status := h.svc.ManualPing(ctx, deliver, chatID, poll.ID, nonVoters)
	h.logger.Infof("Manual ping for poll %d: %s", poll.ID, status)

	if len(nonVoters) == 0 {
		reply(bot, message, status)
	}

	return nil
}
