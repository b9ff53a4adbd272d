package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/friengo/friengo/internal/service"
)

// CloseHandler handles the /close command: it unpins the poll message,
// closes the poll and posts the podium plus the detailed breakdown.
type CloseHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewCloseHandler(svc *service.Service, logger *logrus.Logger) *CloseHandler {
	return &CloseHandler{svc: svc, logger: logger}
}

func (h *CloseHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
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

	if poll.MessageID != nil {
		if err := unpinMessage(bot, chatID, *poll.MessageID); err != nil {
			h.logger.Warnf("Failed to unpin poll message %d: %v", *poll.MessageID, err)
		}
	}

	results, err := h.svc.ClosePoll(ctx, poll.ID)
	if err != nil {
		return fmt.Errorf("close poll: %w", err)
	}
	if results == nil {
		// Someone else closed it between the lookup and now.
		reply(bot, message, "📝 There is no active poll in this chat.")
		return nil
	}

	reply(bot, message, podiumMessage(results))

	detailed, err := h.svc.DetailedStats(ctx, poll.ID)
	if err != nil {
		return fmt.Errorf("detailed stats: %w", err)
	}
	if detailed != nil {
		for _, text := range detailedResultsMessages(detailed) {
			reply(bot, message, text)
		}
	}

	return nil
}
