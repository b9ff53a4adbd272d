package handlers

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/friengo/friengo/internal/service"
)

// CreatePollHandler handles the /vote command: it starts a new weekend
// poll, posts the poll message with its voting keyboard and pins it.
type CreatePollHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewCreatePollHandler(svc *service.Service, logger *logrus.Logger) *CreatePollHandler {
	return &CreatePollHandler{svc: svc, logger: logger}
}

func (h *CreatePollHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()
	chatID := message.Chat.ID

	if _, err := h.svc.EnsureUser(ctx, message.From.ID, message.From.UserName, message.From.FirstName, message.From.LastName); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	// A previous poll's message may still be pinned; clear it so the new
	// poll takes its place.
	lastMessageID, err := h.svc.Polls.LastClosedMessageID(ctx, chatID)
	if err != nil {
		return fmt.Errorf("last closed poll message: %w", err)
	}
	if lastMessageID != nil {
		if err := unpinMessage(bot, chatID, *lastMessageID); err != nil {
			h.logger.Warnf("Failed to unpin previous poll message %d: %v", *lastMessageID, err)
		}
	}

	poll, err := h.svc.CreatePoll(ctx, chatID, "")
	if err != nil {
		if errors.Is(err, service.ErrActivePollExists) {
			reply(bot, message, "❌ This chat already has an active poll. Close it with /close first.")
			return nil
		}
		return fmt.Errorf("create poll: %w", err)
	}

	stats, err := h.svc.DetailedStats(ctx, poll.ID)
	if err != nil {
		return fmt.Errorf("poll stats: %w", err)
	}
	plain, err := h.svc.Stats(ctx, poll.ID)
	if err != nil {
		return fmt.Errorf("poll stats: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, formatPollMessage(stats))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = pollKeyboard(poll.ID, plain.Options)

	sent, err := bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send poll message: %w", err)
	}

	if err := h.svc.Polls.SetMessageID(ctx, poll.ID, sent.MessageID); err != nil {
		return fmt.Errorf("store poll message ID: %w", err)
	}

	if err := pinMessage(bot, chatID, sent.MessageID); err != nil {
		// Pinning needs admin rights; the poll works fine without it.
		h.logger.Warnf("Failed to pin poll message: %v", err)
	}

	return nil
}
