package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/friengo/friengo/internal/service"
)

// JoinHandler handles the /join command, registering the user so they
// show up in the voted/total counts and receive reminder mentions.
type JoinHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewJoinHandler(svc *service.Service, logger *logrus.Logger) *JoinHandler {
	return &JoinHandler{svc: svc, logger: logger}
}

func (h *JoinHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()
	user, err := h.svc.EnsureUser(ctx, message.From.ID, message.From.UserName, message.From.FirstName, message.From.LastName)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	usernamePart := ""
	if user.Username != "" {
		usernamePart = fmt.Sprintf(" (@%s)", user.Username)
	}

	text := fmt.Sprintf("✅ *You're in!*\n\n"+
		"👤 *Name:* %s%s\n"+
		"🆔 *ID:* %d\n\n"+
		"You'll be counted in poll totals and mentioned in reminders when you haven't voted yet.\n\n"+
		"💡 Use /vote to start a poll, or /help for all commands.",
		user.DisplayName(), usernamePart, user.ID)

	reply(bot, message, text)
	return nil
}

// UsersHandler handles the /users command
type UsersHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewUsersHandler(svc *service.Service, logger *logrus.Logger) *UsersHandler {
	return &UsersHandler{svc: svc, logger: logger}
}

func (h *UsersHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()
	users, err := h.svc.Users.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		reply(bot, message, "📭 Nobody has signed up yet.\nUse /join to be the first!")
		return nil
	}

	text := fmt.Sprintf("👥 *Registered users (%d):*\n\n", len(users))
	for i, user := range users {
		usernamePart := ""
		if user.Username != "" {
			usernamePart = fmt.Sprintf(" (@%s)", user.Username)
		}
		text += fmt.Sprintf("%d. %s%s\n", i+1, user.DisplayName(), usernamePart)
	}
	text += "\n💡 Everyone on this list is counted in poll totals."

	reply(bot, message, text)
	return nil
}
