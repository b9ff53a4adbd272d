package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/friengo/friengo/internal/service"
)

// VoteCallbackHandler handles inline keyboard presses on poll options.
// Each press toggles the pressing user's vote for that option.
type VoteCallbackHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewVoteCallbackHandler(svc *service.Service, logger *logrus.Logger) *VoteCallbackHandler {
	return &VoteCallbackHandler{svc: svc, logger: logger}
}

func (h *VoteCallbackHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery) error {
	ctx := context.Background()

	pollID, optionID, err := parseVoteCallback(query.Data)
	if err != nil {
		answerAlert(bot, query.ID, "❌ Invalid button data")
		return nil
	}

	user, err := h.svc.EnsureUser(ctx, query.From.ID, query.From.UserName, query.From.FirstName, query.From.LastName)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	poll, err := h.svc.Polls.GetByID(ctx, pollID)
	if err != nil {
		return fmt.Errorf("load poll: %w", err)
	}
	if poll == nil {
		answerAlert(bot, query.ID, "Poll not found")
		return nil
	}

	// A press on an option the user already voted for retracts the vote.
	casting := !poll.HasUserVotedFor(user.ID, optionID)

	ok, reason, err := h.svc.SetVote(ctx, user.ID, optionID, pollID, casting)
	if err != nil {
		return fmt.Errorf("toggle vote: %w", err)
	}
	if !ok {
		answerAlert(bot, query.ID, reason)
		return nil
	}

	if err := h.refreshPollMessage(ctx, bot, query, pollID); err != nil {
		h.logger.Errorf("Failed to refresh poll message: %v", err)
	}

	if casting {
		answer(bot, query.ID, "Vote counted!")
		h.announceVote(ctx, bot, query.Message.Chat.ID, user.DisplayName(), pollID, optionID)
	} else {
		answer(bot, query.ID, "Vote removed")
	}

	return nil
}

// refreshPollMessage re-renders the poll message in place so tallies and
// button counters stay current.
func (h *VoteCallbackHandler) refreshPollMessage(ctx context.Context, bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, pollID int64) error {
	detailed, err := h.svc.DetailedStats(ctx, pollID)
	if err != nil || detailed == nil {
		return err
	}
	plain, err := h.svc.Stats(ctx, pollID)
	if err != nil || plain == nil {
		return err
	}

	keyboard := pollKeyboard(pollID, plain.Options)
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		query.Message.Chat.ID,
		query.Message.MessageID,
		formatPollMessage(detailed),
		keyboard,
	)
	edit.ParseMode = tgbotapi.ModeMarkdown

	_, err = bot.Send(edit)
	return err
}

// announceVote posts a short confirmation into the chat so the group
// sees voting progress without opening the poll message.
func (h *VoteCallbackHandler) announceVote(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, voterName string, pollID, optionID int64) {
	stats, err := h.svc.Stats(ctx, pollID)
	if err != nil || stats == nil {
		return
	}

	var description string
	for _, opt := range stats.Options {
		if opt.OptionID == optionID {
			description = opt.Description
			break
		}
	}
	if description == "" {
		return
	}

	text := fmt.Sprintf("✅ %s voted for %s!\n📊 Voted: %d/%d",
		voterName, description, stats.VotedUsers, stats.TotalUsers)
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := bot.Send(msg); err != nil {
		h.logger.Errorf("Failed to announce vote: %v", err)
	}
}

// parseVoteCallback splits "vote:<pollID>:<optionID>" button data.
func parseVoteCallback(data string) (pollID, optionID int64, err error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != "vote" {
		return 0, 0, fmt.Errorf("malformed callback data %q", data)
	}
	if pollID, err = strconv.ParseInt(parts[1], 10, 64); err != nil {
		return 0, 0, fmt.Errorf("malformed poll ID in %q", data)
	}
	if optionID, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
		return 0, 0, fmt.Errorf("malformed option ID in %q", data)
	}
	return pollID, optionID, nil
}

func answer(bot *tgbotapi.BotAPI, callbackID, text string) {
	bot.Request(tgbotapi.NewCallback(callbackID, text))
}

func answerAlert(bot *tgbotapi.BotAPI, callbackID, text string) {
	bot.Request(tgbotapi.NewCallbackWithAlert(callbackID, text))
}
