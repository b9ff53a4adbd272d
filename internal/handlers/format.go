package handlers

import (
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/friengo/friengo/internal/service"
)

// telegramMessageLimit is the largest text Telegram accepts in one
// message; longer results are split.
const telegramMessageLimit = 4000

var medals = []string{"🥇", "🥈", "🥉"}

// formatPollMessage renders the live poll body: title, progress and the
// current top-3 days with the people behind each vote.
func formatPollMessage(stats *service.DetailedPollStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗳 *%s*\n\n", stats.Title)
	fmt.Fprintf(&sb, "📊 Voted: %d/%d\n\n", stats.VotedUsers, stats.TotalUsers)

	ranked := make([]service.DetailedOptionStats, len(stats.Options))
	copy(ranked, stats.Options)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].VotesCount > ranked[j].VotesCount
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	anyVotes := false
	for _, opt := range ranked {
		if opt.VotesCount > 0 {
			anyVotes = true
			break
		}
	}
	if !anyVotes {
		return sb.String()
	}

	sb.WriteString("🏆 *Top days:*\n")
	for i, opt := range ranked {
		if opt.VotesCount == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s *%s* (%d votes)\n", medals[i], opt.Description, opt.VotesCount)
		if len(opt.Voters) > 0 {
			names := make([]string, 0, len(opt.Voters))
			for _, voter := range opt.Voters {
				names = append(names, voter.DisplayName)
			}
			fmt.Fprintf(&sb, "   👥 %s\n", strings.Join(names, ", "))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// pollKeyboard builds the inline keyboard with one button per option,
// showing the current vote count on buttons that have any.
func pollKeyboard(pollID int64, options []service.OptionStats) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, opt := range options {
		label := opt.Description
		if opt.VotesCount > 0 {
			label = fmt.Sprintf("%s (%d)", opt.Description, opt.VotesCount)
		}
		data := fmt.Sprintf("vote:%d:%d", pollID, opt.OptionID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// podiumMessage renders the final top-3 announcement for a closed poll.
func podiumMessage(results *service.PollResults) string {
	var sb strings.Builder
	sb.WriteString("🏁 *Poll closed!*\n\n")
	fmt.Fprintf(&sb, "🗳 %s\n", results.Title)
	fmt.Fprintf(&sb, "📊 Total voted: %d/%d\n\n", results.VotedUsers, results.TotalUsers)
	sb.WriteString("🏆 *Top 3 days:*\n")

	for i, opt := range results.Top3 {
		medal := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			medal = medals[i]
		}
		fmt.Fprintf(&sb, "%s %s — %d votes\n", medal, opt.Description, opt.VotesCount)
	}
	if len(results.Top3) == 0 {
		sb.WriteString("❌ Nobody voted\n")
	}

	return sb.String()
}

// detailedResultsMessages renders the per-option voter breakdown, split
// into chunks that fit into single Telegram messages.
func detailedResultsMessages(stats *service.DetailedPollStats) []string {
	header := "📋 *Detailed results:*\n\n"

	var sections []string
	for _, opt := range stats.Options {
		var sb strings.Builder
		fmt.Fprintf(&sb, "📅 *%s*: %d votes\n", opt.Description, opt.VotesCount)
		if len(opt.Voters) == 0 {
			sb.WriteString("   ❌ Nobody voted\n")
		}
		for _, voter := range opt.Voters {
			if voter.Username != "" {
				fmt.Fprintf(&sb, "   👤 %s (@%s)\n", voter.DisplayName, voter.Username)
			} else {
				fmt.Fprintf(&sb, "   👤 %s\n", voter.DisplayName)
			}
		}
		sb.WriteString("\n")
		sections = append(sections, sb.String())
	}

	var messages []string
	current := header
	for _, section := range sections {
		if len(current)+len(section) > telegramMessageLimit {
			messages = append(messages, current)
			current = ""
		}
		current += section
	}
	if current != "" {
		messages = append(messages, current)
	}
	return messages
}

// pinMessage pins a chat message without notifying members.
func pinMessage(bot *tgbotapi.BotAPI, chatID int64, messageID int) error {
	pin := tgbotapi.PinChatMessageConfig{
		ChatID:              chatID,
		MessageID:           messageID,
		DisableNotification: true,
	}
	_, err := bot.Request(pin)
	return err
}

// unpinMessage unpins a chat message.
func unpinMessage(bot *tgbotapi.BotAPI, chatID int64, messageID int) error {
	unpin := tgbotapi.UnpinChatMessageConfig{
		ChatID:    chatID,
		MessageID: messageID,
	}
	_, err := bot.Request(unpin)
	return err
}

// reply sends a markdown message into the chat the message came from.
func reply(bot *tgbotapi.BotAPI, message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
}
