package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	help := "📖 *Command reference*\n\n" +
		"👤 /join — sign up for poll notifications\n" +
		"👥 /users — list everyone who has signed up\n" +
		"🗳 /vote — start a poll over the upcoming weekends\n" +
		"📢 /ping — remind friends who have not voted\n" +
		"🏁 /close — close the poll and show detailed results\n\n" +
		"*How it works:*\n" +
		"1️⃣ Start a poll with /vote\n" +
		"2️⃣ Everyone taps the days that work for them\n" +
		"3️⃣ Tap a day again to take your vote back\n" +
		"4️⃣ The bot nags non-voters after 24, 48 and 72 hours\n" +
		"5️⃣ Finish with /close to see the winning days\n\n" +
		"✅ You can vote for several days at once\n" +
		"📌 The poll message is pinned automatically"

	reply(bot, message, help)
	return nil
}
