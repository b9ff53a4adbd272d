package handlers

import (
	"strings"
	"testing"

	"github.com/friengo/friengo/internal/service"
)

func TestParseVoteCallback(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		pollID  int64
		optID   int64
		wantErr bool
	}{
		{"valid", "vote:12:34", 12, 34, false},
		{"wrong prefix", "close:12:34", 0, 0, true},
		{"missing part", "vote:12", 0, 0, true},
		{"extra part", "vote:12:34:56", 0, 0, true},
		{"non-numeric poll", "vote:abc:34", 0, 0, true},
		{"non-numeric option", "vote:12:xyz", 0, 0, true},
		{"empty", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pollID, optID, err := parseVoteCallback(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if pollID != tt.pollID || optID != tt.optID {
				t.Errorf("Expected (%d, %d), got (%d, %d)", tt.pollID, tt.optID, pollID, optID)
			}
		})
	}
}

func TestPollKeyboard(t *testing.T) {
	options := []service.OptionStats{
		{OptionID: 1, Description: "Saturday 07.06.2025", VotesCount: 3},
		{OptionID: 2, Description: "Sunday 08.06.2025"},
	}

	keyboard := pollKeyboard(42, options)
	if len(keyboard.InlineKeyboard) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(keyboard.InlineKeyboard))
	}

	first := keyboard.InlineKeyboard[0][0]
	if first.Text != "Saturday 07.06.2025 (3)" {
		t.Errorf("Expected count in label, got %q", first.Text)
	}
	if *first.CallbackData != "vote:42:1" {
		t.Errorf("Unexpected callback data: %q", *first.CallbackData)
	}

	second := keyboard.InlineKeyboard[1][0]
	if second.Text != "Sunday 08.06.2025" {
		t.Errorf("Zero-vote label should have no count, got %q", second.Text)
	}
}

func TestPodiumMessage(t *testing.T) {
	results := &service.PollResults{
		Title:      "When are we meeting? 📅",
		TotalUsers: 5,
		VotedUsers: 4,
		Top3: []service.OptionStats{
			{Description: "Saturday 07.06.2025", VotesCount: 3},
			{Description: "Sunday 08.06.2025", VotesCount: 2},
			{Description: "Saturday 14.06.2025", VotesCount: 1},
		},
	}

	msg := podiumMessage(results)
	for _, want := range []string{"🥇", "🥈", "🥉", "4/5", "Saturday 07.06.2025"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in message:\n%s", want, msg)
		}
	}

	empty := podiumMessage(&service.PollResults{Title: "t"})
	if !strings.Contains(empty, "Nobody voted") {
		t.Errorf("Expected empty podium notice, got:\n%s", empty)
	}
}

func TestDetailedResultsMessages(t *testing.T) {
	stats := &service.DetailedPollStats{
		Title: "test",
		Options: []service.DetailedOptionStats{
			{
				Description: "Saturday 07.06.2025",
				VotesCount:  1,
				Voters:      []service.VoterInfo{{DisplayName: "Alice", Username: "alice"}},
			},
			{Description: "Sunday 08.06.2025"},
		},
	}

	messages := detailedResultsMessages(stats)
	if len(messages) != 1 {
		t.Fatalf("Expected a single message, got %d", len(messages))
	}
	if !strings.Contains(messages[0], "Alice (@alice)") {
		t.Errorf("Expected voter line, got:\n%s", messages[0])
	}
	if !strings.Contains(messages[0], "Nobody voted") {
		t.Errorf("Expected empty-option notice, got:\n%s", messages[0])
	}
}

func TestDetailedResultsMessagesChunking(t *testing.T) {
	// Enough oversized sections to force a split across messages.
	var options []service.DetailedOptionStats
	for i := 0; i < 4; i++ {
		voters := make([]service.VoterInfo, 60)
		for j := range voters {
			voters[j] = service.VoterInfo{DisplayName: strings.Repeat("x", 30)}
		}
		options = append(options, service.DetailedOptionStats{
			Description: "day",
			VotesCount:  len(voters),
			Voters:      voters,
		})
	}

	messages := detailedResultsMessages(&service.DetailedPollStats{Title: "big", Options: options})
	if len(messages) < 2 {
		t.Fatalf("Expected the output to be chunked, got %d message(s)", len(messages))
	}
	for i, msg := range messages {
		if len(msg) > telegramMessageLimit {
			t.Errorf("Message %d exceeds the size limit: %d", i, len(msg))
		}
	}
}
