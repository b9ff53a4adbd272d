package models

import (
	"testing"
	"time"
)

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"full name", User{ID: 1, Username: "alice", FirstName: "Alice", LastName: "Smith"}, "Alice Smith"},
		{"first name only", User{ID: 1, FirstName: "Alice"}, "Alice"},
		{"username fallback", User{ID: 1, Username: "alice"}, "alice"},
		{"placeholder fallback", User{ID: 42}, "User_42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUserMention(t *testing.T) {
	withUsername := User{ID: 1, Username: "alice", FirstName: "Alice"}
	if got := withUsername.Mention(); got != "@alice" {
		t.Errorf("Expected @alice, got %q", got)
	}

	withoutUsername := User{ID: 2, FirstName: "Bob"}
	if got := withoutUsername.Mention(); got != "Bob" {
		t.Errorf("Expected Bob, got %q", got)
	}
}

func TestNewDateOption(t *testing.T) {
	sat := time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)
	opt := NewDateOption(sat)
	if opt.Description != "Saturday 07.06.2025" {
		t.Errorf("Unexpected description: %q", opt.Description)
	}
	if opt.Date == nil || !opt.Date.Equal(sat) {
		t.Errorf("Unexpected date: %v", opt.Date)
	}

	custom := NewCustomOption("Can't make it 😔")
	if custom.Date != nil {
		t.Error("Custom option should carry no date")
	}
}

func TestPollVoteHelpers(t *testing.T) {
	poll := &Poll{
		ID:     1,
		Status: PollStatusActive,
		Options: []Option{
			{ID: 10, PollID: 1},
			{ID: 11, PollID: 1},
		},
		Votes: []Vote{
			{UserID: 100, OptionID: 10, PollID: 1},
			{UserID: 200, OptionID: 10, PollID: 1},
			{UserID: 100, OptionID: 11, PollID: 1},
		},
	}

	if !poll.IsActive() {
		t.Error("Poll should be active")
	}
	if got := len(poll.VotesForOption(10)); got != 2 {
		t.Errorf("Expected 2 votes on option 10, got %d", got)
	}
	if !poll.HasUserVotedFor(100, 11) {
		t.Error("User 100 voted for option 11")
	}
	if poll.HasUserVotedFor(200, 11) {
		t.Error("User 200 never voted for option 11")
	}
	if got := len(poll.VotedUserIDs()); got != 2 {
		t.Errorf("Expected 2 distinct voters, got %d", got)
	}
}

func TestReminderScheduleDueStages(t *testing.T) {
	created := time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)
	schedule := NewReminderSchedule(7, created)

	if schedule.PollID != 7 {
		t.Errorf("Expected poll ID 7, got %d", schedule.PollID)
	}

	tests := []struct {
		name string
		now  time.Time
		sent [3]bool
		want []ReminderStage
	}{
		{"before first", created.Add(23 * time.Hour), [3]bool{}, nil},
		{"first due", created.Add(25 * time.Hour), [3]bool{}, []ReminderStage{ReminderAfter24h}},
		{"exactly at fire time", created.Add(24 * time.Hour), [3]bool{}, []ReminderStage{ReminderAfter24h}},
		{"all due", created.Add(80 * time.Hour), [3]bool{}, []ReminderStage{ReminderAfter24h, ReminderAfter48h, ReminderAfter72h}},
		{"sent stages excluded", created.Add(80 * time.Hour), [3]bool{true, true, false}, []ReminderStage{ReminderAfter72h}},
		{"everything sent", created.Add(80 * time.Hour), [3]bool{true, true, true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule.Sent = tt.sent
			got := schedule.DueStages(tt.now)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestReminderStageString(t *testing.T) {
	labels := map[ReminderStage]string{
		ReminderAfter24h:  "24h",
		ReminderAfter48h:  "48h",
		ReminderAfter72h:  "72h",
		ReminderStage(99): "unknown",
	}
	for stage, want := range labels {
		if got := stage.String(); got != want {
			t.Errorf("Stage %d: expected %q, got %q", stage, want, got)
		}
	}
}
