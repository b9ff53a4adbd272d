package models

import "time"

// ReminderStage identifies one of the three scheduled nags attached to
// a poll. It is a closed set so reminder handling never dispatches on
// free-form strings.
type ReminderStage int

const (
	ReminderAfter24h ReminderStage = iota
	ReminderAfter48h
	ReminderAfter72h
)

// Stages lists all reminder stages in firing order.
var Stages = []ReminderStage{ReminderAfter24h, ReminderAfter48h, ReminderAfter72h}

// String returns the stage label used in logs and metrics.
func (s ReminderStage) String() string {
	switch s {
	case ReminderAfter24h:
		return "24h"
	case ReminderAfter48h:
		return "48h"
	case ReminderAfter72h:
		return "72h"
	default:
		return "unknown"
	}
}

// ReminderSchedule holds the three reminder fire-times for a poll, each
// with its own sent flag. A schedule is created together with its poll
// and only the sent flags ever change, each exactly once.
type ReminderSchedule struct {
	ID     int64        `json:"id" db:"id"`
	PollID int64        `json:"poll_id" db:"poll_id"`
	FireAt [3]time.Time `json:"fire_at"`
	Sent   [3]bool      `json:"sent"`
}

// NewReminderSchedule builds the schedule for a poll created at the
// given time, with nags 24, 48 and 72 hours later.
func NewReminderSchedule(pollID int64, createdAt time.Time) *ReminderSchedule {
	return &ReminderSchedule{
		PollID: pollID,
		FireAt: [3]time.Time{
			createdAt.Add(24 * time.Hour),
			createdAt.Add(48 * time.Hour),
			createdAt.Add(72 * time.Hour),
		},
	}
}

// DueStages returns the stages whose fire-time has passed and which
// have not been sent yet, in firing order.
func (r *ReminderSchedule) DueStages(now time.Time) []ReminderStage {
	var due []ReminderStage
	for _, stage := range Stages {
		if !r.Sent[stage] && !r.FireAt[stage].After(now) {
			due = append(due, stage)
		}
	}
	return due
}
