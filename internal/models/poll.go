package models

import (
	"fmt"
	"time"
)

// PollStatus is the lifecycle state of a poll
type PollStatus string

const (
	PollStatusActive PollStatus = "active"
	PollStatusClosed PollStatus = "closed"
)

// Option is one selectable choice within a poll. Date is nil for the
// fixed opt-out choice. Options are created with the poll and never
// change afterwards.
type Option struct {
	ID          int64      `json:"id" db:"id"`
	PollID      int64      `json:"poll_id" db:"poll_id"`
	Date        *time.Time `json:"date,omitempty" db:"date"`
	Description string     `json:"description" db:"description"`
}

// NewDateOption builds an option for a candidate weekend date. The
// description carries the weekday so users do not have to do calendar
// math in their heads.
func NewDateOption(date time.Time) Option {
	d := date
	return Option{
		Date:        &d,
		Description: fmt.Sprintf("%s %s", weekdayName(date.Weekday()), date.Format("02.01.2006")),
	}
}

// NewCustomOption builds a non-date option with a literal description.
func NewCustomOption(description string) Option {
	return Option{Description: description}
}

func weekdayName(d time.Weekday) string {
	switch d {
	case time.Saturday:
		return "Saturday"
	case time.Sunday:
		return "Sunday"
	default:
		return d.String()
	}
}

// Vote is a single user's standing endorsement of one option. Voting is
// a toggle: at most one vote exists per (user, option) pair.
type Vote struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	OptionID  int64     `json:"option_id" db:"option_id"`
	PollID    int64     `json:"poll_id" db:"poll_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Poll is one scheduling round in a chat, together with its options and
// all votes cast so far.
type Poll struct {
	ID        int64      `json:"id" db:"id"`
	ChatID    int64      `json:"chat_id" db:"chat_id"`
	MessageID *int       `json:"message_id,omitempty" db:"message_id"`
	Title     string     `json:"title" db:"title"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	Status    PollStatus `json:"status" db:"status"`
	Options   []Option   `json:"options"`
	Votes     []Vote     `json:"votes"`
}

// IsActive reports whether the poll still accepts votes.
func (p *Poll) IsActive() bool {
	return p.Status == PollStatusActive
}

// VotesForOption returns all votes cast for the given option, in
// insertion order.
func (p *Poll) VotesForOption(optionID int64) []Vote {
	var votes []Vote
	for _, v := range p.Votes {
		if v.OptionID == optionID {
			votes = append(votes, v)
		}
	}
	return votes
}

// HasUserVotedFor reports whether the user currently holds a vote for
// the given option.
func (p *Poll) HasUserVotedFor(userID, optionID int64) bool {
	for _, v := range p.Votes {
		if v.UserID == userID && v.OptionID == optionID {
			return true
		}
	}
	return false
}

// VotedUserIDs returns the set of users holding at least one vote in
// this poll.
func (p *Poll) VotedUserIDs() map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, v := range p.Votes {
		ids[v.UserID] = struct{}{}
	}
	return ids
}
