package repository

import (
	"context"
	"time"

	"github.com/friengo/friengo/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	// ListVotersInChat returns the distinct users who have ever voted in
	// any poll of the given chat.
	ListVotersInChat(ctx context.Context, chatID int64) ([]*models.User, error)
}

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	// CreateWithOptions persists the poll and all of its options in a
	// single transaction and returns the poll with IDs assigned.
	CreateWithOptions(ctx context.Context, poll *models.Poll) (*models.Poll, error)
	// GetByID returns the poll with its options and votes loaded, or
	// nil when no such poll exists.
	GetByID(ctx context.Context, id int64) (*models.Poll, error)
	GetActiveByChat(ctx context.Context, chatID int64) (*models.Poll, error)
	// LastClosedMessageID returns the chat message ID of the most
	// recently closed poll, or nil when there is none.
	LastClosedMessageID(ctx context.Context, chatID int64) (*int, error)
	SetMessageID(ctx context.Context, pollID int64, messageID int) error
	SetStatus(ctx context.Context, pollID int64, status models.PollStatus) error
}

// VoteRepository defines the interface for vote data operations
type VoteRepository interface {
	Insert(ctx context.Context, vote *models.Vote) (*models.Vote, error)
	// Delete removes the vote for the (user, option, poll) triple and
	// reports whether one existed.
	Delete(ctx context.Context, userID, optionID, pollID int64) (bool, error)
}

// ReminderScheduleRepository defines the interface for reminder schedules
type ReminderScheduleRepository interface {
	Create(ctx context.Context, schedule *models.ReminderSchedule) (*models.ReminderSchedule, error)
	// ListDue returns every schedule with at least one stage past due
	// and not yet sent at the given time.
	ListDue(ctx context.Context, now time.Time) ([]*models.ReminderSchedule, error)
	MarkSent(ctx context.Context, scheduleID int64, stage models.ReminderStage) error
}
