package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/friengo/friengo/internal/metrics"
	"github.com/friengo/friengo/internal/models"
)

// ErrActivePollExists is returned by CreatePoll when the chat already
// has a poll accepting votes.
var ErrActivePollExists = errors.New("chat already has an active poll")

const (
	// DefaultPollTitle is used when the creator does not supply one.
	DefaultPollTitle = "When are we meeting? 📅"

	// OptOutDescription is the fixed non-date option appended to every
	// poll.
	OptOutDescription = "Can't make it 😔"

	// LookaheadWeeks is how many weekend pairs a new poll offers.
	LookaheadWeeks = 4
)

// WeekendDates generates the candidate weekend dates for a poll: the
// Saturday and Sunday of each of the next `weeks` weekends, starting
// with the first Saturday on or after `from` (a Saturday `from` date is
// itself included). Dates come back in chronological order, Saturdays
// and Sundays interleaved.
func WeekendDates(from time.Time, weeks int) []time.Time {
	daysUntilSaturday := (int(time.Saturday) - int(from.Weekday()) + 7) % 7
	saturday := from.AddDate(0, 0, daysUntilSaturday)

	dates := make([]time.Time, 0, weeks*2)
	for week := 0; week < weeks; week++ {
		sat := saturday.AddDate(0, 0, week*7)
		dates = append(dates, sat, sat.AddDate(0, 0, 1))
	}
	return dates
}

// CreatePoll starts a new scheduling poll in the chat. It fails with
// ErrActivePollExists when the chat already has an active poll; nothing
// is written in that case. The poll, its options and its reminder
// schedule are persisted before returning.
func (s *Service) CreatePoll(ctx context.Context, chatID int64, title string) (*models.Poll, error) {
	existing, err := s.Polls.GetActiveByChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for active poll in chat %d: %w", chatID, err)
	}
	if existing != nil {
		return nil, ErrActivePollExists
	}

	if title == "" {
		title = DefaultPollTitle
	}

	now := time.Now()
	poll := &models.Poll{
		ChatID:    chatID,
		Title:     title,
		CreatedAt: now,
		Status:    models.PollStatusActive,
	}

	for _, date := range WeekendDates(now, LookaheadWeeks) {
		poll.Options = append(poll.Options, models.NewDateOption(date))
	}
	poll.Options = append(poll.Options, models.NewCustomOption(OptOutDescription))

	poll, err = s.Polls.CreateWithOptions(ctx, poll)
	if err != nil {
		return nil, fmt.Errorf("failed to create poll in chat %d: %w", chatID, err)
	}

	if _, err := s.Schedules.Create(ctx, models.NewReminderSchedule(poll.ID, now)); err != nil {
		return nil, fmt.Errorf("failed to create reminder schedule for poll %d: %w", poll.ID, err)
	}

	metrics.PollsCreated.Inc()
	s.logger.Infof("Created poll %d in chat %d", poll.ID, chatID)
	return poll, nil
}

// ActivePoll returns the chat's poll currently accepting votes, or nil.
func (s *Service) ActivePoll(ctx context.Context, chatID int64) (*models.Poll, error) {
	return s.Polls.GetActiveByChat(ctx, chatID)
}

// Vote records the user's vote for an option. Business rejections
// (missing poll, closed poll, duplicate vote) come back as a false
// result with a human-readable reason; only infrastructure failures are
// returned as errors.
func (s *Service) Vote(ctx context.Context, userID, optionID, pollID int64) (bool, string, error) {
	poll, err := s.Polls.GetByID(ctx, pollID)
	if err != nil {
		return false, "", err
	}
	if poll == nil {
		return false, "poll not found", nil
	}
	if !poll.IsActive() {
		return false, "poll already closed", nil
	}
	if poll.HasUserVotedFor(userID, optionID) {
		return false, "you have already voted for this day", nil
	}

	vote := &models.Vote{
		UserID:    userID,
		OptionID:  optionID,
		PollID:    pollID,
		CreatedAt: time.Now(),
	}
	if _, err := s.Votes.Insert(ctx, vote); err != nil {
		return false, "", err
	}

	metrics.VotesCast.Inc()
	s.logger.Infof("User %d voted for option %d in poll %d", userID, optionID, pollID)
	return true, "vote counted!", nil
}

// Unvote removes the user's vote for an option. The rejection cases
// mirror Vote.
func (s *Service) Unvote(ctx context.Context, userID, optionID, pollID int64) (bool, string, error) {
	poll, err := s.Polls.GetByID(ctx, pollID)
	if err != nil {
		return false, "", err
	}
	if poll == nil {
		return false, "poll not found", nil
	}
	if !poll.IsActive() {
		return false, "poll already closed", nil
	}
	if !poll.HasUserVotedFor(userID, optionID) {
		return false, "you have not voted for this day", nil
	}

	existed, err := s.Votes.Delete(ctx, userID, optionID, pollID)
	if err != nil {
		return false, "", err
	}
	if !existed {
		return false, "you have not voted for this day", nil
	}

	metrics.VotesRetracted.Inc()
	s.logger.Infof("User %d removed vote for option %d in poll %d", userID, optionID, pollID)
	return true, "vote removed", nil
}

// SetVote drives the vote toggle to the desired state. It is a
// convenience wrapper for callers that track button presses rather than
// explicit vote/unvote intents: pressing a button they already voted
// for means retract, otherwise cast.
func (s *Service) SetVote(ctx context.Context, userID, optionID, pollID int64, want bool) (bool, string, error) {
	if want {
		return s.Vote(ctx, userID, optionID, pollID)
	}
	return s.Unvote(ctx, userID, optionID, pollID)
}

// OptionStats is the tally for a single option.
type OptionStats struct {
	OptionID    int64      `json:"option_id"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date,omitempty"`
	VotesCount  int        `json:"votes_count"`
	Voters      []int64    `json:"voters"`
}

// PollStats is the computed tally of a poll at a point in time.
type PollStats struct {
	PollID     int64         `json:"poll_id"`
	Title      string        `json:"title"`
	TotalUsers int           `json:"total_users"`
	VotedUsers int           `json:"voted_users"`
	Options    []OptionStats `json:"options"`
}

// Stats computes the current tally for the poll, or nil when the poll
// does not exist. TotalUsers counts every user the bot has ever seen,
// so the voted/total ratio is against the whole registry.
func (s *Service) Stats(ctx context.Context, pollID int64) (*PollStats, error) {
	poll, err := s.Polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll == nil {
		return nil, nil
	}

	allUsers, err := s.Users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for poll stats: %w", err)
	}

	stats := &PollStats{
		PollID:     poll.ID,
		Title:      poll.Title,
		TotalUsers: len(allUsers),
		VotedUsers: len(poll.VotedUserIDs()),
	}

	for _, opt := range poll.Options {
		votes := poll.VotesForOption(opt.ID)
		voters := make([]int64, 0, len(votes))
		for _, v := range votes {
			voters = append(voters, v.UserID)
		}
		stats.Options = append(stats.Options, OptionStats{
			OptionID:    opt.ID,
			Description: opt.Description,
			Date:        opt.Date,
			VotesCount:  len(votes),
			Voters:      voters,
		})
	}

	return stats, nil
}

// VoterInfo identifies one voter in detailed results.
type VoterInfo struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username,omitempty"`
}

// DetailedOptionStats is an option tally with voters resolved to names.
type DetailedOptionStats struct {
	OptionID    int64       `json:"option_id"`
	Description string      `json:"description"`
	Date        *time.Time  `json:"date,omitempty"`
	VotesCount  int         `json:"votes_count"`
	Voters      []VoterInfo `json:"voters"`
}

// DetailedPollStats is PollStats with voter identities resolved.
type DetailedPollStats struct {
	PollID     int64                 `json:"poll_id"`
	Title      string                `json:"title"`
	TotalUsers int                   `json:"total_users"`
	VotedUsers int                   `json:"voted_users"`
	Options    []DetailedOptionStats `json:"options"`
}

// DetailedStats computes the tally with voter user IDs resolved to
// display names. Voters missing from the user registry are omitted.
func (s *Service) DetailedStats(ctx context.Context, pollID int64) (*DetailedPollStats, error) {
	stats, err := s.Stats(ctx, pollID)
	if err != nil || stats == nil {
		return nil, err
	}

	detailed := &DetailedPollStats{
		PollID:     stats.PollID,
		Title:      stats.Title,
		TotalUsers: stats.TotalUsers,
		VotedUsers: stats.VotedUsers,
	}

	for _, opt := range stats.Options {
		voters := make([]VoterInfo, 0, len(opt.Voters))
		for _, userID := range opt.Voters {
			user, err := s.Users.GetByID(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve voter %d: %w", userID, err)
			}
			if user == nil {
				continue
			}
			voters = append(voters, VoterInfo{
				UserID:      user.ID,
				DisplayName: user.DisplayName(),
				Username:    user.Username,
			})
		}
		detailed.Options = append(detailed.Options, DetailedOptionStats{
			OptionID:    opt.OptionID,
			Description: opt.Description,
			Date:        opt.Date,
			VotesCount:  opt.VotesCount,
			Voters:      voters,
		})
	}

	return detailed, nil
}

// NonVoters returns the candidates who hold no vote in the poll,
// preserving the order of the candidate list. An unknown poll yields an
// empty result.
func (s *Service) NonVoters(ctx context.Context, pollID int64, candidates []*models.User) ([]*models.User, error) {
	poll, err := s.Polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll == nil {
		return nil, nil
	}

	voted := poll.VotedUserIDs()
	nonVoters := make([]*models.User, 0, len(candidates))
	for _, u := range candidates {
		if _, ok := voted[u.ID]; !ok {
			nonVoters = append(nonVoters, u)
		}
	}
	return nonVoters, nil
}

// PollResults is the outcome of a closed poll.
type PollResults struct {
	Title      string        `json:"title"`
	TotalUsers int           `json:"total_users"`
	VotedUsers int           `json:"voted_users"`
	Top3       []OptionStats `json:"top_3"`
	Ranked     []OptionStats `json:"ranked"`
}

// ClosePoll ends the poll and returns the final ranking. Closing a poll
// that does not exist or is already closed returns nil rather than an
// error, so repeated /close commands are harmless. The status change is
// one-way.
func (s *Service) ClosePoll(ctx context.Context, pollID int64) (*PollResults, error) {
	poll, err := s.Polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll == nil || !poll.IsActive() {
		return nil, nil
	}

	if err := s.Polls.SetStatus(ctx, pollID, models.PollStatusClosed); err != nil {
		return nil, fmt.Errorf("failed to close poll %d: %w", pollID, err)
	}

	stats, err := s.Stats(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, fmt.Errorf("poll %d disappeared while closing", pollID)
	}

	// Rank by vote count, ties broken by original option order.
	ranked := make([]OptionStats, len(stats.Options))
	copy(ranked, stats.Options)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].VotesCount > ranked[j].VotesCount
	})

	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}

	metrics.PollsClosed.Inc()
	s.logger.Infof("Closed poll %d in chat %d", pollID, poll.ChatID)

	return &PollResults{
		Title:      stats.Title,
		TotalUsers: stats.TotalUsers,
		VotedUsers: stats.VotedUsers,
		Top3:       top,
		Ranked:     ranked,
	}, nil
}
