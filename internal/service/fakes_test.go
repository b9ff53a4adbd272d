package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/friengo/friengo/internal/models"
)

var errListDue = errors.New("list due failed")

// fakeStore is the shared in-memory state behind the fake repositories,
// so the engine and scheduler can be tested without a database. The
// typed views below split it into the four repository interfaces.
type fakeStore struct {
	users     map[int64]*models.User
	polls     map[int64]*models.Poll
	schedules map[int64]*models.ReminderSchedule

	nextPollID     int64
	nextOptionID   int64
	nextVoteID     int64
	nextScheduleID int64

	failListDue bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[int64]*models.User),
		polls:     make(map[int64]*models.Poll),
		schedules: make(map[int64]*models.ReminderSchedule),
	}
}

type fakeUsers struct{ *fakeStore }
type fakePolls struct{ *fakeStore }
type fakeVotes struct{ *fakeStore }
type fakeSchedules struct{ *fakeStore }

func newTestService(store *fakeStore) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(nil, logger,
		fakeUsers{store}, fakePolls{store}, fakeVotes{store}, fakeSchedules{store})
}

// --- UserRepository ---

func (f fakeUsers) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	f.users[user.ID] = &u
	return &u, nil
}

func (f fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return f.users[id], nil
}

func (f fakeUsers) ListAll(ctx context.Context) ([]*models.User, error) {
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, f.users[id])
	}
	return users, nil
}

func (f fakeUsers) ListVotersInChat(ctx context.Context, chatID int64) ([]*models.User, error) {
	seen := make(map[int64]struct{})
	var voters []*models.User
	for _, poll := range f.polls {
		if poll.ChatID != chatID {
			continue
		}
		for _, v := range poll.Votes {
			if _, ok := seen[v.UserID]; ok {
				continue
			}
			seen[v.UserID] = struct{}{}
			if u := f.users[v.UserID]; u != nil {
				voters = append(voters, u)
			}
		}
	}
	return voters, nil
}

// --- PollRepository ---

func (f fakePolls) CreateWithOptions(ctx context.Context, poll *models.Poll) (*models.Poll, error) {
	f.nextPollID++
	poll.ID = f.nextPollID
	for i := range poll.Options {
		f.nextOptionID++
		poll.Options[i].ID = f.nextOptionID
		poll.Options[i].PollID = poll.ID
	}
	f.polls[poll.ID] = poll
	return poll, nil
}

func (f fakePolls) GetByID(ctx context.Context, id int64) (*models.Poll, error) {
	return f.polls[id], nil
}

func (f fakePolls) GetActiveByChat(ctx context.Context, chatID int64) (*models.Poll, error) {
	for _, poll := range f.polls {
		if poll.ChatID == chatID && poll.Status == models.PollStatusActive {
			return poll, nil
		}
	}
	return nil, nil
}

func (f fakePolls) LastClosedMessageID(ctx context.Context, chatID int64) (*int, error) {
	var latest *models.Poll
	for _, poll := range f.polls {
		if poll.ChatID != chatID || poll.Status != models.PollStatusClosed || poll.MessageID == nil {
			continue
		}
		if latest == nil || poll.CreatedAt.After(latest.CreatedAt) {
			latest = poll
		}
	}
	if latest == nil {
		return nil, nil
	}
	return latest.MessageID, nil
}

func (f fakePolls) SetMessageID(ctx context.Context, pollID int64, messageID int) error {
	if poll := f.polls[pollID]; poll != nil {
		poll.MessageID = &messageID
	}
	return nil
}

func (f fakePolls) SetStatus(ctx context.Context, pollID int64, status models.PollStatus) error {
	if poll := f.polls[pollID]; poll != nil {
		poll.Status = status
	}
	return nil
}

// --- VoteRepository ---

func (f fakeVotes) Insert(ctx context.Context, vote *models.Vote) (*models.Vote, error) {
	f.nextVoteID++
	vote.ID = f.nextVoteID
	if poll := f.polls[vote.PollID]; poll != nil {
		poll.Votes = append(poll.Votes, *vote)
	}
	return vote, nil
}

func (f fakeVotes) Delete(ctx context.Context, userID, optionID, pollID int64) (bool, error) {
	poll := f.polls[pollID]
	if poll == nil {
		return false, nil
	}
	for i, v := range poll.Votes {
		if v.UserID == userID && v.OptionID == optionID {
			poll.Votes = append(poll.Votes[:i], poll.Votes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// --- ReminderScheduleRepository ---

func (f fakeSchedules) Create(ctx context.Context, schedule *models.ReminderSchedule) (*models.ReminderSchedule, error) {
	f.nextScheduleID++
	schedule.ID = f.nextScheduleID
	f.schedules[schedule.ID] = schedule
	return schedule, nil
}

func (f fakeSchedules) ListDue(ctx context.Context, now time.Time) ([]*models.ReminderSchedule, error) {
	if f.failListDue {
		return nil, errListDue
	}
	ids := make([]int64, 0, len(f.schedules))
	for id := range f.schedules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var due []*models.ReminderSchedule
	for _, id := range ids {
		if len(f.schedules[id].DueStages(now)) > 0 {
			due = append(due, f.schedules[id])
		}
	}
	return due, nil
}

func (f fakeSchedules) MarkSent(ctx context.Context, scheduleID int64, stage models.ReminderStage) error {
	if s := f.schedules[scheduleID]; s != nil {
		s.Sent[stage] = true
	}
	return nil
}
