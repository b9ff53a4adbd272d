package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/friengo/friengo/internal/models"
	"github.com/friengo/friengo/internal/repository"
)

// Service is the central business logic layer that holds all repositories
// and provides high-level methods for the application.
type Service struct {
	db        *sql.DB
	logger    *logrus.Logger
	Users     repository.UserRepository
	Polls     repository.PollRepository
	Votes     repository.VoteRepository
	Schedules repository.ReminderScheduleRepository

	schedulerRunning atomic.Bool
}

// New creates a new Service with all required dependencies.
func New(db *sql.DB, logger *logrus.Logger,
	users repository.UserRepository,
	polls repository.PollRepository,
	votes repository.VoteRepository,
	schedules repository.ReminderScheduleRepository,
) *Service {
	return &Service{
		db: db, logger: logger,
		Users: users, Polls: polls, Votes: votes, Schedules: schedules,
	}
}

// EnsureUser records the user as seen, creating or refreshing their
// profile. It is called on every observed interaction so the registry
// stays current without an explicit registration step.
func (s *Service) EnsureUser(ctx context.Context, id int64, username, firstName, lastName string) (*models.User, error) {
	user := &models.User{
		ID:        id,
		Username:  strings.TrimSpace(username),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}

	user, err := s.Users.Upsert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %d: %w", id, err)
	}

	return user, nil
}
