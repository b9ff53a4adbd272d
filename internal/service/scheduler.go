package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/friengo/friengo/internal/metrics"
	"github.com/friengo/friengo/internal/models"
)

const (
	// scanInterval is how often the scheduler looks for due reminders.
	scanInterval = 5 * time.Minute

	// errorBackoff is the shortened wait after a failed scan cycle.
	errorBackoff = time.Minute
)

// ReminderCallback delivers a reminder message to a chat. Delivery
// failures are returned so the scheduler can retry on the next cycle.
type ReminderCallback func(chatID, pollID int64, text string) error

// StartReminderScheduler runs the background loop that fires the
// 24/48/72 hour reminders. Each reminder is marked sent only after the
// callback succeeds, so a failed delivery is retried on a later cycle
// (duplicates are possible if the flag write fails after a successful
// send). The loop blocks until the context is cancelled and should be
// launched in its own goroutine.
func (s *Service) StartReminderScheduler(ctx context.Context, deliver ReminderCallback) {
	if !s.schedulerRunning.CAS(false, true) {
		s.logger.Warn("Reminder scheduler is already running")
		return
	}
	defer s.schedulerRunning.Store(false)

	s.logger.Info("Reminder scheduler started")

	wait := scanInterval
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reminder scheduler stopped")
			return
		case <-time.After(wait):
		}

		if err := s.processDueReminders(ctx, deliver); err != nil {
			s.logger.Errorf("Reminder scan cycle had errors: %v", err)
			wait = errorBackoff
		} else {
			wait = scanInterval
		}
	}
}

// processDueReminders scans for due reminder stages and fires each one.
// A failure on one stage never blocks the others; everything that went
// wrong in the cycle is collected into the returned error.
func (s *Service) processDueReminders(ctx context.Context, deliver ReminderCallback) error {
	now := time.Now()

	schedules, err := s.Schedules.ListDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list due reminders: %w", err)
	}

	var errs *multierror.Error
	for _, schedule := range schedules {
		poll, err := s.Polls.GetByID(ctx, schedule.PollID)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to load poll %d: %w", schedule.PollID, err))
			continue
		}
		if poll == nil {
			continue
		}

		for _, stage := range schedule.DueStages(now) {
			if !poll.IsActive() {
				// Closed polls no longer need nagging; retire the stage
				// so it stops coming back as due.
				if err := s.Schedules.MarkSent(ctx, schedule.ID, stage); err != nil {
					errs = multierror.Append(errs, err)
				}
				continue
			}

			if err := deliver(poll.ChatID, poll.ID, stageMessage(stage)); err != nil {
				metrics.ReminderFailures.Inc()
				errs = multierror.Append(errs,
					fmt.Errorf("failed to deliver %s reminder for poll %d: %w", stage, poll.ID, err))
				continue
			}

			if err := s.Schedules.MarkSent(ctx, schedule.ID, stage); err != nil {
				errs = multierror.Append(errs, err)
				continue
			}

			metrics.RemindersSent.WithLabelValues(stage.String()).Inc()
			s.logger.Infof("Sent %s reminder for poll %d", stage, poll.ID)
		}
	}

	return errs.ErrorOrNil()
}

func stageMessage(stage models.ReminderStage) string {
	var header string
	switch stage {
	case models.ReminderAfter24h:
		header = "⏰ 24 hours have passed since the poll was created!"
	case models.ReminderAfter48h:
		header = "⏰ 48 hours have passed since the poll was created!"
	case models.ReminderAfter72h:
		header = "🚨 72 hours have passed since the poll was created!"
	default:
		header = "⏰ Poll reminder!"
	}
	return header + "\n\n📣 Don't forget to vote for the days that work for you!"
}

// ManualPing sends an immediate, caller-triggered nag to the users who
// have not voted yet. It bypasses the schedule entirely. The outcome is
// reported as a human-readable string; delivery errors are captured in
// it rather than returned.
func (s *Service) ManualPing(ctx context.Context, deliver ReminderCallback, chatID, pollID int64, nonVoted []*models.User) string {
	if len(nonVoted) == 0 {
		return "Everyone has already voted! 🎉"
	}

	mentions := make([]string, 0, len(nonVoted))
	for _, user := range nonVoted {
		mentions = append(mentions, user.Mention())
	}

	text := fmt.Sprintf("📢 Friendly reminder to vote!\n\n"+
		"👥 Still waiting on: %s\n\n"+
		"🗳 Tap the buttons under the poll message!",
		strings.Join(mentions, ", "))

	if err := deliver(chatID, pollID, text); err != nil {
		s.logger.Errorf("Failed to send manual ping for poll %d: %v", pollID, err)
		return fmt.Sprintf("Failed to send ping: %v", err)
	}

	return fmt.Sprintf("Ping sent! Waiting on %d people to vote", len(nonVoted))
}
