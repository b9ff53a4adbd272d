package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/friengo/friengo/internal/models"
	"github.com/friengo/friengo/internal/repository"
)

type scheduleRepository struct {
	db *sql.DB
}

// NewReminderScheduleRepository creates a new reminder schedule repository
func NewReminderScheduleRepository(db *sql.DB) repository.ReminderScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.ReminderSchedule) (*models.ReminderSchedule, error) {
	query := `
		INSERT INTO reminder_schedules
			(poll_id, fire_24h_at, fire_48h_at, fire_72h_at, sent_24h, sent_48h, sent_72h)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		schedule.PollID,
		schedule.FireAt[models.ReminderAfter24h],
		schedule.FireAt[models.ReminderAfter48h],
		schedule.FireAt[models.ReminderAfter72h],
		schedule.Sent[models.ReminderAfter24h],
		schedule.Sent[models.ReminderAfter48h],
		schedule.Sent[models.ReminderAfter72h],
	).Scan(&schedule.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder schedule: %w", err)
	}

	return schedule, nil
}

func (r *scheduleRepository) ListDue(ctx context.Context, now time.Time) ([]*models.ReminderSchedule, error) {
	query := `
		SELECT id, poll_id, fire_24h_at, fire_48h_at, fire_72h_at, sent_24h, sent_48h, sent_72h
		FROM reminder_schedules
		WHERE (fire_24h_at <= $1 AND NOT sent_24h)
		   OR (fire_48h_at <= $1 AND NOT sent_48h)
		   OR (fire_72h_at <= $1 AND NOT sent_72h)
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	defer rows.Close()

	var schedules []*models.ReminderSchedule
	for rows.Next() {
		s := &models.ReminderSchedule{}
		err := rows.Scan(
			&s.ID,
			&s.PollID,
			&s.FireAt[models.ReminderAfter24h],
			&s.FireAt[models.ReminderAfter48h],
			&s.FireAt[models.ReminderAfter72h],
			&s.Sent[models.ReminderAfter24h],
			&s.Sent[models.ReminderAfter48h],
			&s.Sent[models.ReminderAfter72h],
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminder schedules: %w", err)
	}

	return schedules, nil
}

func (r *scheduleRepository) MarkSent(ctx context.Context, scheduleID int64, stage models.ReminderStage) error {
	var column string
	switch stage {
	case models.ReminderAfter24h:
		column = "sent_24h"
	case models.ReminderAfter48h:
		column = "sent_48h"
	case models.ReminderAfter72h:
		column = "sent_72h"
	default:
		return fmt.Errorf("unknown reminder stage %d", stage)
	}

	query := fmt.Sprintf(`UPDATE reminder_schedules SET %s = TRUE WHERE id = $1`, column)

	if _, err := r.db.ExecContext(ctx, query, scheduleID); err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}
