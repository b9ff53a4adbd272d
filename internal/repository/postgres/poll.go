package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/friengo/friengo/internal/models"
	"github.com/friengo/friengo/internal/repository"
)

type pollRepository struct {
	db *sql.DB
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db *sql.DB) repository.PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) CreateWithOptions(ctx context.Context, poll *models.Poll) (*models.Poll, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO polls (chat_id, message_id, title, created_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err = tx.QueryRowContext(ctx, query,
		poll.ChatID,
		poll.MessageID,
		poll.Title,
		poll.CreatedAt,
		poll.Status,
	).Scan(&poll.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}

	optionQuery := `
		INSERT INTO poll_options (poll_id, date, description)
		VALUES ($1, $2, $3)
		RETURNING id`

	for i := range poll.Options {
		opt := &poll.Options[i]
		opt.PollID = poll.ID

		var date any
		if opt.Date != nil {
			date = *opt.Date
		}
		if err := tx.QueryRowContext(ctx, optionQuery, opt.PollID, date, opt.Description).Scan(&opt.ID); err != nil {
			return nil, fmt.Errorf("failed to create poll option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit poll creation: %w", err)
	}

	return poll, nil
}

func (r *pollRepository) GetByID(ctx context.Context, id int64) (*models.Poll, error) {
	query := `
		SELECT id, chat_id, message_id, title, created_at, status
		FROM polls
		WHERE id = $1`

	poll := &models.Poll{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&poll.ID,
		&poll.ChatID,
		&poll.MessageID,
		&poll.Title,
		&poll.CreatedAt,
		&poll.Status,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get poll by ID: %w", err)
	}

	if poll.Options, err = r.loadOptions(ctx, id); err != nil {
		return nil, err
	}
	if poll.Votes, err = r.loadVotes(ctx, id); err != nil {
		return nil, err
	}

	return poll, nil
}

func (r *pollRepository) loadOptions(ctx context.Context, pollID int64) ([]models.Option, error) {
	query := `
		SELECT id, poll_id, date, description
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to load poll options: %w", err)
	}
	defer rows.Close()

	var options []models.Option
	for rows.Next() {
		var opt models.Option
		var date sql.NullTime
		if err := rows.Scan(&opt.ID, &opt.PollID, &date, &opt.Description); err != nil {
			return nil, fmt.Errorf("failed to scan poll option: %w", err)
		}
		if date.Valid {
			d := date.Time
			opt.Date = &d
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate poll options: %w", err)
	}
	return options, nil
}

func (r *pollRepository) loadVotes(ctx context.Context, pollID int64) ([]models.Vote, error) {
	query := `
		SELECT id, user_id, option_id, poll_id, created_at
		FROM votes
		WHERE poll_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.UserID, &v.OptionID, &v.PollID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}
	return votes, nil
}

func (r *pollRepository) GetActiveByChat(ctx context.Context, chatID int64) (*models.Poll, error) {
	query := `
		SELECT id FROM polls
		WHERE chat_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var id int64
	err := r.db.QueryRowContext(ctx, query, chatID, models.PollStatusActive).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active poll for chat: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *pollRepository) LastClosedMessageID(ctx context.Context, chatID int64) (*int, error) {
	query := `
		SELECT message_id FROM polls
		WHERE chat_id = $1 AND status = $2 AND message_id IS NOT NULL
		ORDER BY created_at DESC
		LIMIT 1`

	var messageID int
	err := r.db.QueryRowContext(ctx, query, chatID, models.PollStatusClosed).Scan(&messageID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last closed poll message: %w", err)
	}

	return &messageID, nil
}

func (r *pollRepository) SetMessageID(ctx context.Context, pollID int64, messageID int) error {
	query := `UPDATE polls SET message_id = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, pollID, messageID); err != nil {
		return fmt.Errorf("failed to set poll message ID: %w", err)
	}
	return nil
}

func (r *pollRepository) SetStatus(ctx context.Context, pollID int64, status models.PollStatus) error {
	query := `UPDATE polls SET status = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, pollID, status); err != nil {
		return fmt.Errorf("failed to set poll status: %w", err)
	}
	return nil
}
