package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/friengo/friengo/internal/models"
	"github.com/friengo/friengo/internal/repository"
)

type voteRepository struct {
	db *sql.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *sql.DB) repository.VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Insert(ctx context.Context, vote *models.Vote) (*models.Vote, error) {
	query := `
		INSERT INTO votes (user_id, option_id, poll_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		vote.UserID,
		vote.OptionID,
		vote.PollID,
		vote.CreatedAt,
	).Scan(&vote.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert vote: %w", err)
	}

	return vote, nil
}

func (r *voteRepository) Delete(ctx context.Context, userID, optionID, pollID int64) (bool, error) {
	query := `
		DELETE FROM votes
		WHERE user_id = $1 AND option_id = $2 AND poll_id = $3`

	result, err := r.db.ExecContext(ctx, query, userID, optionID, pollID)
	if err != nil {
		return false, fmt.Errorf("failed to delete vote: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
