package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/friengo/friengo/internal/models"
	"github.com/friengo/friengo/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, username, first_name, last_name
		FROM users
		WHERE id = $1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

func (r *userRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, username, first_name, last_name
		FROM users
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (r *userRepository) ListVotersInChat(ctx context.Context, chatID int64) ([]*models.User, error) {
	query := `
		SELECT DISTINCT u.id, u.username, u.first_name, u.last_name
		FROM users u
		JOIN votes v ON v.user_id = u.id
		JOIN polls p ON p.id = v.poll_id
		WHERE p.chat_id = $1
		ORDER BY u.id`

	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat voters: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]*models.User, error) {
	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.FirstName, &user.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
