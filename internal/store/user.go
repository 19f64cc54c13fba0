package store

import (
	"context"
	"fmt"
)

// User rows exist only so foreign keys on creator/user columns hold; identity
// itself is owned by the external provider and never verified here.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	FullName string `json:"full_name" db:"full_name"`
}

// CreateUser inserts a user row and fills in the generated id.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	query := `INSERT INTO users (username, full_name) VALUES ($1, $2) RETURNING id`

	if err := s.queryRowxContext(ctx, query, u.Username, u.FullName).Scan(&u.ID); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser loads one user by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := s.getContext(ctx, &u, `SELECT id, username, full_name FROM users WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &u, nil
}
