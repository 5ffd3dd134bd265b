package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateToken records an issued bearer token for userID.
func (s *SQLiteStore) CreateToken(ctx context.Context, token string, userID int64) error {
	if token == "" {
		return fmt.Errorf("token must not be empty: %w", ErrInvalid)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO auth_tokens (token, user_id, created_at) VALUES (?, ?, ?)",
		token, userID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating token: %w", err)
	}
	return nil
}

// UserIDForToken resolves a bearer token to its user.
func (s *SQLiteStore) UserIDForToken(ctx context.Context, token string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, "SELECT user_id FROM auth_tokens WHERE token = ?", token)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("token: %w", ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("resolving token: %w", err)
	}
	return id, nil
}
