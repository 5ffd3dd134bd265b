package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/taskboard/internal/model"
)

const userColumns = "id, email, display_name, avatar_url, role"

// CreateUser inserts a new user. Emails are unique, compared case-insensitively.
func (s *SQLiteStore) CreateUser(ctx context.Context, u UserRecord) (model.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return model.User{}, fmt.Errorf("user email must not be empty: %w", ErrInvalid)
	}
	if u.PasswordHash == "" {
		return model.User{}, fmt.Errorf("user password must not be empty: %w", ErrInvalid)
	}
	if u.Role == "" {
		u.Role = "USER"
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, display_name, avatar_url, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Email, u.PasswordHash, u.DisplayName, u.AvatarURL, u.Role, time.Now().UTC(),
	)
	if isUniqueViolation(err) {
		return model.User{}, fmt.Errorf("user %s: %w", u.Email, ErrConflict)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("reading user id: %w", err)
	}
	u.ID = id
	return u.User, nil
}

// GetUserByEmail returns the user with the given email, including the
// password hash.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	var u UserRecord
	err := s.db.GetContext(ctx, &u,
		"SELECT "+userColumns+", password_hash FROM users WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", email, err)
	}
	return &u, nil
}

// GetUserByID returns the user with the given id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &u, nil
}

// UpdateProfile sets the display name and avatar of a user.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, id int64, displayName, avatarURL string) (model.User, error) {
	if strings.TrimSpace(displayName) == "" {
		return model.User{}, fmt.Errorf("display name must not be empty: %w", ErrInvalid)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET display_name = ?, avatar_url = ? WHERE id = ?",
		displayName, avatarURL, id,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("updating user %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return model.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}

	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	return *u, nil
}
