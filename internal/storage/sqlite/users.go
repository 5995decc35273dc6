package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vacanza-be/internal/models"
	"vacanza-be/internal/storage"
)

// CreateUser persists a new user and populates its ID.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (email, name, avatar_url, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.Email, user.Name, user.AvatarURL, user.PasswordHash, user.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, avatar_url, password_hash, created_at FROM users WHERE "+where,
		arg,
	).Scan(&user.ID, &user.Email, &user.Name, &user.AvatarURL, &user.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %v: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	return user, nil
}

// SearchUsers finds users whose name or email contains the query,
// case-insensitively. Used for group member invitation lookup.
func (s *SQLiteStore) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, name, avatar_url, created_at FROM users
		 WHERE name LIKE ? COLLATE NOCASE OR email LIKE ? COLLATE NOCASE
		 ORDER BY name LIMIT ?`,
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		var createdAt int64
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.AvatarURL, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.CreatedAt = time.Unix(createdAt, 0).UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
