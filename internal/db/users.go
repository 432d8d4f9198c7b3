package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/marc/gazelle-sync/internal/types"
)

// CreateUser inserts a dashboard user with a pre-hashed password.
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash string) (*types.User, error) {
	var user types.User
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, email, created_at`,
		name, strings.ToLower(email), passwordHash,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, fmt.Errorf("email already registered: %s", email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user and their password hash by email;
// (nil, "", nil) when not found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*types.User, string, error) {
	var user types.User
	var hash string
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`,
		strings.ToLower(email),
	).Scan(&user.ID, &user.Name, &user.Email, &hash, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	return &user, hash, nil
}

// GetUser retrieves a user by id; (nil, nil) when not found.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	var user types.User
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
