package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fifa-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type UserRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewUserRepository(sqlDB *sql.DB, logger zerolog.Logger) *UserRepository {
	return &UserRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// SaveUser upserts on wallet_address. created_at is set once at first
// save and never overwritten by later profile updates.
func (r *UserRepository) SaveUser(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (wallet_address, display_name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(wallet_address) DO UPDATE SET
			display_name = excluded.display_name
	`, user.WalletAddress, user.DisplayName, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.WalletAddress, err)
	}
	return nil
}

func (r *UserRepository) GetUserByWallet(ctx context.Context, address string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowContext(ctx, `
		SELECT wallet_address, display_name, created_at
		FROM users
		WHERE wallet_address = ?
	`, address).Scan(&user.WalletAddress, &user.DisplayName, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", address, err)
	}
	return &user, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT wallet_address, display_name, created_at
		FROM users
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.WalletAddress, &user.DisplayName, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) DeleteUser(ctx context.Context, address string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE wallet_address = ?`, address)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", address, err)
	}
	return nil
}
