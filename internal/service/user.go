package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fifa-tracker/internal/domain"
	"fifa-tracker/internal/repository"

	"github.com/rs/zerolog"
)

var ErrEmptyDisplayName = errors.New("display name must not be empty")

type UserService struct {
	users  repository.UserStore
	logger zerolog.Logger
}

func NewUserService(users repository.UserStore, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// DefaultDisplayName abbreviates a wallet address for first-time users,
// e.g. 0x1234...abcd.
func DefaultDisplayName(address string) string {
	if len(address) <= 10 {
		return address
	}
	return fmt.Sprintf("%s...%s", address[:6], address[len(address)-4:])
}

// GetOrCreate returns the user row for the wallet, creating one with
// the abbreviated-address display name on first login.
func (s *UserService) GetOrCreate(ctx context.Context, address string) (*domain.User, error) {
	user, err := s.users.GetUserByWallet(ctx, address)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &domain.User{
		WalletAddress: address,
		DisplayName:   DefaultDisplayName(address),
		CreatedAt:     time.Now(),
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("wallet", address).Str("display_name", user.DisplayName).Msg("user created")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, address string) (*domain.User, error) {
	return s.users.GetUserByWallet(ctx, address)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *UserService) UpdateDisplayName(ctx context.Context, address, displayName string) (*domain.User, error) {
	if displayName == "" {
		return nil, ErrEmptyDisplayName
	}

	user, err := s.GetOrCreate(ctx, address)
	if err != nil {
		return nil, err
	}

	user.DisplayName = displayName
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("wallet", address).Str("display_name", displayName).Msg("display name updated")
	return user, nil
}

// DeleteProfile removes the user row and immediately recreates it with
// the default display name, returning the fresh profile.
func (s *UserService) DeleteProfile(ctx context.Context, address string) (*domain.User, error) {
	if _, err := s.users.GetUserByWallet(ctx, address); err != nil {
		return nil, err
	}

	if err := s.users.DeleteUser(ctx, address); err != nil {
		return nil, err
	}
	s.logger.Info().Str("wallet", address).Msg("user profile deleted")

	return s.GetOrCreate(ctx, address)
}
