package repository

import (
	"context"
	"errors"

	"fifa-tracker/internal/domain"
)

// ErrNotFound is returned by lookups when no row matches. It is a
// not-found in the error taxonomy, not a backend failure, so the
// failover wrappers do not treat it as a reason to fall back.
var ErrNotFound = errors.New("not found")

type UserStore interface {
	SaveUser(ctx context.Context, user *domain.User) error
	GetUserByWallet(ctx context.Context, address string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, address string) error
}

type MatchStore interface {
	CreateMatch(ctx context.Context, match *domain.Match) (*domain.Match, error)
	GetMatch(ctx context.Context, id int64) (*domain.Match, error)
	ListMatches(ctx context.Context, limit int) ([]domain.Match, error)
	ListMatchesForPlayer(ctx context.Context, address string) ([]domain.Match, error)
	SetMatchWinner(ctx context.Context, id int64, winner string) (*domain.Match, error)
	DeleteMatch(ctx context.Context, id int64) error
}

type StatsStore interface {
	UpsertStats(ctx context.Context, stats *domain.PlayerStats) error
	GetStats(ctx context.Context, userID string) (*domain.PlayerStats, error)
	ListStats(ctx context.Context) ([]domain.PlayerStats, error)
	// Participants returns every wallet known to the system: registered
	// users, stats rows, and both sides of every recorded match.
	Participants(ctx context.Context) ([]string, error)
}
