package repository

import (
	"context"
	"errors"

	"fifa-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// The failover stores run every operation against the primary backend
// and, when the call itself fails, repeat it against the process-local
// fallback. A clean not-found never triggers failover: that is an
// answer, not an outage. Reads are never merged across the two layers.

type FailoverUserStore struct {
	primary  UserStore
	fallback UserStore
	logger   zerolog.Logger
}

func NewFailoverUserStore(primary UserStore, fallback UserStore, logger zerolog.Logger) *FailoverUserStore {
	return &FailoverUserStore{primary: primary, fallback: fallback, logger: logger}
}

func (f *FailoverUserStore) SaveUser(ctx context.Context, user *domain.User) error {
	if err := f.primary.SaveUser(ctx, user); err != nil {
		f.logger.Warn().Err(err).Str("wallet", user.WalletAddress).Msg("primary user save failed, using fallback")
		return f.fallback.SaveUser(ctx, user)
	}
	return nil
}

func (f *FailoverUserStore) GetUserByWallet(ctx context.Context, address string) (*domain.User, error) {
	user, err := f.primary.GetUserByWallet(ctx, address)
	if err == nil || errors.Is(err, ErrNotFound) {
		return user, err
	}
	f.logger.Warn().Err(err).Str("wallet", address).Msg("primary user lookup failed, using fallback")
	return f.fallback.GetUserByWallet(ctx, address)
}

func (f *FailoverUserStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := f.primary.ListUsers(ctx)
	if err == nil {
		return users, nil
	}
	f.logger.Warn().Err(err).Msg("primary user list failed, using fallback")
	return f.fallback.ListUsers(ctx)
}

func (f *FailoverUserStore) DeleteUser(ctx context.Context, address string) error {
	if err := f.primary.DeleteUser(ctx, address); err != nil {
		f.logger.Warn().Err(err).Str("wallet", address).Msg("primary user delete failed, using fallback")
		return f.fallback.DeleteUser(ctx, address)
	}
	return nil
}

type FailoverMatchStore struct {
	primary  MatchStore
	fallback MatchStore
	logger   zerolog.Logger
}

func NewFailoverMatchStore(primary MatchStore, fallback MatchStore, logger zerolog.Logger) *FailoverMatchStore {
	return &FailoverMatchStore{primary: primary, fallback: fallback, logger: logger}
}

func (f *FailoverMatchStore) CreateMatch(ctx context.Context, match *domain.Match) (*domain.Match, error) {
	created, err := f.primary.CreateMatch(ctx, match)
	if err == nil {
		return created, nil
	}
	f.logger.Warn().Err(err).Msg("primary match insert failed, using fallback")
	return f.fallback.CreateMatch(ctx, match)
}

func (f *FailoverMatchStore) GetMatch(ctx context.Context, id int64) (*domain.Match, error) {
	match, err := f.primary.GetMatch(ctx, id)
	if err == nil || errors.Is(err, ErrNotFound) {
		return match, err
	}
	f.logger.Warn().Err(err).Int64("match_id", id).Msg("primary match lookup failed, using fallback")
	return f.fallback.GetMatch(ctx, id)
}

func (f *FailoverMatchStore) ListMatches(ctx context.Context, limit int) ([]domain.Match, error) {
	matches, err := f.primary.ListMatches(ctx, limit)
	if err == nil {
		return matches, nil
	}
	f.logger.Warn().Err(err).Msg("primary match list failed, using fallback")
	return f.fallback.ListMatches(ctx, limit)
}

func (f *FailoverMatchStore) ListMatchesForPlayer(ctx context.Context, address string) ([]domain.Match, error) {
	matches, err := f.primary.ListMatchesForPlayer(ctx, address)
	if err == nil {
		return matches, nil
	}
	f.logger.Warn().Err(err).Str("wallet", address).Msg("primary player match list failed, using fallback")
	return f.fallback.ListMatchesForPlayer(ctx, address)
}

func (f *FailoverMatchStore) SetMatchWinner(ctx context.Context, id int64, winner string) (*domain.Match, error) {
	match, err := f.primary.SetMatchWinner(ctx, id, winner)
	if err == nil || errors.Is(err, ErrNotFound) {
		return match, err
	}
	f.logger.Warn().Err(err).Int64("match_id", id).Msg("primary winner update failed, using fallback")
	return f.fallback.SetMatchWinner(ctx, id, winner)
}

// DeleteMatch is the deletion flow's second transport path: when the
// primary refuses the delete, the fallback copy (if any) still goes.
func (f *FailoverMatchStore) DeleteMatch(ctx context.Context, id int64) error {
	if err := f.primary.DeleteMatch(ctx, id); err != nil {
		f.logger.Warn().Err(err).Int64("match_id", id).Msg("primary match delete failed, using fallback")
		return f.fallback.DeleteMatch(ctx, id)
	}
	return nil
}

type FailoverStatsStore struct {
	primary  StatsStore
	fallback StatsStore
	logger   zerolog.Logger
}

func NewFailoverStatsStore(primary StatsStore, fallback StatsStore, logger zerolog.Logger) *FailoverStatsStore {
	return &FailoverStatsStore{primary: primary, fallback: fallback, logger: logger}
}

func (f *FailoverStatsStore) UpsertStats(ctx context.Context, stats *domain.PlayerStats) error {
	if err := f.primary.UpsertStats(ctx, stats); err != nil {
		f.logger.Warn().Err(err).Str("user_id", stats.UserID).Msg("primary stats upsert failed, using fallback")
		return f.fallback.UpsertStats(ctx, stats)
	}
	return nil
}

func (f *FailoverStatsStore) GetStats(ctx context.Context, userID string) (*domain.PlayerStats, error) {
	stats, err := f.primary.GetStats(ctx, userID)
	if err == nil || errors.Is(err, ErrNotFound) {
		return stats, err
	}
	f.logger.Warn().Err(err).Str("user_id", userID).Msg("primary stats lookup failed, using fallback")
	return f.fallback.GetStats(ctx, userID)
}

func (f *FailoverStatsStore) ListStats(ctx context.Context) ([]domain.PlayerStats, error) {
	stats, err := f.primary.ListStats(ctx)
	if err == nil {
		return stats, nil
	}
	f.logger.Warn().Err(err).Msg("primary stats list failed, using fallback")
	return f.fallback.ListStats(ctx)
}

func (f *FailoverStatsStore) Participants(ctx context.Context) ([]string, error) {
	participants, err := f.primary.Participants(ctx)
	if err == nil {
		return participants, nil
	}
	f.logger.Warn().Err(err).Msg("primary participants query failed, using fallback")
	return f.fallback.Participants(ctx)
}
