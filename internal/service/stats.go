package service

import (
	"context"
	"errors"
	"time"

	"fifa-tracker/internal/constants"
	"fifa-tracker/internal/domain"
	"fifa-tracker/internal/repository"
	"fifa-tracker/internal/tombstone"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// StatsService keeps the per-player aggregates consistent with the set
// of visible matches. Aggregates are derived state: every read
// recomputes from the match rows, because the backend offers no atomic
// increment the client could rely on. The optimistic increment path
// used on match creation is allowed to drift until the next recompute.
type StatsService struct {
	matches    repository.MatchStore
	stats      repository.StatsStore
	tombstones *tombstone.Set
	logger     zerolog.Logger
}

func NewStatsService(matches repository.MatchStore, stats repository.StatsStore, tombstones *tombstone.Set, logger zerolog.Logger) *StatsService {
	return &StatsService{matches: matches, stats: stats, tombstones: tombstones, logger: logger}
}

// Stats returns the aggregate for the user, always rebuilt by folding
// every non-tombstoned match the user took part in, and upserts the
// result as the new stats row.
func (s *StatsService) Stats(ctx context.Context, userID string) (*domain.PlayerStats, error) {
	return s.recompute(ctx, userID)
}

func (s *StatsService) recompute(ctx context.Context, userID string) (*domain.PlayerStats, error) {
	// Give the backend a moment to settle recent writes before the
	// full scan. Inherited from the source design.
	time.Sleep(constants.StatsSettleDelay)

	rows, err := s.matches.ListMatchesForPlayer(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to list matches for recompute, returning zero stats")
		return zeroStats(userID), nil
	}

	stats := zeroStats(userID)
	for _, match := range rows {
		if s.tombstones.Contains(match.ID) {
			continue
		}
		foldMatch(stats, &match, userID)
	}
	stats.TotalGames = stats.Wins + stats.Losses + stats.Draws

	if err := s.stats.UpsertStats(ctx, stats); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to store recomputed stats")
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("wins", stats.Wins).
		Int("losses", stats.Losses).
		Int("draws", stats.Draws).
		Int("total_games", stats.TotalGames).
		Msg("stats recomputed")

	return stats, nil
}

// ApplyMatch is the optimistic fast path run on match creation: each
// participant's row is incremented by one game's worth of outcome
// rather than recomputed. A self-match gets applied to the same row
// twice here; the next recompute corrects that, since the fold counts
// each match exactly once.
func (s *StatsService) ApplyMatch(ctx context.Context, match *domain.Match) {
	s.applyTo(ctx, match.Player1, match.Player1Score, match.Player2Score)
	s.applyTo(ctx, match.Player2, match.Player2Score, match.Player1Score)
}

func (s *StatsService) applyTo(ctx context.Context, userID string, goalsFor, goalsAgainst int) {
	stats := s.currentOrZero(ctx, userID)

	stats.GoalsFor += goalsFor
	stats.GoalsAgainst += goalsAgainst
	stats.TotalGames++
	switch {
	case goalsFor > goalsAgainst:
		stats.Wins++
	case goalsFor < goalsAgainst:
		stats.Losses++
	default:
		stats.Draws++
	}

	if err := s.stats.UpsertStats(ctx, stats); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to apply match to stats")
	}
}

// ReverseMatch backs the match's contribution out of both participants'
// aggregates, clamping every counter at zero, then immediately runs a
// full recompute for both to correct any drift the subtraction left.
func (s *StatsService) ReverseMatch(ctx context.Context, match *domain.Match) {
	s.reverseTo(ctx, match.Player1, match.Player1Score, match.Player2Score)
	s.reverseTo(ctx, match.Player2, match.Player2Score, match.Player1Score)

	if _, err := s.recompute(ctx, match.Player1); err != nil {
		s.logger.Warn().Err(err).Str("user_id", match.Player1).Msg("post-delete recompute failed")
	}
	if _, err := s.recompute(ctx, match.Player2); err != nil {
		s.logger.Warn().Err(err).Str("user_id", match.Player2).Msg("post-delete recompute failed")
	}
}

func (s *StatsService) reverseTo(ctx context.Context, userID string, goalsFor, goalsAgainst int) {
	stats := s.currentOrZero(ctx, userID)

	stats.GoalsFor = clampZero(stats.GoalsFor - goalsFor)
	stats.GoalsAgainst = clampZero(stats.GoalsAgainst - goalsAgainst)
	stats.TotalGames = clampZero(stats.TotalGames - 1)
	switch {
	case goalsFor > goalsAgainst:
		stats.Wins = clampZero(stats.Wins - 1)
	case goalsFor < goalsAgainst:
		stats.Losses = clampZero(stats.Losses - 1)
	default:
		stats.Draws = clampZero(stats.Draws - 1)
	}

	if err := s.stats.UpsertStats(ctx, stats); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to reverse match from stats")
	}
}

// RecomputeAll rebuilds the aggregate for every wallet the system has
// ever seen, with bounded fan-out.
func (s *StatsService) RecomputeAll(ctx context.Context) error {
	participants, err := s.stats.Participants(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.RecomputeConcurrency)
	for _, userID := range participants {
		userID := userID
		g.Go(func() error {
			_, err := s.recompute(gctx, userID)
			return err
		})
	}
	return g.Wait()
}

// Leaderboard recomputes every participant's aggregate, then returns
// the stats rows ordered by wins.
func (s *StatsService) Leaderboard(ctx context.Context) ([]domain.PlayerStats, error) {
	if err := s.RecomputeAll(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("leaderboard recompute incomplete")
	}

	time.Sleep(constants.LeaderboardSettleDelay)

	return s.stats.ListStats(ctx)
}

func (s *StatsService) currentOrZero(ctx context.Context, userID string) *domain.PlayerStats {
	stats, err := s.stats.GetStats(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return zeroStats(userID)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to read current stats, starting from zero")
		return zeroStats(userID)
	}
	return stats
}

// foldMatch adds one match's outcome to stats from userID's side.
// Ties count as a draw for both participants.
func foldMatch(stats *domain.PlayerStats, match *domain.Match, userID string) {
	isPlayer1 := match.Player1 == userID
	goalsFor, goalsAgainst := match.Player2Score, match.Player1Score
	if isPlayer1 {
		goalsFor, goalsAgainst = match.Player1Score, match.Player2Score
	}

	stats.GoalsFor += goalsFor
	stats.GoalsAgainst += goalsAgainst
	switch {
	case goalsFor > goalsAgainst:
		stats.Wins++
	case goalsFor < goalsAgainst:
		stats.Losses++
	default:
		stats.Draws++
	}
}

func zeroStats(userID string) *domain.PlayerStats {
	return &domain.PlayerStats{UserID: userID}
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
