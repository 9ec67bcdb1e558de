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
)

var (
	ErrMissingPlayer        = errors.New("both players are required")
	ErrNegativeScore        = errors.New("scores must be non-negative")
	ErrWinnerAlreadySet     = errors.New("winner already declared")
	ErrWinnerNotParticipant = errors.New("winner must be one of the match players")
)

type MatchService struct {
	matches    repository.MatchStore
	stats      *StatsService
	tombstones *tombstone.Set
	logger     zerolog.Logger
}

func NewMatchService(matches repository.MatchStore, stats *StatsService, tombstones *tombstone.Set, logger zerolog.Logger) *MatchService {
	return &MatchService{matches: matches, stats: stats, tombstones: tombstones, logger: logger}
}

// Create records a match and optimistically applies it to both
// participants' aggregates.
func (s *MatchService) Create(ctx context.Context, match *domain.Match) (*domain.Match, error) {
	if match.Player1 == "" || match.Player2 == "" {
		return nil, ErrMissingPlayer
	}
	if match.Player1Score < 0 || match.Player2Score < 0 {
		return nil, ErrNegativeScore
	}
	if match.Winner != "" && match.Winner != domain.WinnerDraw && !match.Involves(match.Winner) {
		return nil, ErrWinnerNotParticipant
	}

	match.CreatedAt = time.Now()

	created, err := s.matches.CreateMatch(ctx, match)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create match")
		return nil, err
	}

	s.logger.Info().
		Int64("match_id", created.ID).
		Str("player1", created.Player1).
		Str("player2", created.Player2).
		Int("player1_score", created.Player1Score).
		Int("player2_score", created.Player2Score).
		Msg("match created")

	s.stats.ApplyMatch(ctx, created)
	return created, nil
}

// Get returns the match unless it is tombstoned, in which case it does
// not exist as far as any caller is concerned.
func (s *MatchService) Get(ctx context.Context, id int64) (*domain.Match, error) {
	if s.tombstones.Contains(id) {
		return nil, repository.ErrNotFound
	}
	return s.matches.GetMatch(ctx, id)
}

func (s *MatchService) List(ctx context.Context) ([]domain.Match, error) {
	rows, err := s.matches.ListMatches(ctx, constants.MatchListLimit)
	if err != nil {
		return nil, err
	}
	return s.filterTombstoned(rows), nil
}

func (s *MatchService) ListForPlayer(ctx context.Context, address string) ([]domain.Match, error) {
	rows, err := s.matches.ListMatchesForPlayer(ctx, address)
	if err != nil {
		return nil, err
	}
	return s.filterTombstoned(rows), nil
}

// DeclareWinner records the match outcome. A match's winner can be set
// at most once; the winner must be a participant or the draw sentinel.
func (s *MatchService) DeclareWinner(ctx context.Context, id int64, winner string) (*domain.Match, error) {
	match, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if match.Winner != "" {
		return nil, ErrWinnerAlreadySet
	}
	if winner != domain.WinnerDraw && !match.Involves(winner) {
		return nil, ErrWinnerNotParticipant
	}

	updated, err := s.matches.SetMatchWinner(ctx, id, winner)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("match_id", id).Str("winner", winner).Msg("match winner declared")
	return updated, nil
}

// Delete removes a match as far as this client is concerned. The id is
// tombstoned and persisted before anything else, so the match stays
// hidden even if every backend deletion attempt fails; the backend row
// removal itself is best effort, verified once and retried once. The
// caller is always told the deletion succeeded.
func (s *MatchService) Delete(ctx context.Context, id int64) {
	s.tombstones.Add(id)
	s.logger.Info().Int64("match_id", id).Msg("match tombstoned")

	match, err := s.matches.GetMatch(ctx, id)
	if err != nil {
		// Nothing to remove or reverse; the tombstone alone is the
		// whole effect.
		s.logger.Warn().Err(err).Int64("match_id", id).Msg("match not found for deletion")
		return
	}

	if err := s.matches.DeleteMatch(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("match_id", id).Msg("match delete failed, row stays hidden via tombstone")
	}

	// Verify the row is actually gone; one more attempt if not, then
	// accept whatever state the backend is in.
	if _, err := s.matches.GetMatch(ctx, id); err == nil {
		s.logger.Warn().Int64("match_id", id).Msg("match still present after delete, retrying once")
		if err := s.matches.DeleteMatch(ctx, id); err != nil {
			s.logger.Warn().Err(err).Int64("match_id", id).Msg("second delete attempt failed, relying on tombstone")
		}
	}

	time.Sleep(constants.DeleteSettleDelay)

	s.stats.ReverseMatch(ctx, match)
	s.logger.Info().Int64("match_id", id).Msg("match deletion completed")
}

// ClearTombstones wipes the deleted-id set. Administrative use only:
// previously hidden rows that were never removed server-side become
// visible again.
func (s *MatchService) ClearTombstones() {
	s.tombstones.Clear()
}

func (s *MatchService) filterTombstoned(rows []domain.Match) []domain.Match {
	if s.tombstones.Len() == 0 {
		return rows
	}

	visible := rows[:0]
	for _, match := range rows {
		if !s.tombstones.Contains(match.ID) {
			visible = append(visible, match)
		}
	}
	return visible
}
