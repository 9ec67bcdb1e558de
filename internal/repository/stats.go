package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fifa-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type StatsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewStatsRepository(sqlDB *sql.DB, logger zerolog.Logger) *StatsRepository {
	return &StatsRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *StatsRepository) UpsertStats(ctx context.Context, stats *domain.PlayerStats) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO player_stats (user_id, wins, losses, draws, goals_for, goals_against, total_games)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			wins          = excluded.wins,
			losses        = excluded.losses,
			draws         = excluded.draws,
			goals_for     = excluded.goals_for,
			goals_against = excluded.goals_against,
			total_games   = excluded.total_games
	`, stats.UserID, stats.Wins, stats.Losses, stats.Draws,
		stats.GoalsFor, stats.GoalsAgainst, stats.TotalGames)
	if err != nil {
		return fmt.Errorf("failed to upsert stats for %s: %w", stats.UserID, err)
	}
	return nil
}

func (r *StatsRepository) GetStats(ctx context.Context, userID string) (*domain.PlayerStats, error) {
	var stats domain.PlayerStats
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, wins, losses, draws, goals_for, goals_against, total_games
		FROM player_stats
		WHERE user_id = ?
	`, userID).Scan(
		&stats.UserID, &stats.Wins, &stats.Losses, &stats.Draws,
		&stats.GoalsFor, &stats.GoalsAgainst, &stats.TotalGames,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for %s: %w", userID, err)
	}
	return &stats, nil
}

func (r *StatsRepository) ListStats(ctx context.Context) ([]domain.PlayerStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, wins, losses, draws, goals_for, goals_against, total_games
		FROM player_stats
		ORDER BY wins DESC, goals_for DESC, user_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats: %w", err)
	}
	defer rows.Close()

	var all []domain.PlayerStats
	for rows.Next() {
		var stats domain.PlayerStats
		if err := rows.Scan(
			&stats.UserID, &stats.Wins, &stats.Losses, &stats.Draws,
			&stats.GoalsFor, &stats.GoalsAgainst, &stats.TotalGames,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		all = append(all, stats)
	}
	return all, rows.Err()
}

func (r *StatsRepository) Participants(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT wallet_address FROM users
		UNION
		SELECT user_id FROM player_stats
		UNION
		SELECT player1 FROM matches
		UNION
		SELECT player2 FROM matches
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []string
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, address)
	}
	return participants, rows.Err()
}
