package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fifa-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *MatchRepository) CreateMatch(ctx context.Context, match *domain.Match) (*domain.Match, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO matches (player1, player2, player1_score, player2_score, player1_team, player2_team, winner, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, match.Player1, match.Player2, match.Player1Score, match.Player2Score,
		match.Player1Team, match.Player2Team, match.Winner, match.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read match id: %w", err)
	}

	created := *match
	created.ID = id
	return &created, nil
}

func (r *MatchRepository) GetMatch(ctx context.Context, id int64) (*domain.Match, error) {
	var match domain.Match
	err := r.db.QueryRowContext(ctx, `
		SELECT id, player1, player2, player1_score, player2_score, player1_team, player2_team, winner, created_at
		FROM matches
		WHERE id = ?
	`, id).Scan(
		&match.ID, &match.Player1, &match.Player2,
		&match.Player1Score, &match.Player2Score,
		&match.Player1Team, &match.Player2Team,
		&match.Winner, &match.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return &match, nil
}

func (r *MatchRepository) ListMatches(ctx context.Context, limit int) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player1, player2, player1_score, player2_score, player1_team, player2_team, winner, created_at
		FROM matches
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

func (r *MatchRepository) ListMatchesForPlayer(ctx context.Context, address string) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player1, player2, player1_score, player2_score, player1_team, player2_team, winner, created_at
		FROM matches
		WHERE player1 = ? OR player2 = ?
		ORDER BY created_at DESC, id DESC
	`, address, address)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for %s: %w", address, err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

func (r *MatchRepository) SetMatchWinner(ctx context.Context, id int64, winner string) (*domain.Match, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE matches SET winner = ? WHERE id = ?`, winner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to set winner on match %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.GetMatch(ctx, id)
}

// DeleteMatch removes the row. Deleting an id that does not exist is
// not an error.
func (r *MatchRepository) DeleteMatch(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return nil
}

func scanMatches(rows *sql.Rows) ([]domain.Match, error) {
	var matches []domain.Match
	for rows.Next() {
		var match domain.Match
		if err := rows.Scan(
			&match.ID, &match.Player1, &match.Player2,
			&match.Player1Score, &match.Player2Score,
			&match.Player1Team, &match.Player2Team,
			&match.Winner, &match.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}
