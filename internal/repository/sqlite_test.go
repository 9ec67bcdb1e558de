package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"fifa-tracker/internal/config"
	"fifa-tracker/internal/database"
	"fifa-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Migrations mutate global goose state, so these tests run sequentially.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "tracker.db")}
	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db, zerolog.Nop())
	ctx := context.Background()

	created := time.Now()
	require.NoError(t, repo.SaveUser(ctx, &domain.User{
		WalletAddress: "0xabc",
		DisplayName:   "0xabc...def",
		CreatedAt:     created,
	}))

	t.Run("get", func(t *testing.T) {
		user, err := repo.GetUserByWallet(ctx, "0xabc")
		require.NoError(t, err)
		assert.Equal(t, "0xabc...def", user.DisplayName)
		assert.WithinDuration(t, created, user.CreatedAt, time.Second)
	})

	t.Run("upsert keeps created_at", func(t *testing.T) {
		require.NoError(t, repo.SaveUser(ctx, &domain.User{
			WalletAddress: "0xabc",
			DisplayName:   "Zidane",
			CreatedAt:     created.Add(48 * time.Hour),
		}))

		user, err := repo.GetUserByWallet(ctx, "0xabc")
		require.NoError(t, err)
		assert.Equal(t, "Zidane", user.DisplayName)
		assert.WithinDuration(t, created, user.CreatedAt, time.Second)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		_, err := repo.GetUserByWallet(ctx, "0xnobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteUser(ctx, "0xabc"))
		_, err := repo.GetUserByWallet(ctx, "0xabc")
		assert.ErrorIs(t, err, ErrNotFound)

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestMatchRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()

	first, err := repo.CreateMatch(ctx, &domain.Match{
		Player1: "0xabc", Player2: "0xdef",
		Player1Score: 3, Player2Score: 1,
		Player1Team: "Brazil", Player2Team: "France",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := repo.CreateMatch(ctx, &domain.Match{
		Player1: "0xabc", Player2: "0xghi",
		Player1Score: 0, Player2Score: 0,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	t.Run("get", func(t *testing.T) {
		match, err := repo.GetMatch(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Brazil", match.Player1Team)
		assert.Equal(t, 3, match.Player1Score)
	})

	t.Run("list newest first", func(t *testing.T) {
		rows, err := repo.ListMatches(ctx, 100)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, second.ID, rows[0].ID)

		limited, err := repo.ListMatches(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("list for player", func(t *testing.T) {
		rows, err := repo.ListMatchesForPlayer(ctx, "0xghi")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, second.ID, rows[0].ID)
	})

	t.Run("set winner", func(t *testing.T) {
		updated, err := repo.SetMatchWinner(ctx, first.ID, "0xabc")
		require.NoError(t, err)
		assert.Equal(t, "0xabc", updated.Winner)

		_, err = repo.SetMatchWinner(ctx, 9999, "0xabc")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteMatch(ctx, first.ID))
		_, err := repo.GetMatch(ctx, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		// Absent id is not an error.
		assert.NoError(t, repo.DeleteMatch(ctx, first.ID))
	})
}

func TestStatsRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewStatsRepository(db, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.UpsertStats(ctx, &domain.PlayerStats{
		UserID: "0xabc", Wins: 2, GoalsFor: 5, GoalsAgainst: 1, TotalGames: 2,
	}))
	require.NoError(t, repo.UpsertStats(ctx, &domain.PlayerStats{
		UserID: "0xdef", Wins: 1, Losses: 2, GoalsFor: 3, GoalsAgainst: 6, TotalGames: 3,
	}))

	t.Run("get", func(t *testing.T) {
		stats, err := repo.GetStats(ctx, "0xabc")
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Wins)

		_, err = repo.GetStats(ctx, "0xnobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("upsert replaces", func(t *testing.T) {
		require.NoError(t, repo.UpsertStats(ctx, &domain.PlayerStats{
			UserID: "0xabc", Wins: 3, GoalsFor: 8, GoalsAgainst: 2, TotalGames: 3,
		}))

		stats, err := repo.GetStats(ctx, "0xabc")
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Wins)
		assert.Equal(t, 8, stats.GoalsFor)
	})

	t.Run("list ordered by wins", func(t *testing.T) {
		all, err := repo.ListStats(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "0xabc", all[0].UserID)
		assert.Equal(t, "0xdef", all[1].UserID)
	})

	t.Run("participants union", func(t *testing.T) {
		users := NewUserRepository(db, zerolog.Nop())
		require.NoError(t, users.SaveUser(ctx, &domain.User{
			WalletAddress: "0xonly-user", CreatedAt: time.Now(),
		}))

		matches := NewMatchRepository(db, zerolog.Nop())
		_, err := matches.CreateMatch(ctx, &domain.Match{
			Player1: "0xp1", Player2: "0xp2", CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		participants, err := repo.Participants(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"0xabc", "0xdef", "0xonly-user", "0xp1", "0xp2"}, participants)
	})
}
