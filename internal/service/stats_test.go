package service

import (
	"context"
	"testing"

	"fifa-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	walletA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	walletB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	walletC = "0xcccccccccccccccccccccccccccccccccccccccc"
)

func TestStatsTotalGamesInvariant(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	fixtures := []struct{ p1Score, p2Score int }{
		{3, 1}, {0, 0}, {1, 4}, {2, 2}, {5, 0},
	}

	for _, f := range fixtures {
		_, err := env.matches.Create(ctx, &domain.Match{
			Player1: walletA, Player2: walletB,
			Player1Score: f.p1Score, Player2Score: f.p2Score,
		})
		require.NoError(t, err)

		for _, wallet := range []string{walletA, walletB} {
			stats, err := env.stats.Stats(ctx, wallet)
			require.NoError(t, err)
			assert.Equal(t, stats.TotalGames, stats.Wins+stats.Losses+stats.Draws,
				"total_games must equal wins+losses+draws for %s", wallet)
		}
	}
}

func TestApplyMatchAddsOneWinAndOneLoss(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	before, err := env.stats.Stats(ctx, walletA)
	require.NoError(t, err)
	beforeB, err := env.stats.Stats(ctx, walletB)
	require.NoError(t, err)

	_, err = env.matches.Create(ctx, &domain.Match{
		Player1: walletA, Player2: walletB,
		Player1Score: 2, Player2Score: 1,
	})
	require.NoError(t, err)

	after, err := env.stats.Stats(ctx, walletA)
	require.NoError(t, err)
	afterB, err := env.stats.Stats(ctx, walletB)
	require.NoError(t, err)

	assert.Equal(t, before.Wins+1, after.Wins)
	assert.Equal(t, before.Losses, after.Losses)
	assert.Equal(t, beforeB.Losses+1, afterB.Losses)
	assert.Equal(t, beforeB.Wins, afterB.Wins)
}

func TestCreateThenDeleteRoundTrip(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	match, err := env.matches.Create(ctx, &domain.Match{
		Player1: walletA, Player2: walletB,
		Player1Score: 3, Player2Score: 1,
	})
	require.NoError(t, err)

	stats, err := env.stats.Stats(ctx, walletA)
	require.NoError(t, err)
	assert.Equal(t, &domain.PlayerStats{
		UserID: walletA, Wins: 1, GoalsFor: 3, GoalsAgainst: 1, TotalGames: 1,
	}, stats)

	env.matches.Delete(ctx, match.ID)

	stats, err = env.stats.Stats(ctx, walletA)
	require.NoError(t, err)
	assert.Equal(t, &domain.PlayerStats{UserID: walletA}, stats)
}

func TestDrawAndWinScenario(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.matches.Create(ctx, &domain.Match{
		Player1: walletA, Player2: walletB,
		Player1Score: 2, Player2Score: 2,
	})
	require.NoError(t, err)
	_, err = env.matches.Create(ctx, &domain.Match{
		Player1: walletA, Player2: walletC,
		Player1Score: 5, Player2Score: 0,
	})
	require.NoError(t, err)

	stats, err := env.stats.Stats(ctx, walletA)
	require.NoError(t, err)
	assert.Equal(t, &domain.PlayerStats{
		UserID: walletA,
		Wins:   1, Draws: 1,
		GoalsFor: 7, GoalsAgainst: 2,
		TotalGames: 2,
	}, stats)
}

func TestDeleteIsApplyReverseIdempotent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.matches.Create(ctx, &domain.Match{
		Player1: walletA, Player2: walletB,
		Player1Score: 2, Player2Score: 0,
	})
	require.NoError(t, err)

	doomed, err := env.matches.Create(ctx, &domain.Match{
		Player1: walletA, Player2: walletC,
		Player1Score: 1, Player2Score: 1,
	})
	require.NoError(t, err)

	env.matches.Delete(ctx, doomed.ID)

	// Aggregates must look as if the deleted match never existed.
	stats, err := env.stats.Stats(ctx, walletA)
	require.NoError(t, err)
	assert.Equal(t, &domain.PlayerStats{
		UserID: walletA, Wins: 1, GoalsFor: 2, TotalGames: 1,
	}, stats)

	statsC, err := env.stats.Stats(ctx, walletC)
	require.NoError(t, err)
	assert.Equal(t, &domain.PlayerStats{UserID: walletC}, statsC)
}

func TestSelfMatchCountsOnceOnRecompute(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	// Zero-score self-match, as used to force-create a stats row.
	_, err := env.matches.Create(ctx, &domain.Match{
		Player1: walletA, Player2: walletA,
	})
	require.NoError(t, err)

	stats, err := env.stats.Stats(ctx, walletA)
	require.NoError(t, err)
	assert.Equal(t, &domain.PlayerStats{
		UserID: walletA, Draws: 1, TotalGames: 1,
	}, stats)
}

func TestLeaderboardOrderedByWins(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	// B beats A twice, C beats A once.
	for i := 0; i < 2; i++ {
		_, err := env.matches.Create(ctx, &domain.Match{
			Player1: walletB, Player2: walletA,
			Player1Score: 1, Player2Score: 0,
		})
		require.NoError(t, err)
	}
	_, err := env.matches.Create(ctx, &domain.Match{
		Player1: walletC, Player2: walletA,
		Player1Score: 2, Player2Score: 1,
	})
	require.NoError(t, err)

	board, err := env.stats.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 3)

	assert.Equal(t, walletB, board[0].UserID)
	assert.Equal(t, 2, board[0].Wins)
	assert.Equal(t, walletC, board[1].UserID)
	assert.Equal(t, walletA, board[2].UserID)
	assert.Equal(t, 3, board[2].Losses)
}
