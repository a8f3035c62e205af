package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

func newResultRepo(t *testing.T) ResultRepository {
	t.Helper()

	st, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Init(context.Background()))

	return NewResultRepository(st.Connection)
}

func TestResultRepository_Stats(t *testing.T) {
	t.Run("Empty table gives zero stats", func(t *testing.T) {
		repo := newResultRepo(t)

		stats, err := repo.Stats(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &entity.Stats{}, stats)
	})

	t.Run("Counts wins, losses and draws from the human's side", func(t *testing.T) {
		ctx := context.Background()
		repo := newResultRepo(t)
		now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

		// Given: one win, two losses and a draw
		results := []*entity.Result{
			{GameID: "g1", Winner: "X", HumanMark: tictactoe.PlayerX, Difficulty: entity.EasyDifficulty, Moves: 7, FinishedAt: now},
			{GameID: "g2", Winner: "O", HumanMark: tictactoe.PlayerX, Difficulty: entity.HardDifficulty, Moves: 8, FinishedAt: now},
			{GameID: "g3", Winner: "X", HumanMark: tictactoe.PlayerO, Difficulty: entity.HardDifficulty, Moves: 7, FinishedAt: now},
			{GameID: "g4", Winner: entity.PlayerTie, HumanMark: tictactoe.PlayerO, Difficulty: entity.HardDifficulty, Moves: 9, FinishedAt: now},
		}
		for _, result := range results {
			require.NoError(t, repo.Save(ctx, result))
		}

		// When: reading stats
		stats, err := repo.Stats(ctx)

		// Then: each outcome is counted once
		require.NoError(t, err)
		assert.Equal(t, &entity.Stats{Games: 4, Wins: 1, Losses: 2, Draws: 1}, stats)
	})

	t.Run("Saving the same game twice replaces it", func(t *testing.T) {
		ctx := context.Background()
		repo := newResultRepo(t)

		result := &entity.Result{GameID: "g1", Winner: entity.PlayerTie, HumanMark: tictactoe.PlayerX, Moves: 9, FinishedAt: time.Now()}
		require.NoError(t, repo.Save(ctx, result))
		require.NoError(t, repo.Save(ctx, result))

		stats, err := repo.Stats(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, stats.Games)
	})
}

func TestResultRepository_Recent(t *testing.T) {
	ctx := context.Background()
	repo := newResultRepo(t)
	base := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

	// Given: three results a minute apart
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, &entity.Result{
			GameID:     id,
			Winner:     "O",
			HumanMark:  tictactoe.PlayerX,
			Difficulty: entity.HardDifficulty,
			Moves:      6,
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	// When: asking for the two most recent
	recent, err := repo.Recent(ctx, 2)

	// Then: newest first, fields round-trip
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].GameID)
	assert.Equal(t, "b", recent[1].GameID)
	assert.Equal(t, tictactoe.PlayerX, recent[0].HumanMark)
	assert.Equal(t, base.Add(2*time.Minute), recent[0].FinishedAt)
	assert.Equal(t, entity.OutcomeLoss, recent[0].Outcome())
}
