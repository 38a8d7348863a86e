package db_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/duelcore/internal/db"
	"github.com/udisondev/duelcore/internal/testutil"
)

func TestMatchRepository(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := db.NewMatchRepository(pool)
	ctx := context.Background()

	batch := db.BatchRow{
		ID:         uuid.New(),
		MasterSeed: 42,
		PlayerDeck: "paladin",
		EnemyDeck:  "necromancer",
		Matches:    3,
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	t.Run("load batch", func(t *testing.T) {
		got, err := repo.LoadBatch(ctx, batch.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, batch.MasterSeed, got.MasterSeed)
		assert.Equal(t, "necromancer", got.EnemyDeck)
		assert.False(t, got.StartedAt.IsZero())

		missing, err := repo.LoadBatch(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	rows := []db.MatchRow{
		{ID: uuid.New(), BatchID: batch.ID, MatchNo: 0, Seed: 11, Winner: "player", Turns: 10, PlayerHP: 7},
		{ID: uuid.New(), BatchID: batch.ID, MatchNo: 1, Seed: 12, Winner: "enemy", Turns: 20, EnemyHP: 3},
		{ID: uuid.New(), BatchID: batch.ID, MatchNo: 2, Seed: 13, Turns: 30, PlayerHP: 5, EnemyHP: 5},
	}
	for _, r := range rows {
		require.NoError(t, repo.SaveResult(ctx, r))
	}

	t.Run("load results", func(t *testing.T) {
		got, err := repo.LoadResults(ctx, batch.ID)
		require.NoError(t, err)
		assert.Equal(t, rows, got)
	})

	t.Run("summarize", func(t *testing.T) {
		s, err := repo.Summarize(ctx, batch.ID)
		require.NoError(t, err)
		assert.Equal(t, db.BatchSummary{Matches: 3, PlayerWins: 1, EnemyWins: 1, Undecided: 1, AvgTurns: 20}, s)
	})

	t.Run("resave overwrites", func(t *testing.T) {
		again := rows[2]
		again.ID = uuid.New()
		again.Winner = "enemy"
		require.NoError(t, repo.SaveResult(ctx, again))

		got, err := repo.LoadResults(ctx, batch.ID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, again, got[2])
	})

	t.Run("unknown batch rejected", func(t *testing.T) {
		err := repo.SaveResult(ctx, db.MatchRow{ID: uuid.New(), BatchID: uuid.New()})
		assert.Error(t, err)
	})
}
