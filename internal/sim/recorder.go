package sim

import (
	"context"

	"github.com/udisondev/duelcore/internal/db"
)

//go:generate go tool mockgen -destination=mocks/recorder_mock.go -package=mocks . Recorder

// Recorder persists batch headers and match outcomes.
// Record is called concurrently from runner workers.
type Recorder interface {
	BeginBatch(ctx context.Context, batch Batch) error
	Record(ctx context.Context, outcome Outcome) error
}

// DBRecorder stores results through the Postgres match repository.
type DBRecorder struct {
	repo *db.MatchRepository
}

// NewDBRecorder creates a DBRecorder over repo.
func NewDBRecorder(repo *db.MatchRepository) *DBRecorder {
	return &DBRecorder{repo: repo}
}

// BeginBatch inserts the batch header.
func (r *DBRecorder) BeginBatch(ctx context.Context, batch Batch) error {
	return r.repo.CreateBatch(ctx, db.BatchRow{
		ID:         batch.ID,
		MasterSeed: batch.MasterSeed,
		PlayerDeck: batch.PlayerDeck,
		EnemyDeck:  batch.EnemyDeck,
		Matches:    batch.Matches,
	})
}

// Record inserts one match result.
func (r *DBRecorder) Record(ctx context.Context, o Outcome) error {
	row := db.MatchRow{
		ID:       o.MatchID,
		BatchID:  o.BatchID,
		MatchNo:  o.MatchNo,
		Seed:     o.Seed,
		Turns:    o.Result.Turns,
		PlayerHP: o.Result.PlayerHP,
		EnemyHP:  o.Result.EnemyHP,
	}
	if o.Result.Decided {
		row.Winner = o.Result.Winner.String()
	}
	return r.repo.SaveResult(ctx, row)
}
