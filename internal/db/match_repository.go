package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BatchRow represents a database row from the simulation_batches table.
type BatchRow struct {
	ID         uuid.UUID
	MasterSeed int64
	PlayerDeck string
	EnemyDeck  string
	Matches    int
	StartedAt  time.Time
}

// MatchRow represents a database row from the match_results table.
// Winner is empty for a match cut off by the turn cap.
type MatchRow struct {
	ID       uuid.UUID
	BatchID  uuid.UUID
	MatchNo  int
	Seed     int64
	Winner   string
	Turns    int
	PlayerHP int
	EnemyHP  int
}

// BatchSummary aggregates the outcomes of one batch.
type BatchSummary struct {
	Matches    int
	PlayerWins int
	EnemyWins  int
	Undecided  int
	AvgTurns   float64
}

// MatchRepository provides database access for simulated match results.
type MatchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository creates a new MatchRepository.
func NewMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{pool: pool}
}

// CreateBatch inserts a batch header.
func (r *MatchRepository) CreateBatch(ctx context.Context, b BatchRow) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO simulation_batches (id, master_seed, player_deck, enemy_deck, matches)
		 VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.MasterSeed, b.PlayerDeck, b.EnemyDeck, b.Matches)
	if err != nil {
		return fmt.Errorf("insert batch %s: %w", b.ID, err)
	}
	return nil
}

// LoadBatch loads a batch header. Returns nil, nil if it does not exist.
func (r *MatchRepository) LoadBatch(ctx context.Context, id uuid.UUID) (*BatchRow, error) {
	var b BatchRow
	err := r.pool.QueryRow(ctx,
		`SELECT id, master_seed, player_deck, enemy_deck, matches, started_at
		 FROM simulation_batches WHERE id = $1`, id,
	).Scan(&b.ID, &b.MasterSeed, &b.PlayerDeck, &b.EnemyDeck, &b.Matches, &b.StartedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query batch %s: %w", id, err)
	}
	return &b, nil
}

// SaveResult inserts one match outcome. Re-saving the same match number of
// a batch overwrites the previous row.
func (r *MatchRepository) SaveResult(ctx context.Context, m MatchRow) error {
	var winner *string
	if m.Winner != "" {
		winner = &m.Winner
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO match_results (id, batch_id, match_no, seed, winner, turns, player_hp, enemy_hp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (batch_id, match_no) DO UPDATE SET
		   id = EXCLUDED.id, seed = EXCLUDED.seed, winner = EXCLUDED.winner,
		   turns = EXCLUDED.turns, player_hp = EXCLUDED.player_hp, enemy_hp = EXCLUDED.enemy_hp`,
		m.ID, m.BatchID, m.MatchNo, m.Seed, winner, m.Turns, m.PlayerHP, m.EnemyHP)
	if err != nil {
		return fmt.Errorf("insert match result %d of batch %s: %w", m.MatchNo, m.BatchID, err)
	}
	return nil
}

// LoadResults loads every match of a batch ordered by match number.
func (r *MatchRepository) LoadResults(ctx context.Context, batchID uuid.UUID) ([]MatchRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, batch_id, match_no, seed, COALESCE(winner, ''), turns, player_hp, enemy_hp
		 FROM match_results WHERE batch_id = $1 ORDER BY match_no`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query match results: %w", err)
	}
	defer rows.Close()

	var result []MatchRow
	for rows.Next() {
		var row MatchRow
		if err := rows.Scan(&row.ID, &row.BatchID, &row.MatchNo, &row.Seed,
			&row.Winner, &row.Turns, &row.PlayerHP, &row.EnemyHP); err != nil {
			return nil, fmt.Errorf("scan match result: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Summarize aggregates a batch's outcomes.
func (r *MatchRepository) Summarize(ctx context.Context, batchID uuid.UUID) (BatchSummary, error) {
	var s BatchSummary
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE winner = 'player'),
		        COUNT(*) FILTER (WHERE winner = 'enemy'),
		        COUNT(*) FILTER (WHERE winner IS NULL),
		        COALESCE(AVG(turns), 0)::float8
		 FROM match_results WHERE batch_id = $1`, batchID,
	).Scan(&s.Matches, &s.PlayerWins, &s.EnemyWins, &s.Undecided, &s.AvgTurns)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("summarize batch %s: %w", batchID, err)
	}
	return s, nil
}
