// Package sim runs batches of AI-vs-AI matches concurrently and records
// their outcomes. Every match owns its engine; only the report is shared.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/duelcore/internal/ai"
	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/data"
	"github.com/udisondev/duelcore/internal/game/deck"
	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/match"
	"github.com/udisondev/duelcore/internal/model"
)

// Batch identifies one Run.
type Batch struct {
	ID         uuid.UUID
	MasterSeed int64
	PlayerDeck string
	EnemyDeck  string
	Matches    int
}

// Outcome is the result of one simulated match.
type Outcome struct {
	BatchID uuid.UUID
	MatchNo int
	MatchID uuid.UUID
	Seed    int64
	Result  match.Result
}

// Report aggregates a finished batch.
type Report struct {
	Batch      Batch
	Outcomes   []Outcome // ordered by MatchNo
	PlayerWins int
	EnemyWins  int
	Undecided  int
	TotalTurns int
	Elapsed    time.Duration
}

// WinRate returns side's share of decided and undecided matches.
func (r Report) WinRate(side model.Side) float64 {
	if len(r.Outcomes) == 0 {
		return 0
	}
	wins := r.PlayerWins
	if side == model.SideEnemy {
		wins = r.EnemyWins
	}
	return float64(wins) / float64(len(r.Outcomes))
}

// AvgTurns returns the mean match length.
func (r Report) AvgTurns() float64 {
	if len(r.Outcomes) == 0 {
		return 0
	}
	return float64(r.TotalTurns) / float64(len(r.Outcomes))
}

// Runner plays configured batches.
type Runner struct {
	cfg      config.Simulation
	catalog  *data.Catalog
	recorder Recorder
}

// NewRunner creates a Runner. recorder may be nil to skip persistence.
func NewRunner(cfg config.Simulation, catalog *data.Catalog, recorder Recorder) *Runner {
	return &Runner{cfg: cfg, catalog: catalog, recorder: recorder}
}

// Run plays cfg.Matches matches on cfg.Workers goroutines.
//
// Workflow:
//  1. Resolve both deck lists from the catalog
//  2. Pick the master seed (cfg.Seed, or random when 0) and open the batch
//  3. Play each match with a seed derived from the master seed and its index
//  4. Record each outcome; the first error cancels the remaining matches
func (r *Runner) Run(ctx context.Context) (Report, error) {
	playerDeck, err := r.catalog.Deck(r.cfg.PlayerDeck)
	if err != nil {
		return Report{}, fmt.Errorf("player deck: %w", err)
	}
	enemyDeck, err := r.catalog.Deck(r.cfg.EnemyDeck)
	if err != nil {
		return Report{}, fmt.Errorf("enemy deck: %w", err)
	}

	master := r.cfg.Seed
	if master == 0 {
		master = rand.Int64()
	}
	batch := Batch{
		ID:         uuid.New(),
		MasterSeed: master,
		PlayerDeck: r.cfg.PlayerDeck,
		EnemyDeck:  r.cfg.EnemyDeck,
		Matches:    r.cfg.Matches,
	}
	if r.recorder != nil {
		if err := r.recorder.BeginBatch(ctx, batch); err != nil {
			return Report{}, fmt.Errorf("begin batch %s: %w", batch.ID, err)
		}
	}
	slog.Info("simulation starting",
		"batch", batch.ID,
		"seed", master,
		"matches", batch.Matches,
		"workers", r.cfg.Workers,
		"player_deck", batch.PlayerDeck,
		"enemy_deck", batch.EnemyDeck)

	start := time.Now()
	report := Report{Batch: batch}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.cfg.Workers))
	for i := range r.cfg.Matches {
		g.Go(func() error {
			out, err := r.playOne(gctx, batch, i, [2][]deck.Entry{playerDeck, enemyDeck})
			if err != nil {
				return err
			}
			if r.recorder != nil {
				if err := r.recorder.Record(gctx, out); err != nil {
					return fmt.Errorf("record match %d: %w", i, err)
				}
			}
			mu.Lock()
			report.add(out)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("batch %s: %w", batch.ID, err)
	}

	slices.SortFunc(report.Outcomes, func(a, b Outcome) int { return a.MatchNo - b.MatchNo })
	report.Elapsed = time.Since(start)
	slog.Info("simulation finished",
		"batch", batch.ID,
		"player_wins", report.PlayerWins,
		"enemy_wins", report.EnemyWins,
		"undecided", report.Undecided,
		"avg_turns", report.AvgTurns(),
		"elapsed", report.Elapsed)
	return report, nil
}

func (r *Runner) playOne(ctx context.Context, batch Batch, index int, decks [2][]deck.Entry) (Outcome, error) {
	seed := dice.DeriveSeed(batch.MasterSeed, index)
	m, err := match.New(match.Setup{
		Balance: r.cfg.Balance,
		Source:  dice.NewRandSource(seed),
		Decks:   decks,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("match %d: %w", index, err)
	}
	if err := m.Start(); err != nil {
		return Outcome{}, fmt.Errorf("match %d: %w", index, err)
	}

	driver := ai.NewDriver(r.cfg.MaxTurns)
	for _, side := range model.Sides {
		driver.Register(ai.NewScriptedPolicy(side, r.cfg.Balance.Deck.MaxDrawRollsTurn))
	}
	if err := driver.Run(ctx, m); err != nil {
		return Outcome{}, fmt.Errorf("match %d (seed %d): %w", index, seed, err)
	}

	res := m.Result()
	slog.Debug("match finished", "batch", batch.ID, "match", index, "decided", res.Decided, "winner", res.Winner, "turns", res.Turns)
	return Outcome{BatchID: batch.ID, MatchNo: index, MatchID: m.ID(), Seed: seed, Result: res}, nil
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.TotalTurns += o.Result.Turns
	switch {
	case !o.Result.Decided:
		r.Undecided++
	case o.Result.Winner == model.SidePlayer:
		r.PlayerWins++
	default:
		r.EnemyWins++
	}
}
