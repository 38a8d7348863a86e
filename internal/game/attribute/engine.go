// Package attribute generates each side's six ability scores from one d20.
package attribute

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/model"
)

// Engine owns one AttributeBlock per side, created at most once.
type Engine struct {
	cfg    config.Attributes
	src    dice.Source
	blocks [2]*model.AttributeBlock

	// appliedFunc is called after a side's block is created (starting HP wiring).
	appliedFunc func(side model.Side, block model.AttributeBlock)
}

// NewEngine creates an Engine with no blocks.
func NewEngine(cfg config.Attributes, src dice.Source) *Engine {
	return &Engine{cfg: cfg, src: src}
}

// SetAppliedFunc sets the callback run after a block is created.
func (e *Engine) SetAppliedFunc(fn func(side model.Side, block model.AttributeBlock)) {
	e.appliedFunc = fn
}

// NeedsInitialRoll is true until side has a block.
func (e *Engine) NeedsInitialRoll(side model.Side) bool {
	return e.blocks[side] == nil
}

// Block returns side's block.
func (e *Engine) Block(side model.Side) (model.AttributeBlock, bool) {
	b := e.blocks[side]
	if b == nil {
		return model.AttributeBlock{}, false
	}
	return *b, true
}

// Modifier returns side's ability modifier, or 0 without a block.
func (e *Engine) Modifier(side model.Side, a model.Ability) int {
	b := e.blocks[side]
	if b == nil {
		return 0
	}
	return b.Modifier(a)
}

// Score returns side's raw score, or 0 without a block.
func (e *Engine) Score(side model.Side, a model.Ability) int {
	b := e.blocks[side]
	if b == nil {
		return 0
	}
	return b.Score(a)
}

// TryApplyInitialRoll creates side's block from roll.
// A second call for the same side fails and leaves the first block unchanged.
func (e *Engine) TryApplyInitialRoll(side model.Side, roll int) (model.AttributeBlock, error) {
	if existing := e.blocks[side]; existing != nil {
		slog.Debug("attribute roll rejected, block exists", "side", side, "roll", roll)
		return *existing, fmt.Errorf("attributes for %s already rolled: %w", side, model.ErrInvalidAction)
	}

	block := e.generate(roll)
	e.blocks[side] = &block

	slog.Info("attributes rolled",
		"side", side,
		"roll", block.CriticalRoll,
		"status", block.Status,
		"total", block.Total(),
		"max_life", block.MaxLife)

	if e.appliedFunc != nil {
		e.appliedFunc(side, block)
	}
	return block, nil
}

// GenerateTemporaryStatBlock runs the same generation without storing it.
// Used by transcendence rerolls and corrupted summons.
func (e *Engine) GenerateTemporaryStatBlock(roll int) model.AttributeBlock {
	return e.generate(roll)
}

// DebugReset forgets side's block so it can roll again.
func (e *Engine) DebugReset(side model.Side) {
	e.blocks[side] = nil
	slog.Debug("attributes reset", "side", side)
}

// generate builds a block from a d20.
//
// Workflow:
//  1. Clamp roll to [1, 20] and adjust the pool: 20 → +25%, 1 → −25%
//  2. Clamp the pool to [min·6, max·6]
//  3. Start every score at min and hand out the rest one point at a time
//     among scores still below max (bounded by MaxAllocationIterations)
//  4. Derive maxLife from CON
func (e *Engine) generate(roll int) model.AttributeBlock {
	roll = min(max(roll, 1), dice.D20)
	block := model.AttributeBlock{CriticalRoll: roll, Status: model.RollNormal}

	pool := e.cfg.BasePointPool
	quarter := max(1, int(math.Round(float64(pool)*0.25)))
	switch roll {
	case dice.D20:
		pool += quarter
		block.Status = model.RollCriticalBonus
	case 1:
		pool = max(pool-quarter, 0)
		block.Status = model.RollCriticalPenalty
	}

	minScore, maxScore := e.cfg.MinScore, max(e.cfg.MinScore, e.cfg.MaxScore)
	n := len(model.Abilities)
	pool = min(max(pool, minScore*n), maxScore*n)

	for i := range block.Scores {
		block.Scores[i] = minScore
	}
	remaining := pool - minScore*n

	guard := max(1, e.cfg.MaxAllocationIterations)
	open := make([]int, 0, n)
	iterations := 0
	for remaining > 0 {
		if iterations >= guard {
			slog.Warn("attribute allocation guard hit, keeping partial block",
				"remaining", remaining,
				"iterations", iterations)
			break
		}
		iterations++

		open = open[:0]
		for i, s := range block.Scores {
			if s < maxScore {
				open = append(open, i)
			}
		}
		if len(open) == 0 {
			break
		}
		block.Scores[open[e.src.Intn(len(open))]]++
		remaining--
	}

	conMod := model.AbilityModifier(block.Scores[model.AbilityCON])
	block.MaxLife = max(1, e.cfg.BaseLife+conMod*e.cfg.HitDiceSize)
	return block
}
