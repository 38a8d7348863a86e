// Package energy implements the per-side resource pool that gates dice rolls.
package energy

import (
	"log/slog"

	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/model"
)

type sideState struct {
	current          int
	consecutiveRolls int
}

// Pool tracks current energy and the consecutive-roll counter per side.
// Roll cost escalates as base·2^n within a turn and resets at turn end.
type Pool struct {
	cfg   config.Energy
	bus   *event.Bus
	sides [2]sideState
}

// NewPool creates a Pool with both sides at the starting energy.
// bus may be nil.
func NewPool(cfg config.Energy, bus *event.Bus) *Pool {
	p := &Pool{cfg: cfg, bus: bus}
	start := p.clamp(cfg.StartingEnergy)
	for _, s := range model.Sides {
		p.sides[s].current = start
	}
	return p
}

func (p *Pool) maxEnergy() int {
	return max(0, p.cfg.MaxEnergy)
}

func (p *Pool) clamp(v int) int {
	return min(max(v, 0), p.maxEnergy())
}

// Current returns side's energy.
func (p *Pool) Current(side model.Side) int {
	return p.sides[side].current
}

// Max returns the energy cap.
func (p *Pool) Max() int {
	return p.maxEnergy()
}

// ConsecutiveRolls returns how many paid rolls side made this turn.
func (p *Pool) ConsecutiveRolls(side model.Side) int {
	return p.sides[side].consecutiveRolls
}

// NextRollCost returns clamp(base·2^n, 1, max(1, max)).
func (p *Pool) NextRollCost(side model.Side) int {
	ceiling := max(1, p.maxEnergy())
	cost := max(1, p.cfg.BaseRollCost)
	for range p.sides[side].consecutiveRolls {
		if cost >= ceiling {
			break
		}
		cost *= 2
	}
	return min(max(cost, 1), ceiling)
}

// CanRoll reports whether side can pay its next roll.
func (p *Pool) CanRoll(side model.Side) bool {
	return p.sides[side].current >= p.NextRollCost(side)
}

// ConsumeForRoll pays the next roll cost and escalates the counter.
// Returns false (no change) when side cannot pay.
func (p *Pool) ConsumeForRoll(side model.Side) bool {
	cost := p.NextRollCost(side)
	st := &p.sides[side]
	if st.current < cost {
		slog.Debug("roll cost not affordable", "side", side, "cost", cost, "energy", st.current)
		return false
	}
	st.current -= cost
	st.consecutiveRolls++
	p.notify()
	return true
}

// Spend deducts a flat cost (card costs). Returns false when side cannot pay.
func (p *Pool) Spend(side model.Side, cost int) bool {
	if cost <= 0 {
		return true
	}
	st := &p.sides[side]
	if st.current < cost {
		return false
	}
	st.current -= cost
	p.notify()
	return true
}

// AddEnergy grants amount (ignored when <= 0), clamped to max.
func (p *Pool) AddEnergy(side model.Side, amount int) {
	if amount <= 0 {
		return
	}
	st := &p.sides[side]
	st.current = p.clamp(st.current + amount)
	p.notify()
}

// SetEnergy overwrites side's energy, clamped into [0, max].
func (p *Pool) SetEnergy(side model.Side, value int) {
	p.sides[side].current = p.clamp(value)
	p.notify()
}

// EndTurn resets side's consecutive-roll counter.
func (p *Pool) EndTurn(side model.Side) {
	p.sides[side].consecutiveRolls = 0
}

func (p *Pool) notify() {
	if p.bus == nil {
		return
	}
	p.bus.Publish(event.EnergyChanged{
		Player: p.sides[model.SidePlayer].current,
		Enemy:  p.sides[model.SideEnemy].current,
	})
}
