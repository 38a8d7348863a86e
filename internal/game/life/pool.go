// Package life tracks each side's hero HP and routes damage through an
// ordered modifier pipeline.
package life

import (
	"log/slog"
	"slices"

	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/model"
)

// DamageModifier may reduce (or raise) incoming damage for side.
// It receives the output of the previous modifier.
type DamageModifier func(side model.Side, incoming int) int

type namedModifier struct {
	id   uint64
	name string
	fn   DamageModifier
}

type heroState struct {
	starting int
	current  int
	dead     bool
}

// Pool holds both heroes' HP.
type Pool struct {
	bus    *event.Bus
	heroes [2]heroState

	modifiers []namedModifier
	nextID    uint64

	deathFuncs []func(side model.Side)
}

// NewPool creates a Pool with both heroes at startingHP (min 1). bus may be nil.
func NewPool(startingHP int, bus *event.Bus) *Pool {
	p := &Pool{bus: bus}
	hp := max(1, startingHP)
	for _, s := range model.Sides {
		p.heroes[s] = heroState{starting: hp, current: hp}
	}
	return p
}

// AddModifier appends fn to the damage pipeline. Modifiers run in the order
// added. The returned func removes it.
func (p *Pool) AddModifier(name string, fn DamageModifier) (remove func()) {
	p.nextID++
	id := p.nextID
	p.modifiers = append(p.modifiers, namedModifier{id: id, name: name, fn: fn})
	return func() {
		p.modifiers = slices.DeleteFunc(p.modifiers, func(m namedModifier) bool { return m.id == id })
	}
}

// OnDeath registers fn to run when a hero's HP reaches 0.
func (p *Pool) OnDeath(fn func(side model.Side)) {
	p.deathFuncs = append(p.deathFuncs, fn)
}

// Current returns side's HP.
func (p *Pool) Current(side model.Side) int { return p.heroes[side].current }

// Starting returns side's max HP.
func (p *Pool) Starting(side model.Side) int { return p.heroes[side].starting }

// IsDead reports whether side's hero died.
func (p *Pool) IsDead(side model.Side) bool { return p.heroes[side].dead }

// ApplyStartingHP resets side to hp (min 1) and revives it.
func (p *Pool) ApplyStartingHP(side model.Side, hp int) {
	hp = max(1, hp)
	p.heroes[side] = heroState{starting: hp, current: hp}
	slog.Debug("starting hp applied", "side", side, "hp", hp)
	p.notify(side)
}

// TakeDamage runs amount through the modifier pipeline and subtracts the
// result. Non-positive amounts and dead heroes are ignored.
// Returns the damage actually dealt.
func (p *Pool) TakeDamage(side model.Side, amount int) int {
	h := &p.heroes[side]
	if amount <= 0 || h.dead {
		return 0
	}

	dmg := amount
	for _, m := range slices.Clone(p.modifiers) {
		dmg = m.fn(side, dmg)
		if dmg <= 0 {
			slog.Debug("damage absorbed", "side", side, "incoming", amount, "by", m.name)
			dmg = 0
			break
		}
	}
	if dmg == 0 {
		p.notify(side)
		return 0
	}

	h.current -= dmg
	died := false
	if h.current <= 0 {
		h.current = 0
		h.dead = true
		died = true
	}

	slog.Debug("hero damaged", "side", side, "incoming", amount, "dealt", dmg, "hp", h.current)
	p.notify(side)

	if died {
		slog.Info("hero died", "side", side)
		for _, fn := range p.deathFuncs {
			fn(side)
		}
	}
	return dmg
}

// Heal restores amount, clamped to starting HP. Non-positive amounts and
// dead heroes are ignored. Returns the HP actually restored.
func (p *Pool) Heal(side model.Side, amount int) int {
	h := &p.heroes[side]
	if amount <= 0 || h.dead {
		return 0
	}
	before := h.current
	h.current = min(h.starting, h.current+amount)
	p.notify(side)
	return h.current - before
}

func (p *Pool) notify(side model.Side) {
	if p.bus == nil {
		return
	}
	h := p.heroes[side]
	p.bus.Publish(event.LifeChanged{Side: side, Current: h.current, Max: h.starting})
}
