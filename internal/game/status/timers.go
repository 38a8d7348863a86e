package status

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/game/board"
	"github.com/udisondev/duelcore/internal/game/life"
	"github.com/udisondev/duelcore/internal/model"
)

// CardStatBuff is a temporary stat change on one card. It counts down on the
// card owner's turn starts and reverts itself on expiry.
type CardStatBuff struct {
	Card        *model.Card
	Attack      int
	Defense     int
	MaxHealth   int
	HealOnApply bool
	TurnsLeft   int
	appliedDef  int
	removed     bool
}

func (b *CardStatBuff) apply() {
	c := b.Card
	c.Attack += b.Attack
	c.MaxHealth += b.MaxHealth

	before := c.Defense
	c.Defense = min(c.MaxHealth, c.Defense+b.Defense)
	b.appliedDef = c.Defense - before

	if b.MaxHealth > 0 && b.HealOnApply {
		c.Defense = min(c.MaxHealth, c.Defense+b.MaxHealth)
	}
}

// revert undoes the buff. Expiry never drops a living card below 1 defense.
func (b *CardStatBuff) revert() {
	if b.removed {
		return
	}
	b.removed = true
	c := b.Card
	c.Attack -= b.Attack
	c.MaxHealth = max(1, c.MaxHealth-b.MaxHealth)
	if c.Defense > 0 {
		c.Defense = min(c.MaxHealth, max(1, c.Defense-b.appliedDef))
	}
}

type regeneration struct {
	side      model.Side
	perTurn   int
	turnsLeft int
}

type banishment struct {
	card      *model.Card
	side      model.Side
	slotIndex int
	turnsLeft int
}

type lifetime struct {
	card      *model.Card
	turnsLeft int
}

// Timers runs owner-turn timed effects: card buffs, hero regeneration,
// banishment and the lifetime of corrupted summons.
type Timers struct {
	board *board.Board
	life  *life.Pool

	buffs     []*CardStatBuff
	regens    []*regeneration
	banished  []*banishment
	lifetimes []*lifetime

	// returnToHand takes a banished card that found no slot. It reports
	// whether the hand accepted it.
	returnToHand func(side model.Side, card *model.Card) bool
}

// NewTimers creates Timers over b and lp, ticking on bus turn starts.
// bus may be nil; call BeginTurn directly then.
func NewTimers(b *board.Board, lp *life.Pool, bus *event.Bus) *Timers {
	t := &Timers{board: b, life: lp}
	if bus != nil {
		bus.OnTurnStarted(func(e event.TurnStarted) { t.BeginTurn(e.Side) })
	}
	return t
}

// SetReturnToHand sets where banished cards go when no slot is free.
func (t *Timers) SetReturnToHand(fn func(side model.Side, card *model.Card) bool) {
	t.returnToHand = fn
}

// AddCardBuff applies a buff to card for max(1, turns) owner turns.
func (t *Timers) AddCardBuff(card *model.Card, atk, def, turns, maxHP int, healOnApply bool) *CardStatBuff {
	if card == nil {
		return nil
	}
	b := &CardStatBuff{
		Card:        card,
		Attack:      atk,
		Defense:     def,
		MaxHealth:   maxHP,
		HealOnApply: healOnApply,
		TurnsLeft:   max(1, turns),
	}
	b.apply()
	t.buffs = append(t.buffs, b)
	slog.Debug("card buff applied",
		"card", card.Name,
		"atk", atk,
		"def", def,
		"max_hp", maxHP,
		"turns", b.TurnsLeft)
	return b
}

// Buffs returns card's active buffs.
func (t *Timers) Buffs(card *model.Card) []*CardStatBuff {
	var out []*CardStatBuff
	for _, b := range t.buffs {
		if b.Card == card {
			out = append(out, b)
		}
	}
	return out
}

// RemoveBuffs reverts every active buff on card. Returns how many were removed.
func (t *Timers) RemoveBuffs(card *model.Card) int {
	n := 0
	t.buffs = slices.DeleteFunc(t.buffs, func(b *CardStatBuff) bool {
		if b.Card != card {
			return false
		}
		b.revert()
		n++
		return true
	})
	if n > 0 {
		slog.Debug("card buffs removed", "card", card.Name, "count", n)
	}
	return n
}

// AddRegeneration heals side's hero perTurn HP on each of its next turns.
func (t *Timers) AddRegeneration(side model.Side, perTurn, turns int) {
	t.regens = append(t.regens, &regeneration{side: side, perTurn: max(1, perTurn), turnsLeft: max(1, turns)})
	slog.Debug("regeneration applied", "side", side, "per_turn", perTurn, "turns", turns)
}

// Regenerating reports whether side has an active regeneration.
func (t *Timers) Regenerating(side model.Side) bool {
	return slices.ContainsFunc(t.regens, func(r *regeneration) bool { return r.side == side })
}

// Banish removes a placed card from the board for max(1, turns) of its
// owner's turns, remembering its slot.
func (t *Timers) Banish(card *model.Card, turns int) error {
	slot, ok := t.board.Locate(card)
	if !ok {
		return fmt.Errorf("banish %s: not on board: %w", cardName(card), model.ErrMissingReference)
	}
	side := slot.Zone().Side()
	index := slot.Index()
	slot.Clear()
	t.banished = append(t.banished, &banishment{card: card, side: side, slotIndex: index, turnsLeft: max(1, turns)})
	slog.Info("card banished", "card", card.Name, "side", side, "turns", max(1, turns))
	return nil
}

// IsBanished reports whether card is waiting to return.
func (t *Timers) IsBanished(card *model.Card) bool {
	return slices.ContainsFunc(t.banished, func(b *banishment) bool { return b.card == card })
}

// AddLifetime destroys card after turns of its owner's turn starts.
func (t *Timers) AddLifetime(card *model.Card, turns int) {
	if card == nil {
		return
	}
	t.lifetimes = append(t.lifetimes, &lifetime{card: card, turnsLeft: max(1, turns)})
}

// Forget drops every timer bound to a destroyed card.
func (t *Timers) Forget(card *model.Card) {
	t.buffs = slices.DeleteFunc(t.buffs, func(b *CardStatBuff) bool { return b.Card == card })
	t.lifetimes = slices.DeleteFunc(t.lifetimes, func(l *lifetime) bool { return l.card == card })
}

// BeginTurn advances every timer owned by side.
func (t *Timers) BeginTurn(side model.Side) {
	t.tickBuffs(side)
	t.tickRegens(side)
	t.tickBanished(side)
	t.tickLifetimes(side)
}

func (t *Timers) tickBuffs(side model.Side) {
	t.buffs = slices.DeleteFunc(t.buffs, func(b *CardStatBuff) bool {
		if b.Card.Owner != side {
			return false
		}
		b.TurnsLeft--
		if b.TurnsLeft > 0 {
			return false
		}
		b.revert()
		slog.Debug("card buff expired", "card", b.Card.Name)
		return true
	})
}

func (t *Timers) tickRegens(side model.Side) {
	var due []*regeneration
	t.regens = slices.DeleteFunc(t.regens, func(r *regeneration) bool {
		if r.side != side {
			return false
		}
		due = append(due, r)
		r.turnsLeft--
		return r.turnsLeft <= 0
	})
	for _, r := range due {
		if t.life != nil {
			t.life.Heal(r.side, r.perTurn)
		}
	}
}

func (t *Timers) tickBanished(side model.Side) {
	var back []*banishment
	t.banished = slices.DeleteFunc(t.banished, func(b *banishment) bool {
		if b.side != side {
			return false
		}
		b.turnsLeft--
		if b.turnsLeft > 0 {
			return false
		}
		back = append(back, b)
		return true
	})
	for _, b := range back {
		t.returnBanished(b)
	}
}

// returnBanished tries the original slot, then the first empty slot, then
// the hand. A card with nowhere to go is destroyed.
func (t *Timers) returnBanished(b *banishment) {
	zone := t.board.Zone(b.side)
	if slot, ok := zone.Slot(b.slotIndex); ok && slot.IsEmpty() {
		slot.ForcePlace(b.card)
		slog.Info("banished card returned", "card", b.card.Name, "slot", b.slotIndex)
		return
	}
	if slot, ok := zone.FirstEmptySlot(); ok {
		slot.ForcePlace(b.card)
		slog.Info("banished card returned", "card", b.card.Name, "slot", slot.Index())
		return
	}
	if t.returnToHand != nil && t.returnToHand(b.side, b.card) {
		slog.Info("banished card returned to hand", "card", b.card.Name, "side", b.side)
		return
	}
	slog.Warn("banished card has nowhere to return", "card", b.card.Name, "side", b.side)
	t.board.Destroy(b.card, board.ReasonBanishment)
}

func (t *Timers) tickLifetimes(side model.Side) {
	var expired []*lifetime
	t.lifetimes = slices.DeleteFunc(t.lifetimes, func(l *lifetime) bool {
		if l.card.Owner != side {
			return false
		}
		l.turnsLeft--
		if l.turnsLeft > 0 {
			return false
		}
		expired = append(expired, l)
		return true
	})
	for _, l := range expired {
		t.board.Destroy(l.card, board.ReasonLifetime)
	}
}

func cardName(c *model.Card) string {
	if c == nil {
		return "<nil>"
	}
	return c.Name
}
