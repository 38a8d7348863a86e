package status

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/udisondev/duelcore/internal/game/board"
	"github.com/udisondev/duelcore/internal/game/life"
	"github.com/udisondev/duelcore/internal/model"
)

// PoisonFraction of max health is lost per poisoned owner turn (min 1).
const PoisonFraction = 0.1

// PoisonDamage returns the per-turn poison damage for maxHealth.
func PoisonDamage(maxHealth int) int {
	return max(1, int(math.Round(float64(maxHealth)*PoisonFraction)))
}

// HeroHandler gives hero statuses their meaning for one side: poison ticks,
// the lethal-damage shield and the silence/stun gates.
type HeroHandler struct {
	side model.Side
	reg  *Registry
	life *life.Pool
}

// NewHeroHandler attaches side's hero listeners to book and lp.
func NewHeroHandler(side model.Side, book *Book, lp *life.Pool) *HeroHandler {
	h := &HeroHandler{side: side, reg: book.Hero(side), life: lp}
	book.OnOwnerTurn(h.onOwnerTurn)
	lp.AddModifier(fmt.Sprintf("shield:%s", side), h.absorbLethal)
	return h
}

func (h *HeroHandler) onOwnerTurn(side model.Side) {
	if side != h.side || !h.reg.Has(model.StatusPoisoned) || h.life.IsDead(side) {
		return
	}
	dmg := PoisonDamage(h.life.Starting(side))
	slog.Debug("poison tick", "side", side, "damage", dmg)
	h.life.TakeDamage(side, dmg)
}

// absorbLethal consumes Shielded to leave the hero at 1 HP when incoming
// damage would kill.
func (h *HeroHandler) absorbLethal(side model.Side, incoming int) int {
	if side != h.side || !h.reg.Has(model.StatusShielded) {
		return incoming
	}
	current := h.life.Current(side)
	if incoming < current {
		return incoming
	}
	h.reg.Remove(model.StatusShielded)
	reduced := max(0, current-1)
	slog.Info("shield absorbed lethal damage", "side", side, "incoming", incoming, "dealt", reduced)
	return reduced
}

// Silenced reports whether the hero can neither attack nor cast.
func (h *HeroHandler) Silenced() bool { return h.reg.Has(model.StatusSilenced) }

// Stunned reports whether the hero is blocked from every action but ending
// the turn.
func (h *HeroHandler) Stunned() bool { return h.reg.Has(model.StatusStunned) }

// CardHandler gives card statuses their meaning: poison erodes defense on
// the owner's turn and Silenced strips active stat buffs.
type CardHandler struct {
	book   *Book
	board  *board.Board
	timers *Timers
}

// NewCardHandler attaches card status listeners to book.
func NewCardHandler(book *Book, b *board.Board, timers *Timers) *CardHandler {
	h := &CardHandler{book: book, board: b, timers: timers}
	book.OnOwnerTurn(h.onOwnerTurn)
	book.OnChange(h.onChange)
	return h
}

func (h *CardHandler) onOwnerTurn(side model.Side) {
	for _, r := range h.book.CardsOwnedBy(side) {
		card := r.Owner().Card()
		if !card.Placed || !r.Has(model.StatusPoisoned) {
			continue
		}
		dmg := PoisonDamage(card.MaxHealth)
		card.Defense -= dmg
		slog.Debug("card poison tick", "card", card.Name, "damage", dmg, "defense", card.Defense)
		if card.Defense <= 0 {
			card.Defense = 0
			h.board.Destroy(card, board.ReasonPoison)
		}
	}
}

func (h *CardHandler) onChange(c Change) {
	card := c.Owner.Card()
	if card == nil || !c.Added || c.Entry.Type != model.StatusSilenced || h.timers == nil {
		return
	}
	h.timers.RemoveBuffs(card)
}

// Stunned reports whether card is blocked from transcendent attacks.
func (h *CardHandler) Stunned(card *model.Card) bool {
	return h.book.CardHas(card, model.StatusStunned)
}

// AuraGuard refuses new auras on heroes and cards that carry
// AuraSuppressed. The suppression intensity is the owner's resistance.
type AuraGuard struct {
	book *Book
}

// NewAuraGuard creates an AuraGuard reading book.
func NewAuraGuard(book *Book) *AuraGuard {
	return &AuraGuard{book: book}
}

// AllowsHero reports whether side's hero may receive a new aura.
func (g *AuraGuard) AllowsHero(side model.Side) bool {
	return g.allows(g.book.Hero(side))
}

// AllowsCard reports whether card may receive a new aura.
func (g *AuraGuard) AllowsCard(card *model.Card) bool {
	r, ok := g.book.LookupCard(card)
	if !ok {
		return true
	}
	return g.allows(r)
}

// Resistance returns card's AuraSuppressed intensity.
func (g *AuraGuard) Resistance(card *model.Card) int {
	r, ok := g.book.LookupCard(card)
	if !ok {
		return 0
	}
	return r.Intensity(model.StatusAuraSuppressed)
}

func (g *AuraGuard) allows(r *Registry) bool {
	if !r.Has(model.StatusAuraSuppressed) {
		return true
	}
	slog.Debug("aura refused",
		"owner", r.Owner().Side(),
		"card", r.cardName(),
		"resistance", r.Intensity(model.StatusAuraSuppressed),
		"turns", r.Remaining(model.StatusAuraSuppressed))
	return false
}
