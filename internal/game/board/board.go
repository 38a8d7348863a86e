// Package board holds the two zones of fixed slots cards are placed into.
package board

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/duelcore/internal/model"
)

// DefaultSlotsPerZone is used when NewBoard gets a non-positive size.
const DefaultSlotsPerZone = 5

// Destroy reasons.
const (
	ReasonDamage     = "damage"
	ReasonPoison     = "poison"
	ReasonMerged     = "merged"
	ReasonBanishment = "banishment"
	ReasonLifetime   = "corrupted lifetime"
	ReasonPurged     = "purged"
	ReasonBroken     = "broken"
)

// CardFunc observes a card on a side.
type CardFunc func(side model.Side, card *model.Card)

// Board owns one zone per side and the placement hooks.
type Board struct {
	zones [2]*Zone

	placedFuncs    []CardFunc
	removedFuncs   []CardFunc
	destroyedFuncs []func(card *model.Card, reason string)

	// spellFunc receives spells dropped on a slot instead of placing them.
	spellFunc func(side model.Side, card *model.Card) error
}

// NewBoard creates a board with slotsPerZone empty slots per side.
func NewBoard(slotsPerZone int) *Board {
	if slotsPerZone <= 0 {
		slotsPerZone = DefaultSlotsPerZone
	}
	b := &Board{}
	for _, side := range model.Sides {
		z := &Zone{board: b, side: side, slots: make([]*Slot, slotsPerZone)}
		for i := range z.slots {
			z.slots[i] = &Slot{zone: z, index: i}
		}
		b.zones[side] = z
	}
	return b
}

// Zone returns side's zone.
func (b *Board) Zone(side model.Side) *Zone {
	return b.zones[side]
}

// OnPlaced registers fn to run after a card lands in a slot.
func (b *Board) OnPlaced(fn CardFunc) {
	b.placedFuncs = append(b.placedFuncs, fn)
}

// OnRemoved registers fn to run after a card leaves a slot.
func (b *Board) OnRemoved(fn CardFunc) {
	b.removedFuncs = append(b.removedFuncs, fn)
}

// OnDestroyed registers fn to run after Destroy.
func (b *Board) OnDestroyed(fn func(card *model.Card, reason string)) {
	b.destroyedFuncs = append(b.destroyedFuncs, fn)
}

// SetSpellFunc sets the handler spells are routed to when dropped on a slot.
func (b *Board) SetSpellFunc(fn func(side model.Side, card *model.Card) error) {
	b.spellFunc = fn
}

// Locate finds the slot holding card on either side.
func (b *Board) Locate(card *model.Card) (*Slot, bool) {
	if card == nil {
		return nil, false
	}
	return b.FindCard(card.ID)
}

// FindCard finds the slot holding the card with id on either side.
func (b *Board) FindCard(id uuid.UUID) (*Slot, bool) {
	for _, z := range b.zones {
		if s, ok := z.FindCard(id); ok {
			return s, true
		}
	}
	return nil, false
}

// Destroy removes card from play for good: clears its slot (if any) and
// runs the destroyed hooks (discard pile, status cleanup, notification).
func (b *Board) Destroy(card *model.Card, reason string) {
	if card == nil {
		return
	}
	if s, ok := b.Locate(card); ok {
		s.Clear()
	}
	slog.Debug("card destroyed", "card", card.Name, "owner", card.Owner, "reason", reason)
	for _, fn := range b.destroyedFuncs {
		fn(card, reason)
	}
}

func (b *Board) notifyPlaced(side model.Side, card *model.Card) {
	for _, fn := range b.placedFuncs {
		fn(side, card)
	}
}

func (b *Board) notifyRemoved(side model.Side, card *model.Card) {
	for _, fn := range b.removedFuncs {
		fn(side, card)
	}
}

// Zone is one side's ordered row of slots.
type Zone struct {
	board *Board
	side  model.Side
	slots []*Slot
}

// Side returns the zone's owner.
func (z *Zone) Side() model.Side { return z.side }

// Slots returns the zone's slots in order.
func (z *Zone) Slots() []*Slot { return z.slots }

// Slot returns the slot at index i.
func (z *Zone) Slot(i int) (*Slot, bool) {
	if i < 0 || i >= len(z.slots) {
		return nil, false
	}
	return z.slots[i], true
}

// FirstEmptySlot returns the lowest-index empty slot.
func (z *Zone) FirstEmptySlot() (*Slot, bool) {
	for _, s := range z.slots {
		if s.IsEmpty() {
			return s, true
		}
	}
	return nil, false
}

// Cards returns the placed cards in slot order.
func (z *Zone) Cards() []*model.Card {
	cards := make([]*model.Card, 0, len(z.slots))
	for _, s := range z.slots {
		if s.card != nil {
			cards = append(cards, s.card)
		}
	}
	return cards
}

// FirstCard returns the first placed card matching keep (nil keep accepts all).
func (z *Zone) FirstCard(keep func(*model.Card) bool) (*model.Card, bool) {
	for _, s := range z.slots {
		if s.card != nil && (keep == nil || keep(s.card)) {
			return s.card, true
		}
	}
	return nil, false
}

// FindCard returns the slot holding the card with id.
func (z *Zone) FindCard(id uuid.UUID) (*Slot, bool) {
	for _, s := range z.slots {
		if s.card != nil && s.card.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Slot holds at most one card.
type Slot struct {
	zone  *Zone
	index int
	card  *model.Card
}

// Index returns the slot's position in its zone.
func (s *Slot) Index() int { return s.index }

// Zone returns the zone owning the slot.
func (s *Slot) Zone() *Zone { return s.zone }

// Card returns the occupant, or nil.
func (s *Slot) Card() *model.Card { return s.card }

// IsEmpty reports whether the slot has no occupant.
func (s *Slot) IsEmpty() bool { return s.card == nil }

// TryPlace puts card in the slot.
// Spells are routed to the board's spell handler instead of occupying it.
func (s *Slot) TryPlace(card *model.Card) error {
	if card == nil {
		return fmt.Errorf("place in slot %d: no card: %w", s.index, model.ErrMissingReference)
	}
	if card.IsSpell() {
		if s.zone.board.spellFunc == nil {
			return fmt.Errorf("place spell %s: no spell handler: %w", card.Name, model.ErrMissingReference)
		}
		return s.zone.board.spellFunc(s.zone.side, card)
	}
	if !s.IsEmpty() {
		slog.Debug("slot occupied", "side", s.zone.side, "slot", s.index, "card", card.Name)
		return fmt.Errorf("place %s in %s slot %d: occupied: %w", card.Name, s.zone.side, s.index, model.ErrInvalidAction)
	}
	s.occupy(card)
	return nil
}

// ForcePlace puts card in the slot without spell routing, evicting any
// occupant first. Used when returning banished or claimed cards.
func (s *Slot) ForcePlace(card *model.Card) {
	if card == nil {
		return
	}
	if s.card != nil {
		s.Clear()
	}
	s.occupy(card)
}

func (s *Slot) occupy(card *model.Card) {
	if prev, ok := s.zone.board.Locate(card); ok {
		prev.Clear()
	}
	s.card = card
	card.Owner = s.zone.side
	card.Placed = true
	card.SlotIndex = s.index
	s.zone.board.notifyPlaced(s.zone.side, card)
}

// Clear empties the slot and returns the previous occupant.
func (s *Slot) Clear() *model.Card {
	card := s.card
	if card == nil {
		return nil
	}
	s.card = nil
	card.Placed = false
	card.SlotIndex = -1
	s.zone.board.notifyRemoved(s.zone.side, card)
	return card
}
