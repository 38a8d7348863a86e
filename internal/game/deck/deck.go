// Package deck holds each side's draw pile, discard pile and hand, and turns
// draw rolls into cards.
package deck

import (
	"slices"

	"github.com/google/uuid"

	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/model"
)

// Entry is one deck-list line.
type Entry struct {
	Template *model.CardTemplate
	Copies   int
}

// Deck is one side's draw and discard piles. The top of the draw pile is
// index 0.
type Deck struct {
	owner   model.Side
	src     dice.Source
	draw    []*model.Card
	discard []*model.Card
}

// NewDeck creates an empty deck for owner shuffled with src.
func NewDeck(owner model.Side, src dice.Source) *Deck {
	return &Deck{owner: owner, src: src}
}

// Owner returns the deck's side.
func (d *Deck) Owner() model.Side { return d.owner }

// Build replaces both piles with max(1, Copies) fresh cards per entry.
func (d *Deck) Build(entries []Entry) {
	d.draw = d.draw[:0]
	d.discard = nil
	for _, e := range entries {
		if e.Template == nil {
			continue
		}
		for range max(1, e.Copies) {
			d.draw = append(d.draw, model.NewCard(e.Template, d.owner))
		}
	}
}

// Shuffle reorders the draw pile (Fisher-Yates).
func (d *Deck) Shuffle() {
	for i := len(d.draw) - 1; i > 0; i-- {
		j := d.src.Intn(i + 1)
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	}
}

// Draw takes the top card. An empty draw pile is refilled from the shuffled
// discard pile first. Returns nil when both piles are empty.
func (d *Deck) Draw() *model.Card {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return nil
		}
		d.draw = append(d.draw, d.discard...)
		d.discard = nil
		d.Shuffle()
	}
	top := d.draw[0]
	d.draw = d.draw[1:]
	return top
}

// Discard puts card on top of the discard pile.
func (d *Deck) Discard(card *model.Card) {
	if card == nil {
		return
	}
	card.Placed = false
	card.SlotIndex = -1
	card.Owner = d.owner
	d.discard = append(d.discard, card)
}

// TakeFromDiscard removes and returns the most recently discarded card.
func (d *Deck) TakeFromDiscard() *model.Card {
	if len(d.discard) == 0 {
		return nil
	}
	last := d.discard[len(d.discard)-1]
	d.discard = d.discard[:len(d.discard)-1]
	return last
}

// TakeLastFromDiscard removes and returns the most recently discarded card
// accepted by keep.
func (d *Deck) TakeLastFromDiscard(keep func(*model.Card) bool) *model.Card {
	for i := len(d.discard) - 1; i >= 0; i-- {
		c := d.discard[i]
		if keep(c) {
			d.discard = slices.Delete(d.discard, i, i+1)
			return c
		}
	}
	return nil
}

// DrawCount returns the draw pile size.
func (d *Deck) DrawCount() int { return len(d.draw) }

// DiscardCount returns the discard pile size.
func (d *Deck) DiscardCount() int { return len(d.discard) }

// DiscardPile returns a copy of the discard pile, oldest first.
func (d *Deck) DiscardPile() []*model.Card { return slices.Clone(d.discard) }

// Hand is an ordered set of cards held by one side.
type Hand struct {
	cards []*model.Card
}

// Add appends card.
func (h *Hand) Add(card *model.Card) {
	if card == nil {
		return
	}
	h.cards = append(h.cards, card)
}

// Remove takes the card with id out of the hand.
func (h *Hand) Remove(id uuid.UUID) (*model.Card, bool) {
	for i, c := range h.cards {
		if c.ID == id {
			h.cards = slices.Delete(h.cards, i, i+1)
			return c, true
		}
	}
	return nil, false
}

// Find returns the card with id.
func (h *Hand) Find(id uuid.UUID) (*model.Card, bool) {
	for _, c := range h.cards {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Cards returns a copy of the hand in order.
func (h *Hand) Cards() []*model.Card { return slices.Clone(h.cards) }

// Len returns the number of cards held.
func (h *Hand) Len() int { return len(h.cards) }
