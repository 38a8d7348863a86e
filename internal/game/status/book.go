package status

import (
	"github.com/google/uuid"

	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/model"
)

// Book owns every status registry in a match: one per hero and one per card
// that ever received a status.
//
// Workflow on TurnStarted(side):
//  1. Owner-turn hooks run (poison damage) while statuses are still live.
//  2. The side's hero registry ticks.
//  3. Registries of cards currently owned by side tick, in creation order.
type Book struct {
	bus *event.Bus

	heroes [2]*Registry
	cards  map[uuid.UUID]*Registry
	order  []uuid.UUID

	changeFuncs    []func(Change)
	ownerTurnFuncs []func(side model.Side)
}

// NewBook creates hero registries for both sides and subscribes to turn
// starts on bus. bus may be nil; call BeginTurn directly then.
func NewBook(bus *event.Bus) *Book {
	b := &Book{bus: bus, cards: make(map[uuid.UUID]*Registry)}
	for _, side := range model.Sides {
		r := NewRegistry(HeroOwner(side))
		r.Subscribe(b.forward)
		b.heroes[side] = r
	}
	if bus != nil {
		bus.OnTurnStarted(func(e event.TurnStarted) { b.BeginTurn(e.Side) })
	}
	return b
}

// Hero returns side's hero registry.
func (b *Book) Hero(side model.Side) *Registry {
	return b.heroes[side]
}

// Card returns card's registry, creating it on first use.
func (b *Book) Card(card *model.Card) *Registry {
	if r, ok := b.cards[card.ID]; ok {
		return r
	}
	r := NewRegistry(CardOwner(card))
	r.Subscribe(b.forward)
	b.cards[card.ID] = r
	b.order = append(b.order, card.ID)
	return r
}

// LookupCard returns card's registry without creating one.
func (b *Book) LookupCard(card *model.Card) (*Registry, bool) {
	if card == nil {
		return nil, false
	}
	r, ok := b.cards[card.ID]
	return r, ok
}

// CardHas reports whether card carries status t.
func (b *Book) CardHas(card *model.Card, t model.StatusType) bool {
	r, ok := b.LookupCard(card)
	return ok && r.Has(t)
}

// Forget drops a destroyed card's registry without firing removals.
func (b *Book) Forget(card *model.Card) {
	if card == nil {
		return
	}
	if _, ok := b.cards[card.ID]; !ok {
		return
	}
	delete(b.cards, card.ID)
	for i, id := range b.order {
		if id == card.ID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// OnChange registers fn for changes on every registry in the book.
func (b *Book) OnChange(fn func(Change)) {
	b.changeFuncs = append(b.changeFuncs, fn)
}

// OnOwnerTurn registers fn to run at the start of each turn, before any
// registry ticks.
func (b *Book) OnOwnerTurn(fn func(side model.Side)) {
	b.ownerTurnFuncs = append(b.ownerTurnFuncs, fn)
}

// CardsOwnedBy returns the registries of cards currently owned by side.
func (b *Book) CardsOwnedBy(side model.Side) []*Registry {
	var out []*Registry
	for _, id := range b.order {
		r := b.cards[id]
		if r.owner.card.Owner == side {
			out = append(out, r)
		}
	}
	return out
}

// BeginTurn runs owner-turn hooks and ticks side's registries.
func (b *Book) BeginTurn(side model.Side) {
	for _, fn := range b.ownerTurnFuncs {
		fn(side)
	}
	b.heroes[side].Tick()
	for _, r := range b.CardsOwnedBy(side) {
		r.Tick()
	}
}

func (b *Book) forward(c Change) {
	for _, fn := range b.changeFuncs {
		fn(c)
	}
	if b.bus == nil {
		return
	}
	ev := event.StatusChanged{Side: c.Owner.Side(), Type: c.Entry.Type, Added: c.Added}
	if card := c.Owner.Card(); card != nil {
		ev.CardID = card.ID
	}
	b.bus.Publish(ev)
}
