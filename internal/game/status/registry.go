// Package status implements the timed-flag ledger attached to heroes and
// cards, its listeners (poison, shield, silence) and owner-turn timers
// (stat buffs, regeneration, banishment, corrupted lifetime).
package status

import (
	"log/slog"

	"github.com/udisondev/duelcore/internal/model"
)

// Owner identifies who a Registry belongs to: a hero side, or a card.
type Owner struct {
	side model.Side
	card *model.Card
}

// HeroOwner returns the Owner for side's hero.
func HeroOwner(side model.Side) Owner { return Owner{side: side} }

// CardOwner returns the Owner for card.
func CardOwner(card *model.Card) Owner { return Owner{card: card} }

// Side returns the owning side; for cards it follows the card's current owner.
func (o Owner) Side() model.Side {
	if o.card != nil {
		return o.card.Owner
	}
	return o.side
}

// Card returns the owning card, or nil for a hero.
func (o Owner) Card() *model.Card { return o.card }

// IsCard reports whether the owner is a card.
func (o Owner) IsCard() bool { return o.card != nil }

// Change is delivered to registry subscribers on add and remove.
type Change struct {
	Owner Owner
	Entry model.StatusEntry
	Added bool
}

// Registry is a generic ledger of timed statuses for one owner.
// It knows nothing about what a status does; listeners subscribe to changes.
type Registry struct {
	owner   Owner
	entries []model.StatusEntry
	subs    []func(Change)
}

// NewRegistry creates an empty Registry for owner.
func NewRegistry(owner Owner) *Registry {
	return &Registry{owner: owner}
}

// Owner returns who the registry belongs to.
func (r *Registry) Owner() Owner { return r.owner }

// Subscribe registers fn for add/remove changes.
func (r *Registry) Subscribe(fn func(Change)) {
	r.subs = append(r.subs, fn)
}

// Add adds a status or updates an existing one of the same type.
//
// Stacking rules (same type):
//   - refresh=true  → remaining turns overwritten with duration
//   - refresh=false → remaining turns become max(existing, duration)
//
// Intensity and source are updated; no notification fires on update.
// Card registries ignore StatusNone. An entry added with duration 0 is
// dropped by the owner's next Tick.
func (r *Registry) Add(t model.StatusType, duration, intensity int, source string, refresh bool) {
	if t == model.StatusNone && r.owner.IsCard() {
		return
	}
	duration = max(0, duration)

	for i := range r.entries {
		e := &r.entries[i]
		if e.Type != t {
			continue
		}
		if refresh {
			e.RemainingTurns = duration
		} else {
			e.RemainingTurns = max(e.RemainingTurns, duration)
		}
		e.Intensity = intensity
		e.Source = source
		return
	}

	entry := model.StatusEntry{Type: t, RemainingTurns: duration, Intensity: intensity, Source: source}
	r.entries = append(r.entries, entry)
	slog.Debug("status added",
		"owner", r.owner.Side(),
		"card", r.cardName(),
		"type", t,
		"turns", duration,
		"source", source)
	r.notify(Change{Owner: r.owner, Entry: entry, Added: true})
}

// Apply is Add with intensity 1 and refresh.
func (r *Registry) Apply(t model.StatusType, duration int, source string) {
	r.Add(t, duration, 1, source, true)
}

// Remove removes the status of type t. Absent types are a silent no-op.
func (r *Registry) Remove(t model.StatusType) bool {
	for i, e := range r.entries {
		if e.Type != t {
			continue
		}
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
		slog.Debug("status removed", "owner", r.owner.Side(), "card", r.cardName(), "type", t)
		r.notify(Change{Owner: r.owner, Entry: e, Added: false})
		return true
	}
	return false
}

// RemoveAll removes each listed type that is present.
func (r *Registry) RemoveAll(types ...model.StatusType) {
	for _, t := range types {
		r.Remove(t)
	}
}

// Tick decrements every entry with turns left and removes entries at 0.
func (r *Registry) Tick() {
	var expired []model.StatusEntry
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.RemainingTurns > 0 {
			e.RemainingTurns--
		}
		if e.RemainingTurns <= 0 {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	for _, e := range expired {
		slog.Debug("status expired", "owner", r.owner.Side(), "card", r.cardName(), "type", e.Type)
		r.notify(Change{Owner: r.owner, Entry: e, Added: false})
	}
}

// Clear removes every entry, notifying each removal.
func (r *Registry) Clear() {
	entries := r.entries
	r.entries = nil
	for _, e := range entries {
		r.notify(Change{Owner: r.owner, Entry: e, Added: false})
	}
}

// Has reports whether type t is present.
func (r *Registry) Has(t model.StatusType) bool {
	_, ok := r.find(t)
	return ok
}

// Intensity returns t's intensity, or 0 when absent.
func (r *Registry) Intensity(t model.StatusType) int {
	e, ok := r.find(t)
	if !ok {
		return 0
	}
	return e.Intensity
}

// Remaining returns t's remaining turns, or 0 when absent.
func (r *Registry) Remaining(t model.StatusType) int {
	e, ok := r.find(t)
	if !ok {
		return 0
	}
	return e.RemainingTurns
}

// Entries returns a copy of the live entries.
func (r *Registry) Entries() []model.StatusEntry {
	out := make([]model.StatusEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of live entries.
func (r *Registry) Len() int { return len(r.entries) }

func (r *Registry) find(t model.StatusType) (model.StatusEntry, bool) {
	for _, e := range r.entries {
		if e.Type == t {
			return e, true
		}
	}
	return model.StatusEntry{}, false
}

func (r *Registry) notify(c Change) {
	for _, fn := range r.subs {
		fn(c)
	}
}

func (r *Registry) cardName() string {
	if r.owner.card == nil {
		return ""
	}
	return r.owner.card.Name
}
