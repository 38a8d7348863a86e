package event

import (
	"log/slog"
	"slices"
)

type subscription struct {
	id uint64
	fn func(Event)
}

// Bus is a single-threaded multi-subscriber notifier.
// Handlers run synchronously in subscription order. A panicking handler is
// logged and skipped so a broken subscriber cannot corrupt engine state.
type Bus struct {
	subs   [kindCount][]subscription
	nextID uint64
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for events of kind k.
// The returned func removes the subscription; calling it twice is harmless.
func (b *Bus) Subscribe(k Kind, fn func(Event)) (unsubscribe func()) {
	if k >= kindCount || fn == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs[k] = append(b.subs[k], subscription{id: id, fn: fn})
	return func() {
		b.subs[k] = slices.DeleteFunc(b.subs[k], func(s subscription) bool { return s.id == id })
	}
}

// OnTurnStarted is a typed shortcut for Subscribe(KindTurnStarted, ...).
func (b *Bus) OnTurnStarted(fn func(TurnStarted)) (unsubscribe func()) {
	return b.Subscribe(KindTurnStarted, func(e Event) { fn(e.(TurnStarted)) })
}

// Publish delivers e to every subscriber of its kind.
// Subscribers added during delivery first see the next Publish; subscribers
// removed during delivery are skipped if not yet reached.
func (b *Bus) Publish(e Event) {
	k := e.Kind()
	if k >= kindCount {
		return
	}
	for _, s := range slices.Clone(b.subs[k]) {
		if !b.subscribed(k, s.id) {
			continue
		}
		b.deliver(s, e)
	}
}

func (b *Bus) subscribed(k Kind, id uint64) bool {
	return slices.ContainsFunc(b.subs[k], func(s subscription) bool { return s.id == id })
}

func (b *Bus) deliver(s subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event subscriber panicked", "kind", e.Kind(), "panic", r)
		}
	}()
	s.fn(e)
}

// Count returns the number of subscribers for kind k.
func (b *Bus) Count(k Kind) int {
	if k >= kindCount {
		return 0
	}
	return len(b.subs[k])
}
