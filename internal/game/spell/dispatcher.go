package spell

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/duelcore/internal/model"
)

// Dispatcher casts spell cards through their registered effects.
//
// Workflow:
//  1. Reject non-spell cards
//  2. Look up the effect named by the card template
//  3. Build a Context (target = opponent) and resolve
//  4. Discard the card unless the effect deferred cleanup
type Dispatcher struct {
	svc *Services

	// castObserver sees every resolved cast (nil in production).
	castObserver func(ctx *Context, effect Effect)
}

// NewDispatcher creates a Dispatcher over svc.
func NewDispatcher(svc *Services) *Dispatcher {
	return &Dispatcher{svc: svc}
}

// Services returns the components spells resolve against.
func (d *Dispatcher) Services() *Services { return d.svc }

// SetCastObserver sets callback for observing resolved casts.
func (d *Dispatcher) SetCastObserver(fn func(ctx *Context, effect Effect)) {
	d.castObserver = fn
}

// EffectFor builds card's effect from its template.
func EffectFor(card *model.Card) (Effect, error) {
	if card == nil || card.Template == nil || card.Template.Spell == "" {
		return nil, fmt.Errorf("spell effect: none bound: %w", model.ErrMissingReference)
	}
	eff, err := CreateEffect(card.Template.Spell, card.Template.SpellParams)
	if err != nil {
		return nil, fmt.Errorf("spell effect for %s: %v: %w", card.Name, err, model.ErrMissingReference)
	}
	return eff, nil
}

// CastSpell resolves card for side.
func (d *Dispatcher) CastSpell(side model.Side, card *model.Card) error {
	if card == nil {
		return fmt.Errorf("cast by %s: no card: %w", side, model.ErrMissingReference)
	}
	if !card.IsSpell() {
		slog.Debug("cast rejected, not a spell", "side", side, "card", card.Name)
		return fmt.Errorf("cast %s by %s: not a spell: %w", card.Name, side, model.ErrInvalidAction)
	}

	ctx := &Context{Owner: side, Target: side.Opponent(), Card: card, Svc: d.svc}
	eff, err := EffectFor(card)
	if err != nil {
		slog.Warn("spell has no effect, discarding", "side", side, "card", card.Name, "err", err)
		ctx.Finalize()
		return err
	}

	slog.Info("spell cast", "side", side, "card", card.Name, "effect", eff.Name())
	eff.Resolve(ctx)
	if !ctx.Deferred() {
		ctx.Finalize()
	}
	if d.castObserver != nil {
		d.castObserver(ctx, eff)
	}
	return nil
}
