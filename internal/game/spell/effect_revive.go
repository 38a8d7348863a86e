package spell

import (
	"log/slog"
	"math"

	"github.com/udisondev/duelcore/internal/model"
)

// revive is the shape shared by RaiseDead and Revivify: pull the caster's
// most recently discarded card back with a fraction of its health.
type revive struct {
	check
	name    string
	factors [4]float64 // indexed by Outcome; a factor <= 0 loses the card
	// fullInHand returns the card to hand at full stats when the row is full.
	fullInHand bool
}

func (e *revive) Name() string { return e.name }

func (e *revive) Resolve(ctx *Context) {
	d := ctx.Svc.Decks.Deck(ctx.Owner)
	card := d.TakeLastFromDiscard(notSpell)
	if card == nil {
		fizzle(ctx, e.name, "empty discard")
		return
	}
	card.ResetToTemplate()

	factor := e.factors[e.roll(ctx)]
	if factor <= 0 {
		slog.Info("revived card lost", "card", card.Name, "effect", e.name)
		return
	}
	if !e.summon(ctx, card, factor) {
		d.Discard(card)
	}
}

func (e *revive) summon(ctx *Context, card *model.Card, factor float64) bool {
	slot, ok := ctx.AllyZone().FirstEmptySlot()
	if !ok {
		if !e.fullInHand {
			applyRevivedHP(card, factor)
		}
		ctx.Svc.Decks.ReturnToHand(ctx.Owner, card)
		slog.Info("revived card returned to hand", "card", card.Name, "effect", e.name)
		return true
	}
	applyRevivedHP(card, factor)
	if err := slot.TryPlace(card); err != nil {
		slog.Warn("revive placement failed", "card", card.Name, "err", err)
		return false
	}
	ctx.CardStatus(card).RemoveAll(model.StatusPoisoned, model.StatusSilenced)
	slog.Info("card revived", "card", card.Name, "hp", card.Defense, "effect", e.name)
	return true
}

func applyRevivedHP(card *model.Card, factor float64) {
	hp := max(1, int(math.RoundToEven(float64(card.MaxHealth)*factor)))
	card.MaxHealth = hp
	card.Defense = hp
}

// RaiseDeadEffect revives the last discarded card.
// Params: "ability", "dc" (int).
type RaiseDeadEffect struct {
	revive
}

func NewRaiseDeadEffect(params map[string]string) Effect {
	return &RaiseDeadEffect{revive{
		check:   newCheck(params, model.AbilityWIS, 18),
		name:    "RaiseDead",
		factors: [4]float64{CriticalFail: 0, Fail: 0.5, Success: 0.75, CriticalSuccess: 1},
	}}
}

// RevivifyEffect revives the last discarded card at reduced health.
// Params: "ability", "dc" (int).
type RevivifyEffect struct {
	revive
}

func NewRevivifyEffect(params map[string]string) Effect {
	return &RevivifyEffect{revive{
		check:      newCheck(params, model.AbilityWIS, 15),
		name:       "Revivify",
		factors:    [4]float64{CriticalFail: 0, Fail: 0.25, Success: 0.5, CriticalSuccess: 0.75},
		fullInHand: true,
	}}
}
