package spell

import (
	"log/slog"
	"math"

	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/model"
)

// SacredSuffix marks the blessed copy handed to the opponent.
const SacredSuffix = " (Sacred)"

// UnstableReanimationEffect is a targeted necromancy: it drains a hero or
// strikes a card. When a success kills nothing, the last card of the
// caster's discard pile rises as a short-lived corrupted copy. Its sacred
// copy heals the chosen target instead.
// Params: "damage", "lifetime", "attack_bonus", "defense_bonus" (int),
// "crit_multiplier", "attack_multiplier", "defense_multiplier" (float64).
type UnstableReanimationEffect struct {
	damage   int
	critMult float64
	atkMult  float64
	defMult  float64
	atkBonus int
	defBonus int
	lifetime int
}

func NewUnstableReanimationEffect(params map[string]string) Effect {
	return &UnstableReanimationEffect{
		damage:   intParam(params, "damage", 5),
		critMult: floatParam(params, "crit_multiplier", 2),
		atkMult:  floatParam(params, "attack_multiplier", 1.4),
		defMult:  floatParam(params, "defense_multiplier", 1.2),
		atkBonus: intParam(params, "attack_bonus", 6),
		defBonus: intParam(params, "defense_bonus", 4),
		lifetime: intParam(params, "lifetime", 2),
	}
}

func (e *UnstableReanimationEffect) Name() string { return "UnstableReanimation" }

// Resolve opens target selection. Without a selector the enemy hero is hit
// as on a plain success.
func (e *UnstableReanimationEffect) Resolve(ctx *Context) {
	if ctx.Svc.Selector == nil {
		e.ResolveAfterDice(ctx, HeroChoice(ctx.Target), Success)
		return
	}
	if err := ctx.Svc.Selector.Begin(ctx, e); err != nil {
		slog.Warn("target selection unavailable", "effect", e.Name(), "err", err)
	}
}

// ResolveAfterDice applies the graded outcome to choice.
func (e *UnstableReanimationEffect) ResolveAfterDice(ctx *Context, choice Choice, outcome Outcome) {
	sacred := ctx.Card != nil && ctx.Card.Sacred
	if outcome == CriticalFail {
		if !sacred {
			e.giveSacredCopy(ctx)
		}
		return
	}

	amount := e.damage
	switch outcome {
	case CriticalSuccess:
		amount = int(math.RoundToEven(float64(amount) * e.critMult))
	case Fail:
		amount = max(1, amount/2)
	}

	if sacred {
		e.bless(ctx, choice, max(1, amount))
		return
	}

	killed := false
	if choice.Hero {
		ctx.Svc.Life.TakeDamage(choice.Side, amount)
		ctx.Heal(max(1, amount/2))
	} else if choice.Card != nil {
		killed = e.strike(ctx, choice.Card, amount)
	}
	if killed || !outcome.Succeeded() {
		return
	}

	deck := ctx.Svc.Decks.Deck(ctx.Owner)
	raised := deck.TakeLastFromDiscard(anyCard)
	if raised == nil {
		return
	}
	if !e.summonCorrupted(ctx, raised) {
		deck.Discard(raised)
	}
}

func (e *UnstableReanimationEffect) bless(ctx *Context, choice Choice, amount int) {
	if choice.Hero {
		ctx.Svc.Life.Heal(choice.Side, amount)
		return
	}
	card := choice.Card
	if card == nil {
		return
	}
	maxPoints := card.MaxHealth
	if maxPoints <= 0 {
		maxPoints = max(card.Defense, 1)
	}
	card.Defense = min(maxPoints, max(0, card.Defense+amount))
}

// strike damages card and reports whether the blow was lethal.
func (e *UnstableReanimationEffect) strike(ctx *Context, card *model.Card, amount int) bool {
	lethal := card.Defense-amount <= 0
	ctx.DamageCard(card, amount)
	return lethal
}

func anyCard(*model.Card) bool { return true }

func (e *UnstableReanimationEffect) summonCorrupted(ctx *Context, base *model.Card) bool {
	slot, ok := ctx.AllyZone().FirstEmptySlot()
	if !ok {
		slog.Debug("no slot for corrupted copy", "card", base.Name)
		return false
	}
	token := e.corrupt(ctx, base)
	if err := slot.TryPlace(token); err != nil {
		slog.Warn("corrupted copy placement failed", "card", token.Name, "err", err)
		return false
	}
	ctx.Svc.Timers.AddLifetime(token, e.lifetime)
	slog.Info("corrupted copy summoned",
		"card", token.Name,
		"owner", ctx.Owner,
		"attack", token.Attack,
		"defense", token.Defense,
		"turns", e.lifetime)
	return true
}

func (e *UnstableReanimationEffect) corrupt(ctx *Context, base *model.Card) *model.Card {
	card := base.Clone()
	card.Kind = model.KindMonster
	card.Token = true
	card.Owner = ctx.Owner

	atkHi := int(math.RoundToEven(float64(card.Attack)*e.atkMult)) + e.atkBonus
	defHi := int(math.RoundToEven(float64(card.Defense)*e.defMult)) + e.defBonus
	hpHi := max(1, card.MaxHealth)
	if ctx.Svc.Attrs != nil {
		if block, ok := ctx.Svc.Attrs.Block(ctx.Owner); ok {
			atkHi = max(1, block.Score(model.AbilitySTR)/2)
			defHi = max(1, block.Score(model.AbilityDEX)/2)
			hpHi = max(1, block.MaxLife/2)
		}
	}
	src := ctx.Svc.Source
	card.Attack = dice.RangeInclusive(src, 1, max(1, atkHi))
	card.Defense = dice.RangeInclusive(src, 1, max(1, defHi))
	card.MaxHealth = dice.RangeInclusive(src, 1, hpHi)
	return card
}

func (e *UnstableReanimationEffect) giveSacredCopy(ctx *Context) {
	if ctx.Card == nil || ctx.Svc.Decks == nil {
		return
	}
	sacred := ctx.Card.Clone()
	sacred.Sacred = true
	sacred.Kind = model.KindSpell
	sacred.Name += SacredSuffix
	ctx.Svc.Decks.ReturnToHand(ctx.Target, sacred)
	slog.Info("sacred copy granted", "card", sacred.Name, "to", ctx.Target)
}
