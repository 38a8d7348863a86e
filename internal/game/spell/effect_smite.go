package spell

import (
	"log/slog"
	"math"

	"github.com/udisondev/duelcore/internal/game/board"
	"github.com/udisondev/duelcore/internal/model"
)

func scaled(base int, mult float64) int {
	return max(1, int(math.RoundToEven(float64(base)*mult)))
}

func onBoard(ctx *Context, card *model.Card) bool {
	_, ok := ctx.Svc.Board.Locate(card)
	return ok
}

// stunSurvivor stuns card unless the hit destroyed it.
func stunSurvivor(ctx *Context, card *model.Card, turns int, source string) {
	if turns <= 0 || !onBoard(ctx, card) {
		return
	}
	ctx.CardStatus(card).Apply(model.StatusStunned, turns, source)
}

// BanishingSmiteEffect hits the first enemy card and banishes or claims a
// weakened survivor.
// Params: "ability", "dc", "damage", "threshold", "banish_turns" (int).
type BanishingSmiteEffect struct {
	check
	damage      int
	threshold   int
	banishTurns int
}

func NewBanishingSmiteEffect(params map[string]string) Effect {
	return &BanishingSmiteEffect{
		check:       newCheck(params, model.AbilitySTR, 17),
		damage:      intParam(params, "damage", 6),
		threshold:   intParam(params, "threshold", 5),
		banishTurns: intParam(params, "banish_turns", 2),
	}
}

func (e *BanishingSmiteEffect) Name() string { return "BanishingSmite" }

func (e *BanishingSmiteEffect) Resolve(ctx *Context) {
	target, ok := ctx.FirstEnemy()
	if !ok {
		fizzle(ctx, e.Name(), "no enemy card")
		return
	}
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.SelfDamage(4)
	case Fail:
		ctx.DamageCard(target, max(1, e.damage/2))
	case Success:
		if ctx.DamageCard(target, e.damage) <= e.threshold {
			e.banishOrClaim(ctx, target, false)
		}
	case CriticalSuccess:
		if ctx.DamageCard(target, e.damage+3) <= e.threshold {
			e.banishOrClaim(ctx, target, true)
		}
	}
}

func (e *BanishingSmiteEffect) banishOrClaim(ctx *Context, card *model.Card, claim bool) {
	if !onBoard(ctx, card) {
		return
	}
	if claim {
		if slot, ok := ctx.AllyZone().FirstEmptySlot(); ok {
			slot.ForcePlace(card)
			slog.Info("card claimed", "card", card.Name, "new_owner", ctx.Owner)
			return
		}
	}
	if err := ctx.Svc.Timers.Banish(card, e.banishTurns); err != nil {
		slog.Warn("banish failed", "card", card.Name, "err", err)
	}
}

// BanishmentEffect removes the first enemy card for a few turns.
// Params: "ability", "dc", "turns" (int).
type BanishmentEffect struct {
	check
	turns int
}

func NewBanishmentEffect(params map[string]string) Effect {
	return &BanishmentEffect{
		check: newCheck(params, model.AbilityCHA, 16),
		turns: intParam(params, "turns", 2),
	}
}

func (e *BanishmentEffect) Name() string { return "Banishment" }

func (e *BanishmentEffect) Resolve(ctx *Context) {
	target, ok := ctx.FirstEnemy()
	if !ok {
		fizzle(ctx, e.Name(), "no enemy card")
		return
	}
	turns := 0
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.CardStatus(target).Apply(model.StatusSilenced, 1, e.Name())
		turns = 1
	case Fail:
		slog.Debug("banishment resisted", "card", target.Name)
		return
	case Success:
		turns = e.turns
	case CriticalSuccess:
		turns = e.turns + 1
	}
	if err := ctx.Svc.Timers.Banish(target, turns); err != nil {
		slog.Warn("banish failed", "card", target.Name, "err", err)
	}
}

// singleSmite is the shape shared by BlindingSmite and StaggeringSmite:
// damage the first enemy card and stun it if it survives.
type singleSmite struct {
	check
	name      string
	damage    int
	stun      int
	critBonus int
	backlash  int
}

func (e *singleSmite) Name() string { return e.name }

func (e *singleSmite) Resolve(ctx *Context) {
	target, ok := ctx.FirstEnemy()
	if !ok {
		fizzle(ctx, e.name, "no enemy card")
		return
	}
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.SelfDamage(e.backlash)
	case Fail:
		ctx.DamageCard(target, max(1, e.damage/2))
	case Success:
		ctx.DamageCard(target, e.damage)
		stunSurvivor(ctx, target, e.stun, e.name)
	case CriticalSuccess:
		ctx.DamageCard(target, e.damage+e.critBonus)
		stunSurvivor(ctx, target, e.stun+1, e.name)
	}
}

// BlindingSmiteEffect damages and blinds the first enemy card.
// Params: "ability", "dc", "damage", "blind" (int).
type BlindingSmiteEffect struct {
	singleSmite
}

func NewBlindingSmiteEffect(params map[string]string) Effect {
	return &BlindingSmiteEffect{singleSmite{
		check:     newCheck(params, model.AbilitySTR, 15),
		name:      "BlindingSmite",
		damage:    intParam(params, "damage", 5),
		stun:      intParam(params, "blind", 1),
		critBonus: 3,
		backlash:  3,
	}}
}

// StaggeringSmiteEffect damages and staggers the first enemy card.
// Params: "ability", "dc", "damage", "stun" (int).
type StaggeringSmiteEffect struct {
	singleSmite
}

func NewStaggeringSmiteEffect(params map[string]string) Effect {
	return &StaggeringSmiteEffect{singleSmite{
		check:     newCheck(params, model.AbilitySTR, 15),
		name:      "StaggeringSmite",
		damage:    intParam(params, "damage", 5),
		stun:      intParam(params, "stun", 1),
		critBonus: 2,
		backlash:  3,
	}}
}

// DaylightEffect burns every enemy card and strips its auras.
// Params: "ability", "dc", "damage" (int).
type DaylightEffect struct {
	check
	damage int
}

func NewDaylightEffect(params map[string]string) Effect {
	return &DaylightEffect{
		check:  newCheck(params, model.AbilityWIS, 14),
		damage: intParam(params, "damage", 3),
	}
}

func (e *DaylightEffect) Name() string { return "Daylight" }

func (e *DaylightEffect) Resolve(ctx *Context) {
	mult := 1.0
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.Hero(ctx.Owner).Apply(model.StatusAuraSuppressed, 1, e.Name())
		return
	case Fail:
		mult = 0.5
	case CriticalSuccess:
		mult = 2
	}
	dmg := scaled(e.damage, mult)
	for _, card := range ctx.Enemies() {
		ctx.CardStatus(card).RemoveAll(model.StatusAuraSuppressed, model.StatusSilenced)
		ctx.DamageCard(card, dmg)
	}
}

// DestructiveWaveEffect damages and stuns every enemy card.
// Params: "ability", "dc", "damage", "bonus", "stun" (int).
type DestructiveWaveEffect struct {
	check
	damage int
	bonus  int
	stun   int
}

func NewDestructiveWaveEffect(params map[string]string) Effect {
	return &DestructiveWaveEffect{
		check:  newCheck(params, model.AbilityCON, 17),
		damage: intParam(params, "damage", 5),
		bonus:  intParam(params, "bonus", 5),
		stun:   intParam(params, "stun", 1),
	}
}

func (e *DestructiveWaveEffect) Name() string { return "DestructiveWave" }

func (e *DestructiveWaveEffect) Resolve(ctx *Context) {
	mult, stun := 1.0, e.stun
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.SelfDamage(5)
		return
	case Fail:
		mult, stun = 0.5, 0
	case CriticalSuccess:
		mult, stun = 1.5, stun+1
	}
	dmg := scaled(e.damage+e.bonus, mult)
	for _, card := range ctx.Enemies() {
		ctx.DamageCard(card, dmg)
		stunSurvivor(ctx, card, stun, e.Name())
	}
}

// DispelEvilAndGoodEffect cleanses the caster's hero, purges the enemy
// board and empowers allies.
// Params: "ability", "dc", "bonus", "turns" (int).
type DispelEvilAndGoodEffect struct {
	check
	bonus int
	turns int
}

func NewDispelEvilAndGoodEffect(params map[string]string) Effect {
	return &DispelEvilAndGoodEffect{
		check: newCheck(params, model.AbilityWIS, 16),
		bonus: intParam(params, "bonus", 2),
		turns: intParam(params, "turns", 2),
	}
}

func (e *DispelEvilAndGoodEffect) Name() string { return "DispelEvilAndGood" }

func (e *DispelEvilAndGoodEffect) Resolve(ctx *Context) {
	hero := ctx.Hero(ctx.Owner)
	switch e.roll(ctx) {
	case CriticalFail:
		hero.Apply(model.StatusSilenced, 1, e.Name())
		return
	case Fail:
		e.cleanse(ctx)
	case Success:
		e.cleanse(ctx)
		for _, card := range ctx.Enemies() {
			if card.Undead {
				ctx.Svc.Board.Destroy(card, board.ReasonPurged)
				continue
			}
			ctx.CardStatus(card).RemoveAll(model.StatusPoisoned, model.StatusSilenced)
		}
		buffAll(ctx, ctx.Allies(0), e.bonus, 0, e.turns)
	case CriticalSuccess:
		e.cleanse(ctx)
		for _, card := range ctx.Enemies() {
			ctx.Svc.Board.Destroy(card, board.ReasonPurged)
		}
		buffAll(ctx, ctx.Allies(0), e.bonus+1, 0, e.turns+1)
	}
}

func (e *DispelEvilAndGoodEffect) cleanse(ctx *Context) {
	ctx.Hero(ctx.Owner).RemoveAll(model.StatusPoisoned, model.StatusStunned, model.StatusMarked)
}

// ZoneOfTruthEffect forces the first enemy card down its evolution line
// and suppresses its auras.
// Params: "ability", "dc", "aura" (int).
type ZoneOfTruthEffect struct {
	check
	aura int
}

func NewZoneOfTruthEffect(params map[string]string) Effect {
	return &ZoneOfTruthEffect{
		check: newCheck(params, model.AbilityCHA, 15),
		aura:  intParam(params, "aura", 2),
	}
}

func (e *ZoneOfTruthEffect) Name() string { return "ZoneOfTruth" }

func (e *ZoneOfTruthEffect) Resolve(ctx *Context) {
	target, ok := ctx.FirstEnemy()
	if !ok || ctx.Svc.Evolution == nil {
		fizzle(ctx, e.Name(), "no enemy card")
		return
	}
	switch e.roll(ctx) {
	case CriticalFail:
		if own, ok := ctx.FirstAlly(); ok {
			ctx.Svc.Evolution.ForceDowngrade(own, 1)
			ctx.CardStatus(own).Apply(model.StatusSilenced, 1, e.Name())
		}
	case Fail:
	case Success:
		e.suppress(ctx, target, 1)
	case CriticalSuccess:
		e.suppress(ctx, target, 2)
	}
}

func (e *ZoneOfTruthEffect) suppress(ctx *Context, card *model.Card, tiers int) {
	if !ctx.Svc.Evolution.ForceDowngrade(card, tiers) {
		slog.Debug("zone of truth: already at base tier", "card", card.Name)
	}
	ctx.CardStatus(card).Apply(model.StatusAuraSuppressed, e.aura, e.Name())
}
