package spell

import (
	"log/slog"

	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/model"
)

// DamageEffect hits the enemy hero for a random amount.
// Params: "min", "max" (int).
type DamageEffect struct {
	min, max int
}

func NewDamageEffect(params map[string]string) Effect {
	return &DamageEffect{min: intParam(params, "min", 2), max: intParam(params, "max", 6)}
}

func (e *DamageEffect) Name() string { return "Damage" }

func (e *DamageEffect) Resolve(ctx *Context) {
	amount := dice.RangeInclusive(ctx.Svc.Source, e.min, max(e.min, e.max))
	dealt := ctx.Svc.Life.TakeDamage(ctx.Target, amount)
	slog.Debug("spell damage", "target", ctx.Target, "amount", amount, "dealt", dealt)
}

// EnergySurgeEffect grants the caster energy.
// Params: "amount" (int).
type EnergySurgeEffect struct {
	amount int
}

func NewEnergySurgeEffect(params map[string]string) Effect {
	return &EnergySurgeEffect{amount: intParam(params, "amount", 2)}
}

func (e *EnergySurgeEffect) Name() string { return "EnergySurge" }

func (e *EnergySurgeEffect) Resolve(ctx *Context) {
	if ctx.Svc.Energy == nil {
		return
	}
	ctx.Svc.Energy.AddEnergy(ctx.Owner, e.amount)
}

// CureWoundsEffect heals the caster for base + ability modifier.
// Params: "ability", "dc", "base_heal", "backlash" (int).
type CureWoundsEffect struct {
	check
	baseHeal int
	backlash int
}

func NewCureWoundsEffect(params map[string]string) Effect {
	return &CureWoundsEffect{
		check:    newCheck(params, model.AbilityWIS, 12),
		baseHeal: intParam(params, "base_heal", 5),
		backlash: intParam(params, "backlash", 2),
	}
}

func (e *CureWoundsEffect) Name() string { return "CureWounds" }

func (e *CureWoundsEffect) Resolve(ctx *Context) {
	res := ctx.Test(e.ability, e.dc)
	heal := e.baseHeal + max(0, res.Modifier)
	switch res.Outcome {
	case CriticalFail:
		ctx.SelfDamage(e.backlash)
		return
	case Fail:
		heal = max(1, heal/2)
	case CriticalSuccess:
		heal *= 2
	}
	ctx.Heal(heal)
}

// AuraOfLifeEffect shields the caster's hero against a lethal blow.
// Params: "ability", "dc", "duration" (int).
type AuraOfLifeEffect struct {
	check
	duration int
	critHeal int
}

func NewAuraOfLifeEffect(params map[string]string) Effect {
	return &AuraOfLifeEffect{
		check:    newCheck(params, model.AbilityCON, 15),
		duration: intParam(params, "duration", 2),
		critHeal: intParam(params, "crit_heal", 4),
	}
}

func (e *AuraOfLifeEffect) Name() string { return "AuraOfLife" }

func (e *AuraOfLifeEffect) Resolve(ctx *Context) {
	if ctx.HeroAuraBlocked(ctx.Owner) {
		fizzle(ctx, e.Name(), "aura suppressed")
		return
	}
	hero := ctx.Hero(ctx.Owner)
	switch e.roll(ctx) {
	case CriticalFail:
		hero.Apply(model.StatusPoisoned, e.duration+1, e.Name())
	case Fail:
		hero.Apply(model.StatusShielded, max(1, e.duration-1), e.Name())
	case Success:
		hero.Apply(model.StatusShielded, e.duration, e.Name())
	case CriticalSuccess:
		hero.Apply(model.StatusShielded, e.duration+1, e.Name())
		ctx.Heal(e.critHeal)
	}
}

// AuraOfVitalityEffect regenerates the caster's hero over several turns.
// Params: "ability", "dc", "heal" (per turn), "turns" (int).
type AuraOfVitalityEffect struct {
	check
	heal  int
	turns int
}

func NewAuraOfVitalityEffect(params map[string]string) Effect {
	return &AuraOfVitalityEffect{
		check: newCheck(params, model.AbilityCON, 14),
		heal:  intParam(params, "heal", 2),
		turns: intParam(params, "turns", 3),
	}
}

func (e *AuraOfVitalityEffect) Name() string { return "AuraOfVitality" }

func (e *AuraOfVitalityEffect) Resolve(ctx *Context) {
	if ctx.HeroAuraBlocked(ctx.Owner) {
		fizzle(ctx, e.Name(), "aura suppressed")
		return
	}
	heal, turns := e.heal, e.turns
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.Hero(ctx.Owner).Apply(model.StatusPoisoned, 2, e.Name())
		return
	case Fail:
		heal, turns = max(1, heal-1), max(1, turns-1)
	case CriticalSuccess:
		heal, turns = heal+1, turns+1
	}
	ctx.Svc.Timers.AddRegeneration(ctx.Owner, heal, turns)
}

// AuraOfPurityEffect cleanses the caster's hero and suppresses new auras.
// Params: "ability", "dc", "duration" (int).
type AuraOfPurityEffect struct {
	check
	duration int
}

func NewAuraOfPurityEffect(params map[string]string) Effect {
	return &AuraOfPurityEffect{
		check:    newCheck(params, model.AbilityWIS, 15),
		duration: intParam(params, "duration", 3),
	}
}

func (e *AuraOfPurityEffect) Name() string { return "AuraOfPurity" }

func (e *AuraOfPurityEffect) Resolve(ctx *Context) {
	if ctx.HeroAuraBlocked(ctx.Owner) {
		fizzle(ctx, e.Name(), "aura suppressed")
		return
	}
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.Hero(ctx.Owner).Apply(model.StatusPoisoned, 2, e.Name())
	case Fail:
		e.purify(ctx, max(1, e.duration-1))
	case Success:
		e.purify(ctx, e.duration)
	case CriticalSuccess:
		e.purify(ctx, e.duration+1)
		ctx.Heal(3)
	}
}

func (e *AuraOfPurityEffect) purify(ctx *Context, turns int) {
	hero := ctx.Hero(ctx.Owner)
	hero.RemoveAll(model.StatusPoisoned, model.StatusStunned, model.StatusMarked, model.StatusSilenced)
	hero.Add(model.StatusAuraSuppressed, turns, 1, e.Name(), true)
}

// DeathWardEffect shields the caster's hero.
// Params: "ability", "dc", "duration" (int).
type DeathWardEffect struct {
	check
	duration int
}

func NewDeathWardEffect(params map[string]string) Effect {
	return &DeathWardEffect{
		check:    newCheck(params, model.AbilityWIS, 16),
		duration: intParam(params, "duration", 3),
	}
}

func (e *DeathWardEffect) Name() string { return "DeathWard" }

func (e *DeathWardEffect) Resolve(ctx *Context) {
	hero := ctx.Hero(ctx.Owner)
	switch e.roll(ctx) {
	case CriticalFail:
		hero.Apply(model.StatusPoisoned, 2, e.Name())
	case Fail:
		hero.Apply(model.StatusShielded, 1, e.Name())
	case Success:
		hero.Apply(model.StatusShielded, e.duration, e.Name())
	case CriticalSuccess:
		hero.Apply(model.StatusShielded, e.duration, e.Name())
		hero.Apply(model.StatusBlessedWeapon, e.duration, e.Name())
		ctx.Heal(5)
	}
}

// HeroismEffect regenerates the caster's hero.
// Params: "ability", "dc", "heal" (per turn), "turns" (int).
type HeroismEffect struct {
	check
	heal  int
	turns int
}

func NewHeroismEffect(params map[string]string) Effect {
	return &HeroismEffect{
		check: newCheck(params, model.AbilityCON, 12),
		heal:  intParam(params, "heal", 2),
		turns: intParam(params, "turns", 3),
	}
}

func (e *HeroismEffect) Name() string { return "Heroism" }

func (e *HeroismEffect) Resolve(ctx *Context) {
	heal, turns := e.heal, e.turns
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.SelfDamage(1)
		return
	case Fail:
		heal, turns = max(1, heal-1), max(1, turns-1)
	case CriticalSuccess:
		heal, turns = heal+1, turns+1
	}
	ctx.Svc.Timers.AddRegeneration(ctx.Owner, heal, turns)
}

// LesserRestorationEffect cleanses the caster's hero and first card.
// Params: "ability", "dc", "penalty", "crit_heal" (int).
type LesserRestorationEffect struct {
	check
	penalty  int
	critHeal int
}

func NewLesserRestorationEffect(params map[string]string) Effect {
	return &LesserRestorationEffect{
		check:    newCheck(params, model.AbilityWIS, 13),
		penalty:  intParam(params, "penalty", 2),
		critHeal: intParam(params, "crit_heal", 5),
	}
}

func (e *LesserRestorationEffect) Name() string { return "LesserRestoration" }

func (e *LesserRestorationEffect) Resolve(ctx *Context) {
	hero := ctx.Hero(ctx.Owner)
	switch e.roll(ctx) {
	case CriticalFail:
		hero.Apply(model.StatusPoisoned, e.penalty+1, e.Name())
		ctx.SelfDamage(2)
	case Fail:
		hero.Apply(model.StatusPoisoned, e.penalty, e.Name())
	case Success:
		e.cleanse(ctx)
	case CriticalSuccess:
		e.cleanse(ctx)
		ctx.Heal(e.critHeal)
	}
}

var restorationCleanse = []model.StatusType{
	model.StatusPoisoned,
	model.StatusSilenced,
	model.StatusMarked,
	model.StatusStunned,
}

func (e *LesserRestorationEffect) cleanse(ctx *Context) {
	ctx.Hero(ctx.Owner).RemoveAll(restorationCleanse...)
	if ally, ok := ctx.FirstAlly(); ok {
		ctx.CardStatus(ally).RemoveAll(restorationCleanse...)
	}
}
