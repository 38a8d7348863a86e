package spell

import (
	"log/slog"

	"github.com/udisondev/duelcore/internal/model"
)

func buffAll(ctx *Context, cards []*model.Card, atk, def, turns int) {
	for _, card := range cards {
		ctx.Svc.Timers.AddCardBuff(card, atk, def, turns, 0, false)
	}
}

func fizzle(ctx *Context, effect string, reason string) {
	slog.Debug("spell fizzled", "caster", ctx.Owner, "effect", effect, "reason", reason)
}

// CrusadersMantleEffect raises the attack of every allied card.
// Params: "ability", "dc", "bonus", "turns" (int).
type CrusadersMantleEffect struct {
	check
	bonus int
	turns int
}

func NewCrusadersMantleEffect(params map[string]string) Effect {
	return &CrusadersMantleEffect{
		check: newCheck(params, model.AbilityCHA, 14),
		bonus: intParam(params, "bonus", 1),
		turns: intParam(params, "turns", 2),
	}
}

func (e *CrusadersMantleEffect) Name() string { return "CrusadersMantle" }

func (e *CrusadersMantleEffect) Resolve(ctx *Context) {
	bonus, turns := e.bonus, e.turns
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.Hero(ctx.Owner).Apply(model.StatusSilenced, 1, e.Name())
		return
	case Fail:
		bonus = max(1, bonus/2)
	case CriticalSuccess:
		bonus, turns = bonus+1, turns+1
	}
	buffAll(ctx, ctx.Allies(0), bonus, 0, turns)
}

// DivineFavorEffect raises the attack of the first allied card.
// Params: "ability", "dc", "bonus", "turns" (int).
type DivineFavorEffect struct {
	check
	bonus int
	turns int
}

func NewDivineFavorEffect(params map[string]string) Effect {
	return &DivineFavorEffect{
		check: newCheck(params, model.AbilityCHA, 11),
		bonus: intParam(params, "bonus", 2),
		turns: intParam(params, "turns", 1),
	}
}

func (e *DivineFavorEffect) Name() string { return "DivineFavor" }

func (e *DivineFavorEffect) Resolve(ctx *Context) {
	ally, ok := ctx.FirstAlly()
	if !ok {
		fizzle(ctx, e.Name(), "no ally")
		return
	}
	bonus, turns := e.bonus, e.turns
	switch e.roll(ctx) {
	case CriticalFail:
		return
	case Fail:
		bonus = max(1, bonus/2)
	case CriticalSuccess:
		bonus, turns = bonus+2, turns+1
	}
	ctx.Svc.Timers.AddCardBuff(ally, bonus, 0, turns, 0, false)
}

// ShieldOfFaithEffect raises the defense of every allied card.
// Params: "ability", "dc", "bonus", "turns" (int).
type ShieldOfFaithEffect struct {
	check
	bonus int
	turns int
}

func NewShieldOfFaithEffect(params map[string]string) Effect {
	return &ShieldOfFaithEffect{
		check: newCheck(params, model.AbilityWIS, 13),
		bonus: intParam(params, "bonus", 4),
		turns: intParam(params, "turns", 2),
	}
}

func (e *ShieldOfFaithEffect) Name() string { return "ShieldOfFaith" }

func (e *ShieldOfFaithEffect) Resolve(ctx *Context) {
	allies := ctx.Allies(0)
	if len(allies) == 0 {
		fizzle(ctx, e.Name(), "no ally")
		return
	}
	bonus, turns := e.bonus, e.turns
	switch e.roll(ctx) {
	case CriticalFail:
		return
	case Fail:
		bonus = max(1, bonus/2)
	case CriticalSuccess:
		turns++
	}
	buffAll(ctx, allies, 0, bonus, turns)
}

// CircleOfPowerEffect cleanses the caster's side and grants aura resistance.
// Allied cards already under AuraSuppressed are left as they are.
// Params: "ability", "dc", "duration", "resistance" (int).
type CircleOfPowerEffect struct {
	check
	duration   int
	resistance int
}

func NewCircleOfPowerEffect(params map[string]string) Effect {
	return &CircleOfPowerEffect{
		check:      newCheck(params, model.AbilityCHA, 17),
		duration:   intParam(params, "duration", 3),
		resistance: intParam(params, "resistance", 2),
	}
}

func (e *CircleOfPowerEffect) Name() string { return "CircleOfPower" }

func (e *CircleOfPowerEffect) Resolve(ctx *Context) {
	if ctx.HeroAuraBlocked(ctx.Owner) {
		fizzle(ctx, e.Name(), "aura suppressed")
		return
	}
	d, r := e.duration, e.resistance
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.Hero(ctx.Owner).Apply(model.StatusSilenced, 1, e.Name())
		return
	case Fail:
		d, r = max(1, d-1), max(1, r-1)
	case CriticalSuccess:
		d, r = d+1, r+1
		ctx.Heal(4)
	}

	hero := ctx.Hero(ctx.Owner)
	hero.RemoveAll(model.StatusPoisoned, model.StatusStunned, model.StatusMarked)
	hero.Add(model.StatusAuraSuppressed, d, r, e.Name(), true)
	for _, card := range ctx.AllyZone().Cards() {
		if ctx.CardAuraBlocked(card) {
			continue
		}
		reg := ctx.CardStatus(card)
		reg.RemoveAll(model.StatusPoisoned, model.StatusStunned)
		reg.Add(model.StatusAuraSuppressed, d, r, e.Name(), true)
	}
}

// AidEffect raises the max health of up to three allied cards and heals
// them by the same amount.
// Params: "ability", "dc", "targets", "bonus_hp", "turns" (int).
type AidEffect struct {
	check
	targets int
	bonusHP int
	turns   int
}

func NewAidEffect(params map[string]string) Effect {
	return &AidEffect{
		check:   newCheck(params, model.AbilityCHA, 13),
		targets: intParam(params, "targets", 3),
		bonusHP: intParam(params, "bonus_hp", 4),
		turns:   intParam(params, "turns", 3),
	}
}

func (e *AidEffect) Name() string { return "Aid" }

func (e *AidEffect) Resolve(ctx *Context) {
	allies := ctx.Allies(max(1, e.targets))
	if len(allies) == 0 {
		fizzle(ctx, e.Name(), "no ally")
		return
	}
	bonus, turns := e.bonusHP, e.turns
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.SelfDamage(2)
		return
	case Fail:
		bonus, turns = max(1, bonus/2), max(1, turns-1)
	case CriticalSuccess:
		bonus, turns = bonus+2, turns+1
	}
	for _, card := range allies {
		ctx.Svc.Timers.AddCardBuff(card, 0, 0, turns, bonus, true)
	}
}

// BlessingOfLightEffect raises attack and defense of up to three allies.
// Params: "ability", "dc", "attack", "defense", "turns", "targets" (int).
type BlessingOfLightEffect struct {
	check
	attack  int
	defense int
	turns   int
	targets int
}

func NewBlessingOfLightEffect(params map[string]string) Effect {
	return &BlessingOfLightEffect{
		check:   newCheck(params, model.AbilityCHA, 12),
		attack:  intParam(params, "attack", 2),
		defense: intParam(params, "defense", 2),
		turns:   intParam(params, "turns", 2),
		targets: intParam(params, "targets", 3),
	}
}

func (e *BlessingOfLightEffect) Name() string { return "BlessingOfLight" }

func (e *BlessingOfLightEffect) Resolve(ctx *Context) {
	allies := ctx.Allies(max(1, e.targets))
	if len(allies) == 0 {
		fizzle(ctx, e.Name(), "no ally")
		return
	}
	atk, def, turns := e.attack, e.defense, e.turns
	switch e.roll(ctx) {
	case CriticalFail:
		return
	case Fail:
		atk, def = max(1, atk/2), max(1, def/2)
	case CriticalSuccess:
		atk, def, turns = atk+1, def+1, turns+1
	}
	buffAll(ctx, allies, atk, def, turns)
}

// BrandingSmiteEffect empowers the first ally and brands it.
// Params: "ability", "dc", "bonus", "turns", "mark" (int).
type BrandingSmiteEffect struct {
	check
	bonus int
	turns int
	mark  int
}

func NewBrandingSmiteEffect(params map[string]string) Effect {
	return &BrandingSmiteEffect{
		check: newCheck(params, model.AbilitySTR, 14),
		bonus: intParam(params, "bonus", 4),
		turns: intParam(params, "turns", 1),
		mark:  intParam(params, "mark", 2),
	}
}

func (e *BrandingSmiteEffect) Name() string { return "BrandingSmite" }

func (e *BrandingSmiteEffect) Resolve(ctx *Context) {
	ally, ok := ctx.FirstAlly()
	if !ok {
		fizzle(ctx, e.Name(), "no ally")
		return
	}
	bonus, mark := e.bonus, e.mark
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.SelfDamage(2)
		return
	case Fail:
		bonus = max(1, bonus/2)
	case CriticalSuccess:
		bonus, mark = bonus+2, mark+1
	}
	ctx.Svc.Timers.AddCardBuff(ally, bonus, 0, e.turns, 0, false)
	reg := ctx.CardStatus(ally)
	reg.Add(model.StatusMarked, mark, bonus, e.Name(), true)
	reg.Apply(model.StatusCannotStealth, mark, e.Name())
}

// HolyWeaponEffect empowers the first ally and blesses its weapon.
// Params: "ability", "dc", "attack", "defense", "turns", "undead_bonus" (int).
type HolyWeaponEffect struct {
	check
	attack      int
	defense     int
	turns       int
	undeadBonus int
}

func NewHolyWeaponEffect(params map[string]string) Effect {
	return &HolyWeaponEffect{
		check:       newCheck(params, model.AbilitySTR, 14),
		attack:      intParam(params, "attack", 4),
		defense:     intParam(params, "defense", 2),
		turns:       intParam(params, "turns", 2),
		undeadBonus: intParam(params, "undead_bonus", 25),
	}
}

func (e *HolyWeaponEffect) Name() string { return "HolyWeapon" }

func (e *HolyWeaponEffect) Resolve(ctx *Context) {
	ally, ok := ctx.FirstAlly()
	if !ok {
		fizzle(ctx, e.Name(), "no ally")
		return
	}
	atk, def, turns := e.attack, e.defense, e.turns
	switch e.roll(ctx) {
	case CriticalFail:
		ctx.CardStatus(ally).Apply(model.StatusSilenced, 1, e.Name())
		return
	case Fail:
		atk, def = max(1, atk/2), max(0, def/2)
	case CriticalSuccess:
		atk, turns = atk+2, turns+1
	}
	ctx.Svc.Timers.AddCardBuff(ally, atk, def, turns, 0, false)
	ctx.CardStatus(ally).Add(model.StatusBlessedWeapon, turns, e.undeadBonus, e.Name(), true)
}
