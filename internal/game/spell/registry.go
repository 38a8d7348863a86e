package spell

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/udisondev/duelcore/internal/model"
)

// effectRegistry maps effect name → factory function.
// Populated by init() below.
var effectRegistry = map[string]func(params map[string]string) Effect{}

// RegisterEffect registers an effect factory by name.
func RegisterEffect(name string, factory func(params map[string]string) Effect) {
	effectRegistry[name] = factory
}

// CreateEffect creates an effect by name using the registered factory.
// Returns error if name is not registered.
func CreateEffect(name string, params map[string]string) (Effect, error) {
	factory, ok := effectRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown effect type: %s", name)
	}
	return factory(params), nil
}

// Registered reports whether name has a factory.
func Registered(name string) bool {
	_, ok := effectRegistry[name]
	return ok
}

func init() {
	RegisterEffect("Damage", NewDamageEffect)
	RegisterEffect("EnergySurge", NewEnergySurgeEffect)
	RegisterEffect("CureWounds", NewCureWoundsEffect)
	RegisterEffect("AuraOfLife", NewAuraOfLifeEffect)
	RegisterEffect("AuraOfVitality", NewAuraOfVitalityEffect)
	RegisterEffect("AuraOfPurity", NewAuraOfPurityEffect)
	RegisterEffect("DeathWard", NewDeathWardEffect)
	RegisterEffect("Heroism", NewHeroismEffect)
	RegisterEffect("LesserRestoration", NewLesserRestorationEffect)
	RegisterEffect("CrusadersMantle", NewCrusadersMantleEffect)
	RegisterEffect("DivineFavor", NewDivineFavorEffect)
	RegisterEffect("ShieldOfFaith", NewShieldOfFaithEffect)
	RegisterEffect("CircleOfPower", NewCircleOfPowerEffect)
	RegisterEffect("Aid", NewAidEffect)
	RegisterEffect("BlessingOfLight", NewBlessingOfLightEffect)
	RegisterEffect("BrandingSmite", NewBrandingSmiteEffect)
	RegisterEffect("HolyWeapon", NewHolyWeaponEffect)
	RegisterEffect("BanishingSmite", NewBanishingSmiteEffect)
	RegisterEffect("Banishment", NewBanishmentEffect)
	RegisterEffect("BlindingSmite", NewBlindingSmiteEffect)
	RegisterEffect("StaggeringSmite", NewStaggeringSmiteEffect)
	RegisterEffect("Daylight", NewDaylightEffect)
	RegisterEffect("DestructiveWave", NewDestructiveWaveEffect)
	RegisterEffect("DispelEvilAndGood", NewDispelEvilAndGoodEffect)
	RegisterEffect("ZoneOfTruth", NewZoneOfTruthEffect)
	RegisterEffect("RaiseDead", NewRaiseDeadEffect)
	RegisterEffect("Revivify", NewRevivifyEffect)
	RegisterEffect("UnstableReanimation", NewUnstableReanimationEffect)
}

func intParam(params map[string]string, key string, def int) int {
	raw, ok := params[key]
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("bad spell param, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return v
}

func floatParam(params map[string]string, key string, def float64) float64 {
	raw, ok := params[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("bad spell param, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return v
}

func abilityParam(params map[string]string, key string, def model.Ability) model.Ability {
	raw, ok := params[key]
	if !ok {
		return def
	}
	a, err := model.ParseAbility(raw)
	if err != nil {
		slog.Warn("bad spell param, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return a
}

// check is the attribute test shared by most effects.
// Params: "ability" (STR..CHA), "dc" (int).
type check struct {
	ability model.Ability
	dc      int
}

func newCheck(params map[string]string, ability model.Ability, dc int) check {
	return check{
		ability: abilityParam(params, "ability", ability),
		dc:      intParam(params, "dc", dc),
	}
}

func (c check) roll(ctx *Context) Outcome {
	return PerformTest(ctx, c.ability, c.dc).Outcome
}
