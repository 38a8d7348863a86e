// Package spell resolves spell cards: the d20 attribute test, the effect
// registry, the dispatcher that casts and discards spell cards, and the
// target-selection mediator used by targeted spells.
package spell

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/duelcore/internal/game/board"
	"github.com/udisondev/duelcore/internal/game/deck"
	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/game/energy"
	"github.com/udisondev/duelcore/internal/game/evolution"
	"github.com/udisondev/duelcore/internal/game/life"
	"github.com/udisondev/duelcore/internal/game/status"
	"github.com/udisondev/duelcore/internal/model"
)

// Outcome is the four-way result of a spell test or a targeting roll.
type Outcome uint8

const (
	CriticalFail Outcome = iota
	Fail
	Success
	CriticalSuccess
)

func (o Outcome) String() string {
	switch o {
	case CriticalFail:
		return "critical_fail"
	case Fail:
		return "fail"
	case Success:
		return "success"
	case CriticalSuccess:
		return "critical_success"
	default:
		return "unknown"
	}
}

// Succeeded reports Success or CriticalSuccess.
func (o Outcome) Succeeded() bool { return o >= Success }

// TestResult is one resolved attribute test.
type TestResult struct {
	Roll     int
	Modifier int
	Total    int
	Outcome  Outcome
}

func (r TestResult) String() string {
	return fmt.Sprintf("roll=%d mod=%d total=%d outcome=%s", r.Roll, r.Modifier, r.Total, r.Outcome)
}

// PerformTest rolls d20 + the caster's ability modifier against dc.
// A natural 1 and a natural 20 override the total.
func PerformTest(ctx *Context, ability model.Ability, dc int) TestResult {
	roll := dice.Roll(ctx.Svc.Source, dice.D20)
	mod := 0
	if ctx.Svc.Attrs != nil {
		mod = ctx.Svc.Attrs.Modifier(ctx.Owner, ability)
	}
	res := TestResult{Roll: roll, Modifier: mod, Total: roll + mod}
	switch {
	case roll <= 1:
		res.Outcome = CriticalFail
	case roll >= dice.D20:
		res.Outcome = CriticalSuccess
	case res.Total >= dc:
		res.Outcome = Success
	default:
		res.Outcome = Fail
	}
	slog.Debug("spell test",
		"card", ctx.cardName(),
		"ability", ability,
		"dc", dc,
		"roll", roll,
		"mod", mod,
		"outcome", res.Outcome)
	return res
}

// Effect is the behavior bound to a spell card.
type Effect interface {
	Name() string
	Resolve(ctx *Context)
}

// TargetedEffect is an Effect that resolves after the caster picks a target
// and the targeting roll lands.
type TargetedEffect interface {
	Effect
	ResolveAfterDice(ctx *Context, choice Choice, outcome Outcome)
}

// Attributes reads a side's ability block.
type Attributes interface {
	Modifier(side model.Side, a model.Ability) int
	Block(side model.Side) (model.AttributeBlock, bool)
}

// Services are the engine components a spell may touch.
type Services struct {
	Life      *life.Pool
	Energy    *energy.Pool
	Attrs     Attributes
	Board     *board.Board
	Statuses  *status.Book
	Timers    *status.Timers
	Decks     *deck.Manager
	Evolution *evolution.Engine
	Source    dice.Source
	Selector  *Selector
	Auras     *status.AuraGuard
}

// Context carries one cast from dispatch to cleanup.
type Context struct {
	Owner  model.Side
	Target model.Side
	Card   *model.Card
	Svc    *Services

	deferred  bool
	finalized bool
}

// DeferCleanup keeps the card out of the discard pile until Finalize.
func (c *Context) DeferCleanup() { c.deferred = true }

// Deferred reports whether cleanup waits for an explicit Finalize.
func (c *Context) Deferred() bool { return c.deferred }

// Finalized reports whether the card has been cleaned up.
func (c *Context) Finalized() bool { return c.finalized }

// Finalize sends the spell card to its owner's discard pile. Only the first
// call has an effect.
func (c *Context) Finalize() {
	if c.finalized {
		return
	}
	c.finalized = true
	if c.Card == nil || c.Svc.Decks == nil {
		return
	}
	c.Card.Owner = c.Owner
	c.Svc.Decks.Discard(c.Card)
}

// AllyZone returns the caster's board row.
func (c *Context) AllyZone() *board.Zone { return c.Svc.Board.Zone(c.Owner) }

// EnemyZone returns the opponent's board row.
func (c *Context) EnemyZone() *board.Zone { return c.Svc.Board.Zone(c.Target) }

// Hero returns the status registry of side's hero.
func (c *Context) Hero(side model.Side) *status.Registry { return c.Svc.Statuses.Hero(side) }

// CardStatus returns card's status registry.
func (c *Context) CardStatus(card *model.Card) *status.Registry { return c.Svc.Statuses.Card(card) }

// HeroAuraBlocked reports whether side's hero refuses a new aura.
func (c *Context) HeroAuraBlocked(side model.Side) bool {
	return c.Svc.Auras != nil && !c.Svc.Auras.AllowsHero(side)
}

// CardAuraBlocked reports whether card refuses a new aura.
func (c *Context) CardAuraBlocked(card *model.Card) bool {
	return c.Svc.Auras != nil && !c.Svc.Auras.AllowsCard(card)
}

// SelfDamage hurts the caster's hero.
func (c *Context) SelfDamage(amount int) int {
	return c.Svc.Life.TakeDamage(c.Owner, amount)
}

// Heal heals the caster's hero.
func (c *Context) Heal(amount int) int {
	return c.Svc.Life.Heal(c.Owner, amount)
}

// Test runs PerformTest for this cast.
func (c *Context) Test(ability model.Ability, dc int) TestResult {
	return PerformTest(c, ability, dc)
}

// DamageCard lowers card's defense by amount. A card at 0 or less is
// destroyed. Returns the remaining defense (0 when destroyed).
func (c *Context) DamageCard(card *model.Card, amount int) int {
	if card == nil {
		return 0
	}
	remaining := card.Defense - max(0, amount)
	card.Defense = max(0, remaining)
	if remaining > 0 {
		slog.Debug("card damaged", "card", card.Name, "amount", amount, "remaining", remaining)
		return remaining
	}
	c.Svc.Board.Destroy(card, board.ReasonDamage)
	return 0
}

// Allies returns up to limit cards on the caster's board (limit <= 0: all).
func (c *Context) Allies(limit int) []*model.Card {
	return collect(c.AllyZone(), limit)
}

// Enemies returns every card on the opponent's board.
func (c *Context) Enemies() []*model.Card {
	return collect(c.EnemyZone(), 0)
}

// FirstAlly returns the caster's leftmost card.
func (c *Context) FirstAlly() (*model.Card, bool) {
	return c.AllyZone().FirstCard(notSpell)
}

// FirstEnemy returns the opponent's leftmost card.
func (c *Context) FirstEnemy() (*model.Card, bool) {
	return c.EnemyZone().FirstCard(notSpell)
}

func (c *Context) cardName() string {
	if c.Card == nil {
		return ""
	}
	return c.Card.Name
}

func notSpell(card *model.Card) bool { return !card.IsSpell() }

func collect(z *board.Zone, limit int) []*model.Card {
	var out []*model.Card
	for _, card := range z.Cards() {
		if card.IsSpell() {
			continue
		}
		out = append(out, card)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
