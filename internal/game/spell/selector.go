package spell

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/duelcore/internal/game/board"
	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/model"
)

// Choice is a picked spell target: a hero or a card on the board.
type Choice struct {
	Hero bool
	Side model.Side
	Card *model.Card
}

// HeroChoice targets side's hero.
func HeroChoice(side model.Side) Choice { return Choice{Hero: true, Side: side} }

// CardChoice targets a card.
func CardChoice(card *model.Card) Choice { return Choice{Side: card.Owner, Card: card} }

// Modifiers reads ability modifiers.
type Modifiers interface {
	Modifier(side model.Side, a model.Ability) int
}

// Selector mediates targeted spells: it holds the pending cast until a
// target is picked, rolls for it, then hands the outcome to the effect.
//
// Workflow:
//  1. Begin: the effect registers and cleanup is deferred
//  2. SelectHero / SelectCard: validate the target, request a d20
//  3. On the roll: grade it against the target's DEX and resolve
//  4. Finalize the card (Cancel finalizes without resolving)
type Selector struct {
	roller *dice.Roller
	mods   Modifiers
	board  *board.Board

	ctx          *Context
	effect       TargetedEffect
	choice       Choice
	expected     model.Side
	awaitingRoll bool
}

// NewSelector creates a Selector.
func NewSelector(roller *dice.Roller, mods Modifiers, b *board.Board) *Selector {
	return &Selector{roller: roller, mods: mods, board: b}
}

// Active reports whether a targeted cast is waiting.
func (s *Selector) Active() bool { return s.effect != nil }

// AwaitingRoll reports whether the target roll is outstanding.
func (s *Selector) AwaitingRoll() bool { return s.awaitingRoll }

// ExpectedTarget returns the side whose hero or cards may be picked.
func (s *Selector) ExpectedTarget() model.Side { return s.expected }

// Caster returns the side of the pending cast.
func (s *Selector) Caster() (model.Side, bool) {
	if s.ctx == nil {
		return 0, false
	}
	return s.ctx.Owner, true
}

// Begin opens a selection for effect.
func (s *Selector) Begin(ctx *Context, effect TargetedEffect) error {
	if ctx == nil || effect == nil {
		return fmt.Errorf("begin target selection: %w", model.ErrMissingReference)
	}
	if s.Active() {
		return fmt.Errorf("begin target selection for %s: selection active: %w", effect.Name(), model.ErrReentrancy)
	}
	s.ctx = ctx
	s.effect = effect
	s.expected = ctx.Owner.Opponent()
	ctx.DeferCleanup()
	slog.Debug("target selection started", "caster", ctx.Owner, "effect", effect.Name())
	return nil
}

// SelectHero picks side's hero.
func (s *Selector) SelectHero(side model.Side) error {
	if err := s.canSelect(); err != nil {
		return err
	}
	if side != s.expected {
		return fmt.Errorf("select hero %s: expected %s: %w", side, s.expected, model.ErrInvalidAction)
	}
	return s.trigger(HeroChoice(side))
}

// SelectCard picks a card on the expected side's board.
func (s *Selector) SelectCard(card *model.Card) error {
	if err := s.canSelect(); err != nil {
		return err
	}
	if card == nil {
		return fmt.Errorf("select card: %w", model.ErrMissingReference)
	}
	if card.IsEquipment() {
		return fmt.Errorf("select card %s: equipment: %w", card.Name, model.ErrInvalidAction)
	}
	slot, ok := s.board.Locate(card)
	if !ok || slot.Zone().Side() != s.expected {
		return fmt.Errorf("select card %s: not on %s board: %w", card.Name, s.expected, model.ErrInvalidAction)
	}
	return s.trigger(CardChoice(card))
}

// Cancel abandons the selection and finalizes the card.
func (s *Selector) Cancel() {
	if !s.Active() {
		return
	}
	ctx := s.ctx
	slog.Debug("target selection cancelled", "caster", ctx.Owner, "effect", s.effect.Name())
	s.reset()
	ctx.Finalize()
}

func (s *Selector) canSelect() error {
	if !s.Active() {
		return fmt.Errorf("select target: no selection: %w", model.ErrInvalidAction)
	}
	if s.awaitingRoll {
		return fmt.Errorf("select target: roll pending: %w", model.ErrInvalidAction)
	}
	return nil
}

func (s *Selector) trigger(choice Choice) error {
	s.choice = choice
	s.awaitingRoll = true
	req := dice.RollRequest{Side: s.ctx.Owner, Purpose: dice.PurposeSpellTarget, SkipEnergy: true}
	if err := s.roller.Request(req, s.onRoll); err != nil {
		s.awaitingRoll = false
		return fmt.Errorf("select target: %w", err)
	}
	return nil
}

func (s *Selector) onRoll(roll int) {
	s.awaitingRoll = false
	ctx, effect, choice := s.ctx, s.effect, s.choice
	if effect == nil || ctx == nil {
		return
	}
	outcome := s.evaluate(roll)
	s.reset()

	slog.Info("spell target rolled",
		"caster", ctx.Owner,
		"effect", effect.Name(),
		"hero", choice.Hero,
		"roll", roll,
		"outcome", outcome)
	effect.ResolveAfterDice(ctx, choice, outcome)
	ctx.Finalize()
}

func (s *Selector) evaluate(roll int) Outcome {
	switch {
	case roll <= 1:
		return CriticalFail
	case roll >= dice.D20:
		return CriticalSuccess
	}
	defender := s.expected
	if s.choice.Hero {
		defender = s.choice.Side
	} else if slot, ok := s.board.Locate(s.choice.Card); ok {
		defender = slot.Zone().Side()
	}
	attack := roll
	defense := 10
	if s.mods != nil {
		attack += s.mods.Modifier(s.ctx.Owner, model.AbilityINT)
		defense += s.mods.Modifier(defender, model.AbilityDEX)
	}
	if attack >= defense {
		return Success
	}
	return Fail
}

func (s *Selector) reset() {
	s.ctx = nil
	s.effect = nil
	s.choice = Choice{}
	s.awaitingRoll = false
}
