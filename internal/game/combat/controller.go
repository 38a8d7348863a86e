// Package combat resolves hero attacks and transcendent card attacks.
package combat

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/game/board"
	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/game/life"
	"github.com/udisondev/duelcore/internal/model"
)

// TurnGate answers whose turn it is.
type TurnGate interface {
	CanAct(side model.Side) bool
	IsGameOver() bool
}

// HeroStatus gates a hero's actions on its statuses.
type HeroStatus interface {
	Silenced() bool
	Stunned() bool
}

// CardStatus gates a card's attacks on its statuses.
type CardStatus interface {
	Stunned(card *model.Card) bool
}

// Modifiers reads ability modifiers.
type Modifiers interface {
	Modifier(side model.Side, a model.Ability) int
}

// AttackResult describes one resolved hero attack.
type AttackResult struct {
	Attacker      model.Side
	Roll          int
	Hit           bool
	Critical      bool
	Damage        int
	Countered     bool
	CounterDamage int
	CounterDelay  time.Duration // presentation pacing before the counter lands
}

// TranscendentResult describes one resolved transcendent card attack.
type TranscendentResult struct {
	Card   *model.Card
	Roll   int
	Hit    bool
	Damage int
}

// Controller resolves attacks through the shared Roller.
//
// Workflow:
//  1. Validate turn, hero state and the once-per-turn flag
//  2. Request one d20 (no energy cost)
//  3. In the continuation, drop the result if the attacker died or the game ended
//  4. Apply damage through the life pool
type Controller struct {
	cfg    config.Combat
	turn   TurnGate
	roller *dice.Roller
	mods   Modifiers
	life   *life.Pool
	heroes [2]HeroStatus
	cards  CardStatus
	board  *board.Board

	resolving    bool
	attacked     [2]bool
	cardAttacked map[uuid.UUID]model.Side

	// hitObserver sees every resolved hero attack (nil in production).
	hitObserver func(AttackResult)
	// cardObserver sees every resolved transcendent attack (nil in production).
	cardObserver func(TranscendentResult)
}

// NewController creates a Controller. Attack flags reset on bus turn starts.
func NewController(
	cfg config.Combat,
	turn TurnGate,
	roller *dice.Roller,
	mods Modifiers,
	lp *life.Pool,
	heroes [2]HeroStatus,
	cards CardStatus,
	b *board.Board,
	bus *event.Bus,
) *Controller {
	c := &Controller{
		cfg:          cfg,
		turn:         turn,
		roller:       roller,
		mods:         mods,
		life:         lp,
		heroes:       heroes,
		cards:        cards,
		board:        b,
		cardAttacked: make(map[uuid.UUID]model.Side),
	}
	if bus != nil {
		bus.OnTurnStarted(func(e event.TurnStarted) { c.OnTurnStarted(e.Side) })
	}
	return c
}

// SetHitObserver sets callback for observing hero attack results.
func (c *Controller) SetHitObserver(fn func(AttackResult)) {
	c.hitObserver = fn
}

// SetTranscendentObserver sets callback for observing transcendent attacks.
func (c *Controller) SetTranscendentObserver(fn func(TranscendentResult)) {
	c.cardObserver = fn
}

// OnTurnStarted clears side's attack flags.
func (c *Controller) OnTurnStarted(side model.Side) {
	c.attacked[side] = false
	for id, owner := range c.cardAttacked {
		if owner == side {
			delete(c.cardAttacked, id)
		}
	}
}

// HasAttacked reports whether side's hero attacked this turn.
func (c *Controller) HasAttacked(side model.Side) bool { return c.attacked[side] }

// CardHasAttacked reports whether card made its transcendent attack this turn.
func (c *Controller) CardHasAttacked(card *model.Card) bool {
	_, ok := c.cardAttacked[card.ID]
	return ok
}

// ComputeDamage returns max(1, base + STR modifier when enabled).
func (c *Controller) ComputeDamage(side model.Side) int {
	dmg := c.cfg.BaseDamage
	if c.cfg.AddStrengthModifier {
		dmg += c.mods.Modifier(side, model.AbilitySTR)
	}
	return max(1, dmg)
}

// CanAttack validates a hero attack request without side effects.
func (c *Controller) CanAttack(side model.Side) error {
	if c.resolving {
		return fmt.Errorf("attack by %s: resolution in progress: %w", side, model.ErrReentrancy)
	}
	if !c.turn.CanAct(side) {
		return fmt.Errorf("attack by %s: cannot act: %w", side, model.ErrInvalidAction)
	}
	hero := c.heroes[side]
	if hero.Silenced() {
		return fmt.Errorf("attack by %s: silenced: %w", side, model.ErrInvalidAction)
	}
	if hero.Stunned() {
		return fmt.Errorf("attack by %s: stunned: %w", side, model.ErrInvalidAction)
	}
	if c.attacked[side] {
		return fmt.Errorf("attack by %s: already attacked this turn: %w", side, model.ErrInvalidAction)
	}
	return nil
}

// RequestAttack rolls a hero attack for side against the opponent.
func (c *Controller) RequestAttack(side model.Side) error {
	if err := c.CanAttack(side); err != nil {
		slog.Debug("attack rejected", "side", side, "err", err)
		return err
	}

	c.resolving = true
	c.attacked[side] = true
	err := c.roller.Request(dice.RollRequest{Side: side, Purpose: dice.PurposeAttack, SkipEnergy: true}, func(roll int) {
		c.resolving = false
		c.resolveAttack(side, roll)
	})
	if err != nil {
		c.resolving = false
		c.attacked[side] = false
		slog.Debug("attack roll rejected", "side", side, "err", err)
		return fmt.Errorf("attack by %s: %w", side, err)
	}
	return nil
}

func (c *Controller) resolveAttack(attacker model.Side, roll int) {
	if c.life.IsDead(attacker) || c.turn.IsGameOver() {
		slog.Debug("attack discarded", "side", attacker, "roll", roll)
		return
	}
	defender := attacker.Opponent()
	res := AttackResult{Attacker: attacker, Roll: roll}

	switch {
	case roll >= dice.D20:
		res.Hit = true
		res.Critical = true
		res.Damage = c.life.TakeDamage(defender, c.ComputeDamage(attacker)*max(1, c.cfg.CriticalMultiplier))
	case roll <= 1:
		if !c.life.IsDead(defender) {
			res.Countered = true
			res.CounterDelay = c.cfg.CounterAttackDelay
			res.CounterDamage = c.life.TakeDamage(attacker, c.ComputeDamage(defender))
		}
	default:
		attack := roll + c.mods.Modifier(attacker, model.AbilitySTR)
		defense := 10 + c.mods.Modifier(defender, model.AbilityDEX)
		if attack >= defense {
			res.Hit = true
			res.Damage = c.life.TakeDamage(defender, c.ComputeDamage(attacker))
		}
	}

	slog.Info("attack resolved",
		"attacker", attacker,
		"roll", roll,
		"hit", res.Hit,
		"crit", res.Critical,
		"damage", res.Damage,
		"countered", res.Countered,
		"counter_damage", res.CounterDamage)
	if c.hitObserver != nil {
		c.hitObserver(res)
	}
}

// CanTranscendentAttack validates a transcendent card attack request.
func (c *Controller) CanTranscendentAttack(side model.Side, card *model.Card) error {
	if card == nil {
		return fmt.Errorf("transcendent attack by %s: no card: %w", side, model.ErrMissingReference)
	}
	if c.resolving {
		return fmt.Errorf("transcendent attack by %s: resolution in progress: %w", card.Name, model.ErrReentrancy)
	}
	if !c.turn.CanAct(side) {
		return fmt.Errorf("transcendent attack by %s: cannot act: %w", card.Name, model.ErrInvalidAction)
	}
	if card.IsEquipment() || !card.IsTranscendent() {
		return fmt.Errorf("transcendent attack by %s: not transcendent: %w", card.Name, model.ErrInvalidAction)
	}
	slot, ok := c.board.Locate(card)
	if !ok || slot.Zone().Side() != side {
		return fmt.Errorf("transcendent attack by %s: not on %s board: %w", card.Name, side, model.ErrInvalidAction)
	}
	if c.heroes[side].Stunned() {
		return fmt.Errorf("transcendent attack by %s: %s hero stunned: %w", card.Name, side, model.ErrInvalidAction)
	}
	if c.cards.Stunned(card) {
		return fmt.Errorf("transcendent attack by %s: stunned: %w", card.Name, model.ErrInvalidAction)
	}
	if c.CardHasAttacked(card) {
		return fmt.Errorf("transcendent attack by %s: already attacked this turn: %w", card.Name, model.ErrInvalidAction)
	}
	return nil
}

// RequestTranscendentAttack rolls an attack by a transcendent card against
// the enemy hero. A natural 20 always hits, a natural 1 always misses.
func (c *Controller) RequestTranscendentAttack(side model.Side, card *model.Card) error {
	if err := c.CanTranscendentAttack(side, card); err != nil {
		slog.Debug("transcendent attack rejected", "side", side, "err", err)
		return err
	}

	c.resolving = true
	c.cardAttacked[card.ID] = side
	req := dice.RollRequest{Side: side, Purpose: dice.PurposeTranscendentAttack, SkipEnergy: true}
	err := c.roller.Request(req, func(roll int) {
		c.resolving = false
		c.resolveTranscendent(side, card, roll)
	})
	if err != nil {
		c.resolving = false
		delete(c.cardAttacked, card.ID)
		return fmt.Errorf("transcendent attack by %s: %w", card.Name, err)
	}
	return nil
}

func (c *Controller) resolveTranscendent(side model.Side, card *model.Card, roll int) {
	if c.life.IsDead(side) || c.turn.IsGameOver() || !card.Placed {
		slog.Debug("transcendent attack discarded", "card", card.Name, "roll", roll)
		return
	}
	target := side.Opponent()
	res := TranscendentResult{Card: card, Roll: roll}
	switch {
	case roll >= dice.D20:
		res.Hit = true
	case roll <= 1:
		res.Hit = false
	default:
		res.Hit = roll+c.mods.Modifier(side, model.AbilitySTR) >= 10+c.mods.Modifier(target, model.AbilityDEX)
	}
	if res.Hit {
		res.Damage = c.life.TakeDamage(target, max(1, card.Attack))
	}
	slog.Info("transcendent attack resolved", "card", card.Name, "roll", roll, "hit", res.Hit, "damage", res.Damage)
	if c.cardObserver != nil {
		c.cardObserver(res)
	}
}
