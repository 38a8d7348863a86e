// Package turn drives the match: it alternates sides, grants turn energy,
// fans out turn-start ticks and ends the match when a hero dies.
package turn

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/model"
)

// State is the controller's lifecycle state.
type State uint8

const (
	StateIdle                    State = iota // Start not called yet
	StateWaitingForAttributeRoll              // current side must roll its attributes
	StateActive                               // current side may act
	StateGameOver                             // a hero died
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaitingForAttributeRoll:
		return "waiting_for_attribute_roll"
	case StateActive:
		return "active"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Energy is the slice of the resource pool the controller drives.
type Energy interface {
	AddEnergy(side model.Side, amount int)
	EndTurn(side model.Side)
}

// Attributes reports whether a side still owes its attribute roll.
type Attributes interface {
	NeedsInitialRoll(side model.Side) bool
}

// Life reports hero deaths.
type Life interface {
	IsDead(side model.Side) bool
	OnDeath(fn func(side model.Side))
}

// Controller is the turn state machine.
type Controller struct {
	cfg    config.Turn
	energy Energy
	attrs  Attributes
	life   Life
	bus    *event.Bus

	state   State
	current model.Side
	turn    int
	loser   model.Side
}

// NewController creates a Controller and subscribes it to hero deaths.
// bus may be nil.
func NewController(cfg config.Turn, energy Energy, attrs Attributes, life Life, bus *event.Bus) *Controller {
	c := &Controller{
		cfg:    cfg,
		energy: energy,
		attrs:  attrs,
		life:   life,
		bus:    bus,
	}
	if life != nil {
		life.OnDeath(c.onDeath)
	}
	return c
}

// Start begins the match with first to act.
func (c *Controller) Start(first model.Side) {
	slog.Info("match started", "first", first)
	c.StartTurn(first)
}

// StartTurn hands the turn to side.
//
// Workflow:
//  1. Make side current and grant the per-turn energy
//  2. Publish TurnStarted; draw counters, combat flags, statuses, timers
//     and poison react in subscription order
//  3. Stop if a tick killed a hero
//  4. Wait for the attribute roll if side has not rolled yet, else activate
func (c *Controller) StartTurn(side model.Side) {
	if c.state == StateGameOver {
		return
	}
	c.current = side
	c.turn++
	if c.energy != nil && c.cfg.EnergyPerTurn > 0 {
		c.energy.AddEnergy(side, c.cfg.EnergyPerTurn)
	}

	slog.Debug("turn started", "side", side, "turn", c.turn)
	if c.bus != nil {
		c.bus.Publish(event.TurnStarted{Side: side})
	}
	if c.state == StateGameOver {
		return
	}

	if c.attrs != nil && c.attrs.NeedsInitialRoll(side) {
		c.state = StateWaitingForAttributeRoll
		slog.Debug("waiting for attribute roll", "side", side)
		return
	}
	c.state = StateActive
}

// EndPhase ends the current side's turn and starts the opponent's.
func (c *Controller) EndPhase() error {
	switch c.state {
	case StateGameOver:
		slog.Debug("end phase rejected", "reason", "game over")
		return fmt.Errorf("end phase: game over: %w", model.ErrInvalidAction)
	case StateIdle:
		slog.Debug("end phase rejected", "reason", "not started")
		return fmt.Errorf("end phase: match not started: %w", model.ErrInvalidAction)
	case StateWaitingForAttributeRoll:
		slog.Debug("end phase rejected", "side", c.current, "reason", "attribute roll pending")
		return fmt.Errorf("end phase for %s: attribute roll pending: %w", c.current, model.ErrInvalidAction)
	}

	ending := c.current
	if c.energy != nil {
		c.energy.EndTurn(ending)
	}
	slog.Debug("turn ended", "side", ending, "turn", c.turn)
	c.StartTurn(ending.Opponent())
	return nil
}

// NotifyAttributeRollComplete activates the turn once the waited-on side
// has rolled. Calls for any other side are ignored.
func (c *Controller) NotifyAttributeRollComplete(side model.Side) {
	if c.state != StateWaitingForAttributeRoll || c.current != side {
		return
	}
	c.state = StateActive
	slog.Debug("attribute roll complete, turn active", "side", side)
}

// CanAct reports whether side may act right now.
func (c *Controller) CanAct(side model.Side) bool {
	if c.state != StateActive || c.current != side {
		return false
	}
	return c.life == nil || !c.life.IsDead(side)
}

// IsWaitingForAttributeRoll reports whether the turn is blocked on side's
// attribute roll.
func (c *Controller) IsWaitingForAttributeRoll(side model.Side) bool {
	return c.state == StateWaitingForAttributeRoll && c.current == side
}

// IsGameOver reports whether a hero died.
func (c *Controller) IsGameOver() bool { return c.state == StateGameOver }

// Loser returns the side whose hero died.
func (c *Controller) Loser() (model.Side, bool) {
	return c.loser, c.state == StateGameOver
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Current returns the side whose turn it is.
func (c *Controller) Current() model.Side { return c.current }

// Turn returns how many turns have started.
func (c *Controller) Turn() int { return c.turn }

// Phase returns the externally visible phase name.
func (c *Controller) Phase() string {
	switch c.state {
	case StateActive:
		if c.current == model.SidePlayer {
			return "ActivePlayerTurn"
		}
		return "ActiveEnemyTurn"
	case StateWaitingForAttributeRoll:
		return "WaitingForAttributeRoll"
	case StateGameOver:
		return "GameOver"
	default:
		return "Idle"
	}
}

func (c *Controller) onDeath(side model.Side) {
	if c.state == StateGameOver {
		return
	}
	c.state = StateGameOver
	c.loser = side
	slog.Info("game over", "loser", side, "turn", c.turn)
	if c.bus != nil {
		c.bus.Publish(event.GameOver{Loser: side})
	}
}
