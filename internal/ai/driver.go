package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/duelcore/internal/model"
)

// ErrStalled is returned when a controller hands back a turn it did not end.
var ErrStalled = errors.New("controller did not end its turn")

// Driver alternates registered controllers over one match until a hero
// dies or the turn cap is reached.
type Driver struct {
	controllers [2]Controller
	maxTurns    int
}

// NewDriver creates a Driver that gives up after maxTurns turns
// (0 means no cap).
func NewDriver(maxTurns int) *Driver {
	return &Driver{maxTurns: max(0, maxTurns)}
}

// Register seats controller on its side, replacing any previous one.
func (d *Driver) Register(controller Controller) {
	d.controllers[controller.Side()] = controller
	slog.Debug("ai controller registered", "side", controller.Side())
}

// Unregister empties side's seat.
func (d *Driver) Unregister(side model.Side) {
	d.controllers[side] = nil
}

// Controller returns the controller seated on side.
func (d *Driver) Controller(side model.Side) (Controller, error) {
	c := d.controllers[side]
	if c == nil {
		return nil, fmt.Errorf("no controller for %s", side)
	}
	return c, nil
}

// Run plays g until it is decided, the turn cap is hit, or ctx is done.
// Reaching the cap is not an error; the match is simply left undecided.
func (d *Driver) Run(ctx context.Context, g Game) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		v := g.View(model.SidePlayer)
		if v.GameOver {
			return nil
		}
		if d.maxTurns > 0 && v.Turn > d.maxTurns {
			slog.Debug("turn cap reached", "turns", v.Turn-1)
			return nil
		}

		c, err := d.Controller(v.Current)
		if err != nil {
			return err
		}
		if err := c.TakeTurn(g); err != nil {
			return fmt.Errorf("turn %d: %w", v.Turn, err)
		}

		after := g.View(model.SidePlayer)
		if !after.GameOver && after.Turn == v.Turn {
			return fmt.Errorf("turn %d by %s: %w", v.Turn, v.Current, ErrStalled)
		}
	}
}
