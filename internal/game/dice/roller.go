package dice

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/duelcore/internal/model"
)

// Purpose tags what a roll will be used for.
type Purpose uint8

const (
	PurposeAttribute Purpose = iota
	PurposeAttack
	PurposeDraw
	PurposeSpellTarget
	PurposeTranscendentAttack
)

func (p Purpose) String() string {
	switch p {
	case PurposeAttribute:
		return "attribute"
	case PurposeAttack:
		return "attack"
	case PurposeDraw:
		return "draw"
	case PurposeSpellTarget:
		return "spell_target"
	case PurposeTranscendentAttack:
		return "transcendent_attack"
	default:
		return "unknown"
	}
}

// EnergyGate is the part of the energy pool a roll may pay through.
type EnergyGate interface {
	CanRoll(side model.Side) bool
	ConsumeForRoll(side model.Side) bool
}

// RollRequest describes one requested d20.
type RollRequest struct {
	Side       model.Side
	Purpose    Purpose
	SkipEnergy bool
}

// Continuation receives the rolled value.
type Continuation func(roll int)

type pendingRoll struct {
	req  RollRequest
	cont Continuation
}

// Roller is the engine's only suspension point for dice.
// At most one roll is outstanding engine-wide; a second Request while one is
// pending fails with model.ErrReentrancy.
//
// In immediate mode (default) Request completes the roll before returning.
// In deferred mode the caller (presentation) calls Complete when its roll
// animation finishes.
type Roller struct {
	src      Source
	energy   EnergyGate
	deferred bool
	pending  *pendingRoll

	// observer sees every delivered roll (nil in production).
	observer func(RollRequest, int)
}

// NewRoller creates a Roller. energy may be nil when no roll ever pays.
func NewRoller(src Source, energy EnergyGate) *Roller {
	return &Roller{src: src, energy: energy}
}

// SetDeferred switches between immediate and deferred completion.
func (r *Roller) SetDeferred(deferred bool) {
	r.deferred = deferred
}

// SetRollObserver sets a callback for observing delivered rolls.
func (r *Roller) SetRollObserver(fn func(RollRequest, int)) {
	r.observer = fn
}

// Pending reports whether a roll is outstanding.
func (r *Roller) Pending() bool {
	return r.pending != nil
}

// PendingRequest returns the outstanding request, if any.
func (r *Roller) PendingRequest() (RollRequest, bool) {
	if r.pending == nil {
		return RollRequest{}, false
	}
	return r.pending.req, true
}

// Request registers a roll and its continuation.
//
// Workflow:
//  1. Reject if another roll is pending (ErrReentrancy)
//  2. Unless SkipEnergy, check and pay the escalating roll cost (ErrInvalidAction)
//  3. Store the continuation; in immediate mode complete it right away
func (r *Roller) Request(req RollRequest, cont Continuation) error {
	if r.pending != nil {
		slog.Debug("roll rejected, another roll pending",
			"side", req.Side,
			"purpose", req.Purpose,
			"pending", r.pending.req.Purpose)
		return fmt.Errorf("%s roll for %s: %w", req.Purpose, req.Side, model.ErrReentrancy)
	}
	if !req.SkipEnergy {
		if r.energy == nil || !r.energy.CanRoll(req.Side) || !r.energy.ConsumeForRoll(req.Side) {
			slog.Debug("roll rejected, not enough energy", "side", req.Side, "purpose", req.Purpose)
			return fmt.Errorf("%s roll for %s: not enough energy: %w", req.Purpose, req.Side, model.ErrInvalidAction)
		}
	}

	r.pending = &pendingRoll{req: req, cont: cont}
	if r.deferred {
		return nil
	}
	_, err := r.Complete()
	return err
}

// Complete draws the pending d20 and delivers it.
// The pending slot is cleared before the continuation runs, so a continuation
// may issue the next roll of a sequence.
func (r *Roller) Complete() (int, error) {
	p := r.pending
	if p == nil {
		return 0, fmt.Errorf("complete roll: nothing pending: %w", model.ErrMissingReference)
	}
	roll := Roll(r.src, D20)
	r.pending = nil

	slog.Debug("roll delivered", "side", p.req.Side, "purpose", p.req.Purpose, "roll", roll)
	if r.observer != nil {
		r.observer(p.req, roll)
	}
	if p.cont != nil {
		p.cont(roll)
	}
	return roll, nil
}
