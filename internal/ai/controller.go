// Package ai drives sides of a duel without a human: a scripted policy
// that plays one turn at a time, and a Driver that alternates controllers
// until the match is decided.
package ai

import (
	"github.com/google/uuid"

	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/match"
	"github.com/udisondev/duelcore/internal/model"
)

// Game is the part of a match a controller plays through.
// Rolls must resolve immediately (non-deferred roller).
type Game interface {
	View(side model.Side) match.View
	RequestRoll(side model.Side, purpose dice.Purpose) error
	PlayCard(side model.Side, cardID uuid.UUID, slot int) error
	RequestTargetSelection(side model.Side, target match.Target) error
	CancelTargetSelection(side model.Side) error
	RequestAttack(side model.Side) error
	RequestTranscendentAttack(side model.Side, cardID uuid.UUID) error
	EndPhase(side model.Side) error
}

// Controller plays one side's turns.
type Controller interface {
	// Side returns the seat the controller plays.
	Side() model.Side

	// TakeTurn plays the current turn to its end (or until the game ends).
	TakeTurn(g Game) error
}
