package model

import "errors"

// Rejection kinds shared by every engine component.
// Callers wrap them with context: fmt.Errorf("attack by %s: %w", side, ErrInvalidAction).
var (
	// ErrInvalidAction marks an action attempted out of turn, while dead,
	// silenced or stunned, or without enough energy. No state is changed.
	ErrInvalidAction = errors.New("invalid action")

	// ErrMissingReference marks an absent collaborator (no empty slot,
	// empty discard pile, no eligible target). The operation degrades.
	ErrMissingReference = errors.New("missing reference")

	// ErrReentrancy marks a second roll or target selection requested
	// while one is still pending. The pending one is left untouched.
	ErrReentrancy = errors.New("operation already pending")
)
