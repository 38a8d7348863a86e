// Package event carries engine notifications to presentation and to the
// engine's own turn-start subscribers.
package event

import (
	"github.com/google/uuid"

	"github.com/udisondev/duelcore/internal/model"
)

// Kind identifies a notification type.
type Kind uint8

const (
	KindEnergyChanged Kind = iota
	KindLifeChanged
	KindStatusChanged
	KindTurnStarted
	KindCardEvolved
	KindGameOver
	KindCardDestroyed

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindEnergyChanged:
		return "energy_changed"
	case KindLifeChanged:
		return "life_changed"
	case KindStatusChanged:
		return "status_changed"
	case KindTurnStarted:
		return "turn_started"
	case KindCardEvolved:
		return "card_evolved"
	case KindGameOver:
		return "game_over"
	case KindCardDestroyed:
		return "card_destroyed"
	default:
		return "unknown"
	}
}

// Event is any notification published on the Bus.
type Event interface {
	Kind() Kind
}

// EnergyChanged carries both sides' totals after any energy mutation.
type EnergyChanged struct {
	Player int
	Enemy  int
}

// LifeChanged carries a side's HP after damage or healing.
type LifeChanged struct {
	Side    model.Side
	Current int
	Max     int
}

// StatusChanged reports a status added to or removed from a hero or card.
// CardID is uuid.Nil for hero statuses.
type StatusChanged struct {
	Side   model.Side
	CardID uuid.UUID
	Type   model.StatusType
	Added  bool
}

// TurnStarted is published once per StartTurn.
type TurnStarted struct {
	Side model.Side
}

// CardEvolved reports a merge or a forced downgrade.
type CardEvolved struct {
	Card *model.Card
	Tier int
}

// GameOver names the side whose hero died.
type GameOver struct {
	Loser model.Side
}

// CardDestroyed reports a card removed from play for good.
type CardDestroyed struct {
	Card   *model.Card
	Reason string
}

func (EnergyChanged) Kind() Kind { return KindEnergyChanged }
func (LifeChanged) Kind() Kind   { return KindLifeChanged }
func (StatusChanged) Kind() Kind { return KindStatusChanged }
func (TurnStarted) Kind() Kind   { return KindTurnStarted }
func (CardEvolved) Kind() Kind   { return KindCardEvolved }
func (GameOver) Kind() Kind      { return KindGameOver }
func (CardDestroyed) Kind() Kind { return KindCardDestroyed }
