package model

import "fmt"

// Side identifies one of the two duel participants.
type Side uint8

const (
	SidePlayer Side = iota
	SideEnemy
)

// Sides lists both participants in turn order.
var Sides = [2]Side{SidePlayer, SideEnemy}

// Opponent returns the other participant.
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// ParseSide parses the config form of a side ("player" or "enemy").
func ParseSide(s string) (Side, error) {
	switch s {
	case "", "player":
		return SidePlayer, nil
	case "enemy":
		return SideEnemy, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}
