package model

// StatusType is a timed flag that can sit on a hero or a card.
type StatusType uint8

const (
	StatusNone StatusType = iota
	StatusMarked
	StatusPoisoned
	StatusCannotStealth
	StatusSilenced
	StatusStunned
	StatusBlessedWeapon
	StatusAuraSuppressed
	StatusShielded
	StatusCustom1
	StatusCustom2
)

func (t StatusType) String() string {
	switch t {
	case StatusNone:
		return "none"
	case StatusMarked:
		return "marked"
	case StatusPoisoned:
		return "poisoned"
	case StatusCannotStealth:
		return "cannot_stealth"
	case StatusSilenced:
		return "silenced"
	case StatusStunned:
		return "stunned"
	case StatusBlessedWeapon:
		return "blessed_weapon"
	case StatusAuraSuppressed:
		return "aura_suppressed"
	case StatusShielded:
		return "shielded"
	case StatusCustom1:
		return "custom1"
	case StatusCustom2:
		return "custom2"
	default:
		return "unknown"
	}
}

// StatusEntry is one live status in a registry.
type StatusEntry struct {
	Type           StatusType
	RemainingTurns int
	Intensity      int
	Source         string
}
