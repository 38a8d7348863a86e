package model

import (
	"fmt"
	"strings"
)

// Ability is one of the six ability scores.
type Ability uint8

const (
	AbilitySTR Ability = iota
	AbilityDEX
	AbilityCON
	AbilityINT
	AbilityWIS
	AbilityCHA

	abilityCount
)

// Abilities lists every ability in block order.
var Abilities = [abilityCount]Ability{AbilitySTR, AbilityDEX, AbilityCON, AbilityINT, AbilityWIS, AbilityCHA}

var abilityNames = [abilityCount]string{"STR", "DEX", "CON", "INT", "WIS", "CHA"}

func (a Ability) String() string {
	if a >= abilityCount {
		return "UNKNOWN"
	}
	return abilityNames[a]
}

// ParseAbility parses a three-letter ability key ("wis" and "WIS" both work).
func ParseAbility(s string) (Ability, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range abilityNames {
		if name == key {
			return Ability(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ability %q", s)
}

// RollStatus tags how the initial d20 shaped the point pool.
type RollStatus uint8

const (
	RollNormal RollStatus = iota
	RollCriticalBonus
	RollCriticalPenalty
)

func (s RollStatus) String() string {
	switch s {
	case RollCriticalBonus:
		return "critical_bonus"
	case RollCriticalPenalty:
		return "critical_penalty"
	default:
		return "normal"
	}
}

// AttributeBlock is a side's generated ability scores and derived life.
type AttributeBlock struct {
	Scores       [abilityCount]int
	MaxLife      int
	CriticalRoll int
	Status       RollStatus
}

// Score returns the raw score for ability a.
func (b AttributeBlock) Score(a Ability) int {
	if a >= abilityCount {
		return 0
	}
	return b.Scores[a]
}

// Modifier returns floor((score-10)/2) for ability a.
func (b AttributeBlock) Modifier(a Ability) int {
	return AbilityModifier(b.Score(a))
}

// Total returns the sum of all six scores.
func (b AttributeBlock) Total() int {
	total := 0
	for _, s := range b.Scores {
		total += s
	}
	return total
}

// AbilityModifier computes floor((score-10)/2), rounding toward negative infinity.
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 {
		return -((-d + 1) / 2)
	}
	return d / 2
}
