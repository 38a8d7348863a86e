package model

import "fmt"

// CardKind separates board monsters from spells and equipment.
type CardKind uint8

const (
	KindMonster CardKind = iota
	KindSpell
	KindEquipment
)

func (k CardKind) String() string {
	switch k {
	case KindMonster:
		return "monster"
	case KindSpell:
		return "spell"
	case KindEquipment:
		return "equipment"
	default:
		return "unknown"
	}
}

// ParseCardKind parses the YAML form of a card kind.
func ParseCardKind(s string) (CardKind, error) {
	switch s {
	case "", "monster":
		return KindMonster, nil
	case "spell":
		return KindSpell, nil
	case "equipment":
		return KindEquipment, nil
	default:
		return 0, fmt.Errorf("unknown card kind %q", s)
	}
}

// TierStage describes the stats a card takes on at one evolution tier above 1.
type TierStage struct {
	Name         string
	Attack       int
	Defense      int
	MaxHealth    int
	Armor        int
	Transcendent bool
}

// TierStats is the stat line of a card at a given tier.
type TierStats struct {
	Name         string
	Attack       int
	Defense      int
	MaxHealth    int
	Armor        int
	Transcendent bool
}

// CardTemplate is the immutable authored definition of a card.
// The engine never mutates a template, only cards built from it.
type CardTemplate struct {
	Name             string
	Kind             CardKind
	Attack           int
	Defense          int
	MaxHealth        int // 0 means Defense
	Armor            int
	EnergyCost       int
	Keywords         []string
	Durability       int
	Copies           int
	Undead           bool
	Stages           []TierStage
	TranscendentForm bool
	Spell            string
	SpellParams      map[string]string
}

// MaxTier is 1 plus the number of authored evolution stages.
func (t *CardTemplate) MaxTier() int {
	return 1 + len(t.Stages)
}

// StatsForTier returns the stat line for tier (clamped to [1, MaxTier]).
func (t *CardTemplate) StatsForTier(tier int) TierStats {
	if tier <= 1 || len(t.Stages) == 0 {
		return TierStats{
			Name:      t.Name,
			Attack:    max(0, t.Attack),
			Defense:   max(0, t.Defense),
			MaxHealth: t.baseMaxHealth(),
			Armor:     max(0, t.Armor),
		}
	}
	tier = min(tier, t.MaxTier())
	st := t.Stages[tier-2]
	name := st.Name
	if name == "" {
		name = t.Name
	}
	maxHP := st.MaxHealth
	if maxHP <= 0 {
		maxHP = max(1, st.Defense)
	}
	return TierStats{
		Name:         name,
		Attack:       max(0, st.Attack),
		Defense:      max(0, st.Defense),
		MaxHealth:    maxHP,
		Armor:        max(0, st.Armor),
		Transcendent: st.Transcendent,
	}
}

func (t *CardTemplate) baseMaxHealth() int {
	if t.MaxHealth > 0 {
		return t.MaxHealth
	}
	return max(1, t.Defense)
}
