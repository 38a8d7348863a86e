package model

import (
	"slices"

	"github.com/google/uuid"
)

// Card is a runtime card instance built from a template.
// Placed and SlotIndex are maintained by the board; everything else is
// mutated by the engine components that own the card at the time.
type Card struct {
	ID       uuid.UUID
	Template *CardTemplate

	Name       string
	Kind       CardKind
	Attack     int
	Defense    int
	MaxHealth  int
	Armor      int
	EnergyCost int
	Keywords   []string
	Tier       int

	Durability         int
	DurabilityDisabled bool

	TranscendentForm    bool
	TranscendentApplied bool
	Sacred              bool
	Undead              bool
	Token               bool // summoned copy; vanishes instead of being discarded

	Owner     Side
	Placed    bool
	SlotIndex int
}

// NewCard builds a tier-1 card from tmpl with a fresh ID.
func NewCard(tmpl *CardTemplate, owner Side) *Card {
	c := &Card{
		ID:               uuid.New(),
		Template:         tmpl,
		Kind:             tmpl.Kind,
		EnergyCost:       max(0, tmpl.EnergyCost),
		Keywords:         slices.Clone(tmpl.Keywords),
		Durability:       tmpl.Durability,
		TranscendentForm: tmpl.TranscendentForm,
		Undead:           tmpl.Undead,
		Owner:            owner,
		SlotIndex:        -1,
	}
	c.applyTier(1)
	return c
}

func (c *Card) applyTier(tier int) {
	st := c.Template.StatsForTier(tier)
	c.Tier = tier
	c.Name = st.Name
	c.Attack = st.Attack
	c.Defense = st.Defense
	c.MaxHealth = st.MaxHealth
	c.Armor = st.Armor
}

// Key groups cards of the same identity regardless of tier naming.
func (c *Card) Key() string {
	if c.Template != nil {
		return c.Template.Name
	}
	return c.Name
}

// IsSpell reports whether the card resolves as a spell.
func (c *Card) IsSpell() bool { return c.Kind == KindSpell }

// IsEquipment reports whether the card is equipment.
func (c *Card) IsEquipment() bool { return c.Kind == KindEquipment }

// MaxTier returns the template's max tier.
func (c *Card) MaxTier() int {
	if c.Template == nil {
		return max(1, c.Tier)
	}
	return c.Template.MaxTier()
}

// IsTranscendent reports whether the card's current tier is a transcendent
// stage, or the transcendent stat reroll has already been applied.
func (c *Card) IsTranscendent() bool {
	if c.TranscendentApplied {
		return true
	}
	if c.Template == nil || c.Tier < 2 {
		return false
	}
	return c.Template.StatsForTier(c.Tier).Transcendent
}

// UpgradeTier moves the card one tier up and applies that tier's stats.
// Returns false when already at max tier.
func (c *Card) UpgradeTier() bool {
	if c.Template == nil || c.Tier >= c.MaxTier() {
		return false
	}
	c.applyTier(c.Tier + 1)
	c.TranscendentApplied = false
	return true
}

// DowngradeTier moves the card down by tiers (not below 1).
// Returns false if the tier did not change.
func (c *Card) DowngradeTier(tiers int) bool {
	if c.Template == nil || tiers <= 0 || c.Tier <= 1 {
		return false
	}
	c.applyTier(max(1, c.Tier-tiers))
	c.TranscendentApplied = false
	return true
}

// UseEquipment consumes one durability point. Returns true when the
// equipment broke on this use.
func (c *Card) UseEquipment() bool {
	if !c.IsEquipment() || c.DurabilityDisabled || c.Durability <= 0 {
		return false
	}
	c.Durability--
	return c.Durability == 0
}

// Clone copies the card state under a new ID, detached from the board.
func (c *Card) Clone() *Card {
	cp := *c
	cp.ID = uuid.New()
	cp.Keywords = slices.Clone(c.Keywords)
	cp.Placed = false
	cp.SlotIndex = -1
	return &cp
}

// ResetToTemplate restores tier-1 stats, as when a card leaves play.
func (c *Card) ResetToTemplate() {
	if c.Template == nil {
		return
	}
	c.applyTier(1)
	c.Durability = c.Template.Durability
	c.DurabilityDisabled = false
	c.TranscendentApplied = false
}
