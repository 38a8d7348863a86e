// Package evolution merges same-name same-tier cards into higher tiers and
// rolls transcendent stats for cards that reach their final form.
package evolution

import (
	"log/slog"
	"slices"

	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/game/board"
	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/model"
)

// StatBlockGenerator produces a throwaway attribute block for a d20.
type StatBlockGenerator interface {
	GenerateTemporaryStatBlock(roll int) model.AttributeBlock
}

type groupKey struct {
	side model.Side
	name string
	tier int
}

// Engine tracks placed cards per (side, name, tier) and merges pairs.
type Engine struct {
	board *board.Board
	stats StatBlockGenerator
	src   dice.Source
	bus   *event.Bus

	groups map[groupKey][]*model.Card
}

// NewEngine creates an Engine and hooks it to b's placement and removal
// notifications. bus may be nil.
func NewEngine(b *board.Board, stats StatBlockGenerator, src dice.Source, bus *event.Bus) *Engine {
	e := &Engine{
		board:  b,
		stats:  stats,
		src:    src,
		bus:    bus,
		groups: make(map[groupKey][]*model.Card),
	}
	b.OnPlaced(e.OnCardPlaced)
	b.OnRemoved(e.OnCardRemoved)
	return e
}

// Group returns the tracked cards for side, name and tier.
func (e *Engine) Group(side model.Side, name string, tier int) []*model.Card {
	return slices.Clone(e.groups[groupKey{side, name, tier}])
}

// OnCardPlaced adds card to its group and merges the first two cards of
// the group when it holds a pair.
//
// Workflow:
//  1. Skip spells, equipment and summoned tokens
//  2. Bucket by (side, template name, tier)
//  3. With two cards: the first stays, the second is destroyed
//  4. The survivor upgrades a tier and moves to the next bucket
//  5. A survivor at max tier with a transcendent stage transcends
func (e *Engine) OnCardPlaced(side model.Side, card *model.Card) {
	if card == nil || card.Token || card.IsSpell() || card.IsEquipment() {
		return
	}
	key := groupKey{side, card.Key(), card.Tier}
	if !slices.Contains(e.groups[key], card) {
		e.groups[key] = append(e.groups[key], card)
	}
	if len(e.groups[key]) >= 2 {
		e.merge(key)
	}
}

func (e *Engine) merge(key groupKey) {
	bucket := e.groups[key]
	ref, partner := bucket[0], bucket[1]
	e.groups[key] = slices.Delete(slices.Clone(bucket), 0, 2)

	e.board.Destroy(partner, board.ReasonMerged)

	if !ref.UpgradeTier() {
		e.groups[key] = append(e.groups[key], ref)
		slog.Debug("merge failed, max tier", "card", ref.Name, "tier", ref.Tier)
		return
	}

	next := groupKey{key.side, key.name, ref.Tier}
	if !slices.Contains(e.groups[next], ref) {
		e.groups[next] = append(e.groups[next], ref)
	}
	slog.Info("cards merged", "side", key.side, "card", ref.Name, "tier", ref.Tier)
	if e.bus != nil {
		e.bus.Publish(event.CardEvolved{Card: ref, Tier: ref.Tier})
	}

	e.tryTranscend(ref)
}

func (e *Engine) tryTranscend(card *model.Card) {
	if card.Template == nil || card.Tier < card.MaxTier() {
		return
	}
	stageTranscendent := card.Template.StatsForTier(card.Tier).Transcendent
	if !stageTranscendent && !(card.IsEquipment() && card.TranscendentForm) {
		return
	}
	e.ApplyTranscendence(card)
}

// ApplyTranscendence rerolls card's stats from a temporary attribute block:
// attack in [1, STR/2], defense in [1, DEX/2], max health in [1, maxLife/2],
// armor CON/4. Equipment stops wearing out. Applying twice is a no-op.
func (e *Engine) ApplyTranscendence(card *model.Card) bool {
	if card == nil || card.IsSpell() || card.TranscendentApplied {
		return false
	}
	block := e.stats.GenerateTemporaryStatBlock(dice.Roll(e.src, dice.D20))

	atkHalf := max(1, block.Score(model.AbilitySTR)/2)
	defHalf := max(1, block.Score(model.AbilityDEX)/2)
	hpHalf := max(1, block.MaxLife/2)

	card.Attack = dice.RangeInclusive(e.src, 1, atkHalf)
	card.Defense = dice.RangeInclusive(e.src, 1, defHalf)
	card.MaxHealth = dice.RangeInclusive(e.src, 1, hpHalf)
	card.Armor = max(0, block.Score(model.AbilityCON)/4)
	if card.IsEquipment() {
		card.DurabilityDisabled = true
		card.Durability = max(0, card.Durability)
	}
	card.TranscendentApplied = true

	slog.Info("card transcended",
		"card", card.Name,
		"attack", card.Attack,
		"defense", card.Defense,
		"max_health", card.MaxHealth,
		"armor", card.Armor)
	return true
}

// OnCardRemoved drops card from its bucket.
func (e *Engine) OnCardRemoved(side model.Side, card *model.Card) {
	if card == nil {
		return
	}
	e.remove(groupKey{side, card.Key(), card.Tier}, card)
}

// ForceDowngrade lowers card by tiers and re-buckets it.
// Returns false when nothing changed.
func (e *Engine) ForceDowngrade(card *model.Card, tiers int) bool {
	if card == nil || tiers <= 0 {
		return false
	}
	side := card.Owner
	old := groupKey{side, card.Key(), card.Tier}
	tracked := slices.Contains(e.groups[old], card)
	if !card.DowngradeTier(tiers) {
		return false
	}
	if tracked {
		e.remove(old, card)
		next := groupKey{side, card.Key(), card.Tier}
		e.groups[next] = append(e.groups[next], card)
	}
	slog.Info("card downgraded", "card", card.Name, "tier", card.Tier)
	if e.bus != nil {
		e.bus.Publish(event.CardEvolved{Card: card, Tier: card.Tier})
	}
	return true
}

func (e *Engine) remove(key groupKey, card *model.Card) {
	bucket := e.groups[key]
	i := slices.Index(bucket, card)
	if i < 0 {
		return
	}
	e.groups[key] = slices.Delete(slices.Clone(bucket), i, i+1)
}
