package deck

import (
	"log/slog"

	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/model"
)

// EnergyGranter receives the energy bonus of a critical draw roll.
type EnergyGranter interface {
	AddEnergy(side model.Side, amount int)
}

// DrawResult describes what one draw roll produced.
type DrawResult struct {
	Roll         int
	Drawn        []*model.Card
	EnergyGained int
	Skipped      bool // side is serving a skip-draw penalty
	Fumble       bool // natural 1: skip-draw penalty started
}

// Manager owns both sides' decks and hands and the draw-roll rules.
type Manager struct {
	cfg    config.Deck
	energy EnergyGranter

	decks     [2]*Deck
	hands     [2]*Hand
	skipTurns [2]int
	drawRolls [2]int
}

// NewManager creates a Manager with empty decks shuffled by src.
// It resets skip counters on bus turn starts; bus may be nil.
func NewManager(cfg config.Deck, src dice.Source, energy EnergyGranter, bus *event.Bus) *Manager {
	m := &Manager{cfg: cfg, energy: energy}
	for _, side := range model.Sides {
		m.decks[side] = NewDeck(side, src)
		m.hands[side] = &Hand{}
	}
	if bus != nil {
		bus.OnTurnStarted(func(e event.TurnStarted) { m.OnTurnStart(e.Side) })
	}
	return m
}

// Deck returns side's deck.
func (m *Manager) Deck(side model.Side) *Deck { return m.decks[side] }

// Hand returns side's hand.
func (m *Manager) Hand(side model.Side) *Hand { return m.hands[side] }

// SkipTurns returns how many more turns side cannot draw.
func (m *Manager) SkipTurns(side model.Side) int { return m.skipTurns[side] }

// DrawRollsThisTurn returns how many draw rolls side received this turn.
func (m *Manager) DrawRollsThisTurn(side model.Side) int { return m.drawRolls[side] }

// DealInitialHands draws the configured opening hand for both sides.
func (m *Manager) DealInitialHands() {
	for _, side := range model.Sides {
		m.DrawTo(side, m.cfg.InitialHandSize)
	}
}

// DrawTo moves up to n cards from side's deck to its hand.
func (m *Manager) DrawTo(side model.Side, n int) []*model.Card {
	var drawn []*model.Card
	for range max(0, n) {
		c := m.decks[side].Draw()
		if c == nil {
			slog.Debug("deck exhausted", "side", side)
			break
		}
		c.Owner = side
		m.hands[side].Add(c)
		drawn = append(drawn, c)
	}
	return drawn
}

// ReceiveRoll converts a draw roll into draws.
//
// Tiers:
//   - skip-draw turns pending → nothing
//   - 1  → nothing, draws skipped for FumbleSkipTurns turns
//   - 20 → CriticalDraws cards and CriticalEnergy energy
//   - ≥ SingleDrawRoll → one card
//   - otherwise → nothing
func (m *Manager) ReceiveRoll(side model.Side, roll int) DrawResult {
	m.drawRolls[side]++
	res := DrawResult{Roll: roll}

	if m.skipTurns[side] > 0 {
		slog.Debug("draw roll ignored", "side", side, "roll", roll, "skip_turns", m.skipTurns[side])
		res.Skipped = true
		return res
	}

	allowed := 0
	switch {
	case roll <= 1:
		res.Fumble = true
		m.skipTurns[side] = m.cfg.FumbleSkipTurns
		slog.Info("draw fumble", "side", side, "skip_turns", m.cfg.FumbleSkipTurns)
	case roll >= dice.D20:
		allowed = m.cfg.CriticalDraws
		if m.energy != nil && m.cfg.CriticalEnergy > 0 {
			m.energy.AddEnergy(side, m.cfg.CriticalEnergy)
			res.EnergyGained = m.cfg.CriticalEnergy
		}
	case roll >= m.cfg.SingleDrawRoll:
		allowed = 1
	}

	res.Drawn = m.DrawTo(side, allowed)
	slog.Debug("draw roll", "side", side, "roll", roll, "drawn", len(res.Drawn))
	return res
}

// OnTurnStart decrements side's skip-draw counter and resets its roll count.
func (m *Manager) OnTurnStart(side model.Side) {
	if m.skipTurns[side] > 0 {
		m.skipTurns[side]--
	}
	m.drawRolls[side] = 0
}

// ReturnToHand puts card into side's hand.
func (m *Manager) ReturnToHand(side model.Side, card *model.Card) bool {
	if card == nil {
		return false
	}
	card.Owner = side
	card.Placed = false
	card.SlotIndex = -1
	m.hands[side].Add(card)
	return true
}

// Discard sends card to its owner's discard pile.
func (m *Manager) Discard(card *model.Card) {
	if card == nil {
		return
	}
	m.decks[card.Owner].Discard(card)
}
