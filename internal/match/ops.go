package match

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/duelcore/internal/game/board"
	"github.com/udisondev/duelcore/internal/game/deck"
	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/game/spell"
	"github.com/udisondev/duelcore/internal/model"
)

// Target names a spell target picked by the caster: a hero or a card on
// the board.
type Target struct {
	Hero   bool
	Side   model.Side
	CardID uuid.UUID
}

// busy rejects new actions while a roll or a target selection is pending.
func (m *Match) busy(op string, side model.Side) error {
	if req, ok := m.roller.PendingRequest(); ok {
		return fmt.Errorf("%s by %s: %s roll pending: %w", op, side, req.Purpose, model.ErrReentrancy)
	}
	if m.selector.Active() {
		return fmt.Errorf("%s by %s: target selection pending: %w", op, side, model.ErrReentrancy)
	}
	return nil
}

// canAct gates every action but attacks and EndPhase: the side must own the
// turn with nothing pending and its hero must not be stunned.
func (m *Match) canAct(op string, side model.Side) error {
	if err := m.busy(op, side); err != nil {
		return err
	}
	if !m.turn.CanAct(side) {
		return fmt.Errorf("%s by %s: cannot act: %w", op, side, model.ErrInvalidAction)
	}
	if m.heroes[side].Stunned() {
		return fmt.Errorf("%s by %s: stunned: %w", op, side, model.ErrInvalidAction)
	}
	return nil
}

// RequestAttack rolls a hero attack for side.
func (m *Match) RequestAttack(side model.Side) error {
	if err := m.busy("attack", side); err != nil {
		return err
	}
	return m.combat.RequestAttack(side)
}

// RequestRoll asks for a d20 of the given purpose on side's behalf.
//
// Purposes:
//   - Attribute: free, only while the turn waits for side's initial roll
//   - Draw: pays the escalating roll cost, result goes to the deck manager
//
// Attack, spell-target and transcendent rolls have their own operations.
func (m *Match) RequestRoll(side model.Side, purpose dice.Purpose) error {
	if err := m.busy("roll", side); err != nil {
		return err
	}
	switch purpose {
	case dice.PurposeAttribute:
		if !m.turn.IsWaitingForAttributeRoll(side) {
			return fmt.Errorf("attribute roll by %s: not waiting: %w", side, model.ErrInvalidAction)
		}
		req := dice.RollRequest{Side: side, Purpose: purpose, SkipEnergy: true}
		return m.roller.Request(req, func(roll int) {
			if _, err := m.attrs.TryApplyInitialRoll(side, roll); err != nil {
				slog.Warn("attribute roll not applied", "side", side, "roll", roll, "err", err)
			}
			m.turn.NotifyAttributeRollComplete(side)
		})
	case dice.PurposeDraw:
		if err := m.canAct("draw roll", side); err != nil {
			return err
		}
		return m.roller.Request(dice.RollRequest{Side: side, Purpose: purpose}, func(roll int) {
			res := m.decks.ReceiveRoll(side, roll)
			m.lastDraw[side] = res
			slog.Info("draw roll resolved",
				"side", side,
				"roll", roll,
				"drawn", len(res.Drawn),
				"skipped", res.Skipped,
				"fumble", res.Fumble)
		})
	default:
		return fmt.Errorf("%s roll by %s: use the dedicated operation: %w", purpose, side, model.ErrInvalidAction)
	}
}

// LastDraw returns the outcome of side's most recent draw roll.
func (m *Match) LastDraw(side model.Side) deck.DrawResult { return m.lastDraw[side] }

// CompleteRoll delivers the pending roll in deferred mode.
func (m *Match) CompleteRoll() (int, error) {
	return m.roller.Complete()
}

// PlayCard plays cardID from side's hand into slot index. Spells dropped on
// a slot are cast instead of placed.
//
// Workflow:
//  1. Validate turn, pending work and the card itself
//  2. Pay the card's energy cost and take it out of hand
//  3. Place it (or cast it); on a failed placement the card goes back to
//     hand and the energy is refunded
func (m *Match) PlayCard(side model.Side, cardID uuid.UUID, slotIndex int) error {
	if err := m.canAct("play card", side); err != nil {
		return err
	}
	card, ok := m.decks.Hand(side).Find(cardID)
	if !ok {
		return fmt.Errorf("play card %s by %s: not in hand: %w", cardID, side, model.ErrMissingReference)
	}
	slot, ok := m.board.Zone(side).Slot(slotIndex)
	if !ok {
		return fmt.Errorf("play %s by %s: no slot %d: %w", card.Name, side, slotIndex, model.ErrMissingReference)
	}
	if !card.IsSpell() && !slot.IsEmpty() {
		return fmt.Errorf("play %s by %s: slot %d occupied: %w", card.Name, side, slotIndex, model.ErrInvalidAction)
	}
	return m.play(side, card, slot.TryPlace)
}

// RequestCast casts spell cardID from side's hand without a slot.
func (m *Match) RequestCast(side model.Side, cardID uuid.UUID) error {
	if err := m.canAct("cast", side); err != nil {
		return err
	}
	card, ok := m.decks.Hand(side).Find(cardID)
	if !ok {
		return fmt.Errorf("cast %s by %s: not in hand: %w", cardID, side, model.ErrMissingReference)
	}
	if !card.IsSpell() {
		return fmt.Errorf("cast %s by %s: not a spell: %w", card.Name, side, model.ErrInvalidAction)
	}
	return m.play(side, card, func(c *model.Card) error { return m.spells.CastSpell(side, c) })
}

func (m *Match) play(side model.Side, card *model.Card, place func(*model.Card) error) error {
	if card.IsSpell() {
		if m.heroes[side].Silenced() {
			return fmt.Errorf("cast %s by %s: silenced: %w", card.Name, side, model.ErrInvalidAction)
		}
		if _, err := spell.EffectFor(card); err != nil {
			return fmt.Errorf("cast %s by %s: %w", card.Name, side, err)
		}
	}
	cost := card.EnergyCost
	if !m.energy.Spend(side, cost) {
		return fmt.Errorf("play %s by %s: needs %d energy: %w", card.Name, side, cost, model.ErrInvalidAction)
	}
	m.decks.Hand(side).Remove(card.ID)

	if err := place(card); err != nil {
		m.decks.ReturnToHand(side, card)
		m.energy.AddEnergy(side, cost)
		slog.Debug("play failed, card returned", "side", side, "card", card.Name, "err", err)
		return err
	}
	slog.Info("card played", "side", side, "card", card.Name, "kind", card.Kind, "cost", cost)
	return nil
}

// RequestTargetSelection picks the target of side's pending targeted spell.
func (m *Match) RequestTargetSelection(side model.Side, target Target) error {
	caster, ok := m.selector.Caster()
	if !ok {
		return fmt.Errorf("select target by %s: no selection: %w", side, model.ErrInvalidAction)
	}
	if caster != side {
		return fmt.Errorf("select target by %s: selection belongs to %s: %w", side, caster, model.ErrInvalidAction)
	}
	if target.Hero {
		return m.selector.SelectHero(target.Side)
	}
	slot, ok := m.board.FindCard(target.CardID)
	if !ok {
		return fmt.Errorf("select target by %s: card %s not on board: %w", side, target.CardID, model.ErrMissingReference)
	}
	return m.selector.SelectCard(slot.Card())
}

// CancelTargetSelection abandons side's pending targeted spell. The card is
// discarded and its energy is not refunded.
func (m *Match) CancelTargetSelection(side model.Side) error {
	caster, ok := m.selector.Caster()
	if !ok || caster != side {
		return fmt.Errorf("cancel selection by %s: none pending: %w", side, model.ErrInvalidAction)
	}
	if m.selector.AwaitingRoll() {
		return fmt.Errorf("cancel selection by %s: roll pending: %w", side, model.ErrReentrancy)
	}
	m.selector.Cancel()
	return nil
}

// RequestTranscendentAttack attacks the enemy hero with side's transcendent
// card cardID.
func (m *Match) RequestTranscendentAttack(side model.Side, cardID uuid.UUID) error {
	if err := m.canAct("transcendent attack", side); err != nil {
		return err
	}
	slot, ok := m.board.Zone(side).FindCard(cardID)
	if !ok {
		return fmt.Errorf("transcendent attack by %s: card %s not on board: %w", side, cardID, model.ErrMissingReference)
	}
	return m.combat.RequestTranscendentAttack(side, slot.Card())
}

// UseEquipment spends one durability point of side's equipment cardID.
// Equipment that breaks is destroyed. Reports whether it broke.
func (m *Match) UseEquipment(side model.Side, cardID uuid.UUID) (bool, error) {
	if err := m.canAct("use equipment", side); err != nil {
		return false, err
	}
	slot, ok := m.board.Zone(side).FindCard(cardID)
	if !ok {
		return false, fmt.Errorf("use equipment %s by %s: not on board: %w", cardID, side, model.ErrMissingReference)
	}
	card := slot.Card()
	if !card.IsEquipment() {
		return false, fmt.Errorf("use %s by %s: not equipment: %w", card.Name, side, model.ErrInvalidAction)
	}
	broke := card.UseEquipment()
	slog.Debug("equipment used", "side", side, "card", card.Name, "durability", card.Durability, "broke", broke)
	if broke {
		m.board.Destroy(card, board.ReasonBroken)
	}
	return broke, nil
}

// EndPhase ends side's turn and starts the opponent's.
func (m *Match) EndPhase(side model.Side) error {
	if err := m.busy("end phase", side); err != nil {
		return err
	}
	if m.turn.Current() != side {
		return fmt.Errorf("end phase by %s: not their turn: %w", side, model.ErrInvalidAction)
	}
	return m.turn.EndPhase()
}
