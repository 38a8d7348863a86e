package ai

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/match"
	"github.com/udisondev/duelcore/internal/model"
)

// ScriptedPolicy is the fixed-priority opponent.
//
// Turn order:
//  1. Roll attributes when the turn waits for them
//  2. Draw rolls while under the per-turn cap and energy allows
//  3. Play affordable cards, targeting the enemy hero with targeted spells
//  4. Hero attack
//  5. Attack with every transcendent card
//  6. End the phase
type ScriptedPolicy struct {
	side         model.Side
	maxDrawRolls int
}

// NewScriptedPolicy creates a policy for side that makes at most
// maxDrawRolls draw rolls per turn.
func NewScriptedPolicy(side model.Side, maxDrawRolls int) *ScriptedPolicy {
	return &ScriptedPolicy{side: side, maxDrawRolls: max(0, maxDrawRolls)}
}

// Side returns the seat the policy plays.
func (p *ScriptedPolicy) Side() model.Side { return p.side }

// TakeTurn plays one full turn for the policy's side.
func (p *ScriptedPolicy) TakeTurn(g Game) error {
	v := g.View(p.side)
	if v.GameOver || v.Current != p.side {
		return nil
	}

	if v.WaitingForAttributes {
		if err := p.try(g.RequestRoll(p.side, dice.PurposeAttribute), "attribute roll"); err != nil {
			return err
		}
	}

	steps := []func(Game) error{p.drawCards, p.playCards, p.attack, p.transcendentAttacks}
	for _, step := range steps {
		if g.View(p.side).GameOver {
			return nil
		}
		if err := step(g); err != nil {
			return err
		}
	}

	if g.View(p.side).GameOver {
		return nil
	}
	return p.try(g.EndPhase(p.side), "end phase")
}

func (p *ScriptedPolicy) drawCards(g Game) error {
	for range p.maxDrawRolls {
		v := g.View(p.side)
		if !v.CanAct || v.Stunned || v.SkipDraws > 0 || v.DrawRolls >= p.maxDrawRolls || v.Energy < v.NextRollCost {
			return nil
		}
		if err := p.try(g.RequestRoll(p.side, dice.PurposeDraw), "draw roll"); err != nil {
			return err
		}
	}
	return nil
}

// playCards plays the first affordable card until a full pass plays none.
func (p *ScriptedPolicy) playCards(g Game) error {
	for played := true; played; {
		played = false
		v := g.View(p.side)
		for _, card := range v.Hand {
			if !p.playable(v, card) {
				continue
			}
			slot := v.FreeSlot
			if card.IsSpell() {
				slot = 0
			}
			if err := g.PlayCard(p.side, card.ID, slot); err != nil {
				if ferr := p.try(err, "play "+card.Name); ferr != nil {
					return ferr
				}
				continue
			}
			if err := p.resolveSelection(g); err != nil {
				return err
			}
			played = true
			break
		}
	}
	return nil
}

func (p *ScriptedPolicy) playable(v match.View, card *model.Card) bool {
	if v.GameOver || !v.CanAct || v.Stunned || card.EnergyCost > v.Energy {
		return false
	}
	if card.IsSpell() {
		return !v.Silenced
	}
	return v.FreeSlot >= 0
}

// resolveSelection aims a pending targeted spell at the enemy hero.
func (p *ScriptedPolicy) resolveSelection(g Game) error {
	if !g.View(p.side).SelectionPending {
		return nil
	}
	target := match.Target{Hero: true, Side: p.side.Opponent()}
	if err := g.RequestTargetSelection(p.side, target); err != nil {
		slog.Debug("target selection failed, cancelling", "side", p.side, "err", err)
		return p.try(g.CancelTargetSelection(p.side), "cancel selection")
	}
	return nil
}

func (p *ScriptedPolicy) attack(g Game) error {
	if g.View(p.side).Stunned {
		return nil
	}
	return p.try(g.RequestAttack(p.side), "attack")
}

func (p *ScriptedPolicy) transcendentAttacks(g Game) error {
	v := g.View(p.side)
	if v.Stunned {
		return nil
	}
	for _, card := range v.Board {
		if card.IsEquipment() || !card.IsTranscendent() {
			continue
		}
		if g.View(p.side).GameOver {
			return nil
		}
		if err := p.try(g.RequestTranscendentAttack(p.side, card.ID), "transcendent attack"); err != nil {
			return err
		}
	}
	return nil
}

// try swallows ordinary rejections and returns everything else.
func (p *ScriptedPolicy) try(err error, action string) error {
	if err == nil {
		if IsDebugEnabled() {
			slog.Debug("ai action", "side", p.side, "action", action)
		}
		return nil
	}
	if errors.Is(err, model.ErrInvalidAction) || errors.Is(err, model.ErrMissingReference) {
		if IsDebugEnabled() {
			slog.Debug("ai action rejected", "side", p.side, "action", action, "err", err)
		}
		return nil
	}
	return fmt.Errorf("%s %s: %w", p.side, action, err)
}
