// Package match is the composition root of one duel: it wires every engine
// component around a shared bus and dice source and exposes the input
// operations presentation and the scripted opponent call.
package match

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/game/attribute"
	"github.com/udisondev/duelcore/internal/game/board"
	"github.com/udisondev/duelcore/internal/game/combat"
	"github.com/udisondev/duelcore/internal/game/deck"
	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/game/energy"
	"github.com/udisondev/duelcore/internal/game/evolution"
	"github.com/udisondev/duelcore/internal/game/life"
	"github.com/udisondev/duelcore/internal/game/spell"
	"github.com/udisondev/duelcore/internal/game/status"
	"github.com/udisondev/duelcore/internal/game/turn"
	"github.com/udisondev/duelcore/internal/model"
)

// Setup describes one match before it starts.
type Setup struct {
	Balance config.Balance
	Source  dice.Source
	Decks   [2][]deck.Entry
	// Bus receives every notification. A fresh bus is created when nil.
	Bus *event.Bus
	// Deferred makes rolls wait for Complete instead of resolving inline.
	Deferred bool
}

// Match owns every component of one duel.
type Match struct {
	id  uuid.UUID
	cfg config.Balance
	bus *event.Bus
	src dice.Source

	roller    *dice.Roller
	energy    *energy.Pool
	attrs     *attribute.Engine
	life      *life.Pool
	board     *board.Board
	decks     *deck.Manager
	book      *status.Book
	timers    *status.Timers
	heroes    [2]*status.HeroHandler
	cards     *status.CardHandler
	turn      *turn.Controller
	combat    *combat.Controller
	evolution *evolution.Engine
	selector  *spell.Selector
	spells    *spell.Dispatcher

	lastDraw [2]deck.DrawResult
	started  bool
}

// New wires a match from setup.
//
// Turn-start subscribers are registered in a fixed order: skip-draw
// counters, combat attack flags, status ticks (poison first), then timers.
func New(setup Setup) (*Match, error) {
	if setup.Source == nil {
		return nil, fmt.Errorf("new match: no dice source: %w", model.ErrMissingReference)
	}
	bus := setup.Bus
	if bus == nil {
		bus = event.NewBus()
	}
	cfg := setup.Balance

	m := &Match{
		id:  uuid.New(),
		cfg: cfg,
		bus: bus,
		src: setup.Source,
	}

	m.energy = energy.NewPool(cfg.Energy, bus)
	m.life = life.NewPool(cfg.Life.DefaultStartingHP, bus)
	m.attrs = attribute.NewEngine(cfg.Attributes, m.src)
	m.attrs.SetAppliedFunc(func(side model.Side, block model.AttributeBlock) {
		m.life.ApplyStartingHP(side, block.MaxLife)
	})
	m.board = board.NewBoard(cfg.Board.SlotsPerZone)

	m.decks = deck.NewManager(cfg.Deck, m.src, m.energy, bus)
	bus.OnTurnStarted(func(e event.TurnStarted) { m.combat.OnTurnStarted(e.Side) })
	m.book = status.NewBook(bus)
	m.timers = status.NewTimers(m.board, m.life, bus)
	m.timers.SetReturnToHand(m.decks.ReturnToHand)
	for _, side := range model.Sides {
		m.heroes[side] = status.NewHeroHandler(side, m.book, m.life)
	}
	m.cards = status.NewCardHandler(m.book, m.board, m.timers)

	m.turn = turn.NewController(cfg.Turn, m.energy, m.attrs, m.life, bus)
	m.roller = dice.NewRoller(m.src, m.energy)
	m.roller.SetDeferred(setup.Deferred)
	heroes := [2]combat.HeroStatus{m.heroes[model.SidePlayer], m.heroes[model.SideEnemy]}
	m.combat = combat.NewController(cfg.Combat, m.turn, m.roller, m.attrs, m.life, heroes, m.cards, m.board, nil)
	m.evolution = evolution.NewEngine(m.board, m.attrs, m.src, bus)

	m.selector = spell.NewSelector(m.roller, m.attrs, m.board)
	m.spells = spell.NewDispatcher(&spell.Services{
		Life:      m.life,
		Energy:    m.energy,
		Attrs:     m.attrs,
		Board:     m.board,
		Statuses:  m.book,
		Timers:    m.timers,
		Decks:     m.decks,
		Evolution: m.evolution,
		Source:    m.src,
		Selector:  m.selector,
		Auras:     status.NewAuraGuard(m.book),
	})
	m.board.SetSpellFunc(m.spells.CastSpell)
	m.board.OnDestroyed(m.onCardDestroyed)

	for _, side := range model.Sides {
		d := m.decks.Deck(side)
		d.Build(setup.Decks[side])
		d.Shuffle()
	}
	return m, nil
}

// Start deals opening hands and hands the first turn to the configured side.
func (m *Match) Start() error {
	if m.started {
		return fmt.Errorf("start match %s: already started: %w", m.id, model.ErrInvalidAction)
	}
	first, err := model.ParseSide(m.cfg.Turn.FirstSide)
	if err != nil {
		return fmt.Errorf("start match %s: %w", m.id, err)
	}
	m.started = true
	m.decks.DealInitialHands()
	slog.Info("match starting",
		"match", m.id,
		"first", first,
		"player_deck", m.decks.Deck(model.SidePlayer).DrawCount(),
		"enemy_deck", m.decks.Deck(model.SideEnemy).DrawCount())
	m.turn.Start(first)
	return nil
}

// onCardDestroyed cleans up after a card leaves play for good. Tokens and
// merged partners vanish; every other card is reset and discarded.
func (m *Match) onCardDestroyed(card *model.Card, reason string) {
	m.book.Forget(card)
	m.timers.Forget(card)
	m.bus.Publish(event.CardDestroyed{Card: card, Reason: reason})
	if card.Token || reason == board.ReasonMerged {
		return
	}
	card.ResetToTemplate()
	m.decks.Discard(card)
}

// ID returns the match identifier.
func (m *Match) ID() uuid.UUID { return m.id }

// Bus returns the notification bus.
func (m *Match) Bus() *event.Bus { return m.bus }

// Roller returns the dice roller (Complete it in deferred mode).
func (m *Match) Roller() *dice.Roller { return m.roller }

// Turn returns the turn controller.
func (m *Match) Turn() *turn.Controller { return m.turn }

// Board returns the board.
func (m *Match) Board() *board.Board { return m.board }

// Life returns the hero life pool.
func (m *Match) Life() *life.Pool { return m.life }

// Energy returns the energy pool.
func (m *Match) Energy() *energy.Pool { return m.energy }

// Attributes returns the attribute engine.
func (m *Match) Attributes() *attribute.Engine { return m.attrs }

// Decks returns the deck manager.
func (m *Match) Decks() *deck.Manager { return m.decks }

// Statuses returns the status book.
func (m *Match) Statuses() *status.Book { return m.book }

// Timers returns the timed effects.
func (m *Match) Timers() *status.Timers { return m.timers }

// Combat returns the combat controller.
func (m *Match) Combat() *combat.Controller { return m.combat }

// Evolution returns the evolution engine.
func (m *Match) Evolution() *evolution.Engine { return m.evolution }

// Selector returns the spell target selector.
func (m *Match) Selector() *spell.Selector { return m.selector }

// Spells returns the spell dispatcher.
func (m *Match) Spells() *spell.Dispatcher { return m.spells }
