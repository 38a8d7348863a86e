package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/model"
	"github.com/udisondev/duelcore/internal/testutil"
)

type energySpy struct {
	added map[model.Side]int
}

func (e *energySpy) AddEnergy(side model.Side, amount int) {
	if e.added == nil {
		e.added = make(map[model.Side]int)
	}
	e.added[side] += amount
}

func templates() []Entry {
	return []Entry{
		{Template: &model.CardTemplate{Name: "Goblin", Kind: model.KindMonster, Attack: 1, Defense: 1}, Copies: 3},
		{Template: &model.CardTemplate{Name: "Cure Wounds", Kind: model.KindSpell, Spell: "CureWounds"}},
		{Template: nil, Copies: 4},
	}
}

func TestDeck_BuildAndDraw(t *testing.T) {
	d := NewDeck(model.SideEnemy, testutil.NewScriptedSource())
	d.Build(templates())
	require.Equal(t, 4, d.DrawCount(), "copies < 1 count as one, nil templates skipped")

	first := d.Draw()
	require.NotNil(t, first)
	assert.Equal(t, model.SideEnemy, first.Owner)
	assert.Equal(t, 3, d.DrawCount())
}

func TestDeck_ShuffleIsPermutation(t *testing.T) {
	d := NewDeck(model.SidePlayer, testutil.NewScriptedSource(0, 0, 0))
	d.Build(templates())
	before := make(map[string]int)
	for _, c := range d.draw {
		before[c.ID.String()]++
	}

	d.Shuffle()

	assert.Len(t, d.draw, 4)
	for _, c := range d.draw {
		assert.Equal(t, 1, before[c.ID.String()])
	}
	assert.Equal(t, "Cure Wounds", d.draw[2].Name, "j=0 at every step")
}

func TestDeck_DrawRecyclesDiscard(t *testing.T) {
	d := NewDeck(model.SidePlayer, testutil.NewScriptedSource())
	d.Build(templates()[:1])
	var drawn []*model.Card
	for range 3 {
		drawn = append(drawn, d.Draw())
	}
	assert.Nil(t, d.Draw())

	d.Discard(drawn[0])
	d.Discard(drawn[1])
	assert.Equal(t, 2, d.DiscardCount())

	c := d.Draw()
	require.NotNil(t, c)
	assert.Zero(t, d.DiscardCount())
	assert.Equal(t, 1, d.DrawCount())
}

func TestDeck_TakeFromDiscardIsLast(t *testing.T) {
	d := NewDeck(model.SidePlayer, testutil.NewScriptedSource())
	d.Build(templates()[:1])
	a, b := d.Draw(), d.Draw()
	d.Discard(a)
	d.Discard(b)

	assert.Equal(t, b, d.TakeFromDiscard())
	assert.Equal(t, a, d.TakeFromDiscard())
	assert.Nil(t, d.TakeFromDiscard())
}

func TestDeck_TakeLastFromDiscardSkipsRejected(t *testing.T) {
	d := NewDeck(model.SidePlayer, testutil.NewScriptedSource())
	goblin := model.NewCard(templates()[0].Template, model.SidePlayer)
	spell := model.NewCard(templates()[1].Template, model.SidePlayer)
	d.Discard(goblin)
	d.Discard(spell)

	notSpell := func(c *model.Card) bool { return !c.IsSpell() }
	assert.Equal(t, goblin, d.TakeLastFromDiscard(notSpell))
	assert.Nil(t, d.TakeLastFromDiscard(notSpell))
	assert.Equal(t, []*model.Card{spell}, d.DiscardPile())
}

func TestHand(t *testing.T) {
	h := &Hand{}
	a := model.NewCard(&model.CardTemplate{Name: "A"}, model.SidePlayer)
	b := model.NewCard(&model.CardTemplate{Name: "B"}, model.SidePlayer)
	h.Add(a)
	h.Add(b)
	h.Add(nil)

	got, ok := h.Find(b.ID)
	require.True(t, ok)
	assert.Equal(t, b, got)

	removed, ok := h.Remove(a.ID)
	require.True(t, ok)
	assert.Equal(t, a, removed)
	_, ok = h.Remove(a.ID)
	assert.False(t, ok)
	assert.Equal(t, []*model.Card{b}, h.Cards())
}

func TestManager_ReceiveRollTiers(t *testing.T) {
	tests := []struct {
		name        string
		roll        int
		drawn       int
		energy      int
		fumble      bool
		skipPending int
	}{
		{name: "fumble", roll: 1, fumble: true, skipPending: 2},
		{name: "low", roll: 11},
		{name: "threshold", roll: 12, drawn: 1},
		{name: "high", roll: 19, drawn: 1},
		{name: "critical", roll: 20, drawn: 2, energy: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &energySpy{}
			m := NewManager(config.DefaultBalance().Deck, testutil.NewScriptedSource(), spy, nil)
			m.Deck(model.SidePlayer).Build(templates())

			res := m.ReceiveRoll(model.SidePlayer, tt.roll)

			assert.Len(t, res.Drawn, tt.drawn)
			assert.Equal(t, tt.drawn, m.Hand(model.SidePlayer).Len())
			assert.Equal(t, tt.energy, res.EnergyGained)
			assert.Equal(t, tt.energy, spy.added[model.SidePlayer])
			assert.Equal(t, tt.fumble, res.Fumble)
			assert.Equal(t, tt.skipPending, m.SkipTurns(model.SidePlayer))
			assert.Equal(t, 1, m.DrawRollsThisTurn(model.SidePlayer))
		})
	}
}

func TestManager_FumbleSkipsUntilCounterRunsOut(t *testing.T) {
	bus := event.NewBus()
	m := NewManager(config.DefaultBalance().Deck, testutil.NewScriptedSource(), nil, bus)
	m.Deck(model.SideEnemy).Build(templates())

	m.ReceiveRoll(model.SideEnemy, 1)
	res := m.ReceiveRoll(model.SideEnemy, 20)
	assert.True(t, res.Skipped)
	assert.Empty(t, res.Drawn)

	bus.Publish(event.TurnStarted{Side: model.SidePlayer})
	assert.Equal(t, 2, m.SkipTurns(model.SideEnemy))

	bus.Publish(event.TurnStarted{Side: model.SideEnemy})
	assert.Zero(t, m.DrawRollsThisTurn(model.SideEnemy))
	assert.True(t, m.ReceiveRoll(model.SideEnemy, 15).Skipped)

	bus.Publish(event.TurnStarted{Side: model.SideEnemy})
	assert.Len(t, m.ReceiveRoll(model.SideEnemy, 15).Drawn, 1)
}

func TestManager_DealInitialHands(t *testing.T) {
	m := NewManager(config.DefaultBalance().Deck, testutil.NewScriptedSource(), nil, nil)
	m.Deck(model.SidePlayer).Build(templates())
	m.Deck(model.SideEnemy).Build(templates()[:1])

	m.DealInitialHands()

	assert.Equal(t, 3, m.Hand(model.SidePlayer).Len())
	assert.Equal(t, 3, m.Hand(model.SideEnemy).Len())
	assert.Equal(t, 1, m.Deck(model.SidePlayer).DrawCount())
}

func TestManager_ReturnToHandAndDiscard(t *testing.T) {
	m := NewManager(config.DefaultBalance().Deck, testutil.NewScriptedSource(), nil, nil)
	c := model.NewCard(&model.CardTemplate{Name: "Knight"}, model.SidePlayer)
	c.Placed = true
	c.SlotIndex = 2

	require.True(t, m.ReturnToHand(model.SideEnemy, c))
	assert.Equal(t, model.SideEnemy, c.Owner)
	assert.False(t, c.Placed)

	m.Discard(c)
	assert.Equal(t, 1, m.Deck(model.SideEnemy).DiscardCount())
}
