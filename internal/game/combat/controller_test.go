package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/game/board"
	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/game/life"
	"github.com/udisondev/duelcore/internal/game/status"
	"github.com/udisondev/duelcore/internal/model"
	"github.com/udisondev/duelcore/internal/testutil"
)

type fakeTurn struct {
	current  model.Side
	gameOver bool
}

func (f *fakeTurn) CanAct(side model.Side) bool { return !f.gameOver && side == f.current }
func (f *fakeTurn) IsGameOver() bool            { return f.gameOver }

type fakeMods map[model.Side]map[model.Ability]int

func (f fakeMods) Modifier(side model.Side, a model.Ability) int { return f[side][a] }

type harness struct {
	ctrl    *Controller
	turn    *fakeTurn
	src     *testutil.ScriptedSource
	life    *life.Pool
	book    *status.Book
	board   *board.Board
	bus     *event.Bus
	results []AttackResult
}

func newHarness(t *testing.T, mods fakeMods) *harness {
	t.Helper()
	h := &harness{
		turn:  &fakeTurn{current: model.SidePlayer},
		src:   testutil.NewScriptedSource(),
		life:  life.NewPool(20, nil),
		bus:   event.NewBus(),
		board: board.NewBoard(5),
	}
	h.book = status.NewBook(h.bus)
	heroes := [2]HeroStatus{
		status.NewHeroHandler(model.SidePlayer, h.book, h.life),
		status.NewHeroHandler(model.SideEnemy, h.book, h.life),
	}
	cards := status.NewCardHandler(h.book, h.board, nil)
	roller := dice.NewRoller(h.src, nil)
	h.ctrl = NewController(config.DefaultBalance().Combat, h.turn, roller, mods, h.life, heroes, cards, h.board, h.bus)
	h.ctrl.SetHitObserver(func(r AttackResult) { h.results = append(h.results, r) })
	return h
}

func TestRequestAttack_CriticalDealsMultipliedDamage(t *testing.T) {
	h := newHarness(t, fakeMods{model.SideEnemy: {model.AbilityDEX: 15}})
	h.src.PushRolls(20)

	require.NoError(t, h.ctrl.RequestAttack(model.SidePlayer))

	require.Len(t, h.results, 1)
	assert.True(t, h.results[0].Hit, "a natural 20 ignores defender dexterity")
	assert.True(t, h.results[0].Critical)
	assert.Equal(t, 8, h.results[0].Damage)
	assert.Equal(t, 12, h.life.Current(model.SideEnemy))
}

func TestRequestAttack_FumbleCounters(t *testing.T) {
	h := newHarness(t, fakeMods{model.SideEnemy: {model.AbilitySTR: 2}})
	h.src.PushRolls(1)

	require.NoError(t, h.ctrl.RequestAttack(model.SidePlayer))

	res := h.results[0]
	assert.False(t, res.Hit)
	assert.True(t, res.Countered)
	assert.Equal(t, 6, res.CounterDamage)
	assert.Equal(t, config.DefaultBalance().Combat.CounterAttackDelay, res.CounterDelay)
	assert.Equal(t, 14, h.life.Current(model.SidePlayer))
	assert.Equal(t, 20, h.life.Current(model.SideEnemy))
}

func TestRequestAttack_HitCheck(t *testing.T) {
	tests := []struct {
		name string
		roll int
		mods fakeMods
		hit  bool
	}{
		{name: "meets defense", roll: 10, hit: true},
		{name: "below defense", roll: 9, hit: false},
		{name: "strength helps", roll: 8, mods: fakeMods{model.SidePlayer: {model.AbilitySTR: 2}}, hit: true},
		{name: "dexterity hinders", roll: 11, mods: fakeMods{model.SideEnemy: {model.AbilityDEX: 2}}, hit: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.mods)
			h.src.PushRolls(tt.roll)

			require.NoError(t, h.ctrl.RequestAttack(model.SidePlayer))

			assert.Equal(t, tt.hit, h.results[0].Hit)
			if tt.hit {
				assert.Less(t, h.life.Current(model.SideEnemy), 20)
			} else {
				assert.Equal(t, 20, h.life.Current(model.SideEnemy))
			}
		})
	}
}

func TestComputeDamage_Floor(t *testing.T) {
	h := newHarness(t, fakeMods{model.SidePlayer: {model.AbilitySTR: -9}})
	assert.Equal(t, 1, h.ctrl.ComputeDamage(model.SidePlayer))
	assert.Equal(t, 4, h.ctrl.ComputeDamage(model.SideEnemy))
}

func TestRequestAttack_Rejections(t *testing.T) {
	t.Run("not its turn", func(t *testing.T) {
		h := newHarness(t, fakeMods{})
		assert.ErrorIs(t, h.ctrl.RequestAttack(model.SideEnemy), model.ErrInvalidAction)
	})
	t.Run("silenced", func(t *testing.T) {
		h := newHarness(t, fakeMods{})
		h.book.Hero(model.SidePlayer).Apply(model.StatusSilenced, 1, "test")
		assert.ErrorIs(t, h.ctrl.RequestAttack(model.SidePlayer), model.ErrInvalidAction)
	})
	t.Run("stunned", func(t *testing.T) {
		h := newHarness(t, fakeMods{})
		h.book.Hero(model.SidePlayer).Apply(model.StatusStunned, 1, "test")
		assert.ErrorIs(t, h.ctrl.RequestAttack(model.SidePlayer), model.ErrInvalidAction)
	})
	t.Run("once per turn", func(t *testing.T) {
		h := newHarness(t, fakeMods{})
		h.src.PushRolls(5, 5)
		require.NoError(t, h.ctrl.RequestAttack(model.SidePlayer))
		assert.ErrorIs(t, h.ctrl.RequestAttack(model.SidePlayer), model.ErrInvalidAction)

		h.bus.Publish(event.TurnStarted{Side: model.SidePlayer})
		assert.NoError(t, h.ctrl.RequestAttack(model.SidePlayer))
	})
	t.Run("pending roll", func(t *testing.T) {
		h := newHarness(t, fakeMods{})
		h.ctrl.roller.SetDeferred(true)
		require.NoError(t, h.ctrl.RequestAttack(model.SidePlayer))
		assert.ErrorIs(t, h.ctrl.RequestAttack(model.SidePlayer), model.ErrReentrancy)

		_, err := h.ctrl.roller.Complete()
		require.NoError(t, err)
		assert.Len(t, h.results, 1)
	})
}

func TestRequestAttack_DiscardedWhenGameEnds(t *testing.T) {
	h := newHarness(t, fakeMods{})
	h.ctrl.roller.SetDeferred(true)
	h.src.PushRolls(20)
	require.NoError(t, h.ctrl.RequestAttack(model.SidePlayer))

	h.turn.gameOver = true
	_, err := h.ctrl.roller.Complete()
	require.NoError(t, err)

	assert.Empty(t, h.results)
	assert.Equal(t, 20, h.life.Current(model.SideEnemy))
}

func transcendentCard(t *testing.T, h *harness, side model.Side) *model.Card {
	t.Helper()
	c := model.NewCard(&model.CardTemplate{Name: "Lich", Kind: model.KindMonster, Attack: 6, Defense: 6}, side)
	c.TranscendentApplied = true
	slot, _ := h.board.Zone(side).Slot(0)
	require.NoError(t, slot.TryPlace(c))
	return c
}

func TestRequestTranscendentAttack(t *testing.T) {
	tests := []struct {
		name string
		roll int
		mods fakeMods
		hit  bool
	}{
		{name: "natural 20", roll: 20, mods: fakeMods{model.SideEnemy: {model.AbilityDEX: 15}}, hit: true},
		{name: "natural 1", roll: 1, mods: fakeMods{model.SidePlayer: {model.AbilitySTR: 15}}, hit: false},
		{name: "check passes", roll: 10, hit: true},
		{name: "check fails", roll: 9, hit: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.mods)
			card := transcendentCard(t, h, model.SidePlayer)
			var got []TranscendentResult
			h.ctrl.SetTranscendentObserver(func(r TranscendentResult) { got = append(got, r) })
			h.src.PushRolls(tt.roll)

			require.NoError(t, h.ctrl.RequestTranscendentAttack(model.SidePlayer, card))

			require.Len(t, got, 1)
			assert.Equal(t, tt.hit, got[0].Hit)
			if tt.hit {
				assert.Equal(t, 14, h.life.Current(model.SideEnemy))
			}
			assert.True(t, h.ctrl.CardHasAttacked(card))
		})
	}
}

func TestRequestTranscendentAttack_Rejections(t *testing.T) {
	h := newHarness(t, fakeMods{})
	card := transcendentCard(t, h, model.SidePlayer)

	plain := model.NewCard(&model.CardTemplate{Name: "Goblin", Kind: model.KindMonster, Attack: 1, Defense: 1}, model.SidePlayer)
	slot, _ := h.board.Zone(model.SidePlayer).Slot(1)
	require.NoError(t, slot.TryPlace(plain))
	assert.ErrorIs(t, h.ctrl.RequestTranscendentAttack(model.SidePlayer, plain), model.ErrInvalidAction)

	enemyCard := transcendentCard(t, h, model.SideEnemy)
	assert.ErrorIs(t, h.ctrl.RequestTranscendentAttack(model.SidePlayer, enemyCard), model.ErrInvalidAction)

	h.book.Card(card).Apply(model.StatusStunned, 1, "smite")
	assert.ErrorIs(t, h.ctrl.RequestTranscendentAttack(model.SidePlayer, card), model.ErrInvalidAction)
	h.book.Card(card).Remove(model.StatusStunned)

	h.book.Hero(model.SidePlayer).Apply(model.StatusStunned, 1, "smite")
	assert.ErrorIs(t, h.ctrl.RequestTranscendentAttack(model.SidePlayer, card), model.ErrInvalidAction)
	h.book.Hero(model.SidePlayer).Remove(model.StatusStunned)

	h.src.PushRolls(5, 5)
	require.NoError(t, h.ctrl.RequestTranscendentAttack(model.SidePlayer, card))
	assert.ErrorIs(t, h.ctrl.RequestTranscendentAttack(model.SidePlayer, card), model.ErrInvalidAction)

	h.bus.Publish(event.TurnStarted{Side: model.SidePlayer})
	assert.False(t, h.ctrl.CardHasAttacked(card))
}
