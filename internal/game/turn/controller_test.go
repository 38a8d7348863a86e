package turn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/event"
	"github.com/udisondev/duelcore/internal/game/energy"
	"github.com/udisondev/duelcore/internal/game/life"
	"github.com/udisondev/duelcore/internal/model"
)

type pendingRolls map[model.Side]bool

func (p pendingRolls) NeedsInitialRoll(side model.Side) bool { return p[side] }

type fixture struct {
	ctrl   *Controller
	energy *energy.Pool
	life   *life.Pool
	bus    *event.Bus
	rolls  pendingRolls
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bal := config.DefaultBalance()
	bus := event.NewBus()
	f := &fixture{
		energy: energy.NewPool(bal.Energy, bus),
		life:   life.NewPool(bal.Life.DefaultStartingHP, bus),
		bus:    bus,
		rolls:  pendingRolls{},
	}
	f.ctrl = NewController(bal.Turn, f.energy, f.rolls, f.life, bus)
	return f
}

func TestController_StartGrantsEnergyAndPublishes(t *testing.T) {
	f := newFixture(t)
	var started []model.Side
	f.bus.OnTurnStarted(func(e event.TurnStarted) { started = append(started, e.Side) })

	assert.Equal(t, "Idle", f.ctrl.Phase())
	f.ctrl.Start(model.SidePlayer)

	assert.Equal(t, StateActive, f.ctrl.State())
	assert.Equal(t, "ActivePlayerTurn", f.ctrl.Phase())
	assert.Equal(t, 6, f.energy.Current(model.SidePlayer))
	assert.Equal(t, 5, f.energy.Current(model.SideEnemy))
	assert.Equal(t, []model.Side{model.SidePlayer}, started)
	assert.True(t, f.ctrl.CanAct(model.SidePlayer))
	assert.False(t, f.ctrl.CanAct(model.SideEnemy))
}

func TestController_EndPhaseAlternates(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Start(model.SidePlayer)
	require.True(t, f.energy.ConsumeForRoll(model.SidePlayer))
	require.Equal(t, 1, f.energy.ConsecutiveRolls(model.SidePlayer))

	require.NoError(t, f.ctrl.EndPhase())

	assert.Equal(t, model.SideEnemy, f.ctrl.Current())
	assert.Equal(t, "ActiveEnemyTurn", f.ctrl.Phase())
	assert.Zero(t, f.energy.ConsecutiveRolls(model.SidePlayer), "roll cost resets at end of turn")
	assert.Equal(t, 6, f.energy.Current(model.SideEnemy))
	assert.Equal(t, 2, f.ctrl.Turn())

	require.NoError(t, f.ctrl.EndPhase())
	assert.Equal(t, model.SidePlayer, f.ctrl.Current())
}

func TestController_WaitsForAttributeRoll(t *testing.T) {
	f := newFixture(t)
	f.rolls[model.SidePlayer] = true
	f.ctrl.Start(model.SidePlayer)

	assert.True(t, f.ctrl.IsWaitingForAttributeRoll(model.SidePlayer))
	assert.Equal(t, "WaitingForAttributeRoll", f.ctrl.Phase())
	assert.False(t, f.ctrl.CanAct(model.SidePlayer))

	var fired []event.Kind
	record := func(e event.Event) { fired = append(fired, e.Kind()) }
	for _, k := range []event.Kind{event.KindTurnStarted, event.KindEnergyChanged, event.KindGameOver} {
		unsubscribe := f.bus.Subscribe(k, record)
		defer unsubscribe()
	}
	turnBefore, energyBefore := f.ctrl.Turn(), f.energy.Current(model.SideEnemy)

	assert.ErrorIs(t, f.ctrl.EndPhase(), model.ErrInvalidAction)
	assert.Equal(t, model.SidePlayer, f.ctrl.Current(), "state unchanged on rejection")
	assert.Equal(t, "WaitingForAttributeRoll", f.ctrl.Phase())
	assert.Equal(t, turnBefore, f.ctrl.Turn())
	assert.Equal(t, energyBefore, f.energy.Current(model.SideEnemy))
	assert.Empty(t, fired, "a rejected end phase publishes nothing")

	f.ctrl.NotifyAttributeRollComplete(model.SideEnemy)
	assert.True(t, f.ctrl.IsWaitingForAttributeRoll(model.SidePlayer), "other side ignored")

	f.rolls[model.SidePlayer] = false
	f.ctrl.NotifyAttributeRollComplete(model.SidePlayer)
	assert.True(t, f.ctrl.CanAct(model.SidePlayer))
	require.NoError(t, f.ctrl.EndPhase())
}

func TestController_GameOverOnDeath(t *testing.T) {
	f := newFixture(t)
	var overs []event.GameOver
	f.bus.Subscribe(event.KindGameOver, func(e event.Event) { overs = append(overs, e.(event.GameOver)) })
	f.ctrl.Start(model.SidePlayer)

	f.life.TakeDamage(model.SideEnemy, 50)

	assert.True(t, f.ctrl.IsGameOver())
	loser, ok := f.ctrl.Loser()
	assert.True(t, ok)
	assert.Equal(t, model.SideEnemy, loser)
	assert.Equal(t, []event.GameOver{{Loser: model.SideEnemy}}, overs)
	assert.False(t, f.ctrl.CanAct(model.SidePlayer))
	assert.ErrorIs(t, f.ctrl.EndPhase(), model.ErrInvalidAction)

	f.life.TakeDamage(model.SidePlayer, 50)
	assert.Len(t, overs, 1, "game over is published once")
}

func TestController_DeathDuringTurnStartTicks(t *testing.T) {
	f := newFixture(t)
	f.rolls[model.SideEnemy] = true
	f.bus.OnTurnStarted(func(e event.TurnStarted) {
		if e.Side == model.SideEnemy {
			f.life.TakeDamage(model.SideEnemy, 100)
		}
	})
	f.ctrl.Start(model.SidePlayer)

	require.NoError(t, f.ctrl.EndPhase())

	assert.Equal(t, StateGameOver, f.ctrl.State())
	assert.False(t, f.ctrl.IsWaitingForAttributeRoll(model.SideEnemy))
}

func TestController_EndPhaseBeforeStart(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ctrl.EndPhase(), model.ErrInvalidAction)
	assert.Equal(t, StateIdle, f.ctrl.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "game_over", StateGameOver.String())
	assert.Equal(t, "waiting_for_attribute_roll", StateWaitingForAttributeRoll.String())
}
