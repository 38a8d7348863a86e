package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/duelcore/internal/config"
	"github.com/udisondev/duelcore/internal/data"
	"github.com/udisondev/duelcore/internal/game/deck"
	"github.com/udisondev/duelcore/internal/game/dice"
	"github.com/udisondev/duelcore/internal/match"
	"github.com/udisondev/duelcore/internal/model"
)

type idleController struct{ side model.Side }

func (c idleController) Side() model.Side { return c.side }
func (c idleController) TakeTurn(Game) error { return nil }

func newCatalogMatch(t *testing.T, seed int64) (*match.Match, config.Balance) {
	t.Helper()
	catalog, err := data.DefaultCatalog()
	require.NoError(t, err)
	paladin, err := catalog.Deck("paladin")
	require.NoError(t, err)
	necro, err := catalog.Deck("necromancer")
	require.NoError(t, err)

	bal := config.DefaultBalance()
	m, err := match.New(match.Setup{
		Balance: bal,
		Source:  dice.NewRandSource(seed),
		Decks:   [2][]deck.Entry{paladin, necro},
	})
	require.NoError(t, err)
	require.NoError(t, m.Start())
	return m, bal
}

func TestDriver_PlaysMatchesToCompletion(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		m, bal := newCatalogMatch(t, seed)
		d := NewDriver(1000)
		d.Register(NewScriptedPolicy(model.SidePlayer, bal.Deck.MaxDrawRollsTurn))
		d.Register(NewScriptedPolicy(model.SideEnemy, bal.Deck.MaxDrawRollsTurn))

		require.NoError(t, d.Run(context.Background(), m), "seed %d", seed)

		res := m.Result()
		assert.True(t, res.Decided, "seed %d undecided after %d turns", seed, res.Turns)
		loserHP := res.PlayerHP
		if res.Winner == model.SidePlayer {
			loserHP = res.EnemyHP
		}
		assert.Zero(t, loserHP, "seed %d", seed)
	}
}

func TestDriver_TurnCap(t *testing.T) {
	m, _ := newCatalogMatch(t, 7)
	d := NewDriver(1)
	d.Register(NewScriptedPolicy(model.SidePlayer, 0))
	d.Register(NewScriptedPolicy(model.SideEnemy, 0))

	require.NoError(t, d.Run(context.Background(), m))
	assert.Equal(t, 2, m.Turn().Turn())
}

func TestDriver_Errors(t *testing.T) {
	m, _ := newCatalogMatch(t, 3)

	d := NewDriver(10)
	assert.Error(t, d.Run(context.Background(), m), "no controllers")

	d.Register(idleController{side: model.SidePlayer})
	assert.ErrorIs(t, d.Run(context.Background(), m), ErrStalled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Run(ctx, m), context.Canceled)

	d.Unregister(model.SidePlayer)
	_, err := d.Controller(model.SidePlayer)
	assert.Error(t, err)
}
