package spell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/duelcore/internal/model"
)

func beginReanimation(t *testing.T, h *harness) *model.Card {
	t.Helper()
	card := spellCard("UnstableReanimation", model.SidePlayer)
	require.NoError(t, h.disp.CastSpell(model.SidePlayer, card))
	require.True(t, h.svc.Selector.Active())
	assert.Zero(t, h.svc.Decks.Deck(model.SidePlayer).DiscardCount(), "cleanup waits for the target")
	return card
}

func TestSelector_HeroTargetDrains(t *testing.T) {
	h := newHarness(t)
	h.svc.Life.TakeDamage(model.SidePlayer, 6)
	card := beginReanimation(t, h)

	assert.ErrorIs(t, h.svc.Selector.SelectHero(model.SidePlayer), model.ErrInvalidAction)

	h.src.PushRolls(15)
	require.NoError(t, h.svc.Selector.SelectHero(model.SideEnemy))

	assert.False(t, h.svc.Selector.Active())
	assert.Equal(t, 15, h.hp(model.SideEnemy))
	assert.Equal(t, 16, h.hp(model.SidePlayer))
	assert.Equal(t, []*model.Card{card}, h.svc.Decks.Deck(model.SidePlayer).DiscardPile())
}

func TestSelector_Outcomes(t *testing.T) {
	tests := []struct {
		name   string
		face   int
		intMod int
		dexMod int
		hp     int
	}{
		{"natural twenty doubles", 20, 0, 10, 10},
		{"check passes", 10, 1, 1, 15},
		{"check fails halves", 10, 0, 1, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.attrs.set(model.SidePlayer, model.AbilityINT, tt.intMod)
			h.attrs.set(model.SideEnemy, model.AbilityDEX, tt.dexMod)
			beginReanimation(t, h)

			h.src.PushRolls(tt.face)
			require.NoError(t, h.svc.Selector.SelectHero(model.SideEnemy))

			assert.Equal(t, tt.hp, h.hp(model.SideEnemy))
		})
	}
}

func TestSelector_CardKillRaisesNothing(t *testing.T) {
	h := newHarness(t)
	target := h.place(t, model.SideEnemy, monster("Ogre", 4, 3))
	buried := model.NewCard(monster("Squire", 2, 4), model.SidePlayer)
	h.svc.Decks.Deck(model.SidePlayer).Discard(buried)
	beginReanimation(t, h)

	h.src.PushRolls(15)
	require.NoError(t, h.svc.Selector.SelectCard(target))

	assert.False(t, target.Placed)
	assert.Contains(t, h.destroyed, "Ogre:damage")
	assert.Empty(t, h.svc.Board.Zone(model.SidePlayer).Cards(), "a kill raises no copy")
	assert.Equal(t, 2, h.svc.Decks.Deck(model.SidePlayer).DiscardCount(), "discard pile untouched")
}

func TestSelector_SurvivingCardPullsFromDiscard(t *testing.T) {
	h := newHarness(t)
	target := h.place(t, model.SideEnemy, monster("Troll", 4, 9))
	buried := model.NewCard(monster("Squire", 2, 4), model.SidePlayer)
	h.svc.Decks.Deck(model.SidePlayer).Discard(buried)
	beginReanimation(t, h)

	h.src.PushRolls(15)
	h.src.Push(0, 0, 0)
	require.NoError(t, h.svc.Selector.SelectCard(target))

	assert.True(t, target.Placed)
	assert.Equal(t, 4, target.Defense)
	cards := h.svc.Board.Zone(model.SidePlayer).Cards()
	require.Len(t, cards, 1)
	token := cards[0]
	assert.True(t, token.Token)
	assert.Equal(t, "Squire", token.Name)
	assert.Equal(t, model.SidePlayer, token.Owner)
	assert.NotEqual(t, buried.ID, token.ID)

	h.svc.Timers.BeginTurn(model.SidePlayer)
	assert.True(t, token.Placed)
	h.svc.Timers.BeginTurn(model.SidePlayer)
	assert.False(t, token.Placed)
	assert.Contains(t, h.destroyed, "Squire:corrupted lifetime")
	assert.Equal(t, 1, h.svc.Decks.Deck(model.SidePlayer).DiscardCount(), "only the spell, tokens vanish")
}

func TestSelector_DiscardedSpellRisesAsMonster(t *testing.T) {
	h := newHarness(t)
	h.attrs.blocks = map[model.Side]model.AttributeBlock{
		model.SidePlayer: {Scores: [6]int{16, 12, 14, 10, 10, 10}, MaxLife: 30},
	}
	h.svc.Decks.Deck(model.SidePlayer).Discard(spellCard("Surge", model.SidePlayer))
	beginReanimation(t, h)

	h.src.PushRolls(15)
	h.src.Push(7, 5, 14)
	require.NoError(t, h.svc.Selector.SelectHero(model.SideEnemy))

	cards := h.svc.Board.Zone(model.SidePlayer).Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "Surge", cards[0].Name)
	assert.Equal(t, model.KindMonster, cards[0].Kind)
	assert.True(t, cards[0].Token)
	assert.Equal(t, 1, h.svc.Decks.Deck(model.SidePlayer).DiscardCount(), "only the reanimation spell remains")
}

func TestSelector_PullsFromDiscardWithoutCapture(t *testing.T) {
	h := newHarness(t)
	h.attrs.blocks = map[model.Side]model.AttributeBlock{
		model.SidePlayer: {Scores: [6]int{16, 12, 14, 10, 10, 10}, MaxLife: 30},
	}
	dead := model.NewCard(monster("Squire", 2, 4), model.SidePlayer)
	h.svc.Decks.Deck(model.SidePlayer).Discard(dead)
	beginReanimation(t, h)

	h.src.PushRolls(15)
	h.src.Push(7, 5, 14)
	require.NoError(t, h.svc.Selector.SelectHero(model.SideEnemy))

	cards := h.svc.Board.Zone(model.SidePlayer).Cards()
	require.Len(t, cards, 1)
	assert.True(t, cards[0].Token)
	assert.Equal(t, 8, cards[0].Attack)
	assert.Equal(t, 6, cards[0].Defense)
	assert.Equal(t, 15, cards[0].MaxHealth)
}

func TestSelector_CriticalFailGivesSacredCopy(t *testing.T) {
	h := newHarness(t)
	beginReanimation(t, h)

	h.src.PushRolls(1)
	require.NoError(t, h.svc.Selector.SelectHero(model.SideEnemy))

	hand := h.svc.Decks.Hand(model.SideEnemy).Cards()
	require.Len(t, hand, 1)
	sacred := hand[0]
	assert.True(t, sacred.Sacred)
	assert.Equal(t, "UnstableReanimation"+SacredSuffix, sacred.Name)
	assert.Equal(t, 20, h.hp(model.SideEnemy))

	// the sacred copy heals instead of harming
	h.svc.Life.TakeDamage(model.SidePlayer, 10)
	require.NoError(t, h.disp.CastSpell(model.SideEnemy, sacred))
	h.src.PushRolls(15)
	require.NoError(t, h.svc.Selector.SelectHero(model.SidePlayer))
	assert.Equal(t, 15, h.hp(model.SidePlayer))

	blessed := spellCard("UnstableReanimation", model.SidePlayer)
	blessed.Sacred = true
	require.NoError(t, h.disp.CastSpell(model.SidePlayer, blessed))
	h.src.PushRolls(1)
	require.NoError(t, h.svc.Selector.SelectHero(model.SideEnemy))
	assert.Len(t, h.svc.Decks.Hand(model.SideEnemy).Cards(), 1, "no sacred copy of a sacred copy")
}

func TestSelector_Rejections(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.svc.Selector.SelectHero(model.SideEnemy), model.ErrInvalidAction)

	sword := h.place(t, model.SideEnemy, &model.CardTemplate{Name: "Sword", Kind: model.KindEquipment, Attack: 2, Durability: 2})
	own := h.place(t, model.SidePlayer, monster("Squire", 1, 2))
	card := beginReanimation(t, h)

	assert.ErrorIs(t, h.svc.Selector.SelectCard(sword), model.ErrInvalidAction)
	assert.ErrorIs(t, h.svc.Selector.SelectCard(own), model.ErrInvalidAction)

	ctx := &Context{Owner: model.SideEnemy, Target: model.SidePlayer, Svc: h.svc}
	err := h.svc.Selector.Begin(ctx, &UnstableReanimationEffect{})
	assert.ErrorIs(t, err, model.ErrReentrancy)

	h.svc.Selector.Cancel()
	assert.False(t, h.svc.Selector.Active())
	assert.Equal(t, []*model.Card{card}, h.svc.Decks.Deck(model.SidePlayer).DiscardPile())
	assert.Equal(t, 20, h.hp(model.SideEnemy))
}

func TestSelector_DeferredRollBlocksReselect(t *testing.T) {
	h := newHarness(t)
	h.roller.SetDeferred(true)
	beginReanimation(t, h)

	require.NoError(t, h.svc.Selector.SelectHero(model.SideEnemy))
	assert.True(t, h.svc.Selector.AwaitingRoll())
	assert.ErrorIs(t, h.svc.Selector.SelectHero(model.SideEnemy), model.ErrInvalidAction)

	h.src.PushRolls(15)
	_, err := h.roller.Complete()
	require.NoError(t, err)
	assert.False(t, h.svc.Selector.Active())
	assert.Equal(t, 15, h.hp(model.SideEnemy))
}
