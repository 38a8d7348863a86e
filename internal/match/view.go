package match

import (
	"github.com/udisondev/duelcore/internal/model"
)

// View is a read-only snapshot of the match from one side's seat.
type View struct {
	Side    model.Side
	Current model.Side
	Turn    int
	Phase   string

	CanAct               bool
	WaitingForAttributes bool
	GameOver             bool
	SelectionPending     bool
	Silenced             bool
	Stunned              bool

	HP           int
	OpponentHP   int
	Energy       int
	NextRollCost int
	DrawRolls    int
	SkipDraws    int

	Hand      []*model.Card
	Board     []*model.Card
	FreeSlot  int // -1 when the zone is full
	DeckCount int
}

// View snapshots the match for side.
func (m *Match) View(side model.Side) View {
	v := View{
		Side:                 side,
		Current:              m.turn.Current(),
		Turn:                 m.turn.Turn(),
		Phase:                m.turn.Phase(),
		CanAct:               m.turn.CanAct(side),
		WaitingForAttributes: m.turn.IsWaitingForAttributeRoll(side),
		GameOver:             m.turn.IsGameOver(),
		SelectionPending:     m.selector.Active(),
		Silenced:             m.heroes[side].Silenced(),
		Stunned:              m.heroes[side].Stunned(),
		HP:                   m.life.Current(side),
		OpponentHP:           m.life.Current(side.Opponent()),
		Energy:               m.energy.Current(side),
		NextRollCost:         m.energy.NextRollCost(side),
		DrawRolls:            m.decks.DrawRollsThisTurn(side),
		SkipDraws:            m.decks.SkipTurns(side),
		Hand:                 m.decks.Hand(side).Cards(),
		Board:                m.board.Zone(side).Cards(),
		FreeSlot:             -1,
		DeckCount:            m.decks.Deck(side).DrawCount(),
	}
	if slot, ok := m.board.Zone(side).FirstEmptySlot(); ok {
		v.FreeSlot = slot.Index()
	}
	return v
}

// Result summarizes a finished (or abandoned) match.
type Result struct {
	Winner   model.Side
	Decided  bool
	Turns    int
	PlayerHP int
	EnemyHP  int
}

// Result reports the current outcome. Decided is false until a hero dies.
func (m *Match) Result() Result {
	r := Result{
		Turns:    m.turn.Turn(),
		PlayerHP: m.life.Current(model.SidePlayer),
		EnemyHP:  m.life.Current(model.SideEnemy),
	}
	if loser, ok := m.turn.Loser(); ok {
		r.Winner = loser.Opponent()
		r.Decided = true
	}
	return r
}
