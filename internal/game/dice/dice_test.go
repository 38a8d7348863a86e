package dice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/duelcore/internal/model"
)

// fixedSource returns values from a queue (each value v yields roll v+1 for Roll).
type fixedSource struct {
	values []int
}

func (s *fixedSource) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

type fakeEnergy struct {
	budget int
	paid   int
}

func (e *fakeEnergy) CanRoll(model.Side) bool { return e.budget > 0 }
func (e *fakeEnergy) ConsumeForRoll(model.Side) bool {
	if e.budget <= 0 {
		return false
	}
	e.budget--
	e.paid++
	return true
}

func TestRoll_Range(t *testing.T) {
	src := NewRandSource(42)
	for range 1000 {
		v := Roll(src, D20)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 20)
	}
	assert.Equal(t, 1, Roll(src, 1))
}

func TestRandSource_Deterministic(t *testing.T) {
	a := NewRandSource(7)
	b := NewRandSource(7)
	for range 50 {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	assert.Zero(t, a.Intn(0))
}

func TestDeriveSeed(t *testing.T) {
	assert.Equal(t, DeriveSeed(1, 3), DeriveSeed(1, 3))
	assert.NotEqual(t, DeriveSeed(1, 3), DeriveSeed(1, 4))
	assert.NotEqual(t, DeriveSeed(1, 3), DeriveSeed(2, 3))
}

func TestRangeInclusive(t *testing.T) {
	src := &fixedSource{values: []int{0, 4}}
	assert.Equal(t, 2, RangeInclusive(src, 2, 6))
	assert.Equal(t, 6, RangeInclusive(src, 2, 6))
	assert.Equal(t, 3, RangeInclusive(src, 3, 3))
}

func TestRoller_ImmediateDeliversAndPaysEnergy(t *testing.T) {
	energy := &fakeEnergy{budget: 1}
	r := NewRoller(&fixedSource{values: []int{13}}, energy)

	got := 0
	err := r.Request(RollRequest{Side: model.SidePlayer, Purpose: PurposeDraw}, func(roll int) { got = roll })

	require.NoError(t, err)
	assert.Equal(t, 14, got)
	assert.Equal(t, 1, energy.paid)
	assert.False(t, r.Pending())
}

func TestRoller_SkipEnergy(t *testing.T) {
	energy := &fakeEnergy{}
	r := NewRoller(&fixedSource{values: []int{0}}, energy)

	got := 0
	err := r.Request(RollRequest{Purpose: PurposeAttack, SkipEnergy: true}, func(roll int) { got = roll })

	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Zero(t, energy.paid)
}

func TestRoller_InsufficientEnergy(t *testing.T) {
	r := NewRoller(&fixedSource{}, &fakeEnergy{})

	called := false
	err := r.Request(RollRequest{Purpose: PurposeDraw}, func(int) { called = true })

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidAction))
	assert.False(t, called)
	assert.False(t, r.Pending())
}

func TestRoller_DeferredRejectsSecondRequest(t *testing.T) {
	r := NewRoller(&fixedSource{values: []int{19}}, nil)
	r.SetDeferred(true)

	first := 0
	require.NoError(t, r.Request(RollRequest{Purpose: PurposeAttack, SkipEnergy: true}, func(roll int) { first = roll }))
	require.True(t, r.Pending())

	err := r.Request(RollRequest{Purpose: PurposeDraw, SkipEnergy: true}, func(int) { t.Fatal("second continuation must not run") })
	require.ErrorIs(t, err, model.ErrReentrancy)

	req, ok := r.PendingRequest()
	require.True(t, ok)
	assert.Equal(t, PurposeAttack, req.Purpose)

	roll, err := r.Complete()
	require.NoError(t, err)
	assert.Equal(t, 20, roll)
	assert.Equal(t, 20, first)

	_, err = r.Complete()
	assert.ErrorIs(t, err, model.ErrMissingReference)
}

func TestRoller_ContinuationMayChainRoll(t *testing.T) {
	r := NewRoller(&fixedSource{values: []int{4, 9}}, nil)

	var rolls []int
	err := r.Request(RollRequest{SkipEnergy: true}, func(first int) {
		rolls = append(rolls, first)
		require.NoError(t, r.Request(RollRequest{SkipEnergy: true}, func(second int) {
			rolls = append(rolls, second)
		}))
	})

	require.NoError(t, err)
	assert.Equal(t, []int{5, 10}, rolls)
}

func TestRoller_Observer(t *testing.T) {
	r := NewRoller(&fixedSource{values: []int{2}}, nil)
	var seen []int
	r.SetRollObserver(func(_ RollRequest, roll int) { seen = append(seen, roll) })

	require.NoError(t, r.Request(RollRequest{SkipEnergy: true}, nil))
	assert.Equal(t, []int{3}, seen)
}
