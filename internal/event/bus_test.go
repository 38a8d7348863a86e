package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/duelcore/internal/model"
)

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	b := NewBus()
	var order []int
	b.Subscribe(KindTurnStarted, func(Event) { order = append(order, 1) })
	b.Subscribe(KindTurnStarted, func(Event) { order = append(order, 2) })
	b.Subscribe(KindGameOver, func(Event) { order = append(order, 99) })

	b.Publish(TurnStarted{Side: model.SidePlayer})

	assert.Equal(t, []int{1, 2}, order)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	unsub := b.Subscribe(KindLifeChanged, func(Event) { calls++ })

	b.Publish(LifeChanged{})
	unsub()
	unsub()
	b.Publish(LifeChanged{})

	assert.Equal(t, 1, calls)
	assert.Zero(t, b.Count(KindLifeChanged))
}

func TestBus_RemovedDuringDeliveryIsSkipped(t *testing.T) {
	b := NewBus()
	secondCalled := false
	var unsubSecond func()
	b.Subscribe(KindTurnStarted, func(Event) { unsubSecond() })
	unsubSecond = b.Subscribe(KindTurnStarted, func(Event) { secondCalled = true })

	b.Publish(TurnStarted{})

	assert.False(t, secondCalled)
}

func TestBus_PanickingSubscriberDoesNotStopDelivery(t *testing.T) {
	b := NewBus()
	reached := false
	b.Subscribe(KindEnergyChanged, func(Event) { panic("presentation bug") })
	b.Subscribe(KindEnergyChanged, func(Event) { reached = true })

	require.NotPanics(t, func() { b.Publish(EnergyChanged{Player: 1, Enemy: 2}) })
	assert.True(t, reached)
}

func TestBus_OnTurnStartedTyped(t *testing.T) {
	b := NewBus()
	var got model.Side = 255
	b.OnTurnStarted(func(e TurnStarted) { got = e.Side })

	b.Publish(TurnStarted{Side: model.SideEnemy})

	assert.Equal(t, model.SideEnemy, got)
}
