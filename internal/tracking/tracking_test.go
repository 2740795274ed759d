package tracking_test

import (
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countCurrent(stages []tracking.Stage) int {
	n := 0
	for _, s := range stages {
		if s.Current {
			n++
		}
	}
	return n
}

func TestStages_ForwardProgression(t *testing.T) {
	progression := []model.OrderStatus{
		model.OrderStatusPlaced,
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusDelivered,
	}

	for idx, status := range progression {
		stages := tracking.Stages(status)
		require.Len(t, stages, 4)
		assert.Equal(t, 1, countCurrent(stages), "status=%s", status)

		for i, st := range stages {
			assert.Equal(t, i+1, st.Step)
			assert.Equal(t, i < idx, st.Completed, "status=%s stage=%s", status, st.Status)
			assert.Equal(t, i == idx, st.Current, "status=%s stage=%s", status, st.Status)
		}
	}
}

func TestStages_Cancelled(t *testing.T) {
	for _, s := range []model.OrderStatus{model.OrderStatusCancelled, "CANCELED", "cancelled"} {
		stages := tracking.Stages(s)
		assert.Equal(t, 0, countCurrent(stages))
		assert.True(t, tracking.IsCancelled(s))
		assert.Equal(t, "Cancelled", tracking.Label(s, false))
	}
}

func TestStages_Aliases(t *testing.T) {
	stages := tracking.Stages("PAID")
	assert.True(t, stages[1].Current)
	assert.True(t, stages[0].Completed)

	stages = tracking.Stages("pending")
	assert.True(t, stages[0].Current)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Order placed", tracking.Label(model.OrderStatusPlaced, false))
	assert.Equal(t, "Payment confirmed", tracking.Label(model.OrderStatusPlaced, true))
	assert.Equal(t, "Shipped", tracking.Label(model.OrderStatusShipped, true))
	assert.Equal(t, "ON HOLD", tracking.Label("ON_HOLD", false))
	assert.Equal(t, "Unknown", tracking.Label("", false))
}

func TestNext_NeverSkipsOrGoesBack(t *testing.T) {
	next, ok := tracking.Next(model.OrderStatusPlaced)
	assert.True(t, ok)
	assert.Equal(t, model.OrderStatusProcessing, next)

	next, ok = tracking.Next(model.OrderStatusShipped)
	assert.True(t, ok)
	assert.Equal(t, model.OrderStatusDelivered, next)

	_, ok = tracking.Next(model.OrderStatusDelivered)
	assert.False(t, ok)
	_, ok = tracking.Next(model.OrderStatusCancelled)
	assert.False(t, ok)
	_, ok = tracking.Next("SOMETHING")
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, tracking.CanTransition(model.OrderStatusPlaced, model.OrderStatusProcessing))
	assert.False(t, tracking.CanTransition(model.OrderStatusPlaced, model.OrderStatusShipped))
	assert.False(t, tracking.CanTransition(model.OrderStatusShipped, model.OrderStatusProcessing))
	assert.True(t, tracking.CanTransition(model.OrderStatusShipped, model.OrderStatusCancelled))
	assert.False(t, tracking.CanTransition(model.OrderStatusDelivered, model.OrderStatusCancelled))
	assert.False(t, tracking.CanTransition(model.OrderStatusCancelled, model.OrderStatusPlaced))
}
