package entity

import (
	"testing"

	"github.com/mluqi/km-support/pkg/constant"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	t.Run("forward chain is legal", func(t *testing.T) {
		assert.True(t, CanTransition(constant.OrderStatusPending, constant.OrderStatusProcessing))
		assert.True(t, CanTransition(constant.OrderStatusProcessing, constant.OrderStatusShipped))
		assert.True(t, CanTransition(constant.OrderStatusShipped, constant.OrderStatusCompleted))
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		assert.False(t, CanTransition(constant.OrderStatusPending, constant.OrderStatusShipped))
		assert.False(t, CanTransition(constant.OrderStatusPending, constant.OrderStatusCompleted))
		assert.False(t, CanTransition(constant.OrderStatusProcessing, constant.OrderStatusCompleted))
	})

	t.Run("moving backwards is rejected", func(t *testing.T) {
		assert.False(t, CanTransition(constant.OrderStatusShipped, constant.OrderStatusPending))
		assert.False(t, CanTransition(constant.OrderStatusShipped, constant.OrderStatusProcessing))
		assert.False(t, CanTransition(constant.OrderStatusProcessing, constant.OrderStatusPending))
	})

	t.Run("terminal states have no successors", func(t *testing.T) {
		assert.False(t, CanTransition(constant.OrderStatusCompleted, constant.OrderStatusPending))
		assert.False(t, CanTransition(constant.OrderStatusCancelled, constant.OrderStatusPending))
		assert.False(t, CanTransition(constant.OrderStatusCompleted, constant.OrderStatusProcessing))
	})

	t.Run("cancellation branch is not directly settable", func(t *testing.T) {
		assert.False(t, CanTransition(constant.OrderStatusPending, constant.OrderStatusCancellationRequested))
		assert.False(t, CanTransition(constant.OrderStatusCancellationRequested, constant.OrderStatusCancelled))
		assert.False(t, CanTransition(constant.OrderStatusCancellationRequested, constant.OrderStatusPending))
	})

	t.Run("no self transitions", func(t *testing.T) {
		assert.False(t, CanTransition(constant.OrderStatusPending, constant.OrderStatusPending))
		assert.False(t, CanTransition(constant.OrderStatusShipped, constant.OrderStatusShipped))
	})
}

func TestOrder_IsTerminal(t *testing.T) {
	assert.True(t, (&Order{Status: constant.OrderStatusCompleted}).IsTerminal())
	assert.True(t, (&Order{Status: constant.OrderStatusCancelled}).IsTerminal())
	assert.False(t, (&Order{Status: constant.OrderStatusPending}).IsTerminal())
	assert.False(t, (&Order{Status: constant.OrderStatusShipped}).IsTerminal())
	assert.False(t, (&Order{Status: constant.OrderStatusCancellationRequested}).IsTerminal())
}

func TestOrder_CanRequestCancel(t *testing.T) {
	assert.True(t, (&Order{Status: constant.OrderStatusPending}).CanRequestCancel())
	assert.True(t, (&Order{Status: constant.OrderStatusProcessing}).CanRequestCancel())
	assert.True(t, (&Order{Status: constant.OrderStatusShipped}).CanRequestCancel())

	assert.False(t, (&Order{Status: constant.OrderStatusCompleted}).CanRequestCancel())
	assert.False(t, (&Order{Status: constant.OrderStatusCancelled}).CanRequestCancel())
	// A pending request cannot be stacked with another one
	assert.False(t, (&Order{Status: constant.OrderStatusCancellationRequested}).CanRequestCancel())
}

func TestOrder_HasCancelRequest(t *testing.T) {
	assert.True(t, (&Order{Status: constant.OrderStatusCancellationRequested}).HasCancelRequest())
	assert.False(t, (&Order{Status: constant.OrderStatusPending}).HasCancelRequest())
	assert.False(t, (&Order{Status: constant.OrderStatusCancelled}).HasCancelRequest())
}
