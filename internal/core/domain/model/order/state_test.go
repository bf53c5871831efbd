package order_test

import (
	"testing"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Next(t *testing.T) {
	expected := map[order.State]order.State{
		order.Cart:        order.Address,
		order.Address:     order.Delivery,
		order.Delivery:    order.PaymentStep,
		order.PaymentStep: order.Confirm,
		order.Confirm:     order.Complete,
	}
	for from, to := range expected {
		next, err := from.Next()
		require.NoError(t, err)
		assert.Equal(t, to, next, "from %s", from)
	}

	for _, final := range []order.State{order.Complete, order.Canceled, order.Unknown} {
		_, err := final.Next()
		assert.ErrorIs(t, err, errs.ErrStateTransition)
	}
}

func TestState_CanTransitionTo(t *testing.T) {
	t.Run("should allow only the next step", func(t *testing.T) {
		assert.True(t, order.Cart.CanTransitionTo(order.Address))
		assert.False(t, order.Cart.CanTransitionTo(order.Delivery))
		assert.False(t, order.Cart.CanTransitionTo(order.Complete))
		assert.False(t, order.PaymentStep.CanTransitionTo(order.Address))
	})

	t.Run("should allow cancel from any state but canceled", func(t *testing.T) {
		for _, s := range order.CheckoutSteps {
			assert.True(t, s.CanTransitionTo(order.Canceled), s.String())
		}
		assert.False(t, order.Canceled.CanTransitionTo(order.Canceled))
		assert.False(t, order.Unknown.CanTransitionTo(order.Canceled))
	})
}

func TestParseState(t *testing.T) {
	for _, s := range append(order.CheckoutSteps, order.Canceled) {
		parsed, err := order.ParseState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := order.ParseState("returned")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Error(t, order.Unknown.Validate())
	assert.Equal(t, "unknown", order.State(42).String())
}

func TestState_EventName(t *testing.T) {
	assert.Equal(t, "order.address", order.Address.EventName())
	assert.Equal(t, "order.completed", order.Complete.EventName())
	assert.Equal(t, "order.canceled", order.Canceled.EventName())
}
