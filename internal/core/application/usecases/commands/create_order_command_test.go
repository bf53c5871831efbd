package commands_test

import (
	"testing"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(id, "usd", nil, commands.OrderAttributes{})
	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, "USD", cmd.Currency())
	assert.Nil(t, cmd.UserID())
	require.NoError(t, cmd.Validate())
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.UUID{}, "USD", nil, commands.OrderAttributes{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_InvalidCurrency(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "dollars", nil, commands.OrderAttributes{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestCreateOrderCommand_NotConstructed(t *testing.T) {
	cmd := commands.CreateOrderCommand{}
	assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestNewUpdateOrderCommand_RequiresAttributes(t *testing.T) {
	_, err := commands.NewUpdateOrderCommand(kernel.NewUUID(), commands.OrderAttributes{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewTransitionOrderCommand_UnknownTransition(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), "jump")
	require.Error(t, err)

	cmd, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), commands.TransitionAdvance)
	require.NoError(t, err)
	assert.Equal(t, commands.TransitionAdvance, cmd.Transition())
}

func TestNewAddLineItemCommand_QuantityMustBePositive(t *testing.T) {
	_, err := commands.NewAddLineItemCommand(kernel.NewUUID(), kernel.NewUUID(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewUpdateLineItemCommand(kernel.NewUUID(), -1)
	require.Error(t, err)
}

func TestNewUpdateOrderAddressCommand_UnknownRole(t *testing.T) {
	_, err := commands.NewUpdateOrderAddressCommand(kernel.NewUUID(), "home_address", addressAttributes())
	require.Error(t, err)
}

func TestNewCreateShippingMethodCommand_InvalidPreferences(t *testing.T) {
	_, err := commands.NewCreateShippingMethodCommand(kernel.NewUUID(), shippingAttributes("UPS"),
		"flat_rate", map[string]string{"amount": "cheap"})
	require.Error(t, err)

	var verrs *errs.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("preferences.amount"))
}
