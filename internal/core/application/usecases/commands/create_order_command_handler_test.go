package commands_test

import (
	"errors"
	"testing"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderCommandHandler_Handle_NestedPayload(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	shirt := newVariant(t, "19.99")
	mug := newVariant(t, "5.00")
	f.variants.On("Get", mock.Anything, shirt.ID()).Return(shirt, nil).Once()
	f.variants.On("Get", mock.Anything, mug.ID()).Return(mug, nil).Once()

	bill := addressAttributes()
	var stored *order.Order
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*order.Order) }).
			Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "USD", nil, commands.OrderAttributes{
		Email:       ptr("spree@example.com"),
		BillAddress: &bill,
		LineItems: []commands.LineItemAttributes{
			{VariantID: shirt.ID().String(), Quantity: ptr(2)},
			{VariantID: mug.ID().String()},
		},
	})
	require.NoError(t, err)

	h := commands.NewCreateOrderCommandHandler(f.factory, f.machine)
	o, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.Same(t, o, stored)
	assert.Equal(t, "spree@example.com", o.Email())
	require.NotNil(t, o.BillAddress())
	assert.Equal(t, "20814", o.BillAddress().Attributes().Zipcode)
	assert.Len(t, o.LineItems(), 2)
	assert.Equal(t, 3, o.Totals().ItemCount)
	assert.True(t, decimal.RequireFromString("44.98").Equal(o.Totals().Total))
	assert.Equal(t, []string{
		order.EventOrderCreated, order.EventLineItemCreated, order.EventLineItemCreated,
	}, eventNames(o.Events()))
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_RejectsEveryInvalidBlock(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	missing := kernel.NewUUID()
	f.variants.On("Get", mock.Anything, missing).Return(nil, errs.NewObjectNotFoundError("variant", missing)).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	bill := addressAttributes()
	bill.Zipcode = ""
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "USD", nil, commands.OrderAttributes{
		BillAddress: &bill,
		LineItems: []commands.LineItemAttributes{
			{VariantID: missing.String()},
			{VariantID: missing.String(), Quantity: ptr(0)},
		},
	})
	require.NoError(t, err)
	f.variants.On("Get", mock.Anything, missing).Return(nil, errs.NewObjectNotFoundError("variant", missing)).Once()

	h := commands.NewCreateOrderCommandHandler(f.factory, f.machine)
	o, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.Nil(t, o)

	var verrs *errs.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("bill_address.zipcode"))
	assert.True(t, verrs.Has("line_items[0].variant_id"))
	assert.True(t, verrs.Has("line_items[1].quantity"))
	f.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	h := commands.NewCreateOrderCommandHandler(f.factory, f.machine)
	_, err := h.Handle(ctx, commands.CreateOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	f.uow.On("Begin", ctx).Return(errors.New("begin error")).Once()

	cmd, _ := commands.NewCreateOrderCommand(kernel.NewUUID(), "USD", nil, commands.OrderAttributes{})
	h := commands.NewCreateOrderCommandHandler(f.factory, f.machine)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	f.uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(errors.New("add error")).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, _ := commands.NewCreateOrderCommand(kernel.NewUUID(), "USD", nil, commands.OrderAttributes{})
	h := commands.NewCreateOrderCommandHandler(f.factory, f.machine)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	f.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, _ := commands.NewCreateOrderCommand(kernel.NewUUID(), "USD", nil, commands.OrderAttributes{})
	h := commands.NewCreateOrderCommandHandler(f.factory, f.machine)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	f.assertExpectations(t)
}
