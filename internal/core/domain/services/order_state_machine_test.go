package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Capture(ctx context.Context, o *order.Order, p *order.Payment) error {
	return m.Called(ctx, o, p).Error(0)
}

func (m *MockPaymentGateway) Void(ctx context.Context, o *order.Order, p *order.Payment) error {
	return m.Called(ctx, o, p).Error(0)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, o *order.Order, p *order.Payment) error {
	return m.Called(ctx, o, p).Error(0)
}

type stubCatalog struct {
	methods []*shipping.ShippingMethod
	digital bool
}

func (c stubCatalog) ShippingMethods(context.Context) ([]*shipping.ShippingMethod, error) {
	return c.methods, nil
}

func (c stubCatalog) IsDigital(context.Context, kernel.UUID) (bool, error) {
	return c.digital, nil
}

func newMethod(t *testing.T, name string, typ shipping.CalculatorType, prefs map[string]string) *shipping.ShippingMethod {
	t.Helper()
	calc, err := shipping.NewCalculator(typ, prefs)
	require.NoError(t, err)
	m, err := shipping.NewShippingMethod(kernel.NewUUID(), shipping.Attributes{Name: name}, calc)
	require.NoError(t, err)
	return m
}

func newAddress(t *testing.T) *address.Address {
	t.Helper()
	a, err := address.NewAddress(kernel.NewUUID(), address.Attributes{
		FirstName: "John", LastName: "Doe", Address1: "7735 Old Georgetown Road",
		City: "Bethesda", Zipcode: "20814", Phone: "3014445002", CountryID: "US",
	})
	require.NoError(t, err)
	return a
}

func readyForAddress(t *testing.T) *order.Order {
	t.Helper()
	o := newCart(t, "50.00", "30.00")
	require.NoError(t, o.SetEmail("spree@example.com"))
	require.NoError(t, o.AssignBillAddress(newAddress(t)))
	require.NoError(t, o.AssignShipAddress(newAddress(t)))
	return o
}

func defaultCatalog(t *testing.T) stubCatalog {
	return stubCatalog{methods: []*shipping.ShippingMethod{
		newMethod(t, "UPS Ground", shipping.FlatRate, map[string]string{"amount": "5"}),
		newMethod(t, "UPS Express", shipping.FlatRate, map[string]string{"amount": "15"}),
		newMethod(t, "Download", shipping.DigitalDelivery, nil),
	}}
}

func addPayment(t *testing.T, o *order.Order, amount string) *order.Payment {
	t.Helper()
	p, err := order.NewPayment(kernel.NewUUID(), kernel.NewUUID(), money(amount))
	require.NoError(t, err)
	require.NoError(t, o.AddPayment(p))
	return p
}

func TestOrderStateMachine_Next(t *testing.T) {
	ctx := t.Context()
	machine := services.NewOrderStateMachine(services.NewAdjustmentEngine(nil), new(MockPaymentGateway))

	t.Run("should report every missing precondition and keep cart", func(t *testing.T) {
		o := newCart(t)

		err := machine.Next(ctx, o, defaultCatalog(t))

		var transitionErr *errs.StateTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, []string{
			services.PreconditionLineItems,
			services.PreconditionEmail,
			services.PreconditionBillAddress,
			services.PreconditionShipAddress,
		}, transitionErr.Preconditions)
		assert.Equal(t, order.Cart, o.State())
	})

	t.Run("should build a shipment quoting available methods", func(t *testing.T) {
		o := readyForAddress(t)
		require.NoError(t, machine.Next(ctx, o, defaultCatalog(t)))
		require.NoError(t, machine.Next(ctx, o, defaultCatalog(t)))

		assert.Equal(t, order.Delivery, o.State())
		require.Len(t, o.Shipments(), 1)
		shipment := o.Shipments()[0]
		assert.Len(t, shipment.ShippingRates(), 2, "digital delivery does not serve physical items")
		selected, ok := shipment.SelectedRate()
		require.True(t, ok)
		assert.Equal(t, "UPS Ground", selected.Name)
		assertMoney(t, "85", o.Totals().Total, "total")
		assert.Equal(t, order.ShipmentStatePending, o.ShipmentState())
	})

	t.Run("should require a selected rate before payment", func(t *testing.T) {
		o := readyForAddress(t)
		require.NoError(t, machine.Next(ctx, o, stubCatalog{}))
		require.NoError(t, machine.Next(ctx, o, stubCatalog{}))

		err := machine.Next(ctx, o, stubCatalog{})

		require.ErrorIs(t, err, errs.ErrStateTransition)
		assert.Contains(t, err.Error(), services.PreconditionShippingRate)
		assert.Equal(t, order.Delivery, o.State())
	})
}

func TestOrderStateMachine_TransitionTo(t *testing.T) {
	ctx := t.Context()
	machine := services.NewOrderStateMachine(services.NewAdjustmentEngine(nil), new(MockPaymentGateway))

	t.Run("should reject a skipped step leaving cart", func(t *testing.T) {
		o := readyForAddress(t)

		err := machine.TransitionTo(ctx, o, order.Complete, defaultCatalog(t))

		var transitionErr *errs.StateTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, []string{services.PreconditionNextCheckout}, transitionErr.Preconditions)
		assert.Equal(t, order.Cart, o.State())
		assert.Nil(t, o.CompletedAt())
	})
}

func TestOrderStateMachine_Complete(t *testing.T) {
	ctx := t.Context()

	checkout := func(t *testing.T, machine services.OrderStateMachine) *order.Order {
		t.Helper()
		o := readyForAddress(t)
		require.NoError(t, machine.Advance(ctx, o, defaultCatalog(t)))
		require.Equal(t, order.PaymentStep, o.State(), "advance stops at the first failing guard")
		return o
	}

	t.Run("should capture payments and complete", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		machine := services.NewOrderStateMachine(services.NewAdjustmentEngine(nil), gateway)
		o := checkout(t, machine)
		addPayment(t, o, "85")
		require.NoError(t, machine.Advance(ctx, o, defaultCatalog(t)))
		require.Equal(t, order.Confirm, o.State())
		o.PullEvents()

		gateway.On("Capture", ctx, mock.AnythingOfType("*order.Order"), mock.AnythingOfType("*order.Payment")).
			Return(nil).Once()

		require.NoError(t, machine.Next(ctx, o, defaultCatalog(t)))

		assert.Equal(t, order.Complete, o.State())
		assert.NotNil(t, o.CompletedAt())
		assert.Equal(t, order.PaymentStatePaid, o.PaymentState())
		assert.Equal(t, order.ShipmentStateReady, o.ShipmentState())
		assert.Equal(t, order.PaymentCompleted, o.Payments()[0].State())

		var names []string
		for _, e := range o.PullEvents() {
			names = append(names, e.Name)
		}
		assert.Equal(t, []string{order.EventOrderCompleted, order.EventOrderPaid}, names)
		gateway.AssertExpectations(t)
	})

	t.Run("should not complete when payments do not cover total", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		machine := services.NewOrderStateMachine(services.NewAdjustmentEngine(nil), gateway)
		o := checkout(t, machine)
		addPayment(t, o, "10")
		require.NoError(t, machine.Next(ctx, o, defaultCatalog(t)))

		err := machine.Next(ctx, o, defaultCatalog(t))

		require.ErrorIs(t, err, errs.ErrStateTransition)
		assert.Contains(t, err.Error(), services.PreconditionPaymentsCover)
		assert.Equal(t, order.Confirm, o.State())
		gateway.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should leave order untouched when capture fails", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		machine := services.NewOrderStateMachine(services.NewAdjustmentEngine(nil), gateway)
		o := checkout(t, machine)
		first := addPayment(t, o, "40")
		addPayment(t, o, "45")
		require.NoError(t, machine.Next(ctx, o, defaultCatalog(t)))

		gateway.On("Capture", ctx, mock.Anything, mock.MatchedBy(func(p *order.Payment) bool {
			return p.ID().IsEqual(first.ID())
		})).Return(nil).Once()
		gateway.On("Capture", ctx, mock.Anything, mock.Anything).Return(errors.New("card declined")).Once()
		gateway.On("Refund", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		err := machine.Next(ctx, o, defaultCatalog(t))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "card declined")
		assert.Equal(t, order.Confirm, o.State())
		for _, p := range o.Payments() {
			assert.Equal(t, order.PaymentCheckout, p.State())
		}
		gateway.AssertExpectations(t)
	})
}

func TestOrderStateMachine_Cancel(t *testing.T) {
	ctx := t.Context()

	t.Run("should refund settled payments of a complete order", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		machine := services.NewOrderStateMachine(services.NewAdjustmentEngine(nil), gateway)
		o := readyForAddress(t)
		require.NoError(t, machine.Advance(ctx, o, defaultCatalog(t)))
		addPayment(t, o, "85")
		require.NoError(t, machine.Advance(ctx, o, defaultCatalog(t)))
		gateway.On("Capture", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		require.NoError(t, machine.Next(ctx, o, defaultCatalog(t)))
		require.Equal(t, order.Complete, o.State())

		gateway.On("Refund", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		admin := kernel.NewUUID()

		require.NoError(t, machine.Cancel(ctx, o, &admin))

		assert.Equal(t, order.Canceled, o.State())
		assert.NotNil(t, o.CanceledAt())
		assert.True(t, o.CancelerID().IsEqual(admin))
		assert.Equal(t, order.PaymentStateVoid, o.PaymentState())
		assert.Equal(t, order.ShipmentStateCanceled, o.ShipmentState())
		assertMoney(t, "0", o.Totals().PaymentTotal, "payment_total")
		gateway.AssertExpectations(t)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		machine := services.NewOrderStateMachine(services.NewAdjustmentEngine(nil), gateway)
		o := newCart(t, "10")
		addPayment(t, o, "10")
		gateway.On("Void", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		require.NoError(t, machine.Cancel(ctx, o, nil))
		canceledAt := *o.CanceledAt()
		o.PullEvents()

		require.NoError(t, machine.Cancel(ctx, o, nil))
		require.NoError(t, machine.TransitionTo(ctx, o, order.Canceled, nil))

		assert.Equal(t, order.Canceled, o.State())
		assert.Equal(t, canceledAt, *o.CanceledAt())
		assert.Empty(t, o.PullEvents())
		assert.Equal(t, order.PaymentVoid, o.Payments()[0].State())
		gateway.AssertExpectations(t)
	})

	t.Run("should keep order when the gateway fails", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		machine := services.NewOrderStateMachine(services.NewAdjustmentEngine(nil), gateway)
		o := newCart(t, "10")
		addPayment(t, o, "10")
		gateway.On("Void", ctx, mock.Anything, mock.Anything).Return(errors.New("gateway down")).Once()

		err := machine.Cancel(ctx, o, nil)

		require.Error(t, err)
		assert.Equal(t, order.Cart, o.State())
		assert.Nil(t, o.CanceledAt())
	})
}

func TestOrderStateMachine_Approve(t *testing.T) {
	machine := services.NewOrderStateMachine(services.NewAdjustmentEngine(nil), new(MockPaymentGateway))
	o := newCart(t, "10")
	approver := kernel.NewUUID()

	require.NoError(t, machine.Approve(o, approver))

	assert.NotNil(t, o.ApprovedAt())
	assert.True(t, o.ApproverID().IsEqual(approver))
}
