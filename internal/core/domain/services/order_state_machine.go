package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrPaymentDeclined is wrapped by gateways when the provider refuses a payment.
var ErrPaymentDeclined = errors.New("payment was declined")

// PaymentGateway settles payments with the payment provider.
type PaymentGateway interface {
	Capture(ctx context.Context, o *order.Order, p *order.Payment) error
	Void(ctx context.Context, o *order.Order, p *order.Payment) error
	Refund(ctx context.Context, o *order.Order, p *order.Payment) error
}

// Catalog answers the questions checkout asks about the store.
type Catalog interface {
	ShippingMethods(ctx context.Context) ([]*shipping.ShippingMethod, error)
	IsDigital(ctx context.Context, variantID kernel.UUID) (bool, error)
}

// Preconditions reported by failed guards.
const (
	PreconditionLineItems     = "order must have at least one line item"
	PreconditionEmail         = "email is required"
	PreconditionBillAddress   = "bill address is required"
	PreconditionShipAddress   = "ship address is required"
	PreconditionShipments     = "order must have at least one shipment"
	PreconditionShippingRate  = "every shipment must have a selected shipping rate"
	PreconditionPaymentMethod = "a payment method must be selected"
	PreconditionPaymentsCover = "payments must cover the order total"
	PreconditionNextCheckout  = "transition must target the next checkout step"
)

// OrderStateMachine moves orders through checkout.
//
// Every transition runs guard and effect against a draft of the order
// (order.Apply): a failing guard, a failing effect or a failing gateway call
// leaves the order exactly as it was. Effects end with adjustment
// recomputation and a refresh of the payment and shipment summaries.
type OrderStateMachine struct {
	engine  AdjustmentEngine
	gateway PaymentGateway
}

func NewOrderStateMachine(engine AdjustmentEngine, gateway PaymentGateway) OrderStateMachine {
	return OrderStateMachine{engine: engine, gateway: gateway}
}

// Recompute refreshes adjustment totals outside of a transition.
func (m OrderStateMachine) Recompute(o *order.Order) error {
	return m.engine.Recompute(o)
}

// Next advances the order by one checkout step.
func (m OrderStateMachine) Next(ctx context.Context, o *order.Order, catalog Catalog) error {
	target, err := o.State().Next()
	if err != nil {
		return err
	}
	return m.TransitionTo(ctx, o, target, catalog)
}

// Advance moves the order forward until it reaches confirm or a guard
// fails. A failing guard is not an error; the order simply stays where it
// stopped.
func (m OrderStateMachine) Advance(ctx context.Context, o *order.Order, catalog Catalog) error {
	for o.State() != order.Confirm && !o.State().IsFinal() {
		err := m.Next(ctx, o, catalog)
		if errors.Is(err, errs.ErrStateTransition) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// TransitionTo moves the order to target, which must be its next checkout
// step. Canceled is delegated to Cancel.
func (m OrderStateMachine) TransitionTo(ctx context.Context, o *order.Order, target order.State, catalog Catalog) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if target == order.Canceled {
		return m.Cancel(ctx, o, nil)
	}
	if !o.State().CanTransitionTo(target) {
		return errs.NewStateTransitionError(o.State().String(), target.String(), PreconditionNextCheckout)
	}

	return o.Apply(func(draft *order.Order) error {
		if err := m.engine.Recompute(draft); err != nil {
			return err
		}
		if err := m.checkGuard(draft, target); err != nil {
			return err
		}
		if err := m.runEffect(ctx, draft, target, catalog); err != nil {
			return err
		}
		if err := m.engine.Recompute(draft); err != nil {
			return err
		}
		return draft.ChangeState(target)
	})
}

// Cancel cancels the order on behalf of canceler. Canceling a canceled
// order is a no-op. Completed payments are refunded and pending ones
// voided through the gateway.
func (m OrderStateMachine) Cancel(ctx context.Context, o *order.Order, canceler *kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.State() == order.Canceled {
		return nil
	}

	return o.Apply(func(draft *order.Order) error {
		for _, p := range draft.Payments() {
			var err error
			switch {
			case p.State() == order.PaymentCompleted:
				if err = m.gateway.Refund(ctx, draft, p); err == nil {
					err = draft.RefundPayment(p.ID())
				}
			case p.IsCapturable():
				if err = m.gateway.Void(ctx, draft, p); err == nil {
					err = draft.VoidPayment(p.ID())
				}
			}
			if err != nil {
				return fmt.Errorf("cancel payment %s: %w", p.Number(), err)
			}
		}
		draft.CancelShipments()
		if err := draft.Cancel(canceler); err != nil {
			return err
		}
		return m.engine.Recompute(draft)
	})
}

// Approve stamps approver on the order.
func (m OrderStateMachine) Approve(o *order.Order, approver kernel.UUID) error {
	return o.Apply(func(draft *order.Order) error {
		return draft.Approve(approver)
	})
}

func (m OrderStateMachine) checkGuard(o *order.Order, target order.State) error {
	var failed []string
	switch target {
	case order.Address:
		if len(o.LineItems()) == 0 {
			failed = append(failed, PreconditionLineItems)
		}
		if o.Email() == "" {
			failed = append(failed, PreconditionEmail)
		}
		if o.BillAddress() == nil {
			failed = append(failed, PreconditionBillAddress)
		}
		if o.ShipAddress() == nil {
			failed = append(failed, PreconditionShipAddress)
		}
	case order.Delivery:
		if o.ShipAddress() == nil {
			failed = append(failed, PreconditionShipAddress)
		}
	case order.PaymentStep:
		shipments := o.Shipments()
		if len(shipments) == 0 {
			failed = append(failed, PreconditionShipments)
		}
		for _, s := range shipments {
			if _, ok := s.SelectedRate(); !ok {
				failed = append(failed, PreconditionShippingRate)
				break
			}
		}
	case order.Confirm:
		if !hasPendingPayment(o) {
			failed = append(failed, PreconditionPaymentMethod)
		}
	case order.Complete:
		if len(o.LineItems()) == 0 {
			failed = append(failed, PreconditionLineItems)
		}
		if tendered(o).LessThan(o.Totals().Total) {
			failed = append(failed, PreconditionPaymentsCover)
		}
	}

	if len(failed) > 0 {
		return errs.NewStateTransitionError(o.State().String(), target.String(), failed...)
	}
	return nil
}

func (m OrderStateMachine) runEffect(ctx context.Context, o *order.Order, target order.State, catalog Catalog) error {
	switch target {
	case order.Delivery:
		return m.buildShipments(ctx, o, catalog)
	case order.Complete:
		if err := m.capturePayments(ctx, o); err != nil {
			return err
		}
		o.ReadyShipments()
	}
	return nil
}

// buildShipments replaces the shipments of o with one shipment holding
// every line item, quoted by every shipping method that serves it.
func (m OrderStateMachine) buildShipments(ctx context.Context, o *order.Order, catalog Catalog) error {
	if catalog == nil {
		return errors.New("catalog is required to build shipments")
	}
	methods, err := catalog.ShippingMethods(ctx)
	if err != nil {
		return fmt.Errorf("list shipping methods: %w", err)
	}

	pkg := shipping.Package{
		ItemTotal:   o.Totals().ItemTotal,
		Quantity:    o.Totals().ItemCount,
		DigitalOnly: len(o.LineItems()) > 0,
	}
	for _, li := range o.LineItems() {
		digital, err := catalog.IsDigital(ctx, li.VariantID())
		if err != nil {
			return err
		}
		pkg.DigitalOnly = pkg.DigitalOnly && digital
	}

	var rates []order.ShippingRate
	for _, method := range methods {
		cost, ok := method.Rate(pkg)
		if !ok {
			continue
		}
		rates = append(rates, order.ShippingRate{
			ID:               kernel.NewUUID(),
			ShippingMethodID: method.ID(),
			Name:             method.Name(),
			Cost:             cost,
		})
	}

	shipment, err := order.NewShipment(kernel.NewUUID(), rates)
	if err != nil {
		return err
	}
	return o.ReplaceShipments([]*order.Shipment{shipment})
}

// capturePayments captures every capturable payment. When a capture fails
// the payments captured so far are refunded before the error is returned.
func (m OrderStateMachine) capturePayments(ctx context.Context, o *order.Order) error {
	var captured []*order.Payment
	for _, p := range o.Payments() {
		if !p.IsCapturable() {
			continue
		}
		if err := m.gateway.Capture(ctx, o, p); err != nil {
			compensation := make([]error, 0, len(captured))
			for _, done := range captured {
				compensation = append(compensation, m.gateway.Refund(ctx, o, done))
			}
			return errors.Join(fmt.Errorf("capture payment %s: %w", p.Number(), err), errors.Join(compensation...))
		}
		if err := o.CapturePayment(p.ID()); err != nil {
			return err
		}
		captured = append(captured, p)
	}
	return nil
}

func hasPendingPayment(o *order.Order) bool {
	for _, p := range o.Payments() {
		if (p.State() == order.PaymentCheckout || p.State() == order.PaymentPending) && !p.PaymentMethodID().IsZero() {
			return true
		}
	}
	return false
}

// tendered sums the payments that may still settle the order.
func tendered(o *order.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range o.Payments() {
		switch {
		case p.State() == order.PaymentCompleted:
			sum = sum.Add(p.Captured())
		case p.IsCapturable():
			sum = sum.Add(p.Amount())
		}
	}
	return sum
}
