package order

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// State is the checkout state of an order.
//
// The zero value is Unknown so that an uninitialized State never passes
// validation.
type State int

const (
	Unknown State = iota
	Cart
	Address
	Delivery
	// PaymentStep is the checkout step where payments are collected.
	PaymentStep
	Confirm
	Complete
	Canceled
)

var stateNames = map[State]string{
	Cart:        "cart",
	Address:     "address",
	Delivery:    "delivery",
	PaymentStep: "payment",
	Confirm:     "confirm",
	Complete:    "complete",
	Canceled:    "canceled",
}

// CheckoutSteps is the ordered checkout sequence.
var CheckoutSteps = []State{Cart, Address, Delivery, PaymentStep, Confirm, Complete}

// ParseState maps the persisted/wire name of a state back to State.
func ParseState(s string) (State, error) {
	for state, name := range stateNames {
		if name == s {
			return state, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a valid state", s))
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

// IsFinal reports whether no checkout step follows s.
func (s State) IsFinal() bool {
	return s == Complete || s == Canceled
}

// Next returns the checkout step following s.
//
// Returns a StateTransitionError for complete, canceled and unknown states.
func (s State) Next() (State, error) {
	for i, step := range CheckoutSteps {
		if step == s && i+1 < len(CheckoutSteps) {
			return CheckoutSteps[i+1], nil
		}
	}
	return Unknown, errs.NewStateTransitionError(s.String(), "next", "no checkout step follows "+s.String())
}

// CanTransitionTo reports whether target is reachable from s in one step.
//
// Valid transitions:
//   - to the next checkout step
//   - to canceled from any state except canceled
func (s State) CanTransitionTo(target State) bool {
	if s.Validate() != nil {
		return false
	}
	if target == Canceled {
		return s != Canceled
	}
	next, err := s.Next()
	return err == nil && next == target
}

// EventName is the lifecycle event raised when an order enters s.
func (s State) EventName() string {
	switch s {
	case Complete:
		return EventOrderCompleted
	case Canceled:
		return EventOrderCanceled
	default:
		return "order." + s.String()
	}
}

// PaymentState summarizes the payments of an order against its total.
type PaymentState string

const (
	PaymentStateNone       PaymentState = ""
	PaymentStateBalanceDue PaymentState = "balance_due"
	PaymentStatePaid       PaymentState = "paid"
	PaymentStateCreditOwed PaymentState = "credit_owed"
	PaymentStateFailed     PaymentState = "failed"
	PaymentStateVoid       PaymentState = "void"
)

// ShipmentState summarizes the shipments of an order.
type ShipmentState string

const (
	ShipmentStateNone     ShipmentState = ""
	ShipmentStatePending  ShipmentState = "pending"
	ShipmentStateReady    ShipmentState = "ready"
	ShipmentStatePartial  ShipmentState = "partial"
	ShipmentStateShipped  ShipmentState = "shipped"
	ShipmentStateCanceled ShipmentState = "canceled"
)
