package commands

import (
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// Transition names a checkout move requested by a client.
type Transition string

const (
	// TransitionNext moves the order one checkout step forward.
	TransitionNext Transition = "next"
	// TransitionAdvance moves the order forward until confirm or the first failing guard.
	TransitionAdvance Transition = "advance"
	// TransitionComplete moves a confirmed order to complete.
	TransitionComplete Transition = "complete"
)

func (t Transition) IsValid() bool {
	switch t {
	case TransitionNext, TransitionAdvance, TransitionComplete:
		return true
	}
	return false
}

type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	transition Transition

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(orderID kernel.UUID, transition Transition) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTransition(transition),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID   { return c.orderID }
func (c TransitionOrderCommand) Transition() Transition { return c.transition }

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTransition(t Transition) error {
	if !t.IsValid() {
		return errs.NewValueIsInvalidErrorWithCause("transition", fmt.Errorf("unknown transition %q", t))
	}
	c.transition = t
	return nil
}
