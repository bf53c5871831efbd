package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels an order. The canceler is optional.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	cancelerID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.UUID, cancelerID *kernel.UUID) (CancelOrderCommand, error) {
	var errCanceler error
	if cancelerID != nil {
		errCanceler = cancelerID.Validate()
	}
	if err := errors.Join(orderID.Validate(), errCanceler); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderID:    orderID,
		cancelerID: cancelerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID     { return c.orderID }
func (c CancelOrderCommand) CancelerID() *kernel.UUID { return c.cancelerID }
