package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// UpdateOrderCommand applies a nested payload to an existing order.
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	attrs   OrderAttributes

	guard guard.ConstructorGuard
}

func NewUpdateOrderCommand(orderID kernel.UUID, attrs OrderAttributes) (UpdateOrderCommand, error) {
	cmd := UpdateOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAttributes(attrs),
	); err != nil {
		return UpdateOrderCommand{}, err
	}

	return cmd, nil
}

func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) OrderID() kernel.UUID        { return c.orderID }
func (c UpdateOrderCommand) Attributes() OrderAttributes { return c.attrs }

func (c *UpdateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateOrderCommand) setAttributes(attrs OrderAttributes) error {
	if attrs.IsEmpty() {
		return errs.NewValueIsRequiredError("order")
	}
	c.attrs = attrs
	return nil
}
