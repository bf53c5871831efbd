package commands

import (
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrUpdateOrderAddressCommandIsNotConstructed = errors.New(
	"UpdateOrderAddressCommand must be created via NewUpdateOrderAddressCommand constructor",
)

// AddressRole tells which of the order's addresses a write targets.
type AddressRole string

const (
	BillAddress AddressRole = "bill_address"
	ShipAddress AddressRole = "ship_address"
)

// UpdateOrderAddressCommand sets the bill or ship address of an order.
type UpdateOrderAddressCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	role    AddressRole
	attrs   address.Attributes

	guard guard.ConstructorGuard
}

func NewUpdateOrderAddressCommand(
	orderID kernel.UUID,
	role AddressRole,
	attrs address.Attributes,
) (UpdateOrderAddressCommand, error) {
	var errRole error
	if role != BillAddress && role != ShipAddress {
		errRole = errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("unknown address role %q", role))
	}
	if err := errors.Join(orderID.Validate(), errRole); err != nil {
		return UpdateOrderAddressCommand{}, err
	}

	return UpdateOrderAddressCommand{
		orderID: orderID,
		role:    role,
		attrs:   attrs,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderAddressCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderAddressCommandIsNotConstructed)
}

func (c UpdateOrderAddressCommand) OrderID() kernel.UUID           { return c.orderID }
func (c UpdateOrderAddressCommand) Role() AddressRole              { return c.role }
func (c UpdateOrderAddressCommand) Attributes() address.Attributes { return c.attrs }

// orderAttributes expresses the address write as a nested order payload.
func (c UpdateOrderAddressCommand) orderAttributes() OrderAttributes {
	attrs := c.attrs
	if c.role == BillAddress {
		return OrderAttributes{BillAddress: &attrs}
	}
	return OrderAttributes{ShipAddress: &attrs}
}
