package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/guard"
)

var ErrAddAdjustmentCommandIsNotConstructed = errors.New(
	"AddAdjustmentCommand must be created via NewAddAdjustmentCommand constructor",
)

// AddAdjustmentCommand attaches a new adjustment to an order, one of its
// line items or one of its shipments.
type AddAdjustmentCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	adjustmentID kernel.UUID
	attrs        order.AdjustmentAttributes

	guard guard.ConstructorGuard
}

// NewAddAdjustmentCommand builds the command. An order-level adjustment
// without an adjustable id targets orderID.
func NewAddAdjustmentCommand(
	orderID, adjustmentID kernel.UUID,
	attrs order.AdjustmentAttributes,
) (AddAdjustmentCommand, error) {
	if err := errors.Join(orderID.Validate(), adjustmentID.Validate()); err != nil {
		return AddAdjustmentCommand{}, err
	}
	if attrs.Adjustable.Kind == order.AdjustableOrder && attrs.Adjustable.ID.IsZero() {
		attrs.Adjustable.ID = orderID
	}

	return AddAdjustmentCommand{
		orderID:      orderID,
		adjustmentID: adjustmentID,
		attrs:        attrs,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c AddAdjustmentCommand) Validate() error {
	return c.guard.Validate(ErrAddAdjustmentCommandIsNotConstructed)
}

func (c AddAdjustmentCommand) OrderID() kernel.UUID                   { return c.orderID }
func (c AddAdjustmentCommand) AdjustmentID() kernel.UUID              { return c.adjustmentID }
func (c AddAdjustmentCommand) Attributes() order.AdjustmentAttributes { return c.attrs }
