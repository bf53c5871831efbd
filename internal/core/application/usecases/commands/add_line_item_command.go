package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var (
	ErrAddLineItemCommandIsNotConstructed = errors.New(
		"AddLineItemCommand must be created via NewAddLineItemCommand constructor",
	)
	ErrQuantityIsInvalid = errs.NewValueIsInvalidErrorWithCause("quantity", errors.New("must be greater than 0"))
)

// AddLineItemCommand adds quantity units of a variant to an order. Adding a
// variant the order already holds raises that line item's quantity.
type AddLineItemCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	variantID kernel.UUID
	quantity  int

	guard guard.ConstructorGuard
}

func NewAddLineItemCommand(orderID, variantID kernel.UUID, quantity int) (AddLineItemCommand, error) {
	var errQuantity error
	if quantity <= 0 {
		errQuantity = ErrQuantityIsInvalid
	}
	if err := errors.Join(orderID.Validate(), variantID.Validate(), errQuantity); err != nil {
		return AddLineItemCommand{}, err
	}

	return AddLineItemCommand{
		orderID:   orderID,
		variantID: variantID,
		quantity:  quantity,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AddLineItemCommand) Validate() error {
	return c.guard.Validate(ErrAddLineItemCommandIsNotConstructed)
}

func (c AddLineItemCommand) OrderID() kernel.UUID   { return c.orderID }
func (c AddLineItemCommand) VariantID() kernel.UUID { return c.variantID }
func (c AddLineItemCommand) Quantity() int          { return c.quantity }
