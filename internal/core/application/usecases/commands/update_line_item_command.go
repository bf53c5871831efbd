package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrUpdateLineItemCommandIsNotConstructed = errors.New(
	"UpdateLineItemCommand must be created via NewUpdateLineItemCommand constructor",
)

type UpdateLineItemCommand struct { //nolint:recvcheck //using for validation
	lineItemID kernel.UUID
	quantity   int

	guard guard.ConstructorGuard
}

func NewUpdateLineItemCommand(lineItemID kernel.UUID, quantity int) (UpdateLineItemCommand, error) {
	var errQuantity error
	if quantity <= 0 {
		errQuantity = ErrQuantityIsInvalid
	}
	if err := errors.Join(lineItemID.Validate(), errQuantity); err != nil {
		return UpdateLineItemCommand{}, err
	}

	return UpdateLineItemCommand{
		lineItemID: lineItemID,
		quantity:   quantity,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateLineItemCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLineItemCommandIsNotConstructed)
}

func (c UpdateLineItemCommand) LineItemID() kernel.UUID { return c.lineItemID }
func (c UpdateLineItemCommand) Quantity() int           { return c.quantity }
