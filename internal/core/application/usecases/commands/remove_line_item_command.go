package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrRemoveLineItemCommandIsNotConstructed = errors.New(
	"RemoveLineItemCommand must be created via NewRemoveLineItemCommand constructor",
)

type RemoveLineItemCommand struct { //nolint:recvcheck //using for validation
	lineItemID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRemoveLineItemCommand(lineItemID kernel.UUID) (RemoveLineItemCommand, error) {
	if err := lineItemID.Validate(); err != nil {
		return RemoveLineItemCommand{}, err
	}
	return RemoveLineItemCommand{lineItemID: lineItemID, guard: guard.NewConstructorGuard()}, nil
}

func (c RemoveLineItemCommand) Validate() error {
	return c.guard.Validate(ErrRemoveLineItemCommandIsNotConstructed)
}

func (c RemoveLineItemCommand) LineItemID() kernel.UUID { return c.lineItemID }
