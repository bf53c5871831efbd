package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrRemoveAdjustmentCommandIsNotConstructed = errors.New(
	"RemoveAdjustmentCommand must be created via NewRemoveAdjustmentCommand constructor",
)

type RemoveAdjustmentCommand struct { //nolint:recvcheck //using for validation
	adjustmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRemoveAdjustmentCommand(adjustmentID kernel.UUID) (RemoveAdjustmentCommand, error) {
	if err := adjustmentID.Validate(); err != nil {
		return RemoveAdjustmentCommand{}, err
	}
	return RemoveAdjustmentCommand{adjustmentID: adjustmentID, guard: guard.NewConstructorGuard()}, nil
}

func (c RemoveAdjustmentCommand) Validate() error {
	return c.guard.Validate(ErrRemoveAdjustmentCommandIsNotConstructed)
}

func (c RemoveAdjustmentCommand) AdjustmentID() kernel.UUID { return c.adjustmentID }
