package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrUpdateAdjustmentCommandIsNotConstructed = errors.New(
	"UpdateAdjustmentCommand must be created via NewUpdateAdjustmentCommand constructor",
)

// AdjustmentChanges lists the adjustment fields a client wants to change.
// Nil fields keep their current value. Setting State to closed freezes the
// adjustment; a closed adjustment can not be reopened.
type AdjustmentChanges struct {
	Label     *string
	Amount    *decimal.Decimal
	Eligible  *bool
	Mandatory *bool
	Included  *bool
	State     *order.AdjustmentState
}

func (c AdjustmentChanges) changesAttributes() bool {
	return c.Label != nil || c.Amount != nil || c.Eligible != nil || c.Mandatory != nil || c.Included != nil
}

func (c AdjustmentChanges) applyTo(attrs order.AdjustmentAttributes) order.AdjustmentAttributes {
	if c.Label != nil {
		attrs.Label = *c.Label
	}
	if c.Amount != nil {
		attrs.Amount = *c.Amount
	}
	if c.Eligible != nil {
		attrs.Eligible = *c.Eligible
	}
	if c.Mandatory != nil {
		attrs.Mandatory = *c.Mandatory
	}
	if c.Included != nil {
		attrs.Included = *c.Included
	}
	return attrs
}

type UpdateAdjustmentCommand struct { //nolint:recvcheck //using for validation
	adjustmentID kernel.UUID
	changes      AdjustmentChanges

	guard guard.ConstructorGuard
}

func NewUpdateAdjustmentCommand(adjustmentID kernel.UUID, changes AdjustmentChanges) (UpdateAdjustmentCommand, error) {
	var errState error
	if changes.State != nil && *changes.State != order.AdjustmentOpen && *changes.State != order.AdjustmentClosed {
		errState = errs.NewValueIsInvalidError("state")
	}
	if err := errors.Join(adjustmentID.Validate(), errState); err != nil {
		return UpdateAdjustmentCommand{}, err
	}

	return UpdateAdjustmentCommand{
		adjustmentID: adjustmentID,
		changes:      changes,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateAdjustmentCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAdjustmentCommandIsNotConstructed)
}

func (c UpdateAdjustmentCommand) AdjustmentID() kernel.UUID  { return c.adjustmentID }
func (c UpdateAdjustmentCommand) Changes() AdjustmentChanges { return c.changes }
