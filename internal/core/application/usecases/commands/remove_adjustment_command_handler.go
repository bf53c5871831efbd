package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// RemoveAdjustmentCommandHandler deletes an adjustment. Mandatory
// adjustments are rejected with a validation error.
type RemoveAdjustmentCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewRemoveAdjustmentCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) RemoveAdjustmentCommandHandler {
	return RemoveAdjustmentCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *RemoveAdjustmentCommandHandler) Handle(ctx context.Context, cmd RemoveAdjustmentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.updateByChild(ctx, order.ChildAdjustment, cmd.AdjustmentID(),
		func(_ context.Context, _ OrderUoW, o *order.Order) error {
			if err := o.RemoveAdjustment(cmd.AdjustmentID()); err != nil {
				return err
			}
			return recomputeAndTouch(h.machine, o)
		})
}
