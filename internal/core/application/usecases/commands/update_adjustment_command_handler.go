package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// UpdateAdjustmentCommandHandler changes an open adjustment or closes it.
// Attribute changes are applied before closing, so one request can edit and
// freeze an adjustment.
type UpdateAdjustmentCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewUpdateAdjustmentCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) UpdateAdjustmentCommandHandler {
	return UpdateAdjustmentCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *UpdateAdjustmentCommandHandler) Handle(ctx context.Context, cmd UpdateAdjustmentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := cmd.AdjustmentID()
	changes := cmd.Changes()
	return h.writer.updateByChild(ctx, order.ChildAdjustment, id,
		func(_ context.Context, _ OrderUoW, o *order.Order) error {
			adj, _ := o.Adjustment(id)
			if changes.State != nil && *changes.State == order.AdjustmentOpen && !adj.IsOpen() {
				verrs := errs.NewValidationErrors()
				verrs.Add("state", "closed adjustments can not be reopened")
				return verrs
			}

			if changes.changesAttributes() {
				if err := o.UpdateAdjustment(id, changes.applyTo(adj.Attributes())); err != nil {
					return err
				}
			}
			if changes.State != nil && *changes.State == order.AdjustmentClosed {
				if err := o.CloseAdjustment(id); err != nil {
					return err
				}
			}
			return recomputeAndTouch(h.machine, o)
		})
}
