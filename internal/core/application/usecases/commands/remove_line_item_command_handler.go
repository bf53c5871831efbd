package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// RemoveLineItemCommandHandler deletes a line item together with the
// adjustments attached to it.
type RemoveLineItemCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewRemoveLineItemCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) RemoveLineItemCommandHandler {
	return RemoveLineItemCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *RemoveLineItemCommandHandler) Handle(ctx context.Context, cmd RemoveLineItemCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.updateByChild(ctx, order.ChildLineItem, cmd.LineItemID(),
		func(_ context.Context, _ OrderUoW, o *order.Order) error {
			if err := o.RemoveLineItem(cmd.LineItemID()); err != nil {
				return err
			}
			return recomputeAndTouch(h.machine, o)
		})
}
