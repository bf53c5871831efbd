package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

type UpdateLineItemCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewUpdateLineItemCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) UpdateLineItemCommandHandler {
	return UpdateLineItemCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *UpdateLineItemCommandHandler) Handle(ctx context.Context, cmd UpdateLineItemCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.updateByChild(ctx, order.ChildLineItem, cmd.LineItemID(),
		func(_ context.Context, _ OrderUoW, o *order.Order) error {
			if err := o.UpdateLineItemQuantity(cmd.LineItemID(), cmd.Quantity()); err != nil {
				return err
			}
			return recomputeAndTouch(h.machine, o)
		})
}
