package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

type AddAdjustmentCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewAddAdjustmentCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) AddAdjustmentCommandHandler {
	return AddAdjustmentCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *AddAdjustmentCommandHandler) Handle(ctx context.Context, cmd AddAdjustmentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.update(ctx, cmd.OrderID(), func(_ context.Context, _ OrderUoW, o *order.Order) error {
		adj, err := order.NewAdjustment(cmd.AdjustmentID(), cmd.Attributes())
		if err != nil {
			return err
		}
		if err = o.AddAdjustment(adj); err != nil {
			return err
		}
		return recomputeAndTouch(h.machine, o)
	})
}
