package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

type ApproveOrderCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewApproveOrderCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) ApproveOrderCommandHandler {
	return ApproveOrderCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *ApproveOrderCommandHandler) Handle(ctx context.Context, cmd ApproveOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.update(ctx, cmd.OrderID(), func(_ context.Context, _ OrderUoW, o *order.Order) error {
		return h.machine.Approve(o, cmd.ApproverID())
	})
}
