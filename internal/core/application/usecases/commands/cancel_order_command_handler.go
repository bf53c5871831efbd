package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order, refunding or voiding its
// payments through the gateway.
type CancelOrderCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.update(ctx, cmd.OrderID(), func(ctx context.Context, _ OrderUoW, o *order.Order) error {
		return h.machine.Cancel(ctx, o, cmd.CancelerID())
	})
}
