package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// TransitionOrderCommandHandler drives the checkout state machine. A failing
// guard returns an *errs.StateTransitionError and stores nothing.
type TransitionOrderCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.update(ctx, cmd.OrderID(), func(ctx context.Context, uow OrderUoW, o *order.Order) error {
		catalog := uowCatalog{uow: uow}
		switch cmd.Transition() {
		case TransitionAdvance:
			return h.machine.Advance(ctx, o, catalog)
		case TransitionComplete:
			return h.machine.TransitionTo(ctx, o, order.Complete, catalog)
		default:
			return h.machine.Next(ctx, o, catalog)
		}
	})
}
