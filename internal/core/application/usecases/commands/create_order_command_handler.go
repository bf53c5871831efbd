package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
)

// CreateOrderCommandHandler creates an order and applies its nested payload
// in one transaction. A payload with any invalid block stores nothing.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	machine    services.OrderStateMachine
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	machine services.OrderStateMachine,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		machine:    machine,
	}
}

func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := order.NewOrder(cmd.OrderID(), cmd.Currency())
	if err != nil {
		return nil, err
	}
	if cmd.UserID() != nil {
		if err = o.SetUser(cmd.UserID()); err != nil {
			return nil, err
		}
	}

	coordinator := nestedWriteCoordinator{variants: uow.VariantRepository()}
	if err = coordinator.write(ctx, o, cmd.Attributes()); err != nil {
		return nil, err
	}
	if err = h.machine.Recompute(o); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
