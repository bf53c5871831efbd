package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// UpdateOrderCommandHandler applies a nested payload under the order lock.
type UpdateOrderCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewUpdateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.update(ctx, cmd.OrderID(), func(ctx context.Context, uow OrderUoW, o *order.Order) error {
		coordinator := nestedWriteCoordinator{variants: uow.VariantRepository()}
		if err := coordinator.write(ctx, o, cmd.Attributes()); err != nil {
			return err
		}
		return recomputeAndTouch(h.machine, o)
	})
}
