package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// UpdateOrderAddressCommandHandler writes one address through the nested
// write path, so errors carry the same bill_address./ship_address. keys.
type UpdateOrderAddressCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewUpdateOrderAddressCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) UpdateOrderAddressCommandHandler {
	return UpdateOrderAddressCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *UpdateOrderAddressCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderAddressCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.update(ctx, cmd.OrderID(), func(ctx context.Context, uow OrderUoW, o *order.Order) error {
		coordinator := nestedWriteCoordinator{variants: uow.VariantRepository()}
		if err := coordinator.write(ctx, o, cmd.orderAttributes()); err != nil {
			return err
		}
		return recomputeAndTouch(h.machine, o)
	})
}
