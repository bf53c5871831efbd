package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

type SelectShippingMethodCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewSelectShippingMethodCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) SelectShippingMethodCommandHandler {
	return SelectShippingMethodCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *SelectShippingMethodCommandHandler) Handle(
	ctx context.Context,
	cmd SelectShippingMethodCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.updateByChild(ctx, order.ChildShipment, cmd.ShipmentID(),
		func(_ context.Context, _ OrderUoW, o *order.Order) error {
			if err := o.SelectShippingMethod(cmd.ShipmentID(), cmd.ShippingMethodID()); err != nil {
				return err
			}
			return recomputeAndTouch(h.machine, o)
		})
}
