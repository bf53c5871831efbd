package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// ShipShipmentCommandHandler ships a ready shipment of a complete order.
// Shipping the last shipment raises order.shipped.
type ShipShipmentCommandHandler struct {
	writer orderWriter
}

func NewShipShipmentCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) ShipShipmentCommandHandler {
	return ShipShipmentCommandHandler{
		writer: orderWriter{uowFactory: uowFactory, locker: locker},
	}
}

func (h *ShipShipmentCommandHandler) Handle(ctx context.Context, cmd ShipShipmentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.updateByChild(ctx, order.ChildShipment, cmd.ShipmentID(),
		func(_ context.Context, _ OrderUoW, o *order.Order) error {
			if err := o.ShipShipment(cmd.ShipmentID(), cmd.Tracking()); err != nil {
				return err
			}
			o.MarkUpdated()
			return nil
		})
}
