package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrShipShipmentCommandIsNotConstructed = errors.New(
	"ShipShipmentCommand must be created via NewShipShipmentCommand constructor",
)

type ShipShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	tracking   string

	guard guard.ConstructorGuard
}

func NewShipShipmentCommand(shipmentID kernel.UUID, tracking string) (ShipShipmentCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return ShipShipmentCommand{}, err
	}
	return ShipShipmentCommand{
		shipmentID: shipmentID,
		tracking:   strings.TrimSpace(tracking),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ShipShipmentCommand) Validate() error {
	return c.guard.Validate(ErrShipShipmentCommandIsNotConstructed)
}

func (c ShipShipmentCommand) ShipmentID() kernel.UUID { return c.shipmentID }
func (c ShipShipmentCommand) Tracking() string        { return c.tracking }
