package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrSelectShippingMethodCommandIsNotConstructed = errors.New(
	"SelectShippingMethodCommand must be created via NewSelectShippingMethodCommand constructor",
)

// SelectShippingMethodCommand picks the rate of one shipping method among
// the rates quoted for a shipment.
type SelectShippingMethodCommand struct { //nolint:recvcheck //using for validation
	shipmentID       kernel.UUID
	shippingMethodID kernel.UUID

	guard guard.ConstructorGuard
}

func NewSelectShippingMethodCommand(shipmentID, shippingMethodID kernel.UUID) (SelectShippingMethodCommand, error) {
	if err := errors.Join(shipmentID.Validate(), shippingMethodID.Validate()); err != nil {
		return SelectShippingMethodCommand{}, err
	}
	return SelectShippingMethodCommand{
		shipmentID:       shipmentID,
		shippingMethodID: shippingMethodID,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (c SelectShippingMethodCommand) Validate() error {
	return c.guard.Validate(ErrSelectShippingMethodCommandIsNotConstructed)
}

func (c SelectShippingMethodCommand) ShipmentID() kernel.UUID       { return c.shipmentID }
func (c SelectShippingMethodCommand) ShippingMethodID() kernel.UUID { return c.shippingMethodID }
