package http

import (
	"net/http"

	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// SelectShippingMethod handles PATCH /shipments/{id}/select_shipping_method.
func (s *Server) SelectShippingMethod(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var payload struct {
		ShippingMethodID string `json:"shipping_method_id"`
	}
	if err := c.Bind(&payload); err != nil {
		return err
	}

	verrs := errs.NewValidationErrors()
	methodID := parseID(verrs, "shipping_method_id", payload.ShippingMethodID)
	if err := verrs.Err(); err != nil {
		return err
	}

	cmd, err := commands.NewSelectShippingMethodCommand(id, methodID)
	if err != nil {
		return err
	}
	o, err := s.commands.SelectShippingMethod.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeShipment(c, o, id)
}

// ShipShipment handles PATCH /shipments/{id}/ship. The body is optional.
func (s *Server) ShipShipment(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var payload struct {
		Tracking string `json:"tracking"`
	}
	if err := c.Bind(&payload); err != nil {
		return err
	}

	cmd, err := commands.NewShipShipmentCommand(id, payload.Tracking)
	if err != nil {
		return err
	}
	o, err := s.commands.ShipShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeShipment(c, o, id)
}

func writeShipment(c echo.Context, o *order.Order, id kernel.UUID) error {
	shipment, ok := o.Shipment(id)
	if !ok {
		return errs.NewObjectNotFoundError("shipment", id)
	}
	return writeResource(c, http.StatusOK, resource.Shipment(o.ID(), shipment))
}
