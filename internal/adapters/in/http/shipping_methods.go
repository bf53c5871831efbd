package http

import (
	"net/http"

	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/shipping"

	"github.com/labstack/echo/v4"
)

type calculatorPayload struct {
	Type        *string           `json:"type"`
	Preferences map[string]string `json:"preferences"`
}

type shippingMethodPayload struct {
	Name        *string            `json:"name"`
	Code        *string            `json:"code"`
	AdminName   *string            `json:"admin_name"`
	TrackingURL *string            `json:"tracking_url"`
	DisplayOn   *string            `json:"display_on"`
	Calculator  *calculatorPayload `json:"calculator_attributes"`
}

func (p shippingMethodPayload) changes() commands.ShippingMethodChanges {
	changes := commands.ShippingMethodChanges{
		Name:        p.Name,
		Code:        p.Code,
		AdminName:   p.AdminName,
		TrackingURL: p.TrackingURL,
	}
	if p.DisplayOn != nil {
		displayOn := shipping.DisplayOn(*p.DisplayOn)
		changes.DisplayOn = &displayOn
	}
	if p.Calculator != nil {
		if p.Calculator.Type != nil {
			calculatorType := shipping.CalculatorType(*p.Calculator.Type)
			changes.CalculatorType = &calculatorType
		}
		changes.Preferences = p.Calculator.Preferences
	}
	return changes
}

// ListShippingMethods handles GET /shipping_methods.
func (s *Server) ListShippingMethods(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	number, perPage := page.values()
	query, err := queries.NewListShippingMethodsQuery(number, perPage)
	if err != nil {
		return err
	}
	result, err := s.queries.ListShippingMethods.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return writeCollection(c, result, resource.ShippingMethods)
}

// ShowShippingMethod handles GET /shipping_methods/{id}.
func (s *Server) ShowShippingMethod(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	query, err := queries.NewGetShippingMethodQuery(id)
	if err != nil {
		return err
	}
	m, err := s.queries.GetShippingMethod.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.ShippingMethod(m))
}

// CreateShippingMethod handles POST /shipping_methods.
func (s *Server) CreateShippingMethod(c echo.Context) error {
	var payload shippingMethodPayload
	if err := bindBody(c, "shipping_method", &payload, "name", "calculator_attributes"); err != nil {
		return err
	}

	attrs := shipping.Attributes{
		Name:        deref(payload.Name),
		Code:        deref(payload.Code),
		AdminName:   deref(payload.AdminName),
		TrackingURL: deref(payload.TrackingURL),
		DisplayOn:   shipping.DisplayOn(deref(payload.DisplayOn)),
	}
	cmd, err := commands.NewCreateShippingMethodCommand(
		kernel.NewUUID(),
		attrs,
		shipping.CalculatorType(deref(payload.Calculator.Type)),
		payload.Calculator.Preferences,
	)
	if err != nil {
		return err
	}
	m, err := s.commands.CreateShippingMethod.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusCreated, resource.ShippingMethod(m))
}

// UpdateShippingMethod handles PATCH /shipping_methods/{id}.
func (s *Server) UpdateShippingMethod(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var payload shippingMethodPayload
	if err := bindBody(c, "shipping_method", &payload); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateShippingMethodCommand(id, payload.changes())
	if err != nil {
		return err
	}
	m, err := s.commands.UpdateShippingMethod.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.ShippingMethod(m))
}

// DeleteShippingMethod handles DELETE /shipping_methods/{id}.
func (s *Server) DeleteShippingMethod(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteShippingMethodCommand(id)
	if err != nil {
		return err
	}
	if err := s.commands.DeleteShippingMethod.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
