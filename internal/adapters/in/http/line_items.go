package http

import (
	"net/http"

	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type lineItemPayload struct {
	OrderID   string `json:"order_id"`
	VariantID string `json:"variant_id"`
	Quantity  *int   `json:"quantity"`
}

// CreateLineItem handles POST /line_items. Quantity defaults to one.
func (s *Server) CreateLineItem(c echo.Context) error {
	var payload lineItemPayload
	if err := bindBody(c, "line_item", &payload, "order_id", "variant_id"); err != nil {
		return err
	}

	verrs := errs.NewValidationErrors()
	orderID := parseID(verrs, "order_id", payload.OrderID)
	variantID := parseID(verrs, "variant_id", payload.VariantID)
	if err := verrs.Err(); err != nil {
		return err
	}
	quantity := 1
	if payload.Quantity != nil {
		quantity = *payload.Quantity
	}

	cmd, err := commands.NewAddLineItemCommand(orderID, variantID, quantity)
	if err != nil {
		return err
	}
	_, li, err := s.commands.AddLineItem.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusCreated, resource.LineItem(orderID, li))
}

// ShowLineItem handles GET /line_items/{id}.
func (s *Server) ShowLineItem(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderChildQuery(order.ChildLineItem, id)
	if err != nil {
		return err
	}
	o, err := s.queries.GetOrderChild.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	li, ok := o.LineItem(id)
	if !ok {
		return errs.NewObjectNotFoundError("line_item", id)
	}
	return writeResource(c, http.StatusOK, resource.LineItem(o.ID(), li))
}

// UpdateLineItem handles PATCH /line_items/{id}.
func (s *Server) UpdateLineItem(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var payload lineItemPayload
	if err := bindBody(c, "line_item", &payload, "quantity"); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateLineItemCommand(id, *payload.Quantity)
	if err != nil {
		return err
	}
	o, err := s.commands.UpdateLineItem.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	li, ok := o.LineItem(id)
	if !ok {
		return errs.NewObjectNotFoundError("line_item", id)
	}
	return writeResource(c, http.StatusOK, resource.LineItem(o.ID(), li))
}

// DeleteLineItem handles DELETE /line_items/{id}.
func (s *Server) DeleteLineItem(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewRemoveLineItemCommand(id)
	if err != nil {
		return err
	}
	if _, err := s.commands.RemoveLineItem.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
