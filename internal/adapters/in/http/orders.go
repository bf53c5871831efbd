package http

import (
	"net/http"

	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type addressPayload struct {
	FirstName        string `json:"firstname"`
	LastName         string `json:"lastname"`
	Address1         string `json:"address1"`
	Address2         string `json:"address2"`
	City             string `json:"city"`
	Zipcode          string `json:"zipcode"`
	Phone            string `json:"phone"`
	AlternativePhone string `json:"alternative_phone"`
	Company          string `json:"company"`
	Label            string `json:"label"`
	CountryID        string `json:"country_id"`
	StateID          string `json:"state_id"`
	StateName        string `json:"state_name"`
}

func (p *addressPayload) attributes(userID *kernel.UUID) *address.Attributes {
	if p == nil {
		return nil
	}
	return &address.Attributes{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Address1:         p.Address1,
		Address2:         p.Address2,
		City:             p.City,
		Zipcode:          p.Zipcode,
		Phone:            p.Phone,
		AlternativePhone: p.AlternativePhone,
		Company:          p.Company,
		Label:            p.Label,
		CountryID:        p.CountryID,
		StateID:          p.StateID,
		StateName:        p.StateName,
		UserID:           userID,
	}
}

type lineItemEntry struct {
	ID        string `json:"id"`
	VariantID string `json:"variant_id"`
	Quantity  *int   `json:"quantity"`
	Destroy   bool   `json:"_destroy"`
}

type orderPayload struct {
	Email               *string         `json:"email"`
	SpecialInstructions *string         `json:"special_instructions"`
	Currency            *string         `json:"currency"`
	BillAddress         *addressPayload `json:"bill_address_attributes"`
	ShipAddress         *addressPayload `json:"ship_address_attributes"`
	LineItems           []lineItemEntry `json:"line_items_attributes"`
}

func (p orderPayload) attributes(userID *kernel.UUID) commands.OrderAttributes {
	attrs := commands.OrderAttributes{
		Email:               p.Email,
		SpecialInstructions: p.SpecialInstructions,
		Currency:            p.Currency,
		BillAddress:         p.BillAddress.attributes(userID),
		ShipAddress:         p.ShipAddress.attributes(userID),
	}
	for _, li := range p.LineItems {
		attrs.LineItems = append(attrs.LineItems, commands.LineItemAttributes{
			ID:        li.ID,
			VariantID: li.VariantID,
			Quantity:  li.Quantity,
			Destroy:   li.Destroy,
		})
	}
	return attrs
}

// ListOrders handles GET /orders.
func (s *Server) ListOrders(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	filter, err := bindOrderFilter(c)
	if err != nil {
		return err
	}

	number, perPage := page.values()
	query, err := queries.NewListOrdersQuery(number, perPage, queries.OrderFilter{
		State:  deref(filter.State),
		Email:  deref(filter.Email),
		Number: deref(filter.Number),
	})
	if err != nil {
		return err
	}

	result, err := s.queries.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return writeCollection(c, result, resource.Orders)
}

// ShowOrder handles GET /orders/{id}.
func (s *Server) ShowOrder(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}
	o, err := s.queries.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.Order(o))
}

// CreateOrder handles POST /orders. The caller becomes the order's user.
func (s *Server) CreateOrder(c echo.Context) error {
	var payload orderPayload
	if err := bindBody(c, "order", &payload); err != nil {
		return err
	}

	userID := principal(c).UserID
	currency := s.defaultCurrency
	if payload.Currency != nil && *payload.Currency != "" {
		currency = *payload.Currency
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), currency, userID, payload.attributes(userID))
	if err != nil {
		return err
	}
	o, err := s.commands.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusCreated, resource.Order(o))
}

// UpdateOrder handles PATCH /orders/{id}.
func (s *Server) UpdateOrder(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var payload orderPayload
	if err := bindBody(c, "order", &payload); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderCommand(id, payload.attributes(principal(c).UserID))
	if err != nil {
		return err
	}
	o, err := s.commands.UpdateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.Order(o))
}

// DeleteOrder handles DELETE /orders/{id}.
func (s *Server) DeleteOrder(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteOrderCommand(id)
	if err != nil {
		return err
	}
	if err := s.commands.DeleteOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// NextOrder handles POST /orders/{id}/next and its PATCH alias.
func (s *Server) NextOrder(c echo.Context) error {
	return s.transition(c, commands.TransitionNext)
}

// AdvanceOrder handles PATCH /orders/{id}/advance.
func (s *Server) AdvanceOrder(c echo.Context) error {
	return s.transition(c, commands.TransitionAdvance)
}

// CompleteOrder handles PATCH /orders/{id}/complete.
func (s *Server) CompleteOrder(c echo.Context) error {
	return s.transition(c, commands.TransitionComplete)
}

func (s *Server) transition(c echo.Context, transition commands.Transition) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewTransitionOrderCommand(id, transition)
	if err != nil {
		return err
	}
	o, err := s.commands.TransitionOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.Order(o))
}

// CancelOrder handles POST /orders/{id}/cancel and its PATCH alias.
func (s *Server) CancelOrder(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewCancelOrderCommand(id, principal(c).UserID)
	if err != nil {
		return err
	}
	o, err := s.commands.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.Order(o))
}

// ApproveOrder handles PATCH /orders/{id}/approve. Only callers identified
// by a user id can approve.
func (s *Server) ApproveOrder(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	approver := principal(c).UserID
	if approver == nil {
		return errs.NewForbiddenError("Only users can approve orders.")
	}
	cmd, err := commands.NewApproveOrderCommand(id, *approver)
	if err != nil {
		return err
	}
	o, err := s.commands.ApproveOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.Order(o))
}

// UpdateBillAddress handles PATCH /orders/{id}/bill_address.
func (s *Server) UpdateBillAddress(c echo.Context) error {
	return s.updateAddress(c, commands.BillAddress)
}

// UpdateShipAddress handles PATCH /orders/{id}/ship_address.
func (s *Server) UpdateShipAddress(c echo.Context) error {
	return s.updateAddress(c, commands.ShipAddress)
}

type couponCodePayload struct {
	CouponCode string `json:"coupon_code"`
}

// ApplyCouponCode handles PATCH /orders/{id}/apply_coupon_code.
func (s *Server) ApplyCouponCode(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var payload couponCodePayload
	if err := bindBody(c, "order", &payload, "coupon_code"); err != nil {
		return err
	}

	cmd, err := commands.NewApplyCouponCodeCommand(id, kernel.NewUUID(), payload.CouponCode)
	if err != nil {
		return err
	}
	o, err := s.commands.ApplyCouponCode.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.Order(o))
}

func (s *Server) updateAddress(c echo.Context, role commands.AddressRole) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var payload addressPayload
	if err := bindBody(c, "address", &payload); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderAddressCommand(id, role, *payload.attributes(principal(c).UserID))
	if err != nil {
		return err
	}
	o, err := s.commands.UpdateOrderAddress.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.Order(o))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
