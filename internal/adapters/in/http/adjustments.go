package http

import (
	"net/http"

	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type adjustmentPayload struct {
	OrderID        string           `json:"order_id"`
	Label          *string          `json:"label"`
	Amount         *decimal.Decimal `json:"amount"`
	AdjustableType string           `json:"adjustable_type"`
	AdjustableID   string           `json:"adjustable_id"`
	SourceType     string           `json:"source_type"`
	SourceID       string           `json:"source_id"`
	Eligible       *bool            `json:"eligible"`
	Mandatory      *bool            `json:"mandatory"`
	Included       *bool            `json:"included"`
	State          *string          `json:"state"`
}

// attributes reads the create payload. Adjustments target the order unless
// adjustable_type says otherwise and are eligible unless told they are not.
func (p adjustmentPayload) attributes(verrs *errs.ValidationErrors) order.AdjustmentAttributes {
	attrs := order.AdjustmentAttributes{
		Label:     deref(p.Label),
		Eligible:  true,
		Mandatory: p.Mandatory != nil && *p.Mandatory,
		Included:  p.Included != nil && *p.Included,
	}
	if p.Amount != nil {
		attrs.Amount = *p.Amount
	}
	if p.Eligible != nil {
		attrs.Eligible = *p.Eligible
	}

	attrs.Adjustable.Kind = order.AdjustableOrder
	if p.AdjustableType != "" {
		kind, err := order.ParseAdjustableKind(p.AdjustableType)
		if err != nil {
			verrs.AddError("adjustable_type", err)
		}
		attrs.Adjustable.Kind = kind
	}
	if attrs.Adjustable.Kind != order.AdjustableOrder || p.AdjustableID != "" {
		attrs.Adjustable.ID = parseID(verrs, "adjustable_id", p.AdjustableID)
	}

	kind, err := order.ParseSourceKind(p.SourceType)
	if err != nil {
		verrs.AddError("source_type", err)
	}
	attrs.Source.Kind = kind
	if kind != order.SourceNone {
		attrs.Source.ID = parseID(verrs, "source_id", p.SourceID)
	}
	return attrs
}

func (p adjustmentPayload) changes(verrs *errs.ValidationErrors) commands.AdjustmentChanges {
	changes := commands.AdjustmentChanges{
		Label:     p.Label,
		Amount:    p.Amount,
		Eligible:  p.Eligible,
		Mandatory: p.Mandatory,
		Included:  p.Included,
	}
	if p.State != nil {
		state := order.AdjustmentState(*p.State)
		if state != order.AdjustmentOpen && state != order.AdjustmentClosed {
			verrs.Add("state", errs.MsgInvalid)
		}
		changes.State = &state
	}
	return changes
}

// CreateAdjustment handles POST /adjustments.
func (s *Server) CreateAdjustment(c echo.Context) error {
	var payload adjustmentPayload
	if err := bindBody(c, "adjustment", &payload, "order_id", "label", "amount"); err != nil {
		return err
	}

	verrs := errs.NewValidationErrors()
	orderID := parseID(verrs, "order_id", payload.OrderID)
	attrs := payload.attributes(verrs)
	if err := verrs.Err(); err != nil {
		return err
	}

	adjustmentID := kernel.NewUUID()
	cmd, err := commands.NewAddAdjustmentCommand(orderID, adjustmentID, attrs)
	if err != nil {
		return err
	}
	o, err := s.commands.AddAdjustment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeAdjustment(c, http.StatusCreated, o, adjustmentID)
}

// ShowAdjustment handles GET /adjustments/{id}.
func (s *Server) ShowAdjustment(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderChildQuery(order.ChildAdjustment, id)
	if err != nil {
		return err
	}
	o, err := s.queries.GetOrderChild.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	a, ok := o.Adjustment(id)
	if !ok {
		return errs.NewObjectNotFoundError("adjustment", id)
	}
	return writeResource(c, http.StatusOK, resource.Adjustment(o.ID(), a))
}

// UpdateAdjustment handles PATCH /adjustments/{id}.
func (s *Server) UpdateAdjustment(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var payload adjustmentPayload
	if err := bindBody(c, "adjustment", &payload); err != nil {
		return err
	}

	verrs := errs.NewValidationErrors()
	changes := payload.changes(verrs)
	if err := verrs.Err(); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateAdjustmentCommand(id, changes)
	if err != nil {
		return err
	}
	o, err := s.commands.UpdateAdjustment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeAdjustment(c, http.StatusOK, o, id)
}

// DeleteAdjustment handles DELETE /adjustments/{id}.
func (s *Server) DeleteAdjustment(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewRemoveAdjustmentCommand(id)
	if err != nil {
		return err
	}
	if _, err := s.commands.RemoveAdjustment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func writeAdjustment(c echo.Context, status int, o *order.Order, id kernel.UUID) error {
	a, ok := o.Adjustment(id)
	if !ok {
		return errs.NewObjectNotFoundError("adjustment", id)
	}
	return writeResource(c, status, resource.Adjustment(o.ID(), a))
}
