package http

import (
	"net/http"

	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type paymentPayload struct {
	OrderID         string           `json:"order_id"`
	PaymentMethodID string           `json:"payment_method_id"`
	Amount          *decimal.Decimal `json:"amount"`
}

// CreatePayment handles POST /payments. Without an amount the payment
// covers the outstanding balance.
func (s *Server) CreatePayment(c echo.Context) error {
	var payload paymentPayload
	if err := bindBody(c, "payment", &payload, "order_id", "payment_method_id"); err != nil {
		return err
	}

	verrs := errs.NewValidationErrors()
	orderID := parseID(verrs, "order_id", payload.OrderID)
	methodID := parseID(verrs, "payment_method_id", payload.PaymentMethodID)
	if err := verrs.Err(); err != nil {
		return err
	}

	paymentID := kernel.NewUUID()
	cmd, err := commands.NewAddPaymentCommand(orderID, paymentID, methodID, payload.Amount)
	if err != nil {
		return err
	}
	o, err := s.commands.AddPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	p, ok := o.Payment(paymentID)
	if !ok {
		return errs.NewObjectNotFoundError("payment", paymentID)
	}
	return writeResource(c, http.StatusCreated, resource.Payment(o.ID(), p))
}
