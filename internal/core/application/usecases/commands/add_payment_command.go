package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrAddPaymentCommandIsNotConstructed = errors.New(
	"AddPaymentCommand must be created via NewAddPaymentCommand constructor",
)

// AddPaymentCommand records a payment in checkout state. Without an amount
// the payment covers what is not yet tendered.
type AddPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	paymentID       kernel.UUID
	paymentMethodID kernel.UUID
	amount          *decimal.Decimal

	guard guard.ConstructorGuard
}

func NewAddPaymentCommand(
	orderID, paymentID, paymentMethodID kernel.UUID,
	amount *decimal.Decimal,
) (AddPaymentCommand, error) {
	var errAmount error
	if amount != nil && amount.IsNegative() {
		errAmount = errs.NewValueIsInvalidErrorWithCause("amount", errors.New("must not be negative"))
	}
	if err := errors.Join(
		orderID.Validate(),
		paymentID.Validate(),
		paymentMethodID.Validate(),
		errAmount,
	); err != nil {
		return AddPaymentCommand{}, err
	}

	return AddPaymentCommand{
		orderID:         orderID,
		paymentID:       paymentID,
		paymentMethodID: paymentMethodID,
		amount:          amount,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c AddPaymentCommand) Validate() error {
	return c.guard.Validate(ErrAddPaymentCommandIsNotConstructed)
}

func (c AddPaymentCommand) OrderID() kernel.UUID         { return c.orderID }
func (c AddPaymentCommand) PaymentID() kernel.UUID       { return c.paymentID }
func (c AddPaymentCommand) PaymentMethodID() kernel.UUID { return c.paymentMethodID }
func (c AddPaymentCommand) Amount() *decimal.Decimal     { return c.amount }
