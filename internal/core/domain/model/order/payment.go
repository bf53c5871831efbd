package order

import (
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentCheckout   PaymentStatus = "checkout"
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentVoid       PaymentStatus = "void"
	PaymentInvalid    PaymentStatus = "invalid"
)

func (s PaymentStatus) IsValid() bool {
	return s != PaymentFailed && s != PaymentVoid && s != PaymentInvalid
}

// Payment is an amount tendered against an order with one payment method.
type Payment struct {
	id       kernel.UUID
	number   string
	methodID kernel.UUID
	amount   decimal.Decimal
	refunded decimal.Decimal
	state    PaymentStatus
}

func NewPayment(id, methodID kernel.UUID, amount decimal.Decimal) (*Payment, error) {
	var errAmount, errMethod error
	if amount.IsNegative() {
		errAmount = errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", amount))
	}
	if methodID.IsZero() {
		errMethod = errs.NewValueIsRequiredError("payment_method_id")
	}
	if err := errors.Join(id.Validate(), errMethod, errAmount); err != nil {
		return nil, err
	}

	return &Payment{
		id:       id,
		number:   kernel.GenerateCode("P", 8),
		methodID: methodID,
		amount:   kernel.RoundMoney(amount),
		state:    PaymentCheckout,
	}, nil
}

// RestorePayment rebuilds a persisted payment without validation.
func RestorePayment(id kernel.UUID, number string, methodID kernel.UUID, amount, refunded decimal.Decimal,
	state PaymentStatus,
) *Payment {
	return &Payment{id: id, number: number, methodID: methodID, amount: amount, refunded: refunded, state: state}
}

func (p *Payment) ID() kernel.UUID              { return p.id }
func (p *Payment) Number() string               { return p.number }
func (p *Payment) PaymentMethodID() kernel.UUID { return p.methodID }
func (p *Payment) Amount() decimal.Decimal      { return p.amount }
func (p *Payment) Refunded() decimal.Decimal    { return p.refunded }
func (p *Payment) State() PaymentStatus         { return p.state }

// Captured is the amount this payment contributes to payment_total.
func (p *Payment) Captured() decimal.Decimal {
	if p.state != PaymentCompleted {
		return decimal.Zero
	}
	return p.amount.Sub(p.refunded)
}

// IsCapturable reports whether the gateway may still capture the payment.
func (p *Payment) IsCapturable() bool {
	return p.state == PaymentCheckout || p.state == PaymentPending || p.state == PaymentProcessing
}

func (p *Payment) complete() error {
	if !p.IsCapturable() {
		return errs.NewStateTransitionError(string(p.state), string(PaymentCompleted), "payment is not capturable")
	}
	p.state = PaymentCompleted
	return nil
}

func (p *Payment) fail() {
	if p.IsCapturable() {
		p.state = PaymentFailed
	}
}

func (p *Payment) void() {
	if p.IsCapturable() {
		p.state = PaymentVoid
	}
}

func (p *Payment) refund() {
	if p.state == PaymentCompleted {
		p.refunded = p.amount
	}
}

func (p *Payment) clone() *Payment {
	c := *p
	return &c
}
