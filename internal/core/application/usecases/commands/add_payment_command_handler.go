package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"

	"github.com/shopspring/decimal"
)

type AddPaymentCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewAddPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) AddPaymentCommandHandler {
	return AddPaymentCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

func (h *AddPaymentCommandHandler) Handle(ctx context.Context, cmd AddPaymentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.writer.update(ctx, cmd.OrderID(), func(_ context.Context, _ OrderUoW, o *order.Order) error {
		amount := untendered(o)
		if cmd.Amount() != nil {
			amount = *cmd.Amount()
		}
		p, err := order.NewPayment(cmd.PaymentID(), cmd.PaymentMethodID(), amount)
		if err != nil {
			return err
		}
		if err = o.AddPayment(p); err != nil {
			return err
		}
		return recomputeAndTouch(h.machine, o)
	})
}

// untendered is the part of the total no valid payment accounts for yet.
func untendered(o *order.Order) decimal.Decimal {
	tendered := decimal.Zero
	for _, p := range o.Payments() {
		if p.State().IsValid() {
			tendered = tendered.Add(p.Amount().Sub(p.Refunded()))
		}
	}
	rest := o.Totals().Total.Sub(tendered)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}
