package commands

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

type AddLineItemCommandHandler struct {
	writer  orderWriter
	machine services.OrderStateMachine
}

func NewAddLineItemCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.OrderLocker,
	machine services.OrderStateMachine,
) AddLineItemCommandHandler {
	return AddLineItemCommandHandler{
		writer:  orderWriter{uowFactory: uowFactory, locker: locker},
		machine: machine,
	}
}

// Handle returns the updated order and the line item holding the variant.
func (h *AddLineItemCommandHandler) Handle(
	ctx context.Context,
	cmd AddLineItemCommand,
) (*order.Order, *order.LineItem, error) {
	if err := cmd.Validate(); err != nil {
		return nil, nil, err
	}

	var added *order.LineItem
	o, err := h.writer.update(ctx, cmd.OrderID(), func(ctx context.Context, uow OrderUoW, o *order.Order) error {
		variant, err := uow.VariantRepository().Get(ctx, cmd.VariantID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			verrs := errs.NewValidationErrors()
			verrs.Add("variant_id", errs.MsgNotFound)
			return verrs
		}
		if err != nil {
			return err
		}

		li, err := order.NewLineItem(kernel.NewUUID(), variant.ID(), cmd.Quantity(), variant.Price(), variant.Currency())
		if err != nil {
			return err
		}
		if added, err = o.AddLineItem(li); err != nil {
			return err
		}
		return recomputeAndTouch(h.machine, o)
	})
	if err != nil {
		return nil, nil, err
	}
	return o, added, nil
}
