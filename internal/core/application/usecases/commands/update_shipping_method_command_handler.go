package commands

import (
	"context"

	"storefront/internal/core/domain/model/shipping"
)

// UpdateShippingMethodCommandHandler changes a shipping method. Rates
// already quoted on shipments keep their cost.
type UpdateShippingMethodCommandHandler struct {
	uowFactory ShippingMethodUoWFactory
}

func NewUpdateShippingMethodCommandHandler(uowFactory ShippingMethodUoWFactory) UpdateShippingMethodCommandHandler {
	return UpdateShippingMethodCommandHandler{uowFactory: uowFactory}
}

func (h *UpdateShippingMethodCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateShippingMethodCommand,
) (*shipping.ShippingMethod, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShippingMethodRepository()
	method, err := repo.Get(ctx, cmd.ShippingMethodID())
	if err != nil {
		return nil, err
	}

	changes := cmd.Changes()
	calculator, err := changes.calculator(method.Calculator())
	if err != nil {
		return nil, err
	}
	if err = method.Update(changes.applyTo(method.Attributes()), calculator); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, method); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return method, nil
}
