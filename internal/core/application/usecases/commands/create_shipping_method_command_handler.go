package commands

import (
	"context"

	"storefront/internal/core/domain/model/shipping"
)

type CreateShippingMethodCommandHandler struct {
	uowFactory ShippingMethodUoWFactory
}

func NewCreateShippingMethodCommandHandler(uowFactory ShippingMethodUoWFactory) CreateShippingMethodCommandHandler {
	return CreateShippingMethodCommandHandler{uowFactory: uowFactory}
}

func (h *CreateShippingMethodCommandHandler) Handle(
	ctx context.Context,
	cmd CreateShippingMethodCommand,
) (*shipping.ShippingMethod, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	method, err := shipping.NewShippingMethod(cmd.ShippingMethodID(), cmd.Attributes(), cmd.Calculator())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ShippingMethodRepository().Add(ctx, method); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return method, nil
}
