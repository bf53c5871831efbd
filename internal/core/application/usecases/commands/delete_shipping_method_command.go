package commands

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrDeleteShippingMethodCommandIsNotConstructed = errors.New(
	"DeleteShippingMethodCommand must be created via NewDeleteShippingMethodCommand constructor",
)

type DeleteShippingMethodCommand struct { //nolint:recvcheck //using for validation
	shippingMethodID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteShippingMethodCommand(shippingMethodID kernel.UUID) (DeleteShippingMethodCommand, error) {
	if err := shippingMethodID.Validate(); err != nil {
		return DeleteShippingMethodCommand{}, err
	}
	return DeleteShippingMethodCommand{shippingMethodID: shippingMethodID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteShippingMethodCommand) Validate() error {
	return c.guard.Validate(ErrDeleteShippingMethodCommandIsNotConstructed)
}

func (c DeleteShippingMethodCommand) ShippingMethodID() kernel.UUID { return c.shippingMethodID }

type DeleteShippingMethodCommandHandler struct {
	uowFactory ShippingMethodUoWFactory
}

func NewDeleteShippingMethodCommandHandler(uowFactory ShippingMethodUoWFactory) DeleteShippingMethodCommandHandler {
	return DeleteShippingMethodCommandHandler{uowFactory: uowFactory}
}

func (h *DeleteShippingMethodCommandHandler) Handle(ctx context.Context, cmd DeleteShippingMethodCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ShippingMethodRepository().Delete(ctx, cmd.ShippingMethodID()); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
