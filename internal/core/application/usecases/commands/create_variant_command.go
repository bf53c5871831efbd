package commands

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateVariantCommandIsNotConstructed = errors.New(
	"CreateVariantCommand must be created via NewCreateVariantCommand constructor",
)

// CreateVariantCommand seeds a purchasable variant.
type CreateVariantCommand struct { //nolint:recvcheck //using for validation
	variant *catalog.Variant

	guard guard.ConstructorGuard
}

func NewCreateVariantCommand(
	variantID kernel.UUID,
	sku, name string,
	price decimal.Decimal,
	currency string,
	digital bool,
) (CreateVariantCommand, error) {
	variant, err := catalog.NewVariant(variantID, sku, name, price, currency, digital)
	if err != nil {
		return CreateVariantCommand{}, err
	}
	return CreateVariantCommand{variant: variant, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateVariantCommand) Validate() error {
	return c.guard.Validate(ErrCreateVariantCommandIsNotConstructed)
}

func (c CreateVariantCommand) Variant() *catalog.Variant { return c.variant }

type CreateVariantCommandHandler struct {
	uowFactory VariantUoWFactory
}

func NewCreateVariantCommandHandler(uowFactory VariantUoWFactory) CreateVariantCommandHandler {
	return CreateVariantCommandHandler{uowFactory: uowFactory}
}

func (h *CreateVariantCommandHandler) Handle(ctx context.Context, cmd CreateVariantCommand) error {
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

	if err := uow.VariantRepository().Add(ctx, cmd.Variant()); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
