package commands

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrDeleteAddressCommandIsNotConstructed = errors.New(
	"DeleteAddressCommand must be created via NewDeleteAddressCommand constructor",
)

// DeleteAddressCommand removes an address book entry. A non-nil owner
// restricts the removal to that user's addresses.
type DeleteAddressCommand struct { //nolint:recvcheck //using for validation
	addressID kernel.UUID
	owner     *kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteAddressCommand(addressID kernel.UUID, owner *kernel.UUID) (DeleteAddressCommand, error) {
	if err := addressID.Validate(); err != nil {
		return DeleteAddressCommand{}, err
	}
	return DeleteAddressCommand{addressID: addressID, owner: owner, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteAddressCommand) Validate() error {
	return c.guard.Validate(ErrDeleteAddressCommandIsNotConstructed)
}

func (c DeleteAddressCommand) AddressID() kernel.UUID { return c.addressID }
func (c DeleteAddressCommand) Owner() *kernel.UUID    { return c.owner }

type DeleteAddressCommandHandler struct {
	uowFactory AddressUoWFactory
}

func NewDeleteAddressCommandHandler(uowFactory AddressUoWFactory) DeleteAddressCommandHandler {
	return DeleteAddressCommandHandler{uowFactory: uowFactory}
}

func (h *DeleteAddressCommandHandler) Handle(ctx context.Context, cmd DeleteAddressCommand) error {
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

	repo := uow.AddressRepository()
	if _, err := ownedAddress(ctx, repo, cmd.AddressID(), cmd.Owner()); err != nil {
		return err
	}
	if err := repo.Delete(ctx, cmd.AddressID()); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
