package commands

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrUpdateAddressCommandIsNotConstructed = errors.New(
	"UpdateAddressCommand must be created via NewUpdateAddressCommand constructor",
)

// UpdateAddressCommand replaces the attributes of an address book entry.
// A non-nil owner restricts the change to that user's addresses; the entry
// always keeps its user.
type UpdateAddressCommand struct { //nolint:recvcheck //using for validation
	addressID kernel.UUID
	attrs     address.Attributes
	owner     *kernel.UUID

	guard guard.ConstructorGuard
}

func NewUpdateAddressCommand(
	addressID kernel.UUID,
	attrs address.Attributes,
	owner *kernel.UUID,
) (UpdateAddressCommand, error) {
	if err := addressID.Validate(); err != nil {
		return UpdateAddressCommand{}, err
	}
	return UpdateAddressCommand{
		addressID: addressID,
		attrs:     attrs,
		owner:     owner,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateAddressCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAddressCommandIsNotConstructed)
}

func (c UpdateAddressCommand) AddressID() kernel.UUID         { return c.addressID }
func (c UpdateAddressCommand) Attributes() address.Attributes { return c.attrs }
func (c UpdateAddressCommand) Owner() *kernel.UUID            { return c.owner }

type UpdateAddressCommandHandler struct {
	uowFactory AddressUoWFactory
}

func NewUpdateAddressCommandHandler(uowFactory AddressUoWFactory) UpdateAddressCommandHandler {
	return UpdateAddressCommandHandler{uowFactory: uowFactory}
}

func (h *UpdateAddressCommandHandler) Handle(ctx context.Context, cmd UpdateAddressCommand) (*address.Address, error) {
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

	repo := uow.AddressRepository()
	a, err := ownedAddress(ctx, repo, cmd.AddressID(), cmd.Owner())
	if err != nil {
		return nil, err
	}

	attrs := cmd.Attributes()
	attrs.UserID = a.Attributes().UserID
	if err = a.Update(attrs); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, a); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

type addressGetter interface {
	Get(ctx context.Context, id kernel.UUID) (*address.Address, error)
}

// ownedAddress loads an address book entry. Entries of another user than a
// non-nil owner are reported as not found.
func ownedAddress(ctx context.Context, repo addressGetter, id kernel.UUID, owner *kernel.UUID) (*address.Address, error) {
	a, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !address.OwnedBy(a, owner) {
		return nil, errs.NewObjectNotFoundError("address", id)
	}
	return a, nil
}
