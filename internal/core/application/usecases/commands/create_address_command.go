package commands

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrCreateAddressCommandIsNotConstructed = errors.New(
	"CreateAddressCommand must be created via NewCreateAddressCommand constructor",
)

// CreateAddressCommand adds an address to the address book of attrs.UserID.
type CreateAddressCommand struct { //nolint:recvcheck //using for validation
	addressID kernel.UUID
	attrs     address.Attributes

	guard guard.ConstructorGuard
}

func NewCreateAddressCommand(addressID kernel.UUID, attrs address.Attributes) (CreateAddressCommand, error) {
	var owner error
	if attrs.UserID == nil {
		owner = errs.NewValueIsRequiredError("user_id")
	}
	if err := errors.Join(addressID.Validate(), owner); err != nil {
		return CreateAddressCommand{}, err
	}

	return CreateAddressCommand{
		addressID: addressID,
		attrs:     attrs,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CreateAddressCommand) Validate() error {
	return c.guard.Validate(ErrCreateAddressCommandIsNotConstructed)
}

func (c CreateAddressCommand) AddressID() kernel.UUID         { return c.addressID }
func (c CreateAddressCommand) Attributes() address.Attributes { return c.attrs }

type CreateAddressCommandHandler struct {
	uowFactory AddressUoWFactory
}

func NewCreateAddressCommandHandler(uowFactory AddressUoWFactory) CreateAddressCommandHandler {
	return CreateAddressCommandHandler{uowFactory: uowFactory}
}

func (h *CreateAddressCommandHandler) Handle(ctx context.Context, cmd CreateAddressCommand) (*address.Address, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	a, err := address.NewAddress(cmd.AddressID(), cmd.Attributes())
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

	if err = uow.AddressRepository().Add(ctx, a); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return a, nil
}
