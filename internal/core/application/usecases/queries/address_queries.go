package queries

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var (
	ErrListAddressesQueryIsNotConstructed = errors.New(
		"ListAddressesQuery must be created via NewListAddressesQuery constructor",
	)
	ErrGetAddressQueryIsNotConstructed = errors.New(
		"GetAddressQuery must be created via NewGetAddressQuery constructor",
	)
)

// ListAddressesQuery reads one page of the address book. A nil owner lists
// the addresses of every user.
type ListAddressesQuery struct {
	pagination ports.Pagination
	owner      *kernel.UUID

	guard guard.ConstructorGuard
}

func NewListAddressesQuery(page, perPage int, owner *kernel.UUID) (ListAddressesQuery, error) {
	pagination, err := newPagination(page, perPage)
	if err != nil {
		return ListAddressesQuery{}, err
	}
	if owner != nil {
		if err = owner.Validate(); err != nil {
			return ListAddressesQuery{}, err
		}
	}
	return ListAddressesQuery{pagination: pagination, owner: owner, guard: guard.NewConstructorGuard()}, nil
}

func (q ListAddressesQuery) Validate() error {
	return q.guard.Validate(ErrListAddressesQueryIsNotConstructed)
}

func (q ListAddressesQuery) Pagination() ports.Pagination { return q.pagination }
func (q ListAddressesQuery) Owner() *kernel.UUID          { return q.owner }

type ListAddressesQueryHandler struct {
	addresses AddressReader
}

func NewListAddressesQueryHandler(addresses AddressReader) ListAddressesQueryHandler {
	return ListAddressesQueryHandler{addresses: addresses}
}

func (h ListAddressesQueryHandler) Handle(
	ctx context.Context,
	query ListAddressesQuery,
) (Page[*address.Address], error) {
	if err := query.Validate(); err != nil {
		return Page[*address.Address]{}, err
	}

	addresses, total, err := h.addresses.List(ctx, ports.ListAddressesFilter{
		UserID:     query.Owner(),
		Pagination: query.Pagination(),
	})
	if err != nil {
		return Page[*address.Address]{}, err
	}
	return newPage(addresses, query.Pagination(), total), nil
}

type GetAddressQuery struct {
	addressID kernel.UUID
	owner     *kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetAddressQuery(addressID kernel.UUID, owner *kernel.UUID) (GetAddressQuery, error) {
	if err := addressID.Validate(); err != nil {
		return GetAddressQuery{}, err
	}
	return GetAddressQuery{addressID: addressID, owner: owner, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAddressQuery) Validate() error {
	return q.guard.Validate(ErrGetAddressQueryIsNotConstructed)
}

func (q GetAddressQuery) AddressID() kernel.UUID { return q.addressID }
func (q GetAddressQuery) Owner() *kernel.UUID    { return q.owner }

// GetAddressQueryHandler loads one address book entry. Another user's entry
// is reported as not found.
type GetAddressQueryHandler struct {
	addresses AddressReader
}

func NewGetAddressQueryHandler(addresses AddressReader) GetAddressQueryHandler {
	return GetAddressQueryHandler{addresses: addresses}
}

func (h GetAddressQueryHandler) Handle(ctx context.Context, query GetAddressQuery) (*address.Address, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	a, err := h.addresses.Get(ctx, query.AddressID())
	if err != nil {
		return nil, err
	}
	if !address.OwnedBy(a, query.Owner()) {
		return nil, errs.NewObjectNotFoundError("address", query.AddressID())
	}
	return a, nil
}
