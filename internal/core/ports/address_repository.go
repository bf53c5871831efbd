package ports

import (
	"context"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
)

// ListAddressesFilter narrows an address listing. A nil UserID lists the
// addresses of every user.
type ListAddressesFilter struct {
	UserID *kernel.UUID
	Pagination
}

// AddressRepository stores the addresses of a user's address book. Bill and
// ship addresses travel with their order instead.
type AddressRepository interface {
	// Add persists a new address. Fails when the id is already stored here
	// or as the address of an order.
	Add(ctx context.Context, a *address.Address) error
	Update(ctx context.Context, a *address.Address) error
	Get(ctx context.Context, id kernel.UUID) (*address.Address, error)
	Delete(ctx context.Context, id kernel.UUID) error

	// List returns one page of addresses ordered by last name, first name
	// and id, and the total count.
	List(ctx context.Context, filter ListAddressesFilter) ([]*address.Address, int, error)
}
