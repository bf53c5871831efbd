package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

var _ ports.AddressRepository = &AddressRepository{}

type AddressRepository struct {
	uow *UnitOfWork
}

func (r *AddressRepository) Add(_ context.Context, a *address.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.addresses[a.ID()]; ok {
			return fmt.Errorf("%w: address %s", ErrDuplicateID, a.ID())
		}
		if owner := r.uow.store.ownerOf(a.ID(), staged.orders); owner != nil {
			return fmt.Errorf("%w: address %s belongs to order %s", ErrDuplicateID, a.ID(), owner.Number())
		}
		staged.addresses[a.ID()] = a.Clone()
		return nil
	})
}

func (r *AddressRepository) Update(_ context.Context, a *address.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.addresses[a.ID()]; !ok {
			return errs.NewObjectNotFoundError("address", a.ID())
		}
		staged.addresses[a.ID()] = a.Clone()
		return nil
	})
}

func (r *AddressRepository) Get(_ context.Context, id kernel.UUID) (*address.Address, error) {
	var found *address.Address
	r.uow.read(func(v *changeSet) {
		if a, ok := v.addresses[id]; ok {
			found = a.Clone()
		}
	})
	if found == nil {
		return nil, errs.NewObjectNotFoundError("address", id)
	}
	return found, nil
}

func (r *AddressRepository) Delete(_ context.Context, id kernel.UUID) error {
	return r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.addresses[id]; !ok {
			return errs.NewObjectNotFoundError("address", id)
		}
		staged.addresses[id] = nil
		return nil
	})
}

func (r *AddressRepository) List(_ context.Context, filter ports.ListAddressesFilter) ([]*address.Address, int, error) {
	var matching []*address.Address
	r.uow.read(func(v *changeSet) {
		for _, a := range v.addresses {
			owner := a.Attributes().UserID
			if filter.UserID != nil && (owner == nil || !owner.IsEqual(*filter.UserID)) {
				continue
			}
			matching = append(matching, a)
		}
	})

	slices.SortFunc(matching, func(a, b *address.Address) int {
		x, y := a.Attributes(), b.Attributes()
		if c := cmp.Compare(x.LastName, y.LastName); c != 0 {
			return c
		}
		if c := cmp.Compare(x.FirstName, y.FirstName); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})

	page := paginate(matching, filter.Pagination)
	out := make([]*address.Address, 0, len(page))
	for _, a := range page {
		out = append(out, a.Clone())
	}
	return out, len(matching), nil
}
