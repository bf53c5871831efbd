package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

var _ ports.OrderRepository = &OrderRepository{}

type OrderRepository struct {
	uow *UnitOfWork
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	err := r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.orders[aggregate.ID()]; ok {
			return fmt.Errorf("%w: order %s", ErrDuplicateID, aggregate.ID())
		}
		if err := r.uow.store.checkChildren(aggregate, staged); err != nil {
			return err
		}
		staged.orders[aggregate.ID()] = snapshot(aggregate)
		return nil
	})
	if err != nil {
		return err
	}

	r.uow.trackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	err := r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.orders[aggregate.ID()]; !ok {
			return errs.NewObjectNotFoundError("order", aggregate.ID())
		}
		if err := r.uow.store.checkChildren(aggregate, staged); err != nil {
			return err
		}
		staged.orders[aggregate.ID()] = snapshot(aggregate)
		return nil
	})
	if err != nil {
		return err
	}

	r.uow.trackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	var found *order.Order
	r.uow.read(func(v *changeSet) {
		if o, ok := v.orders[id]; ok {
			found = o.Clone()
		}
	})
	if found == nil {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return found, nil
}

func (r *OrderRepository) GetByChild(_ context.Context, kind order.ChildKind, id kernel.UUID) (*order.Order, error) {
	var found *order.Order
	r.uow.readStaged(func(staged *changeSet) {
		if o := r.uow.store.ownerOf(id, staged.orders); o != nil && o.Contains(kind, id) {
			found = o.Clone()
		}
	})
	if found == nil {
		return nil, errs.NewObjectNotFoundError(string(kind), id)
	}
	return found, nil
}

func (r *OrderRepository) Delete(_ context.Context, aggregate *order.Order) error {
	err := r.uow.write(func(v, staged *changeSet) error {
		if _, ok := v.orders[aggregate.ID()]; !ok {
			return errs.NewObjectNotFoundError("order", aggregate.ID())
		}
		staged.orders[aggregate.ID()] = nil
		return nil
	})
	if err != nil {
		return err
	}

	r.uow.trackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *OrderRepository) List(_ context.Context, filter ports.ListOrdersFilter) ([]*order.Order, int, error) {
	var matching []*order.Order
	r.uow.read(func(v *changeSet) {
		for _, o := range v.orders {
			if matches(o, filter) {
				matching = append(matching, o)
			}
		}
	})

	slices.SortFunc(matching, func(a, b *order.Order) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})

	page := paginate(matching, filter.Pagination)
	orders := make([]*order.Order, 0, len(page))
	for _, o := range page {
		orders = append(orders, o.Clone())
	}
	return orders, len(matching), nil
}

func matches(o *order.Order, filter ports.ListOrdersFilter) bool {
	if filter.State != order.Unknown && o.State() != filter.State {
		return false
	}
	if filter.Email != "" && strings.ToLower(o.Email()) != filter.Email {
		return false
	}
	if filter.Number != "" && o.Number() != filter.Number {
		return false
	}
	return true
}

// paginate cuts one page out of items. A non-positive PerPage returns
// everything from the offset on.
func paginate[T any](items []T, p ports.Pagination) []T {
	start := max(0, min(p.Offset(), len(items)))
	if p.PerPage <= 0 {
		return items[start:]
	}
	end := min(start+p.PerPage, len(items))
	return items[start:end]
}
