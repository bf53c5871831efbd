// Package ports defines the contracts between the application core and its
// adapters: repositories for each aggregate, the unit of work that binds
// them to one transaction, the per-order lock and the event publisher.
package ports

import (
	"context"
	"math"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// Pagination selects one page of a listing. Page is 1-based.
type Pagination struct {
	Page    int
	PerPage int
}

// Offset is the number of rows preceding the page. It saturates at
// math.MaxInt instead of overflowing.
func (p Pagination) Offset() int {
	if p.Page < 1 || p.PerPage <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

// ListOrdersFilter narrows an order listing. Zero fields do not filter.
type ListOrdersFilter struct {
	State  order.State
	Email  string
	Number string
	Pagination
}

// OrderRepository defines the persistence contract for order aggregates.
// An order is always loaded and stored whole: line items, adjustments,
// shipments, payments and both addresses travel with it.
type OrderRepository interface {
	// Add persists a new order aggregate.
	// Fails when the order or any of its children ids is already stored.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the current state of an existing order, including
	// children that were added or removed since it was loaded.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id. Returns errs.ErrObjectNotFound when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByChild retrieves the order owning the child of kind with id.
	GetByChild(ctx context.Context, kind order.ChildKind, id kernel.UUID) (*order.Order, error)

	// Delete removes the order with every child. The aggregate is tracked so
	// its order.deleted event is published on commit.
	Delete(ctx context.Context, aggregate *order.Order) error

	// List returns one page of orders, newest first, and the total number of
	// orders matching the filter.
	List(ctx context.Context, filter ListOrdersFilter) ([]*order.Order, int, error)
}
