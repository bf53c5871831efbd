package queries

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// OrderFilter narrows an order listing. Empty fields do not filter.
type OrderFilter struct {
	State  string
	Email  string
	Number string
}

// ListOrdersQuery reads one page of orders, newest first.
//
// Example:
//
//	query, err := NewListOrdersQuery(2, 50, OrderFilter{State: "complete"})
//	if err != nil {
//	    return fmt.Errorf("invalid listing: %w", err)
//	}
//	page, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	filter ports.ListOrdersFilter

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(page, perPage int, filter OrderFilter) (ListOrdersQuery, error) {
	pagination, err := newPagination(page, perPage)
	if err != nil {
		return ListOrdersQuery{}, err
	}

	f := ports.ListOrdersFilter{
		Email:      strings.ToLower(strings.TrimSpace(filter.Email)),
		Number:     strings.TrimSpace(filter.Number),
		Pagination: pagination,
	}
	if s := strings.TrimSpace(filter.State); s != "" {
		if f.State, err = order.ParseState(s); err != nil {
			return ListOrdersQuery{}, err
		}
	}

	return ListOrdersQuery{filter: f, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() ports.ListOrdersFilter { return q.filter }
