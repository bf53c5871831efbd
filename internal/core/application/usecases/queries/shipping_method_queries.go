package queries

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/guard"
)

var (
	ErrListShippingMethodsQueryIsNotConstructed = errors.New(
		"ListShippingMethodsQuery must be created via NewListShippingMethodsQuery constructor",
	)
	ErrGetShippingMethodQueryIsNotConstructed = errors.New(
		"GetShippingMethodQuery must be created via NewGetShippingMethodQuery constructor",
	)
)

// ListShippingMethodsQuery reads one page of shipping methods ordered by name.
type ListShippingMethodsQuery struct {
	pagination ports.Pagination

	guard guard.ConstructorGuard
}

func NewListShippingMethodsQuery(page, perPage int) (ListShippingMethodsQuery, error) {
	pagination, err := newPagination(page, perPage)
	if err != nil {
		return ListShippingMethodsQuery{}, err
	}
	return ListShippingMethodsQuery{pagination: pagination, guard: guard.NewConstructorGuard()}, nil
}

func (q ListShippingMethodsQuery) Validate() error {
	return q.guard.Validate(ErrListShippingMethodsQueryIsNotConstructed)
}

func (q ListShippingMethodsQuery) Pagination() ports.Pagination { return q.pagination }

type ListShippingMethodsQueryHandler struct {
	methods ShippingMethodReader
}

func NewListShippingMethodsQueryHandler(methods ShippingMethodReader) ListShippingMethodsQueryHandler {
	return ListShippingMethodsQueryHandler{methods: methods}
}

func (h ListShippingMethodsQueryHandler) Handle(
	ctx context.Context,
	query ListShippingMethodsQuery,
) (Page[*shipping.ShippingMethod], error) {
	if err := query.Validate(); err != nil {
		return Page[*shipping.ShippingMethod]{}, err
	}

	methods, total, err := h.methods.List(ctx, query.Pagination())
	if err != nil {
		return Page[*shipping.ShippingMethod]{}, err
	}
	return newPage(methods, query.Pagination(), total), nil
}

type GetShippingMethodQuery struct {
	shippingMethodID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetShippingMethodQuery(shippingMethodID kernel.UUID) (GetShippingMethodQuery, error) {
	if err := shippingMethodID.Validate(); err != nil {
		return GetShippingMethodQuery{}, err
	}
	return GetShippingMethodQuery{shippingMethodID: shippingMethodID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShippingMethodQuery) Validate() error {
	return q.guard.Validate(ErrGetShippingMethodQueryIsNotConstructed)
}

func (q GetShippingMethodQuery) ShippingMethodID() kernel.UUID { return q.shippingMethodID }

type GetShippingMethodQueryHandler struct {
	methods ShippingMethodReader
}

func NewGetShippingMethodQueryHandler(methods ShippingMethodReader) GetShippingMethodQueryHandler {
	return GetShippingMethodQueryHandler{methods: methods}
}

func (h GetShippingMethodQueryHandler) Handle(
	ctx context.Context,
	query GetShippingMethodQuery,
) (*shipping.ShippingMethod, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.methods.Get(ctx, query.ShippingMethodID())
}
