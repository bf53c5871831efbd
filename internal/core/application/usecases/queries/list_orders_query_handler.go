package queries

import (
	"context"

	"storefront/internal/core/domain/model/order"
)

type ListOrdersQueryHandler struct {
	orders OrderReader
}

func NewListOrdersQueryHandler(orders OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{orders: orders}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (Page[*order.Order], error) {
	if err := query.Validate(); err != nil {
		return Page[*order.Order]{}, err
	}

	filter := query.Filter()
	orders, total, err := h.orders.List(ctx, filter)
	if err != nil {
		return Page[*order.Order]{}, err
	}
	return newPage(orders, filter.Pagination, total), nil
}
