package queries

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/guard"
)

var ErrGetOrderChildQueryIsNotConstructed = errors.New(
	"GetOrderChildQuery must be created via NewGetOrderChildQuery constructor",
)

// GetOrderChildQuery looks up a line item, adjustment, shipment or payment by
// its own id.
type GetOrderChildQuery struct {
	kind    order.ChildKind
	childID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderChildQuery(kind order.ChildKind, childID kernel.UUID) (GetOrderChildQuery, error) {
	if err := childID.Validate(); err != nil {
		return GetOrderChildQuery{}, err
	}
	return GetOrderChildQuery{kind: kind, childID: childID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderChildQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderChildQueryIsNotConstructed)
}

func (q GetOrderChildQuery) Kind() order.ChildKind { return q.kind }
func (q GetOrderChildQuery) ChildID() kernel.UUID  { return q.childID }

// GetOrderChildQueryHandler returns the order owning the child. Callers pick
// the child out of it so the response can carry the order id.
type GetOrderChildQueryHandler struct {
	orders OrderReader
}

func NewGetOrderChildQueryHandler(orders OrderReader) GetOrderChildQueryHandler {
	return GetOrderChildQueryHandler{orders: orders}
}

func (h GetOrderChildQueryHandler) Handle(ctx context.Context, query GetOrderChildQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.orders.GetByChild(ctx, query.Kind(), query.ChildID())
}
