package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/shipping"
)

type ShippingMethodRepository interface {
	Add(ctx context.Context, method *shipping.ShippingMethod) error
	Update(ctx context.Context, method *shipping.ShippingMethod) error
	Get(ctx context.Context, id kernel.UUID) (*shipping.ShippingMethod, error)
	Delete(ctx context.Context, id kernel.UUID) error

	// List returns one page of shipping methods ordered by name and the total count.
	List(ctx context.Context, page Pagination) ([]*shipping.ShippingMethod, int, error)

	// All returns every shipping method, used to quote shipments.
	All(ctx context.Context) ([]*shipping.ShippingMethod, error)
}
