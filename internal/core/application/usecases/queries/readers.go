// Package queries contains read operations. Queries never take the order
// lock: a listing is a snapshot of whatever the store has committed.
package queries

import (
	"context"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/core/ports"
)

// Read-side views of the repositories.
type (
	OrderReader interface {
		Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
		List(ctx context.Context, filter ports.ListOrdersFilter) ([]*order.Order, int, error)
		GetByChild(ctx context.Context, kind order.ChildKind, id kernel.UUID) (*order.Order, error)
	}

	AddressReader interface {
		Get(ctx context.Context, id kernel.UUID) (*address.Address, error)
		List(ctx context.Context, filter ports.ListAddressesFilter) ([]*address.Address, int, error)
	}

	ShippingMethodReader interface {
		Get(ctx context.Context, id kernel.UUID) (*shipping.ShippingMethod, error)
		List(ctx context.Context, page ports.Pagination) ([]*shipping.ShippingMethod, int, error)
	}

	WebhookSubscriberReader interface {
		Get(ctx context.Context, id kernel.UUID) (*webhook.Subscriber, error)
		List(ctx context.Context, page ports.Pagination) ([]*webhook.Subscriber, int, error)
	}
)
