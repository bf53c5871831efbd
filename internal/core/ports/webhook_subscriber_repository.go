package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/webhook"
)

type WebhookSubscriberRepository interface {
	Add(ctx context.Context, subscriber *webhook.Subscriber) error
	Update(ctx context.Context, subscriber *webhook.Subscriber) error
	Get(ctx context.Context, id kernel.UUID) (*webhook.Subscriber, error)
	Delete(ctx context.Context, id kernel.UUID) error
	List(ctx context.Context, page Pagination) ([]*webhook.Subscriber, int, error)

	// ListActive returns the subscribers eligible for delivery.
	ListActive(ctx context.Context) ([]*webhook.Subscriber, error)
}
