package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage the transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and then publishes the events
	// recorded by every tracked aggregate. Nothing is published when the
	// commit fails.
	Commit(ctx context.Context) error

	// Rollback discards the current transaction. Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	ShippingMethodRepository() ShippingMethodRepository
	WebhookSubscriberRepository() WebhookSubscriberRepository
	VariantRepository() VariantRepository
	AddressRepository() AddressRepository
}

// EventSource is an aggregate recording domain events.
type EventSource interface {
	PullEvents() []kernel.Event
}

// EventPublisher hands committed domain events to interested parties.
// Publish must not block on delivery.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.Event)
}

// EventPublisherFunc adapts a function to EventPublisher.
type EventPublisherFunc func(ctx context.Context, events ...kernel.Event)

func (f EventPublisherFunc) Publish(ctx context.Context, events ...kernel.Event) {
	f(ctx, events...)
}

// FanOut publishes to every publisher in order.
type FanOut []EventPublisher

func (f FanOut) Publish(ctx context.Context, events ...kernel.Event) {
	for _, p := range f {
		if p != nil {
			p.Publish(ctx, events...)
		}
	}
}
