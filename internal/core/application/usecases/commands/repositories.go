// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"storefront/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ShippingMethodRepoFactory interface {
		ShippingMethodRepository() ports.ShippingMethodRepository
	}

	WebhookSubscriberRepoFactory interface {
		WebhookSubscriberRepository() ports.WebhookSubscriberRepository
	}

	VariantRepoFactory interface {
		VariantRepository() ports.VariantRepository
	}

	AddressRepoFactory interface {
		AddressRepository() ports.AddressRepository
	}

	// OrderUoW manages transactions for operations on one order. Catalog
	// reads (variants, shipping methods) run in the same transaction.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		ShippingMethodRepoFactory
		VariantRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	ShippingMethodUoW interface {
		TxManager
		ShippingMethodRepoFactory
	}

	ShippingMethodUoWFactory interface {
		Create() ShippingMethodUoW
	}

	WebhookSubscriberUoW interface {
		TxManager
		WebhookSubscriberRepoFactory
	}

	WebhookSubscriberUoWFactory interface {
		Create() WebhookSubscriberUoW
	}

	VariantUoW interface {
		TxManager
		VariantRepoFactory
	}

	VariantUoWFactory interface {
		Create() VariantUoW
	}

	AddressUoW interface {
		TxManager
		AddressRepoFactory
	}

	AddressUoWFactory interface {
		Create() AddressUoW
	}
)
