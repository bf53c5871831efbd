package cmd

import (
	"storefront/internal/adapters/in/http"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// CompositionRoot builds the use case handlers on top of one store.
type CompositionRoot struct {
	uowFactory ports.UnitOfWorkFactory
	reads      ports.UnitOfWork
	locker     ports.OrderLocker
	machine    services.OrderStateMachine
	coupons    services.CouponResolver
}

// NewCompositionRoot wires handlers to uowFactory for writes. Queries go
// through reads, a unit of work that is never begun.
func NewCompositionRoot(
	uowFactory ports.UnitOfWorkFactory,
	reads ports.UnitOfWork,
	locker ports.OrderLocker,
	gateway services.PaymentGateway,
	promotions services.Promotions,
) *CompositionRoot {
	return &CompositionRoot{
		uowFactory: uowFactory,
		reads:      reads,
		locker:     locker,
		machine:    services.NewOrderStateMachine(services.NewAdjustmentEngine(promotions), gateway),
		coupons:    promotions,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) shippingMethodUoWFactory() commands.ShippingMethodUoWFactory {
	return FuncShippingMethodUoWFactory(func() commands.ShippingMethodUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) webhookSubscriberUoWFactory() commands.WebhookSubscriberUoWFactory {
	return FuncWebhookSubscriberUoWFactory(func() commands.WebhookSubscriberUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) addressUoWFactory() commands.AddressUoWFactory {
	return FuncAddressUoWFactory(func() commands.AddressUoW {
		return c.uowFactory.Create()
	})
}

// HTTPCommands returns every write use case the API serves.
func (c *CompositionRoot) HTTPCommands() http.Commands {
	orders := c.orderUoWFactory()
	methods := c.shippingMethodUoWFactory()
	subscribers := c.webhookSubscriberUoWFactory()
	addresses := c.addressUoWFactory()

	return http.Commands{
		CreateOrder:        commands.NewCreateOrderCommandHandler(orders, c.machine),
		UpdateOrder:        commands.NewUpdateOrderCommandHandler(orders, c.locker, c.machine),
		DeleteOrder:        commands.NewDeleteOrderCommandHandler(orders, c.locker),
		TransitionOrder:    commands.NewTransitionOrderCommandHandler(orders, c.locker, c.machine),
		CancelOrder:        commands.NewCancelOrderCommandHandler(orders, c.locker, c.machine),
		ApproveOrder:       commands.NewApproveOrderCommandHandler(orders, c.locker, c.machine),
		UpdateOrderAddress: commands.NewUpdateOrderAddressCommandHandler(orders, c.locker, c.machine),
		ApplyCouponCode:    commands.NewApplyCouponCodeCommandHandler(orders, c.locker, c.machine, c.coupons),

		AddLineItem:    commands.NewAddLineItemCommandHandler(orders, c.locker, c.machine),
		UpdateLineItem: commands.NewUpdateLineItemCommandHandler(orders, c.locker, c.machine),
		RemoveLineItem: commands.NewRemoveLineItemCommandHandler(orders, c.locker, c.machine),

		AddAdjustment:    commands.NewAddAdjustmentCommandHandler(orders, c.locker, c.machine),
		UpdateAdjustment: commands.NewUpdateAdjustmentCommandHandler(orders, c.locker, c.machine),
		RemoveAdjustment: commands.NewRemoveAdjustmentCommandHandler(orders, c.locker, c.machine),

		AddPayment:           commands.NewAddPaymentCommandHandler(orders, c.locker, c.machine),
		SelectShippingMethod: commands.NewSelectShippingMethodCommandHandler(orders, c.locker, c.machine),
		ShipShipment:         commands.NewShipShipmentCommandHandler(orders, c.locker),

		CreateShippingMethod: commands.NewCreateShippingMethodCommandHandler(methods),
		UpdateShippingMethod: commands.NewUpdateShippingMethodCommandHandler(methods),
		DeleteShippingMethod: commands.NewDeleteShippingMethodCommandHandler(methods),

		CreateWebhookSubscriber: commands.NewCreateWebhookSubscriberCommandHandler(subscribers),
		UpdateWebhookSubscriber: commands.NewUpdateWebhookSubscriberCommandHandler(subscribers),
		DeleteWebhookSubscriber: commands.NewDeleteWebhookSubscriberCommandHandler(subscribers),

		CreateAddress: commands.NewCreateAddressCommandHandler(addresses),
		UpdateAddress: commands.NewUpdateAddressCommandHandler(addresses),
		DeleteAddress: commands.NewDeleteAddressCommandHandler(addresses),
	}
}

// HTTPQueries returns every read use case the API serves.
func (c *CompositionRoot) HTTPQueries() http.Queries {
	orders := c.reads.OrderRepository()
	methods := c.reads.ShippingMethodRepository()
	subscribers := c.reads.WebhookSubscriberRepository()
	addresses := c.reads.AddressRepository()

	return http.Queries{
		GetOrder:               queries.NewGetOrderQueryHandler(orders),
		ListOrders:             queries.NewListOrdersQueryHandler(orders),
		GetOrderChild:          queries.NewGetOrderChildQueryHandler(orders),
		GetShippingMethod:      queries.NewGetShippingMethodQueryHandler(methods),
		ListShippingMethods:    queries.NewListShippingMethodsQueryHandler(methods),
		GetWebhookSubscriber:   queries.NewGetWebhookSubscriberQueryHandler(subscribers),
		ListWebhookSubscribers: queries.NewListWebhookSubscribersQueryHandler(subscribers),
		GetAddress:             queries.NewGetAddressQueryHandler(addresses),
		ListAddresses:          queries.NewListAddressesQueryHandler(addresses),
	}
}

func (c *CompositionRoot) CreateCreateVariantCommandHandler() commands.CreateVariantCommandHandler {
	var f commands.VariantUoWFactory = FuncVariantUoWFactory(func() commands.VariantUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateVariantCommandHandler(f)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncShippingMethodUoWFactory func() commands.ShippingMethodUoW

func (f FuncShippingMethodUoWFactory) Create() commands.ShippingMethodUoW {
	return f()
}

type FuncWebhookSubscriberUoWFactory func() commands.WebhookSubscriberUoW

func (f FuncWebhookSubscriberUoWFactory) Create() commands.WebhookSubscriberUoW {
	return f()
}

type FuncAddressUoWFactory func() commands.AddressUoW

func (f FuncAddressUoWFactory) Create() commands.AddressUoW {
	return f()
}

type FuncVariantUoWFactory func() commands.VariantUoW

func (f FuncVariantUoWFactory) Create() commands.VariantUoW {
	return f()
}
