// Package http exposes the order lifecycle over the platform REST API.
package http

import (
	"log/slog"
	"net/http"

	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// Commands are the write use cases served by the API.
type Commands struct {
	CreateOrder        commands.CreateOrderCommandHandler
	UpdateOrder        commands.UpdateOrderCommandHandler
	DeleteOrder        commands.DeleteOrderCommandHandler
	TransitionOrder    commands.TransitionOrderCommandHandler
	CancelOrder        commands.CancelOrderCommandHandler
	ApproveOrder       commands.ApproveOrderCommandHandler
	UpdateOrderAddress commands.UpdateOrderAddressCommandHandler
	ApplyCouponCode    commands.ApplyCouponCodeCommandHandler

	AddLineItem    commands.AddLineItemCommandHandler
	UpdateLineItem commands.UpdateLineItemCommandHandler
	RemoveLineItem commands.RemoveLineItemCommandHandler

	AddAdjustment    commands.AddAdjustmentCommandHandler
	UpdateAdjustment commands.UpdateAdjustmentCommandHandler
	RemoveAdjustment commands.RemoveAdjustmentCommandHandler

	AddPayment           commands.AddPaymentCommandHandler
	SelectShippingMethod commands.SelectShippingMethodCommandHandler
	ShipShipment         commands.ShipShipmentCommandHandler

	CreateShippingMethod commands.CreateShippingMethodCommandHandler
	UpdateShippingMethod commands.UpdateShippingMethodCommandHandler
	DeleteShippingMethod commands.DeleteShippingMethodCommandHandler

	CreateWebhookSubscriber commands.CreateWebhookSubscriberCommandHandler
	UpdateWebhookSubscriber commands.UpdateWebhookSubscriberCommandHandler
	DeleteWebhookSubscriber commands.DeleteWebhookSubscriberCommandHandler

	CreateAddress commands.CreateAddressCommandHandler
	UpdateAddress commands.UpdateAddressCommandHandler
	DeleteAddress commands.DeleteAddressCommandHandler
}

// Queries are the read use cases served by the API.
type Queries struct {
	GetOrder               queries.GetOrderQueryHandler
	ListOrders             queries.ListOrdersQueryHandler
	GetOrderChild          queries.GetOrderChildQueryHandler
	GetShippingMethod      queries.GetShippingMethodQueryHandler
	ListShippingMethods    queries.ListShippingMethodsQueryHandler
	GetWebhookSubscriber   queries.GetWebhookSubscriberQueryHandler
	ListWebhookSubscribers queries.ListWebhookSubscribersQueryHandler
	GetAddress             queries.GetAddressQueryHandler
	ListAddresses          queries.ListAddressesQueryHandler
}

// Server implements the platform API endpoints on top of the use cases.
type Server struct {
	commands        Commands
	queries         Queries
	defaultCurrency string
	logger          *slog.Logger
}

func NewServer(cmds Commands, qs Queries, defaultCurrency string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		commands:        cmds,
		queries:         qs,
		defaultCurrency: defaultCurrency,
		logger:          logger.With("component", "http"),
	}
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

func writeResource(c echo.Context, status int, r resource.Resource) error {
	return c.JSON(status, resource.Encode(r))
}

func writeCollection[T any](c echo.Context, page queries.Page[T], encode func([]T) []resource.Resource) error {
	return c.JSON(http.StatusOK, resource.EncodeCollection(
		encode(page.Items),
		resource.Page{Number: page.Number, PerPage: page.PerPage, TotalCount: page.TotalCount},
		c.Request().URL,
	))
}
