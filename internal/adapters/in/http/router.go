package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"storefront/internal/adapters/in/http/openapi"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const platformPrefix = "/api/v2/platform"

// NewRouter mounts the server on a new echo instance. Every platform route
// requires a bearer token and a request that satisfies the API contract.
func NewRouter(s *Server, verifier TokenVerifier, doc *openapi3.T, logger *slog.Logger) (*echo.Echo, error) {
	if logger == nil {
		logger = slog.Default()
	}
	validator, err := openapi.RequestValidator(doc)
	if err != nil {
		return nil, fmt.Errorf("build request validator: %w", err)
	}
	openapi.Register(doc)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.GET("/health", s.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(platformPrefix, authenticate(verifier), validator)

	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.ShowOrder)
	api.PATCH("/orders/:id", s.UpdateOrder)
	api.DELETE("/orders/:id", s.DeleteOrder, requireAdmin)
	api.POST("/orders/:id/next", s.NextOrder)
	api.PATCH("/orders/:id/next", s.NextOrder)
	api.PATCH("/orders/:id/advance", s.AdvanceOrder)
	api.PATCH("/orders/:id/complete", s.CompleteOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.PATCH("/orders/:id/cancel", s.CancelOrder)
	api.PATCH("/orders/:id/approve", s.ApproveOrder, requireAdmin)
	api.PATCH("/orders/:id/bill_address", s.UpdateBillAddress)
	api.PATCH("/orders/:id/ship_address", s.UpdateShipAddress)
	api.PATCH("/orders/:id/apply_coupon_code", s.ApplyCouponCode)

	api.POST("/line_items", s.CreateLineItem)
	api.GET("/line_items/:id", s.ShowLineItem)
	api.PATCH("/line_items/:id", s.UpdateLineItem)
	api.DELETE("/line_items/:id", s.DeleteLineItem)

	api.POST("/adjustments", s.CreateAdjustment)
	api.GET("/adjustments/:id", s.ShowAdjustment)
	api.PATCH("/adjustments/:id", s.UpdateAdjustment)
	api.DELETE("/adjustments/:id", s.DeleteAdjustment)

	api.POST("/payments", s.CreatePayment)

	api.PATCH("/shipments/:id/select_shipping_method", s.SelectShippingMethod)
	api.PATCH("/shipments/:id/ship", s.ShipShipment)

	api.GET("/addresses", s.ListAddresses)
	api.POST("/addresses", s.CreateAddress)
	api.GET("/addresses/:id", s.ShowAddress)
	api.PATCH("/addresses/:id", s.UpdateAddress)
	api.DELETE("/addresses/:id", s.DeleteAddress)

	api.GET("/shipping_methods", s.ListShippingMethods)
	api.POST("/shipping_methods", s.CreateShippingMethod)
	api.GET("/shipping_methods/:id", s.ShowShippingMethod)
	api.PATCH("/shipping_methods/:id", s.UpdateShippingMethod)
	api.DELETE("/shipping_methods/:id", s.DeleteShippingMethod)

	subscribers := api.Group("/webhook_subscribers", requireAdmin)
	subscribers.GET("", s.ListWebhookSubscribers)
	subscribers.POST("", s.CreateWebhookSubscriber)
	subscribers.GET("/:id", s.ShowWebhookSubscriber)
	subscribers.PATCH("/:id", s.UpdateWebhookSubscriber)
	subscribers.DELETE("/:id", s.DeleteWebhookSubscriber)

	return e, nil
}
