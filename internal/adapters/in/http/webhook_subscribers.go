package http

import (
	"net/http"

	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/webhook"

	"github.com/labstack/echo/v4"
)

type subscriberPayload struct {
	URL           *string  `json:"url"`
	Active        *bool    `json:"active"`
	Subscriptions []string `json:"subscriptions"`
}

// ListWebhookSubscribers handles GET /webhook_subscribers.
func (s *Server) ListWebhookSubscribers(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	number, perPage := page.values()
	query, err := queries.NewListWebhookSubscribersQuery(number, perPage)
	if err != nil {
		return err
	}
	result, err := s.queries.ListWebhookSubscribers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return writeCollection(c, result, resource.WebhookSubscribers)
}

// ShowWebhookSubscriber handles GET /webhook_subscribers/{id}.
func (s *Server) ShowWebhookSubscriber(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	query, err := queries.NewGetWebhookSubscriberQuery(id)
	if err != nil {
		return err
	}
	sub, err := s.queries.GetWebhookSubscriber.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.WebhookSubscriber(sub))
}

// CreateWebhookSubscriber handles POST /webhook_subscribers. New
// subscribers are inactive unless the payload says otherwise.
func (s *Server) CreateWebhookSubscriber(c echo.Context) error {
	var payload subscriberPayload
	if err := bindBody(c, "subscriber", &payload, "url"); err != nil {
		return err
	}

	attrs := webhook.Attributes{
		URL:           deref(payload.URL),
		Active:        payload.Active != nil && *payload.Active,
		Subscriptions: payload.Subscriptions,
	}
	cmd, err := commands.NewCreateWebhookSubscriberCommand(kernel.NewUUID(), attrs)
	if err != nil {
		return err
	}
	sub, err := s.commands.CreateWebhookSubscriber.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusCreated, resource.WebhookSubscriber(sub))
}

// UpdateWebhookSubscriber handles PATCH /webhook_subscribers/{id}.
func (s *Server) UpdateWebhookSubscriber(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var payload subscriberPayload
	if err := bindBody(c, "subscriber", &payload); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateWebhookSubscriberCommand(id, commands.WebhookSubscriberChanges{
		URL:           payload.URL,
		Active:        payload.Active,
		Subscriptions: payload.Subscriptions,
	})
	if err != nil {
		return err
	}
	sub, err := s.commands.UpdateWebhookSubscriber.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return writeResource(c, http.StatusOK, resource.WebhookSubscriber(sub))
}

// DeleteWebhookSubscriber handles DELETE /webhook_subscribers/{id}.
func (s *Server) DeleteWebhookSubscriber(c echo.Context) error {
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteWebhookSubscriberCommand(id)
	if err != nil {
		return err
	}
	if err := s.commands.DeleteWebhookSubscriber.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
