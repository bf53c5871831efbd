package commands

import (
	"context"
	"errors"
	"slices"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/pkg/guard"
)

var ErrUpdateWebhookSubscriberCommandIsNotConstructed = errors.New(
	"UpdateWebhookSubscriberCommand must be created via NewUpdateWebhookSubscriberCommand constructor",
)

// WebhookSubscriberChanges lists the fields to change; nil fields are kept.
type WebhookSubscriberChanges struct {
	URL           *string
	Active        *bool
	Subscriptions []string
}

func (c WebhookSubscriberChanges) applyTo(attrs webhook.Attributes) webhook.Attributes {
	if c.URL != nil {
		attrs.URL = *c.URL
	}
	if c.Active != nil {
		attrs.Active = *c.Active
	}
	if c.Subscriptions != nil {
		attrs.Subscriptions = slices.Clone(c.Subscriptions)
	}
	return attrs
}

type UpdateWebhookSubscriberCommand struct { //nolint:recvcheck //using for validation
	subscriberID kernel.UUID
	changes      WebhookSubscriberChanges

	guard guard.ConstructorGuard
}

func NewUpdateWebhookSubscriberCommand(
	subscriberID kernel.UUID,
	changes WebhookSubscriberChanges,
) (UpdateWebhookSubscriberCommand, error) {
	if err := subscriberID.Validate(); err != nil {
		return UpdateWebhookSubscriberCommand{}, err
	}
	return UpdateWebhookSubscriberCommand{
		subscriberID: subscriberID,
		changes:      changes,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateWebhookSubscriberCommand) Validate() error {
	return c.guard.Validate(ErrUpdateWebhookSubscriberCommandIsNotConstructed)
}

func (c UpdateWebhookSubscriberCommand) SubscriberID() kernel.UUID         { return c.subscriberID }
func (c UpdateWebhookSubscriberCommand) Changes() WebhookSubscriberChanges { return c.changes }

type UpdateWebhookSubscriberCommandHandler struct {
	uowFactory WebhookSubscriberUoWFactory
}

func NewUpdateWebhookSubscriberCommandHandler(
	uowFactory WebhookSubscriberUoWFactory,
) UpdateWebhookSubscriberCommandHandler {
	return UpdateWebhookSubscriberCommandHandler{uowFactory: uowFactory}
}

func (h *UpdateWebhookSubscriberCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateWebhookSubscriberCommand,
) (*webhook.Subscriber, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.WebhookSubscriberRepository()
	subscriber, err := repo.Get(ctx, cmd.SubscriberID())
	if err != nil {
		return nil, err
	}
	if err = subscriber.Update(cmd.Changes().applyTo(subscriber.Attributes())); err != nil {
		return nil, err
	}
	if err = repo.Update(ctx, subscriber); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return subscriber, nil
}
