package commands

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/pkg/guard"
)

var ErrCreateWebhookSubscriberCommandIsNotConstructed = errors.New(
	"CreateWebhookSubscriberCommand must be created via NewCreateWebhookSubscriberCommand constructor",
)

type CreateWebhookSubscriberCommand struct { //nolint:recvcheck //using for validation
	subscriberID kernel.UUID
	attrs        webhook.Attributes

	guard guard.ConstructorGuard
}

func NewCreateWebhookSubscriberCommand(
	subscriberID kernel.UUID,
	attrs webhook.Attributes,
) (CreateWebhookSubscriberCommand, error) {
	if err := subscriberID.Validate(); err != nil {
		return CreateWebhookSubscriberCommand{}, err
	}
	return CreateWebhookSubscriberCommand{
		subscriberID: subscriberID,
		attrs:        attrs,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CreateWebhookSubscriberCommand) Validate() error {
	return c.guard.Validate(ErrCreateWebhookSubscriberCommandIsNotConstructed)
}

func (c CreateWebhookSubscriberCommand) SubscriberID() kernel.UUID      { return c.subscriberID }
func (c CreateWebhookSubscriberCommand) Attributes() webhook.Attributes { return c.attrs }

type CreateWebhookSubscriberCommandHandler struct {
	uowFactory WebhookSubscriberUoWFactory
}

func NewCreateWebhookSubscriberCommandHandler(
	uowFactory WebhookSubscriberUoWFactory,
) CreateWebhookSubscriberCommandHandler {
	return CreateWebhookSubscriberCommandHandler{uowFactory: uowFactory}
}

func (h *CreateWebhookSubscriberCommandHandler) Handle(
	ctx context.Context,
	cmd CreateWebhookSubscriberCommand,
) (*webhook.Subscriber, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	subscriber, err := webhook.NewSubscriber(cmd.SubscriberID(), cmd.Attributes())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.WebhookSubscriberRepository().Add(ctx, subscriber); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return subscriber, nil
}
