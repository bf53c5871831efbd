package commands

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrDeleteWebhookSubscriberCommandIsNotConstructed = errors.New(
	"DeleteWebhookSubscriberCommand must be created via NewDeleteWebhookSubscriberCommand constructor",
)

type DeleteWebhookSubscriberCommand struct { //nolint:recvcheck //using for validation
	subscriberID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteWebhookSubscriberCommand(subscriberID kernel.UUID) (DeleteWebhookSubscriberCommand, error) {
	if err := subscriberID.Validate(); err != nil {
		return DeleteWebhookSubscriberCommand{}, err
	}
	return DeleteWebhookSubscriberCommand{subscriberID: subscriberID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteWebhookSubscriberCommand) Validate() error {
	return c.guard.Validate(ErrDeleteWebhookSubscriberCommandIsNotConstructed)
}

func (c DeleteWebhookSubscriberCommand) SubscriberID() kernel.UUID { return c.subscriberID }

type DeleteWebhookSubscriberCommandHandler struct {
	uowFactory WebhookSubscriberUoWFactory
}

func NewDeleteWebhookSubscriberCommandHandler(
	uowFactory WebhookSubscriberUoWFactory,
) DeleteWebhookSubscriberCommandHandler {
	return DeleteWebhookSubscriberCommandHandler{uowFactory: uowFactory}
}

// Handle removes the subscriber. Deliveries already queued are still attempted.
func (h *DeleteWebhookSubscriberCommandHandler) Handle(ctx context.Context, cmd DeleteWebhookSubscriberCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.WebhookSubscriberRepository().Delete(ctx, cmd.SubscriberID()); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
