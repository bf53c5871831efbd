package queries

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/guard"
)

var (
	ErrListWebhookSubscribersQueryIsNotConstructed = errors.New(
		"ListWebhookSubscribersQuery must be created via NewListWebhookSubscribersQuery constructor",
	)
	ErrGetWebhookSubscriberQueryIsNotConstructed = errors.New(
		"GetWebhookSubscriberQuery must be created via NewGetWebhookSubscriberQuery constructor",
	)
)

// ListWebhookSubscribersQuery reads one page of subscribers, oldest first.
type ListWebhookSubscribersQuery struct {
	pagination ports.Pagination

	guard guard.ConstructorGuard
}

func NewListWebhookSubscribersQuery(page, perPage int) (ListWebhookSubscribersQuery, error) {
	pagination, err := newPagination(page, perPage)
	if err != nil {
		return ListWebhookSubscribersQuery{}, err
	}
	return ListWebhookSubscribersQuery{pagination: pagination, guard: guard.NewConstructorGuard()}, nil
}

func (q ListWebhookSubscribersQuery) Validate() error {
	return q.guard.Validate(ErrListWebhookSubscribersQueryIsNotConstructed)
}

func (q ListWebhookSubscribersQuery) Pagination() ports.Pagination { return q.pagination }

type ListWebhookSubscribersQueryHandler struct {
	subscribers WebhookSubscriberReader
}

func NewListWebhookSubscribersQueryHandler(subscribers WebhookSubscriberReader) ListWebhookSubscribersQueryHandler {
	return ListWebhookSubscribersQueryHandler{subscribers: subscribers}
}

func (h ListWebhookSubscribersQueryHandler) Handle(
	ctx context.Context,
	query ListWebhookSubscribersQuery,
) (Page[*webhook.Subscriber], error) {
	if err := query.Validate(); err != nil {
		return Page[*webhook.Subscriber]{}, err
	}

	subscribers, total, err := h.subscribers.List(ctx, query.Pagination())
	if err != nil {
		return Page[*webhook.Subscriber]{}, err
	}
	return newPage(subscribers, query.Pagination(), total), nil
}

type GetWebhookSubscriberQuery struct {
	subscriberID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetWebhookSubscriberQuery(subscriberID kernel.UUID) (GetWebhookSubscriberQuery, error) {
	if err := subscriberID.Validate(); err != nil {
		return GetWebhookSubscriberQuery{}, err
	}
	return GetWebhookSubscriberQuery{subscriberID: subscriberID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWebhookSubscriberQuery) Validate() error {
	return q.guard.Validate(ErrGetWebhookSubscriberQueryIsNotConstructed)
}

func (q GetWebhookSubscriberQuery) SubscriberID() kernel.UUID { return q.subscriberID }

type GetWebhookSubscriberQueryHandler struct {
	subscribers WebhookSubscriberReader
}

func NewGetWebhookSubscriberQueryHandler(subscribers WebhookSubscriberReader) GetWebhookSubscriberQueryHandler {
	return GetWebhookSubscriberQueryHandler{subscribers: subscribers}
}

func (h GetWebhookSubscriberQueryHandler) Handle(
	ctx context.Context,
	query GetWebhookSubscriberQuery,
) (*webhook.Subscriber, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.subscribers.Get(ctx, query.SubscriberID())
}
