package resource

import (
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// EventPayload is the body POSTed to webhook subscribers and written to the
// order events topic.
type EventPayload struct {
	Event      string   `json:"event"`
	ID         string   `json:"id"`
	OccurredAt string   `json:"occurred_at"`
	Data       Resource `json:"data"`
}

// EncodeEvent renders e with its subject as a resource.
func EncodeEvent(e kernel.Event) ([]byte, error) {
	data, err := eventResource(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventPayload{
		Event:      e.Name,
		ID:         e.ID.String(),
		OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339Nano),
		Data:       data,
	})
}

func eventResource(e kernel.Event) (Resource, error) {
	switch subject := e.Subject.(type) {
	case *order.Order:
		return Order(subject), nil
	case *order.LineItem:
		return LineItem(e.AggregateID, subject), nil
	case *order.Adjustment:
		return Adjustment(e.AggregateID, subject), nil
	case *order.Shipment:
		return Shipment(e.AggregateID, subject), nil
	case *order.Payment:
		return Payment(e.AggregateID, subject), nil
	case *address.Address:
		return Address(subject), nil
	default:
		return Resource{}, fmt.Errorf("event %s: unsupported subject %T", e.Name, e.Subject)
	}
}
