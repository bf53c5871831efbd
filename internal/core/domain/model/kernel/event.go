package kernel

import "time"

// Event is a lifecycle notification raised by an aggregate, named
// "<resource>.<action>" (for example "order.completed").
// Subject is a snapshot of the resource at the time the event was raised.
// AggregateID is the aggregate root the resource belongs to.
type Event struct {
	ID          UUID
	AggregateID UUID
	Name        string
	OccurredAt  time.Time
	Subject     any
}

func NewEvent(name string, subject any) Event {
	return Event{
		ID:         NewUUID(),
		Name:       name,
		OccurredAt: Now(),
		Subject:    subject,
	}
}
