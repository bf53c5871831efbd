package webhooks

import (
	"fmt"
	"time"

	"storefront/internal/core/domain/model/kernel"

	"github.com/cenkalti/backoff/v4"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusExhausted Status = "exhausted"
)

// DeliveryFailure describes one failed attempt. StatusCode is 0 when no
// response was received.
type DeliveryFailure struct {
	Attempt    int
	StatusCode int
	Err        error
}

func (f *DeliveryFailure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("webhook delivery attempt %d: unexpected status %d", f.Attempt, f.StatusCode)
	}
	return fmt.Sprintf("webhook delivery attempt %d: %v", f.Attempt, f.Err)
}

func (f *DeliveryFailure) Unwrap() error {
	return f.Err
}

// Delivery is one event sent to one subscriber.
type Delivery struct {
	ID            kernel.UUID
	SubscriberID  kernel.UUID
	URL           string
	Event         string
	EventID       kernel.UUID
	Payload       []byte
	Status        Status
	Attempts      int
	LastFailure   *DeliveryFailure
	NextAttemptAt time.Time
	DeliveredAt   *time.Time
	CreatedAt     time.Time
}

// delivery is the mutable record behind a Delivery. Fields are guarded by
// Dispatcher.mu.
type delivery struct {
	Delivery
	seq      uint64
	secret   string
	backoff  backoff.BackOff
	inFlight bool
}

func (d *delivery) snapshot() Delivery {
	s := d.Delivery
	s.Payload = append([]byte(nil), d.Payload...)
	if d.LastFailure != nil {
		f := *d.LastFailure
		s.LastFailure = &f
	}
	if d.DeliveredAt != nil {
		at := *d.DeliveredAt
		s.DeliveredAt = &at
	}
	return s
}

type record struct {
	seq uint64
	Delivery
}

// history is a ring of the most recent settled deliveries.
type history struct {
	buf  []record
	next int
	full bool
}

func newHistory(size int) *history {
	return &history{buf: make([]record, size)}
}

func (h *history) add(r record) {
	h.buf[h.next] = r
	h.next = (h.next + 1) % len(h.buf)
	if h.next == 0 {
		h.full = true
	}
}

// records returns the kept records, oldest first.
func (h *history) records() []record {
	if !h.full {
		return append([]record(nil), h.buf[:h.next]...)
	}
	out := make([]record, 0, len(h.buf))
	out = append(out, h.buf[h.next:]...)
	return append(out, h.buf[:h.next]...)
}
