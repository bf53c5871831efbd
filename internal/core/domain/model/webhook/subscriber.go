// Package webhook models the external endpoints notified of order lifecycle events.
package webhook

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/url"
	"slices"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

// AllEvents subscribes to every event.
const AllEvents = "*"

var ErrSubscriberIsNotConstructed = errors.New("Subscriber must be created via NewSubscriber constructor")

// Attributes is the writable part of a subscriber.
type Attributes struct {
	URL           string
	Active        bool
	Subscriptions []string
}

func (a Attributes) validate() error {
	verrs := errs.NewValidationErrors()

	if strings.TrimSpace(a.URL) == "" {
		verrs.Add("url", errs.MsgBlank)
	} else if u, err := url.Parse(a.URL); err != nil || !u.IsAbs() || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		verrs.Add("url", "must be an absolute http or https URL")
	}

	for _, s := range a.Subscriptions {
		if s != AllEvents && !slices.Contains(order.EventNames, s) {
			verrs.Add("subscriptions", s+" is not a supported event")
		}
	}
	return verrs.Err()
}

// Subscriber is an endpoint receiving signed event notifications.
type Subscriber struct {
	id        kernel.UUID
	attrs     Attributes
	secretKey string
	createdAt time.Time
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

// NewSubscriber validates attrs and generates the signing secret.
// Subscribers start inactive unless attrs says otherwise.
func NewSubscriber(id kernel.UUID, attrs Attributes) (*Subscriber, error) {
	if err := errors.Join(id.Validate(), attrs.validate()); err != nil {
		return nil, err
	}
	now := kernel.Now()
	return &Subscriber{
		id:        id,
		attrs:     normalize(attrs),
		secretKey: newSecretKey(),
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreSubscriber rebuilds a persisted subscriber.
func RestoreSubscriber(id kernel.UUID, attrs Attributes, secretKey string, createdAt, updatedAt time.Time) *Subscriber {
	return &Subscriber{
		id:        id,
		attrs:     normalize(attrs),
		secretKey: secretKey,
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}
}

func (s *Subscriber) Validate() error {
	if s == nil {
		return ErrSubscriberIsNotConstructed
	}
	return s.guard.Validate(ErrSubscriberIsNotConstructed)
}

func (s *Subscriber) ID() kernel.UUID      { return s.id }
func (s *Subscriber) URL() string          { return s.attrs.URL }
func (s *Subscriber) Active() bool         { return s.attrs.Active }
func (s *Subscriber) SecretKey() string    { return s.secretKey }
func (s *Subscriber) CreatedAt() time.Time { return s.createdAt }
func (s *Subscriber) UpdatedAt() time.Time { return s.updatedAt }

func (s *Subscriber) Subscriptions() []string {
	return slices.Clone(s.attrs.Subscriptions)
}

func (s *Subscriber) Attributes() Attributes {
	attrs := s.attrs
	attrs.Subscriptions = s.Subscriptions()
	return attrs
}

// Matches reports whether an active subscriber wants event.
func (s *Subscriber) Matches(event string) bool {
	if !s.attrs.Active {
		return false
	}
	return slices.Contains(s.attrs.Subscriptions, AllEvents) || slices.Contains(s.attrs.Subscriptions, event)
}

func (s *Subscriber) Update(attrs Attributes) error {
	if err := attrs.validate(); err != nil {
		return err
	}
	s.attrs = normalize(attrs)
	s.updatedAt = kernel.Now()
	return nil
}

// Clone returns a copy that shares nothing with s.
func (s *Subscriber) Clone() *Subscriber {
	c := *s
	c.attrs = s.Attributes()
	return &c
}

func normalize(attrs Attributes) Attributes {
	subs := make([]string, 0, len(attrs.Subscriptions))
	for _, e := range attrs.Subscriptions {
		if !slices.Contains(subs, e) {
			subs = append(subs, e)
		}
	}
	attrs.Subscriptions = subs
	attrs.URL = strings.TrimSpace(attrs.URL)
	return attrs
}

func newSecretKey() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
