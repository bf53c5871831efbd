package webhooks_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/webhooks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type request struct {
	event     string
	signature string
	body      []byte
}

// endpoint records requests and answers with the next status of statuses,
// repeating the last one.
type endpoint struct {
	mu       sync.Mutex
	requests []request
	statuses []int
}

func (e *endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	e.mu.Lock()
	e.requests = append(e.requests, request{
		event:     r.Header.Get(webhooks.HeaderEvent),
		signature: r.Header.Get(webhooks.HeaderSignature),
		body:      body,
	})
	status := http.StatusOK
	if len(e.statuses) > 0 {
		status = e.statuses[0]
		if len(e.statuses) > 1 {
			e.statuses = e.statuses[1:]
		}
	}
	e.mu.Unlock()
	w.WriteHeader(status)
}

func (e *endpoint) received() []request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]request(nil), e.requests...)
}

func newSubscriber(t *testing.T, url string, events ...string) *webhook.Subscriber {
	t.Helper()
	s, err := webhook.NewSubscriber(kernel.NewUUID(), webhook.Attributes{URL: url, Active: true, Subscriptions: events})
	require.NoError(t, err)
	return s
}

func source(subscribers ...*webhook.Subscriber) webhooks.SubscriberSource {
	return webhooks.SubscriberSourceFunc(func(context.Context) ([]*webhook.Subscriber, error) {
		return subscribers, nil
	})
}

func encode(e kernel.Event) ([]byte, error) {
	return json.Marshal(map[string]any{"event": e.Name, "id": e.ID.String()})
}

func newDispatcher(t *testing.T, cfg webhooks.Config, src webhooks.SubscriberSource, c *clock) *webhooks.Dispatcher {
	t.Helper()
	d, err := webhooks.NewDispatcher(cfg, src, encode, webhooks.WithClock(c.Now))
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func waitFor(t *testing.T, d *webhooks.Dispatcher, cond func([]webhooks.Delivery) bool) []webhooks.Delivery {
	t.Helper()
	var last []webhooks.Delivery
	require.Eventually(t, func() bool {
		last = d.Deliveries()
		return cond(last)
	}, 2*time.Second, 5*time.Millisecond)
	return last
}

func settled(deliveries []webhooks.Delivery) bool {
	for _, dl := range deliveries {
		if dl.Attempts == 0 || (dl.Status == webhooks.StatusPending && dl.LastFailure == nil) {
			return false
		}
	}
	return len(deliveries) > 0
}

func TestNewDispatcher_RequiresCollaborators(t *testing.T) {
	_, err := webhooks.NewDispatcher(webhooks.Config{}, nil, encode)
	require.Error(t, err)

	_, err = webhooks.NewDispatcher(webhooks.Config{}, source(), nil)
	require.Error(t, err)
}

func TestPublish_DeliversSignedPayload(t *testing.T) {
	ep := &endpoint{}
	server := httptest.NewServer(ep)
	defer server.Close()
	sub := newSubscriber(t, server.URL, order.EventOrderCompleted)
	d := newDispatcher(t, webhooks.Config{}, source(sub), newClock())

	event := kernel.NewEvent(order.EventOrderCompleted, nil)
	d.Publish(context.Background(), event)

	deliveries := waitFor(t, d, func(ds []webhooks.Delivery) bool {
		return len(ds) == 1 && ds[0].Status == webhooks.StatusDelivered
	})
	assert.Equal(t, 1, deliveries[0].Attempts)
	assert.Equal(t, sub.ID(), deliveries[0].SubscriberID)
	assert.Equal(t, event.ID, deliveries[0].EventID)

	received := ep.received()
	require.Len(t, received, 1)
	assert.Equal(t, order.EventOrderCompleted, received[0].event)
	assert.Equal(t, webhooks.Sign(sub.SecretKey(), received[0].body), received[0].signature)
	assert.JSONEq(t, `{"event":"order.completed","id":"`+event.ID.String()+`"}`, string(received[0].body))
}

func TestPublish_OnlySubscribedEventsAreDelivered(t *testing.T) {
	ep := &endpoint{}
	server := httptest.NewServer(ep)
	defer server.Close()
	completedOnly := newSubscriber(t, server.URL, order.EventOrderCompleted)
	d := newDispatcher(t, webhooks.Config{}, source(completedOnly), newClock())

	d.Publish(context.Background(), kernel.NewEvent(order.EventOrderCanceled, nil))
	d.Close()

	assert.Empty(t, d.Deliveries())
	assert.Empty(t, ep.received())
}

func TestPublish_WildcardAndInactiveSubscribers(t *testing.T) {
	ep := &endpoint{}
	server := httptest.NewServer(ep)
	defer server.Close()
	everything := newSubscriber(t, server.URL, webhook.AllEvents)
	inactive, err := webhook.NewSubscriber(kernel.NewUUID(), webhook.Attributes{
		URL: server.URL, Subscriptions: []string{webhook.AllEvents},
	})
	require.NoError(t, err)
	d := newDispatcher(t, webhooks.Config{}, source(everything, inactive), newClock())

	d.Publish(context.Background(),
		kernel.NewEvent(order.EventOrderCreated, nil),
		kernel.NewEvent(order.EventLineItemCreated, nil))
	d.Close()

	deliveries := d.Deliveries()
	require.Len(t, deliveries, 2)
	for _, dl := range deliveries {
		assert.Equal(t, everything.ID(), dl.SubscriberID)
		assert.Equal(t, webhooks.StatusDelivered, dl.Status)
	}
}

func TestPublish_CanceledContextStillDelivers(t *testing.T) {
	ep := &endpoint{}
	server := httptest.NewServer(ep)
	defer server.Close()
	d := newDispatcher(t, webhooks.Config{}, source(newSubscriber(t, server.URL, webhook.AllEvents)), newClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Publish(ctx, kernel.NewEvent(order.EventOrderPaid, nil))

	waitFor(t, d, func(ds []webhooks.Delivery) bool {
		return len(ds) == 1 && ds[0].Status == webhooks.StatusDelivered
	})
}

func TestPublish_SubscriberSourceErrorDropsNothingElse(t *testing.T) {
	d := newDispatcher(t, webhooks.Config{}, webhooks.SubscriberSourceFunc(
		func(context.Context) ([]*webhook.Subscriber, error) { return nil, errors.New("db down") },
	), newClock())

	assert.NotPanics(t, func() { d.Publish(context.Background(), kernel.NewEvent(order.EventOrderPaid, nil)) })
	assert.Empty(t, d.Deliveries())
}

func TestRetryDue_RetriesWithBackoffUntilDelivered(t *testing.T) {
	ep := &endpoint{statuses: []int{http.StatusInternalServerError, http.StatusOK}}
	server := httptest.NewServer(ep)
	defer server.Close()
	c := newClock()
	d := newDispatcher(t, webhooks.Config{RetryInitialInterval: time.Minute}, source(newSubscriber(t, server.URL, webhook.AllEvents)), c)

	d.Publish(context.Background(), kernel.NewEvent(order.EventOrderCompleted, nil))
	deliveries := waitFor(t, d, settled)

	failed := deliveries[0]
	assert.Equal(t, webhooks.StatusPending, failed.Status)
	require.NotNil(t, failed.LastFailure)
	assert.Equal(t, http.StatusInternalServerError, failed.LastFailure.StatusCode)
	assert.Equal(t, 1, failed.LastFailure.Attempt)
	assert.True(t, failed.NextAttemptAt.After(c.Now()))

	assert.Zero(t, d.RetryDue(context.Background()), "nothing is due before the backoff elapses")

	c.Advance(2 * time.Minute)
	assert.Equal(t, 1, d.RetryDue(context.Background()))

	deliveries = waitFor(t, d, func(ds []webhooks.Delivery) bool {
		return ds[0].Status == webhooks.StatusDelivered
	})
	assert.Equal(t, 2, deliveries[0].Attempts)
	assert.Nil(t, deliveries[0].LastFailure)
	assert.Len(t, ep.received(), 2)
}

func TestRetryDue_ExhaustsAfterMaxAttempts(t *testing.T) {
	ep := &endpoint{statuses: []int{http.StatusBadGateway}}
	server := httptest.NewServer(ep)
	defer server.Close()
	c := newClock()
	d := newDispatcher(t, webhooks.Config{MaxAttempts: 3, RetryInitialInterval: time.Second, RetryMaxInterval: time.Second},
		source(newSubscriber(t, server.URL, webhook.AllEvents)), c)

	d.Publish(context.Background(), kernel.NewEvent(order.EventOrderShipped, nil))
	for attempt := 1; attempt < 3; attempt++ {
		waitFor(t, d, func(ds []webhooks.Delivery) bool {
			return ds[0].Attempts == attempt && ds[0].LastFailure != nil
		})
		c.Advance(time.Hour)
		require.Equal(t, 1, d.RetryDue(context.Background()))
	}

	deliveries := waitFor(t, d, func(ds []webhooks.Delivery) bool {
		return ds[0].Status == webhooks.StatusExhausted
	})
	assert.Equal(t, 3, deliveries[0].Attempts)
	assert.Equal(t, http.StatusBadGateway, deliveries[0].LastFailure.StatusCode)

	c.Advance(time.Hour)
	assert.Zero(t, d.RetryDue(context.Background()), "exhausted deliveries are kept but not retried")
	assert.Len(t, ep.received(), 3)
}

func TestAttemptTimeout_RecordsFailure(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	d := newDispatcher(t, webhooks.Config{AttemptTimeout: 50 * time.Millisecond},
		source(newSubscriber(t, server.URL, webhook.AllEvents)), newClock())

	d.Publish(context.Background(), kernel.NewEvent(order.EventOrderCompleted, nil))

	deliveries := waitFor(t, d, settled)
	require.NotNil(t, deliveries[0].LastFailure)
	assert.Zero(t, deliveries[0].LastFailure.StatusCode)
	assert.ErrorIs(t, deliveries[0].LastFailure, context.DeadlineExceeded)
}

func TestPublish_FullQueueLeavesDeliveryForRetry(t *testing.T) {
	var calls atomic.Int32
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-block
	}))
	defer server.Close()

	d := newDispatcher(t, webhooks.Config{Workers: 1, QueueSize: 1, AttemptTimeout: 5 * time.Second},
		source(newSubscriber(t, server.URL, webhook.AllEvents)), newClock())

	d.Publish(context.Background(), kernel.NewEvent(order.EventOrderCreated, nil))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	// one queued behind the busy worker, one left out
	d.Publish(context.Background(),
		kernel.NewEvent(order.EventOrderUpdated, nil),
		kernel.NewEvent(order.EventOrderPaid, nil))
	close(block)

	deliveries := waitFor(t, d, func(ds []webhooks.Delivery) bool {
		return len(ds) == 3 && ds[0].Status == webhooks.StatusDelivered && ds[1].Status == webhooks.StatusDelivered
	})
	assert.Equal(t, webhooks.StatusPending, deliveries[2].Status)
	assert.Zero(t, deliveries[2].Attempts)

	assert.Equal(t, 1, d.RetryDue(context.Background()))
	waitFor(t, d, func(ds []webhooks.Delivery) bool { return ds[2].Status == webhooks.StatusDelivered })
}

func TestDeliveries_KeepsBoundedHistory(t *testing.T) {
	ep := &endpoint{}
	server := httptest.NewServer(ep)
	defer server.Close()
	d := newDispatcher(t, webhooks.Config{Workers: 1, History: 4},
		source(newSubscriber(t, server.URL, webhook.AllEvents)), newClock())

	events := make([]kernel.Event, 0, 20)
	for range 20 {
		events = append(events, kernel.NewEvent(order.EventOrderUpdated, nil))
	}
	for _, e := range events {
		d.Publish(context.Background(), e)
	}
	deliveries := waitFor(t, d, func(ds []webhooks.Delivery) bool {
		return len(ds) == 4 && settled(ds) && len(ep.received()) == len(events)
	})
	got := make([]kernel.UUID, 0, len(deliveries))
	for _, dl := range deliveries {
		assert.Equal(t, webhooks.StatusDelivered, dl.Status)
		got = append(got, dl.EventID)
	}
	assert.ElementsMatch(t, []kernel.UUID{events[16].ID, events[17].ID, events[18].ID, events[19].ID}, got)
	assert.Zero(t, d.RetryDue(context.Background()))
}

func TestSign(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(`{"a":1}`))

	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), webhooks.Sign("secret", []byte(`{"a":1}`)))
	assert.NotEqual(t, webhooks.Sign("secret", []byte("a")), webhooks.Sign("other", []byte("a")))
}
