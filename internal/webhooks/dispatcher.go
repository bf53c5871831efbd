// Package webhooks delivers committed order events to webhook subscribers.
//
// Publish only matches subscribers and queues deliveries; a worker pool
// sends them. Failed deliveries are retried by RetryDue, which the retry
// job calls on a schedule, with exponential backoff between attempts.
package webhooks

import (
	"bytes"
	"cmp"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

const (
	HeaderEvent     = "X-Webhook-Event"
	HeaderSignature = "X-Webhook-Signature"
)

// SubscriberSource lists the subscribers eligible for deliveries.
type SubscriberSource interface {
	ListActive(ctx context.Context) ([]*webhook.Subscriber, error)
}

// SubscriberSourceFunc adapts a function to SubscriberSource.
type SubscriberSourceFunc func(ctx context.Context) ([]*webhook.Subscriber, error)

func (f SubscriberSourceFunc) ListActive(ctx context.Context) ([]*webhook.Subscriber, error) {
	return f(ctx)
}

// Encoder renders an event as the JSON request body.
type Encoder func(kernel.Event) ([]byte, error)

// Doer sends HTTP requests. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	Workers        int
	QueueSize      int
	MaxAttempts    int
	AttemptTimeout time.Duration
	// RetryInitialInterval is the wait after the first failure; later waits
	// grow exponentially up to RetryMaxInterval.
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	// History is how many delivered or exhausted deliveries the log keeps.
	// Older settled deliveries are forgotten.
	History int
}

func DefaultConfig() Config {
	return Config{
		Workers:              4,
		QueueSize:            256,
		MaxAttempts:          5,
		AttemptTimeout:       10 * time.Second,
		RetryInitialInterval: 30 * time.Second,
		RetryMaxInterval:     time.Hour,
		History:              256,
	}
}

type Option func(*Dispatcher)

func WithHTTPClient(client Doer) Option {
	return func(d *Dispatcher) { d.client = client }
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

var _ ports.EventPublisher = &Dispatcher{}

type Dispatcher struct {
	cfg         Config
	subscribers SubscriberSource
	encode      Encoder
	client      Doer
	now         func() time.Time
	logger      *slog.Logger

	queue chan *delivery
	wg    sync.WaitGroup

	mu      sync.Mutex
	seq     uint64
	pending map[kernel.UUID]*delivery
	settled *history
	closed  bool
}

// NewDispatcher starts cfg.Workers workers. Close stops them.
func NewDispatcher(cfg Config, subscribers SubscriberSource, encode Encoder, opts ...Option) (*Dispatcher, error) {
	if subscribers == nil {
		return nil, errors.New("subscriber source is required")
	}
	if encode == nil {
		return nil, errors.New("event encoder is required")
	}
	defaults := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaults.AttemptTimeout
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = defaults.RetryInitialInterval
	}
	if cfg.RetryMaxInterval < cfg.RetryInitialInterval {
		cfg.RetryMaxInterval = max(defaults.RetryMaxInterval, cfg.RetryInitialInterval)
	}
	if cfg.History <= 0 {
		cfg.History = defaults.History
	}

	d := &Dispatcher{
		cfg:         cfg,
		subscribers: subscribers,
		encode:      encode,
		client:      &http.Client{},
		now:         time.Now,
		logger:      slog.Default(),
		queue:       make(chan *delivery, cfg.QueueSize),
		pending:     make(map[kernel.UUID]*delivery),
		settled:     newHistory(cfg.History),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "webhook_dispatcher")

	for range cfg.Workers {
		d.wg.Add(1)
		go d.work()
	}
	return d, nil
}

// Publish creates one delivery per subscriber interested in each event and
// queues it. It does not wait for delivery and does not stop when ctx is
// canceled, since the events are already committed.
func (d *Dispatcher) Publish(ctx context.Context, events ...kernel.Event) {
	ctx = context.WithoutCancel(ctx)

	subscribers, err := d.subscribers.ListActive(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to list webhook subscribers", "error", err)
		return
	}

	for _, e := range events {
		var payload []byte
		for _, s := range subscribers {
			if !s.Matches(e.Name) {
				continue
			}
			if payload == nil {
				if payload, err = d.encode(e); err != nil {
					d.logger.ErrorContext(ctx, "failed to encode event", "event", e.Name, "error", err)
					break
				}
			}
			d.enqueue(ctx, d.newDelivery(e, s, payload))
		}
	}
}

// RetryDue queues every pending delivery whose next attempt is due and
// returns how many were queued.
func (d *Dispatcher) RetryDue(ctx context.Context) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}
	now := d.now()
	queued := 0
	for _, dl := range d.pending {
		if dl.inFlight || dl.NextAttemptAt.After(now) {
			continue
		}
		select {
		case d.queue <- dl:
			dl.inFlight = true
			queued++
		default:
			d.logger.WarnContext(ctx, "webhook queue is full, retry sweep stopped early", "queued", queued)
			return queued
		}
	}
	return queued
}

// Deliveries returns a snapshot of the delivery log, oldest first: every
// pending delivery and the most recent settled ones.
func (d *Dispatcher) Deliveries() []Delivery {
	d.mu.Lock()
	defer d.mu.Unlock()

	records := d.settled.records()
	for _, dl := range d.pending {
		records = append(records, record{seq: dl.seq, Delivery: dl.snapshot()})
	}
	slices.SortFunc(records, func(a, b record) int { return cmp.Compare(a.seq, b.seq) })

	out := make([]Delivery, 0, len(records))
	for _, r := range records {
		out = append(out, r.Delivery)
	}
	return out
}

// Close stops accepting deliveries and waits for the queued ones to be sent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) newDelivery(e kernel.Event, s *webhook.Subscriber, payload []byte) *delivery {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.cfg.RetryInitialInterval
	policy.MaxInterval = d.cfg.RetryMaxInterval
	policy.MaxElapsedTime = 0
	policy.Reset()

	return &delivery{
		Delivery: Delivery{
			ID:            kernel.NewUUID(),
			SubscriberID:  s.ID(),
			URL:           s.URL(),
			Event:         e.Name,
			EventID:       e.ID,
			Payload:       payload,
			Status:        StatusPending,
			NextAttemptAt: d.now(),
			CreatedAt:     d.now(),
		},
		secret:  s.SecretKey(),
		backoff: policy,
	}
}

// enqueue records dl and hands it to the workers. When the queue is full
// the delivery stays pending for the retry sweep.
func (d *Dispatcher) enqueue(ctx context.Context, dl *delivery) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.WarnContext(ctx, "dispatcher is closed, delivery dropped", "event", dl.Event, "url", dl.URL)
		return
	}
	d.seq++
	dl.seq = d.seq
	d.pending[dl.ID] = dl
	select {
	case d.queue <- dl:
		dl.inFlight = true
	default:
		d.logger.WarnContext(ctx, "webhook queue is full, delivery left for retry",
			"event", dl.Event, "url", dl.URL)
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for dl := range d.queue {
		d.attempt(dl)
	}
}

func (d *Dispatcher) attempt(dl *delivery) {
	d.mu.Lock()
	dl.Attempts++
	attempt := dl.Attempts
	url, event, payload, secret := dl.URL, dl.Event, dl.Payload, dl.secret
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.AttemptTimeout)
	defer cancel()
	failure := d.send(ctx, url, event, payload, secret)
	if failure != nil {
		failure.Attempt = attempt
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	dl.inFlight = false

	if failure == nil {
		at := d.now()
		dl.Status = StatusDelivered
		dl.DeliveredAt = &at
		dl.LastFailure = nil
		d.settle(dl)
		d.logger.Info("webhook delivered", "event", event, "url", url, "attempt", attempt)
		return
	}

	dl.LastFailure = failure
	if attempt >= d.cfg.MaxAttempts {
		dl.Status = StatusExhausted
		d.settle(dl)
		d.logger.Error("webhook delivery exhausted", "event", event, "url", url, "attempts", attempt, "error", failure)
		return
	}
	dl.NextAttemptAt = d.now().Add(dl.backoff.NextBackOff())
	d.logger.Warn("webhook delivery failed", "event", event, "url", url, "attempt", attempt,
		"next_attempt_at", dl.NextAttemptAt, "error", failure)
}

// settle moves dl from the sweep set to the bounded history.
func (d *Dispatcher) settle(dl *delivery) {
	delete(d.pending, dl.ID)
	d.settled.add(record{seq: dl.seq, Delivery: dl.snapshot()})
}

func (d *Dispatcher) send(ctx context.Context, url, event string, payload []byte, secret string) *DeliveryFailure {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &DeliveryFailure{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEvent, event)
	req.Header.Set(HeaderSignature, Sign(secret, payload))

	resp, err := d.client.Do(req)
	if err != nil {
		return &DeliveryFailure{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DeliveryFailure{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return nil
}

// Sign is the hex HMAC-SHA256 of body keyed with secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
