package memory

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/ports"
)

// ErrNoTransaction is returned by Commit and Rollback before Begin.
var ErrNoTransaction = errors.New("no transaction in progress")

var _ ports.UnitOfWorkFactory = &UnitOfWorkFactory{}

type UnitOfWorkFactory struct {
	store     *Store
	publisher ports.EventPublisher
}

func NewUnitOfWorkFactory(store *Store, publisher ports.EventPublisher) *UnitOfWorkFactory {
	if publisher == nil {
		publisher = ports.FanOut{}
	}
	return &UnitOfWorkFactory{store: store, publisher: publisher}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store, publisher: f.publisher}
}

var _ ports.UnitOfWork = &UnitOfWork{}

// UnitOfWork stages writes between Begin and Commit. Without Begin every
// write goes straight to the store.
type UnitOfWork struct {
	store     *Store
	publisher ports.EventPublisher
	changes   *changeSet
	tracked   []trackedAggregate
	finished  bool
}

type trackedAggregate struct {
	id        kernel.UUID
	aggregate any
}

func (uow *UnitOfWork) Begin(context.Context) error {
	if uow.changes != nil {
		return nil
	}
	uow.changes = newChangeSet()
	uow.finished = false
	uow.tracked = nil
	return nil
}

// Commit applies the staged writes and then publishes the events of every
// tracked aggregate in the order the aggregates were first written.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if uow.changes == nil {
		return ErrNoTransaction
	}

	uow.store.mu.Lock()
	err := uow.store.apply(uow.changes)
	uow.store.mu.Unlock()

	tracked := uow.tracked
	uow.changes = nil
	uow.tracked = nil
	uow.finished = true
	if err != nil {
		return err
	}

	var events []kernel.Event
	for _, t := range tracked {
		if source, ok := t.aggregate.(ports.EventSource); ok {
			events = append(events, source.PullEvents()...)
		}
	}
	if len(events) > 0 {
		uow.publisher.Publish(ctx, events...)
	}
	return nil
}

// Rollback drops the staged writes. It is a no-op after Commit or Rollback.
func (uow *UnitOfWork) Rollback(context.Context) error {
	if uow.changes == nil {
		if uow.finished {
			return nil
		}
		return ErrNoTransaction
	}
	uow.changes = nil
	uow.tracked = nil
	uow.finished = true
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: uow}
}

func (uow *UnitOfWork) ShippingMethodRepository() ports.ShippingMethodRepository {
	return &ShippingMethodRepository{uow: uow}
}

func (uow *UnitOfWork) WebhookSubscriberRepository() ports.WebhookSubscriberRepository {
	return &WebhookSubscriberRepository{uow: uow}
}

func (uow *UnitOfWork) VariantRepository() ports.VariantRepository {
	return &VariantRepository{uow: uow}
}

func (uow *UnitOfWork) AddressRepository() ports.AddressRepository {
	return &AddressRepository{uow: uow}
}

func (uow *UnitOfWork) trackAggregate(id kernel.UUID, aggregate any) {
	for _, t := range uow.tracked {
		if t.id == id {
			return
		}
	}
	uow.tracked = append(uow.tracked, trackedAggregate{id: id, aggregate: aggregate})
}

// read runs fn under the store read lock with the staged writes of uow
// overlaid on the committed state.
func (uow *UnitOfWork) read(fn func(v *changeSet)) {
	uow.store.mu.RLock()
	defer uow.store.mu.RUnlock()
	fn(uow.view())
}

// readStaged runs fn under the store read lock with the staged writes of
// uow alone, for lookups that go through the store indexes.
func (uow *UnitOfWork) readStaged(fn func(staged *changeSet)) {
	uow.store.mu.RLock()
	defer uow.store.mu.RUnlock()
	if uow.changes == nil {
		fn(&changeSet{})
		return
	}
	fn(uow.changes)
}

// write runs fn against the staged writes, or against a one-off change set
// applied immediately when no transaction is open.
func (uow *UnitOfWork) write(fn func(v, staged *changeSet) error) error {
	uow.store.mu.Lock()
	defer uow.store.mu.Unlock()

	if uow.changes != nil {
		return fn(uow.view(), uow.changes)
	}
	staged := newChangeSet()
	if err := fn(uow.view(), staged); err != nil {
		return err
	}
	return uow.store.apply(staged)
}

// view returns the committed state overlaid with the staged writes. The
// caller holds the store lock.
func (uow *UnitOfWork) view() *changeSet {
	s := uow.store
	if uow.changes == nil {
		return &changeSet{
			orders: s.orders, addresses: s.addresses,
			methods: s.methods, subscribers: s.subscribers, variants: s.variants,
		}
	}
	return &changeSet{
		orders:      view(s.orders, uow.changes.orders),
		addresses:   view(s.addresses, uow.changes.addresses),
		methods:     view(s.methods, uow.changes.methods),
		subscribers: view(s.subscribers, uow.changes.subscribers),
		variants:    view(s.variants, uow.changes.variants),
	}
}
