// Package postgres provides the GORM implementation of the unit of work and
// the repositories behind it.
//
// Repositories obtained from a unit of work run inside its transaction once
// Begin was called and against the plain connection otherwise, so reads
// that need no transaction can use a fresh unit of work directly:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Aggregates passed to a repository are tracked. After a successful commit
// the events they recorded are handed to the EventPublisher; a rollback
// drops them.
package postgres

import (
	"context"

	"storefront/internal/adapters/out/postgres/addressrepo"
	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/adapters/out/postgres/shippingmethodrepo"
	"storefront/internal/adapters/out/postgres/subscriberrepo"
	"storefront/internal/adapters/out/postgres/variantrepo"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/ports"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	models := append(orderrepo.Models(),
		&shippingmethodrepo.ShippingMethodDTO{},
		&subscriberrepo.SubscriberDTO{},
		&variantrepo.VariantDTO{},
	)
	return db.AutoMigrate(models...)
}

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
}

// NewGormUnitOfWorkFactory creates a factory whose units of work publish
// committed events to publisher. A nil publisher discards them.
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher) *GormUnitOfWorkFactory {
	if publisher == nil {
		publisher = ports.FanOut{}
	}
	return &GormUnitOfWorkFactory{db: db, publisher: publisher}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates
// written in it. An instance is not safe for concurrent use.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	trackedAggregates []trackedAggregate
	finished          bool
}

// Begin starts a transaction. Calling Begin on a unit of work that already
// has one is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	uow.finished = false
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit commits the transaction and then publishes the events of every
// tracked aggregate in the order the aggregates were first written.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	uow.finished = true
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)
	if err != nil {
		return err
	}

	var events []kernel.Event
	for _, t := range tracked {
		if source, ok := t.Aggregate.(ports.EventSource); ok {
			events = append(events, source.PullEvents()...)
		}
	}
	if len(events) > 0 {
		uow.publisher.Publish(ctx, events...)
	}
	return nil
}

// Rollback discards the transaction and the tracked aggregates. It is a
// no-op after Commit or Rollback and an error before Begin.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		if uow.finished {
			return nil
		}
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.finished = true
	uow.trackedAggregates = make([]trackedAggregate, 0)
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ShippingMethodRepository() ports.ShippingMethodRepository {
	return shippingmethodrepo.NewGormShippingMethodRepository(uow.conn())
}

func (uow *GormUnitOfWork) WebhookSubscriberRepository() ports.WebhookSubscriberRepository {
	return subscriberrepo.NewGormSubscriberRepository(uow.conn())
}

func (uow *GormUnitOfWork) VariantRepository() ports.VariantRepository {
	return variantrepo.NewGormVariantRepository(uow.conn())
}

func (uow *GormUnitOfWork) AddressRepository() ports.AddressRepository {
	return addressrepo.NewGormAddressRepository(uow.conn())
}

// TrackAggregate registers an aggregate written in this unit of work. An
// aggregate tracked twice keeps its first position.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	for i, t := range uow.trackedAggregates {
		if t.ID.IsEqual(id) {
			uow.trackedAggregates[i].Aggregate = aggregate
			return
		}
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
