package memory_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"storefront/internal/adapters/out/memory"
	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) publisher() ports.EventPublisher {
	return ports.EventPublisherFunc(func(_ context.Context, events ...kernel.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		for _, e := range events {
			r.events = append(r.events, e.Name)
		}
	})
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newFactory() (*memory.UnitOfWorkFactory, *recorder) {
	rec := &recorder{}
	return memory.NewUnitOfWorkFactory(memory.NewStore(), rec.publisher()), rec
}

func newCart(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "USD")
	require.NoError(t, err)
	li, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), 1, decimal.NewFromInt(10), "USD")
	require.NoError(t, err)
	_, err = o.AddLineItem(li)
	require.NoError(t, err)
	return o
}

func TestUnitOfWork_CommitPublishesAfterApplying(t *testing.T) {
	ctx := context.Background()
	factory, rec := newFactory()
	uow := factory.Create()
	o := newCart(t)

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))

	_, err := factory.Create().OrderRepository().Get(ctx, o.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound, "staged writes are private to the unit of work")
	_, err = uow.OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err, "the unit of work sees its own writes")
	assert.Empty(t, rec.names())

	require.NoError(t, uow.Commit(ctx))

	_, err = factory.Create().OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{order.EventOrderCreated, order.EventLineItemCreated}, rec.names())
	require.NoError(t, uow.Rollback(ctx), "rollback after commit is a no-op")
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	factory, rec := newFactory()
	uow := factory.Create()
	o := newCart(t)

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	require.NoError(t, uow.Rollback(ctx))

	_, err := factory.Create().OrderRepository().Get(ctx, o.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Empty(t, rec.names())
}

func TestUnitOfWork_ErrorsWithoutBegin(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	uow := factory.Create()

	require.ErrorIs(t, uow.Commit(ctx), memory.ErrNoTransaction)
	require.ErrorIs(t, uow.Rollback(ctx), memory.ErrNoTransaction)
}

func TestUnitOfWork_WritesWithoutTransactionApplyImmediately(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	o := newCart(t)

	require.NoError(t, factory.Create().OrderRepository().Add(ctx, o))

	_, err := factory.Create().OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
}

func TestUnitOfWork_ConflictingCommitChangesNothing(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	first := newCart(t)
	second, err := order.NewOrder(kernel.NewUUID(), "USD")
	require.NoError(t, err)
	_, err = second.AddLineItem(first.LineItems()[0])
	require.NoError(t, err)

	uow1 := factory.Create()
	uow2 := factory.Create()
	require.NoError(t, uow1.Begin(ctx))
	require.NoError(t, uow2.Begin(ctx))
	require.NoError(t, uow1.OrderRepository().Add(ctx, first))
	require.NoError(t, uow2.OrderRepository().Add(ctx, second), "the conflict is not visible before commit")

	require.NoError(t, uow1.Commit(ctx))
	require.ErrorIs(t, uow2.Commit(ctx), memory.ErrDuplicateID)

	_, err = factory.Create().OrderRepository().Get(ctx, second.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestOrderRepository_ChildIDsBelongToOneOrder(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	repo := factory.Create().OrderRepository()
	first := newCart(t)
	require.NoError(t, repo.Add(ctx, first))

	second, err := order.NewOrder(kernel.NewUUID(), "USD")
	require.NoError(t, err)
	_, err = second.AddLineItem(first.LineItems()[0])
	require.NoError(t, err)

	require.ErrorIs(t, repo.Add(ctx, second), memory.ErrDuplicateID)
	require.ErrorIs(t, repo.Add(ctx, first), memory.ErrDuplicateID)
}

func TestOrderRepository_ChildMovesWithinOneCommit(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	first := newCart(t)
	require.NoError(t, factory.Create().OrderRepository().Add(ctx, first))
	li := first.LineItems()[0]

	second, err := order.NewOrder(kernel.NewUUID(), "USD")
	require.NoError(t, err)
	_, err = second.AddLineItem(li)
	require.NoError(t, err)
	require.NoError(t, first.RemoveLineItem(li.ID()))

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Update(ctx, first))
	require.NoError(t, uow.OrderRepository().Add(ctx, second))

	got, err := uow.OrderRepository().GetByChild(ctx, order.ChildLineItem, li.ID())
	require.NoError(t, err)
	assert.Equal(t, second.ID(), got.ID(), "staged owner wins inside the unit of work")
	got, err = factory.Create().OrderRepository().GetByChild(ctx, order.ChildLineItem, li.ID())
	require.NoError(t, err)
	assert.Equal(t, first.ID(), got.ID())

	require.NoError(t, uow.Commit(ctx))

	got, err = factory.Create().OrderRepository().GetByChild(ctx, order.ChildLineItem, li.ID())
	require.NoError(t, err)
	assert.Equal(t, second.ID(), got.ID())

	third, err := order.NewOrder(kernel.NewUUID(), "USD")
	require.NoError(t, err)
	_, err = third.AddLineItem(li)
	require.NoError(t, err)
	require.ErrorIs(t, factory.Create().OrderRepository().Add(ctx, third), memory.ErrDuplicateID)
}

func TestOrderRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	repo := factory.Create().OrderRepository()
	o := newCart(t)
	require.NoError(t, repo.Add(ctx, o))

	loaded, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Empty(t, loaded.Events(), "stored orders carry no pending events")
	require.NoError(t, loaded.SetEmail("changed@example.com"))

	again, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Empty(t, again.Email())
}

func TestOrderRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	repo := factory.Create().OrderRepository()
	o := newCart(t)

	require.ErrorIs(t, repo.Update(ctx, o), errs.ErrObjectNotFound)
	require.NoError(t, repo.Add(ctx, o))

	require.NoError(t, o.SetEmail("spree@example.com"))
	require.NoError(t, repo.Update(ctx, o))
	loaded, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, "spree@example.com", loaded.Email())

	require.NoError(t, repo.Delete(ctx, o))
	require.ErrorIs(t, repo.Delete(ctx, o), errs.ErrObjectNotFound)
	_, err = repo.GetByChild(ctx, order.ChildLineItem, o.LineItems()[0].ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestOrderRepository_GetByChild(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	repo := factory.Create().OrderRepository()
	o := newCart(t)
	require.NoError(t, repo.Add(ctx, o))

	got, err := repo.GetByChild(ctx, order.ChildLineItem, o.LineItems()[0].ID())
	require.NoError(t, err)
	assert.Equal(t, o.ID(), got.ID())

	_, err = repo.GetByChild(ctx, order.ChildPayment, o.LineItems()[0].ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestOrderRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	repo := factory.Create().OrderRepository()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]kernel.UUID, 0, 5)
	for i := range 5 {
		restore := kernel.SetClock(func() time.Time { return start.Add(time.Duration(i) * time.Minute) })
		o := newCart(t)
		restore()
		if i%2 == 0 {
			require.NoError(t, o.SetEmail("Even@Example.com"))
		}
		require.NoError(t, repo.Add(ctx, o))
		ids = append(ids, o.ID())
	}

	page, total, err := repo.List(ctx, ports.ListOrdersFilter{Pagination: ports.Pagination{Page: 2, PerPage: 2}})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID())
	assert.Equal(t, ids[1], page[1].ID())

	page, total, err = repo.List(ctx, ports.ListOrdersFilter{
		Email:      "even@example.com",
		Pagination: ports.Pagination{Page: 1, PerPage: 25},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 3)

	page, total, err = repo.List(ctx, ports.ListOrdersFilter{
		State:      order.Complete,
		Pagination: ports.Pagination{Page: 1, PerPage: 25},
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, page)
}

func TestOrderRepository_ListPastTheEnd(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	repo := factory.Create().OrderRepository()
	require.NoError(t, repo.Add(ctx, newCart(t)))

	for _, p := range []ports.Pagination{
		{Page: 3, PerPage: 25},
		{Page: math.MaxInt, PerPage: 100},
		{Page: math.MaxInt64 / 50, PerPage: 100},
	} {
		page, total, err := repo.List(ctx, ports.ListOrdersFilter{Pagination: p})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Empty(t, page, "page %d", p.Page)
	}
}

func TestShippingMethodRepository(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	repo := factory.Create().ShippingMethodRepository()

	calc, err := shipping.NewCalculator(shipping.FlatRate, map[string]string{"amount": "5"})
	require.NoError(t, err)
	ups, err := shipping.NewShippingMethod(kernel.NewUUID(), shipping.Attributes{Name: "UPS Ground"}, calc)
	require.NoError(t, err)
	dhl, err := shipping.NewShippingMethod(kernel.NewUUID(), shipping.Attributes{Name: "DHL"}, calc)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, ups))
	require.NoError(t, repo.Add(ctx, dhl))
	require.ErrorIs(t, repo.Add(ctx, dhl), memory.ErrDuplicateID)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "DHL", all[0].Name())

	page, total, err := repo.List(ctx, ports.Pagination{Page: 2, PerPage: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, "UPS Ground", page[0].Name())

	require.NoError(t, repo.Delete(ctx, ups.ID()))
	_, err = repo.Get(ctx, ups.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestWebhookSubscriberRepository_ListActive(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	repo := factory.Create().WebhookSubscriberRepository()

	active, err := webhook.NewSubscriber(kernel.NewUUID(), webhook.Attributes{
		URL: "https://hooks.example.com/a", Active: true, Subscriptions: []string{webhook.AllEvents},
	})
	require.NoError(t, err)
	idle, err := webhook.NewSubscriber(kernel.NewUUID(), webhook.Attributes{URL: "https://hooks.example.com/b"})
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, active))
	require.NoError(t, repo.Add(ctx, idle))

	listed, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, active.ID(), listed[0].ID())

	_, total, err := repo.List(ctx, ports.Pagination{Page: 1, PerPage: 25})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestVariantRepository_AddReplaces(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	repo := factory.Create().VariantRepository()

	id := kernel.NewUUID()
	v, err := catalog.NewVariant(id, "MUG", "Mug", decimal.NewFromInt(8), "USD", false)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, v))
	v, err = catalog.NewVariant(id, "MUG", "Mug", decimal.NewFromInt(9), "USD", false)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, v))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(9).Equal(got.Price()))

	_, err = repo.Get(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func newUserAddress(t *testing.T, userID kernel.UUID, lastName string) *address.Address {
	t.Helper()
	a, err := address.NewAddress(kernel.NewUUID(), address.Attributes{
		FirstName: "John", LastName: lastName, Address1: "7735 Old Georgetown Road",
		City: "Bethesda", Zipcode: "20814", Phone: "3014445002", CountryID: "US", UserID: &userID,
	})
	require.NoError(t, err)
	return a
}

func TestAddressRepository_ListsByUser(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	repo := factory.Create().AddressRepository()
	alice, bob := kernel.NewUUID(), kernel.NewUUID()
	smith := newUserAddress(t, alice, "Smith")
	doe := newUserAddress(t, alice, "Doe")
	other := newUserAddress(t, bob, "Brown")
	for _, a := range []*address.Address{smith, doe, other} {
		require.NoError(t, repo.Add(ctx, a))
	}
	require.ErrorIs(t, repo.Add(ctx, doe), memory.ErrDuplicateID)

	got, total, err := repo.List(ctx, ports.ListAddressesFilter{UserID: &alice, Pagination: ports.Pagination{Page: 1, PerPage: 25}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, doe.ID(), got[0].ID())
	assert.Equal(t, smith.ID(), got[1].ID())

	_, total, err = repo.List(ctx, ports.ListAddressesFilter{Pagination: ports.Pagination{Page: 1, PerPage: 25}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	require.NoError(t, repo.Delete(ctx, other.ID()))
	_, err = repo.Get(ctx, other.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	require.ErrorIs(t, repo.Update(ctx, other), errs.ErrObjectNotFound)
}

func TestAddressRepository_AddressHasOneOwner(t *testing.T) {
	ctx := context.Background()
	factory, _ := newFactory()
	userID := kernel.NewUUID()
	book := newUserAddress(t, userID, "Doe")
	require.NoError(t, factory.Create().AddressRepository().Add(ctx, book))

	o := newCart(t)
	require.NoError(t, o.AssignBillAddress(book))
	require.ErrorIs(t, factory.Create().OrderRepository().Add(ctx, o), memory.ErrDuplicateID)

	billed := newCart(t)
	bill := newUserAddress(t, userID, "Roe")
	require.NoError(t, billed.AssignBillAddress(bill))
	require.NoError(t, factory.Create().OrderRepository().Add(ctx, billed))
	require.ErrorIs(t, factory.Create().AddressRepository().Add(ctx, bill), memory.ErrDuplicateID)
}
