package commands_test

import (
	"context"
	"testing"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByChild(ctx context.Context, kind order.ChildKind, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, kind, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) List(ctx context.Context, f ports.ListOrdersFilter) ([]*order.Order, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*order.Order), args.Int(1), args.Error(2)
}

type MockShippingMethodRepository struct{ mock.Mock }

func (m *MockShippingMethodRepository) Add(ctx context.Context, s *shipping.ShippingMethod) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShippingMethodRepository) Update(ctx context.Context, s *shipping.ShippingMethod) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShippingMethodRepository) Get(ctx context.Context, id kernel.UUID) (*shipping.ShippingMethod, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*shipping.ShippingMethod)
	return s, args.Error(1)
}

func (m *MockShippingMethodRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockShippingMethodRepository) List(
	ctx context.Context,
	p ports.Pagination,
) ([]*shipping.ShippingMethod, int, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]*shipping.ShippingMethod), args.Int(1), args.Error(2)
}

func (m *MockShippingMethodRepository) All(ctx context.Context) ([]*shipping.ShippingMethod, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*shipping.ShippingMethod), args.Error(1)
}

type MockVariantRepository struct{ mock.Mock }

func (m *MockVariantRepository) Add(ctx context.Context, v *catalog.Variant) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVariantRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*catalog.Variant)
	return v, args.Error(1)
}

type MockWebhookSubscriberRepository struct{ mock.Mock }

func (m *MockWebhookSubscriberRepository) Add(ctx context.Context, s *webhook.Subscriber) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockWebhookSubscriberRepository) Update(ctx context.Context, s *webhook.Subscriber) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockWebhookSubscriberRepository) Get(ctx context.Context, id kernel.UUID) (*webhook.Subscriber, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*webhook.Subscriber)
	return s, args.Error(1)
}

func (m *MockWebhookSubscriberRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWebhookSubscriberRepository) List(
	ctx context.Context,
	p ports.Pagination,
) ([]*webhook.Subscriber, int, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]*webhook.Subscriber), args.Int(1), args.Error(2)
}

func (m *MockWebhookSubscriberRepository) ListActive(ctx context.Context) ([]*webhook.Subscriber, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*webhook.Subscriber), args.Error(1)
}

type MockAddressRepository struct{ mock.Mock }

func (m *MockAddressRepository) Add(ctx context.Context, a *address.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAddressRepository) Update(ctx context.Context, a *address.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAddressRepository) Get(ctx context.Context, id kernel.UUID) (*address.Address, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*address.Address)
	return a, args.Error(1)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAddressRepository) List(
	ctx context.Context,
	f ports.ListAddressesFilter,
) ([]*address.Address, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*address.Address), args.Int(1), args.Error(2)
}

// MockUoW serves every unit of work interface of the commands package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ShippingMethodRepository() ports.ShippingMethodRepository {
	return m.Called().Get(0).(ports.ShippingMethodRepository)
}

func (m *MockUoW) VariantRepository() ports.VariantRepository {
	return m.Called().Get(0).(ports.VariantRepository)
}

func (m *MockUoW) WebhookSubscriberRepository() ports.WebhookSubscriberRepository {
	return m.Called().Get(0).(ports.WebhookSubscriberRepository)
}

func (m *MockUoW) AddressRepository() ports.AddressRepository {
	return m.Called().Get(0).(ports.AddressRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockShippingMethodUoWFactory struct{ mock.Mock }

func (m *MockShippingMethodUoWFactory) Create() commands.ShippingMethodUoW {
	return m.Called().Get(0).(commands.ShippingMethodUoW)
}

type MockWebhookSubscriberUoWFactory struct{ mock.Mock }

func (m *MockWebhookSubscriberUoWFactory) Create() commands.WebhookSubscriberUoW {
	return m.Called().Get(0).(commands.WebhookSubscriberUoW)
}

type MockVariantUoWFactory struct{ mock.Mock }

func (m *MockVariantUoWFactory) Create() commands.VariantUoW {
	return m.Called().Get(0).(commands.VariantUoW)
}

type MockAddressUoWFactory struct{ mock.Mock }

func (m *MockAddressUoWFactory) Create() commands.AddressUoW {
	return m.Called().Get(0).(commands.AddressUoW)
}

type MockOrderLocker struct {
	mock.Mock
	released int
}

func (m *MockOrderLocker) Lock(ctx context.Context, id kernel.UUID) (func(), error) {
	args := m.Called(ctx, id)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.released++ }, nil
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Capture(ctx context.Context, o *order.Order, p *order.Payment) error {
	return m.Called(ctx, o, p).Error(0)
}

func (m *MockPaymentGateway) Void(ctx context.Context, o *order.Order, p *order.Payment) error {
	return m.Called(ctx, o, p).Error(0)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, o *order.Order, p *order.Payment) error {
	return m.Called(ctx, o, p).Error(0)
}

// orderFixture wires mocks for handlers that load one order under its lock.
type orderFixture struct {
	uow      *MockUoW
	factory  *MockOrderUoWFactory
	orders   *MockOrderRepository
	variants *MockVariantRepository
	methods  *MockShippingMethodRepository
	locker   *MockOrderLocker
	gateway  *MockPaymentGateway
	machine  services.OrderStateMachine
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		uow:      new(MockUoW),
		factory:  new(MockOrderUoWFactory),
		orders:   new(MockOrderRepository),
		variants: new(MockVariantRepository),
		methods:  new(MockShippingMethodRepository),
		locker:   new(MockOrderLocker),
		gateway:  new(MockPaymentGateway),
	}
	f.machine = services.NewOrderStateMachine(services.NewAdjustmentEngine(nil), f.gateway)
	f.factory.On("Create").Return(f.uow)
	f.uow.On("OrderRepository").Return(f.orders).Maybe()
	f.uow.On("VariantRepository").Return(f.variants).Maybe()
	f.uow.On("ShippingMethodRepository").Return(f.methods).Maybe()
	return f
}

// expectWrite expects a successful locked load, update and commit of o.
func (f *orderFixture) expectWrite(o *order.Order) {
	f.locker.On("Lock", mock.Anything, o.ID()).Return(nil).Once()
	f.uow.On("Begin", mock.Anything).Return(nil).Once()
	f.orders.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	f.orders.On("Update", mock.Anything, o).Return(nil).Once()
	f.uow.On("Commit", mock.Anything).Return(nil).Once()
	f.uow.On("Rollback", mock.Anything).Return(nil).Once()
}

// expectRejectedWrite expects a locked load that ends in a rollback.
func (f *orderFixture) expectRejectedWrite(o *order.Order) {
	f.locker.On("Lock", mock.Anything, o.ID()).Return(nil).Once()
	f.uow.On("Begin", mock.Anything).Return(nil).Once()
	f.orders.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	f.uow.On("Rollback", mock.Anything).Return(nil).Once()
}

func (f *orderFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.uow.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.variants.AssertExpectations(t)
	f.locker.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func newVariant(t *testing.T, price string) *catalog.Variant {
	t.Helper()
	v, err := catalog.NewVariant(kernel.NewUUID(), "SKU-"+price, "Variant "+price, decimal.RequireFromString(price), "USD", false)
	require.NoError(t, err)
	return v
}

func addressAttributes() address.Attributes {
	return address.Attributes{
		FirstName: "John", LastName: "Doe", Address1: "7735 Old Georgetown Road",
		City: "Bethesda", Zipcode: "20814", Phone: "3014445002", CountryID: "US",
	}
}

func newCart(t *testing.T, variants ...*catalog.Variant) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "USD")
	require.NoError(t, err)
	for _, v := range variants {
		li, err := order.NewLineItem(kernel.NewUUID(), v.ID(), 1, v.Price(), v.Currency())
		require.NoError(t, err)
		_, err = o.AddLineItem(li)
		require.NoError(t, err)
	}
	o.PullEvents()
	return o
}

// readyCart returns a cart that satisfies every guard up to delivery.
func readyCart(t *testing.T, variants ...*catalog.Variant) *order.Order {
	t.Helper()
	o := newCart(t, variants...)
	require.NoError(t, o.SetEmail("spree@example.com"))
	bill, err := address.NewAddress(kernel.NewUUID(), addressAttributes())
	require.NoError(t, err)
	ship, err := address.NewAddress(kernel.NewUUID(), addressAttributes())
	require.NoError(t, err)
	require.NoError(t, o.AssignBillAddress(bill))
	require.NoError(t, o.AssignShipAddress(ship))
	o.PullEvents()
	return o
}

func flatRateMethod(t *testing.T, name, amount string) *shipping.ShippingMethod {
	t.Helper()
	calc, err := shipping.NewCalculator(shipping.FlatRate, map[string]string{"amount": amount})
	require.NoError(t, err)
	m, err := shipping.NewShippingMethod(kernel.NewUUID(), shipping.Attributes{Name: name}, calc)
	require.NoError(t, err)
	return m
}

func eventNames(events []kernel.Event) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
	}
	return names
}

func ptr[T any](v T) *T { return &v }

func shippingAttributes(name string) shipping.Attributes {
	return shipping.Attributes{Name: name, Code: "ups", TrackingURL: "https://ups.example.com/track/:tracking"}
}
