package queries_test

import (
	"context"

	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/shipping"
	"storefront/internal/core/domain/model/webhook"
	"storefront/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderReader) List(ctx context.Context, filter ports.ListOrdersFilter) ([]*order.Order, int, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Int(1), args.Error(2)
}

func (m *MockOrderReader) GetByChild(
	ctx context.Context,
	kind order.ChildKind,
	id kernel.UUID,
) (*order.Order, error) {
	args := m.Called(ctx, kind, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockAddressReader struct {
	mock.Mock
}

func (m *MockAddressReader) Get(ctx context.Context, id kernel.UUID) (*address.Address, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*address.Address)
	return a, args.Error(1)
}

func (m *MockAddressReader) List(
	ctx context.Context,
	filter ports.ListAddressesFilter,
) ([]*address.Address, int, error) {
	args := m.Called(ctx, filter)
	addresses, _ := args.Get(0).([]*address.Address)
	return addresses, args.Int(1), args.Error(2)
}

type MockShippingMethodReader struct {
	mock.Mock
}

func (m *MockShippingMethodReader) Get(ctx context.Context, id kernel.UUID) (*shipping.ShippingMethod, error) {
	args := m.Called(ctx, id)
	method, _ := args.Get(0).(*shipping.ShippingMethod)
	return method, args.Error(1)
}

func (m *MockShippingMethodReader) List(
	ctx context.Context,
	page ports.Pagination,
) ([]*shipping.ShippingMethod, int, error) {
	args := m.Called(ctx, page)
	methods, _ := args.Get(0).([]*shipping.ShippingMethod)
	return methods, args.Int(1), args.Error(2)
}

type MockWebhookSubscriberReader struct {
	mock.Mock
}

func (m *MockWebhookSubscriberReader) Get(ctx context.Context, id kernel.UUID) (*webhook.Subscriber, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*webhook.Subscriber)
	return s, args.Error(1)
}

func (m *MockWebhookSubscriberReader) List(
	ctx context.Context,
	page ports.Pagination,
) ([]*webhook.Subscriber, int, error) {
	args := m.Called(ctx, page)
	subscribers, _ := args.Get(0).([]*webhook.Subscriber)
	return subscribers, args.Int(1), args.Error(2)
}
