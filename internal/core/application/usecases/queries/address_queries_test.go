package queries_test

import (
	"testing"

	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/address"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookAddress(t *testing.T, userID kernel.UUID) *address.Address {
	t.Helper()
	a, err := address.NewAddress(kernel.NewUUID(), address.Attributes{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Address1:  "12 St James's Square",
		City:      "London",
		Zipcode:   "SW1Y 4JH",
		Phone:     "555-0100",
		CountryID: "GB",
		UserID:    &userID,
	})
	require.NoError(t, err)
	return a
}

func TestListAddressesQueryHandler_FiltersByOwner(t *testing.T) {
	reader := &MockAddressReader{}
	owner := kernel.NewUUID()
	a := newBookAddress(t, owner)

	reader.On("List", mock.Anything, ports.ListAddressesFilter{
		UserID:     &owner,
		Pagination: ports.Pagination{Page: 1, PerPage: 5},
	}).Return([]*address.Address{a}, 1, nil).Once()

	query, err := queries.NewListAddressesQuery(1, 5, &owner)
	require.NoError(t, err)
	page, err := queries.NewListAddressesQueryHandler(reader).Handle(t.Context(), query)
	require.NoError(t, err)

	assert.Equal(t, []*address.Address{a}, page.Items)
	assert.Equal(t, 1, page.TotalPages())
	reader.AssertExpectations(t)
}

func TestNewListAddressesQuery_ZeroOwner(t *testing.T) {
	_, err := queries.NewListAddressesQuery(1, 5, &kernel.UUID{})
	require.Error(t, err)
}

func TestGetAddressQueryHandler_HidesOtherUsersAddresses(t *testing.T) {
	reader := &MockAddressReader{}
	owner := kernel.NewUUID()
	stranger := kernel.NewUUID()
	a := newBookAddress(t, owner)
	reader.On("Get", mock.Anything, a.ID()).Return(a, nil)

	handler := queries.NewGetAddressQueryHandler(reader)

	for _, caller := range []*kernel.UUID{&owner, nil} {
		query, err := queries.NewGetAddressQuery(a.ID(), caller)
		require.NoError(t, err)
		got, err := handler.Handle(t.Context(), query)
		require.NoError(t, err)
		assert.Same(t, a, got)
	}

	query, err := queries.NewGetAddressQuery(a.ID(), &stranger)
	require.NoError(t, err)
	_, err = handler.Handle(t.Context(), query)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetOrderChildQueryHandler(t *testing.T) {
	reader := &MockOrderReader{}
	o := newOrders(t, 1)[0]
	childID := kernel.NewUUID()
	missing := kernel.NewUUID()

	reader.On("GetByChild", mock.Anything, order.ChildLineItem, childID).Return(o, nil).Once()
	reader.On("GetByChild", mock.Anything, order.ChildAdjustment, missing).
		Return(nil, errs.NewObjectNotFoundError("adjustment", missing)).Once()

	handler := queries.NewGetOrderChildQueryHandler(reader)

	query, err := queries.NewGetOrderChildQuery(order.ChildLineItem, childID)
	require.NoError(t, err)
	got, err := handler.Handle(t.Context(), query)
	require.NoError(t, err)
	assert.Same(t, o, got)

	query, err = queries.NewGetOrderChildQuery(order.ChildAdjustment, missing)
	require.NoError(t, err)
	_, err = handler.Handle(t.Context(), query)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	reader.AssertExpectations(t)
}

func TestAddressQueries_NotConstructedViaConstructor(t *testing.T) {
	require.ErrorIs(t, queries.ListAddressesQuery{}.Validate(), queries.ErrListAddressesQueryIsNotConstructed)
	require.ErrorIs(t, queries.GetAddressQuery{}.Validate(), queries.ErrGetAddressQueryIsNotConstructed)
	require.ErrorIs(t, queries.GetOrderChildQuery{}.Validate(), queries.ErrGetOrderChildQueryIsNotConstructed)
}
