package queries_test

import (
	"math"
	"testing"

	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListOrdersQuery_Defaults(t *testing.T) {
	query, err := queries.NewListOrdersQuery(0, 0, queries.OrderFilter{})
	require.NoError(t, err)
	require.NoError(t, query.Validate())

	assert.Equal(t, ports.Pagination{Page: 1, PerPage: queries.DefaultPerPage}, query.Filter().Pagination)
	assert.Equal(t, order.Unknown, query.Filter().State)
}

func TestNewListOrdersQuery_PerPageIsCapped(t *testing.T) {
	query, err := queries.NewListOrdersQuery(3, 500, queries.OrderFilter{})
	require.NoError(t, err)

	assert.Equal(t, 3, query.Filter().Page)
	assert.Equal(t, queries.MaxPerPage, query.Filter().PerPage)
}

func TestNewListOrdersQuery_LastAddressablePage(t *testing.T) {
	last := math.MaxInt/queries.MaxPerPage + 1
	query, err := queries.NewListOrdersQuery(last, queries.MaxPerPage, queries.OrderFilter{})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, query.Filter().Offset(), 0)
}

func TestPagination_OffsetSaturates(t *testing.T) {
	assert.Equal(t, 0, ports.Pagination{Page: 1, PerPage: 25}.Offset())
	assert.Equal(t, 50, ports.Pagination{Page: 3, PerPage: 25}.Offset())
	assert.Equal(t, math.MaxInt, ports.Pagination{Page: math.MaxInt, PerPage: 100}.Offset())
}

func TestNewListOrdersQuery_Filter(t *testing.T) {
	query, err := queries.NewListOrdersQuery(1, 10, queries.OrderFilter{
		State: "complete",
		Email: " Buyer@Example.com ",
	})
	require.NoError(t, err)

	assert.Equal(t, order.Complete, query.Filter().State)
	assert.Equal(t, "buyer@example.com", query.Filter().Email)
}

func TestNewListOrdersQuery_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		perPage int
		filter  queries.OrderFilter
		want    error
	}{
		{name: "negative page", page: -1, want: errs.ErrValueIsOutOfRange},
		{name: "negative per_page", perPage: -5, want: errs.ErrValueIsOutOfRange},
		{name: "page beyond addressable offset", page: math.MaxInt64 / 50, perPage: 100, want: errs.ErrValueIsOutOfRange},
		{name: "unknown state", filter: queries.OrderFilter{State: "shipped"}, want: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queries.NewListOrdersQuery(tt.page, tt.perPage, tt.filter)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestListOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.ListOrdersQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrListOrdersQueryIsNotConstructed)
}

func TestPage_TotalPages(t *testing.T) {
	tests := []struct {
		total, perPage, want int
	}{
		{total: 0, perPage: 25, want: 0},
		{total: 1, perPage: 25, want: 1},
		{total: 25, perPage: 25, want: 1},
		{total: 26, perPage: 25, want: 2},
		{total: 101, perPage: 10, want: 11},
	}

	for _, tt := range tests {
		page := queries.Page[int]{Number: 1, PerPage: tt.perPage, TotalCount: tt.total}
		assert.Equal(t, tt.want, page.TotalPages(), "total %d per page %d", tt.total, tt.perPage)
	}
}

func TestPage_Links(t *testing.T) {
	first := queries.Page[int]{Number: 1, PerPage: 10, TotalCount: 25}
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrev())

	last := queries.Page[int]{Number: 3, PerPage: 10, TotalCount: 25}
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrev())

	empty := queries.Page[int]{Number: 1, PerPage: 10}
	assert.False(t, empty.HasNext())
	assert.False(t, empty.HasPrev())
}
