package queries

import (
	"math"

	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

const (
	DefaultPerPage = 25
	MaxPerPage     = 100
)

// Page is one page of a listing and the size of the whole listing.
type Page[T any] struct {
	Items      []T
	Number     int
	PerPage    int
	TotalCount int
}

// TotalPages is ceil(TotalCount / PerPage), 0 for an empty listing.
func (p Page[T]) TotalPages() int {
	if p.TotalCount <= 0 || p.PerPage <= 0 {
		return 0
	}
	return (p.TotalCount + p.PerPage - 1) / p.PerPage
}

func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages()
}

func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// newPagination resolves the requested page. Zero means "not given": page 0
// is the first page and per_page 0 is DefaultPerPage. per_page is capped at
// MaxPerPage. A page whose offset does not fit in an int is out of range.
func newPagination(page, perPage int) (ports.Pagination, error) {
	if page < 0 {
		return ports.Pagination{}, errs.NewValueIsOutOfRangeError("page", page, 1, nil)
	}
	if perPage < 0 {
		return ports.Pagination{}, errs.NewValueIsOutOfRangeError("per_page", perPage, 1, MaxPerPage)
	}

	if page == 0 {
		page = 1
	}
	switch {
	case perPage == 0:
		perPage = DefaultPerPage
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}
	if maxPage := math.MaxInt/perPage + 1; page > maxPage {
		return ports.Pagination{}, errs.NewValueIsOutOfRangeError("page", page, 1, maxPage)
	}
	return ports.Pagination{Page: page, PerPage: perPage}, nil
}

func newPage[T any](items []T, p ports.Pagination, total int) Page[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return Page[T]{Items: items, Number: p.Page, PerPage: p.PerPage, TotalCount: total}
}
