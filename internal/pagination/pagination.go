package pagination

import (
	"fmt"

	"auction-client/internal/auctionerrors"
)

// Window is one page cut out of an ordered collection.
type Window[T any] struct {
	Items       []T
	PageSize    int
	CurrentPage int
	TotalPages  int
}

// TotalPages computes the page count for a collection; an empty collection
// still has one (empty) page.
func TotalPages(length, pageSize int) int {
	pages := (length + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Paginate slices items into the requested fixed-size page. Out-of-range page
// numbers are clamped into [1, TotalPages], never rejected. A non-positive
// pageSize is a configuration error.
func Paginate[T any](items []T, pageSize, page int) (Window[T], error) {
	if pageSize <= 0 {
		return Window[T]{}, fmt.Errorf("paginate: %w - page size must be positive, got %d", auctionerrors.ErrInvalidConfig, pageSize)
	}

	total := TotalPages(len(items), pageSize)
	page = clamp(page, total)

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Window[T]{
		Items:       items[start:end],
		PageSize:    pageSize,
		CurrentPage: page,
		TotalPages:  total,
	}, nil
}

// View is a stateful paginated collection: it remembers the selected page and
// keeps it in range as the backing collection changes. Not safe for
// concurrent mutation.
type View[T any] struct {
	items    []T
	pageSize int
	page     int
}

// NewView creates a view positioned on page 1.
func NewView[T any](items []T, pageSize int) (*View[T], error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("pagination view: %w - page size must be positive, got %d", auctionerrors.ErrInvalidConfig, pageSize)
	}
	return &View[T]{items: items, pageSize: pageSize, page: 1}, nil
}

// SetPage selects a page, clamping out-of-range requests instead of applying
// them.
func (v *View[T]) SetPage(page int) {
	v.page = clamp(page, v.TotalPages())
}

// Replace swaps the backing collection. If the previously selected page now
// lies past the end, it is clamped down.
func (v *View[T]) Replace(items []T) {
	v.items = items
	v.page = clamp(v.page, v.TotalPages())
}

// Window returns the currently selected page.
func (v *View[T]) Window() Window[T] {
	w, _ := Paginate(v.items, v.pageSize, v.page)
	return w
}

// CurrentPage returns the selected page number (1-based).
func (v *View[T]) CurrentPage() int {
	return clamp(v.page, v.TotalPages())
}

// TotalPages returns the page count for the current backing collection.
func (v *View[T]) TotalPages() int {
	return TotalPages(len(v.items), v.pageSize)
}

// Len returns the size of the backing collection.
func (v *View[T]) Len() int {
	return len(v.items)
}

// Items returns the full backing collection.
func (v *View[T]) Items() []T {
	return v.items
}

func clamp(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}
