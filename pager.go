package bscmp

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

var (
	// PageSlot holds the zero-based page of a PaginatedTable.
	PageSlot = IntSlot("page", 0)
	// PerPageSlot holds the page size of a PaginatedTable.
	PerPageSlot = IntSlot("per_page", 10)

	paginationSlots = NewSlots(PageSlot, PerPageSlot)
)

// PaginatedTable is an interactive table showing one page of its rows. The
// page and page size travel in the URL as <prefix>__page and
// <prefix>__per_page.
type PaginatedTable[R any] struct {
	*Component
	Table *Table[R]

	// PerPageOptions lists page sizes offered below the pagination. Empty
	// hides the selector.
	PerPageOptions []int
}

// NewPaginatedTable creates a paginated table over rows. It fails with
// ErrBadParam when the request carries a negative page or a non-positive
// page size.
func NewPaginatedTable[R any](ctx *Context, table *Table[R], opts ...Option) (*PaginatedTable[R], error) {
	c, err := NewInteractive(ctx, "paginatedtable", paginationSlots, opts...)
	if err != nil {
		return nil, err
	}
	t := &PaginatedTable[R]{Component: c, Table: table}
	if t.PerPage() <= 0 {
		c.detach()
		return nil, fmt.Errorf("%w: %s must be positive, got %d", ErrBadParam, c.state.ParamName("per_page"), t.PerPage())
	}
	if t.Page() < 0 {
		c.detach()
		return nil, fmt.Errorf("%w: %s must not be negative, got %d", ErrBadParam, c.state.ParamName("page"), t.Page())
	}
	return t, nil
}

// Page returns the current zero-based page.
func (t *PaginatedTable[R]) Page() int {
	return PageSlot.Get(t)
}

// PerPage returns the page size.
func (t *PaginatedTable[R]) PerPage() int {
	return PerPageSlot.Get(t)
}

// SetPage moves to page n.
func (t *PaginatedTable[R]) SetPage(n int) {
	PageSlot.Set(t, n)
}

// PageCount returns the number of pages needed for all rows.
func (t *PaginatedTable[R]) PageCount() int {
	n := len(t.Table.Rows)
	if n == 0 {
		return 0
	}
	return (n-1)/t.PerPage() + 1
}

// PageRows returns the rows of the current page. Pages past the end are
// empty.
func (t *PaginatedTable[R]) PageRows() []R {
	start, ok := t.firstRow()
	if !ok {
		return []R{}
	}
	rows := t.Table.Rows
	end := start + min(t.PerPage(), len(rows)-start)
	return rows[start:end]
}

// firstRow returns the index of the first row on the current page. The page
// is compared against PageCount before multiplying so that huge page
// numbers taken from the query cannot overflow.
func (t *PaginatedTable[R]) firstRow() (int, bool) {
	if t.Page() >= t.PageCount() {
		return 0, false
	}
	return t.Page() * t.PerPage(), true
}

// HasNext reports whether rows exist after the current page.
func (t *PaginatedTable[R]) HasNext() bool {
	return t.Page() < t.PageCount()-1
}

// HasPrev reports whether the current page is not the first.
func (t *PaginatedTable[R]) HasPrev() bool {
	return t.Page() > 0
}

// PageURL returns the URL showing page n.
func (t *PaginatedTable[R]) PageURL(n int) (string, error) {
	return t.BuildURL(map[string]any{"page": n})
}

// NextURL returns the URL of the following page.
func (t *PaginatedTable[R]) NextURL() (string, error) {
	return t.PageURL(t.Page() + 1)
}

// PrevURL returns the URL of the preceding page.
func (t *PaginatedTable[R]) PrevURL() (string, error) {
	return t.PageURL(t.Page() - 1)
}

// PerPageURL returns the URL showing n rows per page. The page is
// recomputed so the first row currently shown stays visible.
func (t *PaginatedTable[R]) PerPageURL(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("%w: page size must be positive, got %d", ErrBadParam, n)
	}
	first, _ := t.firstRow()
	return t.BuildURL(map[string]any{
		"per_page": n,
		"page":     first / n,
	})
}

// Render renders the current page of the table followed by the pagination
// controls.
func (t *PaginatedTable[R]) Render(ctx context.Context, w io.Writer) error {
	if t.Table == nil {
		return fmt.Errorf("%w: paginated table has no table", ErrNotConfigured)
	}
	if err := t.Table.validate(); err != nil {
		return err
	}

	page := *t.Table
	page.Rows = t.PageRows()

	pagination, err := t.pagination()
	if err != nil {
		return err
	}
	perPage, err := t.perPageSelector()
	if err != nil {
		return err
	}

	return Element("div", templ.Attributes{"id": t.Anchor()},
		&page,
		pagination,
		perPage,
	).Render(ctx, w)
}

func (t *PaginatedTable[R]) pagination() (templ.Component, error) {
	count := t.PageCount()
	if count <= 1 && t.Page() == 0 {
		return nil, nil
	}

	var items []templ.Component

	prev, err := t.pageItem("Previous", t.Page()-1, !t.HasPrev(), false)
	if err != nil {
		return nil, err
	}
	items = append(items, prev)

	for n := 0; n < count; n++ {
		item, err := t.pageItem(strconv.Itoa(n+1), n, false, n == t.Page())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	next, err := t.pageItem("Next", t.Page()+1, !t.HasNext(), false)
	if err != nil {
		return nil, err
	}
	items = append(items, next)

	return Element("nav", templ.Attributes{"aria-label": "Pagination"},
		Element("ul", templ.Attributes{"class": "pagination"}, items...),
	), nil
}

func (t *PaginatedTable[R]) pageItem(label string, n int, disabled, active bool) (templ.Component, error) {
	li := templ.Attributes{"class": classes("page-item", when(disabled, "disabled"), when(active, "active"))}
	if disabled {
		return Element("li", li, Element("span", templ.Attributes{"class": "page-link"}, Text(label))), nil
	}
	href, err := t.PageURL(n)
	if err != nil {
		return nil, err
	}
	a := templ.Attributes{"class": "page-link", "href": href}
	if active {
		a["aria-current"] = "page"
	}
	return Element("li", li, Element("a", a, Text(label))), nil
}

func (t *PaginatedTable[R]) perPageSelector() (templ.Component, error) {
	if len(t.PerPageOptions) == 0 {
		return nil, nil
	}
	buttons := make([]templ.Component, len(t.PerPageOptions))
	for i, n := range t.PerPageOptions {
		href, err := t.PerPageURL(n)
		if err != nil {
			return nil, err
		}
		variant := "outline-secondary"
		if n == t.PerPage() {
			variant = "secondary"
		}
		buttons[i] = LinkButton(href, strconv.Itoa(n), ButtonOptions{Context: variant, Size: "sm"})
	}
	return Element("div", templ.Attributes{"class": "btn-group", "role": "group", "aria-label": "Rows per page"}, buttons...), nil
}

func when(cond bool, s string) string {
	if cond {
		return s
	}
	return ""
}
