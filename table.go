package bscmp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Table renders rows of type R through a list of columns.
//
//	t := bscmp.NewTable(rows,
//	    bscmp.AttrColumn[User]("Name", "Name"),
//	    bscmp.AttrColumn[User]("Team", "Team.Name"),
//	)
type Table[R any] struct {
	Columns []*Column[R]
	Rows    []R

	// Classes are appended to "table". Defaults to table-striped.
	Classes []string
	// Responsive wraps the table in a div.table-responsive.
	Responsive bool
	// RowClasses returns extra classes for a row's <tr>.
	RowClasses func(row R) []string
}

// NewTable creates a striped responsive table.
func NewTable[R any](rows []R, columns ...*Column[R]) *Table[R] {
	return &Table[R]{
		Columns:    columns,
		Rows:       rows,
		Classes:    []string{"table-striped"},
		Responsive: true,
	}
}

// PlainTable creates a table of positional rows, one IndexColumn per header.
func PlainTable(headers []string, rows [][]any) *Table[[]any] {
	columns := make([]*Column[[]any], len(headers))
	for i, h := range headers {
		columns[i] = IndexColumn[[]any](h, i)
	}
	return NewTable(rows, columns...)
}

// ObjectTable creates a table with one AttrColumn per attribute path.
// headers and attrs are paired by position.
func ObjectTable[R any](headers, attrs []string, rows []R) *Table[R] {
	if len(headers) != len(attrs) {
		panic(fmt.Sprintf("bscmp: ObjectTable got %d headers for %d attributes", len(headers), len(attrs)))
	}
	columns := make([]*Column[R], len(attrs))
	for i, attr := range attrs {
		columns[i] = AttrColumn[R](headers[i], attr)
	}
	return NewTable(rows, columns...)
}

func (t *Table[R]) className() string {
	return classes(append([]string{"table"}, t.Classes...)...)
}

func (t *Table[R]) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: table has no columns", ErrNotConfigured)
	}
	if t.Rows == nil {
		return fmt.Errorf("%w: table has no data", ErrNotConfigured)
	}
	return nil
}

// Render renders the table. Cells are computed before anything is written,
// so an extraction error leaves w untouched.
func (t *Table[R]) Render(ctx context.Context, w io.Writer) error {
	if err := t.validate(); err != nil {
		return err
	}

	headers := make([]templ.Component, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.HeaderCell()
	}

	rows := make([]templ.Component, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]templ.Component, len(t.Columns))
		for j, col := range t.Columns {
			cell, err := col.Cell(row)
			if err != nil {
				return fmt.Errorf("row %d, column %q: %w", i, col.Header, err)
			}
			cells[j] = cell
		}
		attrs := templ.Attributes{}
		if t.RowClasses != nil {
			if cls := strings.Join(t.RowClasses(row), " "); cls != "" {
				attrs["class"] = cls
			}
		}
		rows[i] = Element("tr", attrs, cells...)
	}

	table := Element("table", templ.Attributes{"class": t.className()},
		Element("thead", nil, Element("tr", nil, headers...)),
		Element("tbody", nil, rows...),
	)
	if t.Responsive {
		table = Element("div", templ.Attributes{"class": "table-responsive"}, table)
	}
	return table.Render(ctx, w)
}
