package bscmp

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a-h/templ"
)

// Column describes one table column as a composition of small strategies:
// Extract pulls the cell datum from a row, Convert transforms it,
// ContentMap substitutes display values, and Link optionally wraps the cell
// content in an anchor.
type Column[R any] struct {
	Header string
	ID     string

	Extract    func(row R) (any, error)
	Convert    func(v any) any
	ContentMap map[any]any
	Link       func(row R) string
	// Classes are added to every <td> of the column.
	Classes string
}

// FuncColumn creates a column whose datum is computed by fn.
func FuncColumn[R any](header string, fn func(row R) any) *Column[R] {
	return &Column[R]{
		Header: header,
		ID:     header,
		Extract: func(row R) (any, error) {
			return fn(row), nil
		},
	}
}

// IndexColumn creates a column reading element index of slice or array rows.
func IndexColumn[R any](header string, index int) *Column[R] {
	return &Column[R]{
		Header: header,
		ID:     fmt.Sprint(index),
		Extract: func(row R) (any, error) {
			rv := reflect.ValueOf(row)
			for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
				if rv.IsNil() {
					return nil, nil
				}
				rv = rv.Elem()
			}
			if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
				return nil, fmt.Errorf("%w: column %q needs slice rows, got %T", ErrNotConfigured, header, row)
			}
			if index < 0 || index >= rv.Len() {
				return nil, nil
			}
			return rv.Index(index).Interface(), nil
		},
	}
}

// AttrColumn creates a column reading a dotted path of struct fields,
// methods without arguments, or string map keys ("Owner.Email"). A nil
// value anywhere on the path yields an empty cell.
func AttrColumn[R any](header, path string) *Column[R] {
	return &Column[R]{
		Header: header,
		ID:     path,
		Extract: func(row R) (any, error) {
			return lookupPath(row, path)
		},
	}
}

// AttrOrNilColumn is like AttrColumn but renders an empty cell instead of
// failing when the path cannot be resolved.
func AttrOrNilColumn[R any](header, path string) *Column[R] {
	return &Column[R]{
		Header: header,
		ID:     path,
		Extract: func(row R) (any, error) {
			v, err := lookupPath(row, path)
			if err != nil {
				return nil, nil
			}
			return v, nil
		},
	}
}

// WithContentMap sets the display substitutions and returns the column.
func (c *Column[R]) WithContentMap(m map[any]any) *Column[R] {
	c.ContentMap = m
	return c
}

// WithConvert sets the conversion and returns the column.
func (c *Column[R]) WithConvert(fn func(any) any) *Column[R] {
	c.Convert = fn
	return c
}

// WithLink sets the link decorator and returns the column.
func (c *Column[R]) WithLink(fn func(row R) string) *Column[R] {
	c.Link = fn
	return c
}

// HeaderCell renders the <th> of the column.
func (c *Column[R]) HeaderCell() templ.Component {
	return Element("th", templ.Attributes{"scope": "col"}, Text(c.Header))
}

// CellContent computes the inner content of the column's cell for row.
func (c *Column[R]) CellContent(row R) (templ.Component, error) {
	if c.Extract == nil {
		return nil, fmt.Errorf("%w: column %q has no extractor", ErrNotConfigured, c.Header)
	}
	v, err := c.Extract(row)
	if err != nil {
		return nil, err
	}
	if c.Convert != nil {
		v = c.Convert(v)
	}
	if c.ContentMap != nil && v != nil && reflect.TypeOf(v).Comparable() {
		if mapped, ok := c.ContentMap[v]; ok {
			v = mapped
		}
	}

	content := Content(v)
	if c.Link != nil {
		if href := c.Link(row); href != "" {
			content = Element("a", templ.Attributes{"href": href}, content)
		}
	}
	return content, nil
}

// Cell renders the <td> of the column for row.
func (c *Column[R]) Cell(row R) (templ.Component, error) {
	content, err := c.CellContent(row)
	if err != nil {
		return nil, err
	}
	attrs := templ.Attributes{}
	if c.Classes != "" {
		attrs["class"] = c.Classes
	}
	return Element("td", attrs, content), nil
}

func lookupPath(row any, path string) (any, error) {
	v := reflect.ValueOf(row)
	for _, name := range strings.Split(path, ".") {
		for v.Kind() == reflect.Interface {
			if v.IsNil() {
				return nil, nil
			}
			v = v.Elem()
		}
		if !v.IsValid() {
			return nil, nil
		}
		if m := v.MethodByName(name); m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() >= 1 {
			if v.Kind() == reflect.Pointer && v.IsNil() {
				return nil, nil
			}
			v = m.Call(nil)[0]
			continue
		}
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil, nil
			}
			v = v.Elem()
		}
		switch v.Kind() {
		case reflect.Struct:
			f := v.FieldByName(name)
			if !f.IsValid() {
				return nil, fmt.Errorf("%w: %s has no field %q", ErrNotConfigured, v.Type(), name)
			}
			v = f
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return nil, fmt.Errorf("%w: cannot index %s by %q", ErrNotConfigured, v.Type(), name)
			}
			v = v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
			if !v.IsValid() {
				return nil, nil
			}
		default:
			return nil, fmt.Errorf("%w: cannot resolve %q on %s", ErrNotConfigured, name, v.Type())
		}
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		if v.Kind() == reflect.Interface {
			v = v.Elem()
			continue
		}
		break
	}
	if !v.IsValid() || !v.CanInterface() {
		return nil, nil
	}
	return v.Interface(), nil
}
