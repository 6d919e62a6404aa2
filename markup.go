package bscmp

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// Element renders <tag attrs>children</tag>.
//
// Attribute values are escaped; nil and false values are omitted and true
// renders a bare attribute. Attributes are written in sorted order so
// output is deterministic.
func Element(tag string, attrs templ.Attributes, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+tag+renderAttrs(attrs)+">"); err != nil {
			return err
		}
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

// Void renders a self-contained element such as <input>.
func Void(tag string, attrs templ.Attributes) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<"+tag+renderAttrs(attrs)+">")
		return err
	})
}

func renderAttrs(attrs templ.Attributes) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		switch v := attrs[k].(type) {
		case nil:
		case bool:
			if v {
				sb.WriteString(" " + templ.EscapeString(k))
			}
		case string:
			sb.WriteString(" " + templ.EscapeString(k) + `="` + templ.EscapeString(v) + `"`)
		default:
			sb.WriteString(" " + templ.EscapeString(k) + `="` + templ.EscapeString(fmt.Sprint(v)) + `"`)
		}
	}
	return sb.String()
}

// Text renders s escaped.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// Raw renders trusted markup without escaping.
func Raw(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}

// Join renders the components one after another.
func Join(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Content converts an arbitrary value into a component: components are
// used as is, nil renders nothing, everything else is formatted and
// escaped.
func Content(v any) templ.Component {
	switch v := v.(type) {
	case nil:
		return Join()
	case templ.Component:
		return v
	case string:
		return Text(v)
	case fmt.Stringer:
		return Text(v.String())
	default:
		return Text(fmt.Sprint(v))
	}
}

// RenderString renders c into a string.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func classes(parts ...string) string {
	var res []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return strings.Join(res, " ")
}
