package bscmp

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

var breakpoints = []string{"xs", "sm", "md", "lg", "xl"}

// GridColumn sizes a Bootstrap grid column per breakpoint.
type GridColumn struct {
	Widths map[string]int
}

// NewGridColumn creates a column with explicit widths per breakpoint. With
// no widths it spans width 3 from md up.
func NewGridColumn(widths map[string]int) GridColumn {
	if len(widths) == 0 {
		return GridColumn{Widths: map[string]int{"md": 3}}
	}
	for bp := range widths {
		if !validBreakpoint(bp) {
			panic(fmt.Sprintf("bscmp: unknown grid breakpoint %q", bp))
		}
	}
	return GridColumn{Widths: widths}
}

// Col creates a column of width n from md up.
func Col(n int) GridColumn {
	return NewGridColumn(map[string]int{"md": n})
}

func validBreakpoint(bp string) bool {
	for _, b := range breakpoints {
		if b == bp {
			return true
		}
	}
	return false
}

// Class returns the col-<bp>-<n> classes in breakpoint order.
func (g GridColumn) Class() string {
	var cls []string
	for _, bp := range breakpoints {
		if n, ok := g.Widths[bp]; ok {
			cls = append(cls, fmt.Sprintf("col-%s-%d", bp, n))
		}
	}
	return strings.Join(cls, " ")
}

// Wrap renders content inside the column div.
func (g GridColumn) Wrap(content ...templ.Component) templ.Component {
	return Element("div", templ.Attributes{"class": g.Class()}, content...)
}

// Row renders a div.row around columns.
func Row(columns ...templ.Component) templ.Component {
	return Element("div", templ.Attributes{"class": "row"}, columns...)
}
