package bscmp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

// NavItem is one link of a Nav.
type NavItem struct {
	Label any
	// Target is an endpoint, or a literal URL when it contains "/".
	Target string
	Args   url.Values
	// PreserveArgs names path parameters of the current request copied
	// into the link.
	PreserveArgs []string
	// SubendpointPattern is a glob (* and ?) of endpoints that also mark the
	// item active.
	SubendpointPattern string
}

// NavOption configures a NavItem.
type NavOption func(*NavItem)

// NavArgs sets the parameters of the link.
func NavArgs(args url.Values) NavOption {
	return func(it *NavItem) {
		it.Args = args
	}
}

// NavPreserve copies the named path parameters of the current request into
// the link, replacing the Nav-wide list.
func NavPreserve(names ...string) NavOption {
	return func(it *NavItem) {
		it.PreserveArgs = names
	}
}

// NavSubendpoints marks the item active on every endpoint starting with
// its target.
func NavSubendpoints() NavOption {
	return func(it *NavItem) {
		it.SubendpointPattern = globEscape(it.Target) + "*"
	}
}

// NavPattern marks the item active on endpoints matching glob.
func NavPattern(glob string) NavOption {
	return func(it *NavItem) {
		it.SubendpointPattern = glob
	}
}

// IsActive reports whether the item points at the current endpoint.
func (it *NavItem) IsActive(ctx *Context) bool {
	if ctx.Endpoint() == it.Target {
		return true
	}
	if it.SubendpointPattern != "" {
		return globMatch(it.SubendpointPattern, ctx.Endpoint())
	}
	return false
}

// URL returns the link of the item.
func (it *NavItem) URL(ctx *Context) (string, error) {
	params := url.Values{}
	for k, v := range it.Args {
		params[k] = append([]string(nil), v...)
	}
	if len(it.PreserveArgs) > 0 {
		path := ctx.PathParams()
		for _, name := range it.PreserveArgs {
			v, ok := path[name]
			if !ok {
				return "", fmt.Errorf("%w: %q is not a path parameter of %s", ErrMissingParam, name, ctx.Endpoint())
			}
			params.Set(name, v)
		}
	}
	return URLOrURLFor(ctx, it.Target, params)
}

func (it *NavItem) component(ctx *Context) (templ.Component, error) {
	href, err := it.URL(ctx)
	if err != nil {
		return nil, err
	}
	attrs := templ.Attributes{"class": "nav-link", "href": href}
	if it.IsActive(ctx) {
		attrs["class"] = "nav-link active"
		attrs["aria-current"] = "page"
	}
	return Element("li", templ.Attributes{"class": "nav-item"},
		Element("a", attrs, Content(it.Label)),
	), nil
}

// Nav renders a Bootstrap nav list. Links are computed at render time.
//
//	nav := bscmp.NewNavTabs(ctx, "project")
//	nav.Add("Overview", "project.overview")
//	nav.Add("Issues", "project.issues", bscmp.NavSubendpoints())
type Nav struct {
	ctx      *Context
	class    string
	preserve []string
	items    []*NavItem
}

// NewNav creates a plain nav. preserve names path parameters carried into
// every link unless an item overrides them.
func NewNav(ctx *Context, preserve ...string) *Nav {
	return &Nav{ctx: ctx, class: "nav", preserve: preserve}
}

// NewNavTabs creates a nav styled as tabs.
func NewNavTabs(ctx *Context, preserve ...string) *Nav {
	n := NewNav(ctx, preserve...)
	n.class = "nav nav-tabs"
	return n
}

// NewNavPills creates a nav styled as pills.
func NewNavPills(ctx *Context, preserve ...string) *Nav {
	n := NewNav(ctx, preserve...)
	n.class = "nav nav-pills"
	return n
}

// Add appends a link to target.
func (n *Nav) Add(label any, target string, opts ...NavOption) *NavItem {
	it := &NavItem{Label: label, Target: target, PreserveArgs: n.preserve}
	for _, opt := range opts {
		opt(it)
	}
	n.items = append(n.items, it)
	return it
}

// AddItem appends a prepared item.
func (n *Nav) AddItem(it *NavItem) {
	n.items = append(n.items, it)
}

// Items returns the items in order.
func (n *Nav) Items() []*NavItem {
	return append([]*NavItem(nil), n.items...)
}

func (n *Nav) Render(ctx context.Context, w io.Writer) error {
	lis := make([]templ.Component, len(n.items))
	for i, it := range n.items {
		li, err := it.component(n.ctx)
		if err != nil {
			return err
		}
		lis[i] = li
	}
	return Element("ul", templ.Attributes{"class": n.class}, lis...).Render(ctx, w)
}

// globMatch matches name against a case-sensitive shell glob where * and ?
// match any characters including "/".
func globMatch(glob, name string) bool {
	re, err := regexp.Compile(globRegexp(glob))
	if err != nil {
		return false
	}
	return re.MatchString(name)
}

func globRegexp(glob string) string {
	var sb strings.Builder
	sb.WriteString(`\A(?s:`)
	for i := 0; i < len(glob); i++ {
		switch c := glob[i]; c {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		case '[':
			end := strings.IndexByte(glob[i+1:], ']')
			if end < 0 {
				sb.WriteString(`\[`)
				continue
			}
			class := glob[i+1 : i+1+end]
			if end == 0 {
				// "[]...]" keeps the first ] in the class
				next := strings.IndexByte(glob[i+2:], ']')
				if next < 0 {
					sb.WriteString(`\[`)
					continue
				}
				class = glob[i+1 : i+2+next]
				end = next + 1
			}
			class = strings.ReplaceAll(class, `\`, `\\`)
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			} else if strings.HasPrefix(class, "^") {
				class = `\` + class
			}
			sb.WriteString("[" + class + "]")
			i += end + 1
		default:
			sb.WriteString(regexp.QuoteMeta(glob[i : i+1]))
		}
	}
	sb.WriteString(`)\z`)
	return sb.String()
}

func globEscape(s string) string {
	var sb strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[':
			sb.WriteString("[" + string(c) + "]")
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
