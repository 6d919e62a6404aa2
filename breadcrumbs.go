package bscmp

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// Breadcrumb is one step of a breadcrumb trail.
type Breadcrumb struct {
	// Name is the label. nil stands for the page title.
	Name any
	// Target is an endpoint or a literal URL. Empty marks the current page.
	Target string
	Params url.Values
}

// Href returns the link of the crumb, or "" for the current page.
func (b Breadcrumb) Href(ctx *Context) (string, error) {
	if b.Target == "" {
		return "", nil
	}
	return URLOrURLFor(ctx, b.Target, b.Params)
}

// Breadcrumbs is a reusable trail definition. Shared trails are usually
// declared once and extended per page:
//
//	var adminCrumbs = bscmp.NewBreadcrumbs().Add("Admin", "admin.index", nil)
//
//	crumbs := adminCrumbs.Extend().Add("Users", "admin.users", nil).Add(nil, "", nil)
type Breadcrumbs struct {
	items []Breadcrumb
}

// NewBreadcrumbs creates an empty trail.
func NewBreadcrumbs() *Breadcrumbs {
	return &Breadcrumbs{}
}

// Extend returns a copy of the trail that can grow independently.
func (b *Breadcrumbs) Extend() *Breadcrumbs {
	return &Breadcrumbs{items: append([]Breadcrumb(nil), b.items...)}
}

// Add appends a crumb and returns the trail.
func (b *Breadcrumbs) Add(name any, target string, params url.Values) *Breadcrumbs {
	b.items = append(b.items, Breadcrumb{Name: name, Target: target, Params: params})
	return b
}

// Items returns the crumbs in order.
func (b *Breadcrumbs) Items() []Breadcrumb {
	return append([]Breadcrumb(nil), b.items...)
}

// Component renders the trail for the request. title replaces crumbs with
// a nil name.
func (b *Breadcrumbs) Component(c *Context, title any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lis := make([]templ.Component, len(b.items))
		for i, item := range b.items {
			name := item.Name
			if name == nil {
				name = title
			}
			href, err := item.Href(c)
			if err != nil {
				return err
			}
			if href == "" {
				lis[i] = Element("li", templ.Attributes{"class": "breadcrumb-item active", "aria-current": "page"}, Content(name))
				continue
			}
			lis[i] = Element("li", templ.Attributes{"class": "breadcrumb-item"},
				Element("a", templ.Attributes{"href": href}, Content(name)))
		}
		return Element("nav", templ.Attributes{"aria-label": "breadcrumb"},
			Element("ol", templ.Attributes{"class": "breadcrumb py-0"}, lis...),
		).Render(ctx, w)
	})
}
