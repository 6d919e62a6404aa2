package bscmp

import (
	"fmt"
	"net/url"
	"strings"
)

// separator joins name prefixes and slot names into URL parameter keys.
const separator = "__"

// Component is a node in a per-request widget tree.
//
// Every component has a name unique among its siblings and a prefix made of
// all ancestor names joined by "__", which namespaces its URL parameters:
//
//	page := bscmp.NewComponent(ctx, "page", bscmp.WithName("page"))
//	list, _ := bscmp.NewPaginatedTable(ctx, cols, rows, bscmp.WithName("users"), bscmp.WithParent(page))
//	// list state lives in page__users__page and page__users__per_page
//
// Interactive components (see NewInteractive) also carry a State. Widgets
// embed *Component to gain naming, URL building and slot access.
type Component struct {
	ctx      *Context
	name     string
	prefix   string
	parent   *Component
	children []*Component
	state    *State
}

// Option configures component construction.
type Option func(*options)

type options struct {
	name     string
	parent   Node
	defaults map[string]any
}

// WithName gives the component an explicit name instead of a generated one.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithParent attaches the component under parent. The parent must be fully
// constructed first.
func WithParent(parent Node) Option {
	return func(o *options) {
		o.parent = parent
	}
}

// WithDefaults overrides slot defaults for this instance. Overridden
// defaults are not written into regenerated URLs.
func WithDefaults(defaults map[string]any) Option {
	return func(o *options) {
		if o.defaults == nil {
			o.defaults = make(map[string]any, len(defaults))
		}
		for k, v := range defaults {
			o.defaults[k] = v
		}
	}
}

// NewComponent creates a component without state. kind is used to generate
// a name when none is given.
func NewComponent(ctx *Context, kind string, opts ...Option) *Component {
	return newComponent(ctx, kind, collectOptions(opts))
}

func collectOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func newComponent(ctx *Context, kind string, o *options) *Component {
	if ctx == nil {
		panic("bscmp: component created without a context")
	}

	name := o.name
	if name == "" {
		name = ctx.GenerateDefaultName(kind)
	}
	if strings.Contains(name, separator) {
		panic(fmt.Sprintf("bscmp: component name %q contains %q", name, separator))
	}

	c := &Component{ctx: ctx, name: name, prefix: name}
	if o.parent != nil {
		if parent := o.parent.Base(); parent != nil {
			c.parent = parent
			c.prefix = parent.prefix + separator + name
			parent.children = append(parent.children, c)
		}
	}
	return c
}

// NewInteractive creates a component whose slots are hydrated from the
// request. It fails with ErrBadParam when a parameter cannot be decoded.
func NewInteractive(ctx *Context, kind string, slots Slots, opts ...Option) (*Component, error) {
	o := collectOptions(opts)
	c := newComponent(ctx, kind, o)
	st, err := newState(c, slots, c.prefix, o.defaults)
	if err != nil {
		c.detach()
		return nil, err
	}
	c.state = st
	return c, nil
}

func (c *Component) detach() {
	if c.parent == nil {
		return
	}
	siblings := c.parent.children
	for i, child := range siblings {
		if child == c {
			c.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			return
		}
	}
}

// Base returns c, letting embedding widgets satisfy Node.
func (c *Component) Base() *Component {
	return c
}

// State returns the component's state, or nil if it has none.
func (c *Component) State() *State {
	return c.state
}

// Context returns the request context the component was built with.
func (c *Component) Context() *Context {
	return c.ctx
}

// Name returns the component's name within its parent.
func (c *Component) Name() string {
	return c.name
}

// Prefix returns the hierarchical name used to namespace parameters.
func (c *Component) Prefix() string {
	return c.prefix
}

// Parent returns the parent component, or nil for a root.
func (c *Component) Parent() *Component {
	return c.parent
}

// Children returns the direct children in attachment order.
func (c *Component) Children() []*Component {
	return append([]*Component(nil), c.children...)
}

// InteractiveChildren returns the direct children that carry state.
func (c *Component) InteractiveChildren() []*Component {
	var res []*Component
	for _, child := range c.children {
		if child.state != nil {
			res = append(res, child)
		}
	}
	return res
}

// FieldName namespaces a form field or parameter name under the component.
func (c *Component) FieldName(name string) string {
	return c.prefix + separator + name
}

// Anchor returns the fragment identifier of the component.
func (c *Component) Anchor() string {
	return c.prefix
}

// URLWithAnchor appends the component's anchor to u.
func (c *Component) URLWithAnchor(u string) string {
	if c.prefix == "" {
		return u
	}
	return u + "#" + c.prefix
}

// BuildURL returns a URL to the current endpoint that preserves the state of
// the whole subtree, with overrides applied to this component's slots.
//
// Overrides naming undeclared slots fail with ErrUnknownSlot. Calling
// BuildURL without overrides on an unmodified tree reproduces its state.
func (c *Component) BuildURL(overrides map[string]any) (string, error) {
	u, err := c.buildURL(overrides)
	if err != nil {
		return "", err
	}
	return c.URLWithAnchor(u), nil
}

func (c *Component) buildURL(overrides map[string]any) (string, error) {
	if len(overrides) > 0 {
		if c.state == nil {
			return "", fmt.Errorf("%w: %s has no state", ErrUnknownSlot, c.prefix)
		}
		if err := c.state.checkOverrides(overrides); err != nil {
			return "", err
		}
	}

	args := c.ctx.Params()
	if err := c.writeParams(args, overrides); err != nil {
		return "", err
	}
	return c.ctx.SelfURL(args)
}

func (c *Component) writeParams(args url.Values, overrides map[string]any) error {
	if c.state != nil {
		if err := c.state.writeParams(args, overrides); err != nil {
			return err
		}
	}
	for _, child := range c.children {
		if err := child.writeParams(args, nil); err != nil {
			return err
		}
	}
	return nil
}
