package bscmp

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// ToolbarButton is a link button of a Toolbar.
type ToolbarButton struct {
	Text   any
	Target string
	// Context is the Bootstrap variant. Empty uses the toolbar's.
	Context string
	Hint    string
	Args    url.Values
	// PassArgs names render-time arguments copied into the link.
	PassArgs []string
}

func (b *ToolbarButton) component(c *Context, t *Toolbar, args map[string]string) (templ.Component, error) {
	params := url.Values{}
	for k, v := range b.Args {
		params[k] = append([]string(nil), v...)
	}
	for _, name := range b.PassArgs {
		v, ok := args[name]
		if !ok {
			return nil, fmt.Errorf("%w: toolbar argument %q", ErrMissingParam, name)
		}
		params.Set(name, v)
	}
	href, err := URLOrURLFor(c, b.Target, params)
	if err != nil {
		return nil, err
	}
	variant := b.Context
	if variant == "" {
		variant = t.Context
	}
	return LinkButton(href, b.Text, ButtonOptions{Context: variant, Size: t.Size, Hint: b.Hint}), nil
}

// Toolbar is a reusable row of link buttons. Splitters break the row into
// separate button groups.
type Toolbar struct {
	// Grouped wraps the buttons in div.btn-toolbar > div.btn-group. Adding a
	// splitter turns it on.
	Grouped bool
	// Size is the button size (sm, lg).
	Size string
	// Context is the default button variant.
	Context string

	items []*ToolbarButton // nil entries are splitters
}

// NewToolbar creates a grouped toolbar of light buttons.
func NewToolbar() *Toolbar {
	return &Toolbar{Grouped: true, Context: "light"}
}

// AddButton appends a link button to target and returns it for further
// customization.
func (t *Toolbar) AddButton(text any, target string, args url.Values) *ToolbarButton {
	b := &ToolbarButton{Text: text, Target: target, Args: args}
	t.items = append(t.items, b)
	return b
}

// AddSplitter starts a new button group.
func (t *Toolbar) AddSplitter() {
	t.items = append(t.items, nil)
	t.Grouped = true
}

func (t *Toolbar) groups(c *Context, args map[string]string) ([][]templ.Component, error) {
	groups := [][]templ.Component{nil}
	for _, b := range t.items {
		if b == nil {
			groups = append(groups, nil)
			continue
		}
		comp, err := b.component(c, t, args)
		if err != nil {
			return nil, err
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], comp)
	}
	return groups, nil
}

// Component renders the toolbar for the request. args feed the buttons'
// PassArgs.
func (t *Toolbar) Component(c *Context, args map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		groups, err := t.groups(c, args)
		if err != nil {
			return err
		}
		if !t.Grouped {
			var all []templ.Component
			for _, g := range groups {
				all = append(all, g...)
			}
			return Element("div", nil, all...).Render(ctx, w)
		}
		divs := make([]templ.Component, len(groups))
		for i, g := range groups {
			divs[i] = Element("div", templ.Attributes{"class": "btn-group", "role": "group"}, g...)
		}
		return Element("div", templ.Attributes{"class": "btn-toolbar", "role": "toolbar"}, divs...).Render(ctx, w)
	})
}

// InGroup renders only the buttons, for embedding into an enclosing
// div.btn-group. Splitters close the enclosing group and open a new one.
func (t *Toolbar) InGroup(c *Context, args map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		groups, err := t.groups(c, args)
		if err != nil {
			return err
		}
		for i, g := range groups {
			if i > 0 {
				if _, err := io.WriteString(w, `</div><div class="btn-group" role="group">`); err != nil {
					return err
				}
			}
			if err := Join(g...).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Prepend renders the toolbar followed by content.
func (t *Toolbar) Prepend(c *Context, args map[string]string, content templ.Component) templ.Component {
	return Join(t.Component(c, args), content)
}
