package bscmp

import (
	"github.com/a-h/templ"
)

// ButtonOptions customizes Button, LinkButton and FormButton.
type ButtonOptions struct {
	// Context is the Bootstrap variant: primary, secondary, danger,
	// outline-primary, ... Defaults to secondary.
	Context string
	// Size is sm or lg. Empty means the default size.
	Size string
	// Classes are appended to the button classes.
	Classes string
	// Hint is shown as the title tooltip.
	Hint string
	// Target is the link target of a LinkButton (_blank, ...).
	Target string
	// Attrs are merged last and win over generated attributes.
	Attrs templ.Attributes
}

func (o ButtonOptions) className() string {
	variant := o.Context
	if variant == "" {
		variant = "secondary"
	}
	cls := "btn btn-" + variant
	if o.Size != "" {
		cls += " btn-" + o.Size
	}
	return classes(cls, o.Classes)
}

func (o ButtonOptions) merge(attrs templ.Attributes) templ.Attributes {
	if o.Hint != "" {
		attrs["title"] = o.Hint
	}
	for k, v := range o.Attrs {
		attrs[k] = v
	}
	return attrs
}

// Button renders a <button type="button">.
func Button(text any, opts ButtonOptions) templ.Component {
	return button("button", text, opts)
}

// SubmitButton renders a <button type="submit">.
func SubmitButton(text any, opts ButtonOptions) templ.Component {
	return button("submit", text, opts)
}

func button(typ string, text any, opts ButtonOptions) templ.Component {
	return Element("button", opts.merge(templ.Attributes{
		"class": opts.className(),
		"type":  typ,
	}), Content(text))
}

// LinkButton renders an anchor styled as a button.
func LinkButton(href string, text any, opts ButtonOptions) templ.Component {
	attrs := templ.Attributes{
		"class": opts.className(),
		"role":  "button",
		"href":  href,
	}
	if opts.Target != "" {
		attrs["target"] = opts.Target
	}
	return Element("a", opts.merge(attrs), Content(text))
}

// FormButton renders a single-button form posting to action. hidden is
// rendered inside the form, typically a Form's HiddenTriggerField.
func FormButton(action string, text any, opts ButtonOptions, hidden ...templ.Component) templ.Component {
	children := append(append([]templ.Component(nil), hidden...), SubmitButton(text, opts))
	return Element("form", templ.Attributes{"method": "post", "action": action}, children...)
}
