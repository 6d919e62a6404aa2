package bscmp

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Flash levels. They map onto Bootstrap alert variants; FlashError renders
// as alert-danger.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

const flashSessionKey = "_flashes"

// Flash is a one-time notification stored in the session until it is shown.
//
// A typical use is reporting the outcome of a processed form, whose
// response is a redirect:
//
//	Process: func(f *bscmp.Form) error {
//	    f.Context().Flash(bscmp.FlashSuccess, "Saved.")
//	    return nil
//	},
//
// The layout renders pending messages with Alerts(ctx).
type Flash struct {
	Level   string
	Message string
}

// Flash queues a message for the next page that renders Alerts.
func (ctx *Context) Flash(level, message string) {
	if ctx.session == nil {
		return
	}
	queued := ctx.flashList()
	queued = append(queued, map[string]any{"level": level, "message": message})
	ctx.session.Set(flashSessionKey, queued)
}

func (ctx *Context) flashList() []any {
	raw, ok := ctx.session.Get(flashSessionKey)
	if !ok {
		return nil
	}
	list, _ := raw.([]any)
	return append([]any(nil), list...)
}

// Flashes removes and returns the queued messages.
func (ctx *Context) Flashes() []Flash {
	if ctx.session == nil {
		return nil
	}
	list := ctx.flashList()
	if len(list) == 0 {
		return nil
	}
	ctx.session.Delete(flashSessionKey)

	flashes := make([]Flash, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		level, _ := m["level"].(string)
		message, _ := m["message"].(string)
		flashes = append(flashes, Flash{Level: level, Message: message})
	}
	return flashes
}

func alertVariant(level string) string {
	switch level {
	case FlashError:
		return "danger"
	case FlashSuccess, FlashWarning, FlashInfo, "primary", "secondary", "danger", "light", "dark":
		return level
	}
	return "info"
}

// Alert renders a dismissible Bootstrap alert.
func Alert(level string, message any) templ.Component {
	return Element("div", templ.Attributes{
		"class": "alert alert-" + alertVariant(level) + " alert-dismissible fade show",
		"role":  "alert",
	},
		Content(message),
		Element("button", templ.Attributes{
			"type":            "button",
			"class":           "btn-close",
			"data-bs-dismiss": "alert",
			"aria-label":      "Close",
		}),
	)
}

// Alerts renders and consumes the queued flash messages. Nothing is
// rendered when the queue is empty.
func Alerts(c *Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, f := range c.Flashes() {
			if err := Alert(f.Level, f.Message).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}
