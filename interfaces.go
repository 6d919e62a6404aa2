package bscmp

import (
	"net/http"
	"net/url"

	"github.com/a-h/templ"
)

// Node is implemented by every widget that takes part in a component tree.
//
// Widgets embed *Component, which promotes Base onto the widget type, so a
// widget can be passed wherever a parent is expected:
//
//	table, _ := bscmp.NewPaginatedTable(ctx, cols, rows)
//	filter, _ := bscmp.NewInteractive(ctx, "filter", filterSlots, bscmp.WithParent(table))
type Node interface {
	Base() *Component
}

// Stateful is implemented by components that carry URL state.
// State returns nil for components without slots.
type Stateful interface {
	State() *State
}

// Widget is a renderable tree node.
type Widget interface {
	Node
	templ.Component
}

// URLBuilder reverses an endpoint plus parameters into a URL.
//
// Parameters that are not consumed by the endpoint's path become query
// parameters. See Routes for the default implementation.
type URLBuilder interface {
	URLFor(endpoint string, params url.Values) (string, error)
}

// Session is a per-browser key/value mapping that survives between requests.
type Session interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
	// Values exposes the underlying mapping for persistence.
	Values() map[string]any
	// Modified reports whether Set or Delete was called since loading.
	Modified() bool
}

// SessionStore loads and persists sessions for HTTP requests.
type SessionStore interface {
	Load(r *http.Request) (Session, error)
	Save(w http.ResponseWriter, r *http.Request, s Session) error
}

// RequestInfo carries the routing facts the host framework knows about a
// request: the matched endpoint and its path parameters.
//
// Subtree marks endpoints that match a whole path subtree, such as the
// ServeMux pattern "/docs/". The endpoint then does not determine the path,
// so URLs to the current page keep the request path.
type RequestInfo struct {
	Endpoint   string
	PathParams map[string]string
	Subtree    bool
}

// RequestInfoFunc extracts RequestInfo from a request. Adapters provide
// implementations for their router.
type RequestInfoFunc func(r *http.Request) RequestInfo
