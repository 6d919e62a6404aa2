package bscmp

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/valyala/bytebufferpool"
)

// HandlerFunc builds the page for a request. Widgets are constructed with
// ctx inside the handler; the returned component is rendered by the
// registry.
type HandlerFunc func(ctx *Context) (templ.Component, error)

// Registry holds the application-wide configuration of the component model:
// the secret that submission tokens are bound to, URL reversal, session
// storage and request routing facts.
type Registry struct {
	secret   string
	urls     URLBuilder
	sessions SessionStore
	info     RequestInfoFunc
	logger   *slog.Logger
	metrics  *Metrics

	// OnError is called when a handler or render fails with anything but a
	// redirect. Customize this to render error pages for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// RegistryOption configures NewRegistry.
type RegistryOption func(*Registry)

// WithURLBuilder sets how endpoints are reversed into URLs.
// Defaults to an empty Routes table, which reverses route patterns only.
func WithURLBuilder(b URLBuilder) RegistryOption {
	return func(reg *Registry) {
		reg.urls = b
	}
}

// WithSessionStore sets the session store. Defaults to a CookieStore keyed
// by the secret.
func WithSessionStore(s SessionStore) RegistryOption {
	return func(reg *Registry) {
		reg.sessions = s
	}
}

// WithRequestInfo sets how endpoints and path parameters are read from
// requests. Defaults to ServeMuxInfo.
func WithRequestInfo(f RequestInfoFunc) RegistryOption {
	return func(reg *Registry) {
		reg.info = f
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) RegistryOption {
	return func(reg *Registry) {
		reg.logger = l
	}
}

// WithMetrics enables Prometheus counters.
func WithMetrics(m *Metrics) RegistryOption {
	return func(reg *Registry) {
		reg.metrics = m
	}
}

// NewRegistry creates a registry bound to the application secret.
// It panics if secret is empty.
func NewRegistry(secret string, opts ...RegistryOption) *Registry {
	if secret == "" {
		panic("bscmp: registry requires a non-empty secret")
	}

	reg := &Registry{
		secret: secret,
		info:   ServeMuxInfo,
	}
	for _, opt := range opts {
		opt(reg)
	}

	if reg.urls == nil {
		reg.urls = NewRoutes()
	}
	if reg.logger == nil {
		reg.logger = slog.Default()
	}
	if reg.sessions == nil {
		store, err := NewCookieStore([]byte(secret))
		if err != nil {
			panic(fmt.Sprintf("bscmp: failed to create session store: %v", err))
		}
		reg.sessions = store
	}

	// Default error handler
	reg.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		status := StatusCode(err)
		http.Error(w, http.StatusText(status), status)
	}

	return reg
}

// URLs returns the registry's URL builder.
func (reg *Registry) URLs() URLBuilder {
	return reg.urls
}

// Logger returns the registry's logger.
func (reg *Registry) Logger() *slog.Logger {
	return reg.logger
}

// NewContext creates the request context using the registry's
// RequestInfoFunc.
func (reg *Registry) NewContext(r *http.Request) (*Context, error) {
	return reg.ContextFor(r, reg.info(r))
}

// ContextFor creates the request context with routing facts supplied by the
// caller, for adapters whose router keeps them outside the *http.Request.
func (reg *Registry) ContextFor(r *http.Request, info RequestInfo) (*Context, error) {
	sess, err := reg.sessions.Load(r)
	if err != nil {
		if sess == nil {
			return nil, fmt.Errorf("%w: %v", ErrSession, err)
		}
		reg.logger.Warn("bscmp: discarding unreadable session", "error", err)
	}

	return &Context{
		request:    r,
		endpoint:   info.Endpoint,
		pathParams: info.PathParams,
		subtree:    info.Subtree,
		query:      r.URL.Query(),
		urls:       reg.urls,
		session:    sess,
		secret:     reg.secret,
		logger:     reg.logger,
		metrics:    reg.metrics,
		tracker:    NewStateTracker(),
		names:      make(map[string]int),
	}, nil
}

// Handler adapts fn to net/http.
//
//	mux.Handle("GET /users", reg.Handler(usersPage))
//	mux.Handle("POST /users", reg.Handler(usersPage))
func (reg *Registry) Handler(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reg.Serve(w, r, reg.info(r), fn)
	})
}

// Serve runs fn for one request and writes the response.
//
// The page is rendered into a buffer first, so a redirect or error raised
// during rendering (for instance by a processed Form) still controls the
// response. The session is saved before anything is written.
func (reg *Registry) Serve(w http.ResponseWriter, r *http.Request, info RequestInfo, fn HandlerFunc) {
	ctx, err := reg.ContextFor(r, info)
	if err != nil {
		reg.fail(w, r, nil, err)
		return
	}

	comp, err := fn(ctx)
	if err != nil {
		reg.fail(w, r, ctx, err)
		return
	}
	if comp == nil {
		reg.fail(w, r, ctx, fmt.Errorf("%w: handler returned no component", ErrNotConfigured))
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := comp.Render(r.Context(), buf); err != nil {
		reg.fail(w, r, ctx, err)
		return
	}

	reg.Finish(w, ctx)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.B); err != nil {
		reg.logger.Debug("bscmp: response write failed", "error", err)
	}
}

// Finish persists the request's session. Serve calls it; adapters that
// write responses themselves must call it before writing.
func (reg *Registry) Finish(w http.ResponseWriter, ctx *Context) {
	if ctx.session == nil {
		return
	}
	if err := reg.sessions.Save(w, ctx.request, ctx.session); err != nil {
		reg.logger.Error("bscmp: session save failed", "error", err)
	}
}

func (reg *Registry) fail(w http.ResponseWriter, r *http.Request, ctx *Context, err error) {
	if ctx != nil {
		reg.Finish(w, ctx)
	}

	if re, ok := AsRedirect(err); ok {
		http.Redirect(w, r, re.URL, re.code())
		return
	}

	status := StatusCode(err)
	reg.metrics.renderError(strconv.Itoa(status))
	if status >= http.StatusInternalServerError {
		reg.logger.Error("bscmp: request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		reg.logger.Info("bscmp: request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	reg.OnError(w, r, err)
}
