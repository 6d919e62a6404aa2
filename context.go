package bscmp

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/adh/bscmp/lib/csrf"
)

// Context is the request-scoped environment widgets are built with.
//
// It carries what the host framework knows about the request (method,
// endpoint, parameters), the session, the URL builder, and the per-request
// bookkeeping of the component model: default-name counters and the state
// tracker. A Context must not be shared between requests.
type Context struct {
	request    *http.Request
	endpoint   string
	pathParams map[string]string
	subtree    bool
	query      url.Values

	urls    URLBuilder
	session Session
	secret  string
	logger  *slog.Logger
	metrics *Metrics
	tracker *StateTracker
	names   map[string]int
}

// Request returns the underlying HTTP request.
func (ctx *Context) Request() *http.Request {
	return ctx.request
}

// Method returns the HTTP method of the request.
func (ctx *Context) Method() string {
	return ctx.request.Method
}

// IsSubmit reports whether the request is a form submission.
func (ctx *Context) IsSubmit() bool {
	return ctx.request.Method == http.MethodPost
}

// Endpoint returns the identifier of the matched route.
func (ctx *Context) Endpoint() string {
	return ctx.endpoint
}

// PathParams returns a copy of the path parameters of the matched route.
func (ctx *Context) PathParams() map[string]string {
	res := make(map[string]string, len(ctx.pathParams))
	for k, v := range ctx.pathParams {
		res[k] = v
	}
	return res
}

// Query returns the parsed query parameters. The result must not be
// modified.
func (ctx *Context) Query() url.Values {
	return ctx.query
}

// Form returns the submitted form body (POST, PUT and PATCH only).
func (ctx *Context) Form() (url.Values, error) {
	if err := ctx.request.ParseForm(); err != nil {
		return nil, Abort(http.StatusBadRequest, err)
	}
	return ctx.request.PostForm, nil
}

// Params returns a fresh copy of the query and path parameters. Path
// parameters win over query parameters of the same name.
func (ctx *Context) Params() url.Values {
	args := make(url.Values, len(ctx.query)+len(ctx.pathParams))
	for k, v := range ctx.query {
		args[k] = append([]string(nil), v...)
	}
	for k, v := range ctx.pathParams {
		args.Set(k, v)
	}
	return args
}

// URLFor reverses endpoint with params. An empty endpoint addresses the
// current request path.
func (ctx *Context) URLFor(endpoint string, params url.Values) (string, error) {
	if endpoint == "" {
		u := ctx.request.URL.EscapedPath()
		if q := params.Encode(); q != "" {
			u += "?" + q
		}
		return u, nil
	}
	return ctx.urls.URLFor(endpoint, params)
}

// SelfURL reverses the current page with params. On subtree endpoints the
// request path is kept and path parameters are not repeated in the query.
func (ctx *Context) SelfURL(params url.Values) (string, error) {
	if !ctx.subtree {
		return ctx.URLFor(ctx.endpoint, params)
	}
	rest := make(url.Values, len(params))
	for k, v := range params {
		if _, ok := ctx.pathParams[k]; !ok {
			rest[k] = v
		}
	}
	return ctx.URLFor("", rest)
}

// Session returns the session of the request.
func (ctx *Context) Session() Session {
	return ctx.session
}

// Logger returns the registry's logger.
func (ctx *Context) Logger() *slog.Logger {
	return ctx.logger
}

// Tracker returns the request's state tracker.
func (ctx *Context) Tracker() *StateTracker {
	return ctx.tracker
}

// GenerateDefaultName returns base, lower-cased, with a counter appended
// that is unique per base within the request: table0, table1, ...
func (ctx *Context) GenerateDefaultName(base string) string {
	base = strings.ToLower(base)
	if base == "" {
		base = "component"
	}
	n := ctx.names[base]
	ctx.names[base] = n + 1
	return base + strconv.Itoa(n)
}

// ScopedToken returns the submission token for scope, bound to the session
// and, when includeEndpoint is set, to the current endpoint.
func (ctx *Context) ScopedToken(scope string, includeEndpoint bool) (string, error) {
	if ctx.session == nil {
		return "", ErrSession
	}
	key, err := csrf.SessionKey(ctx.session)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSession, err)
	}
	endpoint := ""
	if includeEndpoint {
		endpoint = ctx.endpointKey()
	}
	return csrf.Token(key, scope, endpoint, ctx.secret), nil
}

// endpointKey identifies the endpoint in tokens. Requests without routing
// information, and subtree endpoints, fall back to their path.
func (ctx *Context) endpointKey() string {
	if ctx.endpoint != "" && !ctx.subtree {
		return ctx.endpoint
	}
	return ctx.request.URL.Path
}
