package bscmp

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/adh/bscmp/lib/csrf"
)

// TestSecret is the application secret used by NewTestRequest unless
// WithSecret overrides it.
const TestSecret = "bscmp-test-secret"

// TestResult holds the result of rendering a page for testing.
//
// Provides convenience methods for asserting on HTML content, headers,
// status codes, flashes, and redirects.
type TestResult struct {
	HTML        string
	StatusCode  int
	Headers     http.Header
	RedirectURL string
	// Flashes are the messages queued in the session and not yet shown.
	Flashes []Flash
}

// TestRender renders c the way Registry.Serve would, without HTTP.
//
// A redirect raised during rendering (a processed Form) is reported in
// RedirectURL with its status instead of as an error.
//
//	ctx := bscmp.NewTestRequest("GET", "/users?users__page=2").Context()
//	list, _ := bscmp.NewPaginatedTable(ctx, table, bscmp.WithName("users"))
//	result, err := bscmp.TestRender(ctx, list)
func TestRender(ctx *Context, c templ.Component) (*TestResult, error) {
	var buf bytes.Buffer
	err := c.Render(context.Background(), &buf)
	if re, ok := AsRedirect(err); ok {
		return &TestResult{
			StatusCode:  re.code(),
			Headers:     http.Header{"Location": []string{re.URL}},
			RedirectURL: re.URL,
			Flashes:     peekFlashes(ctx),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:       buf.String(),
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
		Flashes:    peekFlashes(ctx),
	}, nil
}

func peekFlashes(ctx *Context) []Flash {
	if ctx == nil || ctx.session == nil {
		return nil
	}
	list := ctx.flashList()
	flashes := make([]Flash, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			level, _ := m["level"].(string)
			message, _ := m["message"].(string)
			flashes = append(flashes, Flash{Level: level, Message: message})
		}
	}
	return flashes
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// HasFlash checks if a flash message was queued with the given level and message.
func (r *TestResult) HasFlash(level, message string) bool {
	for _, f := range r.Flashes {
		if f.Level == level && f.Message == message {
			return true
		}
	}
	return false
}

// HasFlashLevel checks if any flash message was queued with the given level.
func (r *TestResult) HasFlashLevel(level string) bool {
	for _, f := range r.Flashes {
		if f.Level == level {
			return true
		}
	}
	return false
}

// WasRedirected checks if the response was a redirect.
func (r *TestResult) WasRedirected() bool {
	return r.RedirectURL != ""
}

// RedirectedTo checks if the response was redirected to a specific URL.
func (r *TestResult) RedirectedTo(url string) bool {
	return r.RedirectURL == url
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// GetHeader returns the value of a header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// TestRequestBuilder provides a fluent interface for building test requests.
//
// The session lives in memory and is shared by every Context and Execute
// call of the builder, so a token rendered by one call validates in the
// next:
//
//	b := bscmp.NewTestRequest("POST", "/users").
//	    WithEndpoint("users").
//	    WithTrigger("rename")
//	result, err := b.Execute(usersPage)
type TestRequestBuilder struct {
	method     string
	target     string
	formData   url.Values
	headers    map[string]string
	ctx        context.Context
	endpoint   string
	pathParams map[string]string
	triggers   []string
	session    *MemorySession
	secret     string
	urls       URLBuilder
	logger     *slog.Logger
	metrics    *Metrics
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, target string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:     method,
		target:     target,
		formData:   url.Values{},
		headers:    make(map[string]string),
		ctx:        context.Background(),
		pathParams: make(map[string]string),
		session:    NewMemorySession(nil),
		secret:     TestSecret,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithFormData adds form data to the request.
func (b *TestRequestBuilder) WithFormData(key, value string) *TestRequestBuilder {
	b.formData.Add(key, value)
	return b
}

// WithFormValues adds multiple form values to the request.
func (b *TestRequestBuilder) WithFormValues(data map[string]string) *TestRequestBuilder {
	for k, v := range data {
		b.formData.Set(k, v)
	}
	return b
}

// WithTrigger adds the hidden trigger field of the form with prefix,
// carrying a valid token for the builder's session and endpoint.
func (b *TestRequestBuilder) WithTrigger(prefix string) *TestRequestBuilder {
	b.triggers = append(b.triggers, prefix)
	return b
}

// WithHeader adds a header to the request.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// WithEndpoint sets the matched endpoint. Without it the request path
// identifies the endpoint.
func (b *TestRequestBuilder) WithEndpoint(endpoint string) *TestRequestBuilder {
	b.endpoint = endpoint
	return b
}

// WithPathParam sets a path parameter of the matched route.
func (b *TestRequestBuilder) WithPathParam(key, value string) *TestRequestBuilder {
	b.pathParams[key] = value
	return b
}

// WithSession replaces the session contents.
func (b *TestRequestBuilder) WithSession(values map[string]any) *TestRequestBuilder {
	b.session = NewMemorySession(values)
	return b
}

// WithSecret sets the application secret.
func (b *TestRequestBuilder) WithSecret(secret string) *TestRequestBuilder {
	b.secret = secret
	return b
}

// WithURLBuilder sets URL reversal, typically a *Routes.
func (b *TestRequestBuilder) WithURLBuilder(u URLBuilder) *TestRequestBuilder {
	b.urls = u
	return b
}

// WithLogger sets the logger. The default discards output.
func (b *TestRequestBuilder) WithLogger(l *slog.Logger) *TestRequestBuilder {
	b.logger = l
	return b
}

// WithMetrics sets the metrics collectors.
func (b *TestRequestBuilder) WithMetrics(m *Metrics) *TestRequestBuilder {
	b.metrics = m
	return b
}

// Session returns the builder's session.
func (b *TestRequestBuilder) Session() *MemorySession {
	return b.session
}

// Registry returns a registry wired to the builder's session, routing
// facts and options.
func (b *TestRequestBuilder) Registry() *Registry {
	opts := []RegistryOption{
		WithSessionStore(memoryStore{b.session}),
		WithRequestInfo(func(*http.Request) RequestInfo {
			return RequestInfo{Endpoint: b.endpoint, PathParams: b.pathParams}
		}),
		WithLogger(b.logger),
		WithMetrics(b.metrics),
	}
	if b.urls != nil {
		opts = append(opts, WithURLBuilder(b.urls))
	}
	return NewRegistry(b.secret, opts...)
}

// Request builds the *http.Request.
func (b *TestRequestBuilder) Request() *http.Request {
	form := url.Values{}
	for k, v := range b.formData {
		form[k] = append([]string(nil), v...)
	}
	for _, prefix := range b.triggers {
		form.Set(separator+prefix+separator, b.token(prefix))
	}

	var body io.Reader = http.NoBody
	if len(form) > 0 {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(b.method, b.target, body)
	req = req.WithContext(b.ctx)
	if len(form) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	return req
}

func (b *TestRequestBuilder) token(prefix string) string {
	key, err := csrf.SessionKey(b.session)
	if err != nil {
		panic("bscmp: test session key: " + err.Error())
	}
	endpoint := b.endpoint
	if endpoint == "" {
		u, err := url.Parse(b.target)
		if err != nil {
			panic("bscmp: test request target: " + err.Error())
		}
		endpoint = u.Path
	}
	return csrf.Token(key, prefix, endpoint, b.secret)
}

// Context builds a request context for constructing widgets directly.
func (b *TestRequestBuilder) Context() *Context {
	ctx, err := b.Registry().NewContext(b.Request())
	if err != nil {
		panic("bscmp: test context: " + err.Error())
	}
	return ctx
}

// Execute serves the request with fn through a Registry and records the
// response.
func (b *TestRequestBuilder) Execute(fn HandlerFunc) (*TestResult, error) {
	rec := httptest.NewRecorder()
	b.Registry().Handler(fn).ServeHTTP(rec, b.Request())

	result := &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
		Flashes:    peekFlashes(&Context{session: b.session}),
	}
	if rec.Code >= 300 && rec.Code < 400 {
		result.RedirectURL = rec.Header().Get("Location")
	}
	return result, nil
}

// TestHandler serves a single GET of target with fn.
func TestHandler(fn HandlerFunc, target string) (*TestResult, error) {
	return NewTestRequest(http.MethodGet, target).Execute(fn)
}

// memoryStore serves one MemorySession to every request.
type memoryStore struct {
	session *MemorySession
}

func (m memoryStore) Load(*http.Request) (Session, error) {
	return m.session, nil
}

func (m memoryStore) Save(http.ResponseWriter, *http.Request, Session) error {
	return nil
}
