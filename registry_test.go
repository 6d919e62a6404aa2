package bscmp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewRegistryRequiresSecret(t *testing.T) {
	assert.Panics(t, func() { NewRegistry("") })
}

func TestRegistryServesPage(t *testing.T) {
	var logs bytes.Buffer
	reg := NewRegistry("secret", WithLogger(quietLogger(&logs)))

	h := reg.Handler(func(ctx *Context) (templ.Component, error) {
		return Element("main", nil, Text(ctx.Method())), nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<main>GET</main>", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Same(t, reg.Logger(), reg.Logger())
	assert.NotNil(t, reg.URLs())
}

func TestRegistryRedirectDuringRender(t *testing.T) {
	reg := NewRegistry("secret")
	h := reg.Handler(func(ctx *Context) (templ.Component, error) {
		return Join(
			Text("partial output"),
			templ.ComponentFunc(func(context.Context, io.Writer) error {
				return &RedirectError{URL: "/done"}
			}),
		), nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/done", rec.Header().Get("Location"))
	assert.NotContains(t, rec.Body.String(), "partial output", "buffered output is discarded")
}

func TestRegistryErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		level  string
	}{
		{"bad param", ErrBadParam, http.StatusBadRequest, "INFO"},
		{"abort", Abort(http.StatusNotFound, nil), http.StatusNotFound, "INFO"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			metrics := NewMetrics(prometheus.NewRegistry())
			reg := NewRegistry("secret", WithLogger(quietLogger(&logs)), WithMetrics(metrics))

			h := reg.Handler(func(ctx *Context) (templ.Component, error) {
				return nil, tt.err
			})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest("GET", "/x", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, logs.String(), "level="+tt.level)
			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.errors.WithLabelValues(strconv.Itoa(tt.status))))
		})
	}
}

func TestRegistryNilComponent(t *testing.T) {
	reg := NewRegistry("secret", WithLogger(quietLogger(&bytes.Buffer{})))
	h := reg.Handler(func(ctx *Context) (templ.Component, error) { return nil, nil })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRegistryCustomOnError(t *testing.T) {
	reg := NewRegistry("secret", WithLogger(quietLogger(&bytes.Buffer{})))
	reg.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		w.WriteHeader(StatusCode(err))
		_, _ = io.WriteString(w, "custom: "+err.Error())
	}
	h := reg.Handler(func(ctx *Context) (templ.Component, error) { return nil, ErrInvalidToken })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "custom: bscmp: invalid submission token")
}

func TestRegistryPersistsSession(t *testing.T) {
	reg := NewRegistry("secret")
	page := func(ctx *Context) (templ.Component, error) {
		if ctx.IsSubmit() {
			ctx.Flash(FlashInfo, "hello")
			return nil, &RedirectError{URL: "/"}
		}
		return Alerts(ctx), nil
	}
	h := reg.Handler(page)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1, "session saved before redirecting")

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "alert-info")
	assert.Contains(t, rec.Body.String(), "hello")
}

func TestRegistryUnreadableSession(t *testing.T) {
	var logs bytes.Buffer
	reg := NewRegistry("secret", WithLogger(quietLogger(&logs)))
	h := reg.Handler(func(ctx *Context) (templ.Component, error) {
		return Text("ok"), nil
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "bscmp_session", Value: "garbage"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logs.String(), "discarding unreadable session")
}

func TestRegistryFormRoundTrip(t *testing.T) {
	reg := NewRegistry("secret")
	var processed int
	page := func(ctx *Context) (templ.Component, error) {
		form, err := NewForm(ctx, FormConfig{
			Process: func(*Form) error {
				processed++
				return nil
			},
		}, WithName("f"))
		if err != nil {
			return nil, err
		}
		return form, nil
	}

	mux := http.NewServeMux()
	mux.Handle("GET /things", reg.Handler(page))
	mux.Handle("POST /things", reg.Handler(page))

	// Render the form to obtain a token and a session cookie.
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/things", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec.Body.String())
	token, ok := doc.Find(`input[name="__f__"]`).Attr("value")
	require.True(t, ok)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	post := httptest.NewRequest("POST", "/things", strings.NewReader("__f__="+url.QueryEscape(token)))
	post.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	post.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, post)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/things#f", rec.Header().Get("Location"))
	assert.Equal(t, 1, processed)
}
