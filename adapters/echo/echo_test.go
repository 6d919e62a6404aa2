package bscmpecho

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/adh/bscmp"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerRequestInfo(t *testing.T) {
	e := echo.New()
	reg := Mount(e, bscmp.TestSecret)

	var endpoint string
	var params map[string]string
	e.GET("/projects/:project/issues/:id", Handler(reg, func(ctx *bscmp.Context) (templ.Component, error) {
		endpoint = ctx.Endpoint()
		params = ctx.PathParams()
		return bscmp.Text("ok"), nil
	}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/p1/issues/9", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "/projects/:project/issues/:id", endpoint)
	assert.Equal(t, map[string]string{"project": "p1", "id": "9"}, params)
}

func TestNamedRoutes(t *testing.T) {
	e := echo.New()
	reg := Mount(e, bscmp.TestSecret)

	page := Handler(reg, func(ctx *bscmp.Context) (templ.Component, error) {
		u, err := ctx.URLFor("user", ctx.Params())
		return bscmp.Text(u), err
	})
	e.GET("/users/:id", page).Name = "user"

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/4?tab=x", nil))
	assert.Equal(t, "/users/4?tab=x", rec.Body.String())

	_, err := URLs(e).URLFor("missing", nil)
	assert.ErrorIs(t, err, bscmp.ErrUnknownEndpoint)
}

func TestHandlerErrors(t *testing.T) {
	e := echo.New()
	reg := Mount(e, bscmp.TestSecret)
	e.GET("/fail", Handler(reg, func(*bscmp.Context) (templ.Component, error) {
		return nil, bscmp.ErrBadParam
	}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRender(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return Render(c, bscmp.Alert(bscmp.FlashSuccess, "saved"))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "alert-success")
}
