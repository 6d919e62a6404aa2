// Package bscmpecho provides Echo framework integration for bscmp.
//
// Echo keeps the matched route and its parameters on echo.Context rather
// than on the *http.Request, so pages are served through Handler:
//
//	e := echo.New()
//	reg := bscmpecho.Mount(e, secret)
//	e.GET("/users/:id", bscmpecho.Handler(reg, userPage)).Name = "user"
//	e.POST("/users/:id", bscmpecho.Handler(reg, userPage))
//
// Named routes can be reversed with ctx.URLFor("user", params).
package bscmpecho

import (
	"net/url"

	"github.com/a-h/templ"
	"github.com/adh/bscmp"
	"github.com/labstack/echo/v4"
)

// Mount creates a registry whose URL builder reverses the routes of e.
// Routes registered after Mount are visible too.
//
//	e := echo.New()
//	reg := bscmpecho.Mount(e, secret)
//
//	// With options:
//	reg := bscmpecho.Mount(e, secret, bscmp.WithLogger(logger))
func Mount(e *echo.Echo, secret string, opts ...bscmp.RegistryOption) *bscmp.Registry {
	opts = append([]bscmp.RegistryOption{bscmp.WithURLBuilder(URLs(e))}, opts...)
	return bscmp.NewRegistry(secret, opts...)
}

// Handler serves fn as an Echo handler. The route path (/users/:id) is the
// endpoint of the request.
func Handler(reg *bscmp.Registry, fn bscmp.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reg.Serve(c.Response(), c.Request(), RequestInfo(c), fn)
		return nil
	}
}

// RequestInfo reads the matched route and its parameters from c.
func RequestInfo(c echo.Context) bscmp.RequestInfo {
	info := bscmp.RequestInfo{Endpoint: c.Path()}
	names, values := c.ParamNames(), c.ParamValues()
	for i, name := range names {
		if i >= len(values) {
			break
		}
		if info.PathParams == nil {
			info.PathParams = make(map[string]string, len(names))
		}
		info.PathParams[name] = values[i]
	}
	return info
}

// URLs returns a URL builder reversing route names and route paths of e.
func URLs(e *echo.Echo) bscmp.URLBuilder {
	return echoRoutes{e}
}

type echoRoutes struct {
	e *echo.Echo
}

func (r echoRoutes) URLFor(endpoint string, params url.Values) (string, error) {
	routes := bscmp.NewRoutes()
	for _, route := range r.e.Routes() {
		if route.Name != "" {
			routes.Add(route.Name, route.Path)
		}
	}
	return routes.URLFor(endpoint, params)
}

// Render writes a templ component to the Echo response, for handlers that
// do not go through a registry.
//
//	func handler(c echo.Context) error {
//	    return bscmpecho.Render(c, bscmp.Alert(bscmp.FlashInfo, "saved"))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
