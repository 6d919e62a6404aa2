// Package bscmpchi provides chi router integration for bscmp.
//
// chi keeps the matched pattern in the request context, so the registry's
// http.Handler works unchanged once it knows where to look:
//
//	r := chi.NewRouter()
//	reg := bscmpchi.NewRegistry(secret)
//	r.Get("/users/{id}", reg.Handler(userPage).ServeHTTP)
//	r.Post("/users/{id}", reg.Handler(userPage).ServeHTTP)
package bscmpchi

import (
	"net/http"

	"github.com/adh/bscmp"
	"github.com/go-chi/chi/v5"
)

// NewRegistry creates a registry that reads routing facts from chi.
func NewRegistry(secret string, opts ...bscmp.RegistryOption) *bscmp.Registry {
	opts = append([]bscmp.RegistryOption{bscmp.WithRequestInfo(RequestInfo)}, opts...)
	return bscmp.NewRegistry(secret, opts...)
}

// RequestInfo reads the matched route pattern and URL parameters from the
// chi route context. Requests outside a chi router have neither.
func RequestInfo(r *http.Request) bscmp.RequestInfo {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return bscmp.RequestInfo{}
	}

	info := bscmp.RequestInfo{Endpoint: rctx.RoutePattern()}
	keys, values := rctx.URLParams.Keys, rctx.URLParams.Values
	for i, key := range keys {
		if i >= len(values) || key == "" {
			continue
		}
		if info.PathParams == nil {
			info.PathParams = make(map[string]string, len(keys))
		}
		info.PathParams[key] = values[i]
	}
	return info
}
