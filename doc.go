// Package bscmp provides Bootstrap widgets for server-rendered Go web
// applications, built on templ components.
//
// Beyond plain markup helpers (tables, navigation, breadcrumbs, buttons,
// toolbars, grid columns, alerts), bscmp binds widgets to the request cycle:
// interactive widgets keep their state in URL query parameters and forms
// process their own submissions behind a session-bound token.
//
// # Request Context
//
// Widgets are built per request from a *Context created by a Registry:
//
//	reg := bscmp.NewRegistry(secret)
//	mux.Handle("GET /users", reg.Handler(usersPage))
//	mux.Handle("POST /users", reg.Handler(usersPage))
//
//	func usersPage(ctx *bscmp.Context) (templ.Component, error) {
//	    list, err := bscmp.NewPaginatedTable(ctx, bscmp.NewTable(users, columns...),
//	        bscmp.WithName("users"))
//	    if err != nil {
//	        return nil, err
//	    }
//	    return layout(list), nil
//	}
//
// The Context carries the endpoint and path parameters of the matched route,
// the session, URL reversal and the per-request bookkeeping of the
// component model.
//
// # State in URLs
//
// An interactive component declares StateSlots (IntSlot, BoolSlot,
// StringSlot or NewSlot). Each slot is stored in the query parameter
// <prefix>__<slot>, where the prefix joins the names of the component and
// its ancestors with "__". Component.BuildURL regenerates the current URL
// with the state of the whole component subtree, writing only slots that
// were supplied by the request or explicitly set; everything else falls back
// to its default on the next request.
//
// Parameters that fail to decode are rejected with ErrBadParam, which the
// Registry answers with HTTP 400.
//
// # Forms
//
// A Form carries a hidden field __<prefix>__ holding an HMAC token bound to
// the session, the form's prefix and the current endpoint. A POST carrying
// the field with a valid token runs the form's Process function and is
// answered with a 303 redirect to a freshly built URL. A POST without the
// field belongs to another form and leaves the form idle; a wrong token is
// rejected with ErrInvalidToken.
//
// # Routing Adapters
//
// The Registry reads routing facts with a RequestInfoFunc. The default,
// ServeMuxInfo, understands net/http patterns; adapters/chi and adapters/echo
// provide the same for chi and Echo. URL reversal defaults to Routes, a table
// of named route patterns.
package bscmp
