package bscmp

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context. Use this for pages that hold no stateful widgets;
// pages built with a Context go through Registry.Handler, which also
// handles redirects and saves the session.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    bscmp.Render(w, r, aboutPage())
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsStateParam reports whether a query parameter name belongs to a
// component namespace (<prefix>__<slot>).
func IsStateParam(name string) bool {
	i := strings.LastIndex(name, separator)
	return i > 0 && i+len(separator) < len(name)
}

// StripState returns a copy of q without component state parameters, for
// links that should reset every widget on the page.
func StripState(q url.Values) url.Values {
	res := make(url.Values, len(q))
	for k, v := range q {
		if IsStateParam(k) {
			continue
		}
		res[k] = append([]string(nil), v...)
	}
	return res
}
