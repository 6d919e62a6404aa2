package bscmp

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
)

// Routes is the default URLBuilder. It maps endpoint names to path patterns;
// an endpoint that is not registered but starts with "/" is used as a
// pattern directly, which lets router adapters use the matched route
// pattern as the endpoint.
//
// Pattern placeholders in the net/http ({id}, {path...}), chi ({id},
// {id:[0-9]{3}}) and echo (:id, *) styles are filled from the parameters;
// the remaining parameters become the query string, sorted by key.
//
//	routes := bscmp.NewRoutes()
//	routes.Add("user", "/users/{id}")
//	u, _ := routes.URLFor("user", url.Values{"id": {"7"}, "tab": {"x"}})
//	// u == "/users/7?tab=x"
type Routes struct {
	mu       sync.RWMutex
	patterns map[string]string
}

// NewRoutes creates an empty route table.
func NewRoutes() *Routes {
	return &Routes{patterns: make(map[string]string)}
}

// Add registers endpoint under pattern. A method prefix ("GET /x") is
// ignored.
func (rt *Routes) Add(endpoint, pattern string) *Routes {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.patterns[endpoint] = StripMethod(pattern)
	return rt
}

// Pattern returns the pattern registered for endpoint.
func (rt *Routes) Pattern(endpoint string) (string, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	p, ok := rt.patterns[endpoint]
	return p, ok
}

// URLFor implements URLBuilder.
func (rt *Routes) URLFor(endpoint string, params url.Values) (string, error) {
	pattern, ok := rt.Pattern(endpoint)
	if !ok {
		if !strings.HasPrefix(endpoint, "/") {
			return "", fmt.Errorf("%w: %q", ErrUnknownEndpoint, endpoint)
		}
		pattern = endpoint
	}
	return expandPattern(pattern, params)
}

// Chi regexps may contain one level of braces, as in {id:[0-9]{3}}.
var placeholderPattern = regexp.MustCompile(`\{([^{}:.]+)(?:\.\.\.)?(?::(?:[^{}]|\{[^{}]*\})*)?\}|:([A-Za-z_][A-Za-z0-9_]*)|\*$`)

// expandPattern substitutes placeholders in pattern and appends leftover
// params as a query string.
func expandPattern(pattern string, params url.Values) (string, error) {
	rest := make(url.Values, len(params))
	for k, v := range params {
		rest[k] = v
	}

	var missing []string
	path := placeholderPattern.ReplaceAllStringFunc(pattern, func(m string) string {
		sub := placeholderPattern.FindStringSubmatch(m)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		wildcard := m == "*" || strings.HasSuffix(sub[0], "...}")
		if m == "*" {
			name = "*"
		}
		if name == "$" {
			return ""
		}
		v := rest.Get(name)
		if _, ok := rest[name]; !ok {
			missing = append(missing, name)
			return m
		}
		delete(rest, name)
		if wildcard {
			return escapeSegments(v)
		}
		return url.PathEscape(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s for %q", ErrMissingParam, strings.Join(missing, ", "), pattern)
	}

	if q := rest.Encode(); q != "" {
		path += "?" + q
	}
	return path, nil
}

func escapeSegments(v string) string {
	parts := strings.Split(v, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// StripMethod removes the method and host parts of a net/http pattern.
func StripMethod(pattern string) string {
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		pattern = strings.TrimSpace(pattern[i+1:])
	}
	if i := strings.IndexByte(pattern, '/'); i > 0 {
		pattern = pattern[i:]
	}
	return pattern
}

// ServeMuxInfo is the default RequestInfoFunc for handlers mounted on a
// net/http ServeMux. The endpoint is the matched pattern without method or
// host. Patterns ending in "/" match a subtree and are marked as such.
func ServeMuxInfo(r *http.Request) RequestInfo {
	pattern := StripMethod(r.Pattern)
	info := RequestInfo{Endpoint: pattern, Subtree: strings.HasSuffix(pattern, "/")}
	for _, sub := range placeholderPattern.FindAllStringSubmatch(pattern, -1) {
		if name := sub[1]; name != "" && name != "$" {
			if info.PathParams == nil {
				info.PathParams = make(map[string]string)
			}
			info.PathParams[name] = r.PathValue(name)
		}
	}
	return info
}

// URLOrURLFor treats targets containing "/" as literal URLs whose {name}
// placeholders are filled from params, and anything else as an endpoint to
// reverse.
func URLOrURLFor(ctx *Context, target string, params url.Values) (string, error) {
	if strings.Contains(target, "/") {
		return expandPattern(target, params)
	}
	return ctx.URLFor(target, params)
}
