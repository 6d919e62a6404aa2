package bscmp

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestRenderHelper(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if err := Render(rec, req, Text("a < b")); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Body.String(); got != "a &lt; b" {
		t.Errorf("body = %q", got)
	}
}

func TestIsStateParam(t *testing.T) {
	tests := []struct {
		name   string
		expect bool
	}{
		{"users__page", true},
		{"page__users__per_page", true},
		{"page", false},
		{"__form0__", false},
		{"users__", false},
		{"__page", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStateParam(tt.name); got != tt.expect {
				t.Errorf("IsStateParam(%q) = %v, want %v", tt.name, got, tt.expect)
			}
		})
	}
}

func TestStripState(t *testing.T) {
	q := url.Values{
		"q":           {"go"},
		"users__page": {"3"},
		"a__b__c":     {"1"},
	}
	got := StripState(q)
	if len(got) != 1 || got.Get("q") != "go" {
		t.Errorf("StripState() = %v", got)
	}
	if q.Get("users__page") != "3" {
		t.Error("StripState modified its input")
	}
}
