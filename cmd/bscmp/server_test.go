package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, metrics bool) (http.Handler, *Store) {
	t.Helper()
	cfg := defaultConfig()
	cfg.Secret = "test-secret"
	cfg.Metrics = metrics

	store := NewStore()
	h, err := newServer(cfg, store)
	require.NoError(t, err)
	return h, store
}

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return rec, doc
}

func post(h http.Handler, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexPage(t *testing.T) {
	h, _ := testServer(t, false)

	rec, doc := get(t, h, "/?todos__list__per_page=3")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 3, doc.Find("#todos__list tbody tr").Length())
	assert.Equal(t, "Todos", strings.TrimSpace(doc.Find("a.nav-link.active").Text()))
	assert.Equal(t, 1, doc.Find(`form input[name="__add__"]`).Length())

	next, ok := doc.Find(`a.page-link:contains("2")`).Attr("href")
	require.True(t, ok)
	assert.Contains(t, next, "todos__list__page=1")
	assert.Contains(t, next, "todos__list__per_page=3")
}

func TestAddTodo(t *testing.T) {
	h, store := testServer(t, false)

	rec, doc := get(t, h, "/")
	token, ok := doc.Find(`input[name="__add__"]`).Attr("value")
	require.True(t, ok)
	cookies := rec.Result().Cookies()

	rec = post(h, "/", url.Values{"__add__": {token}, "title": {"Water plants"}}, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#add", rec.Header().Get("Location"))
	assert.Len(t, store.List(true), 6)

	_, doc = get(t, h, "/", rec.Result().Cookies()...)
	assert.Contains(t, doc.Find(".alert-success").Text(), "Added todo #6.")
}

func TestAddTodoBadToken(t *testing.T) {
	h, store := testServer(t, false)

	rec, _ := get(t, h, "/")
	rec = post(h, "/", url.Values{"__add__": {"forged"}, "title": {"x"}}, rec.Result().Cookies())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, store.List(true), 5)
}

func TestTodoPage(t *testing.T) {
	h, store := testServer(t, false)

	rec, doc := get(t, h, "/todos/2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Todos", strings.TrimSpace(doc.Find("a.nav-link.active").Text()), "sub-pages keep the tab active")
	assert.Equal(t, "#2 Review pull request", strings.TrimSpace(doc.Find(".breadcrumb-item.active").Text()))
	assert.Equal(t, 2, doc.Find(".btn-toolbar .btn-group").Length())

	token, ok := doc.Find(`input[name="__toggle__"]`).Attr("value")
	require.True(t, ok)
	rec = post(h, "/todos/2", url.Values{"__toggle__": {token}}, rec.Result().Cookies())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/todos/2#toggle", rec.Header().Get("Location"))

	todo, _ := store.Get(2)
	assert.True(t, todo.Done)
}

func TestDeleteTodo(t *testing.T) {
	h, store := testServer(t, false)

	rec, doc := get(t, h, "/todos/3")
	form := doc.Find(`form[action="/todos/3"]`)
	require.Equal(t, 1, form.Length())
	token, ok := form.Find(`input[name="__delete__"]`).Attr("value")
	require.True(t, ok)

	rec = post(h, "/todos/3", url.Values{"__delete__": {token}}, rec.Result().Cookies())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	_, ok = store.Get(3)
	assert.False(t, ok)
}

func TestTodoNotFound(t *testing.T) {
	h, _ := testServer(t, false)

	rec, _ := get(t, h, "/todos/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := testServer(t, true)

	rec, _ := get(t, h, "/todos/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `bscmp_render_errors_total{status="404"} 1`)
}

func TestStore(t *testing.T) {
	s := NewStore()
	assert.Len(t, s.List(false), 5)

	require.True(t, s.Toggle(1))
	assert.Len(t, s.List(false), 4)
	assert.Len(t, s.List(true), 5)

	assert.False(t, s.Toggle(42))
	assert.True(t, s.Delete(1))
	assert.False(t, s.Delete(1))
}
