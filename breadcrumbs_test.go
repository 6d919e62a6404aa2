package bscmp

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreadcrumbs(t *testing.T) {
	routes := NewRoutes().Add("admin.index", "/admin").Add("admin.user", "/admin/users/{id}")
	ctx := NewTestRequest("GET", "/admin/users/3/edit").WithURLBuilder(routes).Context()

	base := NewBreadcrumbs().Add("Admin", "admin.index", nil)
	crumbs := base.Extend().
		Add("User 3", "admin.user", url.Values{"id": {"3"}}).
		Add(nil, "", nil)

	html, err := RenderString(context.Background(), crumbs.Component(ctx, "Edit <user>"))
	require.NoError(t, err)
	doc := parseHTML(t, html)

	items := doc.Find("nav[aria-label=breadcrumb] ol.breadcrumb li.breadcrumb-item")
	require.Equal(t, 3, items.Length())

	href, _ := items.Eq(0).Find("a").Attr("href")
	assert.Equal(t, "/admin", href)
	href, _ = items.Eq(1).Find("a").Attr("href")
	assert.Equal(t, "/admin/users/3", href)

	last := items.Eq(2)
	assert.True(t, last.HasClass("active"))
	assert.Equal(t, "Edit <user>", last.Text(), "nil name falls back to the title")
	assert.Equal(t, 0, last.Find("a").Length())

	assert.Len(t, base.Items(), 1, "Extend copies the trail")
	assert.Len(t, crumbs.Items(), 3)
}

func TestBreadcrumbLiteralURL(t *testing.T) {
	ctx := NewTestRequest("GET", "/").Context()
	b := Breadcrumb{Name: "Item", Target: "/items/{id}", Params: url.Values{"id": {"a b"}}}

	href, err := b.Href(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/items/a%20b", href)

	_, err = Breadcrumb{Target: "/items/{id}"}.Href(ctx)
	assert.ErrorIs(t, err, ErrMissingParam)
}
