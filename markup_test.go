package bscmp

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringer struct{}

func (stringer) String() string { return "<s>" }

func TestElementAttributes(t *testing.T) {
	html, err := RenderString(context.Background(), Element("div", templ.Attributes{
		"id":       "x",
		"class":    `a"b`,
		"hidden":   true,
		"disabled": false,
		"title":    nil,
		"data-n":   3,
	}, Text("<body>")))
	require.NoError(t, err)
	assert.Equal(t, `<div class="a&#34;b" data-n="3" hidden id="x">&lt;body&gt;</div>`, html)
}

func TestVoidAndRaw(t *testing.T) {
	html, err := RenderString(context.Background(), Join(
		Void("br", nil),
		Raw("<b>trusted</b>"),
		nil,
	))
	require.NoError(t, err)
	assert.Equal(t, "<br><b>trusted</b>", html)
}

func TestContent(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		expect string
	}{
		{"nil", nil, ""},
		{"string", "a&b", "a&amp;b"},
		{"stringer", stringer{}, "&lt;s&gt;"},
		{"int", 42, "42"},
		{"component", Raw("<i>x</i>"), "<i>x</i>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := RenderString(context.Background(), Content(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.expect, html)
		})
	}
}

func TestElementPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })

	_, err := RenderString(context.Background(), Element("div", nil, failing))
	assert.ErrorIs(t, err, boom)
}

func TestClasses(t *testing.T) {
	assert.Equal(t, "a b", classes(" a ", "", "b"))
	assert.Equal(t, "", classes())
}
