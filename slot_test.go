package bscmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntSlotRoundTrip(t *testing.T) {
	s := IntSlot("page", 0)

	for _, v := range []int{0, 1, -3, 123456} {
		raw, err := s.Dump(v)
		require.NoError(t, err)
		got, err := s.Load(raw)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestIntSlotRejectsGarbage(t *testing.T) {
	_, err := IntSlot("page", 0).Load("abc")
	assert.ErrorIs(t, err, ErrBadParam)
	assert.Contains(t, err.Error(), `page="abc"`)
}

func TestBoolSlotStrict(t *testing.T) {
	s := BoolSlot("open", false)

	v, err := s.Load("1")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = s.Load("0")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	for _, raw := range []string{"true", "yes", "", "2"} {
		_, err := s.Load(raw)
		assert.ErrorIs(t, err, ErrBadParam, "raw %q", raw)
	}

	raw, err := s.Dump(true)
	require.NoError(t, err)
	assert.Equal(t, "1", raw)
}

func TestStringSlot(t *testing.T) {
	s := StringSlot("q", "all")
	assert.Equal(t, "all", s.Default())

	v, err := s.Load("a b&c")
	require.NoError(t, err)
	assert.Equal(t, "a b&c", v)
}

func TestSlotDumpWrongType(t *testing.T) {
	_, err := IntSlot("page", 0).Dump("3")
	assert.ErrorIs(t, err, ErrSlotType)
}

func TestNewSlotCustom(t *testing.T) {
	type sortOrder string
	s := NewSlot("sort", sortOrder("asc"),
		func(raw string) (sortOrder, error) {
			if raw != "asc" && raw != "desc" {
				return "", assert.AnError
			}
			return sortOrder(raw), nil
		},
		func(v sortOrder) string { return string(v) },
	)

	v, err := s.Load("desc")
	require.NoError(t, err)
	assert.Equal(t, sortOrder("desc"), v)

	_, err = s.Load("sideways")
	assert.ErrorIs(t, err, ErrBadParam)
}

func TestSlotsDeclaration(t *testing.T) {
	slots := NewSlots(IntSlot("page", 0), IntSlot("per_page", 10))
	assert.Equal(t, 2, slots.Len())

	s, ok := slots.Lookup("per_page")
	require.True(t, ok)
	assert.Equal(t, 10, s.Default())

	_, ok = slots.Lookup("missing")
	assert.False(t, ok)

	extended := slots.Extend(StringSlot("q", ""))
	assert.Equal(t, 3, extended.Len())
	assert.Equal(t, 2, slots.Len(), "Extend must not modify the base list")
	assert.Equal(t, "q", extended.All()[2].Name())
}

func TestSlotsDeclarationPanics(t *testing.T) {
	assert.Panics(t, func() { NewSlots(IntSlot("", 0)) })
	assert.Panics(t, func() { NewSlots(IntSlot("a__b", 0)) })
	assert.Panics(t, func() { NewSlots(IntSlot("page", 0), StringSlot("page", "")) })
}

func TestSlotsFromKV(t *testing.T) {
	slots := NewSlots(IntSlot("page", 0), IntSlot("per_page", 10))

	got := slots.FromKV(map[string]any{
		"per_page": 25,
		"page":     nil,
		"title":    "ignored",
	})
	assert.Equal(t, map[string]any{"per_page": 25}, got)
}

func TestSlotGetSet(t *testing.T) {
	ctx := NewTestRequest("GET", "/").Context()
	page := IntSlot("page", 0)
	c, err := NewInteractive(ctx, "list", NewSlots(page))
	require.NoError(t, err)

	assert.Equal(t, 0, page.Get(c))
	page.Set(c, 4)
	assert.Equal(t, 4, page.Get(c))
	assert.True(t, c.State().Changed("page"))

	other := IntSlot("other", 0)
	assert.Panics(t, func() { other.Get(c) })
	assert.Panics(t, func() { other.Set(c, 1) })
	assert.Panics(t, func() { page.Get(NewComponent(ctx, "plain")) })
}
