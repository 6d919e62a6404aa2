package csrf

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore map[string]any

func (m mapStore) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapStore) Set(key string, value any) {
	m[key] = value
}

func TestTokenShape(t *testing.T) {
	tok := Token([]byte("0123456789abcdef"), "form0", "/items", "secret")

	raw, err := base64.StdEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 18)
	assert.Len(t, tok, 24)
}

func TestTokenStable(t *testing.T) {
	key := []byte("0123456789abcdef")
	first := Token(key, "form0", "/items", "secret")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Token(key, "form0", "/items", "secret"))
	}
}

func TestTokenChangesWithEveryInput(t *testing.T) {
	key := []byte("0123456789abcdef")
	base := Token(key, "form0", "/items", "secret")

	tests := []struct {
		name  string
		token string
	}{
		{"session key", Token([]byte("fedcba9876543210"), "form0", "/items", "secret")},
		{"scope", Token(key, "form1", "/items", "secret")},
		{"endpoint", Token(key, "form0", "/orders", "secret")},
		{"secret", Token(key, "form0", "/items", "other")},
		{"no endpoint", Token(key, "form0", "", "secret")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.token)
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("abc", "abc"))
	assert.False(t, Equal("abc", "abd"))
	assert.False(t, Equal("abc", ""))
}

func TestSessionKeyCreatedOnce(t *testing.T) {
	store := mapStore{}

	key, err := SessionKey(store)
	require.NoError(t, err)
	assert.Len(t, key, KeySize)
	assert.Equal(t, key, store[SessionKeyName])

	again, err := SessionKey(store)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestSessionKeyKeepsExisting(t *testing.T) {
	store := mapStore{SessionKeyName: []byte("existing-key-123")}

	key, err := SessionKey(store)
	require.NoError(t, err)
	assert.Equal(t, []byte("existing-key-123"), key)
}

func TestSessionKeyReplacesEmpty(t *testing.T) {
	store := mapStore{SessionKeyName: []byte{}}

	key, err := SessionKey(store)
	require.NoError(t, err)
	assert.Len(t, key, KeySize)
}
