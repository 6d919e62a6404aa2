package bscmp

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adh/bscmp/lib/encoding"
)

// MemorySession is a map-backed Session. Cookie stores load into it; tests
// use it directly.
type MemorySession struct {
	values   map[string]any
	modified bool
}

// NewMemorySession creates a session holding a copy of values.
func NewMemorySession(values map[string]any) *MemorySession {
	s := &MemorySession{values: make(map[string]any, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *MemorySession) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *MemorySession) Set(key string, value any) {
	s.values[key] = value
	s.modified = true
}

func (s *MemorySession) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.modified = true
}

func (s *MemorySession) Values() map[string]any {
	return s.values
}

func (s *MemorySession) Modified() bool {
	return s.modified
}

// maxCookieSize is the largest cookie value browsers reliably keep.
const maxCookieSize = 4000

// CookieStore keeps the whole session in a signed (or, with Sensitive,
// encrypted) cookie. Sessions are only written back when modified.
type CookieStore struct {
	codec *encoding.Codec

	Name      string
	Path      string
	MaxAge    time.Duration
	Secure    bool
	Sensitive bool
}

// NewCookieStore creates a cookie store keyed by key.
func NewCookieStore(key []byte) (*CookieStore, error) {
	codec, err := encoding.NewCodec(key)
	if err != nil {
		return nil, err
	}
	return &CookieStore{
		codec:  codec,
		Name:   "bscmp_session",
		Path:   "/",
		MaxAge: 30 * 24 * time.Hour,
	}, nil
}

// Load decodes the session cookie. A missing cookie yields an empty
// session. A tampered or stale cookie yields an empty session together with
// the decoding error, so callers can log it and carry on rendering. Cookies
// older than MaxAge are treated the same way.
func (cs *CookieStore) Load(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(cs.Name)
	if err != nil || cookie.Value == "" {
		return NewMemorySession(nil), nil
	}
	values, issued, err := cs.codec.Decode(cs.Name, cookie.Value, cs.Sensitive)
	if err != nil {
		return NewMemorySession(nil), wrapEncodingError(err)
	}
	if cs.MaxAge > 0 && time.Since(issued) > cs.MaxAge {
		return NewMemorySession(nil), fmt.Errorf("%w: cookie issued %s expired", ErrSession, issued.Format(time.RFC3339))
	}
	return &MemorySession{values: values}, nil
}

// Save writes the session cookie if the session was modified.
func (cs *CookieStore) Save(w http.ResponseWriter, r *http.Request, s Session) error {
	if !s.Modified() {
		return nil
	}
	value, err := cs.codec.Encode(cs.Name, s.Values(), cs.Sensitive)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSession, err)
	}
	if len(value) > maxCookieSize {
		return fmt.Errorf("%w: cookie of %d bytes exceeds %d", ErrSession, len(value), maxCookieSize)
	}
	cookie := &http.Cookie{
		Name:     cs.Name,
		Value:    value,
		Path:     cs.Path,
		HttpOnly: true,
		Secure:   cs.Secure || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	// A zero MaxAge keeps the cookie for the browser session.
	if cs.MaxAge > 0 {
		cookie.MaxAge = int(cs.MaxAge.Seconds())
		cookie.Expires = time.Now().Add(cs.MaxAge)
	}
	http.SetCookie(w, cookie)
	return nil
}

// wrapEncodingError maps codec errors onto the package sentinels.
func wrapEncodingError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, encoding.ErrInvalidFormat):
		return ErrInvalidFormat
	case errors.Is(err, encoding.ErrSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, encoding.ErrDecryptFailed):
		return ErrDecryptFailed
	}
	return err
}
