// Package encoding turns small string-keyed payloads (session contents)
// into cookie-safe strings and back.
//
// Values are bound to a name (usually the cookie name), so a value issued
// under one name does not decode under another, and carry their issue time
// so callers can enforce a maximum age.
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Errors returned by Decode.
var (
	ErrInvalidFormat    = errors.New("encoding: invalid format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: decryption failed")
)

// macSize is the length of the truncated HMAC in signed values.
const macSize = 16

// Codec encodes payloads in one of two forms:
//   - signed: base64(payload) "." base64(hmac), readable by the client but
//     tamper-proof
//   - sealed: base64(nonce || AES-256-GCM ciphertext), opaque
//
// Signing and encryption use separate keys derived from the secret.
type Codec struct {
	macKey []byte
	gcm    cipher.AEAD

	// now is replaced in tests.
	now func() time.Time
}

type envelope struct {
	Issued int64          `msgpack:"t"`
	Values map[string]any `msgpack:"v"`
}

// NewCodec creates a codec keyed by secret, which may have any non-zero
// length.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("encoding: empty secret")
	}

	block, err := aes.NewCipher(deriveKey(secret, "enc"))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Codec{
		macKey: deriveKey(secret, "mac"),
		gcm:    gcm,
		now:    time.Now,
	}, nil
}

func deriveKey(secret []byte, purpose string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte("bscmp/" + purpose))
	return mac.Sum(nil)
}

// Encode packs values under name, sealed or signed.
func (c *Codec) Encode(name string, values map[string]any, sealed bool) (string, error) {
	packed, err := msgpack.Marshal(envelope{Issued: c.now().Unix(), Values: values})
	if err != nil {
		return "", err
	}
	if sealed {
		return c.seal(name, packed)
	}
	return c.sign(name, packed), nil
}

// Decode reverses Encode and reports when the value was issued. name and
// sealed must match the ones used to encode.
func (c *Codec) Decode(name, encoded string, sealed bool) (map[string]any, time.Time, error) {
	var packed []byte
	var err error
	if sealed {
		packed, err = c.open(name, encoded)
	} else {
		packed, err = c.verify(name, encoded)
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	var env envelope
	if err := msgpack.Unmarshal(packed, &env); err != nil {
		return nil, time.Time{}, ErrInvalidFormat
	}
	if env.Values == nil {
		env.Values = make(map[string]any)
	}
	return env.Values, time.Unix(env.Issued, 0), nil
}

func (c *Codec) mac(name, payload string) []byte {
	mac := hmac.New(sha256.New, c.macKey)
	mac.Write([]byte(name))
	mac.Write([]byte{0})
	mac.Write([]byte(payload))
	return mac.Sum(nil)[:macSize]
}

func (c *Codec) sign(name string, packed []byte) string {
	payload := base64.RawURLEncoding.EncodeToString(packed)
	return payload + "." + base64.RawURLEncoding.EncodeToString(c.mac(name, payload))
}

func (c *Codec) verify(name, encoded string) ([]byte, error) {
	payload, sigPart, ok := strings.Cut(encoded, ".")
	if !ok {
		return nil, ErrInvalidFormat
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return nil, ErrSignatureInvalid
	}
	if !hmac.Equal(sig, c.mac(name, payload)) {
		return nil, ErrSignatureInvalid
	}

	packed, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	return packed, nil
}

func (c *Codec) seal(name string, packed []byte) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(c.gcm.Seal(nonce, nonce, packed, []byte(name))), nil
}

func (c *Codec) open(name, encoded string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(raw) < c.gcm.NonceSize() {
		return nil, ErrInvalidFormat
	}
	n := c.gcm.NonceSize()
	packed, err := c.gcm.Open(nil, raw[:n], raw[n:], []byte(name))
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return packed, nil
}
