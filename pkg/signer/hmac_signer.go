package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// HMACSigner implements Signer with HMAC-SHA256 digests encoded as
// URL-safe base64 without padding, the token format the Valence
// back-end verifies against.
type HMACSigner struct{}

var _ Signer = (*HMACSigner)(nil)

// New creates a new HMACSigner
func New() *HMACSigner {
	return &HMACSigner{}
}

// Sign computes HMAC-SHA256 over the UTF-8 bytes of message keyed with
// key, then encodes the digest with the URL-safe base64 alphabet and no
// padding. The token embeds in a query string without further escaping.
func (s *HMACSigner) Sign(key, message string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(message))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether token equals the signature of message under key.
// Comparison is constant time.
func (s *HMACSigner) Verify(token, key, message string) bool {
	return hmac.Equal([]byte(token), []byte(s.Sign(key, message)))
}
