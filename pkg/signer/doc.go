// Package signer provides the keyed-token capability used throughout the
// Valence authentication protocol.
//
// Every authenticated exchange with a Valence back-end rests on the same
// primitive: an HMAC-SHA256 digest of a canonical string, encoded so it can
// travel inside a URL query parameter. This package owns that primitive and
// nothing else.
//
// # Computing Tokens
//
// Use HMACSigner to produce a token for any key/message pair:
//
//	s := signer.New()
//	token := s.Sign(appKey, "GET&/d2l/api/versions/&1234567890")
//
// Sign is deterministic, performs no I/O, and never fails for string
// inputs.
//
// # Token Format
//
// The digest is encoded with the URL-safe base64 alphabet ('-' and '_'
// replace '+' and '/') and every '=' padding character is stripped. The
// resulting token therefore contains no characters that require
// percent-encoding in a query string, which is why the higher layers can
// splice tokens directly into request URLs.
//
// # Verification
//
// Verify recomputes the token and compares in constant time:
//
//	if !s.Verify(token, key, message) {
//	    // token was not produced with this key over this message
//	}
//
// The client-side protocol never calls Verify on its own requests; it
// exists because everything above this package is written against "a
// Signer", and the capability contract is sign plus verify. Test servers
// use it to validate what clients send.
//
// # Pluggable Implementations
//
// The auth package accepts any Signer, so alternative digest schemes can
// be injected for testing or future protocol revisions:
//
//	type Signer interface {
//	    Sign(key, message string) string
//	    Verify(token, key, message string) bool
//	}
package signer
