package signer

// Signer computes and checks the keyed tokens that authenticate Valence
// API traffic. Implementations must be deterministic and side-effect free.
type Signer interface {
	// Sign computes the token for message under key
	Sign(key, message string) string

	// Verify reports whether token is the signature of message under key
	Verify(token, key, message string) bool
}
