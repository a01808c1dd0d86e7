package auth

import "errors"

// Validation failures surfaced by context constructors and the signing
// hook. All of them are terminal for the operation that returned them;
// nothing in this package retries.
var (
	ErrMissingAppID              = errors.New("app ID must not be empty")
	ErrMissingAppKey             = errors.New("app key must not be empty")
	ErrNilSigner                 = errors.New("signer must not be nil")
	ErrMissingHost               = errors.New("host must not be empty")
	ErrMissingClientAppURL       = errors.New("client app URL must not be empty")
	ErrMissingResultURI          = errors.New("result URI must not be empty")
	ErrMissingCallbackParams     = errors.New("result URI does not carry the callback user ID and user key parameters")
	ErrMismatchedUserCredentials = errors.New("user ID and user key must be supplied together")
	ErrNilRequest                = errors.New("request must not be nil")
)
