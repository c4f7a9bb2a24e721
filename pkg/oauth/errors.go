package oauth

import "errors"

// Configuration.
var (
	ErrMissingClientID     = errors.New("oauth: client id is required")
	ErrMissingClientSecret = errors.New("oauth: client secret is required")
	ErrUnknownProvider     = errors.New("oauth: provider is not registered")
)

// Provider calls.
var (
	// ErrFetchFailed wraps transport failures talking to the provider API.
	ErrFetchFailed = errors.New("oauth: provider request failed")

	// ErrBadResponse covers non-200 replies and bodies that do not decode.
	ErrBadResponse = errors.New("oauth: unexpected provider response")

	// ErrEmailNotVerified means the provider has no verified email for the
	// account, so it cannot be linked to a local user.
	ErrEmailNotVerified = errors.New("oauth: provider email is not verified")
)
