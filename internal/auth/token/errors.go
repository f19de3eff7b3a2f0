package token

import "errors"

var (
	// ErrAuthRequired is returned when no access token is stored. No network call was made.
	ErrAuthRequired = errors.New("zoho authentication required")
	// ErrSessionInvalid is returned when the vendor rejected the refresh token; the store has been cleared.
	ErrSessionInvalid = errors.New("zoho session is no longer valid, please reconnect")
	// ErrNoRefreshToken is returned by a refresh attempt when only an access token is stored.
	ErrNoRefreshToken = errors.New("no refresh token available")
)
