package zoho

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// AuthorizationError is reported when the vendor redirects back with ?error=.
type AuthorizationError struct {
	Code        string
	Description string
}

func (e *AuthorizationError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("zoho authorization failed: %s (%s)", e.Code, e.Description)
	}
	return "zoho authorization failed: " + e.Code
}

// ExchangeError is returned when the token endpoint rejects an authorization code
// or answers with something that is not a token.
type ExchangeError struct {
	Status      int
	Code        string
	Description string
	Err         error
}

func (e *ExchangeError) Error() string {
	switch {
	case e.Code != "":
		return fmt.Sprintf("zoho token exchange failed: %s", e.Code)
	case e.Status != 0:
		return fmt.Sprintf("zoho token exchange failed: HTTP %d %s", e.Status, http.StatusText(e.Status))
	default:
		return fmt.Sprintf("zoho token exchange failed: %v", e.Err)
	}
}

func (e *ExchangeError) Unwrap() error { return e.Err }

func newExchangeError(err error) *ExchangeError {
	xerr := &ExchangeError{Err: err}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		xerr.Code = rerr.ErrorCode
		xerr.Description = rerr.ErrorDescription
		if rerr.Response != nil {
			xerr.Status = rerr.Response.StatusCode
		}
	}
	return xerr
}
