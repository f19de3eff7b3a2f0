package token

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pysugar/zoho-dashboard/internal/logging"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// State of the vendor session as seen by the request gateway.
type State int

const (
	Unauthorized State = iota
	Authorized
)

func (s State) String() string {
	if s == Authorized {
		return "authorized"
	}
	return "unauthorized"
}

// Refresher trades the stored refresh token for a new access token and persists it.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Session is the single explicit vendor session shared by every request.
// It is Authorized exactly when the Store holds an access token.
type Session struct {
	store     *Store
	refresher Refresher
	group     singleflight.Group
}

// NewSession creates a session over store. refresher may be set later with SetRefresher.
func NewSession(store *Store, refresher Refresher) *Session {
	return &Session{store: store, refresher: refresher}
}

// SetRefresher wires the token exchanger once it has been built around the same store.
func (s *Session) SetRefresher(r Refresher) {
	s.refresher = r
}

// Store returns the underlying credential store.
func (s *Session) Store() *Store {
	return s.store
}

// State reports whether an access token is stored.
func (s *Session) State(ctx context.Context) (State, error) {
	p, err := s.store.Load(ctx)
	if err != nil {
		return Unauthorized, err
	}
	if p.IsZero() {
		return Unauthorized, nil
	}
	return Authorized, nil
}

// AccessToken returns the stored access token, or ErrAuthRequired when Unauthorized.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	p, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if p.IsZero() {
		return "", ErrAuthRequired
	}
	return p.AccessToken, nil
}

// Refresh obtains a new access token. Concurrent callers share one exchange with the vendor.
// A permanent rejection clears the store and yields ErrSessionInvalid; transient failures keep the tokens.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	if s.refresher == nil {
		return "", errors.New("token refresher not configured")
	}

	ch := s.group.DoChan("refresh", func() (interface{}, error) {
		// The exchange outlives a cancelled caller so peers waiting on it still get the result.
		rctx := context.WithoutCancel(ctx)
		access, err := s.refresher.Refresh(rctx)
		if err == nil {
			logging.InfoContext(ctx, "zoho access token refreshed")
			return access, nil
		}
		if isPermanentRefreshError(err) {
			logging.WarnContext(ctx, "zoho refresh rejected, clearing stored credentials", "error", err)
			if clearErr := s.store.Clear(rctx); clearErr != nil {
				logging.ErrorContext(ctx, "failed to clear credentials", "error", clearErr)
			}
			return "", fmt.Errorf("%w: %w", ErrSessionInvalid, err)
		}
		logging.WarnContext(ctx, "transient zoho refresh failure, credentials kept", "error", err)
		return "", err
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Logout clears the stored pair. Logging out twice is fine.
func (s *Session) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

var permanentMarkers = []string{
	"invalid_grant",
	"invalid_client",
	"unauthorized_client",
	"invalid_code",
	"token has been expired or revoked",
	"revoked",
}

func isPermanentRefreshError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoRefreshToken) {
		return true
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) && rerr.ErrorCode != "" {
		code := strings.ToLower(rerr.ErrorCode)
		for _, marker := range permanentMarkers {
			if code == marker {
				return true
			}
		}
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range permanentMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
