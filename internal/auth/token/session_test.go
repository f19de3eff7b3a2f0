package token

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

type fakeRefresher struct {
	calls atomic.Int32
	delay time.Duration
	fn    func(ctx context.Context) (string, error)
}

func (f *fakeRefresher) Refresh(ctx context.Context) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.fn(ctx)
}

func TestSession_StateAndAccessToken(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestTokenDB(t))
	s := NewSession(store, nil)

	if st, _ := s.State(ctx); st != Unauthorized {
		t.Fatalf("expected unauthorized, got %v", st)
	}
	if _, err := s.AccessToken(ctx); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}

	if err := store.Save(ctx, Pair{AccessToken: "a"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if st, _ := s.State(ctx); st != Authorized {
		t.Fatalf("expected authorized, got %v", st)
	}
	tok, err := s.AccessToken(ctx)
	if err != nil || tok != "a" {
		t.Fatalf("AccessToken() = %q, %v", tok, err)
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if st, _ := s.State(ctx); st != Unauthorized {
		t.Fatalf("expected unauthorized after logout, got %v", st)
	}
}

func TestSession_RefreshSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestTokenDB(t))
	store.Save(ctx, Pair{AccessToken: "old", RefreshToken: "r"})

	ref := &fakeRefresher{fn: func(ctx context.Context) (string, error) { return "fresh", nil }}
	s := NewSession(store, ref)

	tok, err := s.Refresh(ctx)
	if err != nil || tok != "fresh" {
		t.Fatalf("Refresh() = %q, %v", tok, err)
	}
}

func TestSession_PermanentFailureClearsStore(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestTokenDB(t))
	store.Save(ctx, Pair{AccessToken: "old", RefreshToken: "revoked"})

	ref := &fakeRefresher{fn: func(ctx context.Context) (string, error) {
		return "", &oauth2.RetrieveError{ErrorCode: "invalid_code"}
	}}
	s := NewSession(store, ref)

	_, err := s.Refresh(ctx)
	if !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
	var rerr *oauth2.RetrieveError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected vendor error to stay wrapped, got %v", err)
	}
	if st, _ := s.State(ctx); st != Unauthorized {
		t.Fatalf("expected unauthorized after permanent failure, got %v", st)
	}
}

func TestSession_TransientFailureKeepsTokens(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestTokenDB(t))
	store.Save(ctx, Pair{AccessToken: "old", RefreshToken: "r"})

	boom := errors.New("dial tcp: connection refused")
	s := NewSession(store, &fakeRefresher{fn: func(ctx context.Context) (string, error) { return "", boom }})

	_, err := s.Refresh(ctx)
	if !errors.Is(err, boom) || errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected transient error, got %v", err)
	}
	p, _ := store.Load(ctx)
	if p.AccessToken != "old" || p.RefreshToken != "r" {
		t.Fatalf("tokens should be kept, got %+v", p)
	}
}

func TestSession_MissingRefreshTokenIsPermanent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestTokenDB(t))
	store.Save(ctx, Pair{AccessToken: "only-access"})

	s := NewSession(store, &fakeRefresher{fn: func(ctx context.Context) (string, error) { return "", ErrNoRefreshToken }})

	_, err := s.Refresh(ctx)
	if !errors.Is(err, ErrSessionInvalid) || !errors.Is(err, ErrNoRefreshToken) {
		t.Fatalf("expected ErrSessionInvalid wrapping ErrNoRefreshToken, got %v", err)
	}
}

func TestSession_ConcurrentRefreshIsCoalesced(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestTokenDB(t))
	store.Save(ctx, Pair{AccessToken: "old", RefreshToken: "r"})

	ref := &fakeRefresher{
		delay: 50 * time.Millisecond,
		fn:    func(ctx context.Context) (string, error) { return "fresh", nil },
	}
	s := NewSession(store, ref)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tok, err := s.Refresh(ctx); err != nil || tok != "fresh" {
				t.Errorf("Refresh() = %q, %v", tok, err)
			}
		}()
	}
	wg.Wait()

	if got := ref.calls.Load(); got != 1 {
		t.Fatalf("expected a single vendor refresh, got %d", got)
	}
}

func TestSession_RefreshHonoursCallerCancellation(t *testing.T) {
	store := NewStore(newTestTokenDB(t))
	ref := &fakeRefresher{
		delay: 200 * time.Millisecond,
		fn:    func(ctx context.Context) (string, error) { return "late", nil },
	}
	s := NewSession(store, ref)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := s.Refresh(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestIsPermanentRefreshError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		permanent bool
	}{
		{name: "invalid grant text", err: assertErr(`oauth2: cannot fetch token: 400 Bad Request {"error":"invalid_grant"}`), permanent: true},
		{name: "retrieve error code", err: &oauth2.RetrieveError{ErrorCode: "invalid_client"}, permanent: true},
		{name: "revoked", err: assertErr("token has been expired or revoked"), permanent: true},
		{name: "no refresh token", err: ErrNoRefreshToken, permanent: true},
		{name: "timeout", err: assertErr("context deadline exceeded"), permanent: false},
		{name: "temporary", err: &oauth2.RetrieveError{ErrorCode: "temporarily_unavailable"}, permanent: false},
		{name: "nil", err: nil, permanent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPermanentRefreshError(tt.err); got != tt.permanent {
				t.Fatalf("expected %v, got %v", tt.permanent, got)
			}
		})
	}
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
