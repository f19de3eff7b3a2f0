package zoho

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pysugar/zoho-dashboard/internal/auth/token"
	"github.com/pysugar/zoho-dashboard/internal/config"
)

type stubExchanger struct {
	codes []string
	err   error
}

func (s *stubExchanger) ExchangeCode(ctx context.Context, code string) (token.Pair, error) {
	s.codes = append(s.codes, code)
	if s.err != nil {
		return token.Pair{}, s.err
	}
	return token.Pair{AccessToken: "a"}, nil
}

func callbackRequest(query, state string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/zoho/callback?"+query, nil)
	if state != "" {
		req.AddCookie(&http.Cookie{Name: StateCookie, Value: state})
	}
	return req
}

func TestHandleCallback(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		cookie     string
		exErr      error
		wantStatus int
		wantCodes  int
		wantText   string
	}{
		{name: "success", query: "code=abc&state=s1", cookie: "s1", wantStatus: http.StatusOK, wantCodes: 1, wantText: "connected"},
		{name: "vendor error", query: "error=access_denied&state=s1", cookie: "s1", wantStatus: http.StatusBadRequest, wantText: "access_denied"},
		{name: "state mismatch", query: "code=abc&state=other", cookie: "s1", wantStatus: http.StatusBadRequest, wantText: "Invalid state"},
		{name: "missing state cookie", query: "code=abc&state=s1", wantStatus: http.StatusBadRequest, wantText: "Invalid state"},
		{name: "missing code", query: "state=s1", cookie: "s1", wantStatus: http.StatusBadRequest, wantText: "No authorization code"},
		{name: "exchange failure", query: "code=abc&state=s1", cookie: "s1", exErr: &ExchangeError{Code: "invalid_code"}, wantStatus: http.StatusBadGateway, wantCodes: 1, wantText: "invalid_code"},
		{name: "store failure", query: "code=abc&state=s1", cookie: "s1", exErr: errors.New("disk full"), wantStatus: http.StatusInternalServerError, wantCodes: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &stubExchanger{err: tt.exErr}
			rr := httptest.NewRecorder()
			HandleCallback(ex).ServeHTTP(rr, callbackRequest(tt.query, tt.cookie))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if len(ex.codes) != tt.wantCodes {
				t.Fatalf("exchange calls = %d, want %d", len(ex.codes), tt.wantCodes)
			}
			if tt.wantText != "" && !strings.Contains(rr.Body.String(), tt.wantText) {
				t.Fatalf("body missing %q: %s", tt.wantText, rr.Body.String())
			}
		})
	}
}

func TestHandleLogin_RedirectsWithState(t *testing.T) {
	cfg := testZohoConfig("")
	rr := httptest.NewRecorder()
	HandleLogin(cfg, NewAuthorizer(cfg)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/zoho/login", nil))

	if rr.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rr.Code)
	}
	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}

	var state string
	for _, c := range rr.Result().Cookies() {
		if c.Name == StateCookie {
			state = c.Value
		}
	}
	if state == "" || loc.Query().Get("state") != state {
		t.Fatalf("state cookie %q does not match redirect state %q", state, loc.Query().Get("state"))
	}
}

func TestHandleLogin_IncompleteConfig(t *testing.T) {
	cfg := config.Defaults().Zoho
	rr := httptest.NewRecorder()
	HandleLogin(cfg, NewAuthorizer(cfg)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/zoho/login", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "client_id") {
		t.Fatalf("expected guidance naming client_id, got %s", rr.Body.String())
	}
}
