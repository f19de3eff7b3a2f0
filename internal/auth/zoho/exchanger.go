package zoho

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pysugar/zoho-dashboard/internal/auth/token"
	"github.com/pysugar/zoho-dashboard/internal/config"
	"github.com/pysugar/zoho-dashboard/internal/logging"
	"github.com/pysugar/zoho-dashboard/internal/util"
	"golang.org/x/oauth2"
)

// Exchanger talks to the vendor token endpoint and keeps the Store current.
type Exchanger struct {
	oauth      *oauth2.Config
	store      *token.Store
	httpClient *http.Client
}

// NewExchanger creates an exchanger. A nil httpClient uses a client with the configured timeout.
func NewExchanger(cfg config.ZohoConfig, store *token.Store, httpClient *http.Client) *Exchanger {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Exchanger{
		oauth:      NewOAuthConfig(cfg),
		store:      store,
		httpClient: httpClient,
	}
}

func (e *Exchanger) ctx(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)
}

// ExchangeCode trades an authorization code for a token pair and saves it.
// Any failure, including a 200 response carrying an error field, is an *ExchangeError.
func (e *Exchanger) ExchangeCode(ctx context.Context, code string) (token.Pair, error) {
	if code == "" {
		return token.Pair{}, &ExchangeError{Code: "missing_code"}
	}

	tok, err := e.oauth.Exchange(e.ctx(ctx), code)
	if err != nil {
		logging.WarnContext(ctx, "zoho code exchange failed", "error", err)
		return token.Pair{}, newExchangeError(err)
	}

	pair := pairFromToken(tok)
	if err := e.store.Save(ctx, pair); err != nil {
		return token.Pair{}, err
	}
	logging.InfoContext(ctx, "zoho account connected",
		"access_token", util.MaskToken(pair.AccessToken),
		"has_refresh_token", pair.RefreshToken != "",
		"api_domain", pair.APIDomain)
	return pair, nil
}

// Refresh uses the stored refresh token to obtain a new access token. Only the access token is
// replaced unless the vendor rotates the refresh token.
func (e *Exchanger) Refresh(ctx context.Context) (string, error) {
	current, err := e.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if current.RefreshToken == "" {
		return "", token.ErrNoRefreshToken
	}

	ts := e.oauth.TokenSource(e.ctx(ctx), &oauth2.Token{RefreshToken: current.RefreshToken})
	tok, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}

	rotated := ""
	if tok.RefreshToken != "" && tok.RefreshToken != current.RefreshToken {
		logging.InfoContext(ctx, "zoho rotated the refresh token")
		rotated = tok.RefreshToken
	}
	if err := e.store.UpdateAccessToken(ctx, tok.AccessToken, rotated, tok.Expiry); err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func pairFromToken(tok *oauth2.Token) token.Pair {
	p := token.Pair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
	if v, ok := tok.Extra("api_domain").(string); ok {
		p.APIDomain = v
	}
	if v, ok := tok.Extra("scope").(string); ok {
		p.Scope = v
	}
	return p
}
