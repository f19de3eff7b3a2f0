// Package upstream is the authenticated request gateway to the vendor APIs.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/pysugar/zoho-dashboard/internal/logging"
	"github.com/pysugar/zoho-dashboard/internal/util"
)

const (
	// DefaultAuthScheme prefixes the access token in the Authorization header.
	DefaultAuthScheme = "Zoho-oauthtoken"
	DefaultTimeout    = 30 * time.Second
	// UserAgent identifies the dashboard to the vendor.
	UserAgent = "zoho-dashboard/1.0"

	maxResponseBody = 10 << 20
)

// TokenSource is satisfied by *token.Session.
type TokenSource interface {
	// AccessToken returns token.ErrAuthRequired when no token is stored.
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// Observer receives every HTTP exchange, including the retry after a refresh.
type Observer interface {
	ObserveCall(ctx context.Context, call Call)
}

// Call describes one HTTP exchange with the vendor.
type Call struct {
	Method       string
	URL          string
	Status       int
	Duration     time.Duration
	Attempt      int
	Err          error
	ResponseBody []byte
}

// Request describes a vendor API call. Body is JSON encoded; Form is form encoded.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	Body   interface{}
	Form   url.Values
	Header http.Header
}

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client
	AuthScheme string
	Timeout    time.Duration
	Observer   Observer
}

// Client attaches the stored access token to vendor requests. On a 401 it refreshes
// once and retries once.
type Client struct {
	httpClient *http.Client
	tokens     TokenSource
	scheme     string
	observer   Observer
}

// NewClient creates a new gateway over tokens. Zero-valued options take the defaults.
func NewClient(tokens TokenSource, opts Options) *Client {
	if err := mergo.Merge(&opts, Options{AuthScheme: DefaultAuthScheme, Timeout: DefaultTimeout}); err != nil {
		logging.Warn("failed to apply gateway option defaults", "error", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		tokens:     tokens,
		scheme:     opts.AuthScheme,
		observer:   opts.Observer,
	}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// Do performs req and decodes a 2xx JSON body into out (which may be nil).
// Without a stored token it fails with token.ErrAuthRequired before any network I/O.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	target, err := buildURL(req.URL, req.Query)
	if err != nil {
		return err
	}

	access, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	payload, contentType, err := encodeBody(req)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, req, target, payload, contentType, access, 1)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized {
		logging.InfoContext(ctx, "zoho returned 401, refreshing access token", "url", target)
		access, err = c.tokens.Refresh(ctx)
		if err != nil {
			return err
		}
		resp, err = c.send(ctx, req, target, payload, contentType, access, 2)
		if err != nil {
			return err
		}
	}

	if resp.status < 200 || resp.status > 299 {
		return newAPIError(req.Method, target, resp)
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", target, err)
	}
	return nil
}

// send performs one HTTP exchange. The body is rebuilt from payload so a retry resends it intact.
func (c *Client) send(ctx context.Context, req Request, target string, payload []byte, contentType, access string, attempt int) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Authorization", c.scheme+" "+access)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", UserAgent)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(ctx, Call{Method: req.Method, URL: target, Duration: time.Since(start), Attempt: attempt, Err: err})
		return nil, fmt.Errorf("%s %s: %w", req.Method, target, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	elapsed := time.Since(start)
	if err != nil {
		c.observe(ctx, Call{Method: req.Method, URL: target, Status: httpResp.StatusCode, Duration: elapsed, Attempt: attempt, Err: err})
		return nil, fmt.Errorf("read %s response: %w", target, err)
	}

	c.observe(ctx, Call{Method: req.Method, URL: target, Status: httpResp.StatusCode, Duration: elapsed, Attempt: attempt, ResponseBody: data})
	logging.Trace("zoho response", "url", target, "status", httpResp.StatusCode, "body", util.TruncateBytes(data))
	if logger := logging.FromContext(ctx); logger != nil {
		logger.Debug("zoho call", "method", req.Method, "url", target, "status", httpResp.StatusCode,
			"attempt", attempt, "duration_ms", elapsed.Milliseconds(), "token", util.MaskToken(access))
	}

	return &response{status: httpResp.StatusCode, header: httpResp.Header, body: data}, nil
}

func (c *Client) observe(ctx context.Context, call Call) {
	if c.observer != nil {
		c.observer.ObserveCall(ctx, call)
	}
}

func buildURL(raw string, query url.Values) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid request url %q: %w", raw, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(req Request) ([]byte, string, error) {
	switch {
	case req.Form != nil:
		return []byte(req.Form.Encode()), "application/x-www-form-urlencoded", nil
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return data, "application/json", nil
	default:
		return nil, "", nil
	}
}

// JoinURL appends path segments to a base URL, escaping each segment.
func JoinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(strings.Trim(s, "/")))
	}
	return b.String()
}
