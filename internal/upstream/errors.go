package upstream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pysugar/zoho-dashboard/internal/util"
)

// APIError is a non-2xx vendor response that the gateway did not recover from.
type APIError struct {
	Method string
	URL    string
	Status int
	// Code and Message are taken from the vendor error body when it has one.
	Code    string
	Message string
	// RetryAfter is the wait advertised by a 429 response. The gateway does not act on it.
	RetryAfter time.Duration
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("zoho api %s %s: %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unauthorized reports whether the vendor still rejected the token after the retry.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func newAPIError(method, target string, resp *response) *APIError {
	code, message := parseVendorError(resp.body)
	apiErr := &APIError{
		Method:  method,
		URL:     target,
		Status:  resp.status,
		Code:    code,
		Message: message,
		Body:    util.TruncateBytes(resp.body),
	}
	if resp.status == http.StatusTooManyRequests {
		apiErr.RetryAfter = parseRetryAfter(resp.header.Get("Retry-After"))
	}
	return apiErr
}

// vendorErrorBody covers the error envelopes used across the vendor products.
type vendorErrorBody struct {
	// CRM: {"code":"INVALID_TOKEN","message":"invalid oauth token","status":"error"}
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	// Accounts: {"error":"invalid_code"}
	Error string `json:"error"`
	// People: {"response":{"errors":{"code":7202,"message":"..."}}}
	Response struct {
		Errors struct {
			Code    json.RawMessage `json:"code"`
			Message string          `json:"message"`
		} `json:"errors"`
	} `json:"response"`
}

func parseVendorError(body []byte) (code, message string) {
	var v vendorErrorBody
	if len(body) == 0 || json.Unmarshal(body, &v) != nil {
		return "", ""
	}
	switch {
	case rawString(v.Code) != "":
		return rawString(v.Code), v.Message
	case v.Error != "":
		return v.Error, v.Message
	case rawString(v.Response.Errors.Code) != "" || v.Response.Errors.Message != "":
		return rawString(v.Response.Errors.Code), v.Response.Errors.Message
	}
	return "", v.Message
}

func rawString(raw json.RawMessage) string {
	if string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// parseRetryAfter accepts delta-seconds or an HTTP date. Returns 0 when absent or unparseable.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
