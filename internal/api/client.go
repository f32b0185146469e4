package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// TokenSource yields the current bearer token, "" when logged out.
// *session.Session satisfies this.
type TokenSource interface {
	Token() string
}

// Client is the one HTTP wrapper every domain façade goes through.
// The token source and the 401 hook are injected so the client never
// mutates session state itself.
type Client struct {
	base           string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

// New builds a client for base (no trailing slash). onUnauthorized
// runs once per 401 response, before the error is returned; pass nil
// to opt out.
func New(base string, tokens TokenSource, onUnauthorized func()) *Client {
	return &Client{
		base:           strings.TrimRight(base, "/"),
		http:           &http.Client{},
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
	}
}

// StatusError is any non-2xx response, carrying the server's detail
// message when it sent one.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("http %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("http %d", e.Code)
}

// NetworkError means the request never produced a response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// do issues one request and decodes the JSON response into out (when
// out is non-nil). body, when non-nil, is marshaled as JSON.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rdr io.Reader
	contentType := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		rdr = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.roundTrip(ctx, method, path, query, rdr, contentType, out)
}

// doForm posts a form-encoded body (the login endpoint wants
// credentials as form fields, not JSON).
func (c *Client) doForm(ctx context.Context, method, path string, form url.Values, out any) error {
	return c.roundTrip(ctx, method, path, nil, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", out)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &StatusError{Code: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readDetail pulls the server's {"detail": ...} message out of an
// error body. FastAPI-style validation errors carry a non-string
// detail; those are rendered verbatim.
func readDetail(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 1<<16))
	if err != nil || len(b) == 0 {
		return ""
	}
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(b, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}
	return string(env.Detail)
}
