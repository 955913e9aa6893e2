// Package backend talks to the city backend REST API. Responses are decoded
// into the raw citydata payload types and handed to the normalizer as is.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smartcity/libs/citydata"
)

const (
	DefaultTimeout = 10 * time.Second

	msgInvalidCredentials = "Invalid credentials. Please try again."
	msgTokenNotStored     = "Signed in, but the session could not be saved. Please try again."
)

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token() (string, bool)
}

// TokenSink receives the token issued by a successful login.
type TokenSink interface {
	Set(ctx context.Context, token string) error
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	sink    TokenSink
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

func WithTokenSink(sink TokenSink) Option {
	return func(c *Client) { c.sink = sink }
}

// New builds a client for baseURL. When tokens also implements TokenSink it
// receives login tokens unless WithTokenSink says otherwise.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
	}
	if sink, ok := tokens.(TokenSink); ok {
		c.sink = sink
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type LoginResult struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	User    *citydata.User `json:"user,omitempty"`
}

// Login exchanges credentials for a token and stores it. Failures are
// reported in the result, never as an error.
func (c *Client) Login(ctx context.Context, email, password string) LoginResult {
	var raw citydata.RawLogin
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &raw); err != nil {
		if IsStatus(err, http.StatusUnauthorized, http.StatusForbidden) {
			return LoginResult{Error: msgInvalidCredentials}
		}
		return LoginResult{Error: UserMessage(err)}
	}

	token := raw.TokenString()
	if token == "" {
		return LoginResult{Error: msgInvalidCredentials}
	}
	if c.sink != nil {
		if err := c.sink.Set(ctx, token); err != nil {
			return LoginResult{Error: msgTokenNotStored}
		}
	}
	user := citydata.NormalizeUser(raw)
	return LoginResult{Success: true, User: &user}
}

func (c *Client) Validate(ctx context.Context) (citydata.RawValidation, error) {
	var raw citydata.RawValidation
	err := c.do(ctx, http.MethodGet, "/auth/validate", nil, &raw)
	return raw, err
}

func (c *Client) KPIs(ctx context.Context) (citydata.RawKPIs, error) {
	var raw citydata.RawKPIs
	err := c.do(ctx, http.MethodGet, "/dashboard/kpis", nil, &raw)
	return raw, err
}

func (c *Client) Dashboard(ctx context.Context) (citydata.RawDashboard, error) {
	var raw citydata.RawDashboard
	err := c.do(ctx, http.MethodGet, "/dashboard", nil, &raw)
	return raw, err
}

func (c *Client) Analytics(ctx context.Context) (citydata.RawAnalytics, error) {
	var raw citydata.RawAnalytics
	err := c.do(ctx, http.MethodGet, "/dashboard/analytics", nil, &raw)
	return raw, err
}

// Cameras returns the decoded camera list, expected to be a JSON array.
func (c *Client) Cameras(ctx context.Context) (any, error) {
	var raw any
	err := c.do(ctx, http.MethodGet, "/cameras", nil, &raw)
	return raw, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindDecode, Path: path, Message: err.Error(), Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindTransport, Path: path, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		msg := err.Error()
		if strings.TrimSpace(msg) == "" {
			msg = msgNetworkError
		}
		return &Error{Kind: KindTransport, Path: path, Message: msg, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &Error{Kind: KindHTTP, Path: path, Status: resp.StatusCode, Message: httpErrorMessage(resp.StatusCode, respBody)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty response body")
		}
		return &Error{Kind: KindDecode, Path: path, Status: resp.StatusCode, Message: err.Error(), Err: err}
	}
	return nil
}

// httpErrorMessage prefers the body's message, then its error field. A body
// that is not JSON yields "HTTP <status>: <status text>".
func httpErrorMessage(status int, body []byte) string {
	var payload struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}
	for _, v := range []any{payload.Message, payload.Error} {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return msgRequestFail
}
