// Package api is the HTTP client for the remote posts collection.
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
	"time"

	"github.com/devaloi/postboard/internal/domain"
)

// Maximum error body read when looking for a detail message.
const maxErrorBody = 64 << 10

// Client issues list and create requests against <base>/posts.
// It never retries.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// New returns a client for the API rooted at base, e.g.
// "http://localhost:8000/api/v1".
func New(base string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("api base: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base %q: missing scheme or host", base)
	}
	c := &Client{base: u, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) postsURL() string {
	return c.base.JoinPath("posts").String()
}

// ListAll fetches the whole collection. Every failure carries the same
// fixed message.
func (c *Client) ListAll(ctx context.Context) ([]domain.Post, error) {
	fail := func(status int, err error) error {
		return &NetworkError{Op: "list", StatusCode: status, Message: MsgFetchFailed, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.postsURL(), nil)
	if err != nil {
		return nil, fail(0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fail(0, err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return nil, fail(resp.StatusCode, nil)
	}

	posts := []domain.Post{}
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("decode posts: %w", err))
	}
	return posts, nil
}

// Create submits a new post. A rejected request reports the server's
// detail message when the error body carries one.
func (c *Client) Create(ctx context.Context, text string) (domain.Post, error) {
	fail := func(status int, msg string, err error) error {
		return &NetworkError{Op: "create", StatusCode: status, Message: msg, Err: err}
	}

	body, err := domain.Encode(domain.CreatePostRequest{Text: text})
	if err != nil {
		return domain.Post{}, fail(0, MsgCreateFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.postsURL(), bytes.NewReader(body))
	if err != nil {
		return domain.Post{}, fail(0, MsgCreateFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Post{}, fail(0, MsgCreateFailed, err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return domain.Post{}, fail(resp.StatusCode, detailOr(resp.Body, MsgCreateFailed), nil)
	}

	var p domain.Post
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return domain.Post{}, fail(resp.StatusCode, MsgCreateFailed, fmt.Errorf("decode post: %w", err))
	}
	return p, nil
}

func success(code int) bool {
	return code >= 200 && code <= 299
}

// detailOr returns the string "detail" field of a JSON error body, or
// fallback when the body is not JSON or the field is missing, empty or
// not a string.
func detailOr(r io.Reader, fallback string) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return fallback
	}
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return fallback
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil || detail == "" {
		return fallback
	}
	return detail
}
