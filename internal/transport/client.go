package transport

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

	"golang.org/x/oauth2"

	"mico/internal/api"
	"mico/pkg/logging"
)

// Result tells whether a POST or DELETE response carried a body.
type Result int

const (
	// Content means the body was present and decoded into the output value.
	Content Result = iota
	// NoContent means the backend answered 2xx with an empty body.
	NoContent
)

func (r Result) String() string {
	if r == NoContent {
		return "no content"
	}
	return "content"
}

// DefaultTimeout applies when Options.HTTPClient is nil.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the backend API root, e.g. http://localhost:8080.
	BaseURL string
	// HTTPClient is used for every request; defaults to a client with DefaultTimeout.
	HTTPClient *http.Client
	// TokenSource supplies the bearer token when a call does not pass one.
	TokenSource oauth2.TokenSource
	// UserAgent is sent with every request when set.
	UserAgent string
}

// Client performs JSON requests against the MICO backend.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    oauth2.TokenSource
	userAgent string
}

// New validates the options and builds a Client.
func New(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", base)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		baseURL:   strings.TrimSuffix(base, "/"),
		http:      httpClient,
		tokens:    opts.TokenSource,
		userAgent: opts.UserAgent,
	}, nil
}

// BaseURL returns the configured API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOption adjusts a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	token   string
	rawBody bool
	query   url.Values
}

// WithToken sends token as the bearer token, overriding the token source.
func WithToken(token string) RequestOption {
	return func(o *requestOptions) {
		o.token = token
	}
}

// WithRawBody sends the body without JSON encoding. The body must then be a
// []byte, a string or an io.Reader.
func WithRawBody() RequestOption {
	return func(o *requestOptions) {
		o.rawBody = true
	}
}

// WithQuery appends query parameters to the request URL.
func WithQuery(query url.Values) RequestOption {
	return func(o *requestOptions) {
		o.query = query
	}
}

// Get fetches ref and decodes the body into out.
func (c *Client) Get(ctx context.Context, ref api.Ref, out any, opts ...RequestOption) error {
	_, err := c.do(ctx, http.MethodGet, ref, nil, out, false, opts)
	return err
}

// Post sends body to ref. An empty response body yields NoContent.
func (c *Client) Post(ctx context.Context, ref api.Ref, body any, out any, opts ...RequestOption) (Result, error) {
	return c.do(ctx, http.MethodPost, ref, body, out, true, opts)
}

// Put sends body to ref and decodes the response into out.
func (c *Client) Put(ctx context.Context, ref api.Ref, body any, out any, opts ...RequestOption) error {
	_, err := c.do(ctx, http.MethodPut, ref, body, out, false, opts)
	return err
}

// Delete removes ref. An empty response body yields NoContent.
func (c *Client) Delete(ctx context.Context, ref api.Ref, out any, opts ...RequestOption) (Result, error) {
	return c.do(ctx, http.MethodDelete, ref, nil, out, true, opts)
}

func (c *Client) do(ctx context.Context, method string, ref api.Ref, body any, out any, allowEmpty bool, opts []RequestOption) (Result, error) {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	target, err := c.Resolve(ref)
	if err != nil {
		return Content, fmt.Errorf("resolve %s reference: %w", ref.Kind(), err)
	}
	target = withQuery(target, o.query)

	reader, err := encodeBody(body, o.rawBody)
	if err != nil {
		return Content, fmt.Errorf("%s %s: %w", method, target, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return Content, fmt.Errorf("build request %s %s: %w", method, target, err)
	}
	if err := c.setHeaders(req, o); err != nil {
		return Content, err
	}

	logging.Debug("Transport", "%s %s", method, target)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Content, ctxErr
		}
		return Content, ClassifyConnectionError(err, target)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Content, fmt.Errorf("read response of %s %s: %w", method, target, err)
	}
	logging.Debug("Transport", "%s %s -> %d (%d bytes)", method, target, resp.StatusCode, len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Content, &HTTPError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		if allowEmpty {
			return NoContent, nil
		}
		return Content, fmt.Errorf("%s %s: %w", method, target, ErrEmptyBody)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return Content, fmt.Errorf("decode response of %s %s: %w", method, target, err)
		}
	}
	return Content, nil
}

func (c *Client) setHeaders(req *http.Request, o requestOptions) error {
	if !o.rawBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/hal+json, application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	token := o.token
	if token == "" && c.tokens != nil {
		t, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("obtain bearer token: %w", err)
		}
		token = t.AccessToken
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func encodeBody(body any, raw bool) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	if !raw {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(data), nil
	}

	switch b := body.(type) {
	case []byte:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	case io.Reader:
		return b, nil
	default:
		return nil, fmt.Errorf("raw body must be []byte, string or io.Reader, got %T", body)
	}
}
